package will

import (
	"encoding/hex"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/coin"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/gconf"
	"github.com/iov-one/testament/orm"
	"github.com/iov-one/testament/x"
	"github.com/iov-one/testament/x/cash"
)

// Extension is the name under which the will extension keeps its
// configuration and owns custody accounts.
const Extension = "will"

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r testament.Registry, auth x.Authenticator, ctrl cash.Controller) {
	wills := NewWillBucket()
	registry := NewRegistry()
	custody := cash.NewCustody(ctrl, Extension)

	r.Handle(pathCreate, CreateHandler{auth: auth, wills: wills, custody: custody, ctrl: ctrl})
	r.Handle(pathCheckIn, CheckInHandler{auth: auth, wills: wills})
	r.Handle(pathSetAllocation, SetAllocationHandler{auth: auth, wills: wills, registry: registry})
	r.Handle(pathRemoveAllocation, RemoveAllocationHandler{auth: auth, wills: wills, registry: registry})
	r.Handle(pathCheckTrigger, CheckTriggerHandler{wills: wills})
	r.Handle(pathApprove, ApproveHandler{auth: auth, wills: wills})
	r.Handle(pathReviveCheckIn, ReviveCheckInHandler{auth: auth, wills: wills})
	r.Handle(pathExecute, ExecuteHandler{
		wills:         wills,
		registry:      registry,
		custody:       custody,
		disbursements: NewDisbursementBucket(),
	})
	r.Handle(pathCancel, CancelHandler{auth: auth, wills: wills, custody: custody})
	r.Handle(pathUpdateConfiguration, gconf.NewUpdateConfigurationHandler(Extension, &Configuration{}, auth))
}

// RegisterQuery registers the will buckets under "/wills",
// "/allocations" and "/disbursements" and the status report under
// "/wills/status".
func RegisterQuery(qr testament.QueryRouter, ctrl cash.Controller) {
	wills := NewWillBucket()
	wills.Register("wills", qr)
	NewRegistry().Register(qr)
	NewDisbursementBucket().Register("disbursements", qr)
	qr.Register("/wills/status", StatusQuery{wills: wills, ctrl: ctrl})
}

// loadWill returns the will with given ID if its state is one of the
// allowed ones. An executed will is reported with ErrAlreadyExecuted,
// any other unexpected state with ErrState.
func loadWill(db testament.ReadOnlyKVStore, wills *WillBucket, id []byte, allowed ...WillState) (*Will, error) {
	var w Will
	if err := wills.One(db, id, &w); err != nil {
		return nil, errors.Wrapf(err, "will %X", id)
	}
	for _, s := range allowed {
		if w.State == s {
			return &w, nil
		}
	}
	if w.State == WillExecuted {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "will %X", id)
	}
	return nil, errors.Wrapf(errors.ErrState, "will %X is %s", id, w.State)
}

func requireOwner(ctx testament.Context, auth x.Authenticator, w *Will) error {
	if !auth.HasAddress(ctx, w.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	return nil
}

func now(ctx testament.Context) (testament.UnixTime, error) {
	t, err := testament.BlockTime(ctx)
	if err != nil {
		return 0, err
	}
	return testament.AsUnixTime(t), nil
}

func logTransition(ctx testament.Context, id []byte, w *Will, action string) {
	testament.GetLogger(ctx).Info("will transition",
		"will", hex.EncodeToString(id),
		"action", action,
		"state", w.State.String())
}

func loadConfig(db testament.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, Extension, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// CreateHandler creates new wills and opens their custody accounts.
type CreateHandler struct {
	auth    x.Authenticator
	wills   *WillBucket
	custody *cash.Custody
	ctrl    cash.Controller
}

var _ testament.Handler = CreateHandler{}

func (h CreateHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{}, nil
}

// Deliver stores the will and moves the initial funding, if any, into
// the custody account. The result data is the new will ID.
func (h CreateHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	id, err := h.wills.NextID(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire will ID")
	}
	w.Address = CustodyAddress(id)
	if _, err := h.wills.Put(db, id, w); err != nil {
		return nil, errors.Wrap(err, "cannot store will")
	}
	if err := h.custody.Open(db, w.Address); err != nil {
		return nil, errors.Wrap(err, "cannot open custody")
	}
	for _, c := range msg.Amount {
		if err := h.ctrl.MoveCoins(db, w.Owner, w.Address, *c); err != nil {
			return nil, errors.Wrap(err, "fund will")
		}
	}
	logTransition(ctx, id, w, "create")
	return &testament.DeliverResult{Data: id}, nil
}

// validate returns the will to be created, without the ID bound fields.
func (h CreateHandler) validate(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*CreateMsg, *Will, error) {
	var msg CreateMsg
	if err := testament.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConfig(db)
	if err != nil {
		return nil, nil, err
	}
	if n := len(msg.Executors); n > int(conf.MaxExecutors) {
		return nil, nil, errors.Wrapf(ErrConstruction, "%d executors, at most %d allowed", n, conf.MaxExecutors)
	}
	if msg.IntervalSeconds < conf.MinIntervalSeconds {
		return nil, nil, errors.Wrapf(ErrConstruction, "interval shorter than %d seconds", conf.MinIntervalSeconds)
	}
	if !h.auth.HasAddress(ctx, msg.Owner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	quorum, err := ResolveQuorum(msg.Quorum, len(msg.Executors))
	if err != nil {
		return nil, nil, err
	}
	created, err := now(ctx)
	if err != nil {
		return nil, nil, err
	}
	w := &Will{
		Owner:           msg.Owner,
		Executors:       msg.Executors,
		Quorum:          quorum,
		IntervalSeconds: msg.IntervalSeconds,
		LastCheckIn:     created,
		State:           WillActive,
		ShareTotal:      conf.ShareTotal,
	}
	return &msg, w, nil
}

// CheckInHandler resets the timer of an active will.
type CheckInHandler struct {
	auth  x.Authenticator
	wills *WillBucket
}

var _ testament.Handler = CheckInHandler{}

func (h CheckInHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{}, nil
}

func (h CheckInHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if w.LastCheckIn, err = now(ctx); err != nil {
		return nil, err
	}
	if _, err := h.wills.Put(db, msg.WillID, w); err != nil {
		return nil, errors.Wrap(err, "cannot store will")
	}
	logTransition(ctx, msg.WillID, w, "checkin")
	return &testament.DeliverResult{}, nil
}

func (h CheckInHandler) validate(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*CheckInMsg, *Will, error) {
	var msg CheckInMsg
	if err := testament.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	w, err := loadWill(db, h.wills, msg.WillID, WillActive)
	if err != nil {
		return nil, nil, err
	}
	if err := requireOwner(ctx, h.auth, w); err != nil {
		return nil, nil, err
	}
	return &msg, w, nil
}

// SetAllocationHandler changes the share of a beneficiary.
type SetAllocationHandler struct {
	auth     x.Authenticator
	wills    *WillBucket
	registry *Registry
}

var _ testament.Handler = SetAllocationHandler{}

// Check applies the change too, the registry sum can be verified only
// against the stored allocations.
func (h SetAllocationHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{}, nil
}

func (h SetAllocationHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	if err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.DeliverResult{}, nil
}

func (h SetAllocationHandler) apply(ctx testament.Context, db testament.KVStore, tx testament.Tx) error {
	var msg SetAllocationMsg
	if err := testament.LoadMsg(tx, &msg); err != nil {
		return errors.Wrap(err, "load msg")
	}
	w, err := loadWill(db, h.wills, msg.WillID, WillActive)
	if err != nil {
		return err
	}
	if err := requireOwner(ctx, h.auth, w); err != nil {
		return err
	}
	return h.registry.Set(db, msg.WillID, w.ShareTotal, msg.Beneficiary, msg.Share)
}

// RemoveAllocationHandler removes a beneficiary.
type RemoveAllocationHandler struct {
	auth     x.Authenticator
	wills    *WillBucket
	registry *Registry
}

var _ testament.Handler = RemoveAllocationHandler{}

func (h RemoveAllocationHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{}, nil
}

func (h RemoveAllocationHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	if err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.DeliverResult{}, nil
}

func (h RemoveAllocationHandler) apply(ctx testament.Context, db testament.KVStore, tx testament.Tx) error {
	var msg RemoveAllocationMsg
	if err := testament.LoadMsg(tx, &msg); err != nil {
		return errors.Wrap(err, "load msg")
	}
	w, err := loadWill(db, h.wills, msg.WillID, WillActive)
	if err != nil {
		return err
	}
	if err := requireOwner(ctx, h.auth, w); err != nil {
		return err
	}
	return h.registry.Remove(db, msg.WillID, msg.Beneficiary)
}

// CheckTriggerHandler moves a due will into the triggerable state. It
// requires no signature.
type CheckTriggerHandler struct {
	wills *WillBucket
}

var _ testament.Handler = CheckTriggerHandler{}

func (h CheckTriggerHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{}, nil
}

func (h CheckTriggerHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	w.State = WillTriggerable
	if _, err := h.wills.Put(db, msg.WillID, w); err != nil {
		return nil, errors.Wrap(err, "cannot store will")
	}
	logTransition(ctx, msg.WillID, w, "trigger")
	return &testament.DeliverResult{}, nil
}

func (h CheckTriggerHandler) validate(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*CheckTriggerMsg, *Will, error) {
	var msg CheckTriggerMsg
	if err := testament.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	w, err := loadWill(db, h.wills, msg.WillID, WillActive)
	if err != nil {
		return nil, nil, err
	}
	t, err := now(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !w.IsDue(t) {
		return nil, nil, errors.Wrapf(ErrNotYetDue, "due at %s", w.DueAt())
	}
	return &msg, w, nil
}

// ApproveHandler records an executor approval.
type ApproveHandler struct {
	auth  x.Authenticator
	wills *WillBucket
}

var _ testament.Handler = ApproveHandler{}

func (h ApproveHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{}, nil
}

func (h ApproveHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, w, executor, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	w.Approvals = append(w.Approvals, executor)
	if _, err := h.wills.Put(db, msg.WillID, w); err != nil {
		return nil, errors.Wrap(err, "cannot store will")
	}
	testament.GetLogger(ctx).Info("will approved",
		"will", hex.EncodeToString(msg.WillID),
		"executor", executor.String(),
		"approvals", len(w.Approvals),
		"quorum", w.Quorum)
	return &testament.DeliverResult{}, nil
}

func (h ApproveHandler) validate(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*ApproveMsg, *Will, testament.Address, error) {
	var msg ApproveMsg
	if err := testament.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	w, err := loadWill(db, h.wills, msg.WillID, WillTriggerable)
	if err != nil {
		return nil, nil, nil, err
	}

	executor := msg.Executor
	if executor == nil {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "executor signature required")
		}
		executor = signer.Address()
	}
	if !w.IsExecutor(executor) {
		return nil, nil, nil, errors.Wrapf(ErrNotAnExecutor, "%s", executor)
	}
	if !h.auth.HasAddress(ctx, executor) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "executor signature required")
	}
	if w.HasApproved(executor) {
		return nil, nil, nil, errors.Wrapf(ErrAlreadyApproved, "%s", executor)
	}
	return &msg, w, executor, nil
}

// ReviveCheckInHandler lets the owner bring a triggerable will back to
// active.
type ReviveCheckInHandler struct {
	auth  x.Authenticator
	wills *WillBucket
}

var _ testament.Handler = ReviveCheckInHandler{}

func (h ReviveCheckInHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{}, nil
}

func (h ReviveCheckInHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if w.LastCheckIn, err = now(ctx); err != nil {
		return nil, err
	}
	w.Approvals = nil
	w.State = WillActive
	if _, err := h.wills.Put(db, msg.WillID, w); err != nil {
		return nil, errors.Wrap(err, "cannot store will")
	}
	logTransition(ctx, msg.WillID, w, "revive")
	return &testament.DeliverResult{}, nil
}

func (h ReviveCheckInHandler) validate(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*ReviveCheckInMsg, *Will, error) {
	var msg ReviveCheckInMsg
	if err := testament.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	w, err := loadWill(db, h.wills, msg.WillID, WillTriggerable)
	if err != nil {
		return nil, nil, err
	}
	if err := requireOwner(ctx, h.auth, w); err != nil {
		return nil, nil, err
	}
	return &msg, w, nil
}

// ExecuteHandler disburses the will funds once the quorum is reached. It
// requires no signature.
type ExecuteHandler struct {
	wills         *WillBucket
	registry      *Registry
	custody       *cash.Custody
	disbursements orm.ModelBucket
}

var _ testament.Handler = ExecuteHandler{}

func (h ExecuteHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{}, nil
}

// Deliver splits the custody balance between the beneficiaries
// proportionally to their shares and marks the will executed. The
// custody balance ends at zero.
func (h ExecuteHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, w, allocs, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	executedAt, err := now(ctx)
	if err != nil {
		return nil, err
	}

	balance, err := h.custody.Balance(db, w.Address)
	if err != nil {
		return nil, errors.Wrap(err, "custody balance")
	}
	weights := make([]int64, len(allocs))
	for i, a := range allocs {
		weights[i] = a.Share
	}
	parts, err := coin.SplitCoins(balance, weights)
	if err != nil {
		return nil, errors.Wrap(err, "split balance")
	}
	payouts := make([]cash.Payout, len(allocs))
	for i, a := range allocs {
		payouts[i] = cash.Payout{Beneficiary: a.Beneficiary, Amount: parts[i]}
	}
	disbursed, err := h.custody.Disburse(db, w.Address, payouts)
	if err != nil {
		return nil, errors.Wrap(err, "disburse")
	}

	for i, a := range allocs {
		rec := &DisbursementRecord{
			WillID:      msg.WillID,
			Beneficiary: a.Beneficiary,
			Share:       a.Share,
			Amount:      parts[i],
			ExecutedAt:  executedAt,
		}
		if _, err := h.disbursements.Put(db, allocationKey(msg.WillID, a.Beneficiary), rec); err != nil {
			return nil, errors.Wrap(err, "cannot store disbursement record")
		}
	}

	w.State = WillExecuted
	w.Approvals = nil
	if _, err := h.wills.Put(db, msg.WillID, w); err != nil {
		return nil, errors.Wrap(err, "cannot store will")
	}
	logTransition(ctx, msg.WillID, w, "execute")
	return &testament.DeliverResult{Tags: cash.DisbursementTags(disbursed)}, nil
}

func (h ExecuteHandler) validate(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*ExecuteMsg, *Will, []*Allocation, error) {
	var msg ExecuteMsg
	if err := testament.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	w, err := loadWill(db, h.wills, msg.WillID, WillTriggerable)
	if err != nil {
		return nil, nil, nil, err
	}
	if !w.QuorumReached() {
		return nil, nil, nil, errors.Wrapf(ErrQuorum, "%d of %d approvals", len(w.Approvals), w.Quorum)
	}
	allocs, err := h.registry.Allocations(db, msg.WillID).All()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(allocs) == 0 {
		return nil, nil, nil, errors.Wrapf(ErrNoBeneficiaries, "will %X", msg.WillID)
	}
	return &msg, w, allocs, nil
}

// CancelHandler irrevocably cancels a will, if the configuration allows
// it, and returns the custody balance to the owner.
type CancelHandler struct {
	auth    x.Authenticator
	wills   *WillBucket
	custody *cash.Custody
}

var _ testament.Handler = CancelHandler{}

func (h CancelHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{}, nil
}

func (h CancelHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	returned, err := h.custody.Release(db, w.Address, w.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "return funds")
	}
	w.State = WillCancelled
	w.Approvals = nil
	if _, err := h.wills.Put(db, msg.WillID, w); err != nil {
		return nil, errors.Wrap(err, "cannot store will")
	}
	logTransition(ctx, msg.WillID, w, "cancel")

	res := &testament.DeliverResult{}
	if !returned.IsEmpty() {
		res.Tags = cash.DisbursementTags([]*cash.Disbursement{{
			Source:      w.Address,
			Beneficiary: w.Owner,
			Amount:      returned,
		}})
	}
	return res, nil
}

func (h CancelHandler) validate(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*CancelMsg, *Will, error) {
	var msg CancelMsg
	if err := testament.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	w, err := loadWill(db, h.wills, msg.WillID, WillActive, WillTriggerable)
	if err != nil {
		return nil, nil, err
	}
	if err := requireOwner(ctx, h.auth, w); err != nil {
		return nil, nil, err
	}
	conf, err := loadConfig(db)
	if err != nil {
		return nil, nil, err
	}
	if conf.CancelPolicy != CancelAllowed {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "cancellation is not allowed")
	}
	return &msg, w, nil
}
