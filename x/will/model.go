package will

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/coin"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/orm"
)

// WillState is the lifecycle state of a will.
type WillState int32

const (
	WillActive      WillState = 1
	WillTriggerable WillState = 2
	WillExecuted    WillState = 3
	WillCancelled   WillState = 4
)

var willStateNames = map[WillState]string{
	WillActive:      "active",
	WillTriggerable: "triggerable",
	WillExecuted:    "executed",
	WillCancelled:   "cancelled",
}

func (s WillState) String() string {
	if n, ok := willStateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("WillState(%d)", int32(s))
}

// IsTerminal returns true for states that cannot be left.
func (s WillState) IsTerminal() bool {
	return s == WillExecuted || s == WillCancelled
}

// Will is the persisted state of a single will.
//
// Quorum is the number of distinct executor approvals required to
// execute the will. ShareTotal is the normalized total of all allocation
// shares, copied from the configuration when the will is created.
// Address is the custody account holding the will funds.
type Will struct {
	Owner           testament.Address   `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	Executors       []testament.Address `protobuf:"bytes,2,rep,name=executors,proto3" json:"executors,omitempty"`
	Quorum          int32               `protobuf:"varint,3,opt,name=quorum,proto3" json:"quorum,omitempty"`
	IntervalSeconds int64               `protobuf:"varint,4,opt,name=interval_seconds,json=intervalSeconds,proto3" json:"interval_seconds,omitempty"`
	LastCheckIn     testament.UnixTime  `protobuf:"varint,5,opt,name=last_check_in,json=lastCheckIn,proto3" json:"last_check_in,omitempty"`
	Approvals       []testament.Address `protobuf:"bytes,6,rep,name=approvals,proto3" json:"approvals,omitempty"`
	State           WillState           `protobuf:"varint,7,opt,name=state,proto3" json:"state,omitempty"`
	ShareTotal      int64               `protobuf:"varint,8,opt,name=share_total,json=shareTotal,proto3" json:"share_total,omitempty"`
	Address         testament.Address   `protobuf:"bytes,9,opt,name=address,proto3" json:"address,omitempty"`
}

func (m *Will) Reset()         { *m = Will{} }
func (m *Will) String() string { return proto.CompactTextString(m) }
func (*Will) ProtoMessage()    {}

var _ orm.Model = (*Will)(nil)

func (w *Will) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", w.Owner.Validate())
	errs = errors.AppendField(errs, "Executors", validateExecutors(w.Executors))
	if w.Quorum < 1 || int(w.Quorum) > len(w.Executors) {
		errs = errors.AppendField(errs, "Quorum", errors.Wrapf(ErrConstruction, "quorum %d of %d executors", w.Quorum, len(w.Executors)))
	}
	if w.IntervalSeconds <= 0 {
		errs = errors.AppendField(errs, "IntervalSeconds", errors.Wrap(ErrConstruction, "must be positive"))
	}
	errs = errors.AppendField(errs, "LastCheckIn", w.LastCheckIn.Validate())
	if len(w.Approvals) > len(w.Executors) {
		errs = errors.AppendField(errs, "Approvals", errors.Wrap(errors.ErrState, "more approvals than executors"))
	}
	for i, a := range w.Approvals {
		if !w.IsExecutor(a) {
			errs = errors.AppendField(errs, "Approvals", errors.Wrapf(ErrNotAnExecutor, "approval %d", i))
		}
		for _, b := range w.Approvals[:i] {
			if a.Equals(b) {
				errs = errors.AppendField(errs, "Approvals", errors.Wrapf(ErrAlreadyApproved, "approval %d", i))
			}
		}
	}
	if _, ok := willStateNames[w.State]; !ok {
		errs = errors.AppendField(errs, "State", errors.Wrapf(errors.ErrState, "unknown state %d", w.State))
	}
	if w.ShareTotal <= 0 {
		errs = errors.AppendField(errs, "ShareTotal", errors.Wrap(errors.ErrInput, "must be positive"))
	}
	errs = errors.AppendField(errs, "Address", w.Address.Validate())
	return errs
}

func validateExecutors(executors []testament.Address) error {
	if len(executors) == 0 {
		return errors.Wrap(ErrConstruction, "at least one executor required")
	}
	for i, e := range executors {
		if err := e.Validate(); err != nil {
			return errors.Wrapf(ErrConstruction, "executor %d: %s", i, err)
		}
		for _, prev := range executors[:i] {
			if e.Equals(prev) {
				return errors.Wrapf(ErrConstruction, "duplicated executor %s", e)
			}
		}
	}
	return nil
}

// ResolveQuorum returns the quorum for n executors. Zero means a
// majority, floor(n/2)+1.
func ResolveQuorum(quorum int32, n int) (int32, error) {
	if quorum == 0 {
		return int32(n/2 + 1), nil
	}
	if quorum < 0 || int(quorum) > n {
		return 0, errors.Wrapf(ErrConstruction, "quorum %d of %d executors", quorum, n)
	}
	return quorum, nil
}

// DueAt returns the moment from which the will can be triggered.
func (w *Will) DueAt() testament.UnixTime {
	return w.LastCheckIn.AddSeconds(w.IntervalSeconds)
}

// IsDue returns true if the whole interval passed since the last check
// in.
func (w *Will) IsDue(now testament.UnixTime) bool {
	return now >= w.DueAt()
}

// IsExecutor returns true if given address is one of the executors.
func (w *Will) IsExecutor(addr testament.Address) bool {
	return containsAddress(w.Executors, addr)
}

// HasApproved returns true if given executor approved the current
// release attempt.
func (w *Will) HasApproved(addr testament.Address) bool {
	return containsAddress(w.Approvals, addr)
}

// QuorumReached returns true if enough executors approved.
func (w *Will) QuorumReached() bool {
	return len(w.Approvals) >= int(w.Quorum)
}

func containsAddress(list []testament.Address, addr testament.Address) bool {
	for _, a := range list {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// CustodyAddress returns the address of the custody account of the will
// with given ID.
func CustodyAddress(id []byte) testament.Address {
	return testament.NewCondition("will", "seq", id).Address()
}

// WillBucket stores wills by their sequence ID.
type WillBucket struct {
	orm.ModelBucket
	seq orm.Sequence
}

// NewWillBucket returns a bucket indexing wills by owner and executors.
func NewWillBucket() *WillBucket {
	seq := orm.NewSequence("will", "id")
	return &WillBucket{
		seq: seq,
		ModelBucket: orm.NewModelBucket("will", &Will{},
			orm.WithIDSequence(seq),
			orm.WithIndex("owner", ownerIndex, false),
			orm.WithIndex("executor", executorIndex, false),
		),
	}
}

// NextID reserves the ID of a new will.
func (b *WillBucket) NextID(db testament.KVStore) ([]byte, error) {
	return b.seq.NextVal(db)
}

func ownerIndex(m orm.Model) ([][]byte, error) {
	w, ok := m.(*Will)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return [][]byte{w.Owner}, nil
}

func executorIndex(m orm.Model) ([][]byte, error) {
	w, ok := m.(*Will)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	keys := make([][]byte, len(w.Executors))
	for i, e := range w.Executors {
		keys[i] = e
	}
	return keys, nil
}

// DisbursementRecord is the audit record of what a beneficiary received
// when a will was executed.
type DisbursementRecord struct {
	WillID      []byte             `protobuf:"bytes,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	Beneficiary testament.Address  `protobuf:"bytes,2,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
	Share       int64              `protobuf:"varint,3,opt,name=share,proto3" json:"share,omitempty"`
	Amount      coin.Coins         `protobuf:"bytes,4,rep,name=amount,proto3" json:"amount,omitempty"`
	ExecutedAt  testament.UnixTime `protobuf:"varint,5,opt,name=executed_at,json=executedAt,proto3" json:"executed_at,omitempty"`
}

func (m *DisbursementRecord) Reset()         { *m = DisbursementRecord{} }
func (m *DisbursementRecord) String() string { return proto.CompactTextString(m) }
func (*DisbursementRecord) ProtoMessage()    {}

func (d *DisbursementRecord) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "WillID", validateID(d.WillID))
	errs = errors.AppendField(errs, "Beneficiary", d.Beneficiary.Validate())
	if d.Share <= 0 {
		errs = errors.AppendField(errs, "Share", errors.ErrInput)
	}
	if !d.Amount.IsNonNegative() {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	return errs
}

// NewDisbursementBucket returns the bucket of disbursement records, keyed
// by will ID and beneficiary address.
func NewDisbursementBucket() orm.ModelBucket {
	return orm.NewModelBucket("disbursement", &DisbursementRecord{})
}

func validateID(id []byte) error {
	switch n := len(id); {
	case n == 0:
		return errors.Wrap(errors.ErrEmpty, "will ID")
	case n != 8:
		return errors.Wrapf(errors.ErrInput, "will ID must be 8 bytes, got %d", n)
	}
	return nil
}

// Configuration is the global configuration of the will extension.
type Configuration struct {
	Owner              testament.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	ShareTotal         int64             `protobuf:"varint,2,opt,name=share_total,json=shareTotal,proto3" json:"share_total,omitempty"`
	MaxExecutors       int32             `protobuf:"varint,3,opt,name=max_executors,json=maxExecutors,proto3" json:"max_executors,omitempty"`
	MinIntervalSeconds int64             `protobuf:"varint,4,opt,name=min_interval_seconds,json=minIntervalSeconds,proto3" json:"min_interval_seconds,omitempty"`
	CancelPolicy       CancelPolicy      `protobuf:"varint,5,opt,name=cancel_policy,json=cancelPolicy,proto3" json:"cancel_policy,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

func (c *Configuration) GetOwner() testament.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	if c.ShareTotal <= 0 {
		errs = errors.AppendField(errs, "ShareTotal", errors.ErrInput)
	}
	if c.MaxExecutors <= 0 {
		errs = errors.AppendField(errs, "MaxExecutors", errors.ErrInput)
	}
	if c.MinIntervalSeconds <= 0 {
		errs = errors.AppendField(errs, "MinIntervalSeconds", errors.ErrInput)
	}
	if c.CancelPolicy != CancelForbidden && c.CancelPolicy != CancelAllowed {
		errs = errors.AppendField(errs, "CancelPolicy", errors.ErrInput)
	}
	return errs
}

// CancelPolicy decides if the owner can cancel a will.
type CancelPolicy int32

const (
	CancelForbidden CancelPolicy = 1
	CancelAllowed   CancelPolicy = 2
)

// StatusReport is the result of a will status query.
type StatusReport struct {
	Will        *Will              `protobuf:"bytes,1,opt,name=will,proto3" json:"will,omitempty"`
	Triggerable bool               `protobuf:"varint,2,opt,name=triggerable,proto3" json:"triggerable,omitempty"`
	Approvals   int32              `protobuf:"varint,3,opt,name=approvals,proto3" json:"approvals,omitempty"`
	Quorum      int32              `protobuf:"varint,4,opt,name=quorum,proto3" json:"quorum,omitempty"`
	DueAt       testament.UnixTime `protobuf:"varint,5,opt,name=due_at,json=dueAt,proto3" json:"due_at,omitempty"`
	Balance     coin.Coins         `protobuf:"bytes,6,rep,name=balance,proto3" json:"balance,omitempty"`
}

func (m *StatusReport) Reset()         { *m = StatusReport{} }
func (m *StatusReport) String() string { return proto.CompactTextString(m) }
func (*StatusReport) ProtoMessage()    {}
