package will

import (
	"bytes"
	"testing"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/coin"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/willtest"
	"github.com/iov-one/testament/willtest/assert"
	"github.com/iov-one/testament/x/cash"
)

func TestCreateWill(t *testing.T) {
	cases := map[string]struct {
		Executors int
		Quorum    int32
		Interval  int64
		Fund      int64
		Signer    bool
		WantErr   *errors.Error
		// Funding is not verified by Check.
		CheckPasses bool
		// WantQuorum is checked only on success.
		WantQuorum int32
	}{
		"majority quorum by default": {
			Executors:  3,
			Interval:   100,
			Signer:     true,
			WantQuorum: 2,
		},
		"explicit quorum and funding": {
			Executors:  2,
			Quorum:     1,
			Interval:   100,
			Fund:       40,
			Signer:     true,
			WantQuorum: 1,
		},
		"owner signature missing": {
			Executors: 2,
			Interval:  100,
			WantErr:   errors.ErrUnauthorized,
		},
		"too many executors": {
			Executors: 6,
			Interval:  100,
			Signer:    true,
			WantErr:   ErrConstruction,
		},
		"interval below configured minimum": {
			Executors: 2,
			Interval:  5,
			Signer:    true,
			WantErr:   ErrConstruction,
		},
		"quorum larger than executor set": {
			Executors: 2,
			Quorum:    3,
			Interval:  100,
			Signer:    true,
			WantErr:   ErrConstruction,
		},
		"no executors": {
			Executors: 0,
			Interval:  100,
			Signer:    true,
			WantErr:   ErrConstruction,
		},
		"funding above owner balance": {
			Executors:   2,
			Interval:    100,
			Fund:        5000,
			Signer:      true,
			WantErr:     errors.ErrInsufficientAmount,
			CheckPasses: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := newEnv(CancelForbidden, tc.Executors)
			msg := &CreateMsg{
				Owner:           e.owner.Address(),
				Executors:       e.executorAddrs(),
				Quorum:          tc.Quorum,
				IntervalSeconds: tc.Interval,
			}
			if tc.Fund > 0 {
				msg.Amount = coin.Coins{coin.NewCoinp(tc.Fund, 0, "IOV")}
			}
			var signers []testament.Condition
			if tc.Signer {
				signers = append(signers, e.owner)
			}

			wantCheck := tc.WantErr
			if tc.CheckPasses {
				wantCheck = nil
			}
			if err := e.check(t0, msg, signers...); !wantCheck.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			res, err := e.deliver(t0, msg, signers...)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if tc.WantErr != nil {
				assert.IsErr(t, errors.ErrNotFound, NewWillBucket().Has(e.db, willtest.SequenceID(1)))
				assert.Equal(t, coin.Coins{coin.NewCoinp(1000, 0, "IOV")}, e.balance(e.owner.Address()))
				return
			}

			assert.Equal(t, willtest.SequenceID(1), res.Data)
			w := e.will(res.Data)
			assert.Equal(t, WillActive, w.State)
			assert.Equal(t, tc.WantQuorum, w.Quorum)
			assert.Equal(t, testament.UnixTime(t0), w.LastCheckIn)
			assert.Equal(t, int64(100), w.ShareTotal)
			assert.Equal(t, CustodyAddress(res.Data), w.Address)

			custody, err := cash.IsCustody(e.db, w.Address)
			assert.Nil(t, err)
			assert.Equal(t, true, custody)

			if tc.Fund > 0 {
				assert.Equal(t, coin.Coins{coin.NewCoinp(tc.Fund, 0, "IOV")}, e.balance(w.Address))
			} else {
				assert.Equal(t, true, e.balance(w.Address).IsEmpty())
			}
		})
	}
}

func TestOwnerOperationsRequireActiveWill(t *testing.T) {
	cases := map[string]struct {
		Prepare func(e *env, id []byte)
		Signer  func(e *env) testament.Condition
		ID      []byte
		WantErr *errors.Error
	}{
		"owner can check in": {
			Signer: func(e *env) testament.Condition { return e.owner },
		},
		"executor cannot check in": {
			Signer:  func(e *env) testament.Condition { return e.executors[0] },
			WantErr: errors.ErrUnauthorized,
		},
		"unknown will": {
			Signer:  func(e *env) testament.Condition { return e.owner },
			ID:      willtest.SequenceID(42),
			WantErr: errors.ErrNotFound,
		},
		"triggerable will": {
			Prepare: func(e *env, id []byte) { e.trigger(id) },
			Signer:  func(e *env) testament.Condition { return e.owner },
			WantErr: errors.ErrState,
		},
		"executed will": {
			Prepare: func(e *env, id []byte) {
				e.allocate(id, map[string]int64{"alice": 100})
				e.trigger(id)
				e.approveAll(id, 2)
				_, err := e.deliver(int64(e.will(id).DueAt()), &ExecuteMsg{WillID: id})
				e.must(err)
			},
			Signer:  func(e *env) testament.Condition { return e.owner },
			WantErr: ErrAlreadyExecuted,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := newEnv(CancelForbidden, 2)
			id := e.create(2, 100, 10)
			if tc.Prepare != nil {
				tc.Prepare(e, id)
			}
			target := id
			if tc.ID != nil {
				target = tc.ID
			}
			const at = t0 + 50

			checkin := &CheckInMsg{WillID: target}
			if err := e.check(at, checkin, tc.Signer(e)); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			if _, err := e.deliver(at, checkin, tc.Signer(e)); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			alloc := &SetAllocationMsg{WillID: target, Beneficiary: willtest.NewCondition().Address(), Share: 1}
			if _, err := e.deliver(at, alloc, tc.Signer(e)); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected set allocation error: %+v", err)
			}
			if tc.WantErr == nil {
				assert.Equal(t, testament.UnixTime(at), e.will(id).LastCheckIn)
			}
		})
	}
}

func TestSetAllocation(t *testing.T) {
	e := newEnv(CancelForbidden, 2)
	id := e.create(0, 100, 0)
	alice := willtest.NewCondition().Address()
	bob := willtest.NewCondition().Address()
	registry := NewRegistry()

	set := func(b testament.Address, share int64) error {
		_, err := e.deliver(t0, &SetAllocationMsg{WillID: id, Beneficiary: b, Share: share}, e.owner)
		return err
	}
	sum := func() int64 {
		s, err := registry.Allocations(e.db, id).Sum()
		assert.Nil(t, err)
		return s
	}

	assert.Nil(t, set(alice, 60))
	assert.Nil(t, set(bob, 40))
	assert.Equal(t, int64(100), sum())

	assert.IsErr(t, ErrAllocationOverflow, set(bob, 41))
	assert.Equal(t, int64(100), sum())

	// The will cannot pay out to itself.
	assert.IsErr(t, errors.ErrInput, set(CustodyAddress(id), 0))
	assert.IsErr(t, errors.ErrInput, set(CustodyAddress(id), 10))
	assert.Equal(t, int64(100), sum())

	// Replacing a share does not count the old one.
	assert.Nil(t, set(alice, 10))
	assert.Equal(t, int64(50), sum())

	// Zero share removes the beneficiary.
	assert.Nil(t, set(bob, 0))
	all, err := registry.Allocations(e.db, id).All()
	assert.Nil(t, err)
	assert.Equal(t, 1, len(all))
	assert.Equal(t, alice, all[0].Beneficiary)

	_, err = e.deliver(t0, &RemoveAllocationMsg{WillID: id, Beneficiary: bob}, e.owner)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = e.deliver(t0, &RemoveAllocationMsg{WillID: id, Beneficiary: alice}, e.executors[0])
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = e.deliver(t0, &RemoveAllocationMsg{WillID: id, Beneficiary: alice}, e.owner)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), sum())
}

func TestCheckTrigger(t *testing.T) {
	e := newEnv(CancelForbidden, 2)
	id := e.create(0, 100, 0)

	_, err := e.deliver(t0+99, &CheckTriggerMsg{WillID: id})
	assert.IsErr(t, ErrNotYetDue, err)
	assert.Equal(t, WillActive, e.will(id).State)

	_, err = e.deliver(t0, &CheckTriggerMsg{WillID: id}, willtest.NewCondition())
	assert.IsErr(t, ErrNotYetDue, err)

	// Due exactly at the end of the interval, no signature required.
	_, err = e.deliver(t0+100, &CheckTriggerMsg{WillID: id})
	assert.Nil(t, err)
	assert.Equal(t, WillTriggerable, e.will(id).State)

	_, err = e.deliver(t0+200, &CheckTriggerMsg{WillID: id})
	assert.IsErr(t, errors.ErrState, err)
}

func TestApprove(t *testing.T) {
	e := newEnv(CancelForbidden, 3)
	id := e.create(2, 100, 0)
	at := t0 + 100
	stranger := willtest.NewCondition()
	first, second := e.executors[0], e.executors[1]

	_, err := e.deliver(at, &ApproveMsg{WillID: id, Executor: first.Address()}, first)
	assert.IsErr(t, errors.ErrState, err)

	e.trigger(id)

	_, err = e.deliver(at, &ApproveMsg{WillID: id, Executor: stranger.Address()}, stranger)
	assert.IsErr(t, ErrNotAnExecutor, err)
	_, err = e.deliver(at, &ApproveMsg{WillID: id}, stranger)
	assert.IsErr(t, ErrNotAnExecutor, err)
	_, err = e.deliver(at, &ApproveMsg{WillID: id})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = e.deliver(at, &ApproveMsg{WillID: id, Executor: first.Address()}, second)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = e.deliver(at, &ApproveMsg{WillID: id, Executor: first.Address()}, first)
	assert.Nil(t, err)
	_, err = e.deliver(at, &ApproveMsg{WillID: id, Executor: first.Address()}, first)
	assert.IsErr(t, ErrAlreadyApproved, err)

	// Executor defaults to the main signer.
	_, err = e.deliver(at, &ApproveMsg{WillID: id}, second)
	assert.Nil(t, err)

	w := e.will(id)
	assert.Equal(t, []testament.Address{first.Address(), second.Address()}, w.Approvals)
	assert.Equal(t, true, w.QuorumReached())
}

func TestExecute(t *testing.T) {
	t.Run("quorum not reached", func(t *testing.T) {
		e := newEnv(CancelForbidden, 3)
		id := e.create(2, 100, 10)
		e.allocate(id, map[string]int64{"alice": 100})
		e.trigger(id)
		e.approveAll(id, 1)

		_, err := e.deliver(t0+100, &ExecuteMsg{WillID: id})
		assert.IsErr(t, ErrQuorum, err)
		assert.Equal(t, WillTriggerable, e.will(id).State)
	})

	t.Run("active will", func(t *testing.T) {
		e := newEnv(CancelForbidden, 1)
		id := e.create(1, 100, 10)
		_, err := e.deliver(t0+100, &ExecuteMsg{WillID: id})
		assert.IsErr(t, errors.ErrState, err)
	})

	t.Run("proportional disbursement", func(t *testing.T) {
		e := newEnv(CancelForbidden, 2)
		id := e.create(2, 100, 10)
		funder := willtest.NewCondition()
		e.must(e.ctrl.IssueCoins(e.db, funder.Address(), coin.NewCoin(3, 0, "BTC")))
		// Anyone can fund a will by moving coins to its custody address.
		e.must(e.ctrl.MoveCoins(e.db, funder.Address(), CustodyAddress(id), coin.NewCoin(3, 0, "BTC")))

		bens := e.allocate(id, map[string]int64{"alice": 50, "bob": 30, "carol": 20})
		e.trigger(id)
		e.approveAll(id, 2)

		res, err := e.deliver(t0+100, &ExecuteMsg{WillID: id})
		assert.Nil(t, err)
		assert.Equal(t, 3, len(res.Tags))

		assert.Equal(t, WillExecuted, e.will(id).State)
		assert.Equal(t, 0, len(e.will(id).Approvals))
		assert.Equal(t, true, e.balance(CustodyAddress(id)).IsEmpty())

		assert.Equal(t, coin.NewCoin(5, 0, "IOV"), e.balance(bens["alice"]).Get("IOV"))
		assert.Equal(t, coin.NewCoin(3, 0, "IOV"), e.balance(bens["bob"]).Get("IOV"))
		assert.Equal(t, coin.NewCoin(2, 0, "IOV"), e.balance(bens["carol"]).Get("IOV"))
		assert.Equal(t, coin.NewCoin(1, 500000000, "BTC"), e.balance(bens["alice"]).Get("BTC"))
		assert.Equal(t, coin.NewCoin(0, 900000000, "BTC"), e.balance(bens["bob"]).Get("BTC"))
		assert.Equal(t, coin.NewCoin(0, 600000000, "BTC"), e.balance(bens["carol"]).Get("BTC"))

		var rec DisbursementRecord
		assert.Nil(t, NewDisbursementBucket().One(e.db, allocationKey(id, bens["bob"]), &rec))
		assert.Equal(t, int64(30), rec.Share)
		assert.Equal(t, testament.UnixTime(t0+100), rec.ExecutedAt)

		_, err = e.deliver(t0+101, &ExecuteMsg{WillID: id})
		assert.IsErr(t, ErrAlreadyExecuted, err)
	})

	t.Run("rounding remainder goes to the first largest share", func(t *testing.T) {
		e := newEnv(CancelForbidden, 1)
		id := e.create(1, 100, 10)
		bens := e.allocate(id, map[string]int64{"a": 1, "b": 1, "c": 1})
		e.trigger(id)
		e.approveAll(id, 1)

		_, err := e.deliver(t0+100, &ExecuteMsg{WillID: id})
		assert.Nil(t, err)

		var first testament.Address
		for _, b := range bens {
			if first == nil || bytes.Compare(b, first) < 0 {
				first = b
			}
		}
		total := coin.Coins{}
		for _, b := range bens {
			got := e.balance(b).Get("IOV")
			want := coin.NewCoin(3, 333333333, "IOV")
			if b.Equals(first) {
				want = coin.NewCoin(3, 333333334, "IOV")
			}
			assert.Equal(t, want, got)
			total, err = total.Add(got)
			assert.Nil(t, err)
		}
		assert.Equal(t, coin.Coins{coin.NewCoinp(10, 0, "IOV")}, total)
		assert.Equal(t, true, e.balance(CustodyAddress(id)).IsEmpty())
	})
}

func TestCancel(t *testing.T) {
	t.Run("forbidden by configuration", func(t *testing.T) {
		e := newEnv(CancelForbidden, 2)
		id := e.create(0, 100, 10)
		_, err := e.deliver(t0+1, &CancelMsg{WillID: id}, e.owner)
		assert.IsErr(t, errors.ErrUnauthorized, err)
		assert.Equal(t, WillActive, e.will(id).State)
	})

	t.Run("allowed", func(t *testing.T) {
		e := newEnv(CancelAllowed, 2)
		id := e.create(0, 100, 10)
		e.trigger(id)
		e.approveAll(id, 1)

		_, err := e.deliver(t0+100, &CancelMsg{WillID: id}, e.executors[0])
		assert.IsErr(t, errors.ErrUnauthorized, err)

		res, err := e.deliver(t0+100, &CancelMsg{WillID: id}, e.owner)
		assert.Nil(t, err)
		assert.Equal(t, 1, len(res.Tags))

		w := e.will(id)
		assert.Equal(t, WillCancelled, w.State)
		assert.Equal(t, 0, len(w.Approvals))
		assert.Equal(t, true, e.balance(w.Address).IsEmpty())
		assert.Equal(t, coin.Coins{coin.NewCoinp(1000, 0, "IOV")}, e.balance(e.owner.Address()))

		_, err = e.deliver(t0+100, &CancelMsg{WillID: id}, e.owner)
		assert.IsErr(t, errors.ErrState, err)
		_, err = e.deliver(t0+100, &CheckInMsg{WillID: id}, e.owner)
		assert.IsErr(t, errors.ErrState, err)
	})
}

func TestUpdateConfiguration(t *testing.T) {
	e := newEnv(CancelForbidden, 1)
	id := e.create(0, 100, 0)

	patch := &UpdateConfigurationMsg{Patch: &Configuration{CancelPolicy: CancelAllowed}}
	_, err := e.deliver(t0, patch, e.owner)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = e.deliver(t0, patch, e.admin)
	assert.Nil(t, err)

	conf, err := loadConfig(e.db)
	assert.Nil(t, err)
	assert.Equal(t, CancelAllowed, conf.CancelPolicy)
	assert.Equal(t, int64(100), conf.ShareTotal)

	_, err = e.deliver(t0+1, &CancelMsg{WillID: id}, e.owner)
	assert.Nil(t, err)
}

func TestStatusQuery(t *testing.T) {
	e := newEnv(CancelForbidden, 3)
	id := e.create(0, 100, 10)
	q := StatusQuery{wills: NewWillBucket(), ctrl: e.ctrl}

	report, err := Status(e.ctx(t0+99), e.db, q.wills, e.ctrl, id)
	assert.Nil(t, err)
	assert.Equal(t, false, report.Triggerable)
	assert.Equal(t, int32(2), report.Quorum)
	assert.Equal(t, testament.UnixTime(t0+100), report.DueAt)
	assert.Equal(t, coin.Coins{coin.NewCoinp(10, 0, "IOV")}, report.Balance)

	report, err = Status(e.ctx(t0+100), e.db, q.wills, e.ctrl, id)
	assert.Nil(t, err)
	assert.Equal(t, true, report.Triggerable)
	assert.Equal(t, WillActive, report.Will.State)

	models, err := q.Query(e.ctx(t0+100), e.db, testament.KeyQueryMod, id)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	assert.Equal(t, id, models[0].Key)

	_, err = q.Query(e.ctx(t0), e.db, testament.KeyQueryMod, willtest.SequenceID(9))
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = q.Query(e.ctx(t0), e.db, testament.PrefixQueryMod, id)
	assert.IsErr(t, errors.ErrInput, err)
}
