package will

import (
	"context"
	"fmt"
	"time"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/coin"
	"github.com/iov-one/testament/gconf"
	"github.com/iov-one/testament/store"
	"github.com/iov-one/testament/willtest"
	"github.com/iov-one/testament/x/cash"
)

// t0 is the block time of will creation in all tests.
const t0 int64 = 1500000000

type testRouter map[string]testament.Handler

func (r testRouter) Handle(path string, h testament.Handler) {
	r[path] = h
}

// env is a single application state with the will handlers registered.
// Every delivered message is applied atomically, a failing handler
// leaves the store untouched.
type env struct {
	db       store.CacheableKVStore
	auth     *willtest.CtxAuth
	ctrl     cash.BaseController
	handlers testRouter

	admin     testament.Condition
	owner     testament.Condition
	executors []testament.Condition
}

func newEnv(policy CancelPolicy, executors int) *env {
	e := &env{
		db:       store.MemStore(),
		auth:     &willtest.CtxAuth{Key: "auth"},
		ctrl:     cash.NewController(),
		handlers: make(testRouter),
		admin:    willtest.NewCondition(),
		owner:    willtest.NewCondition(),
	}
	for i := 0; i < executors; i++ {
		e.executors = append(e.executors, willtest.NewCondition())
	}
	RegisterRoutes(e.handlers, e.auth, e.ctrl)
	e.must(gconf.Save(e.db, Extension, &Configuration{
		Owner:              e.admin.Address(),
		ShareTotal:         100,
		MaxExecutors:       5,
		MinIntervalSeconds: 10,
		CancelPolicy:       policy,
	}))
	e.must(e.ctrl.IssueCoins(e.db, e.owner.Address(), coin.NewCoin(1000, 0, "IOV")))
	return e
}

func (e *env) must(err error) {
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
}

func (e *env) ctx(at int64, signers ...testament.Condition) testament.Context {
	ctx := testament.WithBlockTime(context.Background(), time.Unix(at, 0))
	return e.auth.SetConditions(ctx, signers...)
}

func (e *env) deliver(at int64, msg testament.Msg, signers ...testament.Condition) (*testament.DeliverResult, error) {
	h, ok := e.handlers[msg.Path()]
	if !ok {
		panic("no handler for " + msg.Path())
	}
	cache := e.db.CacheWrap()
	res, err := h.Deliver(e.ctx(at, signers...), cache, &willtest.Tx{Msg: msg})
	if err != nil {
		cache.Discard()
		return nil, err
	}
	e.must(cache.Write())
	return res, nil
}

func (e *env) check(at int64, msg testament.Msg, signers ...testament.Condition) error {
	cache := e.db.CacheWrap()
	defer cache.Discard()
	_, err := e.handlers[msg.Path()].Check(e.ctx(at, signers...), cache, &willtest.Tx{Msg: msg})
	return err
}

func (e *env) executorAddrs() []testament.Address {
	addrs := make([]testament.Address, len(e.executors))
	for i, c := range e.executors {
		addrs[i] = c.Address()
	}
	return addrs
}

// create makes a will with all executors of the environment, funded
// with given amount of IOV.
func (e *env) create(quorum int32, interval int64, fund int64) []byte {
	msg := &CreateMsg{
		Owner:           e.owner.Address(),
		Executors:       e.executorAddrs(),
		Quorum:          quorum,
		IntervalSeconds: interval,
	}
	if fund > 0 {
		msg.Amount = coin.Coins{coin.NewCoinp(fund, 0, "IOV")}
	}
	res, err := e.deliver(t0, msg, e.owner)
	e.must(err)
	return res.Data
}

func (e *env) will(id []byte) *Will {
	var w Will
	e.must(NewWillBucket().One(e.db, id, &w))
	return &w
}

func (e *env) balance(addr testament.Address) coin.Coins {
	b, err := e.ctrl.Balance(e.db, addr)
	e.must(err)
	return b
}

// trigger moves the will into the triggerable state.
func (e *env) trigger(id []byte) {
	w := e.will(id)
	_, err := e.deliver(int64(w.DueAt()), &CheckTriggerMsg{WillID: id})
	e.must(err)
}

func (e *env) approveAll(id []byte, n int) {
	at := int64(e.will(id).DueAt())
	for _, ex := range e.executors[:n] {
		_, err := e.deliver(at, &ApproveMsg{WillID: id, Executor: ex.Address()}, ex)
		e.must(err)
	}
}

func (e *env) allocate(id []byte, shares map[string]int64) map[string]testament.Address {
	addrs := make(map[string]testament.Address)
	for name, share := range shares {
		addr := willtest.NewCondition().Address()
		addrs[name] = addr
		_, err := e.deliver(t0, &SetAllocationMsg{WillID: id, Beneficiary: addr, Share: share}, e.owner)
		e.must(err)
	}
	return addrs
}
