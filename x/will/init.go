package will

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/gconf"
	"github.com/iov-one/testament/x/cash"
)

const optKey = "will"

// GenesisWill describes a will created at genesis. LastCheckIn is
// required, there is no block time at genesis.
type GenesisWill struct {
	Owner           testament.Address   `json:"owner"`
	Executors       []testament.Address `json:"executors"`
	Quorum          int32               `json:"quorum"`
	IntervalSeconds int64               `json:"interval_seconds"`
	LastCheckIn     testament.UnixTime  `json:"last_check_in"`
	Allocations     []GenesisAllocation `json:"allocations"`
}

// GenesisAllocation is a beneficiary share of a genesis will.
type GenesisAllocation struct {
	Beneficiary testament.Address `json:"beneficiary"`
	Share       int64             `json:"share"`
}

// Initializer loads the configuration and the wills from genesis.
type Initializer struct{}

var _ testament.Initializer = Initializer{}

// FromGenesis stores the "conf.will" configuration and creates every
// will of the "will" section with an empty custody account.
func (Initializer) FromGenesis(opts testament.Options, db testament.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, Extension, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}

	var gws []GenesisWill
	if err := opts.ReadOptions(optKey, &gws); err != nil {
		return err
	}
	wills := NewWillBucket()
	registry := NewRegistry()
	custody := cash.NewCustody(cash.NewController(), Extension)
	for i, g := range gws {
		if err := validateExecutors(g.Executors); err != nil {
			return errors.Wrapf(err, "will %d", i)
		}
		quorum, err := ResolveQuorum(g.Quorum, len(g.Executors))
		if err != nil {
			return errors.Wrapf(err, "will %d", i)
		}
		if g.LastCheckIn.IsZero() {
			return errors.Wrapf(errors.ErrEmpty, "will %d: last check in", i)
		}
		id, err := wills.NextID(db)
		if err != nil {
			return err
		}
		w := &Will{
			Owner:           g.Owner,
			Executors:       g.Executors,
			Quorum:          quorum,
			IntervalSeconds: g.IntervalSeconds,
			LastCheckIn:     g.LastCheckIn,
			State:           WillActive,
			ShareTotal:      conf.ShareTotal,
			Address:         CustodyAddress(id),
		}
		if _, err := wills.Put(db, id, w); err != nil {
			return errors.Wrapf(err, "will %d", i)
		}
		if err := custody.Open(db, w.Address); err != nil {
			return errors.Wrapf(err, "will %d", i)
		}
		for _, a := range g.Allocations {
			if err := registry.Set(db, id, w.ShareTotal, a.Beneficiary, a.Share); err != nil {
				return errors.Wrapf(err, "will %d allocation", i)
			}
		}
	}
	return nil
}
