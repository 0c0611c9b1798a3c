package cash

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/coin"
	"github.com/iov-one/testament/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file.
// Address is in hex, not base64.
type GenesisAccount struct {
	Address testament.Address `json:"address"`
	Coins   coin.Coins        `json:"coins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ testament.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts testament.Options, db testament.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	ctrl := NewController()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, c := range acct.Coins {
			if c == nil {
				continue
			}
			if err := ctrl.IssueCoins(db, acct.Address, *c); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
	}
	return nil
}
