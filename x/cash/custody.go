package cash

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/coin"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/orm"
	"github.com/tendermint/tendermint/libs/common"
)

// Payout is a single transfer requested from a custody account.
type Payout struct {
	Beneficiary testament.Address
	Amount      coin.Coins
}

// Custody is the capability to move coins out of custody accounts
// opened by a single extension. Only the extension constructing the
// handle holds it, there is no way to get it from the store.
type Custody struct {
	ctrl     Controller
	ext      string
	accounts orm.ModelBucket
}

// NewCustody returns a custody handle bound to given extension name.
func NewCustody(ctrl Controller, extension string) *Custody {
	if extension == "" {
		panic("custody extension name required")
	}
	return &Custody{
		ctrl:     ctrl,
		ext:      extension,
		accounts: NewCustodyBucket(),
	}
}

// Open registers given address as a custody account of this extension.
// Opening an account that this extension already owns is a no-op.
func (c *Custody) Open(db testament.KVStore, addr testament.Address) error {
	var acc CustodyAccount
	switch err := c.accounts.One(db, addr, &acc); {
	case err == nil:
		if acc.Extension != c.ext {
			return errors.Wrapf(errors.ErrDuplicate, "account owned by %q", acc.Extension)
		}
		return nil
	case errors.ErrNotFound.Is(err):
	default:
		return err
	}
	_, err := c.accounts.Put(db, addr, &CustodyAccount{Address: addr, Extension: c.ext})
	return err
}

// IsCustody returns true if the address is a custody account of any
// extension.
func IsCustody(db testament.ReadOnlyKVStore, addr testament.Address) (bool, error) {
	switch err := NewCustodyBucket().Has(db, addr); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

func (c *Custody) authorize(db testament.ReadOnlyKVStore, addr testament.Address) error {
	var acc CustodyAccount
	if err := c.accounts.One(db, addr, &acc); err != nil {
		if errors.ErrNotFound.Is(err) {
			return errors.Wrap(errors.ErrUnauthorized, "not a custody account")
		}
		return err
	}
	if acc.Extension != c.ext {
		return errors.Wrapf(errors.ErrUnauthorized, "custody account owned by %q", acc.Extension)
	}
	return nil
}

// Balance returns the coins held by a custody account.
func (c *Custody) Balance(db testament.ReadOnlyKVStore, addr testament.Address) (coin.Coins, error) {
	return c.ctrl.Balance(db, addr)
}

// Disburse transfers all payouts out of the source custody account.
// Either all transfers succeed or none is applied. The source balance
// is debited exactly by the sum of the payouts.
func (c *Custody) Disburse(db testament.KVStore, source testament.Address, payouts []Payout) ([]*Disbursement, error) {
	if err := c.authorize(db, source); err != nil {
		return nil, err
	}

	var total coin.Coins
	for i, p := range payouts {
		if err := p.Beneficiary.Validate(); err != nil {
			return nil, errors.Wrapf(err, "payout %d beneficiary", i)
		}
		var err error
		if total, err = total.Combine(p.Amount); err != nil {
			return nil, errors.Wrapf(err, "payout %d", i)
		}
	}
	balance, err := c.ctrl.Balance(db, source)
	if err != nil {
		return nil, err
	}
	for _, want := range total {
		if !balance.Contains(*want) {
			return nil, errors.Wrapf(errors.ErrInsufficientAmount, "custody holds less than %s", want)
		}
	}

	cacheable, ok := db.(testament.CacheableKVStore)
	if !ok {
		return nil, errors.Wrap(errors.ErrDatabase, "disbursement requires a cacheable store")
	}
	cache := cacheable.CacheWrap()
	res := make([]*Disbursement, 0, len(payouts))
	for _, p := range payouts {
		for _, amount := range p.Amount {
			if amount.IsZero() {
				continue
			}
			if err := c.ctrl.MoveCoins(cache, source, p.Beneficiary, *amount); err != nil {
				cache.Discard()
				return nil, errors.Wrapf(err, "pay %s to %s", amount, p.Beneficiary)
			}
		}
		res = append(res, &Disbursement{
			Source:      source,
			Beneficiary: p.Beneficiary,
			Amount:      p.Amount.Clone(),
		})
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write disbursement")
	}
	return res, nil
}

// Release moves the whole balance of a custody account to dest and
// returns the amount moved.
func (c *Custody) Release(db testament.KVStore, source, dest testament.Address) (coin.Coins, error) {
	balance, err := c.Balance(db, source)
	if err != nil {
		return nil, err
	}
	if balance.IsEmpty() {
		if err := c.authorize(db, source); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if _, err := c.Disburse(db, source, []Payout{{Beneficiary: dest, Amount: balance}}); err != nil {
		return nil, err
	}
	return balance, nil
}

// DisbursementTags returns the ABCI tags announcing given transfers, so
// that a client can find them by beneficiary address.
func DisbursementTags(ds []*Disbursement) []common.KVPair {
	tags := make([]common.KVPair, 0, len(ds))
	for _, d := range ds {
		tags = append(tags, common.KVPair{
			Key:   []byte("cash.disbursement"),
			Value: []byte(d.Beneficiary.String()),
		})
	}
	return tags
}
