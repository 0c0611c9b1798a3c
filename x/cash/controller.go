package cash

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/coin"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/orm"
)

// Controller is the functionality needed by other extensions to read
// and move balances.
type Controller interface {
	Balance(testament.ReadOnlyKVStore, testament.Address) (coin.Coins, error)
	MoveCoins(db testament.KVStore, src, dest testament.Address, amount coin.Coin) error
	IssueCoins(db testament.KVStore, dest testament.Address, amount coin.Coin) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	wallets orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on the wallet bucket.
func NewController() BaseController {
	return BaseController{wallets: NewWalletBucket()}
}

// Balance returns the coins held by given address. An address that
// never received anything has an empty balance.
func (c BaseController) Balance(db testament.ReadOnlyKVStore, addr testament.Address) (coin.Coins, error) {
	var w Wallet
	switch err := c.wallets.One(db, addr, &w); {
	case err == nil:
		return w.Coins, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, errors.Wrap(err, "load wallet")
	}
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db testament.KVStore, src, dest testament.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount %s", amount)
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInput, "source and destination are the same")
	}

	var sender Wallet
	if err := c.wallets.One(db, src, &sender); err != nil {
		if errors.ErrNotFound.Is(err) {
			return errors.Wrapf(errors.ErrEmpty, "empty account %s", src)
		}
		return err
	}
	if !sender.Coins.Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "account %s has less than %s", src, amount)
	}

	var err error
	if sender.Coins, err = sender.Coins.Subtract(amount); err != nil {
		return err
	}
	if err := c.add(db, dest, amount); err != nil {
		return err
	}
	_, err = c.wallets.Put(db, src, &sender)
	return err
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) IssueCoins(db testament.KVStore, dest testament.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount %s", amount)
	}
	return c.add(db, dest, amount)
}

func (c BaseController) add(db testament.KVStore, dest testament.Address, amount coin.Coin) error {
	var w Wallet
	if err := c.wallets.One(db, dest, &w); err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}
	var err error
	if w.Coins, err = w.Coins.Add(amount); err != nil {
		return err
	}
	_, err = c.wallets.Put(db, dest, &w)
	return err
}
