package cash

import (
	"testing"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/coin"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/store"
	"github.com/iov-one/testament/willtest"
	"github.com/iov-one/testament/willtest/assert"
)

func TestMoveCoins(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	alice := willtest.NewCondition().Address()
	bob := willtest.NewCondition().Address()

	assert.Nil(t, ctrl.IssueCoins(db, alice, coin.NewCoin(10, 0, "IOV")))
	assert.Nil(t, ctrl.IssueCoins(db, alice, coin.NewCoin(1, 0, "BTC")))

	cases := map[string]struct {
		src, dest testament.Address
		amount    coin.Coin
		wantErr   *errors.Error
	}{
		"no balance":         {src: bob, dest: alice, amount: coin.NewCoin(1, 0, "IOV"), wantErr: errors.ErrEmpty},
		"insufficient funds": {src: alice, dest: bob, amount: coin.NewCoin(11, 0, "IOV"), wantErr: errors.ErrInsufficientAmount},
		"unknown currency":   {src: alice, dest: bob, amount: coin.NewCoin(1, 0, "ETH"), wantErr: errors.ErrInsufficientAmount},
		"zero amount":        {src: alice, dest: bob, amount: coin.NewCoin(0, 0, "IOV"), wantErr: errors.ErrAmount},
		"same account":       {src: alice, dest: alice, amount: coin.NewCoin(1, 0, "IOV"), wantErr: errors.ErrInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := ctrl.MoveCoins(db, tc.src, tc.dest, tc.amount)
			assert.IsErr(t, tc.wantErr, err)
		})
	}

	assert.Nil(t, ctrl.MoveCoins(db, alice, bob, coin.NewCoin(4, 500000000, "IOV")))

	got, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, coin.Coins{coin.NewCoinp(1, 0, "BTC"), coin.NewCoinp(5, 500000000, "IOV")}, got)

	got, err = ctrl.Balance(db, bob)
	assert.Nil(t, err)
	assert.Equal(t, coin.Coins{coin.NewCoinp(4, 500000000, "IOV")}, got)

	// Moving the whole amount of a currency drops it from the wallet.
	assert.Nil(t, ctrl.MoveCoins(db, alice, bob, coin.NewCoin(1, 0, "BTC")))
	got, err = ctrl.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, coin.Coins{coin.NewCoinp(5, 500000000, "IOV")}, got)

	unknown, err := ctrl.Balance(db, willtest.NewCondition().Address())
	assert.Nil(t, err)
	assert.Equal(t, true, unknown.IsEmpty())
}
