package coin

import (
	"testing"

	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/willtest/assert"
)

func TestSplit(t *testing.T) {
	cases := map[string]struct {
		amount  Coin
		weights []int64
		want    []Coin
		wantErr *errors.Error
	}{
		"even split": {
			amount:  NewCoin(10, 0, "ETH"),
			weights: []int64{1, 1},
			want:    []Coin{NewCoin(5, 0, "ETH"), NewCoin(5, 0, "ETH")},
		},
		"remainder goes to the first largest weight": {
			amount:  NewCoin(10, 0, "ETH"),
			weights: []int64{1, 1, 1},
			want: []Coin{
				NewCoin(3, 333333334, "ETH"),
				NewCoin(3, 333333333, "ETH"),
				NewCoin(3, 333333333, "ETH"),
			},
		},
		"uneven weights": {
			amount:  NewCoin(0, 10, "ETH"),
			weights: []int64{1, 2},
			want:    []Coin{NewCoin(0, 3, "ETH"), NewCoin(0, 7, "ETH")},
		},
		"percentage shares": {
			amount:  NewCoin(100, 0, "IOV"),
			weights: []int64{60, 40},
			want:    []Coin{NewCoin(60, 0, "IOV"), NewCoin(40, 0, "IOV")},
		},
		"zero weight gets nothing": {
			amount:  NewCoin(1, 0, "IOV"),
			weights: []int64{0, 3},
			want:    []Coin{NewCoin(0, 0, "IOV"), NewCoin(1, 0, "IOV")},
		},
		"no weights": {
			amount:  NewCoin(1, 0, "IOV"),
			wantErr: errors.ErrInput,
		},
		"all weights zero": {
			amount:  NewCoin(1, 0, "IOV"),
			weights: []int64{0, 0},
			wantErr: errors.ErrInput,
		},
		"negative amount": {
			amount:  NewCoin(-1, 0, "IOV"),
			weights: []int64{1},
			wantErr: errors.ErrAmount,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Split(tc.amount, tc.weights)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, tc.want, got)

			sum := NewCoin(0, 0, tc.amount.Ticker)
			for _, p := range got {
				sum, err = sum.Add(p)
				assert.Nil(t, err)
			}
			assert.Equal(t, tc.amount, sum)
		})
	}
}

func TestSplitCoins(t *testing.T) {
	balance, err := CombineCoins(NewCoin(100, 0, "IOV"), NewCoin(0, 5, "BTC"))
	assert.Nil(t, err)

	parts, err := SplitCoins(balance, []int64{1, 4})
	assert.Nil(t, err)
	assert.Equal(t, 2, len(parts))

	assert.Equal(t, Coins{NewCoinp(0, 1, "BTC"), NewCoinp(20, 0, "IOV")}, parts[0])
	assert.Equal(t, Coins{NewCoinp(0, 4, "BTC"), NewCoinp(80, 0, "IOV")}, parts[1])
}
