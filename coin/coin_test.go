package coin

import (
	"encoding/json"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/willtest/assert"
)

func TestCompareCoin(t *testing.T) {
	cases := map[string]struct {
		a       Coin
		b       Coin
		wantRes int
	}{
		"a greater than b": {
			a:       NewCoin(20, 1234, "ABC"),
			b:       NewCoin(19, 999999999, "ABC"),
			wantRes: 1,
		},
		"a smaller than b": {
			a:       NewCoin(0, -2, "FOO"),
			b:       NewCoin(0, 1, "FOO"),
			wantRes: -1,
		},
		"both negative": {
			a:       NewCoin(-4, -2456, "BAR"),
			b:       NewCoin(-4, -4567, "BAR"),
			wantRes: 1,
		},
		"zero value coins": {
			wantRes: 0,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantRes, tc.a.Compare(tc.b))
		})
	}
}

func TestCoinNegative(t *testing.T) {
	a := NewCoin(456, 985, "ABC")
	n := a.Negative()
	assert.Equal(t, a.Ticker, n.Ticker)
	assert.Equal(t, a.Whole, -n.Whole)
	assert.Equal(t, a.Fractional, -n.Fractional)
	if nn := n.Negative(); !a.Equals(nn) {
		t.Fatal("double negation malformed the coin")
	}
}

func TestAddCoin(t *testing.T) {
	cases := map[string]struct {
		a, b    Coin
		want    Coin
		wantErr *errors.Error
	}{
		"fractional carry": {
			a:    NewCoin(1, 600000000, "ETH"),
			b:    NewCoin(2, 500000000, "ETH"),
			want: NewCoin(4, 100000000, "ETH"),
		},
		"sign normalization": {
			a:    NewCoin(3, 0, "ETH"),
			b:    NewCoin(0, -1, "ETH"),
			want: NewCoin(2, 999999999, "ETH"),
		},
		"zero value has no ticker": {
			a:    Coin{},
			b:    NewCoin(7, 0, "ETH"),
			want: NewCoin(7, 0, "ETH"),
		},
		"currency mismatch": {
			a:       NewCoin(1, 0, "ETH"),
			b:       NewCoin(1, 0, "BTC"),
			wantErr: errors.ErrCurrency,
		},
		"overflow": {
			a:       NewCoin(MaxInt, 0, "ETH"),
			b:       NewCoin(1, 0, "ETH"),
			wantErr: errors.ErrOverflow,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := tc.a.Add(tc.b)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestCoinGTE(t *testing.T) {
	a := NewCoin(5, 0, "ETH")
	if !a.IsGTE(NewCoin(5, 0, "ETH")) {
		t.Fatal("coin must be GTE itself")
	}
	if !a.IsGTE(NewCoin(4, 999999999, "ETH")) {
		t.Fatal("larger coin must be GTE")
	}
	if a.IsGTE(NewCoin(1, 0, "BTC")) {
		t.Fatal("different currency must never be GTE")
	}
}

func TestCoinValidate(t *testing.T) {
	cases := map[string]struct {
		coin    Coin
		wantErr *errors.Error
	}{
		"valid":             {coin: NewCoin(1, 5, "ETH")},
		"bad ticker":        {coin: NewCoin(1, 0, "eth"), wantErr: errors.ErrCurrency},
		"whole overflow":    {coin: NewCoin(MaxInt+1, 0, "ETH"), wantErr: errors.ErrOverflow},
		"fraction overflow": {coin: NewCoin(1, FracUnit, "ETH"), wantErr: errors.ErrOverflow},
		"mismatched sign":   {coin: NewCoin(1, -1, "ETH"), wantErr: errors.ErrState},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if err := tc.coin.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestParseHumanFormat(t *testing.T) {
	cases := map[string]struct {
		human   string
		want    Coin
		wantErr *errors.Error
	}{
		"whole only":         {human: "4 ETH", want: NewCoin(4, 0, "ETH")},
		"no space":           {human: "4ETH", want: NewCoin(4, 0, "ETH")},
		"fraction is padded": {human: "1.5 ETH", want: NewCoin(1, 500000000, "ETH")},
		"smallest unit":      {human: "0.000000001 ETH", want: NewCoin(0, 1, "ETH")},
		"negative":           {human: "-2.25 BTC", want: NewCoin(-2, -250000000, "BTC")},
		"too precise":        {human: "1.0000000001 ETH", wantErr: errors.ErrInput},
		"missing ticker":     {human: "12", wantErr: errors.ErrInput},
		"lowercase ticker":   {human: "1 eth", wantErr: errors.ErrInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ParseHumanFormat(tc.human)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
				// Formatting must give back an equivalent value.
				back, err := ParseHumanFormat(got.String())
				assert.Nil(t, err)
				assert.Equal(t, got, back)
			}
		})
	}
}

func TestCoinString(t *testing.T) {
	cases := map[string]struct {
		coin Coin
		want string
	}{
		"zero":              {coin: Coin{}, want: "0"},
		"whole":             {coin: NewCoin(3, 0, "ETH"), want: "3 ETH"},
		"trailing zeros":    {coin: NewCoin(1, 100000000, "ETH"), want: "1.1 ETH"},
		"leading zeros":     {coin: NewCoin(0, 1, "ETH"), want: "0.000000001 ETH"},
		"negative fraction": {coin: NewCoin(0, -5, "ETH"), want: "-0.000000005 ETH"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.coin.String())
		})
	}
}

func TestCoinJSON(t *testing.T) {
	var human Coin
	assert.Nil(t, json.Unmarshal([]byte(`"1.5 IOV"`), &human))
	assert.Equal(t, NewCoin(1, 500000000, "IOV"), human)

	var structured Coin
	assert.Nil(t, json.Unmarshal([]byte(`{"whole": 2, "ticker": "IOV"}`), &structured))
	assert.Equal(t, NewCoin(2, 0, "IOV"), structured)
}

func TestCoinProto(t *testing.T) {
	c := NewCoin(12, 345, "IOV")
	bz, err := proto.Marshal(&c)
	assert.Nil(t, err)
	var got Coin
	assert.Nil(t, proto.Unmarshal(bz, &got))
	assert.Equal(t, c, got)
}
