package coin

import (
	"sort"
	"strings"

	"github.com/iov-one/testament/errors"
)

// Coins is a set of coins, at most one per ticker. A normalized set is
// sorted by ticker and carries no zero entries.
type Coins []*Coin

// CombineCoins adds all coins together, returning a normalized set.
func CombineCoins(cs ...Coin) (Coins, error) {
	var s Coins
	for _, c := range cs {
		var err error
		if s, err = s.Add(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Clone returns a deep copy of the set.
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	res := make(Coins, len(cs))
	for i, c := range cs {
		res[i] = c.Clone()
	}
	return res
}

// Add returns a new set with the given coin added. Zero coins are
// ignored and a currency that sums to zero is removed.
func (cs Coins) Add(c Coin) (Coins, error) {
	if c.IsZero() {
		return cs.Clone(), nil
	}
	res := cs.Clone()
	i, found := res.find(c.Ticker)
	if !found {
		n := c
		res = append(res, nil)
		copy(res[i+1:], res[i:])
		res[i] = &n
		return res, nil
	}
	sum, err := res[i].Add(c)
	if err != nil {
		return nil, err
	}
	if sum.IsZero() {
		return append(res[:i], res[i+1:]...), nil
	}
	res[i] = &sum
	return res, nil
}

// Subtract returns a new set with the given coin removed.
// It does not check for negative values.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	return cs.Add(c.Negative())
}

// Combine merges two sets.
func (cs Coins) Combine(o Coins) (Coins, error) {
	res := cs.Clone()
	for _, c := range o {
		var err error
		if res, err = res.Add(*c); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Contains returns true if the set holds at least the given amount of
// that currency.
func (cs Coins) Contains(c Coin) bool {
	if c.IsZero() {
		return true
	}
	i, found := cs.find(c.Ticker)
	if !found {
		return false
	}
	return cs[i].IsGTE(c)
}

// Get returns the amount held for a ticker, zero when absent.
func (cs Coins) Get(ticker string) Coin {
	if i, found := cs.find(ticker); found {
		return *cs[i]
	}
	return NewCoin(0, 0, ticker)
}

func (cs Coins) find(ticker string) (int, bool) {
	i := sort.Search(len(cs), func(i int) bool {
		return cs[i].Ticker >= ticker
	})
	return i, i < len(cs) && cs[i].Ticker == ticker
}

// IsEmpty returns true if there are no coins in the set.
func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// IsPositive returns true if the set is not empty and every coin
// is positive.
func (cs Coins) IsPositive() bool {
	if len(cs) == 0 {
		return false
	}
	for _, c := range cs {
		if !c.IsPositive() {
			return false
		}
	}
	return true
}

// IsNonNegative returns true if no coin in the set is negative.
func (cs Coins) IsNonNegative() bool {
	for _, c := range cs {
		if !c.IsNonNegative() {
			return false
		}
	}
	return true
}

// Equals returns true if both sets hold the same amounts.
func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i := range cs {
		if !cs[i].Equals(*o[i]) {
			return false
		}
	}
	return true
}

// Validate requires that all coins are valid and the set is
// normalized.
func (cs Coins) Validate() error {
	for i, c := range cs {
		if c == nil {
			return errors.Wrap(errors.ErrEmpty, "nil coin")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if c.IsZero() {
			return errors.Wrapf(errors.ErrAmount, "zero %s in set", c.Ticker)
		}
		if i > 0 && cs[i-1].Ticker >= c.Ticker {
			return errors.Wrap(errors.ErrState, "coins not sorted by ticker")
		}
	}
	return nil
}

func (cs Coins) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// NormalizeCoins drops nil and zero entries and merges duplicates.
func NormalizeCoins(cs Coins) (Coins, error) {
	var res Coins
	for _, c := range cs {
		if c == nil {
			continue
		}
		var err error
		if res, err = res.Add(*c); err != nil {
			return nil, err
		}
	}
	return res, nil
}
