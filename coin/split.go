package coin

import (
	"github.com/iov-one/testament/errors"
	"github.com/shopspring/decimal"
)

var fracUnitDec = decimal.New(FracUnit, 0)

func (c Coin) atoms() decimal.Decimal {
	return decimal.New(c.Whole, 0).Mul(fracUnitDec).Add(decimal.New(c.Fractional, 0))
}

func fromAtoms(ticker string, d decimal.Decimal) (Coin, error) {
	whole, frac := d.QuoRem(fracUnitDec, 0)
	c := NewCoin(whole.IntPart(), frac.IntPart(), ticker)
	return c.normalize()
}

// Split divides a non-negative coin into pieces proportional to the
// given weights. Each piece is floor(amount * weight / sum(weights))
// counted in the smallest fractional unit. The rounding remainder is
// added to the piece with the largest weight, the first one on ties,
// so the pieces always sum up to the original amount.
func Split(c Coin, weights []int64) ([]Coin, error) {
	if len(weights) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "no weights")
	}
	if !c.IsNonNegative() {
		return nil, errors.Wrap(errors.ErrAmount, "cannot split negative amount")
	}

	total := decimal.Zero
	largest := 0
	for i, w := range weights {
		if w < 0 {
			return nil, errors.Wrapf(errors.ErrInput, "negative weight at %d", i)
		}
		if w > weights[largest] {
			largest = i
		}
		total = total.Add(decimal.New(w, 0))
	}
	if total.Sign() == 0 {
		return nil, errors.Wrap(errors.ErrInput, "weights sum to zero")
	}

	amount := c.atoms()
	pieces := make([]decimal.Decimal, len(weights))
	distributed := decimal.Zero
	for i, w := range weights {
		q, _ := amount.Mul(decimal.New(w, 0)).QuoRem(total, 0)
		pieces[i] = q
		distributed = distributed.Add(q)
	}
	pieces[largest] = pieces[largest].Add(amount.Sub(distributed))

	res := make([]Coin, len(weights))
	for i, p := range pieces {
		piece, err := fromAtoms(c.Ticker, p)
		if err != nil {
			return nil, errors.Wrapf(err, "piece %d", i)
		}
		res[i] = piece
	}
	return res, nil
}

// SplitCoins applies Split to every currency of the set. The result
// holds one set per weight.
func SplitCoins(cs Coins, weights []int64) ([]Coins, error) {
	res := make([]Coins, len(weights))
	for _, c := range cs {
		pieces, err := Split(*c, weights)
		if err != nil {
			return nil, errors.Wrapf(err, "split %s", c.Ticker)
		}
		for i, p := range pieces {
			if res[i], err = res[i].Add(p); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}
