package coin

import (
	"sort"

	"github.com/iov-one/treasury/errors"
)

// Coins is a set of coins of distinct currencies, sorted by ticker. A
// currency without value is not part of the set.
type Coins []*Coin

// Balance returns the amount held in the given currency. A zero coin of
// that currency is returned if none is held.
func (cs Coins) Balance(ticker string) Coin {
	for _, c := range cs {
		if c.Ticker == ticker {
			return *c
		}
	}
	return Coin{Ticker: ticker}
}

// Contains returns true if at least the given amount is held.
func (cs Coins) Contains(c Coin) bool {
	return cs.Balance(c.Ticker).IsGTE(c)
}

// IsEmpty returns true if no value is held.
func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// Add returns a new set with the amount added. The receiver is not
// modified.
func (cs Coins) Add(c Coin) (Coins, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	sum, err := cs.Balance(c.Ticker).Add(c)
	if err != nil {
		return nil, err
	}
	return cs.with(sum), nil
}

// Subtract returns a new set with the amount taken away. It fails with
// ErrInsufficientAmount if not enough is held. The receiver is not modified.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	bal := cs.Balance(c.Ticker)
	if !bal.IsGTE(c) {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "have %s, need %s", bal, c)
	}
	rest, err := bal.Subtract(c)
	if err != nil {
		return nil, err
	}
	return cs.with(rest), nil
}

// with returns a copy of the set with the balance of c's currency replaced.
func (cs Coins) with(c Coin) Coins {
	res := make(Coins, 0, len(cs)+1)
	for _, x := range cs {
		if x.Ticker != c.Ticker {
			cp := *x
			res = append(res, &cp)
		}
	}
	if !c.IsZero() {
		res = append(res, &c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Ticker < res[j].Ticker })
	return res
}

// Validate requires all coins to be valid, positive and of distinct
// currencies in ticker order.
func (cs Coins) Validate() error {
	for i, c := range cs {
		if c == nil {
			return errors.Wrapf(errors.ErrEmpty, "coin %d", i)
		}
		if err := c.Validate(); err != nil {
			return errors.Wrapf(err, "coin %d", i)
		}
		if !c.IsPositive() {
			return errors.Wrapf(errors.ErrAmount, "coin %d must be positive", i)
		}
		if i > 0 && cs[i-1].Ticker >= c.Ticker {
			return errors.Wrap(errors.ErrState, "coins must be sorted and unique")
		}
	}
	return nil
}
