package coin

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/treasurytest/assert"
)

func TestCoinAdd(t *testing.T) {
	cases := map[string]struct {
		a, b    Coin
		want    Coin
		wantErr *errors.Error
	}{
		"simple": {
			a:    NewCoin(1, 500000000, "IOV"),
			b:    NewCoin(2, 600000000, "IOV"),
			want: NewCoin(4, 100000000, "IOV"),
		},
		"negative result": {
			a:    NewCoin(1, 0, "IOV"),
			b:    NewCoin(-1, -500000000, "IOV"),
			want: NewCoin(0, -500000000, "IOV"),
		},
		"empty is neutral": {
			a:    Coin{},
			b:    NewCoin(3, 0, "ETH"),
			want: NewCoin(3, 0, "ETH"),
		},
		"currency mismatch": {
			a:       NewCoin(1, 0, "IOV"),
			b:       NewCoin(1, 0, "ETH"),
			wantErr: errors.ErrCurrency,
		},
		"overflow": {
			a:       NewCoin(MaxInt, 0, "IOV"),
			b:       NewCoin(1, 0, "IOV"),
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
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

func TestCoinValidate(t *testing.T) {
	cases := map[string]struct {
		coin    Coin
		wantErr *errors.Error
	}{
		"valid":           {coin: NewCoin(5, 1, "IOV")},
		"negative valid":  {coin: NewCoin(-5, -1, "IOV")},
		"bad ticker":      {coin: NewCoin(5, 0, "iov"), wantErr: errors.ErrCurrency},
		"whole too big":   {coin: NewCoin(MaxInt+1, 0, "IOV"), wantErr: errors.ErrOverflow},
		"frac too big":    {coin: NewCoin(1, FracUnit, "IOV"), wantErr: errors.ErrOverflow},
		"mismatched sign": {coin: NewCoin(1, -1, "IOV"), wantErr: errors.ErrState},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.coin.Validate())
		})
	}
}

func TestHumanFormat(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    Coin
		wantErr bool
	}{
		"whole":       {raw: "4 IOV", want: NewCoin(4, 0, "IOV")},
		"fractional":  {raw: "1.5 ETH", want: NewCoin(1, 500000000, "ETH")},
		"tiny":        {raw: "0.000000001 ETH", want: NewCoin(0, 1, "ETH")},
		"negative":    {raw: "-2.25 IOV", want: NewCoin(-2, -250000000, "IOV")},
		"no ticker":   {raw: "12", wantErr: true},
		"too precise": {raw: "1.0000000001 IOV", wantErr: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseHumanFormat(tc.raw)
			if tc.wantErr {
				assert.IsErr(t, errors.ErrInput, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)

			again, err := ParseHumanFormat(got.String())
			assert.Nil(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestCoinJSON(t *testing.T) {
	var a, b Coin
	assert.Nil(t, json.Unmarshal([]byte(`"7.1 IOV"`), &a))
	assert.Nil(t, json.Unmarshal([]byte(`{"whole": 7, "fractional": 100000000, "ticker": "IOV"}`), &b))
	assert.Equal(t, a, b)
}
