package domain

import (
	"encoding/json"
	"testing"

	"github.com/DRSN-tech/vending-machine/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenominations_DescendingAndImmutable(t *testing.T) {
	got := Denominations()
	require.Equal(t, []Denomination{Coin500, Coin300, Coin200, Coin100, Coin050, Coin025}, got)

	got[0] = 1
	assert.Equal(t, Coin500, Denominations()[0])
}

func TestParseDenomination(t *testing.T) {
	tests := []struct {
		in   string
		want Denomination
	}{
		{"5.0", Coin500},
		{"5", Coin500},
		{"3", Coin300},
		{"2.00", Coin200},
		{"1", Coin100},
		{"0.5", Coin050},
		{" 0.25 ", Coin025},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDenomination(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestParseDenomination_Invalid(t *testing.T) {
	for _, in := range []string{"100", "0.1", "abc", "", "-1", "0.255"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDenomination(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, e.ErrInvalidInput)
		})
	}
}

func TestDenomination_String(t *testing.T) {
	assert.Equal(t, "5.00", Coin500.String())
	assert.Equal(t, "0.25", Coin025.String())
	assert.False(t, Denomination(10).IsValid())
}

func TestParseAmount(t *testing.T) {
	cents, err := ParseAmount("1.5")
	require.NoError(t, err)
	assert.Equal(t, int64(150), cents)

	cents, err = ParseAmount("0")
	require.NoError(t, err)
	assert.Equal(t, int64(0), cents)

	_, err = ParseAmount("1.005")
	assert.ErrorIs(t, err, e.ErrAmountPrecision)

	_, err = ParseAmount("-1.0")
	assert.ErrorIs(t, err, e.ErrInvalidAmount)

	_, err = ParseAmount("1e12")
	assert.ErrorIs(t, err, e.ErrInvalidAmount)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1.00", FormatAmount(100))
	assert.Equal(t, "0.25", FormatAmount(25))
	assert.Equal(t, "0.00", FormatAmount(0))
}

func TestParseCount(t *testing.T) {
	n, err := ParseCount("3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = ParseCount("2.0")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, in := range []string{"1.5", "-1", "x", ""} {
		_, err := ParseCount(in)
		assert.ErrorIs(t, err, e.ErrInvalidInput, in)
	}
}

func TestCoinBag_AddSub(t *testing.T) {
	a := CoinBag{Coin025: 2, Coin050: 2, Coin100: 1}
	b := CoinBag{Coin025: 1, Coin500: 1}

	sum := a.Add(b)
	assert.Equal(t, CoinBag{Coin025: 3, Coin050: 2, Coin100: 1, Coin500: 1}, sum)
	assert.Equal(t, CoinBag{Coin025: 2, Coin050: 2, Coin100: 1}, a, "Add must not mutate receiver")

	diff, err := sum.Sub(CoinBag{Coin025: 3, Coin500: 1})
	require.NoError(t, err)
	assert.Equal(t, CoinBag{Coin025: 0, Coin050: 2, Coin100: 1, Coin500: 0}, diff)

	_, err = a.Sub(CoinBag{Coin500: 1})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	assert.Equal(t, CoinBag{Coin025: 2, Coin050: 2, Coin100: 1}, a)
}

func TestCoinBag_Sum(t *testing.T) {
	assert.Equal(t, int64(0), NewCoinBag().Sum())
	assert.Equal(t, int64(150), CoinBag{Coin025: 2, Coin100: 1}.Sum())
}

func TestCoinBag_Validate(t *testing.T) {
	require.NoError(t, CoinBag{Coin025: 0, Coin500: 3}.Validate())
	assert.ErrorIs(t, CoinBag{Denomination(10): 1}.Validate(), e.ErrUnknownDenomination)
	assert.ErrorIs(t, CoinBag{Coin025: -1}.Validate(), e.ErrNegativeCount)
}

func TestCoinBag_EqualIgnoresZeroCounts(t *testing.T) {
	assert.True(t, CoinBag{Coin025: 1, Coin500: 0}.Equal(CoinBag{Coin025: 1}))
	assert.False(t, CoinBag{Coin025: 1}.Equal(CoinBag{Coin025: 2}))
	assert.True(t, NewCoinBag().IsEmpty())
	assert.True(t, CoinBag{Coin100: 0}.IsEmpty())
}

func TestCoinBag_String(t *testing.T) {
	bag := CoinBag{Coin025: 1, Coin300: 1, Coin050: 1, Coin100: 0}
	assert.Equal(t, "3.00 x 1, 0.50 x 1, 0.25 x 1", bag.String())
	assert.Equal(t, "", NewCoinBag().String())
}

func TestCoinBag_JSON(t *testing.T) {
	data, err := json.Marshal(CoinBag{Coin025: 3, Coin200: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"0.25":3,"2.00":1}`, string(data))

	var bag CoinBag
	require.NoError(t, json.Unmarshal([]byte(`{"0.5":2,"5":1}`), &bag))
	assert.Equal(t, CoinBag{Coin050: 2, Coin500: 1}, bag)

	assert.Error(t, json.Unmarshal([]byte(`{"0.1":2}`), &bag))
	assert.Error(t, json.Unmarshal([]byte(`{"0.25":-2}`), &bag))
}
