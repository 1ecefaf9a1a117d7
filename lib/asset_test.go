package lib

import (
	"encoding/json"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestNewBasket(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		assets   []AssetAmount
		expected Basket
		error    ErrorI
	}{
		{
			name:   "empty",
			detail: "an empty basket is never a valid deposit",
			error:  ErrEmptyBasket(),
		},
		{
			name:   "zero amount",
			detail: "every amount must be strictly positive",
			assets: []AssetAmount{NewAssetAmount("x", 1), NewAssetAmount("y", 0)},
			error:  ErrInvalidAmount("y"),
		},
		{
			name:   "nil amount",
			detail: "a missing amount is treated as invalid",
			assets: []AssetAmount{{Denom: "x"}},
			error:  ErrInvalidAmount("x"),
		},
		{
			name:   "duplicate",
			detail: "denoms must be unique",
			assets: []AssetAmount{NewAssetAmount("x", 1), NewAssetAmount("x", 2)},
			error:  ErrDuplicateDenom("x"),
		},
		{
			name:   "empty denom",
			detail: "the identifier can't be empty",
			assets: []AssetAmount{NewAssetAmount("", 1)},
			error:  ErrInvalidDenom(""),
		},
		{
			name:     "sorted",
			detail:   "insertion order never matters",
			assets:   []AssetAmount{NewAssetAmount("z", 3), NewAssetAmount("a", 1), NewAssetAmount("m", 2)},
			expected: Basket{NewAssetAmount("a", 1), NewAssetAmount("m", 2), NewAssetAmount("z", 3)},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := NewBasket(test.assets...)
			require.Equal(t, test.error, err, test.detail)
			if err != nil {
				return
			}
			require.Equal(t, test.expected, got)
		})
	}
}

func TestBasketHelpers(t *testing.T) {
	b, err := NewBasket(NewAssetAmount("y", 5), NewAssetAmount("x", 10))
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, b.Denoms())
	require.True(t, b.Has("x"))
	require.False(t, b.Has("z"))
	require.Equal(t, uint256.NewInt(5), b.AmountOf("y"))
	require.True(t, b.AmountOf("z").IsZero())
	// AmountOf returns a copy
	b.AmountOf("x").SetUint64(1)
	require.Equal(t, uint64(10), b.AmountOf("x").Uint64())
	// add merges matching denoms
	sum, err := b.Add(Basket{NewAssetAmount("x", 1), NewAssetAmount("w", 2)})
	require.NoError(t, err)
	require.Equal(t, "2w,11x,5y", sum.String())
	// equal ignores zero entries and order
	require.True(t, b.Equal(Basket{NewAssetAmount("y", 5), NewAssetAmount("q", 0), NewAssetAmount("x", 10)}))
	require.False(t, b.Equal(Basket{NewAssetAmount("y", 5)}))
}

func TestAssetAmountJSON(t *testing.T) {
	big, err := uint256.FromDecimal("340282366920938463463374607431768211456") // 2^128
	require.NoError(t, err)
	in := AssetAmount{Denom: "uatom", Amount: big}
	bz, e := json.Marshal(in)
	require.NoError(t, e)
	require.JSONEq(t, `{"denom":"uatom","amount":"340282366920938463463374607431768211456"}`, string(bz))
	out := AssetAmount{}
	require.NoError(t, json.Unmarshal(bz, &out))
	require.Equal(t, in.Denom, out.Denom)
	require.True(t, in.Amount.Eq(out.Amount))
}

func TestParseAssetAmount(t *testing.T) {
	got, err := ParseAssetAmount("100uatom")
	require.NoError(t, err)
	require.Equal(t, "uatom", got.Denom)
	require.Equal(t, uint64(100), got.Amount.Uint64())
	for _, bad := range []string{"", "uatom", "100", "-1x"} {
		_, err = ParseAssetAmount(bad)
		require.Error(t, err, bad)
	}
}
