package helper

import (
	"errors"
	"math/big"
	"math/rand"
	"testing"

	"github.com/canopy-network/lphelper/lib"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func coins(pairs ...any) lib.Basket {
	var b lib.Basket
	for i := 0; i+1 < len(pairs); i += 2 {
		b = append(b, lib.NewAssetAmount(pairs[i].(string), uint64(pairs[i+1].(int))))
	}
	return b
}

func swap(offerDenom string, offer uint64, askDenom string, ret uint64) Swap {
	return Swap{Offer: lib.NewAssetAmount(offerDenom, offer), AskDenom: askDenom, Return: uint256.NewInt(ret)}
}

func TestBalance(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		deposit  lib.Basket
		reserves lib.Basket
		expected *Plan
		error    lib.ErrorI
	}{
		{
			name:     "single asset into a 1:1 pool",
			detail:   "half of the deposit is swapped into the missing asset",
			deposit:  coins("x", 100),
			reserves: coins("x", 1000, "y", 1000),
			expected: &Plan{Swaps: []Swap{swap("x", 50, "y", 50)}, Basket: coins("x", 50, "y", 50)},
		},
		{
			name:     "already balanced",
			detail:   "a deposit at the pool ratio needs no swap",
			deposit:  coins("x", 40, "y", 40),
			reserves: coins("x", 1000, "y", 1000),
			expected: &Plan{Basket: coins("x", 40, "y", 40)},
		},
		{
			name:     "already balanced at 1:4",
			detail:   "the ratio is taken from the reserves, not assumed 1:1",
			deposit:  coins("y", 40, "x", 10),
			reserves: coins("x", 1000, "y", 4000),
			expected: &Plan{Basket: coins("x", 10, "y", 40)},
		},
		{
			name:     "single asset into a 1:4 pool",
			detail:   "the swap output is valued at the spot price",
			deposit:  coins("x", 100),
			reserves: coins("x", 1000, "y", 4000),
			expected: &Plan{Swaps: []Swap{swap("x", 50, "y", 200)}, Basket: coins("x", 50, "y", 200)},
		},
		{
			name:     "surplus of the later asset",
			detail:   "the surplus asset need not sort first",
			deposit:  coins("x", 10, "y", 90),
			reserves: coins("x", 500, "y", 500),
			expected: &Plan{Swaps: []Swap{swap("y", 40, "x", 40)}, Basket: coins("x", 50, "y", 50)},
		},
		{
			name:     "single asset into a three asset pool",
			detail:   "sequential swaps from the one asset into each other asset",
			deposit:  coins("x", 300),
			reserves: coins("x", 1000, "y", 1000, "z", 1000),
			expected: &Plan{Swaps: []Swap{swap("x", 100, "y", 100), swap("x", 100, "z", 100)}, Basket: coins("x", 100, "y", 100, "z", 100)},
		},
		{
			name:     "two surpluses into one deficit",
			detail:   "the first surplus is drained before the second is used; dust stays with the surplus",
			deposit:  coins("x", 100, "y", 100),
			reserves: coins("x", 1000, "y", 1000, "z", 1000),
			expected: &Plan{Swaps: []Swap{swap("x", 34, "z", 34), swap("y", 32, "z", 32)}, Basket: coins("x", 66, "y", 68, "z", 66)},
		},
		{
			name:     "dust",
			detail:   "a swap whose offer floors to zero is dropped",
			deposit:  coins("x", 1),
			reserves: coins("x", 1000, "y", 3000),
			expected: &Plan{Basket: coins("x", 1)},
		},
		{
			name:     "empty pool",
			detail:   "the first provider sets the price, so the deposit is kept as is",
			deposit:  coins("y", 20, "x", 10),
			reserves: coins("x", 0, "y", 0),
			expected: &Plan{Basket: coins("x", 10, "y", 20)},
		},
		{
			name:     "unsupported asset",
			detail:   "an asset the pool does not use is rejected",
			deposit:  coins("x", 10, "z", 10),
			reserves: coins("x", 1000, "y", 1000),
			error:    ErrUnsupportedAsset("z"),
		},
		{
			name:     "partially empty pool",
			detail:   "a pool with one empty side is malformed",
			deposit:  coins("x", 10),
			reserves: coins("x", 0, "y", 1000),
			error:    ErrUpstreamQueryFailure(errors.New("partially empty")),
		},
		{
			name:     "empty deposit",
			detail:   "an empty basket is never a valid deposit",
			reserves: coins("x", 1000, "y", 1000),
			error:    ErrInvalidInput(""),
		},
		{
			name:     "zero amount",
			detail:   "every deposited amount must be positive",
			deposit:  coins("x", 0),
			reserves: coins("x", 1000, "y", 1000),
			error:    ErrInvalidInput(""),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			plan, err := Balance(test.deposit, test.reserves)
			if test.error != nil {
				require.True(t, lib.ErrorIs(err, test.error), test.detail)
				return
			}
			require.NoError(t, err, test.detail)
			require.Equal(t, test.expected, plan, test.detail)
		})
	}
}

// TestBalanceRatio checks over random pools that the balanced basket matches the reserve ratio within 1%
// and that no asset is offered beyond what was deposited
func TestBalanceRatio(t *testing.T) {
	denoms := []string{"a", "b", "c", "d"}
	rng := rand.New(rand.NewSource(7))
	between := func(lo, hi int64) uint64 { return uint64(lo + rng.Int63n(hi-lo)) }
	for round := 0; round < 500; round++ {
		n := 2 + rng.Intn(3)
		var reserves, deposit lib.Basket
		for _, d := range denoms[:n] {
			reserves = append(reserves, lib.NewAssetAmount(d, between(1_000_000, 10_000_000)))
			if rng.Intn(2) == 0 {
				deposit = append(deposit, lib.NewAssetAmount(d, between(100_000, 1_000_000_000)))
			}
		}
		if len(deposit) == 0 {
			deposit = append(deposit, lib.NewAssetAmount(denoms[rng.Intn(n)], between(100_000, 1_000_000_000)))
		}
		plan, err := Balance(deposit, reserves)
		require.NoError(t, err)
		// swap inputs never exceed the deposit
		offered := make(map[string]*uint256.Int)
		for _, s := range plan.Swaps {
			if offered[s.Offer.Denom] == nil {
				offered[s.Offer.Denom] = new(uint256.Int)
			}
			offered[s.Offer.Denom].Add(offered[s.Offer.Denom], s.Offer.Amount)
		}
		for denom, amount := range offered {
			require.False(t, deposit.AmountOf(denom).Lt(amount), "round %d: offered %s of %s", round, amount, denom)
		}
		// |b_i·r_j − b_j·r_i| · 100 ≤ b_j·r_i
		for _, ri := range reserves {
			for _, rj := range reserves {
				if ri.Denom == rj.Denom {
					continue
				}
				bi, bj := plan.Basket.AmountOf(ri.Denom).ToBig(), plan.Basket.AmountOf(rj.Denom).ToBig()
				lhs := new(big.Int).Sub(new(big.Int).Mul(bi, rj.Amount.ToBig()), new(big.Int).Mul(bj, ri.Amount.ToBig()))
				lhs.Abs(lhs).Mul(lhs, big.NewInt(100))
				rhs := new(big.Int).Mul(bj, ri.Amount.ToBig())
				require.True(t, lhs.Cmp(rhs) <= 0, "round %d: %s against reserves %s", round, plan.Basket, reserves)
			}
		}
	}
}
