package helper

import (
	"fmt"

	"github.com/canopy-network/lphelper/lib"
	"github.com/holiman/uint256"
)

/*
	The balancer turns a deposit D into a basket B whose ratios match the pool reserves R.

	Every amount is valued at the pool spot price with exact integer floor division:
	  value of D in units of asset i:  V_i = Σ_j floor(d_j · r_i / r_j)
	  target:                          b_i = floor(V_i / n)
	Assets above target are surplus, assets below are deficit. Both lists are walked ascending by
	denom with two pointers; each step swaps the smaller of the remaining surplus and the surplus
	needed to fill the current deficit. Rounding dust stays with the surplus asset, and a step whose
	offer or planned return floors to zero is skipped.
*/

// Swap is one planned trade against the pool
type Swap struct {
	Offer    lib.AssetAmount `json:"offer"`
	AskDenom string          `json:"ask_denom"`
	Return   *uint256.Int    `json:"return"` // planned return at the spot price
}

// Plan is the balancer output: the swaps in execution order and the basket they produce
type Plan struct {
	Swaps  []Swap     `json:"swaps"`
	Basket lib.Basket `json:"basket"`
}

// Balance() computes the swaps that bring deposit to the reserve ratio
// it is a pure function and executes nothing
func Balance(deposit, reserves lib.Basket) (*Plan, lib.ErrorI) {
	if err := deposit.Validate(); err != nil {
		return nil, ErrInvalidInput(err.Error())
	}
	reserves = reserves.Sorted()
	for _, d := range deposit {
		if !reserves.Has(d.Denom) {
			return nil, ErrUnsupportedAsset(d.Denom)
		}
	}
	empty := 0
	for _, r := range reserves {
		if r.IsZero() {
			empty++
		}
	}
	switch {
	case empty == len(reserves):
		// an empty pool takes the deposit as is and the first provider sets the price
		return &Plan{Basket: deposit.Sorted()}, nil
	case empty != 0:
		return nil, ErrUpstreamQueryFailure(fmt.Errorf("pool reserves %s are partially empty", reserves))
	}
	n := uint256.NewInt(uint64(len(reserves)))
	held := make([]*uint256.Int, len(reserves))
	target := make([]*uint256.Int, len(reserves))
	for i, ri := range reserves {
		held[i] = deposit.AmountOf(ri.Denom)
		value := new(uint256.Int)
		for _, d := range deposit {
			converted, err := convert(d.Amount, ri.Amount, reserves.AmountOf(d.Denom))
			if err != nil {
				return nil, err
			}
			if _, overflow := value.AddOverflow(value, converted); overflow {
				return nil, lib.ErrAmountOverflow()
			}
		}
		target[i] = value.Div(value, n)
	}
	type position struct {
		index  int
		amount *uint256.Int
	}
	var surplus, deficit []position
	for i := range reserves {
		switch {
		case held[i].Gt(target[i]):
			surplus = append(surplus, position{i, new(uint256.Int).Sub(held[i], target[i])})
		case held[i].Lt(target[i]):
			deficit = append(deficit, position{i, new(uint256.Int).Sub(target[i], held[i])})
		}
	}
	plan := new(Plan)
	for s, f := 0, 0; s < len(surplus) && f < len(deficit); {
		from, to := surplus[s], deficit[f]
		rFrom, rTo := reserves[from.index].Amount, reserves[to.index].Amount
		needed, err := convert(to.amount, rFrom, rTo)
		if err != nil {
			return nil, err
		}
		offer := needed
		if from.amount.Lt(needed) {
			offer = from.amount.Clone()
		}
		out, err := convert(offer, rTo, rFrom)
		if err != nil {
			return nil, err
		}
		if !offer.IsZero() && !out.IsZero() {
			plan.Swaps = append(plan.Swaps, Swap{
				Offer:    lib.AssetAmount{Denom: reserves[from.index].Denom, Amount: offer.Clone()},
				AskDenom: reserves[to.index].Denom,
				Return:   out,
			})
			held[from.index] = new(uint256.Int).Sub(held[from.index], offer)
			held[to.index] = new(uint256.Int).Add(held[to.index], out)
			if out.Gt(to.amount) {
				out = to.amount
			}
			surplus[s].amount = new(uint256.Int).Sub(from.amount, offer)
			deficit[f].amount = new(uint256.Int).Sub(to.amount, out)
		}
		// the deficit is filled up to dust once its whole need was offered
		if offer.Eq(needed) {
			f++
		}
		if surplus[s].amount.IsZero() || offer.Eq(from.amount) {
			s++
		}
	}
	for i, r := range reserves {
		if !held[i].IsZero() {
			plan.Basket = append(plan.Basket, lib.AssetAmount{Denom: r.Denom, Amount: held[i]})
		}
	}
	return plan, nil
}

// convert() values amount of asset 'from' in units of asset 'to' at the spot price: floor(amount·rTo/rFrom)
func convert(amount, rTo, rFrom *uint256.Int) (*uint256.Int, lib.ErrorI) {
	out, overflow := new(uint256.Int).MulDivOverflow(amount, rTo, rFrom)
	if overflow {
		return nil, lib.ErrAmountOverflow()
	}
	return out, nil
}
