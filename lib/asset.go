package lib

import (
	"fmt"
	"sort"
	"strings"

	"github.com/holiman/uint256"
)

/* This file defines fungible asset amounts and baskets of them */

// AssetAmount is an amount of a single denomination
// CONTRACT: treated as immutable; arithmetic always allocates a new Amount
type AssetAmount struct {
	Denom  string       `json:"denom"`  // opaque token or denomination key
	Amount *uint256.Int `json:"amount"` // unsigned 256 bit quantity, decimal string in JSON
}

// NewAssetAmount() is a convenience constructor for small amounts
func NewAssetAmount(denom string, amount uint64) AssetAmount {
	return AssetAmount{Denom: denom, Amount: uint256.NewInt(amount)}
}

// ParseAssetAmount() parses the '<amount><denom>' form, for example '100uatom'
func ParseAssetAmount(s string) (AssetAmount, ErrorI) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i == len(s) {
		return AssetAmount{}, ErrInvalidArgument(fmt.Errorf("expected <amount><denom>, got %q", s))
	}
	amount, err := uint256.FromDecimal(s[:i])
	if err != nil {
		return AssetAmount{}, ErrInvalidArgument(err)
	}
	return AssetAmount{Denom: s[i:], Amount: amount}, nil
}

// IsZero() returns true if the amount is missing or zero
func (a AssetAmount) IsZero() bool { return a.Amount == nil || a.Amount.IsZero() }

// String() returns the '<amount><denom>' form
func (a AssetAmount) String() string {
	if a.Amount == nil {
		return "0" + a.Denom
	}
	return a.Amount.Dec() + a.Denom
}

// Basket is a set of asset amounts with unique denominations, kept sorted ascending by denom
type Basket []AssetAmount

// NewBasket() builds a sorted basket, rejecting duplicates, empty denoms and zero amounts
func NewBasket(assets ...AssetAmount) (Basket, ErrorI) {
	b := make(Basket, len(assets))
	copy(b, assets)
	sort.SliceStable(b, func(i, j int) bool { return b[i].Denom < b[j].Denom })
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate() enforces the deposit invariants: non empty, unique denoms, strictly positive amounts
func (b Basket) Validate() ErrorI {
	if len(b) == 0 {
		return ErrEmptyBasket()
	}
	return b.validate(false)
}

// ValidateAllowZero() is Validate() without the non-empty and positive requirements
// used for reserve and fund listings where zero balances are meaningful
func (b Basket) ValidateAllowZero() ErrorI { return b.validate(true) }

func (b Basket) validate(allowZero bool) ErrorI {
	seen := make(map[string]struct{}, len(b))
	for _, a := range b {
		if a.Denom == "" {
			return ErrInvalidDenom(a.Denom)
		}
		if _, found := seen[a.Denom]; found {
			return ErrDuplicateDenom(a.Denom)
		}
		seen[a.Denom] = struct{}{}
		if a.Amount == nil || (!allowZero && a.Amount.IsZero()) {
			return ErrInvalidAmount(a.Denom)
		}
	}
	return nil
}

// Sorted() returns a copy ordered ascending by denom
func (b Basket) Sorted() Basket {
	out := make(Basket, len(b))
	copy(out, b)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Denom < out[j].Denom })
	return out
}

// AmountOf() returns a copy of the amount held for denom, zero if absent
func (b Basket) AmountOf(denom string) *uint256.Int {
	for _, a := range b {
		if a.Denom == denom && a.Amount != nil {
			return a.Amount.Clone()
		}
	}
	return new(uint256.Int)
}

// Has() returns true if denom is present in the basket
func (b Basket) Has(denom string) bool {
	for _, a := range b {
		if a.Denom == denom {
			return true
		}
	}
	return false
}

// Denoms() lists the denominations in basket order
func (b Basket) Denoms() (denoms []string) {
	for _, a := range b {
		denoms = append(denoms, a.Denom)
	}
	return
}

// NonZero() drops zero entries
func (b Basket) NonZero() (out Basket) {
	for _, a := range b {
		if !a.IsZero() {
			out = append(out, a)
		}
	}
	return
}

// Add() merges two baskets, summing amounts of matching denoms
func (b Basket) Add(o Basket) (Basket, ErrorI) {
	sums := make(map[string]*uint256.Int)
	for _, list := range []Basket{b, o} {
		for _, a := range list {
			if a.Amount == nil {
				continue
			}
			cur, ok := sums[a.Denom]
			if !ok {
				sums[a.Denom] = a.Amount.Clone()
				continue
			}
			if _, overflow := cur.AddOverflow(cur, a.Amount); overflow {
				return nil, ErrAmountOverflow()
			}
		}
	}
	out := make(Basket, 0, len(sums))
	for denom, amount := range sums {
		out = append(out, AssetAmount{Denom: denom, Amount: amount})
	}
	return out.Sorted(), nil
}

// Equal() compares two baskets ignoring order and zero entries
func (b Basket) Equal(o Basket) bool {
	x, y := b.NonZero().Sorted(), o.NonZero().Sorted()
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i].Denom != y[i].Denom || !x[i].Amount.Eq(y[i].Amount) {
			return false
		}
	}
	return true
}

// String() returns a comma separated list of '<amount><denom>'
func (b Basket) String() string {
	parts := make([]string, 0, len(b))
	for _, a := range b {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ",")
}
