package dex

import (
	"github.com/canopy-network/lphelper/lib"
	"github.com/holiman/uint256"
)

// swapOutput() is the gross amount of the ask asset an offer buys before commission
//   - constant product (xyk, custom): dY = y * dX / (x + dX)
//   - constant sum at the spot ratio (stable): dY = dX * y / x
func swapOutput(pairType lib.PairType, offerReserve, askReserve, offer *uint256.Int) (*uint256.Int, lib.ErrorI) {
	if offerReserve.IsZero() || askReserve.IsZero() {
		return nil, ErrInsufficientLiquidity()
	}
	var (
		out      *uint256.Int
		overflow bool
	)
	switch pairType.Kind {
	case lib.PairKindStable:
		out, overflow = new(uint256.Int).MulDivOverflow(offer, askReserve, offerReserve)
	default:
		denominator, addOverflow := new(uint256.Int).AddOverflow(offerReserve, offer)
		if addOverflow {
			return nil, lib.ErrAmountOverflow()
		}
		out, overflow = new(uint256.Int).MulDivOverflow(askReserve, offer, denominator)
	}
	if overflow {
		return nil, lib.ErrAmountOverflow()
	}
	// a swap may never drain the ask side
	if !out.Lt(askReserve) {
		return nil, ErrInsufficientLiquidity()
	}
	return out, nil
}

// commission() splits the fee out of a gross return: the total commission and the maker part of it
func commission(gross *uint256.Int, config PairConfig) (total, maker *uint256.Int) {
	total, _ = new(uint256.Int).MulDivOverflow(gross, uint256.NewInt(uint64(config.TotalFeeBps)), uint256.NewInt(MaxFeeBps))
	maker, _ = new(uint256.Int).MulDivOverflow(gross, uint256.NewInt(uint64(config.MakerFeeBps)), uint256.NewInt(MaxFeeBps))
	return
}

// initialShares() is the supply minted by the first deposit:
// the geometric mean √(a·b) for two assets and the plain sum otherwise
func initialShares(amounts []*uint256.Int) (*uint256.Int, lib.ErrorI) {
	for _, a := range amounts {
		if a.IsZero() {
			return nil, ErrInsufficientLiquidity()
		}
	}
	if len(amounts) == 2 {
		product, overflow := new(uint256.Int).MulOverflow(amounts[0], amounts[1])
		if overflow {
			return nil, lib.ErrAmountOverflow()
		}
		return new(uint256.Int).Sqrt(product), nil
	}
	sum := new(uint256.Int)
	for _, a := range amounts {
		if _, overflow := sum.AddOverflow(sum, a); overflow {
			return nil, lib.ErrAmountOverflow()
		}
	}
	return sum, nil
}

// proportionalShares() is the supply minted by a later deposit: min_i(a_i·S/R_i)
// an asset without reserves is ignored; an asset with reserves and no deposit mints nothing
func proportionalShares(amounts, reserves []*uint256.Int, supply *uint256.Int) (*uint256.Int, lib.ErrorI) {
	var minted *uint256.Int
	for i := range amounts {
		if reserves[i].IsZero() {
			continue
		}
		share, overflow := new(uint256.Int).MulDivOverflow(amounts[i], supply, reserves[i])
		if overflow {
			return nil, lib.ErrAmountOverflow()
		}
		if minted == nil || share.Lt(minted) {
			minted = share
		}
	}
	if minted == nil {
		return nil, ErrInsufficientLiquidity()
	}
	return minted, nil
}

// withdrawAmount() is the part of a reserve a burn of shares returns: R·w/S
func withdrawAmount(reserve, shares, supply *uint256.Int) *uint256.Int {
	out, _ := new(uint256.Int).MulDivOverflow(reserve, shares, supply)
	return out
}
