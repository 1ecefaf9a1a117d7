package dex

import (
	"fmt"

	"github.com/canopy-network/lphelper/lib"
)

func ErrInvalidPairAssets(reason string) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidPairAssets, lib.DexModule, fmt.Sprintf("invalid pair assets: %s", reason))
}

func ErrAssetNotInPair(denom string) lib.ErrorI {
	return lib.NewError(lib.CodeAssetNotInPair, lib.DexModule, fmt.Sprintf("asset %q is not part of the pair", denom))
}

func ErrFundsMismatch(expected, got string) lib.ErrorI {
	return lib.NewError(lib.CodeFundsMismatch, lib.DexModule, fmt.Sprintf("attached funds %q do not match %q", got, expected))
}

func ErrInsufficientLiquidity() lib.ErrorI {
	return lib.NewError(lib.CodeInsufficientLiquidity, lib.DexModule, "insufficient liquidity")
}

func ErrZeroSharesMinted() lib.ErrorI {
	return lib.NewError(lib.CodeZeroSharesMinted, lib.DexModule, "deposit would mint zero shares")
}

func ErrInvalidFeeBps(total, maker uint16) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidFeeBps, lib.DexModule, fmt.Sprintf("invalid fee bps: total %d, maker %d", total, maker))
}

func ErrUnknownPairType(pairType string) lib.ErrorI {
	return lib.NewError(lib.CodeUnknownPairType, lib.DexModule, fmt.Sprintf("pair type %q is not configured", pairType))
}

func ErrUnknownDexMessage() lib.ErrorI {
	return lib.NewError(lib.CodeUnknownDexMessage, lib.DexModule, "message must set exactly one known variant")
}
