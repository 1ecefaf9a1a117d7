package helper

import (
	"fmt"

	"github.com/canopy-network/lphelper/lib"
)

func ErrInvalidInput(reason string) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidInput, lib.HelperModule, fmt.Sprintf("invalid input: %s", reason))
}

func ErrUnsupportedAsset(denom string) lib.ErrorI {
	return lib.NewError(lib.CodeUnsupportedAsset, lib.HelperModule, fmt.Sprintf("asset %q is not used by the target pool", denom))
}

func ErrUnauthorized(sender string) lib.ErrorI {
	return lib.NewError(lib.CodeUnauthorized, lib.HelperModule, fmt.Sprintf("callback from %s rejected: only the helper may call back into itself", sender))
}

func ErrSlippageExceeded(minted, minOut string) lib.ErrorI {
	return lib.NewError(lib.CodeSlippageExceeded, lib.HelperModule, fmt.Sprintf("minted %s shares, below the minimum of %s", minted, minOut))
}

// ErrAccountingInvariantViolation is a defect: a balance delta went negative
func ErrAccountingInvariantViolation(reason string) lib.ErrorI {
	return lib.NewDefect(lib.CodeAccountingInvariantViolation, lib.HelperModule, fmt.Sprintf("accounting invariant violated: %s", reason))
}

func ErrUpstreamQueryFailure(err error) lib.ErrorI {
	return lib.NewError(lib.CodeUpstreamQueryFailure, lib.HelperModule, fmt.Sprintf("upstream query failed: %s", err.Error()))
}

func ErrUnexpectedStage(expected, got Stage) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidInput, lib.HelperModule, fmt.Sprintf("invalid input: callback expects stage %s, got %s", expected, got))
}

func ErrUnknownHelperMessage() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidInput, lib.HelperModule, "invalid input: message must set exactly one known variant")
}

func ErrNotConfigured() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidInput, lib.HelperModule, "invalid input: helper has no configured factory")
}
