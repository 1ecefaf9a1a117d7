package controller

import (
	"fmt"

	"github.com/canopy-network/lphelper/lib"
)

func ErrNotHelper(address, code string) lib.ErrorI {
	return lib.NewError(lib.CodeNotHelper, lib.ControllerModule, fmt.Sprintf("contract %s runs code %s, not a liquidity helper", address, code))
}

func ErrHelperNotFound() lib.ErrorI {
	return lib.NewError(lib.CodeHelperNotFound, lib.ControllerModule, "no liquidity helper is instantiated")
}

func ErrAmbiguousHelper(count int) lib.ErrorI {
	return lib.NewError(lib.CodeAmbiguousHelper, lib.ControllerModule, fmt.Sprintf("%d liquidity helpers are instantiated, an address is required", count))
}

func ErrNilTransaction() lib.ErrorI {
	return lib.NewError(lib.CodeNilTransaction, lib.ControllerModule, "transaction is nil")
}
