package fsm

import (
	"fmt"

	"github.com/canopy-network/lphelper/lib"
)

func ErrWrongStoreType() lib.ErrorI {
	return lib.NewError(lib.CodeWrongStoreType, lib.StateMachineModule, "transactions may only be applied on the root store")
}

func ErrUnknownMessage(name string) lib.ErrorI {
	return lib.NewError(lib.CodeUnknownMessage, lib.StateMachineModule, fmt.Sprintf("message %q is unknown", name))
}

func ErrEmptyTransaction() lib.ErrorI {
	return lib.NewError(lib.CodeEmptyTransaction, lib.StateMachineModule, "transaction has no messages")
}

func ErrContractNotFound(address string) lib.ErrorI {
	return lib.NewError(lib.CodeContractNotFound, lib.StateMachineModule, fmt.Sprintf("contract %s not found", address))
}

func ErrUnknownCode(code string) lib.ErrorI {
	return lib.NewError(lib.CodeUnknownCode, lib.StateMachineModule, fmt.Sprintf("contract code %q is not registered", code))
}

func ErrDuplicateContract(address string) lib.ErrorI {
	return lib.NewError(lib.CodeDuplicateContract, lib.StateMachineModule, fmt.Sprintf("contract %s already exists", address))
}

func ErrMaxDepth(max int) lib.ErrorI {
	return lib.NewError(lib.CodeMaxDepth, lib.StateMachineModule, fmt.Sprintf("message depth exceeds %d", max))
}

func ErrInsufficientFunds(address, denom string) lib.ErrorI {
	return lib.NewError(lib.CodeInsufficientFunds, lib.StateMachineModule, fmt.Sprintf("insufficient %s balance for %s", denom, address))
}

func ErrUnauthorizedMint(contract, denom string) lib.ErrorI {
	return lib.NewError(lib.CodeUnauthorizedMint, lib.StateMachineModule, fmt.Sprintf("contract %s may not mint or burn %q", contract, denom))
}

func ErrInvalidGenesis(err error) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidGenesis, lib.StateMachineModule, fmt.Sprintf("invalid genesis: %s", err.Error()))
}

func ErrContractQuery(address string, err error) lib.ErrorI {
	return lib.NewError(lib.CodeContractQuery, lib.StateMachineModule, fmt.Sprintf("query of contract %s failed: %s", address, err.Error()))
}

func ErrInvalidMessage(err error) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidMessage, lib.StateMachineModule, fmt.Sprintf("invalid message: %s", err.Error()))
}

func ErrNonEmptyGenesisState() lib.ErrorI {
	return lib.NewError(lib.CodeNonEmptyGenesisState, lib.StateMachineModule, "genesis may only be applied to an empty state")
}
