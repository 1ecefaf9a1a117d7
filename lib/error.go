package lib

import (
	"errors"
	"fmt"
	"math"
)

type ErrorI interface {
	Code() ErrorCode     // Returns the error code
	Module() ErrorModule // Returns the error module
	error                // Implements the built-in error interface
}

var _ ErrorI = &Error{} // Ensures *Error implements ErrorI

type ErrorCode uint32 // Defines a type for error codes

type ErrorModule string // Defines a type for error modules

type Error struct {
	ECode   ErrorCode   `json:"code"`             // Error code
	EModule ErrorModule `json:"module"`           // Error module
	Msg     string      `json:"msg"`              // Error message
	Defect  bool        `json:"defect,omitempty"` // Marks an internal logic defect rather than a user condition
}

// NewError() constructs a new Error instance
func NewError(code ErrorCode, module ErrorModule, msg string) *Error {
	return &Error{ECode: code, EModule: module, Msg: msg}
}

// NewDefect() constructs an Error that flags a broken internal invariant
// these are never the result of user input and warrant investigation
func NewDefect(code ErrorCode, module ErrorModule, msg string) *Error {
	return &Error{ECode: code, EModule: module, Msg: msg, Defect: true}
}

// Code() returns the associated error code
func (p *Error) Code() ErrorCode { return p.ECode }

// Module() returns module field
func (p *Error) Module() ErrorModule { return p.EModule }

// String() calls Error()
func (p *Error) String() string { return p.Error() }

// Error() returns a single line including module, code and message
func (p *Error) Error() string {
	if p.Defect {
		return fmt.Sprintf("DEFECT module: %s, code: %d, msg: %s", p.EModule, p.ECode, p.Msg)
	}
	return fmt.Sprintf("module: %s, code: %d, msg: %s", p.EModule, p.ECode, p.Msg)
}

// IsDefect() reports whether any error in the chain is flagged as a defect
func IsDefect(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Defect
	}
	return false
}

// ErrorIs() reports whether err carries the module and code of target
func ErrorIs(err error, target ErrorI) bool {
	var e ErrorI
	if !errors.As(err, &e) || target == nil {
		return false
	}
	return e.Code() == target.Code() && e.Module() == target.Module()
}

const (
	NoCode ErrorCode = math.MaxUint32

	// Main Module
	MainModule ErrorModule = "main"

	// Main Module Error Codes
	CodeJSONMarshal     ErrorCode = 1
	CodeJSONUnmarshal   ErrorCode = 2
	CodeInvalidArgument ErrorCode = 3
	CodeReadFile        ErrorCode = 4
	CodeWriteFile       ErrorCode = 5
	CodeInvalidAddress  ErrorCode = 6
	CodeInvalidAmount   ErrorCode = 7
	CodeEmptyBasket     ErrorCode = 8
	CodeDuplicateDenom  ErrorCode = 9
	CodeInvalidDenom    ErrorCode = 10
	CodeInvalidPairType ErrorCode = 11
	CodeYAMLUnmarshal   ErrorCode = 12
	CodeProtoMarshal    ErrorCode = 13
	CodePanic           ErrorCode = 14
	CodeAmountOverflow  ErrorCode = 15
	CodeServerTimeout   ErrorCode = 16
	CodePostRequest     ErrorCode = 17
	CodeGetRequest      ErrorCode = 18
	CodeReadBody        ErrorCode = 19
	CodeHttpStatus       ErrorCode = 20

	// Store Module
	StoreModule ErrorModule = "store"

	// Store Module Error Codes
	CodeOpenDB         ErrorCode = 1
	CodeCloseDB        ErrorCode = 2
	CodeStoreSet       ErrorCode = 3
	CodeStoreGet       ErrorCode = 4
	CodeStoreDelete    ErrorCode = 5
	CodeCommitDB       ErrorCode = 6
	CodeInvalidKey     ErrorCode = 7
	CodeReadOnlyTxn    ErrorCode = 8
	CodeCorruptVersion ErrorCode = 9

	// State Machine Module
	StateMachineModule ErrorModule = "state_machine"

	// State Machine Module Error Codes
	CodeWrongStoreType       ErrorCode = 1
	CodeUnknownMessage       ErrorCode = 2
	CodeEmptyTransaction     ErrorCode = 3
	CodeContractNotFound     ErrorCode = 4
	CodeUnknownCode          ErrorCode = 5
	CodeDuplicateContract    ErrorCode = 6
	CodeMaxDepth             ErrorCode = 7
	CodeInsufficientFunds    ErrorCode = 8
	CodeUnauthorizedMint     ErrorCode = 9
	CodeInvalidGenesis       ErrorCode = 10
	CodeContractQuery        ErrorCode = 11
	CodeInvalidMessage       ErrorCode = 12
	CodeNonEmptyGenesisState ErrorCode = 13

	// Dex Module
	DexModule ErrorModule = "dex"

	// Dex Module Error Codes
	CodeInvalidPairAssets     ErrorCode = 1
	CodeAssetNotInPair        ErrorCode = 2
	CodeFundsMismatch         ErrorCode = 3
	CodeInsufficientLiquidity ErrorCode = 4
	CodeZeroSharesMinted      ErrorCode = 5
	CodeInvalidFeeBps         ErrorCode = 6
	CodeUnknownPairType       ErrorCode = 7
	CodeUnknownDexMessage     ErrorCode = 8

	// Helper Module
	HelperModule ErrorModule = "helper"

	// Helper Module Error Codes
	CodeInvalidInput                 ErrorCode = 1
	CodeUnsupportedAsset             ErrorCode = 2
	CodeUnauthorized                 ErrorCode = 3
	CodeSlippageExceeded             ErrorCode = 4
	CodeAccountingInvariantViolation ErrorCode = 5
	CodeUpstreamQueryFailure         ErrorCode = 6

	// Journal Module
	JournalModule ErrorModule = "journal"

	// Journal Module Error Codes
	CodeOpenJournal     ErrorCode = 1
	CodeJournalWrite    ErrorCode = 2
	CodeJournalNotFound ErrorCode = 3
	CodeJournalClose    ErrorCode = 4
	CodeJournalCorrupt  ErrorCode = 5

	// Controller Module
	ControllerModule ErrorModule = "controller"

	// Controller Module Error Codes
	CodeNotHelper       ErrorCode = 1
	CodeHelperNotFound  ErrorCode = 2
	CodeAmbiguousHelper ErrorCode = 3
	CodeNilTransaction  ErrorCode = 4

	// RPC Module
	RPCModule ErrorModule = "rpc"

	// RPC Module Error Codes
	CodeTxFailed      ErrorCode = 1
	CodeResourceUsage ErrorCode = 2
)

func ErrJSONMarshal(err error) ErrorI {
	return NewError(CodeJSONMarshal, MainModule, fmt.Sprintf("json.Marshal() failed with err: %s", err.Error()))
}

func ErrJSONUnmarshal(err error) ErrorI {
	return NewError(CodeJSONUnmarshal, MainModule, fmt.Sprintf("json.Unmarshal() failed with err: %s", err.Error()))
}

func ErrInvalidArgument(err error) ErrorI {
	return NewError(CodeInvalidArgument, MainModule, fmt.Sprintf("invalid argument: %s", err.Error()))
}

func ErrReadFile(err error) ErrorI {
	return NewError(CodeReadFile, MainModule, fmt.Sprintf("os.ReadFile() failed with err: %s", err.Error()))
}

func ErrWriteFile(err error) ErrorI {
	return NewError(CodeWriteFile, MainModule, fmt.Sprintf("os.WriteFile() failed with err: %s", err.Error()))
}

func ErrInvalidAddress(err error) ErrorI {
	return NewError(CodeInvalidAddress, MainModule, fmt.Sprintf("invalid address: %s", err.Error()))
}

func ErrInvalidAmount(denom string) ErrorI {
	return NewError(CodeInvalidAmount, MainModule, fmt.Sprintf("amount for %q must be greater than zero", denom))
}

func ErrEmptyBasket() ErrorI {
	return NewError(CodeEmptyBasket, MainModule, "basket is empty")
}

func ErrDuplicateDenom(denom string) ErrorI {
	return NewError(CodeDuplicateDenom, MainModule, fmt.Sprintf("denom %q appears more than once", denom))
}

func ErrInvalidDenom(denom string) ErrorI {
	return NewError(CodeInvalidDenom, MainModule, fmt.Sprintf("invalid denom %q", denom))
}

func ErrInvalidPairType(s string) ErrorI {
	return NewError(CodeInvalidPairType, MainModule, fmt.Sprintf("invalid pair type %q", s))
}

func ErrYAMLUnmarshal(err error) ErrorI {
	return NewError(CodeYAMLUnmarshal, MainModule, fmt.Sprintf("yaml.Unmarshal() failed with err: %s", err.Error()))
}

func ErrProtoMarshal(err error) ErrorI {
	return NewError(CodeProtoMarshal, MainModule, fmt.Sprintf("proto.Marshal() failed with err: %s", err.Error()))
}

func ErrPanic() ErrorI {
	return NewError(CodePanic, MainModule, "panic recovery")
}

func ErrAmountOverflow() ErrorI {
	return NewError(CodeAmountOverflow, MainModule, "amount overflows 256 bits")
}

func ErrServerTimeout() ErrorI {
	return NewError(CodeServerTimeout, MainModule, "server timeout")
}

func ErrPostRequest(err error) ErrorI {
	return NewError(CodePostRequest, MainModule, fmt.Sprintf("http.Post() failed with err: %s", err.Error()))
}

func ErrGetRequest(err error) ErrorI {
	return NewError(CodeGetRequest, MainModule, fmt.Sprintf("http.Get() failed with err: %s", err.Error()))
}

func ErrReadBody(err error) ErrorI {
	return NewError(CodeReadBody, MainModule, fmt.Sprintf("io.ReadAll(http.ResponseBody) failed with err: %s", err.Error()))
}

func ErrHttpStatus(status string, statusCode int, body []byte) ErrorI {
	return NewError(CodeHttpStatus, MainModule, fmt.Sprintf("http response bad status %s with code %d and body %s", status, statusCode, body))
}
