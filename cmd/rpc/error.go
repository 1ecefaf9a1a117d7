package rpc

import (
	"fmt"

	"github.com/canopy-network/lphelper/lib"
)

func ErrTxFailed(hash string, err *lib.Error) lib.ErrorI {
	return lib.NewError(lib.CodeTxFailed, lib.RPCModule, fmt.Sprintf("tx %s failed with err: %s", hash, err.Error()))
}

func ErrResourceUsage(err error) lib.ErrorI {
	return lib.NewError(lib.CodeResourceUsage, lib.RPCModule, fmt.Sprintf("reading resource usage failed with err: %s", err.Error()))
}
