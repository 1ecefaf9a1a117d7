package rpc

import (
	"encoding/json"

	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
)

/* This file defines the request and response bodies of the RPC */

type heightResponse struct {
	Height uint64 `json:"height"`
}

type addressRequest struct {
	Address crypto.Address `json:"address"`
}

type balanceRequest struct {
	Address crypto.Address `json:"address"`
	Denom   string         `json:"denom"`
}

type denomRequest struct {
	Denom string `json:"denom"`
}

type contractRequest struct {
	Address crypto.Address  `json:"address"`
	Msg     json.RawMessage `json:"msg"`
}

// helperRequest selects a helper instance; an empty address selects the only one
type helperRequest struct {
	Helper crypto.Address `json:"helper,omitempty"`
}

type feeInfoRequest struct {
	helperRequest
	PairType lib.PairType `json:"pair_type"`
}

type factoryResponse struct {
	Factory crypto.Address `json:"factory"`
}

type helperResponse struct {
	Helper crypto.Address `json:"helper"`
}

type hashRequest struct {
	Hash string `json:"hash"`
}

type balanceResponse struct {
	Address crypto.Address  `json:"address"`
	Amount  lib.AssetAmount `json:"amount"`
}

type supplyResponse struct {
	Supply lib.AssetAmount `json:"supply"`
}
