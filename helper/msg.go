package helper

import (
	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

/* This file defines the json messages of the liquidity helper contract */

// Code is the name the helper is registered under in the host
const Code = "lp_helper"

// InstantiateMsg configures the helper once at creation
type InstantiateMsg struct {
	Factory crypto.Address `json:"factory"`
}

// ExecuteMsg is the tagged union of helper executions
type ExecuteMsg struct {
	BalancingProvideLiquidity *BalancingProvideLiquidityMsg `json:"balancing_provide_liquidity,omitempty"`
	Callback                  *CallbackMsg                  `json:"callback,omitempty"`
}

// BalancingProvideLiquidityMsg is the public request; the assets must be attached as funds
type BalancingProvideLiquidityMsg struct {
	Assets    lib.Basket     `json:"assets"`
	MinOut    *uint256.Int   `json:"min_out"`
	Pool      PoolDescriptor `json:"pool"`
	Recipient string         `json:"recipient,omitempty"`
}

// CallbackMsg is the internal continuation; only the helper itself may send it
type CallbackMsg struct {
	ProvideLiquidity *ExecutionContext `json:"provide_liquidity,omitempty"`
	ReturnShares     *ExecutionContext `json:"return_shares,omitempty"`
}

// QueryMsg is the tagged union of helper queries
type QueryMsg struct {
	ConfiguredFactory *struct{}     `json:"configured_factory,omitempty"`
	FeeInfo           *FeeInfoQuery `json:"fee_info,omitempty"`
}

// FeeInfoQuery asks for the fee schedule of a pool type
type FeeInfoQuery struct {
	PairType lib.PairType `json:"pair_type"`
}

// ConfiguredFactoryResponse is the answer of a configured_factory query
type ConfiguredFactoryResponse struct {
	Factory crypto.Address `json:"factory"`
}

// FeeInfoResponse passes the factory bps through together with their rates
type FeeInfoResponse struct {
	FeeAddress   *crypto.Address `json:"fee_address"`
	TotalFeeBps  uint16          `json:"total_fee_bps"`
	MakerFeeBps  uint16          `json:"maker_fee_bps"`
	TotalFeeRate decimal.Decimal `json:"total_fee_rate"`
	MakerFeeRate decimal.Decimal `json:"maker_fee_rate"`
}
