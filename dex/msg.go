package dex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

/* This file defines the json messages of the factory and pair contracts */

const (
	FactoryCode = "dex_factory"
	PairCode    = "dex_pair"

	MaxFeeBps = 10_000
)

// Empty is the payload of variants that carry no fields
type Empty struct{}

// FactoryInstantiateMsg configures a factory; the listed pairs are created right away
type FactoryInstantiateMsg struct {
	FeeAddress  crypto.Address  `json:"fee_address,omitempty"`
	PairConfigs []PairConfig    `json:"pair_configs"`
	Pairs       []CreatePairMsg `json:"pairs,omitempty"`
}

// PairConfig is the fee schedule of a pair type, in basis points of the swap return
type PairConfig struct {
	PairType    lib.PairType `json:"pair_type"`
	TotalFeeBps uint16       `json:"total_fee_bps"`
	MakerFeeBps uint16       `json:"maker_fee_bps"`
}

// Validate() checks bps bounds: maker never exceeds total and total never exceeds 100%
func (p PairConfig) Validate() lib.ErrorI {
	if err := p.PairType.Validate(); err != nil {
		return err
	}
	if p.TotalFeeBps > MaxFeeBps || p.MakerFeeBps > p.TotalFeeBps {
		return ErrInvalidFeeBps(p.TotalFeeBps, p.MakerFeeBps)
	}
	return nil
}

// TotalFeeRate() and MakerFeeRate() convert the bps into decimal rates
func (p PairConfig) TotalFeeRate() decimal.Decimal { return BpsToRate(p.TotalFeeBps) }
func (p PairConfig) MakerFeeRate() decimal.Decimal { return BpsToRate(p.MakerFeeBps) }

// BpsToRate() converts basis points into a decimal rate
func BpsToRate(bps uint16) decimal.Decimal {
	return decimal.NewFromInt(int64(bps)).Div(decimal.NewFromInt(MaxFeeBps))
}

// FactoryExecuteMsg is the tagged union of factory executions
type FactoryExecuteMsg struct {
	CreatePair *CreatePairMsg `json:"create_pair,omitempty"`
}

// CreatePairMsg asks the factory to instantiate a pair
type CreatePairMsg struct {
	Denoms   []string     `json:"denoms"`
	PairType lib.PairType `json:"pair_type"`
}

// FactoryQueryMsg is the tagged union of factory queries
type FactoryQueryMsg struct {
	FeeInfo *FeeInfoQuery `json:"fee_info,omitempty"`
	Config  *Empty        `json:"config,omitempty"`
	Pairs   *Empty        `json:"pairs,omitempty"`
	Pair    *PairQuery    `json:"pair,omitempty"`
}

// FeeInfoQuery asks for the fee schedule of a pair type
type FeeInfoQuery struct {
	PairType lib.PairType `json:"pair_type"`
}

// PairQuery looks up a pair by its assets and type
type PairQuery struct {
	Denoms   []string     `json:"denoms"`
	PairType lib.PairType `json:"pair_type"`
}

// FeeInfoResponse is the raw bps answer of a fee_info query
type FeeInfoResponse struct {
	FeeAddress  *crypto.Address `json:"fee_address"`
	TotalFeeBps uint16          `json:"total_fee_bps"`
	MakerFeeBps uint16          `json:"maker_fee_bps"`
}

// ConfigResponse is the answer of a config query
type ConfigResponse struct {
	Owner       crypto.Address      `json:"owner"`
	FeeAddress  crypto.Address      `json:"fee_address,omitempty"`
	PairConfigs []PairConfigDisplay `json:"pair_configs"`
}

// PairConfigDisplay is a PairConfig with its decimal rates
type PairConfigDisplay struct {
	PairConfig
	TotalFeeRate decimal.Decimal `json:"total_fee_rate"`
	MakerFeeRate decimal.Decimal `json:"maker_fee_rate"`
}

// PairsResponse lists every pair the factory created
type PairsResponse struct {
	Pairs []PairInfo `json:"pairs"`
}

// PairInfo identifies a pair instance
type PairInfo struct {
	Address    crypto.Address `json:"contract_addr"`
	Denoms     []string       `json:"denoms"`
	PairType   lib.PairType   `json:"pair_type"`
	ShareDenom string         `json:"share_denom"`
}

// PairInstantiateMsg configures a pair instance
type PairInstantiateMsg struct {
	Denoms   []string       `json:"denoms"`
	PairType lib.PairType   `json:"pair_type"`
	Factory  crypto.Address `json:"factory"`
}

// PairExecuteMsg is the tagged union of pair executions
type PairExecuteMsg struct {
	Swap              *SwapMsg             `json:"swap,omitempty"`
	ProvideLiquidity  *ProvideLiquidityMsg `json:"provide_liquidity,omitempty"`
	WithdrawLiquidity *Empty               `json:"withdraw_liquidity,omitempty"`
}

// SwapMsg trades the offer asset, which must be attached as funds, for the ask denom
type SwapMsg struct {
	OfferAsset lib.AssetAmount `json:"offer_asset"`
	AskDenom   string          `json:"ask_denom"`
	To         crypto.Address  `json:"to,omitempty"`
}

// ProvideLiquidityMsg deposits the assets, which must be attached as funds, for shares
type ProvideLiquidityMsg struct {
	Assets   lib.Basket     `json:"assets"`
	Receiver crypto.Address `json:"receiver,omitempty"`
}

// PairQueryMsg is the tagged union of pair queries
type PairQueryMsg struct {
	Pool       *Empty           `json:"pool,omitempty"`
	Pair       *Empty           `json:"pair,omitempty"`
	Simulation *SimulationQuery `json:"simulation,omitempty"`
}

// SimulationQuery previews a swap without executing it
type SimulationQuery struct {
	OfferAsset lib.AssetAmount `json:"offer_asset"`
	AskDenom   string          `json:"ask_denom"`
}

// PoolResponse describes the reserves and the share supply of a pair
type PoolResponse struct {
	Assets     lib.Basket   `json:"assets"`
	ShareDenom string       `json:"share_denom"`
	TotalShare *uint256.Int `json:"total_share"`
	PairType   lib.PairType `json:"pair_type"`
}

// SimulationResponse is the outcome a swap would have
type SimulationResponse struct {
	ReturnAmount     *uint256.Int `json:"return_amount"`
	CommissionAmount *uint256.Int `json:"commission_amount"`
	MakerFeeAmount   *uint256.Int `json:"maker_fee_amount"`
}

// NormalizeDenoms() sorts the denoms and checks that they are at least two, unique and non-empty
func NormalizeDenoms(denoms []string) ([]string, lib.ErrorI) {
	if len(denoms) < 2 {
		return nil, ErrInvalidPairAssets("a pair needs at least two assets")
	}
	out := append([]string(nil), denoms...)
	sort.Strings(out)
	for i, d := range out {
		if d == "" {
			return nil, ErrInvalidPairAssets("empty denom")
		}
		if i > 0 && out[i-1] == d {
			return nil, ErrInvalidPairAssets(fmt.Sprintf("duplicate denom %q", d))
		}
	}
	return out, nil
}

// PairLabel() is the instantiation label of the pair a factory creates for the assets and type
func PairLabel(factory crypto.Address, denoms []string, pairType lib.PairType) string {
	sorted := append([]string(nil), denoms...)
	sort.Strings(sorted)
	return fmt.Sprintf("pair/%s/%s/%s", factory, strings.Join(sorted, ","), pairType)
}

// PairAddress() is the address of the pair a factory creates for the assets and type
func PairAddress(factory crypto.Address, denoms []string, pairType lib.PairType) crypto.Address {
	return crypto.NewContractAddress(PairLabel(factory, denoms, pairType))
}

// ShareDenom() is the denom of the shares a pair mints
func ShareDenom(pair crypto.Address) string { return pair.String() + "/share" }
