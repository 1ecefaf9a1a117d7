package helper

import (
	"fmt"

	"github.com/canopy-network/lphelper/dex"
	"github.com/canopy-network/lphelper/fsm"
	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
)

// PoolI is the capability the helper needs from a liquidity pool, whatever its pricing curve
type PoolI interface {
	// Descriptor() identifies the pool instance and its variant
	Descriptor() PoolDescriptor
	// Reserves() are the pool assets and their balances, sorted by denom
	Reserves() lib.Basket
	// ShareDenom() is the token the pool mints to liquidity providers
	ShareDenom() string
	// SwapInstruction() builds the message that trades offer, attached as funds, for askDenom
	SwapInstruction(offer lib.AssetAmount, askDenom string) (*lib.Message, lib.ErrorI)
	// ProvideInstruction() builds the message that deposits assets, attached as funds, for shares sent to receiver
	ProvideInstruction(assets lib.Basket, receiver crypto.Address) (*lib.Message, lib.ErrorI)
}

// ResolvePool() reads the pool state and returns the capability of its variant
// variants are added by extending the switch over the pair kind
func ResolvePool(q fsm.QuerierI, desc PoolDescriptor) (PoolI, lib.ErrorI) {
	switch desc.PairType.Kind {
	case lib.PairKindXyk, lib.PairKindStable, lib.PairKindCustom:
	default:
		return nil, ErrInvalidInput(fmt.Sprintf("unknown pool variant %q", desc.PairType))
	}
	state := new(dex.PoolResponse)
	if err := q.QuerySmart(desc.Address, dex.PairQueryMsg{Pool: &dex.Empty{}}, state); err != nil {
		return nil, ErrUpstreamQueryFailure(err)
	}
	if state.PairType != desc.PairType {
		return nil, ErrInvalidInput(fmt.Sprintf("pool %s is a %s pool, not %s", desc.Address, state.PairType, desc.PairType))
	}
	if len(state.Assets) < 2 || state.ShareDenom == "" {
		return nil, ErrUpstreamQueryFailure(fmt.Errorf("malformed pool state from %s", desc.Address))
	}
	if err := state.Assets.ValidateAllowZero(); err != nil {
		return nil, ErrUpstreamQueryFailure(err)
	}
	return &pairPool{desc: desc, reserves: state.Assets.Sorted(), shareDenom: state.ShareDenom}, nil
}

var _ PoolI = &pairPool{}

// pairPool is a pool that speaks the dex pair protocol
type pairPool struct {
	desc       PoolDescriptor
	reserves   lib.Basket
	shareDenom string
}

func (p *pairPool) Descriptor() PoolDescriptor { return p.desc }
func (p *pairPool) Reserves() lib.Basket       { return p.reserves }
func (p *pairPool) ShareDenom() string         { return p.shareDenom }

func (p *pairPool) SwapInstruction(offer lib.AssetAmount, askDenom string) (*lib.Message, lib.ErrorI) {
	msg := dex.PairExecuteMsg{Swap: &dex.SwapMsg{OfferAsset: offer, AskDenom: askDenom}}
	return lib.NewExecuteMessage(p.desc.Address, msg, lib.Basket{offer})
}

func (p *pairPool) ProvideInstruction(assets lib.Basket, receiver crypto.Address) (*lib.Message, lib.ErrorI) {
	msg := dex.PairExecuteMsg{ProvideLiquidity: &dex.ProvideLiquidityMsg{Assets: assets, Receiver: receiver}}
	return lib.NewExecuteMessage(p.desc.Address, msg, assets)
}
