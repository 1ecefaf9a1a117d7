package dex

import (
	"encoding/json"

	"github.com/canopy-network/lphelper/fsm"
	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"github.com/holiman/uint256"
)

var _ fsm.ContractI = Pair{}

const pairConfigKey = "config"

// Pair is a reference liquidity pool over two or more assets
// its reserves are its own bank balances; shares are minted in the '<pair>/share' denom
type Pair struct{}

// pairConfig is the persisted state of a pair instance
type pairConfig struct {
	Denoms   []string       `json:"denoms"`
	PairType lib.PairType   `json:"pair_type"`
	Factory  crypto.Address `json:"factory"`
}

func (c *pairConfig) has(denom string) bool {
	for _, d := range c.Denoms {
		if d == denom {
			return true
		}
	}
	return false
}

// Instantiate() saves the pair assets and type
func (p Pair) Instantiate(env *fsm.Env, raw json.RawMessage) (*fsm.Response, lib.ErrorI) {
	msg := new(PairInstantiateMsg)
	if err := lib.UnmarshalJSON(raw, msg); err != nil {
		return nil, err
	}
	denoms, err := NormalizeDenoms(msg.Denoms)
	if err != nil {
		return nil, err
	}
	if err = msg.PairType.Validate(); err != nil {
		return nil, err
	}
	if e := msg.Factory.Validate(); e != nil {
		return nil, lib.ErrInvalidAddress(e)
	}
	config := &pairConfig{Denoms: denoms, PairType: msg.PairType, Factory: msg.Factory}
	return fsm.NewResponse().AddAttribute("share_denom", ShareDenom(env.Self)), fsm.SetJSON(env.Store(), pairConfigKey, config)
}

// Execute() routes swap, provide_liquidity and withdraw_liquidity
func (p Pair) Execute(env *fsm.Env, raw json.RawMessage) (*fsm.Response, lib.ErrorI) {
	msg := new(PairExecuteMsg)
	if err := lib.UnmarshalJSON(raw, msg); err != nil {
		return nil, err
	}
	config, err := p.config(env)
	if err != nil {
		return nil, err
	}
	switch {
	case msg.Swap != nil && msg.ProvideLiquidity == nil && msg.WithdrawLiquidity == nil:
		return p.swap(env, config, msg.Swap)
	case msg.ProvideLiquidity != nil && msg.Swap == nil && msg.WithdrawLiquidity == nil:
		return p.provideLiquidity(env, config, msg.ProvideLiquidity)
	case msg.WithdrawLiquidity != nil && msg.Swap == nil && msg.ProvideLiquidity == nil:
		return p.withdrawLiquidity(env, config)
	}
	return nil, ErrUnknownDexMessage()
}

// Query() answers pool, pair and simulation
func (p Pair) Query(env *fsm.Env, raw json.RawMessage) (any, lib.ErrorI) {
	msg := new(PairQueryMsg)
	if err := lib.UnmarshalJSON(raw, msg); err != nil {
		return nil, err
	}
	config, err := p.config(env)
	if err != nil {
		return nil, err
	}
	switch {
	case msg.Pool != nil:
		reserves, e := p.reserves(env, config, nil)
		if e != nil {
			return nil, e
		}
		supply, e := env.QuerySupply(ShareDenom(env.Self))
		if e != nil {
			return nil, e
		}
		return &PoolResponse{Assets: reserves, ShareDenom: ShareDenom(env.Self), TotalShare: supply, PairType: config.PairType}, nil
	case msg.Pair != nil:
		return &PairInfo{Address: env.Self, Denoms: config.Denoms, PairType: config.PairType, ShareDenom: ShareDenom(env.Self)}, nil
	case msg.Simulation != nil:
		reserves, e := p.reserves(env, config, nil)
		if e != nil {
			return nil, e
		}
		net, total, maker, e := p.simulate(env, config, reserves, msg.Simulation.OfferAsset, msg.Simulation.AskDenom)
		if e != nil {
			return nil, e
		}
		return &SimulationResponse{ReturnAmount: net, CommissionAmount: total, MakerFeeAmount: maker}, nil
	}
	return nil, ErrUnknownDexMessage()
}

// swap() prices the escrowed offer against the reserves held before it arrived
func (p Pair) swap(env *fsm.Env, config *pairConfig, msg *SwapMsg) (*fsm.Response, lib.ErrorI) {
	offer := msg.OfferAsset
	if err := p.requireFunds(env, lib.Basket{offer}); err != nil {
		return nil, err
	}
	reserves, err := p.reserves(env, config, env.Funds)
	if err != nil {
		return nil, err
	}
	net, _, maker, err := p.simulate(env, config, reserves, offer, msg.AskDenom)
	if err != nil {
		return nil, err
	}
	to := env.Sender
	if !msg.To.Empty() {
		to = msg.To
	}
	resp := fsm.NewResponse().
		AddAttribute("offer_asset", offer.String()).
		AddAttribute("return_amount", net.Dec()+msg.AskDenom).
		AddMessage(lib.NewSendMessage(to, lib.Basket{{Denom: msg.AskDenom, Amount: net}}))
	if !maker.IsZero() {
		fee, e := p.feeInfo(env, config)
		if e != nil {
			return nil, e
		}
		if fee.FeeAddress != nil {
			resp.AddMessage(lib.NewSendMessage(*fee.FeeAddress, lib.Basket{{Denom: msg.AskDenom, Amount: maker}}))
		}
	}
	return resp, nil
}

// simulate() computes the net return, the commission and the maker fee of a swap
func (p Pair) simulate(env *fsm.Env, config *pairConfig, reserves lib.Basket, offer lib.AssetAmount, askDenom string) (net, total, maker *uint256.Int, err lib.ErrorI) {
	if !config.has(offer.Denom) {
		return nil, nil, nil, ErrAssetNotInPair(offer.Denom)
	}
	if !config.has(askDenom) {
		return nil, nil, nil, ErrAssetNotInPair(askDenom)
	}
	if offer.Denom == askDenom || offer.IsZero() {
		return nil, nil, nil, ErrInvalidPairAssets("a swap needs a positive offer of a different asset")
	}
	gross, err := swapOutput(config.PairType, reserves.AmountOf(offer.Denom), reserves.AmountOf(askDenom), offer.Amount)
	if err != nil {
		return nil, nil, nil, err
	}
	fee, err := p.feeInfo(env, config)
	if err != nil {
		return nil, nil, nil, err
	}
	total, maker = commission(gross, PairConfig{PairType: config.PairType, TotalFeeBps: fee.TotalFeeBps, MakerFeeBps: fee.MakerFeeBps})
	net = new(uint256.Int).Sub(gross, total)
	if net.IsZero() {
		return nil, nil, nil, ErrInsufficientLiquidity()
	}
	return net, total, maker, nil
}

// provideLiquidity() mints shares for the escrowed assets
func (p Pair) provideLiquidity(env *fsm.Env, config *pairConfig, msg *ProvideLiquidityMsg) (*fsm.Response, lib.ErrorI) {
	if err := msg.Assets.Validate(); err != nil {
		return nil, err
	}
	for _, a := range msg.Assets {
		if !config.has(a.Denom) {
			return nil, ErrAssetNotInPair(a.Denom)
		}
	}
	if err := p.requireFunds(env, msg.Assets); err != nil {
		return nil, err
	}
	reserves, err := p.reserves(env, config, env.Funds)
	if err != nil {
		return nil, err
	}
	shareDenom := ShareDenom(env.Self)
	supply, err := env.QuerySupply(shareDenom)
	if err != nil {
		return nil, err
	}
	amounts, current := make([]*uint256.Int, len(config.Denoms)), make([]*uint256.Int, len(config.Denoms))
	for i, d := range config.Denoms {
		amounts[i], current[i] = msg.Assets.AmountOf(d), reserves.AmountOf(d)
	}
	var minted *uint256.Int
	if supply.IsZero() {
		minted, err = initialShares(amounts)
	} else {
		minted, err = proportionalShares(amounts, current, supply)
	}
	if err != nil {
		return nil, err
	}
	if minted.IsZero() {
		return nil, ErrZeroSharesMinted()
	}
	receiver := env.Sender
	if !msg.Receiver.Empty() {
		receiver = msg.Receiver
	}
	if err = env.Mint(receiver, lib.AssetAmount{Denom: shareDenom, Amount: minted}); err != nil {
		return nil, err
	}
	return fsm.NewResponse().
		AddAttribute("assets", msg.Assets.String()).
		AddAttribute("share", minted.Dec()).
		AddAttribute("receiver", receiver.String()), nil
}

// withdrawLiquidity() burns the escrowed shares and returns the proportional reserves
func (p Pair) withdrawLiquidity(env *fsm.Env, config *pairConfig) (*fsm.Response, lib.ErrorI) {
	shareDenom := ShareDenom(env.Self)
	if len(env.Funds) != 1 || env.Funds[0].Denom != shareDenom || env.Funds[0].IsZero() {
		return nil, ErrFundsMismatch(shareDenom, env.Funds.String())
	}
	shares := env.Funds[0].Amount
	supply, err := env.QuerySupply(shareDenom)
	if err != nil {
		return nil, err
	}
	reserves, err := p.reserves(env, config, nil)
	if err != nil {
		return nil, err
	}
	var refund lib.Basket
	for _, r := range reserves {
		if out := withdrawAmount(r.Amount, shares, supply); !out.IsZero() {
			refund = append(refund, lib.AssetAmount{Denom: r.Denom, Amount: out})
		}
	}
	if err = env.Burn(lib.AssetAmount{Denom: shareDenom, Amount: shares}); err != nil {
		return nil, err
	}
	resp := fsm.NewResponse().AddAttribute("withdrawn_share", shares.Dec())
	if len(refund) != 0 {
		resp.AddMessage(lib.NewSendMessage(env.Sender, refund))
	}
	return resp, nil
}

// reserves() reads the pair balances, excluding the funds escrowed by the current call
func (p Pair) reserves(env *fsm.Env, config *pairConfig, exclude lib.Basket) (lib.Basket, lib.ErrorI) {
	reserves := make(lib.Basket, 0, len(config.Denoms))
	for _, d := range config.Denoms {
		balance, err := env.QueryBalance(env.Self, d)
		if err != nil {
			return nil, err
		}
		deposit := exclude.AmountOf(d)
		if balance.Lt(deposit) {
			return nil, lib.NewDefect(lib.CodeInsufficientLiquidity, lib.DexModule, "escrowed funds exceed the pair balance")
		}
		reserves = append(reserves, lib.AssetAmount{Denom: d, Amount: balance.Sub(balance, deposit)})
	}
	return reserves, nil
}

// requireFunds() checks that the attached funds are exactly the expected assets
func (p Pair) requireFunds(env *fsm.Env, expected lib.Basket) lib.ErrorI {
	if !env.Funds.Equal(expected) {
		return ErrFundsMismatch(expected.String(), env.Funds.String())
	}
	return nil
}

// feeInfo() asks the factory for the fee schedule of the pair type
func (p Pair) feeInfo(env *fsm.Env, config *pairConfig) (*FeeInfoResponse, lib.ErrorI) {
	resp := new(FeeInfoResponse)
	if err := env.QuerySmart(config.Factory, FactoryQueryMsg{FeeInfo: &FeeInfoQuery{PairType: config.PairType}}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (p Pair) config(env *fsm.Env) (*pairConfig, lib.ErrorI) {
	config := new(pairConfig)
	found, err := fsm.GetJSON(env.Store(), pairConfigKey, config)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fsm.ErrContractNotFound(env.Self.String())
	}
	return config, nil
}
