package dex

import (
	"encoding/json"

	"github.com/canopy-network/lphelper/fsm"
	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
)

var _ fsm.ContractI = Factory{}

const (
	factoryConfigKey = "config"
	factoryPairsKey  = "pairs"
)

// Factory is the registry of pairs and the source of their fee schedules
type Factory struct{}

// factoryConfig is the persisted state of a factory instance
type factoryConfig struct {
	Owner       crypto.Address `json:"owner"`
	FeeAddress  crypto.Address `json:"fee_address,omitempty"`
	PairConfigs []PairConfig   `json:"pair_configs"`
}

func (c *factoryConfig) pairConfig(pairType lib.PairType) (PairConfig, lib.ErrorI) {
	for _, pc := range c.PairConfigs {
		if pc.PairType == pairType {
			return pc, nil
		}
	}
	return PairConfig{}, ErrUnknownPairType(pairType.String())
}

// Instantiate() validates and saves the fee schedules, then creates the listed pairs
func (f Factory) Instantiate(env *fsm.Env, raw json.RawMessage) (*fsm.Response, lib.ErrorI) {
	msg := new(FactoryInstantiateMsg)
	if err := lib.UnmarshalJSON(raw, msg); err != nil {
		return nil, err
	}
	if !msg.FeeAddress.Empty() {
		if err := msg.FeeAddress.Validate(); err != nil {
			return nil, lib.ErrInvalidAddress(err)
		}
	}
	seen := make(map[lib.PairType]struct{})
	for _, pc := range msg.PairConfigs {
		if err := pc.Validate(); err != nil {
			return nil, err
		}
		if _, found := seen[pc.PairType]; found {
			return nil, lib.ErrInvalidPairType(pc.PairType.String())
		}
		seen[pc.PairType] = struct{}{}
	}
	config := &factoryConfig{Owner: env.Sender, FeeAddress: msg.FeeAddress, PairConfigs: msg.PairConfigs}
	if err := fsm.SetJSON(env.Store(), factoryConfigKey, config); err != nil {
		return nil, err
	}
	resp := fsm.NewResponse()
	for _, p := range msg.Pairs {
		if err := f.createPair(env, config, p, resp); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Execute() routes a factory execution
func (f Factory) Execute(env *fsm.Env, raw json.RawMessage) (*fsm.Response, lib.ErrorI) {
	msg := new(FactoryExecuteMsg)
	if err := lib.UnmarshalJSON(raw, msg); err != nil {
		return nil, err
	}
	if msg.CreatePair == nil {
		return nil, ErrUnknownDexMessage()
	}
	config, err := f.config(env)
	if err != nil {
		return nil, err
	}
	resp := fsm.NewResponse()
	return resp, f.createPair(env, config, *msg.CreatePair, resp)
}

// Query() answers fee_info, config, pairs and pair
func (f Factory) Query(env *fsm.Env, raw json.RawMessage) (any, lib.ErrorI) {
	msg := new(FactoryQueryMsg)
	if err := lib.UnmarshalJSON(raw, msg); err != nil {
		return nil, err
	}
	config, err := f.config(env)
	if err != nil {
		return nil, err
	}
	switch {
	case msg.FeeInfo != nil:
		pc, e := config.pairConfig(msg.FeeInfo.PairType)
		if e != nil {
			return nil, e
		}
		resp := &FeeInfoResponse{TotalFeeBps: pc.TotalFeeBps, MakerFeeBps: pc.MakerFeeBps}
		if !config.FeeAddress.Empty() {
			resp.FeeAddress = &config.FeeAddress
		}
		return resp, nil
	case msg.Config != nil:
		resp := &ConfigResponse{Owner: config.Owner, FeeAddress: config.FeeAddress}
		for _, pc := range config.PairConfigs {
			resp.PairConfigs = append(resp.PairConfigs, PairConfigDisplay{PairConfig: pc, TotalFeeRate: pc.TotalFeeRate(), MakerFeeRate: pc.MakerFeeRate()})
		}
		return resp, nil
	case msg.Pairs != nil:
		pairs, e := f.pairs(env)
		return &PairsResponse{Pairs: pairs}, e
	case msg.Pair != nil:
		pairs, e := f.pairs(env)
		if e != nil {
			return nil, e
		}
		address := PairAddress(env.Self, msg.Pair.Denoms, msg.Pair.PairType)
		for _, p := range pairs {
			if p.Address.Equals(address) {
				return p, nil
			}
		}
		return nil, fsm.ErrContractNotFound(address.String())
	}
	return nil, ErrUnknownDexMessage()
}

// createPair() records the pair and dispatches its instantiation
func (f Factory) createPair(env *fsm.Env, config *factoryConfig, msg CreatePairMsg, resp *fsm.Response) lib.ErrorI {
	denoms, err := NormalizeDenoms(msg.Denoms)
	if err != nil {
		return err
	}
	if _, err = config.pairConfig(msg.PairType); err != nil {
		return err
	}
	pairs, err := f.pairs(env)
	if err != nil {
		return err
	}
	address := PairAddress(env.Self, denoms, msg.PairType)
	pairs = append(pairs, PairInfo{Address: address, Denoms: denoms, PairType: msg.PairType, ShareDenom: ShareDenom(address)})
	if err = fsm.SetJSON(env.Store(), factoryPairsKey, pairs); err != nil {
		return err
	}
	instantiate, err := lib.NewInstantiateMessage(PairCode, PairLabel(env.Self, denoms, msg.PairType), PairInstantiateMsg{
		Denoms:   denoms,
		PairType: msg.PairType,
		Factory:  env.Self,
	})
	if err != nil {
		return err
	}
	resp.AddMessage(instantiate).AddAttribute("pair", address.String())
	return nil
}

func (f Factory) config(env *fsm.Env) (*factoryConfig, lib.ErrorI) {
	config := new(factoryConfig)
	found, err := fsm.GetJSON(env.Store(), factoryConfigKey, config)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fsm.ErrContractNotFound(env.Self.String())
	}
	return config, nil
}

func (f Factory) pairs(env *fsm.Env) (pairs []PairInfo, err lib.ErrorI) {
	_, err = fsm.GetJSON(env.Store(), factoryPairsKey, &pairs)
	return
}
