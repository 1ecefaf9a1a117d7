package helper

import (
	"encoding/json"

	"github.com/canopy-network/lphelper/fsm"
	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
)

var _ fsm.ContractI = Helper{}

const configKey = "config"

// Helper is the balancing liquidity helper contract
// a deposit of any basket is swapped into the pool ratio, provided, and the minted shares forwarded,
// over three self-addressed stages that the host applies atomically
type Helper struct{}

// Config is set once at instantiation and handed to every handler
type Config struct {
	Factory crypto.Address `json:"factory"`
}

// Instantiate() saves the factory used for fee lookups
func (h Helper) Instantiate(env *fsm.Env, raw json.RawMessage) (*fsm.Response, lib.ErrorI) {
	msg := new(InstantiateMsg)
	if err := lib.UnmarshalJSON(raw, msg); err != nil {
		return nil, ErrInvalidInput(err.Error())
	}
	if err := msg.Factory.Validate(); err != nil {
		return nil, ErrInvalidInput("factory: " + err.Error())
	}
	if err := fsm.SetJSON(env.Store(), configKey, &Config{Factory: msg.Factory}); err != nil {
		return nil, err
	}
	return fsm.NewResponse().AddAttribute("factory", msg.Factory.String()), nil
}

// Execute() routes the public request and the internal callbacks
func (h Helper) Execute(env *fsm.Env, raw json.RawMessage) (*fsm.Response, lib.ErrorI) {
	// a callback is authorized before its payload is decoded
	envelope := new(struct {
		Callback json.RawMessage `json:"callback"`
	})
	if err := lib.UnmarshalJSON(raw, envelope); err != nil {
		return nil, ErrInvalidInput(err.Error())
	}
	if envelope.Callback != nil {
		if err := h.authorize(env); err != nil {
			return nil, err
		}
	}
	msg := new(ExecuteMsg)
	if err := lib.UnmarshalJSON(raw, msg); err != nil {
		return nil, ErrInvalidInput(err.Error())
	}
	switch {
	case msg.BalancingProvideLiquidity != nil && msg.Callback == nil:
		config, err := h.config(env)
		if err != nil {
			return nil, err
		}
		return h.balancingProvideLiquidity(env, config, msg.BalancingProvideLiquidity)
	case msg.Callback != nil && msg.BalancingProvideLiquidity == nil:
		return h.callback(env, msg.Callback)
	}
	return nil, ErrUnknownHelperMessage()
}

// Query() answers configured_factory and fee_info
func (h Helper) Query(env *fsm.Env, raw json.RawMessage) (any, lib.ErrorI) {
	msg := new(QueryMsg)
	if err := lib.UnmarshalJSON(raw, msg); err != nil {
		return nil, ErrInvalidInput(err.Error())
	}
	config, err := h.config(env)
	if err != nil {
		return nil, err
	}
	switch {
	case msg.ConfiguredFactory != nil && msg.FeeInfo == nil:
		return &ConfiguredFactoryResponse{Factory: config.Factory}, nil
	case msg.FeeInfo != nil && msg.ConfiguredFactory == nil:
		return queryFeeBps(env, config.Factory, msg.FeeInfo.PairType)
	}
	return nil, ErrUnknownHelperMessage()
}

func (h Helper) config(env *fsm.Env) (*Config, lib.ErrorI) {
	config := new(Config)
	found, err := fsm.GetJSON(env.Store(), configKey, config)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotConfigured()
	}
	return config, nil
}
