package helper

import (
	"fmt"
	"strconv"

	"github.com/canopy-network/lphelper/dex"
	"github.com/canopy-network/lphelper/fsm"
	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"github.com/holiman/uint256"
)

// balancingProvideLiquidity() is the entry point: it plans the swaps for the deposit,
// dispatches them and hands over to the provide stage
func (h Helper) balancingProvideLiquidity(env *fsm.Env, config *Config, msg *BalancingProvideLiquidityMsg) (*fsm.Response, lib.ErrorI) {
	if err := msg.Assets.Validate(); err != nil {
		return nil, ErrInvalidInput(err.Error())
	}
	deposit := msg.Assets.Sorted()
	if err := msg.Pool.Validate(); err != nil {
		return nil, err
	}
	recipient := env.Sender
	if msg.Recipient != "" {
		parsed, e := crypto.NewAddressFromString(msg.Recipient)
		if e != nil {
			return nil, ErrInvalidInput(fmt.Sprintf("recipient: %s", e.Error()))
		}
		recipient = parsed
	}
	minOut := new(uint256.Int)
	if msg.MinOut != nil {
		minOut = msg.MinOut.Clone()
	}
	// the deposit must already be in custody, escrowed by this very call
	if !env.Funds.Equal(deposit) {
		return nil, ErrInvalidInput(fmt.Sprintf("attached funds %q do not match the assets %q", env.Funds, deposit))
	}
	if err := h.requireFactoryPool(env, config, msg.Pool); err != nil {
		return nil, err
	}
	pool, err := ResolvePool(env, msg.Pool)
	if err != nil {
		return nil, err
	}
	plan, err := Balance(deposit, pool.Reserves())
	if err != nil {
		return nil, err
	}
	// snapshots exclude the deposit so that the provide stage sees the deposit plus the swap results
	checkpoints := make([]*Checkpoint, 0, len(pool.Reserves()))
	for _, r := range pool.Reserves() {
		cp, e := NewCheckpoint(env, r.Denom, env.Self)
		if e != nil {
			return nil, e
		}
		if e = cp.Exclude(deposit.AmountOf(r.Denom)); e != nil {
			return nil, e
		}
		checkpoints = append(checkpoints, cp)
	}
	resp := fsm.NewResponse().
		AddAttribute("action", "balancing_provide_liquidity").
		AddAttribute("pool", msg.Pool.String()).
		AddAttribute("deposit", deposit.String()).
		AddAttribute("balanced", plan.Basket.String()).
		AddAttribute("swaps", strconv.Itoa(len(plan.Swaps)))
	for _, s := range plan.Swaps {
		swap, e := pool.SwapInstruction(s.Offer, s.AskDenom)
		if e != nil {
			return nil, e
		}
		resp.AddMessage(swap)
	}
	ctx := &ExecutionContext{
		Stage:            StageAwaitingProvision,
		Pool:             msg.Pool,
		Basket:           plan.Basket,
		AssetCheckpoints: checkpoints,
		MinOut:           minOut,
		Recipient:        recipient,
	}
	next, err := callbackMessage(env.Self, &CallbackMsg{ProvideLiquidity: ctx})
	if err != nil {
		return nil, err
	}
	env.Logger().Debugf("Planned %d swaps for %s into %s", len(plan.Swaps), deposit, msg.Pool)
	return resp.AddMessage(next), nil
}

// requireFactoryPool() checks that the configured factory registered the pool under its assets and type
func (h Helper) requireFactoryPool(env *fsm.Env, config *Config, desc PoolDescriptor) lib.ErrorI {
	info := new(dex.PairInfo)
	state := new(dex.PairInfo)
	if err := env.QuerySmart(desc.Address, dex.PairQueryMsg{Pair: &dex.Empty{}}, state); err != nil {
		return ErrUpstreamQueryFailure(err)
	}
	query := dex.FactoryQueryMsg{Pair: &dex.PairQuery{Denoms: state.Denoms, PairType: state.PairType}}
	if err := env.QuerySmart(config.Factory, query, info); err != nil {
		return ErrUpstreamQueryFailure(err)
	}
	if !info.Address.Equals(desc.Address) {
		return ErrInvalidInput(fmt.Sprintf("pool %s is not registered with factory %s", desc.Address, config.Factory))
	}
	return nil
}

// callbackMessage() builds a self-addressed continuation
func callbackMessage(self crypto.Address, cb *CallbackMsg) (*lib.Message, lib.ErrorI) {
	return lib.NewExecuteMessage(self, ExecuteMsg{Callback: cb}, nil)
}
