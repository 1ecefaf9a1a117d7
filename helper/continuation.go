package helper

import (
	"github.com/canopy-network/lphelper/fsm"
	"github.com/canopy-network/lphelper/lib"
)

// callback() authorizes and routes a continuation
// callbacks travel over the public message channel, so the sender check runs before anything is read
func (h Helper) callback(env *fsm.Env, msg *CallbackMsg) (*fsm.Response, lib.ErrorI) {
	if err := h.authorize(env); err != nil {
		return nil, err
	}
	switch {
	case msg.ProvideLiquidity != nil && msg.ReturnShares == nil:
		return h.provideLiquidity(env, msg.ProvideLiquidity)
	case msg.ReturnShares != nil && msg.ProvideLiquidity == nil:
		return h.returnShares(env, msg.ReturnShares)
	}
	return nil, ErrUnknownHelperMessage()
}

// authorize() accepts only the helper itself as the sender
func (h Helper) authorize(env *fsm.Env) lib.ErrorI {
	if !env.Sender.Equals(env.Self) {
		return ErrUnauthorized(env.Sender.String())
	}
	return nil
}

// provideLiquidity() deposits what the entry point and the swaps left in custody and checkpoints the shares
func (h Helper) provideLiquidity(env *fsm.Env, ctx *ExecutionContext) (*fsm.Response, lib.ErrorI) {
	if ctx.Stage != StageAwaitingProvision {
		return nil, ErrUnexpectedStage(StageAwaitingProvision, ctx.Stage)
	}
	var provided lib.Basket
	for _, cp := range ctx.AssetCheckpoints {
		if !cp.Holder.Equals(env.Self) {
			return nil, ErrInvalidInput("asset checkpoint of a foreign holder")
		}
		asset, err := cp.Asset(env)
		if err != nil {
			return nil, err
		}
		provided = append(provided, asset)
	}
	provided = provided.NonZero().Sorted()
	if len(provided) == 0 {
		return nil, ErrInvalidInput("nothing left to provide")
	}
	pool, err := ResolvePool(env, ctx.Pool)
	if err != nil {
		return nil, err
	}
	shares, err := NewCheckpoint(env, pool.ShareDenom(), env.Self)
	if err != nil {
		return nil, err
	}
	provide, err := pool.ProvideInstruction(provided, env.Self)
	if err != nil {
		return nil, err
	}
	next := ctx.next(StageAwaitingReturn)
	next.Basket, next.ShareCheckpoint = provided, shares
	cb, err := callbackMessage(env.Self, &CallbackMsg{ReturnShares: next})
	if err != nil {
		return nil, err
	}
	return fsm.NewResponse().
		AddAttribute("action", "provide_liquidity").
		AddAttribute("provided", provided.String()).
		AddMessage(provide).
		AddMessage(cb), nil
}

// returnShares() is the terminal stage: it measures the minted shares, enforces the minimum and forwards them
func (h Helper) returnShares(env *fsm.Env, ctx *ExecutionContext) (*fsm.Response, lib.ErrorI) {
	if ctx.Stage != StageAwaitingReturn {
		return nil, ErrUnexpectedStage(StageAwaitingReturn, ctx.Stage)
	}
	if ctx.ShareCheckpoint == nil || !ctx.ShareCheckpoint.Holder.Equals(env.Self) {
		return nil, ErrInvalidInput("missing share checkpoint")
	}
	minted, err := ctx.ShareCheckpoint.Asset(env)
	if err != nil {
		return nil, err
	}
	if ctx.MinOut != nil && minted.Amount.Lt(ctx.MinOut) {
		return nil, ErrSlippageExceeded(minted.Amount.Dec(), ctx.MinOut.Dec())
	}
	resp := fsm.NewResponse().
		AddAttribute("action", "return_shares").
		AddAttribute("stage", StageDone.String()).
		AddAttribute("minted", minted.String()).
		AddAttribute("recipient", ctx.Recipient.String())
	if !minted.IsZero() {
		resp.AddMessage(lib.NewSendMessage(ctx.Recipient, lib.Basket{minted}))
	}
	env.Logger().Debugf("Returned %s to %s", minted, ctx.Recipient)
	return resp, nil
}
