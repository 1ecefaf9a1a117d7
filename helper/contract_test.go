package helper

import (
	"errors"
	"testing"

	"github.com/canopy-network/lphelper/dex"
	"github.com/canopy-network/lphelper/fsm"
	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"github.com/canopy-network/lphelper/store"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

var (
	user       = crypto.NewAccountAddress("user")
	provider   = crypto.NewAccountAddress("provider")
	bob        = crypto.NewAccountAddress("bob")
	feeAddr    = crypto.NewAccountAddress("fees")
	factory    = crypto.NewContractAddress("factory")
	helperAddr = crypto.NewContractAddress("helper")
)

// newTestHelper() creates a ledger with a factory owning an xyk and a stable x/y pair, and a helper bound to it
func newTestHelper(t *testing.T, totalBps, makerBps uint16) *fsm.StateMachine {
	db, err := store.NewStoreInMemory(lib.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	codes := fsm.Codes{dex.FactoryCode: dex.Factory{}, dex.PairCode: dex.Pair{}, Code: Helper{}}
	sm, err := fsm.New(lib.DefaultConfig(), db, codes, lib.NewNullLogger())
	require.NoError(t, err)
	factoryMsg, err := fsm.GenesisMsg(dex.FactoryInstantiateMsg{
		FeeAddress: feeAddr,
		PairConfigs: []dex.PairConfig{
			{PairType: lib.PairTypeXyk, TotalFeeBps: totalBps, MakerFeeBps: makerBps},
			{PairType: lib.PairTypeStable, TotalFeeBps: totalBps, MakerFeeBps: makerBps},
		},
		Pairs: []dex.CreatePairMsg{
			{Denoms: []string{"x", "y"}, PairType: lib.PairTypeXyk},
			{Denoms: []string{"x", "y"}, PairType: lib.PairTypeStable},
		},
	})
	require.NoError(t, err)
	helperMsg, err := fsm.GenesisMsg(InstantiateMsg{Factory: factory})
	require.NoError(t, err)
	require.NoError(t, sm.ApplyGenesis(&fsm.GenesisState{
		Balances: []*fsm.GenesisBalance{
			{Address: provider, Coins: []string{"1000000x", "1000000y"}},
			{Address: user, Coins: []string{"1000000x", "1000000y", "1000000z"}},
		},
		Contracts: []*fsm.GenesisContract{
			{Code: dex.FactoryCode, Label: "factory", Msg: factoryMsg},
			{Code: Code, Label: "helper", Msg: helperMsg},
		},
	}))
	return sm
}

func poolOf(pairType lib.PairType) PoolDescriptor {
	return PoolDescriptor{Address: dex.PairAddress(factory, []string{"x", "y"}, pairType), PairType: pairType}
}

func shareOf(pairType lib.PairType) string { return dex.ShareDenom(poolOf(pairType).Address) }

// seed() has the provider deposit x and y straight into a pair
func seed(t *testing.T, sm *fsm.StateMachine, pairType lib.PairType, x, y uint64) {
	assets := coins("x", int(x), "y", int(y))
	msg := dex.PairExecuteMsg{ProvideLiquidity: &dex.ProvideLiquidityMsg{Assets: assets}}
	_, err := execute(t, sm, provider, poolOf(pairType).Address, msg, assets)
	require.NoError(t, err)
}

func execute(t *testing.T, sm *fsm.StateMachine, sender, contract crypto.Address, msg any, funds lib.Basket) (*lib.TxResult, lib.ErrorI) {
	m, err := lib.NewExecuteMessage(contract, msg, funds)
	require.NoError(t, err)
	return sm.ApplyTransaction(&lib.Transaction{Sender: sender, Messages: []*lib.Message{m}})
}

func provideThroughHelper(t *testing.T, sm *fsm.StateMachine, assets lib.Basket, pool PoolDescriptor, minOut uint64, recipient crypto.Address) (*lib.TxResult, lib.ErrorI) {
	tx, err := NewClient(helperAddr).ProvideTransaction(user, assets, pool, uint256.NewInt(minOut), recipient, "")
	require.NoError(t, err)
	return sm.ApplyTransaction(tx)
}

func balanceOf(t *testing.T, sm *fsm.StateMachine, address crypto.Address, denom string) uint64 {
	b, err := sm.GetBalance(address, denom)
	require.NoError(t, err)
	return b.Uint64()
}

// helperEvent() finds the execute event the helper emitted for an action
func helperEvent(t *testing.T, result *lib.TxResult, action string) *lib.Event {
	for _, e := range result.EventsOf(fsm.EventTypeExecute) {
		contract, _ := e.Get(fsm.AttrContract)
		a, _ := e.Get("action")
		if contract == helperAddr.String() && a == action {
			return e
		}
	}
	require.Failf(t, "missing event", "no helper event for %s", action)
	return nil
}

func attr(e *lib.Event, key string) string {
	v, _ := e.Get(key)
	return v
}

// snapshot() reads every balance the helper flow may touch
func snapshot(t *testing.T, sm *fsm.StateMachine, pairType lib.PairType) map[string]uint64 {
	out := make(map[string]uint64)
	for name, address := range map[string]crypto.Address{"user": user, "helper": helperAddr, "pair": poolOf(pairType).Address, "bob": bob, "fees": feeAddr} {
		for _, denom := range []string{"x", "y", shareOf(pairType)} {
			out[name+"/"+denom] = balanceOf(t, sm, address, denom)
		}
	}
	supply, err := sm.GetSupply(shareOf(pairType))
	require.NoError(t, err)
	out["supply"] = supply.Uint64()
	return out
}

func TestSingleAssetDeposit(t *testing.T) {
	sm := newTestHelper(t, 0, 0)
	seed(t, sm, lib.PairTypeStable, 1000, 1000)
	share := shareOf(lib.PairTypeStable)
	result, err := provideThroughHelper(t, sm, coins("x", 100), poolOf(lib.PairTypeStable), 1, nil)
	require.NoError(t, err)
	require.True(t, result.Success())
	// one swap of 50x into 50y, then {50x,50y} provided
	entry := helperEvent(t, result, "balancing_provide_liquidity")
	require.Equal(t, "1", attr(entry, "swaps"))
	require.Equal(t, "50x,50y", attr(entry, "balanced"))
	require.Equal(t, "50x,50y", attr(helperEvent(t, result, "provide_liquidity"), "provided"))
	// the pair moved to 1050/950 with the swap, so {50,50} mints min(50·1000/1050, 50·1000/950) = 47
	require.Equal(t, "47"+share, attr(helperEvent(t, result, "return_shares"), "minted"))
	require.Equal(t, uint64(47), balanceOf(t, sm, user, share))
	require.Equal(t, uint64(1000000-100), balanceOf(t, sm, user, "x"))
	require.Equal(t, uint64(1000000), balanceOf(t, sm, user, "y"))
	require.Equal(t, uint64(1100), balanceOf(t, sm, poolOf(lib.PairTypeStable).Address, "x"))
	require.Equal(t, uint64(1000), balanceOf(t, sm, poolOf(lib.PairTypeStable).Address, "y"))
	// nothing is left behind in the helper
	for _, denom := range []string{"x", "y", share} {
		require.Zero(t, balanceOf(t, sm, helperAddr, denom), denom)
	}
}

func TestBalancedDeposit(t *testing.T) {
	sm := newTestHelper(t, 0, 0)
	seed(t, sm, lib.PairTypeStable, 1000, 1000)
	result, err := provideThroughHelper(t, sm, coins("x", 40, "y", 40), poolOf(lib.PairTypeStable), 40, nil)
	require.NoError(t, err)
	require.Equal(t, "0", attr(helperEvent(t, result, "balancing_provide_liquidity"), "swaps"))
	require.Equal(t, "40x,40y", attr(helperEvent(t, result, "provide_liquidity"), "provided"))
	require.Equal(t, uint64(40), balanceOf(t, sm, user, shareOf(lib.PairTypeStable)))
	require.Equal(t, uint64(1040), balanceOf(t, sm, poolOf(lib.PairTypeStable).Address, "x"))
	require.Equal(t, uint64(1040), balanceOf(t, sm, poolOf(lib.PairTypeStable).Address, "y"))
}

func TestDepositWithFees(t *testing.T) {
	sm := newTestHelper(t, 30, 10)
	seed(t, sm, lib.PairTypeXyk, 100000, 100000)
	share := shareOf(lib.PairTypeXyk)
	_, err := provideThroughHelper(t, sm, coins("x", 100000), poolOf(lib.PairTypeXyk), 0, nil)
	require.NoError(t, err)
	// 50000x buys 33333y gross: 99 of commission, 33 of it to the fee address, 33234 to the helper
	require.Equal(t, uint64(33), balanceOf(t, sm, feeAddr, "y"))
	// {50000x,33234y} against 150000/66733 mints min(33333, 49802)
	require.Equal(t, uint64(33333), balanceOf(t, sm, user, share))
	for _, denom := range []string{"x", "y", share} {
		require.Zero(t, balanceOf(t, sm, helperAddr, denom), denom)
	}
}

func TestRecipient(t *testing.T) {
	sm := newTestHelper(t, 0, 0)
	seed(t, sm, lib.PairTypeStable, 1000, 1000)
	_, err := provideThroughHelper(t, sm, coins("x", 100), poolOf(lib.PairTypeStable), 0, bob)
	require.NoError(t, err)
	require.Equal(t, uint64(47), balanceOf(t, sm, bob, shareOf(lib.PairTypeStable)))
	require.Zero(t, balanceOf(t, sm, user, shareOf(lib.PairTypeStable)))
}

func TestSlippageRollsBack(t *testing.T) {
	sm := newTestHelper(t, 0, 0)
	seed(t, sm, lib.PairTypeStable, 1000, 1000)
	before := snapshot(t, sm, lib.PairTypeStable)
	_, err := provideThroughHelper(t, sm, coins("x", 100), poolOf(lib.PairTypeStable), 48, nil)
	require.Equal(t, ErrSlippageExceeded("47", "48"), err)
	// the escrow, the swap and the provision are all undone
	require.Equal(t, before, snapshot(t, sm, lib.PairTypeStable))
}

func TestResidueIsNotForwarded(t *testing.T) {
	sm := newTestHelper(t, 0, 0)
	seed(t, sm, lib.PairTypeStable, 1000, 1000)
	share := shareOf(lib.PairTypeStable)
	// unrelated funds already sit in the helper account
	gift := coins("x", 7)
	gift = append(gift, lib.NewAssetAmount(share, 5))
	_, err := sm.ApplyTransaction(&lib.Transaction{Sender: provider, Messages: []*lib.Message{lib.NewSendMessage(helperAddr, gift)}})
	require.NoError(t, err)
	_, err = provideThroughHelper(t, sm, coins("x", 100), poolOf(lib.PairTypeStable), 1, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(47), balanceOf(t, sm, user, share))
	require.Equal(t, uint64(7), balanceOf(t, sm, helperAddr, "x"))
	require.Zero(t, balanceOf(t, sm, helperAddr, "y"))
	require.Equal(t, uint64(5), balanceOf(t, sm, helperAddr, share))
}

func TestCallbackAuthorization(t *testing.T) {
	sm := newTestHelper(t, 0, 0)
	seed(t, sm, lib.PairTypeStable, 1000, 1000)
	share := shareOf(lib.PairTypeStable)
	// shares left in the helper that a forged callback would try to claim
	_, err := sm.ApplyTransaction(&lib.Transaction{Sender: provider, Messages: []*lib.Message{
		lib.NewSendMessage(helperAddr, lib.Basket{lib.NewAssetAmount(share, 500)}),
	}})
	require.NoError(t, err)
	forged := &ExecutionContext{
		Pool:            poolOf(lib.PairTypeStable),
		ShareCheckpoint: &Checkpoint{Token: share, Holder: helperAddr, Snapshot: uint256.NewInt(0)},
		MinOut:          uint256.NewInt(0),
		Recipient:       user,
	}
	provideStage, returnStage := *forged, *forged
	provideStage.Stage, returnStage.Stage = StageAwaitingProvision, StageAwaitingReturn
	provideStage.AssetCheckpoints = []*Checkpoint{{Token: "x", Holder: helperAddr, Snapshot: uint256.NewInt(0)}}
	tests := []struct {
		name   string
		detail string
		msg    *CallbackMsg
	}{
		{name: "provide stage", detail: "a provide_liquidity callback from a user", msg: &CallbackMsg{ProvideLiquidity: &provideStage}},
		{name: "return stage", detail: "a return_shares callback from a user", msg: &CallbackMsg{ReturnShares: &returnStage}},
		{name: "malformed", detail: "the sender check runs before the payload is looked at", msg: &CallbackMsg{ReturnShares: &ExecutionContext{}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			before := snapshot(t, sm, lib.PairTypeStable)
			_, err := execute(t, sm, user, helperAddr, ExecuteMsg{Callback: test.msg}, nil)
			require.Equal(t, ErrUnauthorized(user.String()), err, test.detail)
			require.Equal(t, before, snapshot(t, sm, lib.PairTypeStable))
			require.Equal(t, uint64(500), balanceOf(t, sm, helperAddr, share))
		})
	}
}

func TestEntryValidation(t *testing.T) {
	sm := newTestHelper(t, 0, 0)
	seed(t, sm, lib.PairTypeStable, 1000, 1000)
	stable := poolOf(lib.PairTypeStable)
	tests := []struct {
		name   string
		detail string
		msg    *BalancingProvideLiquidityMsg
		funds  lib.Basket
		error  lib.ErrorI
	}{
		{name: "empty basket", detail: "an empty basket is never a deposit", msg: &BalancingProvideLiquidityMsg{Pool: stable}, error: ErrInvalidInput("")},
		{name: "zero amount", detail: "amounts must be positive", msg: &BalancingProvideLiquidityMsg{Assets: coins("x", 0), Pool: stable}, error: ErrInvalidInput("")},
		{name: "duplicate denom", detail: "identifiers must be unique", msg: &BalancingProvideLiquidityMsg{Assets: coins("x", 1, "x", 1), Pool: stable}, funds: coins("x", 2), error: ErrInvalidInput("")},
		{name: "no funds", detail: "the deposit must be attached", msg: &BalancingProvideLiquidityMsg{Assets: coins("x", 100), Pool: stable}, error: ErrInvalidInput("")},
		{name: "short funds", detail: "the attached amount must match", msg: &BalancingProvideLiquidityMsg{Assets: coins("x", 100), Pool: stable}, funds: coins("x", 50), error: ErrInvalidInput("")},
		{name: "extra funds", detail: "no extra denom may be attached", msg: &BalancingProvideLiquidityMsg{Assets: coins("x", 100), Pool: stable}, funds: coins("x", 100, "y", 5), error: ErrInvalidInput("")},
		{name: "bad recipient", detail: "the recipient must parse", msg: &BalancingProvideLiquidityMsg{Assets: coins("x", 100), Pool: stable, Recipient: "not-hex"}, funds: coins("x", 100), error: ErrInvalidInput("")},
		{name: "unsupported asset", detail: "z is not an asset of the pool", msg: &BalancingProvideLiquidityMsg{Assets: coins("z", 10), Pool: stable}, funds: coins("z", 10), error: ErrUnsupportedAsset("z")},
		{name: "unknown pool", detail: "no contract at the pool address", msg: &BalancingProvideLiquidityMsg{Assets: coins("x", 100), Pool: PoolDescriptor{Address: crypto.NewContractAddress("nowhere"), PairType: lib.PairTypeXyk}}, funds: coins("x", 100), error: ErrUpstreamQueryFailure(errors.New(""))},
		{name: "wrong variant", detail: "the descriptor tag must match the pool", msg: &BalancingProvideLiquidityMsg{Assets: coins("x", 100), Pool: PoolDescriptor{Address: stable.Address, PairType: lib.PairTypeXyk}}, funds: coins("x", 100), error: ErrInvalidInput("")},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := execute(t, sm, user, helperAddr, ExecuteMsg{BalancingProvideLiquidity: test.msg}, test.funds)
			require.True(t, lib.ErrorIs(err, test.error), "%s: %v", test.detail, err)
		})
	}
}

func TestUnregisteredPool(t *testing.T) {
	sm := newTestHelper(t, 0, 0)
	// a pair instantiated outside the factory, claiming the factory as its own
	instantiate, err := lib.NewInstantiateMessage(dex.PairCode, "rogue", dex.PairInstantiateMsg{Denoms: []string{"x", "y"}, PairType: lib.PairTypeXyk, Factory: factory})
	require.NoError(t, err)
	_, err = sm.ApplyTransaction(&lib.Transaction{Sender: user, Messages: []*lib.Message{instantiate}})
	require.NoError(t, err)
	rogue := PoolDescriptor{Address: crypto.NewContractAddress("rogue"), PairType: lib.PairTypeXyk}
	_, err = provideThroughHelper(t, sm, coins("x", 100), rogue, 0, nil)
	require.True(t, lib.ErrorIs(err, ErrInvalidInput("")), "%v", err)
}

func TestEmptyPool(t *testing.T) {
	sm := newTestHelper(t, 0, 0)
	// the first provider sets the price, so the deposit is provided as is
	_, err := provideThroughHelper(t, sm, coins("x", 400, "y", 100), poolOf(lib.PairTypeXyk), 200, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(200), balanceOf(t, sm, user, shareOf(lib.PairTypeXyk)))
}

func TestHelperQueries(t *testing.T) {
	sm := newTestHelper(t, 30, 10)
	client := NewClient(helperAddr)
	configured, err := client.ConfiguredFactory(sm)
	require.NoError(t, err)
	require.Equal(t, factory, configured)
	fee, err := client.FeeInfo(sm, lib.PairTypeStable)
	require.NoError(t, err)
	require.Equal(t, uint16(30), fee.TotalFeeBps)
	require.Equal(t, uint16(10), fee.MakerFeeBps)
	require.Equal(t, "0.003", fee.TotalFeeRate.String())
	require.Equal(t, "0.001", fee.MakerFeeRate.String())
	require.Equal(t, feeAddr, *fee.FeeAddress)
	// a type the factory does not configure
	_, err = client.FeeInfo(sm, lib.NewCustomPairType("curve"))
	require.True(t, lib.ErrorIs(err, ErrUpstreamQueryFailure(errors.New(""))), "%v", err)
}
