package controller

import (
	"testing"

	"github.com/canopy-network/lphelper/dex"
	"github.com/canopy-network/lphelper/fsm"
	"github.com/canopy-network/lphelper/helper"
	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, inMemory bool) lib.Config {
	c := lib.DefaultConfig()
	c.DataDirPath, c.InMemory = t.TempDir(), inMemory
	c.SyncWrites = false
	return c
}

func newTestController(t *testing.T) *Controller {
	genesis, err := DefaultGenesis()
	require.NoError(t, err)
	c, err := New(testConfig(t, true), genesis, lib.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(c.Stop)
	return c
}

func xykPool() helper.PoolDescriptor {
	p := DefaultPairs()[0]
	return helper.PoolDescriptor{Address: dex.PairAddress(FactoryAddress(), p.Denoms, p.PairType), PairType: p.PairType}
}

func provideTx(t *testing.T, assets lib.Basket, minOut *uint256.Int) *lib.Transaction {
	tx, err := helper.NewClient(HelperAddress()).ProvideTransaction(FaucetAddress, assets, xykPool(), minOut, nil, "")
	require.NoError(t, err)
	return tx
}

func TestNewAppliesGenesis(t *testing.T) {
	c := newTestController(t)
	require.EqualValues(t, 1, c.Height())
	// the seeded xyk pool
	pool, err := c.QueryPool(xykPool().Address)
	require.NoError(t, err)
	require.EqualValues(t, 1_000_000_000, pool.Assets.AmountOf("uatom").Uint64())
	require.EqualValues(t, 10_000_000_000, pool.Assets.AmountOf("uusdc").Uint64())
	require.False(t, pool.TotalShare.IsZero())
	// the helper is bound to the factory
	factory, err := c.QueryFactory(nil)
	require.NoError(t, err)
	require.Equal(t, FactoryAddress(), factory)
	info, err := c.QueryFeeInfo(HelperAddress(), lib.PairTypeXyk)
	require.NoError(t, err)
	require.EqualValues(t, 30, info.TotalFeeBps)
	require.EqualValues(t, 10, info.MakerFeeBps)
	require.Equal(t, "0.003", info.TotalFeeRate.String())
	contracts, err := c.QueryContracts()
	require.NoError(t, err)
	require.Len(t, contracts, 4)
}

func TestSendTx(t *testing.T) {
	c := newTestController(t)
	shareDenom := dex.ShareDenom(xykPool().Address)
	before, err := c.QueryBalance(FaucetAddress, shareDenom)
	require.NoError(t, err)
	result, err := c.SendTx(provideTx(t, lib.Basket{lib.NewAssetAmount("uatom", 1_000_000)}, nil))
	require.NoError(t, err)
	require.True(t, result.Success())
	require.NotEmpty(t, result.RequestID)
	require.EqualValues(t, 2, result.Height)
	require.EqualValues(t, 2, c.Height())
	// the faucet received shares
	after, err := c.QueryBalance(FaucetAddress, shareDenom)
	require.NoError(t, err)
	require.True(t, after.Gt(before))
	// the result is journaled
	journaled, err := c.QueryTx(result.TxHash)
	require.NoError(t, err)
	require.Equal(t, result.RequestID, journaled.RequestID)
	require.Len(t, journaled.Events, len(result.Events))
}

func TestSendTxFailure(t *testing.T) {
	c := newTestController(t)
	before, err := c.QueryBalances(FaucetAddress)
	require.NoError(t, err)
	result, err := c.SendTx(provideTx(t, lib.Basket{lib.NewAssetAmount("uatom", 1_000_000)}, uint256.NewInt(1_000_000_000_000)))
	require.True(t, lib.ErrorIs(err, helper.ErrSlippageExceeded("", "")))
	require.NotNil(t, result)
	require.False(t, result.Success())
	// nothing was committed
	require.EqualValues(t, 1, c.Height())
	after, err := c.QueryBalances(FaucetAddress)
	require.NoError(t, err)
	require.True(t, before.Equal(after))
	// the failure is journaled
	journaled, err := c.QueryTx(result.TxHash)
	require.NoError(t, err)
	require.NotNil(t, journaled.Error)
	require.EqualValues(t, lib.CodeSlippageExceeded, journaled.Error.ECode)
}

func TestSendTxRejected(t *testing.T) {
	c := newTestController(t)
	tests := []struct {
		name     string
		detail   string
		tx       *lib.Transaction
		expected lib.ErrorI
	}{
		{
			name:     "nil",
			detail:   "a nil transaction never reaches the state machine",
			tx:       nil,
			expected: ErrNilTransaction(),
		},
		{
			name:     "empty",
			detail:   "a transaction without messages is rejected",
			tx:       &lib.Transaction{Sender: FaucetAddress},
			expected: fsm.ErrEmptyTransaction(),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := c.SendTx(test.tx)
			require.True(t, lib.ErrorIs(err, test.expected), err)
			require.EqualValues(t, 1, c.Height())
		})
	}
}

func TestResolveHelper(t *testing.T) {
	c := newTestController(t)
	tests := []struct {
		name     string
		detail   string
		address  crypto.Address
		expected lib.ErrorI
	}{
		{
			name:     "not a helper",
			detail:   "the factory runs a different code",
			address:  FactoryAddress(),
			expected: ErrNotHelper("", ""),
		},
		{
			name:     "unknown",
			detail:   "no contract lives at the address",
			address:  crypto.NewContractAddress("nothing"),
			expected: fsm.ErrContractNotFound(""),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := c.QueryFactory(test.address)
			require.True(t, lib.ErrorIs(err, test.expected), err)
		})
	}
}

func TestQueryHelper(t *testing.T) {
	c := newTestController(t)
	resolved, err := c.QueryHelper(nil)
	require.NoError(t, err)
	require.Equal(t, HelperAddress(), resolved)
	resolved, err = c.QueryHelper(HelperAddress())
	require.NoError(t, err)
	require.Equal(t, HelperAddress(), resolved)
}

func TestReopen(t *testing.T) {
	config := testConfig(t, false)
	genesis, err := DefaultGenesis()
	require.NoError(t, err)
	c, err := New(config, genesis, lib.NewNullLogger())
	require.NoError(t, err)
	result, err := c.SendTx(provideTx(t, lib.Basket{lib.NewAssetAmount("uusdc", 5_000_000)}, nil))
	require.NoError(t, err)
	c.Stop()
	// genesis is not applied twice, and state and journal survive
	c, err = New(config, nil, lib.NewNullLogger())
	require.NoError(t, err)
	defer c.Stop()
	require.EqualValues(t, 2, c.Height())
	journaled, err := c.QueryTx(result.TxHash)
	require.NoError(t, err)
	require.Equal(t, result.TxHash, journaled.TxHash)
	shares, err := c.QueryBalance(FaucetAddress, dex.ShareDenom(xykPool().Address))
	require.NoError(t, err)
	require.False(t, shares.IsZero())
}
