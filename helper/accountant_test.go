package helper

import (
	"errors"
	"testing"

	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

// testLedger is an in-memory balance sheet
type testLedger map[string]*uint256.Int

func (l testLedger) key(address crypto.Address, denom string) string { return address.String() + "/" + denom }

func (l testLedger) QueryBalance(address crypto.Address, denom string) (*uint256.Int, lib.ErrorI) {
	if b, ok := l[l.key(address, denom)]; ok {
		return b.Clone(), nil
	}
	return new(uint256.Int), nil
}

func (l testLedger) QuerySmart(crypto.Address, any, any) lib.ErrorI {
	return lib.ErrInvalidArgument(errors.New("no contracts"))
}

func (l testLedger) add(address crypto.Address, denom string, amount *uint256.Int) {
	b, _ := l.QueryBalance(address, denom)
	l[l.key(address, denom)] = b.Add(b, amount)
}

func (l testLedger) sub(address crypto.Address, denom string, amount *uint256.Int) {
	b, _ := l.QueryBalance(address, denom)
	l[l.key(address, denom)] = b.Sub(b, amount)
}

func TestCheckpointResolve(t *testing.T) {
	holder := crypto.NewContractAddress("holder")
	top := new(uint256.Int).SetAllOne()
	tests := []struct {
		name     string
		detail   string
		existing *uint256.Int
		minted   *uint256.Int
	}{
		{name: "empty holder", detail: "nothing held before the mint", existing: uint256.NewInt(0), minted: uint256.NewInt(77)},
		{name: "residue", detail: "an unrelated balance held before the mint", existing: uint256.NewInt(12345), minted: uint256.NewInt(77)},
		{name: "no mint", detail: "a zero delta is not an error", existing: uint256.NewInt(12345), minted: uint256.NewInt(0)},
		{name: "large residue", detail: "the delta is exact near the top of the range", existing: new(uint256.Int).Sub(top, uint256.NewInt(1000)), minted: uint256.NewInt(1000)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ledger := testLedger{}
			ledger.add(holder, "share", test.existing)
			cp, err := NewCheckpoint(ledger, "share", holder)
			require.NoError(t, err)
			require.Equal(t, test.existing, cp.Snapshot)
			ledger.add(holder, "share", test.minted)
			delta, err := cp.Resolve(ledger)
			require.NoError(t, err, test.detail)
			require.Equal(t, test.minted, delta, test.detail)
			// resolving again reads afresh and gives the same answer
			asset, err := cp.Asset(ledger)
			require.NoError(t, err)
			require.Equal(t, lib.AssetAmount{Denom: "share", Amount: test.minted}, asset)
		})
	}
}

func TestCheckpointExclude(t *testing.T) {
	holder := crypto.NewContractAddress("holder")
	ledger := testLedger{}
	// 30 of residue, then a deposit of 100 that already arrived
	ledger.add(holder, "x", uint256.NewInt(130))
	cp, err := NewCheckpoint(ledger, "x", holder)
	require.NoError(t, err)
	require.NoError(t, cp.Exclude(uint256.NewInt(100)))
	require.NoError(t, cp.Exclude(nil))
	require.Equal(t, uint256.NewInt(30), cp.Snapshot)
	// half the deposit is swapped away
	ledger.sub(holder, "x", uint256.NewInt(50))
	delta, err := cp.Resolve(ledger)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(50), delta)
	// excluding more than the snapshot is a defect
	err = cp.Exclude(uint256.NewInt(31))
	require.True(t, lib.ErrorIs(err, ErrAccountingInvariantViolation("")))
	require.True(t, lib.IsDefect(err))
	require.Equal(t, uint256.NewInt(30), cp.Snapshot)
}

func TestCheckpointNegativeDelta(t *testing.T) {
	holder := crypto.NewContractAddress("holder")
	ledger := testLedger{}
	ledger.add(holder, "share", uint256.NewInt(10))
	cp, err := NewCheckpoint(ledger, "share", holder)
	require.NoError(t, err)
	ledger.sub(holder, "share", uint256.NewInt(1))
	_, err = cp.Resolve(ledger)
	require.True(t, lib.ErrorIs(err, ErrAccountingInvariantViolation("")))
	require.True(t, lib.IsDefect(err))
	require.Contains(t, err.Error(), "DEFECT")
}
