package helper

import (
	"fmt"

	"github.com/canopy-network/lphelper/fsm"
	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"github.com/holiman/uint256"
)

/*
	Balance-delta accounting: the helper account is shared by every request, so what one request
	produced is the difference between a fresh read and a snapshot taken earlier in the same request.
	This only holds because the host never interleaves two top-level requests.
*/

// Checkpoint is a balance snapshot of token held by holder
type Checkpoint struct {
	Token    string         `json:"token"`
	Holder   crypto.Address `json:"holder"`
	Snapshot *uint256.Int   `json:"snapshot"`
}

// NewCheckpoint() reads the current balance and records it
func NewCheckpoint(q fsm.QuerierI, token string, holder crypto.Address) (*Checkpoint, lib.ErrorI) {
	balance, err := q.QueryBalance(holder, token)
	if err != nil {
		return nil, err
	}
	return &Checkpoint{Token: token, Holder: holder, Snapshot: balance.Clone()}, nil
}

// Exclude() lowers the snapshot by an amount that already arrived with the current request
func (c *Checkpoint) Exclude(amount *uint256.Int) lib.ErrorI {
	if amount == nil || amount.IsZero() {
		return nil
	}
	if c.Snapshot.Lt(amount) {
		return ErrAccountingInvariantViolation(fmt.Sprintf("%s held by %s is %s, below the %s deposited", c.Token, c.Holder, c.Snapshot.Dec(), amount.Dec()))
	}
	c.Snapshot = new(uint256.Int).Sub(c.Snapshot, amount)
	return nil
}

// Resolve() re-reads the balance and returns how much it grew since the snapshot
func (c *Checkpoint) Resolve(q fsm.QuerierI) (*uint256.Int, lib.ErrorI) {
	current, err := q.QueryBalance(c.Holder, c.Token)
	if err != nil {
		return nil, err
	}
	if c.Snapshot == nil {
		return nil, ErrAccountingInvariantViolation(fmt.Sprintf("checkpoint of %s has no snapshot", c.Token))
	}
	if current.Lt(c.Snapshot) {
		return nil, ErrAccountingInvariantViolation(fmt.Sprintf("%s held by %s fell from %s to %s", c.Token, c.Holder, c.Snapshot.Dec(), current.Dec()))
	}
	return new(uint256.Int).Sub(current, c.Snapshot), nil
}

// Asset() resolves the checkpoint into an asset amount of its token
func (c *Checkpoint) Asset(q fsm.QuerierI) (lib.AssetAmount, lib.ErrorI) {
	delta, err := c.Resolve(q)
	if err != nil {
		return lib.AssetAmount{}, err
	}
	return lib.AssetAmount{Denom: c.Token, Amount: delta}, nil
}
