package helper

import (
	"encoding/json"
	"fmt"

	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// PoolDescriptor identifies a pool instance and its variant
type PoolDescriptor struct {
	Address  crypto.Address `json:"address"`
	PairType lib.PairType   `json:"pair_type"`
}

// Validate() checks the address and the variant tag
func (p PoolDescriptor) Validate() lib.ErrorI {
	if err := p.Address.Validate(); err != nil {
		return ErrInvalidInput(fmt.Sprintf("pool address: %s", err.Error()))
	}
	if err := p.PairType.Validate(); err != nil {
		return ErrInvalidInput(err.Error())
	}
	return nil
}

func (p PoolDescriptor) String() string { return fmt.Sprintf("%s(%s)", p.PairType, p.Address) }

// Stage is the position of a request in the continuation state machine
//
//	AwaitingProvision -> AwaitingReturn -> Done
//
// any failure aborts the whole transaction, so an aborted request never reaches a stored state
type Stage int

const (
	StageAwaitingProvision Stage = iota + 1
	StageAwaitingReturn
	StageDone
)

var stageNames = map[Stage]string{
	StageAwaitingProvision: "awaiting_provision",
	StageAwaitingReturn:    "awaiting_return",
	StageDone:              "done",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown_stage_%d", int(s))
}

func (s Stage) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *Stage) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	for stage, n := range stageNames {
		if n == name {
			*s = stage
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", name)
}

// ExecutionContext is the state a continuation carries from one stage to the next
// nothing of it is kept in the helper store; each stage receives it in full
type ExecutionContext struct {
	Stage            Stage          `json:"stage"`
	Pool             PoolDescriptor `json:"pool"`
	Basket           lib.Basket     `json:"basket"`                      // balanced basket planned at entry, then the basket actually provided
	AssetCheckpoints []*Checkpoint  `json:"asset_checkpoints,omitempty"` // pool asset balances before the deposit, for the provide stage
	ShareCheckpoint  *Checkpoint    `json:"share_checkpoint,omitempty"`  // share balance before provision, for the return stage
	MinOut           *uint256.Int   `json:"min_out"`
	Recipient        crypto.Address `json:"recipient"`
}

// next() returns a copy of the context advanced to stage
func (c *ExecutionContext) next(stage Stage) *ExecutionContext {
	n := *c
	n.Stage = stage
	n.AssetCheckpoints, n.ShareCheckpoint = nil, nil
	return &n
}

// FeeInfo is the fee schedule of a pool type expressed as fractional rates
type FeeInfo struct {
	FeeAddress   *crypto.Address `json:"fee_address"`
	TotalFeeRate decimal.Decimal `json:"total_fee_rate"`
	MakerFeeRate decimal.Decimal `json:"maker_fee_rate"`
}
