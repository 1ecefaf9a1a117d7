package fsm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"gopkg.in/yaml.v3"
)

// GenesisState is the initial state of the ledger, written as yaml
type GenesisState struct {
	Balances   []*GenesisBalance   `yaml:"balances" json:"balances"`
	Contracts  []*GenesisContract  `yaml:"contracts" json:"contracts"`
	Executions []*GenesisExecution `yaml:"executions,omitempty" json:"executions,omitempty"`
}

// GenesisBalance funds an account; coins use the '<amount><denom>' form
type GenesisBalance struct {
	Address crypto.Address `yaml:"address" json:"address"`
	Coins   []string       `yaml:"coins" json:"coins"`
}

// GenesisContract instantiates a contract; msg is any yaml value and is passed on as json
type GenesisContract struct {
	Code    string         `yaml:"code" json:"code"`
	Label   string         `yaml:"label" json:"label"`
	Creator crypto.Address `yaml:"creator,omitempty" json:"creator,omitempty"`
	Msg     any            `yaml:"msg" json:"msg"`
}

// GenesisExecution runs an execute message after every contract is instantiated, for example to seed pools
type GenesisExecution struct {
	Sender   crypto.Address `yaml:"sender" json:"sender"`
	Contract crypto.Address `yaml:"contract" json:"contract"`
	Msg      any            `yaml:"msg" json:"msg"`
	Funds    []string       `yaml:"funds,omitempty" json:"funds,omitempty"`
}

// GenesisCreator is the creator of genesis contracts that do not name one
var GenesisCreator = crypto.NewAccountAddress("genesis")

// ReadGenesisFromFile() reads a GenesisState object from a file
func ReadGenesisFromFile(dataDirPath string) (*GenesisState, lib.ErrorI) {
	bz, err := os.ReadFile(filepath.Join(dataDirPath, lib.GenesisFilePath))
	if err != nil {
		return nil, lib.ErrReadFile(err)
	}
	return UnmarshalGenesis(bz)
}

// UnmarshalGenesis() decodes and validates a yaml genesis document
func UnmarshalGenesis(bz []byte) (*GenesisState, lib.ErrorI) {
	genesis := new(GenesisState)
	if err := yaml.Unmarshal(bz, genesis); err != nil {
		return nil, lib.ErrYAMLUnmarshal(err)
	}
	return genesis, genesis.Validate()
}

// WriteToFile() saves the genesis state as yaml
func (g *GenesisState) WriteToFile(dataDirPath string) lib.ErrorI {
	bz, err := yaml.Marshal(g)
	if err != nil {
		return lib.ErrInvalidArgument(err)
	}
	if err = os.WriteFile(filepath.Join(dataDirPath, lib.GenesisFilePath), bz, os.ModePerm); err != nil {
		return lib.ErrWriteFile(err)
	}
	return nil
}

// Validate() checks the genesis state without touching the store
func (g *GenesisState) Validate() lib.ErrorI {
	for _, b := range g.Balances {
		if err := b.Address.Validate(); err != nil {
			return ErrInvalidGenesis(err)
		}
		if _, err := parseCoins(b.Coins); err != nil {
			return ErrInvalidGenesis(err)
		}
	}
	labels := make(map[string]struct{})
	for _, c := range g.Contracts {
		if c.Code == "" || !validLabel(c.Label) {
			return ErrInvalidGenesis(fmt.Errorf("contract needs a code and a label"))
		}
		if _, found := labels[c.Label]; found {
			return ErrInvalidGenesis(fmt.Errorf("duplicate contract label %q", c.Label))
		}
		labels[c.Label] = struct{}{}
	}
	for _, e := range g.Executions {
		if err := e.Sender.Validate(); err != nil {
			return ErrInvalidGenesis(err)
		}
		if err := e.Contract.Validate(); err != nil {
			return ErrInvalidGenesis(err)
		}
		if len(e.Funds) == 0 {
			continue
		}
		if _, err := parseCoins(e.Funds); err != nil {
			return ErrInvalidGenesis(err)
		}
	}
	return nil
}

// ApplyGenesis() creates the initial state; the caller commits the store afterward
func (s *StateMachine) ApplyGenesis(genesis *GenesisState) lib.ErrorI {
	if err := genesis.Validate(); err != nil {
		return err
	}
	db, ok := s.store.(lib.StoreI)
	if !ok {
		return ErrWrongStoreType()
	}
	if db.Version() != 0 {
		return ErrNonEmptyGenesisState()
	}
	txn, previous := s.TxnWrap()
	defer s.SetStore(previous)
	if err := s.applyGenesis(genesis); err != nil {
		txn.Discard()
		return err
	}
	s.resetEvents()
	return txn.Write()
}

func (s *StateMachine) applyGenesis(genesis *GenesisState) lib.ErrorI {
	for _, b := range genesis.Balances {
		coins, err := parseCoins(b.Coins)
		if err != nil {
			return ErrInvalidGenesis(err)
		}
		for _, c := range coins {
			if err = s.Mint(b.Address, c); err != nil {
				return err
			}
		}
	}
	for _, c := range genesis.Contracts {
		creator := c.Creator
		if creator.Empty() {
			creator = GenesisCreator
		}
		msg, err := genesisJSON(c.Msg)
		if err != nil {
			return err
		}
		if err = s.HandleMessage(creator, &lib.Message{Instantiate: &lib.MessageInstantiate{Code: c.Code, Label: c.Label, Msg: msg}}, 0); err != nil {
			return err
		}
	}
	for _, e := range genesis.Executions {
		msg, err := genesisJSON(e.Msg)
		if err != nil {
			return err
		}
		var funds lib.Basket
		if len(e.Funds) != 0 {
			if funds, err = parseCoins(e.Funds); err != nil {
				return ErrInvalidGenesis(err)
			}
		}
		if err = s.HandleMessage(e.Sender, &lib.Message{Execute: &lib.MessageExecute{Contract: e.Contract, Msg: msg, Funds: funds}}, 0); err != nil {
			return err
		}
	}
	return nil
}

// genesisJSON() converts a decoded yaml value into the json a contract expects
func genesisJSON(v any) (json.RawMessage, lib.ErrorI) {
	if v == nil {
		return json.RawMessage("{}"), nil
	}
	return lib.MarshalJSON(v)
}

// GenesisMsg() converts a typed message into the generic form that survives a yaml round trip unchanged
func GenesisMsg(v any) (any, lib.ErrorI) {
	bz, err := lib.MarshalJSON(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err = lib.UnmarshalJSON(bz, &generic); err != nil {
		return nil, err
	}
	return generic, nil
}

// parseCoins() converts '<amount><denom>' strings into a validated basket
func parseCoins(coins []string) (lib.Basket, lib.ErrorI) {
	assets := make([]lib.AssetAmount, 0, len(coins))
	for _, c := range coins {
		a, err := lib.ParseAssetAmount(c)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return lib.NewBasket(assets...)
}
