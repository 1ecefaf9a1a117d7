package fsm

import (
	"encoding/json"
	"strings"

	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"github.com/holiman/uint256"
)

/* This file contains the contract host: the contract interface, the registry and the environment handed to contracts */

// ContractI is a contract implementation; instances share the code and keep their data in the Env store
type ContractI interface {
	// Instantiate() initializes the private state of a new instance
	Instantiate(env *Env, msg json.RawMessage) (*Response, lib.ErrorI)
	// Execute() handles a message; the messages of the returned response are dispatched depth-first afterward
	Execute(env *Env, msg json.RawMessage) (*Response, lib.ErrorI)
	// Query() answers a read only question; any writes are discarded
	Query(env *Env, msg json.RawMessage) (any, lib.ErrorI)
}

// Codes maps a code name to its implementation
type Codes map[string]ContractI

// Response is what a contract returns from Instantiate or Execute
type Response struct {
	Messages   []*lib.Message  // dispatched in order with the contract as the sender
	Attributes []lib.Attribute // appended to the execute event
}

// NewResponse() returns an empty Response
func NewResponse() *Response { return &Response{} }

// AddMessage() appends a message to dispatch
func (r *Response) AddMessage(m *lib.Message) *Response {
	r.Messages = append(r.Messages, m)
	return r
}

// AddAttribute() appends an event attribute
func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, lib.Attribute{Key: key, Value: value})
	return r
}

// ContractInfo is the metadata of a contract instance
type ContractInfo struct {
	Address crypto.Address `json:"address"`
	Code    string         `json:"code"`
	Label   string         `json:"label"`
	Creator crypto.Address `json:"creator"`
	Height  uint64         `json:"height"`
}

// GetContract() loads the metadata of a contract instance
func (s *StateMachine) GetContract(address crypto.Address) (*ContractInfo, lib.ErrorI) {
	info := new(ContractInfo)
	found, err := getJSON(s.store, KeyForContract(address), info)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrContractNotFound(address.String())
	}
	return info, nil
}

// GetContracts() lists every contract instance
func (s *StateMachine) GetContracts() (list []*ContractInfo, err lib.ErrorI) {
	err = s.IterateAndExecute(ContractPrefix(), func(_, value []byte) lib.ErrorI {
		info := new(ContractInfo)
		if e := lib.UnmarshalJSON(value, info); e != nil {
			return e
		}
		list = append(list, info)
		return nil
	})
	return
}

// loadCode() resolves the implementation of a contract instance
func (s *StateMachine) loadCode(address crypto.Address) (*ContractInfo, ContractI, lib.ErrorI) {
	info, err := s.GetContract(address)
	if err != nil {
		return nil, nil, err
	}
	code, ok := s.codes[info.Code]
	if !ok {
		return nil, nil, ErrUnknownCode(info.Code)
	}
	return info, code, nil
}

// QuerierI is the read access contracts and clients have to the ledger
type QuerierI interface {
	QueryBalance(address crypto.Address, denom string) (*uint256.Int, lib.ErrorI)
	QuerySmart(contract crypto.Address, msg any, ptr any) lib.ErrorI
}

var (
	_ QuerierI = &StateMachine{}
	_ QuerierI = &Env{}
)

// QueryBalance() reads a balance through the store in flight
func (s *StateMachine) QueryBalance(address crypto.Address, denom string) (*uint256.Int, lib.ErrorI) {
	return s.GetBalance(address, denom)
}

// QuerySmart() json encodes msg, queries a contract and decodes the answer into ptr
func (s *StateMachine) QuerySmart(contract crypto.Address, msg any, ptr any) lib.ErrorI {
	return s.querySmart(contract, msg, ptr, 0)
}

// QuerySmartRaw() queries a contract with a raw json message and returns the raw json answer
func (s *StateMachine) QuerySmartRaw(contract crypto.Address, msg json.RawMessage) (json.RawMessage, lib.ErrorI) {
	return s.querySmartRaw(contract, msg, 0)
}

func (s *StateMachine) querySmart(contract crypto.Address, msg any, ptr any, depth int) lib.ErrorI {
	bz, err := lib.MarshalJSON(msg)
	if err != nil {
		return err
	}
	answer, err := s.querySmartRaw(contract, bz, depth)
	if err != nil {
		return err
	}
	if ptr == nil {
		return nil
	}
	if e := json.Unmarshal(answer, ptr); e != nil {
		return ErrContractQuery(contract.String(), e)
	}
	return nil
}

// querySmartRaw() runs the query over a scratch txn so that the current state is visible and nothing is kept
func (s *StateMachine) querySmartRaw(contract crypto.Address, msg json.RawMessage, depth int) (json.RawMessage, lib.ErrorI) {
	if depth > s.Config.MaxDepth {
		return nil, ErrMaxDepth(s.Config.MaxDepth)
	}
	info, code, err := s.loadCode(contract)
	if err != nil {
		return nil, err
	}
	txn, previous := s.TxnWrap()
	events := s.resetEvents()
	defer func() {
		txn.Discard()
		s.SetStore(previous)
		s.events = events
	}()
	answer, err := code.Query(s.newEnv(info.Address, nil, nil, depth), msg)
	if err != nil {
		return nil, err
	}
	return lib.MarshalJSON(answer)
}

// Env is the environment a contract runs in
type Env struct {
	Self   crypto.Address // address of the running instance
	Sender crypto.Address // immediate caller; empty for queries
	Funds  lib.Basket     // funds escrowed into the instance by this call
	Height uint64

	sm    *StateMachine
	store *prefixStore
	depth int
}

func (s *StateMachine) newEnv(self, sender crypto.Address, funds lib.Basket, depth int) *Env {
	return &Env{
		Self:   self,
		Sender: sender,
		Funds:  funds,
		Height: s.height,
		sm:     s,
		store:  newPrefixStore(s.store, ContractStatePrefix(self)),
		depth:  depth,
	}
}

// Store() is the private key-value state of the running instance
func (e *Env) Store() lib.RWStoreI { return e.store }

// Logger() is the host logger
func (e *Env) Logger() lib.LoggerI { return e.sm.log }

// QueryBalance() reads any balance, including writes made earlier in the same transaction
func (e *Env) QueryBalance(address crypto.Address, denom string) (*uint256.Int, lib.ErrorI) {
	return e.sm.GetBalance(address, denom)
}

// QueryBalances() reads every balance of an address
func (e *Env) QueryBalances(address crypto.Address) (lib.Basket, lib.ErrorI) {
	return e.sm.GetBalances(address)
}

// QuerySupply() reads the total minted amount of a denom
func (e *Env) QuerySupply(denom string) (*uint256.Int, lib.ErrorI) {
	return e.sm.GetSupply(denom)
}

// QuerySmart() queries another contract one level deeper
func (e *Env) QuerySmart(contract crypto.Address, msg any, ptr any) lib.ErrorI {
	return e.sm.querySmart(contract, msg, ptr, e.depth+1)
}

// ContractInfo() loads the metadata of any contract instance
func (e *Env) ContractInfo(address crypto.Address) (*ContractInfo, lib.ErrorI) {
	return e.sm.GetContract(address)
}

// Mint() creates units of a denom namespaced under the running instance
func (e *Env) Mint(to crypto.Address, asset lib.AssetAmount) lib.ErrorI {
	if err := canMint(e.Self, asset.Denom); err != nil {
		return err
	}
	return e.sm.Mint(to, asset)
}

// Burn() destroys units of a denom namespaced under the running instance, held by the instance
func (e *Env) Burn(asset lib.AssetAmount) lib.ErrorI {
	if err := canMint(e.Self, asset.Denom); err != nil {
		return err
	}
	return e.sm.Burn(e.Self, asset)
}

var _ lib.RWStoreI = &prefixStore{}

// prefixStore confines a contract to the keys under its own prefix
type prefixStore struct {
	parent lib.RWStoreI
	prefix []byte
}

func newPrefixStore(parent lib.RWStoreI, prefix []byte) *prefixStore {
	return &prefixStore{parent: parent, prefix: prefix}
}

func (p *prefixStore) key(k []byte) []byte { return lib.Append(p.prefix, k) }

func (p *prefixStore) Get(key []byte) ([]byte, lib.ErrorI) { return p.parent.Get(p.key(key)) }
func (p *prefixStore) Set(key, value []byte) lib.ErrorI    { return p.parent.Set(p.key(key), value) }
func (p *prefixStore) Delete(key []byte) lib.ErrorI        { return p.parent.Delete(p.key(key)) }

// Iterator() iterates the keys under the prefix with the contract prefix stripped
func (p *prefixStore) Iterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	it, err := p.parent.Iterator(p.key(prefix))
	if err != nil {
		return nil, err
	}
	return &prefixIterator{IteratorI: it, strip: len(p.prefix)}, nil
}

type prefixIterator struct {
	lib.IteratorI
	strip int
}

func (p *prefixIterator) Key() []byte { return p.IteratorI.Key()[p.strip:] }

// validLabel() rejects empty labels and labels carrying control whitespace
func validLabel(label string) bool { return label != "" && !strings.ContainsAny(label, "\n\t") }
