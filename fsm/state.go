package fsm

import (
	"encoding/json"

	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/store"
)

// StateMachine is the in-process ledger host: it keeps bank balances, hosts contract instances
// and applies transactions of messages depth-first against the underlying store
type StateMachine struct {
	store  lib.RWStoreI // the root store, or the txn of the transaction in flight
	height uint64       // the height the next successful transaction will be committed at
	codes  Codes        // contract implementations by code name
	events []*lib.Event // events of the transaction in flight

	Config lib.Config
	log    lib.LoggerI
}

// New() creates a new instance of a StateMachine
func New(c lib.Config, store lib.StoreI, codes Codes, log lib.LoggerI) (*StateMachine, lib.ErrorI) {
	sm := &StateMachine{
		codes:  codes,
		Config: c,
		log:    log,
	}
	if sm.Config.MaxDepth <= 0 {
		sm.Config.MaxDepth = lib.DefaultMainConfig().MaxDepth
	}
	return sm, sm.Initialize(store)
}

// Initialize() points the StateMachine at the root store and syncs the height with it
func (s *StateMachine) Initialize(db lib.StoreI) lib.ErrorI {
	s.store, s.height, s.events = db, db.Version()+1, nil
	return nil
}

// Set() upserts a key-value pair under a key
func (s *StateMachine) Set(k, v []byte) lib.ErrorI { return s.store.Set(k, v) }

// Get() retrieves a key-value pair under a key
// NOTE: returns (nil, nil) if no value is found for that key
func (s *StateMachine) Get(key []byte) ([]byte, lib.ErrorI) { return s.store.Get(key) }

// Delete() deletes a key-value pair under a key
func (s *StateMachine) Delete(key []byte) lib.ErrorI { return s.store.Delete(key) }

// Iterator() creates and returns an iterator for the state machine's underlying store
func (s *StateMachine) Iterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	return s.store.Iterator(prefix)
}

// IterateAndExecute() creates an iterator and executes a callback function for each key-value pair
func (s *StateMachine) IterateAndExecute(prefix []byte, callback func(key, value []byte) lib.ErrorI) lib.ErrorI {
	it, err := s.Iterator(prefix)
	if err != nil {
		return err
	}
	defer it.Close()
	for ; it.Valid(); it.Next() {
		if err = callback(it.Key(), it.Value()); err != nil {
			return err
		}
	}
	return nil
}

// TxnWrap() is an atomicity and consistency feature that enables easy rollback of changes by discarding the transaction if an error occurs
// the caller restores the previous store with SetStore() once the txn is written or discarded
func (s *StateMachine) TxnWrap() (txn lib.StoreTxnI, previous lib.RWStoreI) {
	previous = s.store
	txn = store.NewTxn(previous)
	s.SetStore(txn)
	return
}

// getJSON() loads the json value under a key into ptr, reporting whether it existed
func getJSON(r lib.RStoreI, key []byte, ptr any) (found bool, err lib.ErrorI) {
	bz, err := r.Get(key)
	if err != nil || bz == nil {
		return false, err
	}
	return true, lib.UnmarshalJSON(bz, ptr)
}

// setJSON() saves the json encoding of v under a key
func setJSON(w lib.WStoreI, key []byte, v any) lib.ErrorI {
	bz, err := lib.MarshalJSON(v)
	if err != nil {
		return err
	}
	return w.Set(key, bz)
}

// GetJSON() and SetJSON() are the json codec helpers contracts use against their private store
func GetJSON(r lib.RStoreI, key string, ptr any) (bool, lib.ErrorI) { return getJSON(r, []byte(key), ptr) }
func SetJSON(w lib.WStoreI, key string, v any) lib.ErrorI           { return setJSON(w, []byte(key), v) }

// decodeMsg() unmarshals raw json into ptr, mapping failures to an invalid message error
func decodeMsg(raw json.RawMessage, ptr any) lib.ErrorI {
	if err := json.Unmarshal(raw, ptr); err != nil {
		return ErrInvalidMessage(err)
	}
	return nil
}

func (s *StateMachine) Store() lib.RWStoreI         { return s.store }
func (s *StateMachine) SetStore(store lib.RWStoreI) { s.store = store }
func (s *StateMachine) Height() uint64              { return s.height }
func (s *StateMachine) Logger() lib.LoggerI         { return s.log }
