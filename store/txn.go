package store

import (
	"bytes"
	"sort"
	"strings"

	"github.com/canopy-network/lphelper/lib"
)

// enforce the StoreTxnI interface
var _ lib.StoreTxnI = &Txn{}

/*
	Txn acts like a database transaction layered over a parent store.
	It saves set/delete operations in memory and lets the caller Write() them to the parent or Discard() them.
	Reads merge the in-memory operations with the parent as if Write() had already been called.

	The ledger wraps every top level transaction in a Txn: all balance changes, contract state and events
	of the whole message tree land here, and a failure anywhere in the tree discards them as a unit.

	CONTRACT:
	- not thread safe
	- deleted values read as nil
	- Txns may be nested (a Txn is itself a valid parent)
*/

type Txn struct {
	parent lib.RWStoreI // store to Write() to
	ops    ops
}

// ops maintains the write operations and their keys sorted lexicographically
type ops struct {
	byKey  map[string]op // [string(key)] -> set/del operation
	sorted []string      // keys sorted lexicographically; needed for iteration
}

// op is the value portion of an operation and whether it's a *delete* or a *set*
type op struct {
	value  []byte
	delete bool
}

// NewTxn() creates a new instance of a Txn with the specified parent store
func NewTxn(parent lib.RWStoreI) *Txn {
	return &Txn{parent: parent, ops: newOps()}
}

func newOps() ops { return ops{byKey: make(map[string]op), sorted: make([]string, 0)} }

// Get() retrieves the value for a given key from either the in-memory operations or the parent store
func (t *Txn) Get(key []byte) ([]byte, lib.ErrorI) {
	if v, found := t.ops.byKey[string(key)]; found {
		if v.delete {
			return nil, nil
		}
		return lib.Append(nil, v.value), nil
	}
	return t.parent.Get(key)
}

// Set() adds or updates the value for a key in the in-memory operations
func (t *Txn) Set(key, value []byte) lib.ErrorI {
	if len(key) == 0 || len(key) > maxKeyBytes {
		return ErrInvalidKey()
	}
	t.update(string(key), lib.Append(nil, value), false)
	return nil
}

// Delete() marks a key for deletion in the in-memory operations
func (t *Txn) Delete(key []byte) lib.ErrorI { t.update(string(key), nil, true); return nil }

// update() modifies or adds an operation for a key and maintains the sorted key list
func (t *Txn) update(key string, v []byte, delete bool) {
	if _, found := t.ops.byKey[key]; !found {
		i := sort.SearchStrings(t.ops.sorted, key)
		t.ops.sorted = append(t.ops.sorted, "")
		copy(t.ops.sorted[i+1:], t.ops.sorted[i:])
		t.ops.sorted[i] = key
	}
	t.ops.byKey[key] = op{value: v, delete: delete}
}

// Iterator() returns a merged iterator of the in-memory operations and the parent store under a prefix
func (t *Txn) Iterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	parent, err := t.parent.Iterator(prefix)
	if err != nil {
		return nil, err
	}
	return newTxnIterator(parent, t.ops, prefix), nil
}

// Discard() clears all in-memory operations
func (t *Txn) Discard() { t.ops = newOps() }

// Write() flushes the in-memory operations to the parent store in key order and clears them
func (t *Txn) Write() lib.ErrorI {
	for _, k := range t.ops.sorted {
		v := t.ops.byKey[k]
		if v.delete {
			if err := t.parent.Delete([]byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := t.parent.Set([]byte(k), v.value); err != nil {
			return err
		}
	}
	t.ops = newOps()
	return nil
}

// Size() is the number of pending operations
func (t *Txn) Size() int { return len(t.ops.sorted) }

// enforce the Iterator interface
var _ lib.IteratorI = &TxnIterator{}

// TxnIterator is a merged, forward iterator of the parent and the in-memory operations
// where the in-memory operations shadow the parent
type TxnIterator struct {
	parent lib.IteratorI
	ops    ops
	prefix string
	index  int
	useTxn bool
}

// newTxnIterator() positions a merged iterator at the first key matching the prefix
func newTxnIterator(parent lib.IteratorI, o ops, prefix []byte) *TxnIterator {
	p := string(prefix)
	return &TxnIterator{
		parent: parent,
		ops:    o,
		prefix: p,
		index:  sort.SearchStrings(o.sorted, p),
	}
}

// Close() closes the merged iterator
func (t *TxnIterator) Close() { t.parent.Close() }

// Next() advances whichever side the current entry came from (both when keys are equal)
func (t *TxnIterator) Next() {
	if !t.parent.Valid() {
		t.index++
		return
	}
	if t.txnInvalid() {
		t.parent.Next()
		return
	}
	switch bytes.Compare(t.txnKey(), t.parent.Key()) {
	case 1: // parent is behind
		t.parent.Next()
	case 0: // txn shadows parent
		t.parent.Next()
		t.index++
	case -1: // txn is behind
		t.index++
	}
}

// Key() returns the current key from either the in-memory operations or the parent store
func (t *TxnIterator) Key() []byte {
	if t.useTxn {
		return t.txnKey()
	}
	return t.parent.Key()
}

// Value() returns the current value from either the in-memory operations or the parent store
func (t *TxnIterator) Value() []byte {
	if t.useTxn {
		return t.txnOp().value
	}
	return t.parent.Value()
}

// Valid() skips deleted entries and decides which side the current position reads from
func (t *TxnIterator) Valid() bool {
	for {
		if !t.parent.Valid() {
			// only the in-memory side remains; skip its deletes
			for !t.txnInvalid() && t.txnOp().delete {
				t.index++
			}
			t.useTxn = true
			return !t.txnInvalid()
		}
		if t.txnInvalid() {
			t.useTxn = false
			return true
		}
		switch bytes.Compare(t.txnKey(), t.parent.Key()) {
		case 1: // parent first
			t.useTxn = false
			return true
		case 0: // equal keys; a delete hides both
			if t.txnOp().delete {
				t.parent.Next()
				t.index++
				continue
			}
			t.useTxn = true
			return true
		default: // txn first
			if t.txnOp().delete {
				t.index++
				continue
			}
			t.useTxn = true
			return true
		}
	}
}

// txnInvalid() is true once the in-memory index leaves the sorted keys or the prefix
func (t *TxnIterator) txnInvalid() bool {
	return t.index >= len(t.ops.sorted) || !strings.HasPrefix(t.ops.sorted[t.index], t.prefix)
}

func (t *TxnIterator) txnKey() []byte { return []byte(t.ops.sorted[t.index]) }
func (t *TxnIterator) txnOp() op      { return t.ops.byKey[t.ops.sorted[t.index]] }
