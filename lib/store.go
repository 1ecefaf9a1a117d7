package lib

/* This file contains persistence module interfaces that are used throughout the app */

// StoreI defines the interface for interacting with the node's persistent state
type StoreI interface {
	RWStoreI             // reading and writing
	NewTxn() StoreTxnI   // wrap the store in a discardable nested store
	Version() uint64     // access the height of the store
	Commit() ErrorI      // save the store and increment the height
	Discard()            // discard the underlying writer
	Close() ErrorI       // gracefully stop the database
	NewReadOnly() StoreI // a read only view of the latest committed state
}

// StoreTxnI is a discardable layer of writes on top of a parent store
type StoreTxnI interface {
	RWStoreI
	Write() ErrorI // flush the operations to the parent store
	Discard()      // throw the operations away
}

// RWStoreI defines the Read/Write interface for basic db CRUD operations
type RWStoreI interface {
	RStoreI
	WStoreI
}

// WStoreI defines an interface for basic write operations
type WStoreI interface {
	Set(key, value []byte) ErrorI // set value bytes referenced by key bytes
	Delete(key []byte) ErrorI     // remove the value referenced by key bytes
}

// RStoreI defines an interface for basic read operations
type RStoreI interface {
	Get(key []byte) ([]byte, ErrorI)            // access value bytes using key bytes
	Iterator(prefix []byte) (IteratorI, ErrorI) // iterate through the data one KV pair at a time in lexicographical order
}

// IteratorI defines an interface for iterating over key-value pairs in a data store
type IteratorI interface {
	Valid() bool           // if the item the iterator is pointing at is valid
	Next()                 // move to next item
	Key() (key []byte)     // retrieve key
	Value() (value []byte) // retrieve value
	Close()                // close the iterator when done, ensuring proper resource management
}
