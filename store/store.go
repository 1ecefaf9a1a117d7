package store

import (
	"encoding/binary"
	"errors"
	"path/filepath"
	"sync"

	"github.com/canopy-network/lphelper/lib"
	"github.com/dgraph-io/badger/v4"
)

const (
	maxKeyBytes = 256 // maximum size of a key
)

var (
	versionKey = []byte{0xFF, 'v'} // reserved key holding the committed height; above every length prefixed state key

	_ lib.StoreI = &Store{} // enforce the Store interface
)

/*
	Store is the persistence layer of the node, a thin layer over a single BadgerDB instance.

	Every write between two commits is buffered in one badger read-write transaction (the 'writer'),
	so a Commit() applies all state changes of a height atomically. Each successful top level
	transaction of the ledger is committed as its own height.

	Rollback of a single top level transaction is not done here; it is done by layering a Txn
	over the store (see NewTxn) and discarding it on failure.
*/

type Store struct {
	version  uint64      // the latest committed height
	db       *badger.DB  // underlying database
	writer   *badger.Txn // the shared read-write transaction committed once per height
	readOnly bool        // views produced by NewReadOnly() reject writes
	log      lib.LoggerI
	mu       *sync.Mutex // guards commit against a concurrent read only snapshot
}

// New() creates a new instance of a StoreI either in memory or an actual disk DB
func New(config lib.Config, l lib.LoggerI) (lib.StoreI, lib.ErrorI) {
	if config.StoreConfig.InMemory {
		return NewStoreInMemory(l)
	}
	path := filepath.Join(config.DataDirPath, config.DBName)
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR)
	if config.ValueLogFileSize > 0 {
		opts = opts.WithValueLogFileSize(config.ValueLogFileSize)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, ErrOpenDB(err)
	}
	return NewStoreWithDB(db, l)
}

// NewStoreInMemory() creates a new instance of a mem DB
func NewStoreInMemory(l lib.LoggerI) (lib.StoreI, lib.ErrorI) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, ErrOpenDB(err)
	}
	return NewStoreWithDB(db, l)
}

// NewStoreWithDB() returns a Store object given a DB and a logger
func NewStoreWithDB(db *badger.DB, l lib.LoggerI) (*Store, lib.ErrorI) {
	version, err := getLatestVersion(db)
	if err != nil {
		return nil, err
	}
	return &Store{
		version: version,
		db:      db,
		writer:  db.NewTransaction(true),
		log:     l,
		mu:      &sync.Mutex{},
	}, nil
}

// NewReadOnly() returns a view of the latest committed state that ignores pending writes
// CONTRACT: the caller must Discard() the view when done
func (s *Store) NewReadOnly() lib.StoreI {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Store{
		version:  s.version,
		db:       s.db,
		writer:   s.db.NewTransaction(false),
		readOnly: true,
		log:      s.log,
		mu:       &sync.Mutex{},
	}
}

// Commit() persists every buffered write along with the incremented version
func (s *Store) Commit() lib.ErrorI {
	if s.readOnly {
		return ErrReadOnly()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.version + 1
	if err := s.writer.Set(versionKey, binary.BigEndian.AppendUint64(nil, next)); err != nil {
		return ErrCommitDB(err)
	}
	if err := s.writer.Commit(); err != nil {
		s.writer = s.db.NewTransaction(true)
		return ErrCommitDB(err)
	}
	s.version, s.writer = next, s.db.NewTransaction(true)
	return nil
}

// Get() returns the value bytes under a key or (nil, nil) if not found
func (s *Store) Get(key []byte) ([]byte, lib.ErrorI) {
	item, err := s.writer.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, ErrStoreGet(err)
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, ErrStoreGet(err)
	}
	return val, nil
}

// Set() buffers a write of value under key
func (s *Store) Set(key, value []byte) lib.ErrorI {
	if s.readOnly {
		return ErrReadOnly()
	}
	if len(key) == 0 || len(key) > maxKeyBytes {
		return ErrInvalidKey()
	}
	if err := s.writer.Set(lib.Append(nil, key), lib.Append(nil, value)); err != nil {
		return ErrStoreSet(err)
	}
	return nil
}

// Delete() buffers a removal of key
func (s *Store) Delete(key []byte) lib.ErrorI {
	if s.readOnly {
		return ErrReadOnly()
	}
	if err := s.writer.Delete(lib.Append(nil, key)); err != nil {
		return ErrStoreDelete(err)
	}
	return nil
}

// Iterator() iterates the keys under a prefix in lexicographical order including buffered writes
// CONTRACT: only one iterator may be open at a time, Close() it before opening another
func (s *Store) Iterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	it := s.writer.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: false})
	it.Rewind()
	return &Iterator{parent: it, prefix: prefix}, nil
}

// NewTxn() layers a discardable transaction over the store
func (s *Store) NewTxn() lib.StoreTxnI { return NewTxn(s) }

// Version() is the latest committed height
func (s *Store) Version() uint64 { return s.version }

// Discard() drops every buffered write since the last Commit()
func (s *Store) Discard() {
	s.writer.Discard()
	if !s.readOnly {
		s.writer = s.db.NewTransaction(true)
	}
}

// Close() discards pending writes and closes the database
func (s *Store) Close() lib.ErrorI {
	if s.readOnly {
		s.writer.Discard()
		return nil
	}
	s.writer.Discard()
	if err := s.db.Close(); err != nil {
		return ErrCloseDB(err)
	}
	return nil
}

// getLatestVersion() reads the committed height from the database
func getLatestVersion(db *badger.DB) (version uint64, e lib.ErrorI) {
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(versionKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return ErrCorruptVersion()
			}
			version = binary.BigEndian.Uint64(val)
			return nil
		})
	})
	switch {
	case err == nil, errors.Is(err, badger.ErrKeyNotFound):
		return version, nil
	default:
		return 0, ErrStoreGet(err)
	}
}

var _ lib.IteratorI = &Iterator{}

// Iterator wraps a badger iterator to satisfy the IteratorI interface
type Iterator struct {
	parent *badger.Iterator
	prefix []byte
	err    error
}

func (i *Iterator) Valid() bool { return i.parent.ValidForPrefix(i.prefix) }
func (i *Iterator) Next()       { i.parent.Next() }
func (i *Iterator) Key() []byte { return i.parent.Item().KeyCopy(nil) }
func (i *Iterator) Close()      { i.parent.Close() }

// Value() copies the value of the current item
func (i *Iterator) Value() []byte {
	v, err := i.parent.Item().ValueCopy(nil)
	if err != nil {
		i.err = err
		return nil
	}
	return v
}
