package journal

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/canopy-network/lphelper/lib"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vadiminshakov/gowal"
)

const (
	keyPrefix   = "tx/"
	segmentName = "results_"
)

/*
	Journal is an append only record of every transaction result the node produced, successful or not.

	Records are JSON TxResults in a segmented write ahead log keyed 'tx/<hash>'. The set of journaled
	hashes is rebuilt on open; reads go through an LRU cache and fall back to a scan of the log.
	A hash submitted more than once resolves to its latest result.
*/

type Journal struct {
	wal    *gowal.Wal
	cache  *lru.Cache[string, *lib.TxResult]
	hashes map[string]struct{}
	log    lib.LoggerI
	mu     sync.RWMutex
}

// New() opens or creates the journal under the data directory
func New(config lib.Config, log lib.LoggerI) (*Journal, lib.ErrorI) {
	c := config.JournalConfig
	if c.CacheSize <= 0 {
		c.CacheSize = lib.DefaultJournalConfig().CacheSize
	}
	wal, err := gowal.NewWAL(gowal.Config{
		Dir:              filepath.Join(config.DataDirPath, c.JournalDir),
		Prefix:           segmentName,
		SegmentThreshold: c.SegmentThreshold,
		MaxSegments:      c.MaxSegments,
		IsInSyncDiskMode: c.SyncWrites,
	})
	if err != nil {
		return nil, ErrOpenJournal(err)
	}
	cache, err := lru.New[string, *lib.TxResult](c.CacheSize)
	if err != nil {
		_ = wal.Close()
		return nil, ErrOpenJournal(err)
	}
	j := &Journal{wal: wal, cache: cache, hashes: make(map[string]struct{}), log: log}
	for m := range wal.Iterator() {
		if strings.HasPrefix(m.Key, keyPrefix) {
			j.hashes[strings.TrimPrefix(m.Key, keyPrefix)] = struct{}{}
		}
	}
	log.Infof("Journal opened with %d results at index %d", len(j.hashes), wal.CurrentIndex())
	return j, nil
}

// Write() appends a result and caches it
func (j *Journal) Write(result *lib.TxResult) lib.ErrorI {
	if result == nil || result.TxHash == "" {
		return ErrJournalWrite(errors.New("result without a tx hash"))
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return ErrJournalWrite(err)
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if err = j.wal.Write(j.wal.CurrentIndex()+1, keyPrefix+result.TxHash, payload); err != nil {
		return ErrJournalWrite(err)
	}
	j.hashes[result.TxHash] = struct{}{}
	j.cache.Add(result.TxHash, result)
	return nil
}

// Has() reports whether a result was journaled under hash
func (j *Journal) Has(hash string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, found := j.hashes[hash]
	return found
}

// Len() is the number of distinct transaction hashes journaled
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.hashes)
}

// Get() returns the latest result journaled under hash
func (j *Journal) Get(hash string) (*lib.TxResult, lib.ErrorI) {
	if result, ok := j.cache.Get(hash); ok {
		return result, nil
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	if _, found := j.hashes[hash]; !found {
		return nil, ErrJournalNotFound(hash)
	}
	var (
		payload []byte
		key     = keyPrefix + hash
	)
	// segments are rotated out oldest first, so the last match is the latest result still retained
	for m := range j.wal.Iterator() {
		if m.Key == key {
			payload = m.Value
		}
	}
	if payload == nil {
		return nil, ErrJournalNotFound(hash)
	}
	result := new(lib.TxResult)
	if err := json.Unmarshal(payload, result); err != nil {
		return nil, ErrJournalCorrupt(key, err)
	}
	j.cache.Add(hash, result)
	return result, nil
}

// Close() flushes and closes the log
func (j *Journal) Close() lib.ErrorI {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.wal.Close(); err != nil {
		return ErrJournalClose(err)
	}
	return nil
}
