package store

import (
	"testing"

	"github.com/canopy-network/lphelper/lib"
	"github.com/stretchr/testify/require"
)

func TestStoreCommitVersion(t *testing.T) {
	db := newTestParent(t)
	require.Zero(t, db.Version())
	require.NoError(t, db.Set([]byte("k"), []byte("v")))
	require.NoError(t, db.Commit())
	require.Equal(t, uint64(1), db.Version())
	val, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), val)
}

func TestStoreDiscard(t *testing.T) {
	db := newTestParent(t)
	require.NoError(t, db.Set([]byte("k"), []byte("v")))
	db.Discard()
	val, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestStoreReadOnly(t *testing.T) {
	db := newTestParent(t)
	require.NoError(t, db.Set([]byte("committed"), []byte("1")))
	require.NoError(t, db.Commit())
	require.NoError(t, db.Set([]byte("pending"), []byte("2")))
	view := db.NewReadOnly()
	defer view.Discard()
	// the view only sees committed state
	val, err := view.Get([]byte("committed"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), val)
	val, err = view.Get([]byte("pending"))
	require.NoError(t, err)
	require.Nil(t, val)
	require.Equal(t, ErrReadOnly(), view.Set([]byte("x"), nil))
	require.Equal(t, ErrReadOnly(), view.Commit())
}

func TestStoreVersionSurvivesReopen(t *testing.T) {
	config := lib.DefaultConfig()
	config.DataDirPath, config.DBName = t.TempDir(), "test"
	db, err := New(config, lib.NewNullLogger())
	require.NoError(t, err)
	require.NoError(t, db.Set([]byte("k"), []byte("v")))
	require.NoError(t, db.Commit())
	require.NoError(t, db.Commit())
	require.NoError(t, db.Close())
	db, err = New(config, lib.NewNullLogger())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	require.Equal(t, uint64(2), db.Version())
	val, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), val)
}

func TestStoreIterator(t *testing.T) {
	db := newTestParent(t)
	bulkSetKV(t, db, "a/", "2", "1", "3")
	bulkSetKV(t, db, "b/", "1")
	it, err := db.Iterator([]byte("a/"))
	require.NoError(t, err)
	defer it.Close()
	var keys []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.Equal(t, []string{"a/1", "a/2", "a/3"}, keys)
}
