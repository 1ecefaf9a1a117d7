package store

import (
	"fmt"
	"testing"

	"github.com/canopy-network/lphelper/lib"
	"github.com/stretchr/testify/require"
)

func newTestParent(t *testing.T) lib.StoreI {
	parent, err := NewStoreInMemory(lib.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = parent.Close() })
	return parent
}

func TestTxnWriteSetGet(t *testing.T) {
	parent := newTestParent(t)
	test := NewTxn(parent)
	require.NoError(t, test.Set([]byte("1/a"), []byte("a")))
	// test get from ops before write()
	val, err := test.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Equal(t, []byte("a"), val)
	// test get from parent before write()
	val, err = parent.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Nil(t, val)
	require.NoError(t, test.Write())
	// test get from parent after write()
	val, err = parent.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Equal(t, []byte("a"), val)
	// test get from the txn after write()
	val, err = test.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Equal(t, []byte("a"), val)
}

func TestTxnWriteDelete(t *testing.T) {
	parent := newTestParent(t)
	test := NewTxn(parent)
	require.NoError(t, test.Set([]byte("1/a"), []byte("a")))
	require.NoError(t, test.Write())
	require.NoError(t, test.Delete([]byte("1/a")))
	val, err := test.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Nil(t, val)
	val, err = parent.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Equal(t, []byte("a"), val)
	require.NoError(t, test.Write())
	val, err = parent.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestTxnDiscard(t *testing.T) {
	parent := newTestParent(t)
	require.NoError(t, parent.Set([]byte("k"), []byte("before")))
	test := NewTxn(parent)
	require.NoError(t, test.Set([]byte("k"), []byte("after")))
	require.NoError(t, test.Set([]byte("other"), []byte("x")))
	test.Discard()
	require.Zero(t, test.Size())
	val, err := test.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("before"), val)
	// a discarded txn writes nothing
	require.NoError(t, test.Write())
	val, err = parent.Get([]byte("other"))
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestNestedTxn(t *testing.T) {
	parent := newTestParent(t)
	outer := NewTxn(parent)
	require.NoError(t, outer.Set([]byte("a"), []byte("1")))
	inner := NewTxn(outer)
	require.NoError(t, inner.Set([]byte("b"), []byte("2")))
	// inner sees the outer write
	val, err := inner.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), val)
	require.NoError(t, inner.Write())
	val, err = outer.Get([]byte("b"))
	require.NoError(t, err)
	require.Equal(t, []byte("2"), val)
	// nothing reached the store until the outer write
	val, err = parent.Get([]byte("b"))
	require.NoError(t, err)
	require.Nil(t, val)
	outer.Discard()
	val, err = parent.Get([]byte("a"))
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestTxnIterateMerged(t *testing.T) {
	parent := newTestParent(t)
	bulkSetKV(t, parent, "p/", "a", "c", "e")
	test := NewTxn(parent)
	bulkSetKV(t, test, "p/", "b", "d")
	// shadow and delete parent keys
	require.NoError(t, test.Set([]byte("p/c"), []byte("C")))
	require.NoError(t, test.Delete([]byte("p/e")))
	// a key outside the prefix is never visited
	require.NoError(t, test.Set([]byte("q/z"), []byte("z")))
	it, err := test.Iterator([]byte("p/"))
	require.NoError(t, err)
	defer it.Close()
	var keys, values []string
	for ; it.Valid(); it.Next() {
		keys, values = append(keys, string(it.Key())), append(values, string(it.Value()))
	}
	require.Equal(t, []string{"p/a", "p/b", "p/c", "p/d"}, keys)
	require.Equal(t, []string{"a", "b", "C", "d"}, values)
}

func TestTxnIterateOnlyDeletes(t *testing.T) {
	parent := newTestParent(t)
	test := NewTxn(parent)
	bulkSetKV(t, test, "p/", "a", "b")
	require.NoError(t, test.Delete([]byte("p/a")))
	require.NoError(t, test.Delete([]byte("p/b")))
	it, err := test.Iterator([]byte("p/"))
	require.NoError(t, err)
	defer it.Close()
	require.False(t, it.Valid())
}

func TestTxnInvalidKey(t *testing.T) {
	test := NewTxn(newTestParent(t))
	require.Equal(t, ErrInvalidKey(), test.Set(nil, []byte("x")))
	require.Equal(t, ErrInvalidKey(), test.Set(make([]byte, maxKeyBytes+1), []byte("x")))
}

func bulkSetKV(t *testing.T, store lib.WStoreI, prefix string, keys ...string) {
	for _, key := range keys {
		require.NoError(t, store.Set([]byte(fmt.Sprintf("%s%s", prefix, key)), []byte(key)))
	}
}
