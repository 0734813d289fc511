package exec

import (
	"context"
	"os"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"github.com/stratumdb/stratum/stratum/plan"
)

func put(store *BadgerStore, table, key, value string) error {
	return store.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(table+"\x00"+key), []byte(value))
	})
}

func TestBadgerStore_ScanRange(t *testing.T) {
	dir, err := os.MkdirTemp("", "stratum-badger-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	store, err := NewBadgerStore(dir)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, put(store, "records", "a", "1"))
	require.NoError(t, put(store, "records", "b", "2"))
	require.NoError(t, put(store, "records", "c", "3"))

	ctx := context.Background()
	handle, err := store.CreateBatchScanner(ctx, "records")
	require.NoError(t, err)
	defer handle.Close()

	require.NoError(t, handle.SetRanges([]plan.ByteRange{{Start: []byte("a"), End: []byte("c")}}))

	it := handle.Iterator(ctx)
	var keys []string
	for it.Next() {
		k, _ := it.Entry()
		keys = append(keys, string(k))
	}
	require.NoError(t, it.Err())
	require.Equal(t, []string{"a", "b"}, keys)
}
