package btree_test

import (
	"testing"

	"github.com/coredb-project/coredb/internal/buffer"
	"github.com/coredb-project/coredb/internal/file"
	"github.com/coredb-project/coredb/internal/index/btree"
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
	"github.com/coredb-project/coredb/internal/tx"
	"github.com/coredb-project/coredb/internal/wal"
	"github.com/stretchr/testify/require"
)

func newBtreeTx(t *testing.T, blockSize int) *tx.Transaction {
	t.Helper()
	fm, err := file.NewManager(t.TempDir(), blockSize)
	require.NoError(t, err)
	lm, err := wal.NewManager(fm, "test.log")
	require.NoError(t, err)
	bm := buffer.NewManager(fm, lm, 16)
	txn, err := tx.New(fm, lm, bm, tx.NewLockTable())
	require.NoError(t, err)
	return txn
}

func leafLayout() *record.Layout {
	schema := record.NewSchema()
	schema.AddIntField("block")
	schema.AddIntField("id")
	schema.AddIntField("key")
	return record.NewLayout(schema)
}

func TestBtreeIndexInsertThenSearchFindsRecord(t *testing.T) {
	txn := newBtreeTx(t, 400)
	idx, err := btree.NewIndex(txn, "idx_sid", leafLayout())
	require.NoError(t, err)

	rid := record.NewRID(2, 5)
	require.NoError(t, idx.Insert(query.NewIntConstant(30), rid))

	require.NoError(t, idx.BeforeFirst(query.NewIntConstant(30)))
	ok, err := idx.Next()
	require.NoError(t, err)
	require.True(t, ok)
	got, err := idx.GetDataRID()
	require.NoError(t, err)
	require.Equal(t, rid, got)
	idx.Close()
}

func TestBtreeIndexSearchMissingKeyFindsNothing(t *testing.T) {
	txn := newBtreeTx(t, 400)
	idx, err := btree.NewIndex(txn, "idx_sid", leafLayout())
	require.NoError(t, err)

	require.NoError(t, idx.BeforeFirst(query.NewIntConstant(1)))
	ok, err := idx.Next()
	require.NoError(t, err)
	require.False(t, ok)
	idx.Close()
}

func TestBtreeIndexSurvivesManyInsertsAcrossSplits(t *testing.T) {
	// A small block size forces several leaf splits well before
	// reaching this many keys.
	txn := newBtreeTx(t, 200)
	idx, err := btree.NewIndex(txn, "idx_sid", leafLayout())
	require.NoError(t, err)

	const n = 60
	for i := 0; i < n; i++ {
		require.NoError(t, idx.Insert(query.NewIntConstant(i), record.NewRID(i, i)))
	}

	for i := 0; i < n; i++ {
		require.NoError(t, idx.BeforeFirst(query.NewIntConstant(i)))
		ok, err := idx.Next()
		require.NoError(t, err)
		require.True(t, ok, "expected to find key %d", i)
		got, err := idx.GetDataRID()
		require.NoError(t, err)
		require.Equal(t, record.NewRID(i, i), got)
	}
	idx.Close()
}

func TestBtreeIndexDeleteRemovesRecord(t *testing.T) {
	txn := newBtreeTx(t, 400)
	idx, err := btree.NewIndex(txn, "idx_sid", leafLayout())
	require.NoError(t, err)

	rid := record.NewRID(1, 1)
	require.NoError(t, idx.Insert(query.NewIntConstant(7), rid))
	require.NoError(t, idx.Delete(query.NewIntConstant(7), rid))

	require.NoError(t, idx.BeforeFirst(query.NewIntConstant(7)))
	ok, err := idx.Next()
	require.NoError(t, err)
	require.False(t, ok)
	idx.Close()
}
