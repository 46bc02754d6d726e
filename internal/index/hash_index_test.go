package index_test

import (
	"testing"

	"github.com/coredb-project/coredb/internal/buffer"
	"github.com/coredb-project/coredb/internal/file"
	"github.com/coredb-project/coredb/internal/index"
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
	"github.com/coredb-project/coredb/internal/tx"
	"github.com/coredb-project/coredb/internal/wal"
	"github.com/stretchr/testify/require"
)

func newIndexTx(t *testing.T) *tx.Transaction {
	t.Helper()
	fm, err := file.NewManager(t.TempDir(), 400)
	require.NoError(t, err)
	lm, err := wal.NewManager(fm, "test.log")
	require.NoError(t, err)
	bm := buffer.NewManager(fm, lm, 8)
	txn, err := tx.New(fm, lm, bm, tx.NewLockTable())
	require.NoError(t, err)
	return txn
}

func indexLayout() *record.Layout {
	schema := record.NewSchema()
	schema.AddIntField("block")
	schema.AddIntField("id")
	schema.AddIntField("key")
	return record.NewLayout(schema)
}

func TestHashIndexInsertThenFindByKey(t *testing.T) {
	txn := newIndexTx(t)
	idx := index.NewHashIndex(txn, "idx_sid", indexLayout(), 4)

	rid := record.NewRID(3, 7)
	require.NoError(t, idx.Insert(query.NewIntConstant(42), rid))

	require.NoError(t, idx.BeforeFirst(query.NewIntConstant(42)))
	ok, err := idx.Next()
	require.NoError(t, err)
	require.True(t, ok)

	got, err := idx.GetDataRID()
	require.NoError(t, err)
	require.Equal(t, rid, got)
	idx.Close()
}

func TestHashIndexSearchMissingKeyReturnsNoMatch(t *testing.T) {
	txn := newIndexTx(t)
	idx := index.NewHashIndex(txn, "idx_sid", indexLayout(), 4)
	require.NoError(t, idx.BeforeFirst(query.NewIntConstant(999)))
	ok, err := idx.Next()
	require.NoError(t, err)
	require.False(t, ok)
	idx.Close()
}

func TestHashIndexDeleteRemovesOnlyMatchingEntry(t *testing.T) {
	txn := newIndexTx(t)
	idx := index.NewHashIndex(txn, "idx_sid", indexLayout(), 4)

	ridA := record.NewRID(1, 1)
	ridB := record.NewRID(1, 2)
	require.NoError(t, idx.Insert(query.NewIntConstant(5), ridA))
	require.NoError(t, idx.Insert(query.NewIntConstant(5), ridB))

	require.NoError(t, idx.Delete(query.NewIntConstant(5), ridA))

	require.NoError(t, idx.BeforeFirst(query.NewIntConstant(5)))
	var found []record.RID
	for {
		ok, err := idx.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got, err := idx.GetDataRID()
		require.NoError(t, err)
		found = append(found, got)
	}
	idx.Close()
	require.Equal(t, []record.RID{ridB}, found)
}

func TestHashIndexStringKeyRoundTrips(t *testing.T) {
	schema := record.NewSchema()
	schema.AddIntField("block")
	schema.AddIntField("id")
	schema.AddStringField("key", 20)
	txn := newIndexTx(t)
	idx := index.NewHashIndex(txn, "idx_name", record.NewLayout(schema), 4)

	rid := record.NewRID(2, 9)
	require.NoError(t, idx.Insert(query.NewStringConstant("ada"), rid))

	require.NoError(t, idx.BeforeFirst(query.NewStringConstant("ada")))
	ok, err := idx.Next()
	require.NoError(t, err)
	require.True(t, ok)
	got, err := idx.GetDataRID()
	require.NoError(t, err)
	require.Equal(t, rid, got)
	idx.Close()
}
