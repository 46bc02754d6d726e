package iquery_test

import (
	"testing"

	"github.com/coredb-project/coredb/internal/buffer"
	"github.com/coredb-project/coredb/internal/file"
	"github.com/coredb-project/coredb/internal/index"
	"github.com/coredb-project/coredb/internal/index/iquery"
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
	"github.com/coredb-project/coredb/internal/tx"
	"github.com/coredb-project/coredb/internal/wal"
	"github.com/stretchr/testify/require"
)

func newIqueryTx(t *testing.T) *tx.Transaction {
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

func buildStudents(t *testing.T, txn *tx.Transaction, ids []int) *query.TableScanAdapter {
	t.Helper()
	schema := record.NewSchema()
	schema.AddIntField("sid")
	schema.AddStringField("sname", 10)
	layout := record.NewLayout(schema)
	ts, err := record.NewTableScan(txn, "student", layout)
	require.NoError(t, err)
	adapter := query.NewTableScanAdapter(ts)
	for _, id := range ids {
		require.NoError(t, adapter.Insert())
		require.NoError(t, adapter.SetInt("sid", id))
		require.NoError(t, adapter.SetString("sname", "s"))
	}
	require.NoError(t, adapter.BeforeFirst())
	return adapter
}

func sidIndexLayout() *record.Layout {
	schema := record.NewSchema()
	schema.AddIntField("block")
	schema.AddIntField("id")
	schema.AddIntField("key")
	return record.NewLayout(schema)
}

func TestIndexSelectScanFindsRecordsMatchingIndexedKey(t *testing.T) {
	txn := newIqueryTx(t)
	students := buildStudents(t, txn, []int{1, 2, 2, 3})

	idx := index.NewHashIndex(txn, "idx_sid", sidIndexLayout(), 4)
	// Build the index by scanning the table once (the role IndexUpdatePlanner
	// plays at insert time).
	require.NoError(t, students.BeforeFirst())
	for {
		ok, err := students.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		val, err := students.GetVal("sid")
		require.NoError(t, err)
		require.NoError(t, idx.Insert(val, students.GetRID()))
	}

	scan, err := iquery.NewIndexSelectScan(students, idx, query.NewIntConstant(2))
	require.NoError(t, err)
	defer scan.Close()

	count := 0
	for {
		ok, err := scan.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		sid, err := scan.GetInt("sid")
		require.NoError(t, err)
		require.Equal(t, 2, sid)
		count++
	}
	require.Equal(t, 2, count)
}

func TestIndexJoinScanMatchesOuterAgainstIndexedInner(t *testing.T) {
	txn := newIqueryTx(t)
	students := buildStudents(t, txn, []int{1, 2, 3})

	enrollSchema := record.NewSchema()
	enrollSchema.AddIntField("sid")
	enrollSchema.AddIntField("grade")
	enrollLayout := record.NewLayout(enrollSchema)
	enrollTs, err := record.NewTableScan(txn, "enroll", enrollLayout)
	require.NoError(t, err)
	enroll := query.NewTableScanAdapter(enrollTs)
	for _, sid := range []int{2, 2, 3} {
		require.NoError(t, enroll.Insert())
		require.NoError(t, enroll.SetInt("sid", sid))
		require.NoError(t, enroll.SetInt("grade", 90))
	}
	require.NoError(t, enroll.BeforeFirst())

	idx := index.NewHashIndex(txn, "idx_sid", sidIndexLayout(), 4)
	require.NoError(t, students.BeforeFirst())
	for {
		ok, err := students.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		val, err := students.GetVal("sid")
		require.NoError(t, err)
		require.NoError(t, idx.Insert(val, students.GetRID()))
	}

	join, err := iquery.NewIndexJoinScan(enroll, idx, "sid", students)
	require.NoError(t, err)
	defer join.Close()

	count := 0
	for {
		ok, err := join.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	require.Equal(t, 3, count)
}
