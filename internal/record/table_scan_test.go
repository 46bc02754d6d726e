package record_test

import (
	"testing"

	"github.com/coredb-project/coredb/internal/record"
	"github.com/stretchr/testify/require"
)

func TestTableScanInsertThenScanReturnsAllRecords(t *testing.T) {
	txn := newTestTx(t)
	layout := record.NewLayout(testSchema())
	ts, err := record.NewTableScan(txn, "people", layout)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, ts.Insert())
		require.NoError(t, ts.SetInt("id", i))
		require.NoError(t, ts.SetString("name", "n"))
	}

	require.NoError(t, ts.BeforeFirst())
	var ids []int
	for {
		hasNext, err := ts.Next()
		require.NoError(t, err)
		if !hasNext {
			break
		}
		id, err := ts.GetInt("id")
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.Equal(t, []int{0, 1, 2, 3, 4}, ids)
}

func TestTableScanDeleteRemovesOnlyThatRecord(t *testing.T) {
	txn := newTestTx(t)
	layout := record.NewLayout(testSchema())
	ts, err := record.NewTableScan(txn, "people", layout)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, ts.Insert())
		require.NoError(t, ts.SetInt("id", i))
	}

	require.NoError(t, ts.BeforeFirst())
	for {
		hasNext, err := ts.Next()
		require.NoError(t, err)
		if !hasNext {
			break
		}
		id, err := ts.GetInt("id")
		require.NoError(t, err)
		if id == 1 {
			require.NoError(t, ts.Delete())
		}
	}

	require.NoError(t, ts.BeforeFirst())
	var remaining []int
	for {
		hasNext, err := ts.Next()
		require.NoError(t, err)
		if !hasNext {
			break
		}
		id, err := ts.GetInt("id")
		require.NoError(t, err)
		remaining = append(remaining, id)
	}
	require.Equal(t, []int{0, 2}, remaining)
}

func TestTableScanMoveToRIDRepositionsScan(t *testing.T) {
	txn := newTestTx(t)
	layout := record.NewLayout(testSchema())
	ts, err := record.NewTableScan(txn, "people", layout)
	require.NoError(t, err)

	require.NoError(t, ts.Insert())
	require.NoError(t, ts.SetInt("id", 42))
	rid := ts.GetRID()

	require.NoError(t, ts.Insert())
	require.NoError(t, ts.SetInt("id", 43))

	require.NoError(t, ts.MoveToRID(rid))
	id, err := ts.GetInt("id")
	require.NoError(t, err)
	require.Equal(t, 42, id)
}

func TestTableScanInsertSpillsIntoNewBlockWhenFull(t *testing.T) {
	txn := newTestTx(t)
	layout := record.NewLayout(testSchema())
	ts, err := record.NewTableScan(txn, "people", layout)
	require.NoError(t, err)

	count := 0
	for i := 0; i < 200; i++ {
		require.NoError(t, ts.Insert())
		require.NoError(t, ts.SetInt("id", i))
		count++
	}

	require.NoError(t, ts.BeforeFirst())
	seen := 0
	for {
		hasNext, err := ts.Next()
		require.NoError(t, err)
		if !hasNext {
			break
		}
		seen++
	}
	require.Equal(t, count, seen)
}
