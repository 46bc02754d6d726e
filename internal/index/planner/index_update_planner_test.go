package planner_test

import (
	"strconv"
	"testing"

	"github.com/coredb-project/coredb/internal/buffer"
	"github.com/coredb-project/coredb/internal/file"
	"github.com/coredb-project/coredb/internal/index/planner"
	"github.com/coredb-project/coredb/internal/metadata"
	"github.com/coredb-project/coredb/internal/parse"
	"github.com/coredb-project/coredb/internal/plan"
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
	"github.com/coredb-project/coredb/internal/tx"
	"github.com/coredb-project/coredb/internal/wal"
	"github.com/stretchr/testify/require"
)

func newPlannerTx(t *testing.T) *tx.Transaction {
	t.Helper()
	fm, err := file.NewManager(t.TempDir(), 400)
	require.NoError(t, err)
	lm, err := wal.NewManager(fm, "test.log")
	require.NoError(t, err)
	bm := buffer.NewManager(fm, lm, 16)
	txn, err := tx.New(fm, lm, bm, tx.NewLockTable())
	require.NoError(t, err)
	return txn
}

func scanRows(t *testing.T, s query.Scan, field string) []int {
	t.Helper()
	require.NoError(t, s.BeforeFirst())
	var out []int
	for {
		ok, err := s.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		v, err := s.GetInt(field)
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

func mustInsert(t *testing.T, ip *planner.IndexUpdatePlanner, txn *tx.Transaction, sid int, name string) {
	t.Helper()
	p, err := parse.NewParser("insert into student (sid, sname) values (" + strconv.Itoa(sid) + ", '" + name + "')")
	require.NoError(t, err)
	data, err := p.ParseInsert()
	require.NoError(t, err)
	n, err := ip.ExecuteInsert(data, txn)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestIndexUpdatePlannerMaintainsIndexOnInsert(t *testing.T) {
	txn := newPlannerTx(t)
	md, err := metadata.NewManager(true, txn)
	require.NoError(t, err)

	schema := record.NewSchema()
	schema.AddIntField("sid")
	schema.AddStringField("sname", 10)
	require.NoError(t, md.CreateTable("student", schema, txn))
	require.NoError(t, md.CreateIndex("idx_sid", "student", "sid", txn))

	ip := planner.NewIndexUpdatePlanner(md)
	mustInsert(t, ip, txn, 7, "ada")

	indexes, err := md.GetIndexInfo("student", txn)
	require.NoError(t, err)
	idx, err := indexes["sid"].Open()
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.BeforeFirst(query.NewIntConstant(7)))
	ok, err := idx.Next()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestIndexUpdatePlannerMaintainsIndexOnDelete(t *testing.T) {
	txn := newPlannerTx(t)
	md, err := metadata.NewManager(true, txn)
	require.NoError(t, err)

	schema := record.NewSchema()
	schema.AddIntField("sid")
	schema.AddStringField("sname", 10)
	require.NoError(t, md.CreateTable("student", schema, txn))
	require.NoError(t, md.CreateIndex("idx_sid", "student", "sid", txn))

	ip := planner.NewIndexUpdatePlanner(md)
	mustInsert(t, ip, txn, 1, "a")
	mustInsert(t, ip, txn, 2, "b")
	mustInsert(t, ip, txn, 3, "c")

	dp, err := parse.NewParser("delete from student where sid = 2")
	require.NoError(t, err)
	del, err := dp.ParseDelete()
	require.NoError(t, err)
	n, err := ip.ExecuteDelete(del, txn)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	indexes, err := md.GetIndexInfo("student", txn)
	require.NoError(t, err)
	idx, err := indexes["sid"].Open()
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.BeforeFirst(query.NewIntConstant(2)))
	ok, err := idx.Next()
	require.NoError(t, err)
	require.False(t, ok, "deleted key should no longer be indexed")

	tablePlan, err := plan.NewTablePlan(txn, "student", md)
	require.NoError(t, err)
	scan, err := tablePlan.Open()
	require.NoError(t, err)
	defer scan.Close()
	require.Equal(t, []int{1, 3}, scanRows(t, scan, "sid"))
}

func TestIndexUpdatePlannerMaintainsIndexOnModify(t *testing.T) {
	txn := newPlannerTx(t)
	md, err := metadata.NewManager(true, txn)
	require.NoError(t, err)

	schema := record.NewSchema()
	schema.AddIntField("sid")
	schema.AddStringField("sname", 10)
	require.NoError(t, md.CreateTable("student", schema, txn))
	require.NoError(t, md.CreateIndex("idx_sid", "student", "sid", txn))

	ip := planner.NewIndexUpdatePlanner(md)
	mustInsert(t, ip, txn, 5, "x")

	mp, err := parse.NewParser("update student set sid = 9 where sid = 5")
	require.NoError(t, err)
	modify, err := mp.ParseModify()
	require.NoError(t, err)
	n, err := ip.ExecuteModify(modify, txn)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	indexes, err := md.GetIndexInfo("student", txn)
	require.NoError(t, err)

	oldIdx, err := indexes["sid"].Open()
	require.NoError(t, err)
	require.NoError(t, oldIdx.BeforeFirst(query.NewIntConstant(5)))
	ok, err := oldIdx.Next()
	require.NoError(t, err)
	require.False(t, ok)
	oldIdx.Close()

	newIdx, err := indexes["sid"].Open()
	require.NoError(t, err)
	defer newIdx.Close()
	require.NoError(t, newIdx.BeforeFirst(query.NewIntConstant(9)))
	ok, err = newIdx.Next()
	require.NoError(t, err)
	require.True(t, ok)
}
