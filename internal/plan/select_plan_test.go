package plan_test

import (
	"testing"

	"github.com/coredb-project/coredb/internal/metadata"
	"github.com/coredb-project/coredb/internal/plan"
	"github.com/coredb-project/coredb/internal/query"
	"github.com/stretchr/testify/require"
)

func TestSelectPlanOpenFiltersByPredicate(t *testing.T) {
	txn := newPlanTx(t)
	md, err := metadata.NewManager(true, txn)
	require.NoError(t, err)
	newStudentTable(t, txn, md, []struct {
		sid   int
		sname string
	}{{1, "a"}, {2, "b"}, {3, "c"}})

	tp, err := plan.NewTablePlan(txn, "student", md)
	require.NoError(t, err)

	pred := query.NewPredicate()
	pred.ConjoinWith(query.NewTerm(
		query.NewFieldExpression("sid"),
		query.NewConstantExpression(query.NewIntConstant(2)),
	))
	sp := plan.NewSelectPlan(tp, pred)

	scan, err := sp.Open()
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
	require.Equal(t, 1, count)
}

func TestSelectPlanOpenReturnsUpdatableScanOverTablePlan(t *testing.T) {
	txn := newPlanTx(t)
	md, err := metadata.NewManager(true, txn)
	require.NoError(t, err)
	newStudentTable(t, txn, md, []struct {
		sid   int
		sname string
	}{{1, "a"}, {2, "b"}})

	tp, err := plan.NewTablePlan(txn, "student", md)
	require.NoError(t, err)
	pred := query.NewPredicate()
	pred.ConjoinWith(query.NewTerm(
		query.NewFieldExpression("sid"),
		query.NewConstantExpression(query.NewIntConstant(1)),
	))
	sp := plan.NewSelectPlan(tp, pred)

	scan, err := sp.Open()
	require.NoError(t, err)
	defer scan.Close()

	us, ok := scan.(query.UpdateScan)
	require.True(t, ok, "select over a table plan must yield an UpdateScan")
	ok, err = us.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, us.SetString("sname", "deleted-marker"))
}

func TestSelectPlanRecordsOutputDividesByReductionFactor(t *testing.T) {
	txn := newPlanTx(t)
	md, err := metadata.NewManager(true, txn)
	require.NoError(t, err)
	newStudentTable(t, txn, md, []struct {
		sid   int
		sname string
	}{{1, "a"}, {2, "b"}, {3, "c"}, {4, "d"}})

	tp, err := plan.NewTablePlan(txn, "student", md)
	require.NoError(t, err)
	pred := query.NewPredicate()
	pred.ConjoinWith(query.NewTerm(
		query.NewFieldExpression("sid"),
		query.NewConstantExpression(query.NewIntConstant(1)),
	))
	sp := plan.NewSelectPlan(tp, pred)

	require.Equal(t, tp.RecordsOutput()/tp.DistinctValues("sid"), sp.RecordsOutput())
}

func TestSelectPlanBlocksAccessedIsUnchangedFromChild(t *testing.T) {
	txn := newPlanTx(t)
	md, err := metadata.NewManager(true, txn)
	require.NoError(t, err)
	newStudentTable(t, txn, md, []struct {
		sid   int
		sname string
	}{{1, "a"}})

	tp, err := plan.NewTablePlan(txn, "student", md)
	require.NoError(t, err)
	sp := plan.NewSelectPlan(tp, query.NewPredicate())
	require.Equal(t, tp.BlocksAccessed(), sp.BlocksAccessed())
}

func TestSelectPlanDistinctValuesIsOneWhenFieldEquatesToConstant(t *testing.T) {
	txn := newPlanTx(t)
	md, err := metadata.NewManager(true, txn)
	require.NoError(t, err)
	newStudentTable(t, txn, md, []struct {
		sid   int
		sname string
	}{{1, "a"}, {2, "b"}})

	tp, err := plan.NewTablePlan(txn, "student", md)
	require.NoError(t, err)
	pred := query.NewPredicate()
	pred.ConjoinWith(query.NewTerm(
		query.NewFieldExpression("sid"),
		query.NewConstantExpression(query.NewIntConstant(1)),
	))
	sp := plan.NewSelectPlan(tp, pred)
	require.Equal(t, 1, sp.DistinctValues("sid"))
}

func TestSelectPlanDistinctValuesPassesThroughForUnrelatedField(t *testing.T) {
	txn := newPlanTx(t)
	md, err := metadata.NewManager(true, txn)
	require.NoError(t, err)
	newStudentTable(t, txn, md, []struct {
		sid   int
		sname string
	}{{1, "a"}, {2, "b"}})

	tp, err := plan.NewTablePlan(txn, "student", md)
	require.NoError(t, err)
	pred := query.NewPredicate()
	pred.ConjoinWith(query.NewTerm(
		query.NewFieldExpression("sid"),
		query.NewConstantExpression(query.NewIntConstant(1)),
	))
	sp := plan.NewSelectPlan(tp, pred)
	require.Equal(t, tp.DistinctValues("sname"), sp.DistinctValues("sname"))
}
