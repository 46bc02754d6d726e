package plan_test

import (
	"testing"

	"github.com/coredb-project/coredb/internal/metadata"
	"github.com/coredb-project/coredb/internal/plan"
	"github.com/coredb-project/coredb/internal/record"
	"github.com/coredb-project/coredb/internal/tx"
	"github.com/stretchr/testify/require"
)

func newCodeTable(t *testing.T, txn *tx.Transaction, md *metadata.Manager, rows []struct {
	code int
}) {
	t.Helper()
	schema := record.NewSchema()
	schema.AddIntField("code")
	require.NoError(t, md.CreateTable("code", schema, txn))

	layout, err := md.GetLayout("code", txn)
	require.NoError(t, err)
	ts, err := record.NewTableScan(txn, "code", layout)
	require.NoError(t, err)
	defer ts.Close()
	for _, r := range rows {
		require.NoError(t, ts.Insert())
		require.NoError(t, ts.SetInt("code", r.code))
	}
}

func TestProductPlanSchemaUnionsBothChildren(t *testing.T) {
	txn := newPlanTx(t)
	md, err := metadata.NewManager(true, txn)
	require.NoError(t, err)
	newStudentTable(t, txn, md, []struct {
		sid   int
		sname string
	}{{1, "a"}})
	newCodeTable(t, txn, md, []struct{ code int }{{10}})

	studentPlan, err := plan.NewTablePlan(txn, "student", md)
	require.NoError(t, err)
	codePlan, err := plan.NewTablePlan(txn, "code", md)
	require.NoError(t, err)

	pp := plan.NewProductPlan(studentPlan, codePlan)
	require.ElementsMatch(t, []string{"sid", "sname", "code"}, pp.Schema().Fields())
}

func TestProductPlanOpenEnumeratesCrossProduct(t *testing.T) {
	txn := newPlanTx(t)
	md, err := metadata.NewManager(true, txn)
	require.NoError(t, err)
	newStudentTable(t, txn, md, []struct {
		sid   int
		sname string
	}{{1, "a"}, {2, "b"}})
	newCodeTable(t, txn, md, []struct{ code int }{{10}, {20}, {30}})

	studentPlan, err := plan.NewTablePlan(txn, "student", md)
	require.NoError(t, err)
	codePlan, err := plan.NewTablePlan(txn, "code", md)
	require.NoError(t, err)

	pp := plan.NewProductPlan(studentPlan, codePlan)
	scan, err := pp.Open()
	require.NoError(t, err)
	defer scan.Close()

	count := 0
	for {
		ok, err := scan.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	require.Equal(t, 6, count)
}

func TestProductPlanBlocksAccessedFormula(t *testing.T) {
	txn := newPlanTx(t)
	md, err := metadata.NewManager(true, txn)
	require.NoError(t, err)
	newStudentTable(t, txn, md, []struct {
		sid   int
		sname string
	}{{1, "a"}, {2, "b"}})
	newCodeTable(t, txn, md, []struct{ code int }{{10}})

	studentPlan, err := plan.NewTablePlan(txn, "student", md)
	require.NoError(t, err)
	codePlan, err := plan.NewTablePlan(txn, "code", md)
	require.NoError(t, err)

	pp := plan.NewProductPlan(studentPlan, codePlan)
	want := studentPlan.BlocksAccessed() + studentPlan.RecordsOutput()*codePlan.BlocksAccessed()
	require.Equal(t, want, pp.BlocksAccessed())
}

func TestProductPlanRecordsOutputFormula(t *testing.T) {
	txn := newPlanTx(t)
	md, err := metadata.NewManager(true, txn)
	require.NoError(t, err)
	newStudentTable(t, txn, md, []struct {
		sid   int
		sname string
	}{{1, "a"}, {2, "b"}, {3, "c"}})
	newCodeTable(t, txn, md, []struct{ code int }{{10}, {20}})

	studentPlan, err := plan.NewTablePlan(txn, "student", md)
	require.NoError(t, err)
	codePlan, err := plan.NewTablePlan(txn, "code", md)
	require.NoError(t, err)

	pp := plan.NewProductPlan(studentPlan, codePlan)
	require.Equal(t, 6, pp.RecordsOutput())
}

func TestProductPlanDistinctValuesDelegatesToOwningChild(t *testing.T) {
	txn := newPlanTx(t)
	md, err := metadata.NewManager(true, txn)
	require.NoError(t, err)
	newStudentTable(t, txn, md, []struct {
		sid   int
		sname string
	}{{1, "a"}})
	newCodeTable(t, txn, md, []struct{ code int }{{10}})

	studentPlan, err := plan.NewTablePlan(txn, "student", md)
	require.NoError(t, err)
	codePlan, err := plan.NewTablePlan(txn, "code", md)
	require.NoError(t, err)

	pp := plan.NewProductPlan(studentPlan, codePlan)
	require.Equal(t, studentPlan.DistinctValues("sid"), pp.DistinctValues("sid"))
	require.Equal(t, codePlan.DistinctValues("code"), pp.DistinctValues("code"))
}
