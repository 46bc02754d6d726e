package planner_test

import (
	"testing"

	"github.com/coredb-project/coredb/internal/index/planner"
	"github.com/coredb-project/coredb/internal/metadata"
	"github.com/coredb-project/coredb/internal/parse"
	"github.com/coredb-project/coredb/internal/plan"
	"github.com/coredb-project/coredb/internal/record"
	"github.com/stretchr/testify/require"
)

func TestIndexJoinPlanMatchesOuterRecordsAgainstIndexedInner(t *testing.T) {
	txn := newPlannerTx(t)
	md, err := metadata.NewManager(true, txn)
	require.NoError(t, err)

	studentSchema := record.NewSchema()
	studentSchema.AddIntField("sid")
	studentSchema.AddStringField("sname", 10)
	require.NoError(t, md.CreateTable("student", studentSchema, txn))
	require.NoError(t, md.CreateIndex("idx_sid", "student", "sid", txn))

	enrollSchema := record.NewSchema()
	enrollSchema.AddIntField("sid")
	enrollSchema.AddIntField("grade")
	require.NoError(t, md.CreateTable("enroll", enrollSchema, txn))

	ip := planner.NewIndexUpdatePlanner(md)
	mustInsert(t, ip, txn, 1, "a")
	mustInsert(t, ip, txn, 2, "b")

	ep, err := parse.NewParser("insert into enroll (sid, grade) values (2, 90)")
	require.NoError(t, err)
	enrollData, err := ep.ParseInsert()
	require.NoError(t, err)
	_, err = ip.ExecuteInsert(enrollData, txn)
	require.NoError(t, err)

	enrollPlan, err := plan.NewTablePlan(txn, "enroll", md)
	require.NoError(t, err)
	studentPlan, err := plan.NewTablePlan(txn, "student", md)
	require.NoError(t, err)
	indexes, err := md.GetIndexInfo("student", txn)
	require.NoError(t, err)

	joinPlan := planner.NewIndexJoinPlan(enrollPlan, studentPlan, indexes["sid"], "sid")
	require.True(t, joinPlan.Schema().HasField("sid"))
	require.True(t, joinPlan.Schema().HasField("sname"))
	require.True(t, joinPlan.Schema().HasField("grade"))

	scan, err := joinPlan.Open()
	require.NoError(t, err)
	defer scan.Close()

	count := 0
	for {
		ok, err := scan.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		sname, err := scan.GetString("sname")
		require.NoError(t, err)
		require.Equal(t, "b", sname)
		count++
	}
	require.Equal(t, 1, count)
}
