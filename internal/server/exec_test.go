package server_test

import (
	"testing"

	"github.com/coredb-project/coredb/internal/server"
	"github.com/stretchr/testify/require"
)

func TestExecCreateTableInsertAndSelectRoundTrips(t *testing.T) {
	db, err := server.NewDatabase(newTestConfig(t))
	require.NoError(t, err)

	_, err = db.Exec("create table student (sid int, sname varchar(10))")
	require.NoError(t, err)

	result, err := db.Exec("insert into student (sid, sname) values (1, 'ada')")
	require.NoError(t, err)
	require.False(t, result.IsQuery)
	require.Equal(t, 1, result.AffectedRows)

	result, err = db.Exec("insert into student (sid, sname) values (2, 'bea')")
	require.NoError(t, err)
	require.Equal(t, 1, result.AffectedRows)

	result, err = db.Exec("select sid, sname from student where sid = 2")
	require.NoError(t, err)
	require.True(t, result.IsQuery)
	require.Equal(t, []string{"sid", "sname"}, result.Fields)
	require.Len(t, result.Rows, 1)
	require.Equal(t, []string{"2", "bea"}, result.Rows[0])
}

func TestExecUpdateModifiesMatchingRows(t *testing.T) {
	db, err := server.NewDatabase(newTestConfig(t))
	require.NoError(t, err)

	_, err = db.Exec("create table student (sid int, sname varchar(10))")
	require.NoError(t, err)
	_, err = db.Exec("insert into student (sid, sname) values (1, 'ada')")
	require.NoError(t, err)

	result, err := db.Exec("update student set sname = 'grace' where sid = 1")
	require.NoError(t, err)
	require.Equal(t, 1, result.AffectedRows)

	result, err = db.Exec("select sname from student where sid = 1")
	require.NoError(t, err)
	require.Equal(t, "grace", result.Rows[0][0])
}

func TestExecDeleteRemovesMatchingRows(t *testing.T) {
	db, err := server.NewDatabase(newTestConfig(t))
	require.NoError(t, err)

	_, err = db.Exec("create table student (sid int, sname varchar(10))")
	require.NoError(t, err)
	_, err = db.Exec("insert into student (sid, sname) values (1, 'ada')")
	require.NoError(t, err)
	_, err = db.Exec("insert into student (sid, sname) values (2, 'bea')")
	require.NoError(t, err)

	result, err := db.Exec("delete from student where sid = 1")
	require.NoError(t, err)
	require.Equal(t, 1, result.AffectedRows)

	result, err = db.Exec("select sid from student")
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	require.Equal(t, "2", result.Rows[0][0])
}

func TestExecCreateIndexThenSelectUsesIndexedLookup(t *testing.T) {
	db, err := server.NewDatabase(newTestConfig(t))
	require.NoError(t, err)

	_, err = db.Exec("create table student (sid int, sname varchar(10))")
	require.NoError(t, err)
	_, err = db.Exec("create index idx_sid on student (sid)")
	require.NoError(t, err)
	_, err = db.Exec("insert into student (sid, sname) values (1, 'ada')")
	require.NoError(t, err)
	_, err = db.Exec("insert into student (sid, sname) values (2, 'bea')")
	require.NoError(t, err)

	txn, err := db.NewTx()
	require.NoError(t, err)
	indexes, err := db.MetadataManager().GetIndexInfo("student", txn)
	require.NoError(t, err)
	require.Contains(t, indexes, "sid")
	require.NoError(t, txn.Commit())

	result, err := db.Exec("select sname from student where sid = 2")
	require.NoError(t, err)
	require.Equal(t, "bea", result.Rows[0][0])
}

func TestExecFailedStatementRollsBackWithoutPartialEffects(t *testing.T) {
	db, err := server.NewDatabase(newTestConfig(t))
	require.NoError(t, err)

	_, err = db.Exec("create table student (sid int, sname varchar(10))")
	require.NoError(t, err)

	_, err = db.Exec("insert into nosuchtable (sid) values (1)")
	require.Error(t, err)

	result, err := db.Exec("select sid from student")
	require.NoError(t, err)
	require.Len(t, result.Rows, 0)
}
