package server_test

import (
	"path/filepath"
	"testing"

	"github.com/coredb-project/coredb/internal/config"
	"github.com/coredb-project/coredb/internal/server"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.BlockSize = 400
	cfg.BufferPoolSize = 8
	return cfg
}

func TestNewDatabaseInitializesCatalogsOnFreshDirectory(t *testing.T) {
	cfg := newTestConfig(t)
	db, err := server.NewDatabase(cfg)
	require.NoError(t, err)

	txn, err := db.NewTx()
	require.NoError(t, err)
	_, err = db.MetadataManager().GetLayout("tblcat", txn)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())
}

func TestNewDatabaseReopensExistingDirectoryWithoutError(t *testing.T) {
	cfg := newTestConfig(t)
	db, err := server.NewDatabase(cfg)
	require.NoError(t, err)

	_, err = db.Exec("create table student (sid int, sname varchar(10))")
	require.NoError(t, err)
	_, err = db.Exec("insert into student (sid, sname) values (1, 'ada')")
	require.NoError(t, err)

	db2, err := server.NewDatabase(cfg)
	require.NoError(t, err)
	result, err := db2.Exec("select sid, sname from student")
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	require.Equal(t, "1", result.Rows[0][0])
	require.Equal(t, "ada", result.Rows[0][1])
}
