// Package server wires the whole engine together: file, log, and
// buffer managers, metadata catalogs, and the planner, and runs
// startup recovery the way the teacher's server/innodb managers are
// brought up in dependency order from server/conf.Cfg. Grounded on
// original_source/src/server/simpledb.h/.cpp, extended (beyond the
// file/log/buffer trio original_source wires) with the metadata and
// planner layers every later chapter of the system needs, matching
// the usual SimpleDB "remote database" shape original_source's own
// test clients assume but never itself assembles in this slice.
package server

import (
	"github.com/coredb-project/coredb/internal/buffer"
	"github.com/coredb-project/coredb/internal/config"
	"github.com/coredb-project/coredb/internal/file"
	"github.com/coredb-project/coredb/internal/index/planner"
	"github.com/coredb-project/coredb/internal/metadata"
	"github.com/coredb-project/coredb/internal/plan"
	"github.com/coredb-project/coredb/internal/tx"
	"github.com/coredb-project/coredb/internal/wal"
	"github.com/coredb-project/coredb/logger"
)

const logFile = "coredb.log"

// Database owns every manager the engine needs and is the single
// entry point a CLI or embedder constructs (spec C1-C15).
type Database struct {
	cfg         *config.Config
	fileManager *file.Manager
	logManager  *wal.Manager
	bufferMgr   *buffer.Manager
	lockTable   *tx.LockTable
	metadata    *metadata.Manager
	planner     *plan.Planner
}

// NewDatabase brings up the engine rooted at cfg.DataDir: file, log,
// and buffer managers; undo-only recovery if the directory already
// existed; then the metadata catalogs (creating them on a fresh
// directory) and the index-maintaining planner.
func NewDatabase(cfg *config.Config) (*Database, error) {
	fm, err := file.NewManager(cfg.DataDir, cfg.BlockSize)
	if err != nil {
		return nil, err
	}
	lm, err := wal.NewManager(fm, logFile)
	if err != nil {
		return nil, err
	}
	bm := buffer.NewManager(fm, lm, cfg.BufferPoolSize)
	lockTable := tx.NewLockTable()

	db := &Database{
		cfg:         cfg,
		fileManager: fm,
		logManager:  lm,
		bufferMgr:   bm,
		lockTable:   lockTable,
	}

	isNew := fm.IsNew()
	if !isNew {
		logger.Infof("server: recovering database at %s", cfg.DataDir)
		if err := tx.Recover(fm, lm, bm, lockTable); err != nil {
			return nil, err
		}
	}

	initTx, err := tx.New(fm, lm, bm, lockTable)
	if err != nil {
		return nil, err
	}
	md, err := metadata.NewManager(isNew, initTx)
	if err != nil {
		return nil, err
	}
	db.metadata = md

	queryPlanner := plan.NewBetterQueryPlanner(md)
	updatePlanner := planner.NewIndexUpdatePlanner(md)
	db.planner = plan.NewPlanner(queryPlanner, updatePlanner)

	if err := initTx.Commit(); err != nil {
		return nil, err
	}
	return db, nil
}

// NewTx starts a fresh transaction against this database (spec C8).
func (db *Database) NewTx() (*tx.Transaction, error) {
	return tx.New(db.fileManager, db.logManager, db.bufferMgr, db.lockTable)
}

// Planner returns the planner used to run SQL statements (spec C15).
func (db *Database) Planner() *plan.Planner {
	return db.planner
}

// MetadataManager returns the catalog manager (spec C11).
func (db *Database) MetadataManager() *metadata.Manager {
	return db.metadata
}

// FileManager returns the paged file store (spec C1).
func (db *Database) FileManager() *file.Manager {
	return db.fileManager
}
