package metadata

import (
	"sync"

	"github.com/coredb-project/coredb/internal/record"
)

// StatManager computes and caches per-table statistics, refreshing
// them from a full scan every 100 calls rather than maintaining them
// incrementally (spec §4.12), grounded on
// original_source/src/metadata/stat_manager.h/.cpp.
type StatManager struct {
	tableManager *TableManager
	mu           sync.Mutex
	tableStats   map[string]StatInfo
	numCalls     int
}

// NewStatManager builds a statistics manager and runs an initial full
// refresh.
func NewStatManager(tableManager *TableManager, tx record.Transactor) (*StatManager, error) {
	sm := &StatManager{tableManager: tableManager}
	if err := sm.refreshStatistics(tx); err != nil {
		return nil, err
	}
	return sm, nil
}

// GetStatInfo returns tableName's statistics, computing them on first
// request and triggering a full refresh every 100 calls.
func (sm *StatManager) GetStatInfo(tableName string, layout *record.Layout, tx record.Transactor) (StatInfo, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.numCalls++
	if sm.numCalls > 100 {
		if err := sm.refreshStatistics(tx); err != nil {
			return StatInfo{}, err
		}
	}
	if info, ok := sm.tableStats[tableName]; ok {
		return info, nil
	}
	info, err := sm.calculateTableStats(tableName, layout, tx)
	if err != nil {
		return StatInfo{}, err
	}
	sm.tableStats[tableName] = info
	return info, nil
}

func (sm *StatManager) refreshStatistics(tx record.Transactor) error {
	sm.tableStats = make(map[string]StatInfo)
	sm.numCalls = 0

	tableCatalogLayout, err := sm.tableManager.GetLayout("table_catalog", tx)
	if err != nil {
		return err
	}
	tableCatalog, err := record.NewTableScan(tx, "table_catalog", tableCatalogLayout)
	if err != nil {
		return err
	}
	defer tableCatalog.Close()

	for {
		ok, err := tableCatalog.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		tableName, err := tableCatalog.GetString("table_name")
		if err != nil {
			return err
		}
		layout, err := sm.tableManager.GetLayout(tableName, tx)
		if err != nil {
			return err
		}
		info, err := sm.calculateTableStats(tableName, layout, tx)
		if err != nil {
			return err
		}
		sm.tableStats[tableName] = info
	}
	return nil
}

func (sm *StatManager) calculateTableStats(tableName string, layout *record.Layout, tx record.Transactor) (StatInfo, error) {
	numBlocks := 0
	numRecords := 0

	ts, err := record.NewTableScan(tx, tableName, layout)
	if err != nil {
		return StatInfo{}, err
	}
	defer ts.Close()

	for {
		ok, err := ts.Next()
		if err != nil {
			return StatInfo{}, err
		}
		if !ok {
			break
		}
		numBlocks = ts.GetRID().BlockNumber + 1
		numRecords++
	}
	return NewStatInfo(numBlocks, numRecords), nil
}
