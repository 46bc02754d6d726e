package metadata

import "github.com/coredb-project/coredb/internal/record"

// Manager composes the table, view, statistics and index managers
// behind one facade, in the dependency order each constructor needs
// (spec §4.12), grounded on
// original_source/src/metadata/metadata_manager.h.
type Manager struct {
	tableManager *TableManager
	viewManager  *ViewManager
	statManager  *StatManager
	indexManager *IndexManager
}

// NewManager builds the full metadata layer, creating the catalog
// tables on tx when isNew.
func NewManager(isNew bool, tx record.Transactor) (*Manager, error) {
	tableManager, err := NewTableManager(isNew, tx)
	if err != nil {
		return nil, err
	}
	viewManager, err := NewViewManager(isNew, tableManager, tx)
	if err != nil {
		return nil, err
	}
	statManager, err := NewStatManager(tableManager, tx)
	if err != nil {
		return nil, err
	}
	indexManager, err := NewIndexManager(isNew, tableManager, statManager, tx)
	if err != nil {
		return nil, err
	}
	return &Manager{
		tableManager: tableManager,
		viewManager:  viewManager,
		statManager:  statManager,
		indexManager: indexManager,
	}, nil
}

// CreateTable delegates to the table manager.
func (m *Manager) CreateTable(tableName string, schema *record.Schema, tx record.Transactor) error {
	return m.tableManager.CreateTable(tableName, schema, tx)
}

// GetLayout delegates to the table manager.
func (m *Manager) GetLayout(tableName string, tx record.Transactor) (*record.Layout, error) {
	return m.tableManager.GetLayout(tableName, tx)
}

// CreateView delegates to the view manager.
func (m *Manager) CreateView(viewName, viewDef string, tx record.Transactor) error {
	return m.viewManager.CreateView(viewName, viewDef, tx)
}

// GetViewDef delegates to the view manager.
func (m *Manager) GetViewDef(viewName string, tx record.Transactor) (string, error) {
	return m.viewManager.GetViewDef(viewName, tx)
}

// CreateIndex delegates to the index manager.
func (m *Manager) CreateIndex(indexName, tableName, fieldName string, tx record.Transactor) error {
	return m.indexManager.CreateIndex(indexName, tableName, fieldName, tx)
}

// GetIndexInfo delegates to the index manager.
func (m *Manager) GetIndexInfo(tableName string, tx record.Transactor) (map[string]*IndexInfo, error) {
	return m.indexManager.GetIndexInfo(tableName, tx)
}

// GetStatInfo delegates to the statistics manager.
func (m *Manager) GetStatInfo(tableName string, layout *record.Layout, tx record.Transactor) (StatInfo, error) {
	return m.statManager.GetStatInfo(tableName, layout, tx)
}
