package metadata

import (
	"github.com/coredb-project/coredb/internal/record"
)

// IndexManager creates indexes and records them in index_catalog,
// mirroring TableManager's approach (spec §4.12), grounded on
// original_source/src/metadata/index_manager.h/.cpp.
type IndexManager struct {
	layout       *record.Layout
	tableManager *TableManager
	statManager  *StatManager
}

// NewIndexManager creates the index_catalog table when isNew.
func NewIndexManager(isNew bool, tableManager *TableManager, statManager *StatManager, tx record.Transactor) (*IndexManager, error) {
	if isNew {
		schema := record.NewSchema()
		schema.AddStringField("index_name", MaxNameLen)
		schema.AddStringField("table_name", MaxNameLen)
		schema.AddStringField("field_name", MaxNameLen)
		if err := tableManager.CreateTable("index_catalog", schema, tx); err != nil {
			return nil, err
		}
	}
	layout, err := tableManager.GetLayout("index_catalog", tx)
	if err != nil {
		return nil, err
	}
	return &IndexManager{layout: layout, tableManager: tableManager, statManager: statManager}, nil
}

// CreateIndex records a new index named indexName over table_name.field_name.
func (im *IndexManager) CreateIndex(indexName, tableName, fieldName string, tx record.Transactor) error {
	indexCatalog, err := record.NewTableScan(tx, "index_catalog", im.layout)
	if err != nil {
		return err
	}
	defer indexCatalog.Close()
	if err := indexCatalog.Insert(); err != nil {
		return err
	}
	if err := indexCatalog.SetString("index_name", indexName); err != nil {
		return err
	}
	if err := indexCatalog.SetString("table_name", tableName); err != nil {
		return err
	}
	return indexCatalog.SetString("field_name", fieldName)
}

// GetIndexInfo returns, keyed by field name, the IndexInfo for every
// index declared on tableName.
func (im *IndexManager) GetIndexInfo(tableName string, tx record.Transactor) (map[string]*IndexInfo, error) {
	result := make(map[string]*IndexInfo)
	indexCatalog, err := record.NewTableScan(tx, "index_catalog", im.layout)
	if err != nil {
		return nil, err
	}
	defer indexCatalog.Close()

	for {
		ok, err := indexCatalog.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		name, err := indexCatalog.GetString("table_name")
		if err != nil {
			return nil, err
		}
		if name != tableName {
			continue
		}
		indexName, err := indexCatalog.GetString("index_name")
		if err != nil {
			return nil, err
		}
		fieldName, err := indexCatalog.GetString("field_name")
		if err != nil {
			return nil, err
		}
		tableLayout, err := im.tableManager.GetLayout(tableName, tx)
		if err != nil {
			return nil, err
		}
		statInfo, err := im.statManager.GetStatInfo(tableName, tableLayout, tx)
		if err != nil {
			return nil, err
		}
		result[fieldName] = NewIndexInfo(indexName, fieldName, tableLayout.Schema(), tx, statInfo)
	}
	return result, nil
}
