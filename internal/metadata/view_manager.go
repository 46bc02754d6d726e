package metadata

import (
	"github.com/coredb-project/coredb/internal/dberrors"
	"github.com/coredb-project/coredb/internal/record"
)

// MaxViewDef bounds a view definition's stored SQL text length (spec §6).
const MaxViewDef = 100

// ViewManager creates views and retrieves their definitions, storing
// them as ordinary table_manager-managed rows (spec §4.12), grounded
// on original_source/src/metadata/view_manager.h/.cpp.
type ViewManager struct {
	tableManager *TableManager
	layout       *record.Layout
}

// NewViewManager creates the view_catalog table when isNew.
func NewViewManager(isNew bool, tableManager *TableManager, tx record.Transactor) (*ViewManager, error) {
	schema := record.NewSchema()
	schema.AddStringField("view_name", MaxNameLen)
	schema.AddStringField("view_def", MaxViewDef)
	if isNew {
		if err := tableManager.CreateTable("view_catalog", schema, tx); err != nil {
			return nil, err
		}
	}
	return &ViewManager{tableManager: tableManager, layout: record.NewLayout(schema)}, nil
}

// CreateView saves viewName's definition.
func (vm *ViewManager) CreateView(viewName, viewDef string, tx record.Transactor) error {
	viewCatalog, err := record.NewTableScan(tx, "view_catalog", vm.layout)
	if err != nil {
		return err
	}
	defer viewCatalog.Close()
	if err := viewCatalog.Insert(); err != nil {
		return err
	}
	if err := viewCatalog.SetString("view_name", viewName); err != nil {
		return err
	}
	return viewCatalog.SetString("view_def", viewDef)
}

// GetViewDef retrieves viewName's definition.
func (vm *ViewManager) GetViewDef(viewName string, tx record.Transactor) (string, error) {
	viewCatalog, err := record.NewTableScan(tx, "view_catalog", vm.layout)
	if err != nil {
		return "", err
	}
	defer viewCatalog.Close()
	for {
		ok, err := viewCatalog.Next()
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		name, err := viewCatalog.GetString("view_name")
		if err != nil {
			return "", err
		}
		if name == viewName {
			return viewCatalog.GetString("view_def")
		}
	}
	return "", dberrors.NotFound("view " + viewName)
}
