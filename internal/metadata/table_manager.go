package metadata

import (
	"github.com/coredb-project/coredb/internal/dberrors"
	"github.com/coredb-project/coredb/internal/record"
)

// MaxNameLen bounds identifier lengths stored in the catalogs (spec §6).
const MaxNameLen = 16

// TableManager creates tables and records their metadata in the
// table_catalog/field_catalog tables, and rebuilds a Layout from those
// catalogs on request (spec §4.12), grounded on
// original_source/src/metadata/table_manager.h/.cpp.
type TableManager struct {
	tableCatalogLayout *record.Layout
	fieldCatalogLayout *record.Layout
}

// NewTableManager creates the catalog tables when isNew, else assumes
// they already exist.
func NewTableManager(isNew bool, tx record.Transactor) (*TableManager, error) {
	tableCatalogSchema := record.NewSchema()
	tableCatalogSchema.AddStringField("table_name", MaxNameLen)
	tableCatalogSchema.AddIntField("slot_size")

	fieldCatalogSchema := record.NewSchema()
	fieldCatalogSchema.AddStringField("table_name", MaxNameLen)
	fieldCatalogSchema.AddStringField("field_name", MaxNameLen)
	fieldCatalogSchema.AddIntField("type")
	fieldCatalogSchema.AddIntField("length")
	fieldCatalogSchema.AddIntField("offset")

	tm := &TableManager{
		tableCatalogLayout: record.NewLayout(tableCatalogSchema),
		fieldCatalogLayout: record.NewLayout(fieldCatalogSchema),
	}

	if isNew {
		if err := tm.CreateTable("table_catalog", tableCatalogSchema, tx); err != nil {
			return nil, err
		}
		if err := tm.CreateTable("field_catalog", fieldCatalogSchema, tx); err != nil {
			return nil, err
		}
	}
	return tm, nil
}

// CreateTable saves tableName's schema, inserting one table_catalog row
// and one field_catalog row per field.
func (tm *TableManager) CreateTable(tableName string, schema *record.Schema, tx record.Transactor) error {
	layout := record.NewLayout(schema)

	tableCatalog, err := record.NewTableScan(tx, "table_catalog", tm.tableCatalogLayout)
	if err != nil {
		return err
	}
	if err := tableCatalog.Insert(); err != nil {
		tableCatalog.Close()
		return err
	}
	if err := tableCatalog.SetString("table_name", tableName); err != nil {
		tableCatalog.Close()
		return err
	}
	if err := tableCatalog.SetInt("slot_size", layout.SlotSize()); err != nil {
		tableCatalog.Close()
		return err
	}
	tableCatalog.Close()

	fieldCatalog, err := record.NewTableScan(tx, "field_catalog", tm.fieldCatalogLayout)
	if err != nil {
		return err
	}
	defer fieldCatalog.Close()
	for _, fieldName := range schema.Fields() {
		if err := fieldCatalog.Insert(); err != nil {
			return err
		}
		if err := fieldCatalog.SetString("table_name", tableName); err != nil {
			return err
		}
		if err := fieldCatalog.SetString("field_name", fieldName); err != nil {
			return err
		}
		if err := fieldCatalog.SetInt("type", int(schema.Type(fieldName))); err != nil {
			return err
		}
		if err := fieldCatalog.SetInt("length", schema.Length(fieldName)); err != nil {
			return err
		}
		if err := fieldCatalog.SetInt("offset", layout.Offset(fieldName)); err != nil {
			return err
		}
	}
	return nil
}

// GetLayout rebuilds tableName's Layout from the catalog tables.
func (tm *TableManager) GetLayout(tableName string, tx record.Transactor) (*record.Layout, error) {
	slotSize := -1
	tableCatalog, err := record.NewTableScan(tx, "table_catalog", tm.tableCatalogLayout)
	if err != nil {
		return nil, err
	}
	for {
		ok, err := tableCatalog.Next()
		if err != nil {
			tableCatalog.Close()
			return nil, err
		}
		if !ok {
			break
		}
		name, err := tableCatalog.GetString("table_name")
		if err != nil {
			tableCatalog.Close()
			return nil, err
		}
		if name == tableName {
			slotSize, err = tableCatalog.GetInt("slot_size")
			if err != nil {
				tableCatalog.Close()
				return nil, err
			}
			break
		}
	}
	tableCatalog.Close()

	if slotSize == -1 {
		return nil, dberrors.NotFound("table " + tableName)
	}

	schema := record.NewSchema()
	offsets := make(map[string]int)
	fieldCatalog, err := record.NewTableScan(tx, "field_catalog", tm.fieldCatalogLayout)
	if err != nil {
		return nil, err
	}
	defer fieldCatalog.Close()
	for {
		ok, err := fieldCatalog.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		name, err := fieldCatalog.GetString("table_name")
		if err != nil {
			return nil, err
		}
		if name != tableName {
			continue
		}
		fieldName, err := fieldCatalog.GetString("field_name")
		if err != nil {
			return nil, err
		}
		fieldType, err := fieldCatalog.GetInt("type")
		if err != nil {
			return nil, err
		}
		fieldLength, err := fieldCatalog.GetInt("length")
		if err != nil {
			return nil, err
		}
		fieldOffset, err := fieldCatalog.GetInt("offset")
		if err != nil {
			return nil, err
		}
		schema.AddField(fieldName, record.FieldType(fieldType), fieldLength)
		offsets[fieldName] = fieldOffset
	}

	return record.NewLayoutFromCatalog(schema, offsets, slotSize), nil
}
