package plan

import (
	"github.com/coredb-project/coredb/internal/metadata"
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
)

// TablePlan is a leaf node corresponding to one table or view's
// underlying base table (spec §4.12), grounded on
// original_source/src/plan/table_plan.h.
type TablePlan struct {
	tx        record.Transactor
	tableName string
	layout    *record.Layout
	statInfo  metadata.StatInfo
}

// NewTablePlan fetches tableName's layout and statistics from md.
func NewTablePlan(tx record.Transactor, tableName string, md *metadata.Manager) (*TablePlan, error) {
	layout, err := md.GetLayout(tableName, tx)
	if err != nil {
		return nil, err
	}
	statInfo, err := md.GetStatInfo(tableName, layout, tx)
	if err != nil {
		return nil, err
	}
	return &TablePlan{tx: tx, tableName: tableName, layout: layout, statInfo: statInfo}, nil
}

// Open returns a fresh table scan over this table.
func (p *TablePlan) Open() (query.Scan, error) {
	ts, err := record.NewTableScan(p.tx, p.tableName, p.layout)
	if err != nil {
		return nil, err
	}
	return query.NewTableScanAdapter(ts), nil
}

// BlocksAccessed returns the table's estimated block count.
func (p *TablePlan) BlocksAccessed() int { return p.statInfo.BlocksAccessed() }

// RecordsOutput returns the table's estimated record count.
func (p *TablePlan) RecordsOutput() int { return p.statInfo.RecordsOutput() }

// DistinctValues returns field's estimated distinct-value count.
func (p *TablePlan) DistinctValues(field string) int { return p.statInfo.DistinctValues(field) }

// Schema returns the table's schema.
func (p *TablePlan) Schema() *record.Schema { return p.layout.Schema() }

var _ Plan = (*TablePlan)(nil)
