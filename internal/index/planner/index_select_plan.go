package planner

import (
	"fmt"

	"github.com/coredb-project/coredb/internal/index/iquery"
	"github.com/coredb-project/coredb/internal/metadata"
	"github.com/coredb-project/coredb/internal/plan"
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
)

// IndexSelectPlan corresponds to the `index select` relational-algebra
// operator (spec §4.11), grounded on
// original_source/src/index/planner/index_select_plan.h/.cpp. Kept as
// a standalone building block rather than wired into BetterQueryPlanner's
// automatic choices, matching the fact that the original source never
// instantiates it from any query planner either.
type IndexSelectPlan struct {
	tablePlan *plan.TablePlan
	indexInfo *metadata.IndexInfo
	value     query.Constant
}

// NewIndexSelectPlan builds a plan that uses indexInfo to search for
// records of tablePlan whose indexed field equals value.
func NewIndexSelectPlan(tablePlan *plan.TablePlan, indexInfo *metadata.IndexInfo, value query.Constant) *IndexSelectPlan {
	return &IndexSelectPlan{tablePlan: tablePlan, indexInfo: indexInfo, value: value}
}

// Open opens the underlying table scan and the index, and wraps both
// in an IndexSelectScan.
func (p *IndexSelectPlan) Open() (query.Scan, error) {
	scan, err := p.tablePlan.Open()
	if err != nil {
		return nil, err
	}
	ts, ok := scan.(*query.TableScanAdapter)
	if !ok {
		return nil, fmt.Errorf("index select plan: expected a table scan, got %T", scan)
	}
	idx, err := p.indexInfo.Open()
	if err != nil {
		return nil, err
	}
	return iquery.NewIndexSelectScan(ts, idx, p.value)
}

// BlocksAccessed is the index traversal cost plus the number of
// matching data records.
func (p *IndexSelectPlan) BlocksAccessed() int {
	return p.indexInfo.BlocksAccessed() + p.RecordsOutput()
}

// RecordsOutput is the number of search-key values for the index.
func (p *IndexSelectPlan) RecordsOutput() int {
	return p.indexInfo.RecordsOutput()
}

// DistinctValues delegates to the index.
func (p *IndexSelectPlan) DistinctValues(field string) int {
	return p.indexInfo.DistinctValues(field)
}

// Schema returns the underlying table's schema.
func (p *IndexSelectPlan) Schema() *record.Schema {
	return p.tablePlan.Schema()
}

var _ plan.Plan = (*IndexSelectPlan)(nil)
