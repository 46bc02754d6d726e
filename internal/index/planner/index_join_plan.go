package planner

import (
	"fmt"

	"github.com/coredb-project/coredb/internal/index/iquery"
	"github.com/coredb-project/coredb/internal/metadata"
	"github.com/coredb-project/coredb/internal/plan"
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
)

// IndexJoinPlan corresponds to the `index join` relational-algebra
// operator (spec §4.11), grounded on
// original_source/src/index/planner/index_join_plan.h/.cpp. Like
// IndexSelectPlan, it is a standalone building block: nothing in the
// original source's own query planners instantiates it either.
type IndexJoinPlan struct {
	plan1     plan.Plan
	tablePlan *plan.TablePlan
	indexInfo *metadata.IndexInfo
	joinField string
	schema    *record.Schema
}

// NewIndexJoinPlan builds a plan joining plan1 to tablePlan's records
// via indexInfo, matching plan1's joinField against the index.
func NewIndexJoinPlan(plan1 plan.Plan, tablePlan *plan.TablePlan, indexInfo *metadata.IndexInfo, joinField string) *IndexJoinPlan {
	schema := record.NewSchema()
	schema.AddAll(plan1.Schema())
	schema.AddAll(tablePlan.Schema())
	return &IndexJoinPlan{plan1: plan1, tablePlan: tablePlan, indexInfo: indexInfo, joinField: joinField, schema: schema}
}

// Open opens the left scan and the right table scan, and wraps both
// in an IndexJoinScan driven by the index.
func (p *IndexJoinPlan) Open() (query.Scan, error) {
	lhs, err := p.plan1.Open()
	if err != nil {
		return nil, err
	}
	rhsScan, err := p.tablePlan.Open()
	if err != nil {
		return nil, err
	}
	rhs, ok := rhsScan.(*query.TableScanAdapter)
	if !ok {
		return nil, fmt.Errorf("index join plan: expected a table scan, got %T", rhsScan)
	}
	idx, err := p.indexInfo.Open()
	if err != nil {
		return nil, err
	}
	return iquery.NewIndexJoinScan(lhs, idx, p.joinField, rhs)
}

// BlocksAccessed is B(p1) + R(p1)*B(idx) + R(index_join(p1,p2,idx)).
func (p *IndexJoinPlan) BlocksAccessed() int {
	return p.plan1.BlocksAccessed() + p.plan1.RecordsOutput()*p.indexInfo.BlocksAccessed() + p.RecordsOutput()
}

// RecordsOutput is R(p1) * R(idx).
func (p *IndexJoinPlan) RecordsOutput() int {
	return p.plan1.RecordsOutput() * p.indexInfo.RecordsOutput()
}

// DistinctValues delegates to whichever side's schema has field.
func (p *IndexJoinPlan) DistinctValues(field string) int {
	if p.plan1.Schema().HasField(field) {
		return p.plan1.DistinctValues(field)
	}
	return p.tablePlan.DistinctValues(field)
}

// Schema returns the union schema.
func (p *IndexJoinPlan) Schema() *record.Schema { return p.schema }

var _ plan.Plan = (*IndexJoinPlan)(nil)
