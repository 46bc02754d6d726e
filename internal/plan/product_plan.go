package plan

import (
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
)

// ProductPlan corresponds to the `product` relational-algebra operator
// (spec §4.12), grounded on original_source/src/plan/product_plan.h.
type ProductPlan struct {
	plan1, plan2 Plan
	schema       *record.Schema
}

// NewProductPlan builds the union schema of plan1 and plan2.
func NewProductPlan(plan1, plan2 Plan) *ProductPlan {
	schema := record.NewSchema()
	schema.AddAll(plan1.Schema())
	schema.AddAll(plan2.Schema())
	return &ProductPlan{plan1: plan1, plan2: plan2, schema: schema}
}

// Open returns a product scan over both children's scans.
func (p *ProductPlan) Open() (query.Scan, error) {
	s1, err := p.plan1.Open()
	if err != nil {
		return nil, err
	}
	s2, err := p.plan2.Open()
	if err != nil {
		return nil, err
	}
	ps := query.NewProductScan(s1, s2)
	if err := ps.BeforeFirst(); err != nil {
		return nil, err
	}
	return ps, nil
}

// BlocksAccessed estimates B(p1) + R(p1) * B(p2): p2 is rescanned
// once per record of p1.
func (p *ProductPlan) BlocksAccessed() int {
	return p.plan1.BlocksAccessed() + p.plan1.RecordsOutput()*p.plan2.BlocksAccessed()
}

// RecordsOutput estimates R(p1) * R(p2).
func (p *ProductPlan) RecordsOutput() int {
	return p.plan1.RecordsOutput() * p.plan2.RecordsOutput()
}

// DistinctValues delegates to whichever child's schema has field.
func (p *ProductPlan) DistinctValues(field string) int {
	if p.plan1.Schema().HasField(field) {
		return p.plan1.DistinctValues(field)
	}
	return p.plan2.DistinctValues(field)
}

// Schema returns the union schema.
func (p *ProductPlan) Schema() *record.Schema { return p.schema }

var _ Plan = (*ProductPlan)(nil)
