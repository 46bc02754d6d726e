package plan

import (
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
)

// ProjectPlan corresponds to the `project` relational-algebra
// operator: it restricts plan's schema to fieldList (spec §4.12),
// grounded on original_source/src/plan/project_plan.h.
type ProjectPlan struct {
	plan   Plan
	schema *record.Schema
}

// NewProjectPlan builds the projected schema from fieldList, copying
// each field's type/length from p's schema.
func NewProjectPlan(p Plan, fieldList []string) *ProjectPlan {
	schema := record.NewSchema()
	for _, field := range fieldList {
		schema.Add(field, p.Schema())
	}
	return &ProjectPlan{plan: p, schema: schema}
}

// Open returns a project scan over the child plan's scan.
func (p *ProjectPlan) Open() (query.Scan, error) {
	s, err := p.plan.Open()
	if err != nil {
		return nil, err
	}
	return query.NewProjectScan(s, p.schema.Fields()), nil
}

// BlocksAccessed is the same as the underlying plan's.
func (p *ProjectPlan) BlocksAccessed() int { return p.plan.BlocksAccessed() }

// RecordsOutput is the same as the underlying plan's.
func (p *ProjectPlan) RecordsOutput() int { return p.plan.RecordsOutput() }

// DistinctValues is the same as the underlying plan's.
func (p *ProjectPlan) DistinctValues(field string) int { return p.plan.DistinctValues(field) }

// Schema returns the projected schema.
func (p *ProjectPlan) Schema() *record.Schema { return p.schema }

var _ Plan = (*ProjectPlan)(nil)
