package plan

import (
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
)

// SelectPlan corresponds to the `select` relational-algebra operator:
// it filters plan's output by predicate (spec §4.12), grounded on
// original_source/src/plan/select_plan.h.
type SelectPlan struct {
	plan      Plan
	predicate *query.Predicate
}

// NewSelectPlan wraps plan with predicate.
func NewSelectPlan(p Plan, predicate *query.Predicate) *SelectPlan {
	return &SelectPlan{plan: p, predicate: predicate}
}

// Open returns a select scan filtering the child plan's scan.
func (p *SelectPlan) Open() (query.Scan, error) {
	s, err := p.plan.Open()
	if err != nil {
		return nil, err
	}
	if us, ok := s.(query.UpdateScan); ok {
		return query.NewUpdatableSelectScan(us, p.predicate), nil
	}
	return query.NewSelectScan(s, p.predicate), nil
}

// BlocksAccessed is the same as the underlying plan's: selection
// filters records in-stream without extra block reads.
func (p *SelectPlan) BlocksAccessed() int { return p.plan.BlocksAccessed() }

// RecordsOutput divides the underlying record count by the
// predicate's reduction factor.
func (p *SelectPlan) RecordsOutput() int {
	rf := p.predicate.ReductionFactor(p.plan)
	if rf == 0 {
		rf = 1
	}
	return p.plan.RecordsOutput() / rf
}

// DistinctValues is 1 if the predicate pins field to a constant, the
// smaller of the two sides if it equates field to another field, and
// otherwise the underlying plan's estimate.
func (p *SelectPlan) DistinctValues(field string) int {
	if _, ok := p.predicate.EquatesWithConstant(field); ok {
		return 1
	}
	if other, ok := p.predicate.EquatesWithField(field); ok {
		a := p.plan.DistinctValues(field)
		b := p.plan.DistinctValues(other)
		if a < b {
			return a
		}
		return b
	}
	return p.plan.DistinctValues(field)
}

// Schema is the same as the underlying plan's.
func (p *SelectPlan) Schema() *record.Schema { return p.plan.Schema() }

var _ Plan = (*SelectPlan)(nil)
