package plan

import (
	"github.com/coredb-project/coredb/internal/metadata"
	"github.com/coredb-project/coredb/internal/parse"
	"github.com/coredb-project/coredb/internal/record"
)

// BetterQueryPlanner orders the product of the queried tables/views
// cheapest-first at each step, rather than left-to-right (spec
// §4.12), grounded on
// original_source/src/plan/better_query_planner.h/.cpp.
type BetterQueryPlanner struct {
	md *metadata.Manager
}

// NewBetterQueryPlanner builds a planner backed by md.
func NewBetterQueryPlanner(md *metadata.Manager) *BetterQueryPlanner {
	return &BetterQueryPlanner{md: md}
}

// CreatePlan builds: product of every table/view (expanding views via
// a nested parse+CreatePlan), then a select on the predicate, then a
// project on the field list.
func (pl *BetterQueryPlanner) CreatePlan(data parse.QueryData, tx record.Transactor) (Plan, error) {
	var plans []Plan
	for _, tableName := range data.Tables {
		viewDef, err := pl.md.GetViewDef(tableName, tx)
		if err == nil {
			viewParser, perr := parse.NewParser(viewDef)
			if perr != nil {
				return nil, perr
			}
			viewData, perr := viewParser.ParseQuery()
			if perr != nil {
				return nil, perr
			}
			viewPlan, perr := pl.CreatePlan(viewData, tx)
			if perr != nil {
				return nil, perr
			}
			plans = append(plans, viewPlan)
			continue
		}
		tablePlan, terr := NewTablePlan(tx, tableName, pl.md)
		if terr != nil {
			return nil, terr
		}
		plans = append(plans, tablePlan)
	}

	result := plans[0]
	for _, next := range plans[1:] {
		choice1 := NewProductPlan(next, result)
		choice2 := NewProductPlan(result, next)
		if choice1.BlocksAccessed() < choice2.BlocksAccessed() {
			result = choice1
		} else {
			result = choice2
		}
	}

	var p Plan = NewSelectPlan(result, data.Predicate)
	p = NewProjectPlan(p, data.Fields)
	return p, nil
}

var _ QueryPlanner = (*BetterQueryPlanner)(nil)
