package plan

import (
	"github.com/coredb-project/coredb/internal/parse"
	"github.com/coredb-project/coredb/internal/record"
)

// QueryPlanner builds a Plan for a parsed `select` statement (spec
// §4.12), grounded on original_source/src/plan/query_planner.h.
type QueryPlanner interface {
	CreatePlan(data parse.QueryData, tx record.Transactor) (Plan, error)
}
