// Package plan implements the relational-algebra plan tree (spec
// C15): TablePlan, SelectPlan, ProjectPlan, ProductPlan and the
// planner that assembles them, grounded on
// original_source/src/plan/plan.h, table_plan.h, select_plan.h,
// project_plan.h, product_plan.h, query_planner.h,
// better_query_planner.h/.cpp, update_planner.h,
// basic_update_planner.h/.cpp and planner.h/.cpp.
//
// Composite plans hold their children as Plan interface values owned
// directly by the parent node (an owned-children value tree), rather
// than the original's std::shared_ptr<Plan> graph: nothing in this
// system shares a Plan node between two parents, so a shared pointer
// bought nothing but indirection.
package plan

import (
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
)

// Plan is implemented by one node per relational-algebra operator. It
// estimates the cost of reading its scan to completion without
// actually running it, which the query planner uses to pick a cheap
// execution order (spec §4.12).
type Plan interface {
	Open() (query.Scan, error)
	BlocksAccessed() int
	RecordsOutput() int
	DistinctValues(field string) int
	Schema() *record.Schema
}
