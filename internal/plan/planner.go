package plan

import (
	"fmt"

	"github.com/coredb-project/coredb/internal/parse"
	"github.com/coredb-project/coredb/internal/record"
)

// Planner is the object that executes SQL statements, dispatching
// queries to a QueryPlanner and updates to an UpdatePlanner (spec
// §4.12), grounded on original_source/src/plan/planner.h/.cpp.
type Planner struct {
	queryPlanner  QueryPlanner
	updatePlanner UpdatePlanner
}

// NewPlanner builds a Planner backed by the given query and update
// planners.
func NewPlanner(queryPlanner QueryPlanner, updatePlanner UpdatePlanner) *Planner {
	return &Planner{queryPlanner: queryPlanner, updatePlanner: updatePlanner}
}

// CreateQueryPlan parses query as a `select` statement and builds a
// Plan for it using the configured QueryPlanner.
func (pl *Planner) CreateQueryPlan(queryText string, tx record.Transactor) (Plan, error) {
	parser, err := parse.NewParser(queryText)
	if err != nil {
		return nil, err
	}
	data, err := parser.ParseQuery()
	if err != nil {
		return nil, err
	}
	return pl.queryPlanner.CreatePlan(data, tx)
}

// ExecuteUpdate parses command as an `insert`, `delete`, `update`, or
// `create` statement and dispatches it to the matching method of the
// configured UpdatePlanner, returning the number of affected records.
func (pl *Planner) ExecuteUpdate(command string, tx record.Transactor) (int, error) {
	parser, err := parse.NewParser(command)
	if err != nil {
		return 0, err
	}
	cmd, err := parser.ParseUpdateCommand()
	if err != nil {
		return 0, err
	}
	switch {
	case cmd.Insert != nil:
		return pl.updatePlanner.ExecuteInsert(*cmd.Insert, tx)
	case cmd.Delete != nil:
		return pl.updatePlanner.ExecuteDelete(*cmd.Delete, tx)
	case cmd.Modify != nil:
		return pl.updatePlanner.ExecuteModify(*cmd.Modify, tx)
	case cmd.CreateTable != nil:
		return pl.updatePlanner.ExecuteCreateTable(*cmd.CreateTable, tx)
	case cmd.CreateView != nil:
		return pl.updatePlanner.ExecuteCreateView(*cmd.CreateView, tx)
	case cmd.CreateIndex != nil:
		return pl.updatePlanner.ExecuteCreateIndex(*cmd.CreateIndex, tx)
	default:
		return 0, fmt.Errorf("planner: empty update command")
	}
}
