package plan

import (
	"github.com/coredb-project/coredb/internal/parse"
	"github.com/coredb-project/coredb/internal/record"
)

// UpdatePlanner executes SQL insert/delete/update/create statements
// (spec §4.12), grounded on
// original_source/src/plan/update_planner.h.
type UpdatePlanner interface {
	ExecuteInsert(data parse.InsertData, tx record.Transactor) (int, error)
	ExecuteDelete(data parse.DeleteData, tx record.Transactor) (int, error)
	ExecuteModify(data parse.ModifyData, tx record.Transactor) (int, error)
	ExecuteCreateTable(data parse.CreateTableData, tx record.Transactor) (int, error)
	ExecuteCreateView(data parse.CreateViewData, tx record.Transactor) (int, error)
	ExecuteCreateIndex(data parse.CreateIndexData, tx record.Transactor) (int, error)
}
