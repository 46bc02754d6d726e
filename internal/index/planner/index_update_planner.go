// Package planner implements the index-aware update planner and the
// index-select/index-join plan nodes (part of spec C14/C15),
// grounded on
// original_source/src/index/planner/index_update_planner.h/.cpp,
// index_select_plan.h/.cpp and index_join_plan.h/.cpp. Named
// "index/planner" (not "plan") because it depends on both the plan
// and index packages, which must not depend on each other.
package planner

import (
	"github.com/coredb-project/coredb/internal/metadata"
	"github.com/coredb-project/coredb/internal/parse"
	"github.com/coredb-project/coredb/internal/plan"
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
)

// IndexUpdatePlanner is the basic update planner enriched to also
// maintain every declared index affected by an insert/delete/modify
// (spec §4.11's indexes must stay consistent with their base table),
// grounded on
// original_source/src/index/planner/index_update_planner.h/.cpp.
type IndexUpdatePlanner struct {
	md *metadata.Manager
}

// NewIndexUpdatePlanner builds a planner backed by md.
func NewIndexUpdatePlanner(md *metadata.Manager) *IndexUpdatePlanner {
	return &IndexUpdatePlanner{md: md}
}

func asUpdateScan(s query.Scan) query.UpdateScan {
	return s.(query.UpdateScan)
}

// ExecuteInsert inserts one record into the base table, then inserts
// a matching entry into every index declared on an assigned field.
func (ip *IndexUpdatePlanner) ExecuteInsert(data parse.InsertData, tx record.Transactor) (int, error) {
	tablePlan, err := plan.NewTablePlan(tx, data.TableName, ip.md)
	if err != nil {
		return 0, err
	}
	scan, err := tablePlan.Open()
	if err != nil {
		return 0, err
	}
	us := asUpdateScan(scan)
	defer us.Close()

	if err := us.Insert(); err != nil {
		return 0, err
	}
	rid := us.GetRID()

	indexes, err := ip.md.GetIndexInfo(data.TableName, tx)
	if err != nil {
		return 0, err
	}
	for i, fieldName := range data.Fields {
		value := data.Values[i]
		if err := us.SetVal(fieldName, value); err != nil {
			return 0, err
		}
		if info, ok := indexes[fieldName]; ok {
			idx, err := info.Open()
			if err != nil {
				return 0, err
			}
			if err := idx.Insert(value, rid); err != nil {
				idx.Close()
				return 0, err
			}
			idx.Close()
		}
	}
	return 1, nil
}

// ExecuteDelete removes every matching record's RID from each of the
// table's indexes, then deletes the record itself.
func (ip *IndexUpdatePlanner) ExecuteDelete(data parse.DeleteData, tx record.Transactor) (int, error) {
	tablePlan, err := plan.NewTablePlan(tx, data.TableName, ip.md)
	if err != nil {
		return 0, err
	}
	selectPlan := plan.NewSelectPlan(tablePlan, data.Predicate)
	indexes, err := ip.md.GetIndexInfo(data.TableName, tx)
	if err != nil {
		return 0, err
	}

	scan, err := selectPlan.Open()
	if err != nil {
		return 0, err
	}
	us := asUpdateScan(scan)
	defer us.Close()

	count := 0
	for {
		ok, err := us.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		rid := us.GetRID()
		for fieldName, info := range indexes {
			value, err := us.GetVal(fieldName)
			if err != nil {
				return 0, err
			}
			idx, err := info.Open()
			if err != nil {
				return 0, err
			}
			if err := idx.Delete(value, rid); err != nil {
				idx.Close()
				return 0, err
			}
			idx.Close()
		}
		if err := us.Delete(); err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

// ExecuteModify updates the target field's value in every matching
// record, and when an index is declared on that field, moves the
// index entry to match.
func (ip *IndexUpdatePlanner) ExecuteModify(data parse.ModifyData, tx record.Transactor) (int, error) {
	tablePlan, err := plan.NewTablePlan(tx, data.TableName, ip.md)
	if err != nil {
		return 0, err
	}
	selectPlan := plan.NewSelectPlan(tablePlan, data.Predicate)

	indexes, err := ip.md.GetIndexInfo(data.TableName, tx)
	if err != nil {
		return 0, err
	}
	info, hasIndex := indexes[data.TargetField]

	scan, err := selectPlan.Open()
	if err != nil {
		return 0, err
	}
	us := asUpdateScan(scan)
	defer us.Close()

	count := 0
	for {
		ok, err := us.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		newVal, err := data.NewValue.Evaluate(us)
		if err != nil {
			return 0, err
		}
		oldVal, err := us.GetVal(data.TargetField)
		if err != nil {
			return 0, err
		}
		if err := us.SetVal(data.TargetField, newVal); err != nil {
			return 0, err
		}
		if hasIndex {
			rid := us.GetRID()
			idx, err := info.Open()
			if err != nil {
				return 0, err
			}
			if err := idx.Delete(oldVal, rid); err != nil {
				idx.Close()
				return 0, err
			}
			if err := idx.Insert(newVal, rid); err != nil {
				idx.Close()
				return 0, err
			}
			idx.Close()
		}
		count++
	}
	return count, nil
}

// ExecuteCreateTable delegates to the metadata manager.
func (ip *IndexUpdatePlanner) ExecuteCreateTable(data parse.CreateTableData, tx record.Transactor) (int, error) {
	return 0, ip.md.CreateTable(data.TableName, data.Schema, tx)
}

// ExecuteCreateView delegates to the metadata manager.
func (ip *IndexUpdatePlanner) ExecuteCreateView(data parse.CreateViewData, tx record.Transactor) (int, error) {
	return 0, ip.md.CreateView(data.ViewName, data.ViewDefinition(), tx)
}

// ExecuteCreateIndex delegates to the metadata manager.
func (ip *IndexUpdatePlanner) ExecuteCreateIndex(data parse.CreateIndexData, tx record.Transactor) (int, error) {
	return 0, ip.md.CreateIndex(data.IndexName, data.TableName, data.FieldName, tx)
}

var _ plan.UpdatePlanner = (*IndexUpdatePlanner)(nil)
