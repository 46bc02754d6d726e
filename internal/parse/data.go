package parse

import (
	"strings"

	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
)

// QueryData holds a parsed `select` statement: its projected fields,
// source tables, and predicate (spec §6), grounded on
// original_source/src/parse/query_data.h.
type QueryData struct {
	Fields    []string
	Tables    []string
	Predicate *query.Predicate
}

// String renders the statement back as SQL, for logging/echoing.
func (q QueryData) String() string {
	var sb strings.Builder
	sb.WriteString("select ")
	sb.WriteString(strings.Join(q.Fields, ", "))
	sb.WriteString(" from ")
	sb.WriteString(strings.Join(q.Tables, ", "))
	if s := q.Predicate.String(); s != "" {
		sb.WriteString(" where ")
		sb.WriteString(s)
	}
	return sb.String()
}

// InsertData holds a parsed `insert` statement (spec §6), grounded on
// original_source/src/parse/insert_data.h.
type InsertData struct {
	TableName string
	Fields    []string
	Values    []query.Constant
}

// DeleteData holds a parsed `delete` statement (spec §6), grounded on
// original_source/src/parse/delete_data.h.
type DeleteData struct {
	TableName string
	Predicate *query.Predicate
}

// ModifyData holds a parsed `update` statement (spec §6), grounded on
// original_source/src/parse/modify_data.h.
type ModifyData struct {
	TableName   string
	TargetField string
	NewValue    query.Expression
	Predicate   *query.Predicate
}

// CreateTableData holds a parsed `create table` statement (spec §6),
// grounded on original_source/src/parse/create_table_data.h.
type CreateTableData struct {
	TableName string
	Schema    *record.Schema
}

// CreateViewData holds a parsed `create view` statement (spec §6),
// grounded on original_source/src/parse/create_view_data.h.
type CreateViewData struct {
	ViewName string
	Query    QueryData
}

// ViewDefinition renders the view's query back as SQL, as stored in
// view_catalog.
func (c CreateViewData) ViewDefinition() string {
	return c.Query.String()
}

// CreateIndexData holds a parsed `create index` statement (spec §6),
// grounded on original_source/src/parse/create_index_data.h.
type CreateIndexData struct {
	IndexName string
	TableName string
	FieldName string
}
