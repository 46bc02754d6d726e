package parse

import (
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
)

// Parser is a recursive-descent parser over the minimal SQL surface:
// select/insert/delete/update/create table|view|index (spec §6),
// grounded on original_source/src/parse/parser.h/.cpp.
type Parser struct {
	lexer *Lexer
}

// NewParser builds a parser for statement.
func NewParser(statement string) (*Parser, error) {
	lexer, err := NewLexer(statement)
	if err != nil {
		return nil, err
	}
	return &Parser{lexer: lexer}, nil
}

// ParseField extracts an identifier token as a field name.
func (p *Parser) ParseField() (string, error) {
	return p.lexer.EatID()
}

// ParseConstant extracts a string or integer constant token.
func (p *Parser) ParseConstant() (query.Constant, error) {
	if p.lexer.MatchStringConstant() {
		s, err := p.lexer.EatStringConstant()
		if err != nil {
			return query.Constant{}, err
		}
		return query.NewStringConstant(s), nil
	}
	v, err := p.lexer.EatIntConstant()
	if err != nil {
		return query.Constant{}, err
	}
	return query.NewIntConstant(v), nil
}

// ParseExpression extracts a field reference or a constant.
func (p *Parser) ParseExpression() (query.Expression, error) {
	if p.lexer.MatchID() {
		field, err := p.ParseField()
		if err != nil {
			return query.Expression{}, err
		}
		return query.NewFieldExpression(field), nil
	}
	c, err := p.ParseConstant()
	if err != nil {
		return query.Expression{}, err
	}
	return query.NewConstantExpression(c), nil
}

// ParseTerm extracts "expression = expression".
func (p *Parser) ParseTerm() (query.Term, error) {
	lhs, err := p.ParseExpression()
	if err != nil {
		return query.Term{}, err
	}
	if err := p.lexer.EatDelim('='); err != nil {
		return query.Term{}, err
	}
	rhs, err := p.ParseExpression()
	if err != nil {
		return query.Term{}, err
	}
	return query.NewTerm(lhs, rhs), nil
}

// ParsePredicate extracts a term, then recursively conjoins more terms
// joined by "and".
func (p *Parser) ParsePredicate() (*query.Predicate, error) {
	term, err := p.ParseTerm()
	if err != nil {
		return nil, err
	}
	predicate := query.NewPredicate()
	predicate.ConjoinWith(term)
	if p.lexer.MatchKeyword("and") {
		if err := p.lexer.EatKeyword("and"); err != nil {
			return nil, err
		}
		rest, err := p.ParsePredicate()
		if err != nil {
			return nil, err
		}
		for _, t := range rest.Terms() {
			predicate.ConjoinWith(t)
		}
	}
	return predicate, nil
}

// ParseQuery extracts a `select` statement.
func (p *Parser) ParseQuery() (QueryData, error) {
	if err := p.lexer.EatKeyword("select"); err != nil {
		return QueryData{}, err
	}
	fields, err := p.parseSelectList()
	if err != nil {
		return QueryData{}, err
	}
	if err := p.lexer.EatKeyword("from"); err != nil {
		return QueryData{}, err
	}
	tables, err := p.parseTableList()
	if err != nil {
		return QueryData{}, err
	}
	predicate := query.NewPredicate()
	if p.lexer.MatchKeyword("where") {
		if err := p.lexer.EatKeyword("where"); err != nil {
			return QueryData{}, err
		}
		predicate, err = p.ParsePredicate()
		if err != nil {
			return QueryData{}, err
		}
	}
	return QueryData{Fields: fields, Tables: tables, Predicate: predicate}, nil
}

func (p *Parser) parseSelectList() ([]string, error) {
	field, err := p.ParseField()
	if err != nil {
		return nil, err
	}
	list := []string{field}
	for p.lexer.MatchDelim(',') {
		if err := p.lexer.EatDelim(','); err != nil {
			return nil, err
		}
		field, err := p.ParseField()
		if err != nil {
			return nil, err
		}
		list = append(list, field)
	}
	return list, nil
}

func (p *Parser) parseTableList() ([]string, error) {
	table, err := p.lexer.EatID()
	if err != nil {
		return nil, err
	}
	list := []string{table}
	for p.lexer.MatchDelim(',') {
		if err := p.lexer.EatDelim(','); err != nil {
			return nil, err
		}
		table, err := p.lexer.EatID()
		if err != nil {
			return nil, err
		}
		list = append(list, table)
	}
	return list, nil
}

// UpdateCommand is the result of ParseUpdateCommand: exactly one of
// its fields is non-nil, identifying which statement was parsed.
type UpdateCommand struct {
	Insert      *InsertData
	Delete      *DeleteData
	Modify      *ModifyData
	CreateTable *CreateTableData
	CreateView  *CreateViewData
	CreateIndex *CreateIndexData
}

// ParseUpdateCommand dispatches on the statement's leading keyword to
// parse any non-select, non-query statement.
func (p *Parser) ParseUpdateCommand() (UpdateCommand, error) {
	switch {
	case p.lexer.MatchKeyword("insert"):
		d, err := p.ParseInsert()
		return UpdateCommand{Insert: &d}, err
	case p.lexer.MatchKeyword("delete"):
		d, err := p.ParseDelete()
		return UpdateCommand{Delete: &d}, err
	case p.lexer.MatchKeyword("update"):
		d, err := p.ParseModify()
		return UpdateCommand{Modify: &d}, err
	default:
		return p.parseCreate()
	}
}

func (p *Parser) parseCreate() (UpdateCommand, error) {
	if err := p.lexer.EatKeyword("create"); err != nil {
		return UpdateCommand{}, err
	}
	switch {
	case p.lexer.MatchKeyword("table"):
		d, err := p.ParseCreateTable()
		return UpdateCommand{CreateTable: &d}, err
	case p.lexer.MatchKeyword("view"):
		d, err := p.ParseCreateView()
		return UpdateCommand{CreateView: &d}, err
	default:
		d, err := p.ParseCreateIndex()
		return UpdateCommand{CreateIndex: &d}, err
	}
}

// ParseDelete extracts a `delete` statement.
func (p *Parser) ParseDelete() (DeleteData, error) {
	if err := p.lexer.EatKeyword("delete"); err != nil {
		return DeleteData{}, err
	}
	if err := p.lexer.EatKeyword("from"); err != nil {
		return DeleteData{}, err
	}
	tableName, err := p.lexer.EatID()
	if err != nil {
		return DeleteData{}, err
	}
	predicate := query.NewPredicate()
	if p.lexer.MatchKeyword("where") {
		if err := p.lexer.EatKeyword("where"); err != nil {
			return DeleteData{}, err
		}
		predicate, err = p.ParsePredicate()
		if err != nil {
			return DeleteData{}, err
		}
	}
	return DeleteData{TableName: tableName, Predicate: predicate}, nil
}

// ParseInsert extracts an `insert` statement.
func (p *Parser) ParseInsert() (InsertData, error) {
	if err := p.lexer.EatKeyword("insert"); err != nil {
		return InsertData{}, err
	}
	if err := p.lexer.EatKeyword("into"); err != nil {
		return InsertData{}, err
	}
	tableName, err := p.lexer.EatID()
	if err != nil {
		return InsertData{}, err
	}
	if err := p.lexer.EatDelim('('); err != nil {
		return InsertData{}, err
	}
	fields, err := p.parseFieldList()
	if err != nil {
		return InsertData{}, err
	}
	if err := p.lexer.EatDelim(')'); err != nil {
		return InsertData{}, err
	}
	if err := p.lexer.EatKeyword("values"); err != nil {
		return InsertData{}, err
	}
	if err := p.lexer.EatDelim('('); err != nil {
		return InsertData{}, err
	}
	values, err := p.parseConstList()
	if err != nil {
		return InsertData{}, err
	}
	if err := p.lexer.EatDelim(')'); err != nil {
		return InsertData{}, err
	}
	return InsertData{TableName: tableName, Fields: fields, Values: values}, nil
}

func (p *Parser) parseFieldList() ([]string, error) {
	field, err := p.ParseField()
	if err != nil {
		return nil, err
	}
	list := []string{field}
	for p.lexer.MatchDelim(',') {
		if err := p.lexer.EatDelim(','); err != nil {
			return nil, err
		}
		field, err := p.ParseField()
		if err != nil {
			return nil, err
		}
		list = append(list, field)
	}
	return list, nil
}

func (p *Parser) parseConstList() ([]query.Constant, error) {
	c, err := p.ParseConstant()
	if err != nil {
		return nil, err
	}
	list := []query.Constant{c}
	for p.lexer.MatchDelim(',') {
		if err := p.lexer.EatDelim(','); err != nil {
			return nil, err
		}
		c, err := p.ParseConstant()
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, nil
}

// ParseModify extracts an `update` statement.
func (p *Parser) ParseModify() (ModifyData, error) {
	if err := p.lexer.EatKeyword("update"); err != nil {
		return ModifyData{}, err
	}
	tableName, err := p.lexer.EatID()
	if err != nil {
		return ModifyData{}, err
	}
	if err := p.lexer.EatKeyword("set"); err != nil {
		return ModifyData{}, err
	}
	fieldName, err := p.ParseField()
	if err != nil {
		return ModifyData{}, err
	}
	if err := p.lexer.EatDelim('='); err != nil {
		return ModifyData{}, err
	}
	newVal, err := p.ParseExpression()
	if err != nil {
		return ModifyData{}, err
	}
	predicate := query.NewPredicate()
	if p.lexer.MatchKeyword("where") {
		if err := p.lexer.EatKeyword("where"); err != nil {
			return ModifyData{}, err
		}
		predicate, err = p.ParsePredicate()
		if err != nil {
			return ModifyData{}, err
		}
	}
	return ModifyData{TableName: tableName, TargetField: fieldName, NewValue: newVal, Predicate: predicate}, nil
}

// ParseCreateTable extracts a `create table` statement.
func (p *Parser) ParseCreateTable() (CreateTableData, error) {
	if err := p.lexer.EatKeyword("table"); err != nil {
		return CreateTableData{}, err
	}
	tableName, err := p.lexer.EatID()
	if err != nil {
		return CreateTableData{}, err
	}
	if err := p.lexer.EatDelim('('); err != nil {
		return CreateTableData{}, err
	}
	schema, err := p.parseFieldDefs()
	if err != nil {
		return CreateTableData{}, err
	}
	if err := p.lexer.EatDelim(')'); err != nil {
		return CreateTableData{}, err
	}
	return CreateTableData{TableName: tableName, Schema: schema}, nil
}

func (p *Parser) parseFieldDefs() (*record.Schema, error) {
	schema, err := p.parseFieldDef()
	if err != nil {
		return nil, err
	}
	for p.lexer.MatchDelim(',') {
		if err := p.lexer.EatDelim(','); err != nil {
			return nil, err
		}
		other, err := p.parseFieldDef()
		if err != nil {
			return nil, err
		}
		schema.AddAll(other)
	}
	return schema, nil
}

func (p *Parser) parseFieldDef() (*record.Schema, error) {
	fieldName, err := p.ParseField()
	if err != nil {
		return nil, err
	}
	return p.parseFieldType(fieldName)
}

func (p *Parser) parseFieldType(fieldName string) (*record.Schema, error) {
	schema := record.NewSchema()
	if p.lexer.MatchKeyword("int") {
		if err := p.lexer.EatKeyword("int"); err != nil {
			return nil, err
		}
		schema.AddIntField(fieldName)
		return schema, nil
	}
	if err := p.lexer.EatKeyword("varchar"); err != nil {
		return nil, err
	}
	if err := p.lexer.EatDelim('('); err != nil {
		return nil, err
	}
	length, err := p.lexer.EatIntConstant()
	if err != nil {
		return nil, err
	}
	if err := p.lexer.EatDelim(')'); err != nil {
		return nil, err
	}
	schema.AddStringField(fieldName, length)
	return schema, nil
}

// ParseCreateView extracts a `create view` statement.
func (p *Parser) ParseCreateView() (CreateViewData, error) {
	if err := p.lexer.EatKeyword("view"); err != nil {
		return CreateViewData{}, err
	}
	viewName, err := p.lexer.EatID()
	if err != nil {
		return CreateViewData{}, err
	}
	if err := p.lexer.EatKeyword("as"); err != nil {
		return CreateViewData{}, err
	}
	queryData, err := p.ParseQuery()
	if err != nil {
		return CreateViewData{}, err
	}
	return CreateViewData{ViewName: viewName, Query: queryData}, nil
}

// ParseCreateIndex extracts a `create index` statement.
func (p *Parser) ParseCreateIndex() (CreateIndexData, error) {
	if err := p.lexer.EatKeyword("index"); err != nil {
		return CreateIndexData{}, err
	}
	indexName, err := p.lexer.EatID()
	if err != nil {
		return CreateIndexData{}, err
	}
	if err := p.lexer.EatKeyword("on"); err != nil {
		return CreateIndexData{}, err
	}
	tableName, err := p.lexer.EatID()
	if err != nil {
		return CreateIndexData{}, err
	}
	if err := p.lexer.EatDelim('('); err != nil {
		return CreateIndexData{}, err
	}
	fieldName, err := p.ParseField()
	if err != nil {
		return CreateIndexData{}, err
	}
	if err := p.lexer.EatDelim(')'); err != nil {
		return CreateIndexData{}, err
	}
	return CreateIndexData{IndexName: indexName, TableName: tableName, FieldName: fieldName}, nil
}
