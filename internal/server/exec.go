package server

import (
	"github.com/coredb-project/coredb/internal/parse"
	"github.com/coredb-project/coredb/internal/record"
)

// Result is what Exec returns: either a result set (a `select`
// statement) or an affected-row count (everything else).
type Result struct {
	IsQuery      bool
	Fields       []string
	Rows         [][]string
	AffectedRows int
}

// Exec runs one SQL statement to completion in its own transaction,
// committing on success and rolling back on failure, the way the
// original's REPL drives a Planner per statement.
func (db *Database) Exec(sql string) (*Result, error) {
	txn, err := db.NewTx()
	if err != nil {
		return nil, err
	}

	result, err := db.execWithTx(sql, txn)
	if err != nil {
		_ = txn.Rollback()
		return nil, err
	}
	if err := txn.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func (db *Database) execWithTx(sql string, txn record.Transactor) (*Result, error) {
	lexer, err := parse.NewLexer(sql)
	if err != nil {
		return nil, err
	}
	if lexer.MatchKeyword("select") {
		return db.execQuery(sql, txn)
	}
	affected, err := db.planner.ExecuteUpdate(sql, txn)
	if err != nil {
		return nil, err
	}
	return &Result{AffectedRows: affected}, nil
}

func (db *Database) execQuery(sql string, txn record.Transactor) (*Result, error) {
	p, err := db.planner.CreateQueryPlan(sql, txn)
	if err != nil {
		return nil, err
	}
	scan, err := p.Open()
	if err != nil {
		return nil, err
	}
	defer scan.Close()

	fields := p.Schema().Fields()
	result := &Result{IsQuery: true, Fields: fields}
	for {
		ok, err := scan.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		row := make([]string, len(fields))
		for i, field := range fields {
			val, err := scan.GetVal(field)
			if err != nil {
				return nil, err
			}
			row[i] = val.String()
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}
