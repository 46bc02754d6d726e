// Package iquery implements the index-select and index-join scans
// (part of spec C13), grounded on
// original_source/src/query/index_select_scan.h/.cpp and
// index_join_scan.h/.cpp. Named "iquery" (not "query") because it
// depends on the index package, which the query package must not.
package iquery

import (
	"github.com/coredb-project/coredb/internal/index"
	"github.com/coredb-project/coredb/internal/query"
)

// IndexSelectScan positions idx on a fixed search key and, on each
// Next, moves ts to the RID the index returns (spec §4.10).
type IndexSelectScan struct {
	ts  *query.TableScanAdapter
	idx index.Index
	val query.Constant
}

// NewIndexSelectScan opens idx on val and binds it to ts.
func NewIndexSelectScan(ts *query.TableScanAdapter, idx index.Index, val query.Constant) (*IndexSelectScan, error) {
	s := &IndexSelectScan{ts: ts, idx: idx, val: val}
	if err := s.BeforeFirst(); err != nil {
		return nil, err
	}
	return s, nil
}

// BeforeFirst repositions the index at the fixed search key.
func (s *IndexSelectScan) BeforeFirst() error {
	return s.idx.BeforeFirst(s.val)
}

// Next advances the index and moves the table scan to the matching RID.
func (s *IndexSelectScan) Next() (bool, error) {
	ok, err := s.idx.Next()
	if err != nil || !ok {
		return false, err
	}
	rid, err := s.idx.GetDataRID()
	if err != nil {
		return false, err
	}
	if err := s.ts.MoveToRID(rid); err != nil {
		return false, err
	}
	return true, nil
}

func (s *IndexSelectScan) GetInt(field string) (int, error) { return s.ts.GetInt(field) }

func (s *IndexSelectScan) GetString(field string) (string, error) { return s.ts.GetString(field) }

func (s *IndexSelectScan) GetVal(field string) (query.Constant, error) { return s.ts.GetVal(field) }

func (s *IndexSelectScan) HasField(field string) bool { return s.ts.HasField(field) }

func (s *IndexSelectScan) Close() {
	s.idx.Close()
	s.ts.Close()
}

var _ query.Scan = (*IndexSelectScan)(nil)
