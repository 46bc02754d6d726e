package iquery

import (
	"github.com/coredb-project/coredb/internal/dberrors"
	"github.com/coredb-project/coredb/internal/index"
	"github.com/coredb-project/coredb/internal/query"
)

// IndexJoinScan joins an outer scan to an indexed table scan: for each
// outer record it re-positions idx using the join field's value, then
// emits each matching RID (spec §4.10).
type IndexJoinScan struct {
	lhs       query.Scan
	idx       index.Index
	joinField string
	rhs       *query.TableScanAdapter
}

// NewIndexJoinScan builds the join of lhs against rhs via idx, matching
// joinField on the outer scan against the indexed field.
func NewIndexJoinScan(lhs query.Scan, idx index.Index, joinField string, rhs *query.TableScanAdapter) (*IndexJoinScan, error) {
	s := &IndexJoinScan{lhs: lhs, idx: idx, joinField: joinField, rhs: rhs}
	if err := s.BeforeFirst(); err != nil {
		return nil, err
	}
	return s, nil
}

// BeforeFirst positions lhs at its first record and resets the index.
func (s *IndexJoinScan) BeforeFirst() error {
	if err := s.lhs.BeforeFirst(); err != nil {
		return err
	}
	if _, err := s.lhs.Next(); err != nil {
		return err
	}
	return s.resetIndex()
}

func (s *IndexJoinScan) resetIndex() error {
	val, err := s.lhs.GetVal(s.joinField)
	if err != nil {
		return err
	}
	return s.idx.BeforeFirst(val)
}

// Next advances the index; when it's exhausted, advances lhs and resets
// the index on the new outer record.
func (s *IndexJoinScan) Next() (bool, error) {
	for {
		ok, err := s.idx.Next()
		if err != nil {
			return false, err
		}
		if ok {
			rid, err := s.idx.GetDataRID()
			if err != nil {
				return false, err
			}
			if err := s.rhs.MoveToRID(rid); err != nil {
				return false, err
			}
			return true, nil
		}
		ok, err = s.lhs.Next()
		if err != nil || !ok {
			return false, err
		}
		if err := s.resetIndex(); err != nil {
			return false, err
		}
	}
}

func (s *IndexJoinScan) GetInt(field string) (int, error) {
	if s.rhs.HasField(field) {
		return s.rhs.GetInt(field)
	}
	return s.lhs.GetInt(field)
}

func (s *IndexJoinScan) GetString(field string) (string, error) {
	if s.rhs.HasField(field) {
		return s.rhs.GetString(field)
	}
	return s.lhs.GetString(field)
}

func (s *IndexJoinScan) GetVal(field string) (query.Constant, error) {
	if s.rhs.HasField(field) {
		return s.rhs.GetVal(field)
	}
	if s.lhs.HasField(field) {
		return s.lhs.GetVal(field)
	}
	return query.Constant{}, dberrors.NotFound("field " + field)
}

func (s *IndexJoinScan) HasField(field string) bool {
	return s.rhs.HasField(field) || s.lhs.HasField(field)
}

func (s *IndexJoinScan) Close() {
	s.lhs.Close()
	s.idx.Close()
	s.rhs.Close()
}

var _ query.Scan = (*IndexJoinScan)(nil)
