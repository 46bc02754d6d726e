package query

import "github.com/coredb-project/coredb/internal/record"

// SelectScan wraps an underlying scan and a predicate; Next advances
// until the predicate is satisfied. When the underlying scan is
// updatable, SelectScan forwards every mutating/positioning call to it
// directly (spec §4.10) — the updatable capability is held as a typed
// reference set at construction (selectUpdate), not discovered by a
// runtime downcast, per spec §9's re-architecture note.
type SelectScan struct {
	s             Scan
	pred          *Predicate
	selectUpdate  UpdateScan // nil unless s was constructed via NewUpdatableSelectScan
}

// NewSelectScan builds a read-only select scan over s.
func NewSelectScan(s Scan, pred *Predicate) *SelectScan {
	return &SelectScan{s: s, pred: pred}
}

// NewUpdatableSelectScan builds a select scan that also forwards
// UpdateScan operations to us.
func NewUpdatableSelectScan(us UpdateScan, pred *Predicate) *SelectScan {
	return &SelectScan{s: us, pred: pred, selectUpdate: us}
}

func (sc *SelectScan) BeforeFirst() error { return sc.s.BeforeFirst() }

func (sc *SelectScan) Next() (bool, error) {
	for {
		ok, err := sc.s.Next()
		if err != nil || !ok {
			return ok, err
		}
		satisfied, err := sc.pred.IsSatisfied(sc.s)
		if err != nil {
			return false, err
		}
		if satisfied {
			return true, nil
		}
	}
}

func (sc *SelectScan) GetInt(field string) (int, error) { return sc.s.GetInt(field) }

func (sc *SelectScan) GetString(field string) (string, error) { return sc.s.GetString(field) }

func (sc *SelectScan) GetVal(field string) (Constant, error) { return sc.s.GetVal(field) }

func (sc *SelectScan) HasField(field string) bool { return sc.s.HasField(field) }

func (sc *SelectScan) Close() { sc.s.Close() }

// IsUpdatable reports whether this select scan can forward mutations.
func (sc *SelectScan) IsUpdatable() bool { return sc.selectUpdate != nil }

func (sc *SelectScan) SetInt(field string, val int) error {
	return sc.selectUpdate.SetInt(field, val)
}

func (sc *SelectScan) SetString(field string, val string) error {
	return sc.selectUpdate.SetString(field, val)
}

func (sc *SelectScan) SetVal(field string, val Constant) error {
	return sc.selectUpdate.SetVal(field, val)
}

func (sc *SelectScan) Insert() error { return sc.selectUpdate.Insert() }

func (sc *SelectScan) Delete() error { return sc.selectUpdate.Delete() }

func (sc *SelectScan) GetRID() record.RID { return sc.selectUpdate.GetRID() }

func (sc *SelectScan) MoveToRID(rid record.RID) error { return sc.selectUpdate.MoveToRID(rid) }
