package query

import "github.com/coredb-project/coredb/internal/record"

// TableScanAdapter widens a record.TableScan into an UpdateScan by
// adding the Constant-typed GetVal/SetVal spec.Scan requires. It is the
// leaf UpdateScan every plan eventually bottoms out on (spec §4.9/§4.10).
type TableScanAdapter struct {
	ts *record.TableScan
}

// NewTableScanAdapter wraps ts.
func NewTableScanAdapter(ts *record.TableScan) *TableScanAdapter {
	return &TableScanAdapter{ts: ts}
}

func (a *TableScanAdapter) BeforeFirst() error { return a.ts.BeforeFirst() }

func (a *TableScanAdapter) Next() (bool, error) { return a.ts.Next() }

func (a *TableScanAdapter) GetInt(field string) (int, error) { return a.ts.GetInt(field) }

func (a *TableScanAdapter) GetString(field string) (string, error) { return a.ts.GetString(field) }

func (a *TableScanAdapter) GetVal(field string) (Constant, error) {
	if a.ts.Schema().Type(field) == record.Varchar {
		s, err := a.ts.GetString(field)
		if err != nil {
			return Constant{}, err
		}
		return NewStringConstant(s), nil
	}
	v, err := a.ts.GetInt(field)
	if err != nil {
		return Constant{}, err
	}
	return NewIntConstant(v), nil
}

func (a *TableScanAdapter) HasField(field string) bool { return a.ts.HasField(field) }

func (a *TableScanAdapter) Close() { a.ts.Close() }

func (a *TableScanAdapter) SetInt(field string, val int) error { return a.ts.SetInt(field, val) }

func (a *TableScanAdapter) SetString(field string, val string) error {
	return a.ts.SetString(field, val)
}

func (a *TableScanAdapter) SetVal(field string, val Constant) error {
	if val.IsString() {
		return a.ts.SetString(field, val.AsString())
	}
	return a.ts.SetInt(field, val.AsInt())
}

func (a *TableScanAdapter) Insert() error { return a.ts.Insert() }

func (a *TableScanAdapter) Delete() error { return a.ts.Delete() }

func (a *TableScanAdapter) GetRID() record.RID { return a.ts.GetRID() }

func (a *TableScanAdapter) MoveToRID(rid record.RID) error { return a.ts.MoveToRID(rid) }

// Underlying exposes the wrapped table scan for callers (e.g. index
// scans) that need RID-level positioning without going through Scan.
func (a *TableScanAdapter) Underlying() *record.TableScan { return a.ts }
