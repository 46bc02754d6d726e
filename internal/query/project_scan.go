package query

import "github.com/coredb-project/coredb/internal/dberrors"

// ProjectScan filters HasField/GetVal by a fixed set of field names;
// all other iteration delegates to the underlying scan (spec §4.10).
// Read-only: it does not implement UpdateScan, matching the original's
// ProjectScan which never forwards mutation.
type ProjectScan struct {
	s      Scan
	fields map[string]bool
}

// NewProjectScan restricts s's visible fields to fieldList.
func NewProjectScan(s Scan, fieldList []string) *ProjectScan {
	fields := make(map[string]bool, len(fieldList))
	for _, f := range fieldList {
		fields[f] = true
	}
	return &ProjectScan{s: s, fields: fields}
}

func (p *ProjectScan) BeforeFirst() error { return p.s.BeforeFirst() }

func (p *ProjectScan) Next() (bool, error) { return p.s.Next() }

func (p *ProjectScan) GetInt(field string) (int, error) {
	if !p.HasField(field) {
		return 0, dberrors.NotFound("field " + field)
	}
	return p.s.GetInt(field)
}

func (p *ProjectScan) GetString(field string) (string, error) {
	if !p.HasField(field) {
		return "", dberrors.NotFound("field " + field)
	}
	return p.s.GetString(field)
}

func (p *ProjectScan) GetVal(field string) (Constant, error) {
	if !p.HasField(field) {
		return Constant{}, dberrors.NotFound("field " + field)
	}
	return p.s.GetVal(field)
}

func (p *ProjectScan) HasField(field string) bool {
	return p.fields[field]
}

func (p *ProjectScan) Close() { p.s.Close() }
