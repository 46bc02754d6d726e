package query

import "github.com/coredb-project/coredb/internal/dberrors"

// ProductScan is the nested-loop cross product of two scans (spec
// §4.10). BeforeFirst positions s1 at its first record and s2 before
// first; Next advances s2 first, resetting and advancing s1 when s2 is
// exhausted.
type ProductScan struct {
	s1, s2 Scan
}

// NewProductScan builds the cross product of s1 and s2.
func NewProductScan(s1, s2 Scan) *ProductScan {
	return &ProductScan{s1: s1, s2: s2}
}

func (p *ProductScan) BeforeFirst() error {
	if err := p.s1.BeforeFirst(); err != nil {
		return err
	}
	if _, err := p.s1.Next(); err != nil {
		return err
	}
	return p.s2.BeforeFirst()
}

func (p *ProductScan) Next() (bool, error) {
	ok, err := p.s2.Next()
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	if err := p.s2.BeforeFirst(); err != nil {
		return false, err
	}
	if ok2, err := p.s2.Next(); err != nil || !ok2 {
		return false, err
	}
	return p.s1.Next()
}

func (p *ProductScan) GetInt(field string) (int, error) {
	if p.s1.HasField(field) {
		return p.s1.GetInt(field)
	}
	return p.s2.GetInt(field)
}

func (p *ProductScan) GetString(field string) (string, error) {
	if p.s1.HasField(field) {
		return p.s1.GetString(field)
	}
	return p.s2.GetString(field)
}

func (p *ProductScan) GetVal(field string) (Constant, error) {
	if p.s1.HasField(field) {
		return p.s1.GetVal(field)
	}
	if p.s2.HasField(field) {
		return p.s2.GetVal(field)
	}
	return Constant{}, dberrors.NotFound("field " + field)
}

func (p *ProductScan) HasField(field string) bool {
	return p.s1.HasField(field) || p.s2.HasField(field)
}

func (p *ProductScan) Close() {
	p.s1.Close()
	p.s2.Close()
}
