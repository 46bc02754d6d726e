package query

import (
	"math"
	"strings"
)

// DistinctValuesSource is the minimal surface a query plan needs to
// expose for reduction-factor estimation (spec §4.12's cost model).
// Defined here, rather than importing the plan package, to avoid a
// query<->plan import cycle; *plan.SelectPlan and friends satisfy
// this structurally.
type DistinctValuesSource interface {
	DistinctValues(field string) int
}

// Expression is either a field reference or a constant, grounded on
// original_source/src/query/expression.h.
type Expression struct {
	fieldName string
	val       Constant
	isField   bool
}

// NewFieldExpression wraps a field reference.
func NewFieldExpression(fieldName string) Expression {
	return Expression{fieldName: fieldName, isField: true}
}

// NewConstantExpression wraps a literal value.
func NewConstantExpression(val Constant) Expression {
	return Expression{val: val}
}

// IsFieldName reports whether this expression names a field.
func (e Expression) IsFieldName() bool {
	return e.isField
}

// FieldName returns the referenced field's name.
func (e Expression) FieldName() string {
	return e.fieldName
}

// AppliesTo reports whether a field expression is present in scan s.
func (e Expression) AppliesTo(s Scan) bool {
	if !e.isField {
		return true
	}
	return s.HasField(e.fieldName)
}

// Evaluate computes the expression's value against the current record of s.
func (e Expression) Evaluate(s Scan) (Constant, error) {
	if e.isField {
		return s.GetVal(e.fieldName)
	}
	return e.val, nil
}

func (e Expression) String() string {
	if e.isField {
		return e.fieldName
	}
	return e.val.String()
}

// Term compares two expressions for equality, grounded on
// original_source/src/query/term.h/.cpp.
type Term struct {
	lhs, rhs Expression
}

// NewTerm builds an equality comparison between lhs and rhs.
func NewTerm(lhs, rhs Expression) Term {
	return Term{lhs: lhs, rhs: rhs}
}

// IsSatisfied reports whether lhs == rhs against s's current record.
func (t Term) IsSatisfied(s Scan) (bool, error) {
	lv, err := t.lhs.Evaluate(s)
	if err != nil {
		return false, err
	}
	rv, err := t.rhs.Evaluate(s)
	if err != nil {
		return false, err
	}
	return lv.Equals(rv), nil
}

// EquatesWithConstant returns the constant this term equates fieldName
// to, if one side is exactly that field and the other a constant.
func (t Term) EquatesWithConstant(fieldName string) (Constant, bool) {
	if t.lhs.IsFieldName() && t.lhs.FieldName() == fieldName && !t.rhs.IsFieldName() {
		return t.rhs.val, true
	}
	if t.rhs.IsFieldName() && t.rhs.FieldName() == fieldName && !t.lhs.IsFieldName() {
		return t.lhs.val, true
	}
	return Constant{}, false
}

// EquatesWithField returns the other field name this term equates
// fieldName to, if both sides are field references.
func (t Term) EquatesWithField(fieldName string) (string, bool) {
	if t.lhs.IsFieldName() && t.lhs.FieldName() == fieldName && t.rhs.IsFieldName() {
		return t.rhs.FieldName(), true
	}
	if t.rhs.IsFieldName() && t.rhs.FieldName() == fieldName && t.lhs.IsFieldName() {
		return t.lhs.FieldName(), true
	}
	return "", false
}

func (t Term) String() string {
	return t.lhs.String() + "=" + t.rhs.String()
}

// ReductionFactor estimates how much selecting on this term shrinks a
// plan's output: max distinct-values of any field side, or 1/maxint
// for a constant-vs-constant comparison (spec §4.12).
func (t Term) ReductionFactor(p DistinctValuesSource) int {
	if t.lhs.IsFieldName() && t.rhs.IsFieldName() {
		lv := p.DistinctValues(t.lhs.FieldName())
		rv := p.DistinctValues(t.rhs.FieldName())
		if lv > rv {
			return lv
		}
		return rv
	}
	if t.lhs.IsFieldName() {
		return p.DistinctValues(t.lhs.FieldName())
	}
	if t.rhs.IsFieldName() {
		return p.DistinctValues(t.rhs.FieldName())
	}
	if t.lhs.val.Equals(t.rhs.val) {
		return 1
	}
	return math.MaxInt32
}

// Predicate is a conjunction (AND) of terms (spec §4.10's SelectScan).
type Predicate struct {
	terms []Term
}

// NewPredicate builds an empty (always-true) predicate.
func NewPredicate() *Predicate {
	return &Predicate{}
}

// ConjoinWith adds term to the conjunction.
func (p *Predicate) ConjoinWith(term Term) {
	p.terms = append(p.terms, term)
}

// IsSatisfied reports whether every term holds against s's current record.
func (p *Predicate) IsSatisfied(s Scan) (bool, error) {
	for _, term := range p.terms {
		ok, err := term.IsSatisfied(s)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// EquatesWithConstant searches the conjunction for a term equating
// fieldName with a constant, used by index-select planning.
func (p *Predicate) EquatesWithConstant(fieldName string) (Constant, bool) {
	for _, term := range p.terms {
		if v, ok := term.EquatesWithConstant(fieldName); ok {
			return v, true
		}
	}
	return Constant{}, false
}

// EquatesWithField searches the conjunction for a term equating
// fieldName with another field, used by index-join planning.
func (p *Predicate) EquatesWithField(fieldName string) (string, bool) {
	for _, term := range p.terms {
		if f, ok := term.EquatesWithField(fieldName); ok {
			return f, true
		}
	}
	return "", false
}

// ReductionFactor multiplies each term's reduction factor, capping at
// math.MaxInt32 to avoid overflow when several terms each return it.
func (p *Predicate) ReductionFactor(plan DistinctValuesSource) int {
	factor := 1
	for _, t := range p.terms {
		rf := t.ReductionFactor(plan)
		if factor > math.MaxInt32/rf {
			return math.MaxInt32
		}
		factor *= rf
	}
	return factor
}

// Terms returns the conjunction's terms in order.
func (p *Predicate) Terms() []Term {
	return p.terms
}

// String renders the conjunction as "t1 and t2 and ...", or "" when empty.
func (p *Predicate) String() string {
	if p == nil || len(p.terms) == 0 {
		return ""
	}
	parts := make([]string, len(p.terms))
	for i, t := range p.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " and ")
}
