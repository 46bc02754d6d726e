// Package record implements the schema/layout metadata (C11), the
// slotted record page (C9), and the table scan (C10), grounded on
// original_source/src/record/schema.h, layout.h/.cpp, record_page.h/.cpp,
// table_scan.h/.cpp and rid.h.
package record

// FieldType is a field's storage type (spec §3: INTEGER|VARCHAR).
type FieldType int

const (
	Integer FieldType = iota
	Varchar
)

// FieldInfo describes one field's type and, for Varchar, its maximum
// character length.
type FieldInfo struct {
	Type   FieldType
	Length int // character length, meaningful only for Varchar
}

// Schema is an ordered sequence of uniquely named fields. Ordering is
// stable and defines physical offset assignment (spec §3).
type Schema struct {
	fields []string
	info   map[string]FieldInfo
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{info: make(map[string]FieldInfo)}
}

// AddField appends a field of the given type/length.
func (s *Schema) AddField(name string, typ FieldType, length int) {
	s.fields = append(s.fields, name)
	s.info[name] = FieldInfo{Type: typ, Length: length}
}

// AddIntField appends an INTEGER field.
func (s *Schema) AddIntField(name string) {
	s.AddField(name, Integer, 0)
}

// AddStringField appends a VARCHAR field with the given max length.
func (s *Schema) AddStringField(name string, length int) {
	s.AddField(name, Varchar, length)
}

// Add copies field from another schema (used to assemble derived schemas
// for project/product scans).
func (s *Schema) Add(name string, other *Schema) {
	info := other.info[name]
	s.AddField(name, info.Type, info.Length)
}

// AddAll copies every field from another schema.
func (s *Schema) AddAll(other *Schema) {
	for _, name := range other.fields {
		s.Add(name, other)
	}
}

// Fields returns the field names in schema order.
func (s *Schema) Fields() []string {
	return s.fields
}

// HasField reports whether name is part of this schema.
func (s *Schema) HasField(name string) bool {
	_, ok := s.info[name]
	return ok
}

// Type returns the field's storage type.
func (s *Schema) Type(name string) FieldType {
	return s.info[name].Type
}

// Length returns the field's max character length (Varchar only).
func (s *Schema) Length(name string) int {
	return s.info[name].Length
}
