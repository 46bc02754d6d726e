package record

import "github.com/coredb-project/coredb/internal/file"

// Layout maps a schema's fields to byte offsets within a record slot,
// and exposes the slot's total size. The slot begins with a 4-byte
// in-use flag, then fields in schema order (spec §3).
type Layout struct {
	schema   *Schema
	offsets  map[string]int
	slotSize int
}

// NewLayout computes offsets from scratch: flag (4 bytes), then each
// field in schema order, integer = 4 bytes, varchar = 4+maxLength bytes.
func NewLayout(schema *Schema) *Layout {
	offsets := make(map[string]int)
	pos := 4 // in-use flag
	for _, name := range schema.Fields() {
		offsets[name] = pos
		pos += lengthInBytes(schema, name)
	}
	return &Layout{schema: schema, offsets: offsets, slotSize: pos}
}

// NewLayoutFromCatalog rebuilds a layout from pre-computed offsets and
// slot size, as read back from field_catalog/table_catalog.
func NewLayoutFromCatalog(schema *Schema, offsets map[string]int, slotSize int) *Layout {
	return &Layout{schema: schema, offsets: offsets, slotSize: slotSize}
}

func lengthInBytes(schema *Schema, field string) int {
	if schema.Type(field) == Integer {
		return 4
	}
	return file.MaxLength(schema.Length(field))
}

// Schema returns the underlying schema.
func (l *Layout) Schema() *Schema {
	return l.schema
}

// Offset returns field's byte offset within a slot.
func (l *Layout) Offset(field string) int {
	return l.offsets[field]
}

// SlotSize returns the total byte size of one slot.
func (l *Layout) SlotSize() int {
	return l.slotSize
}
