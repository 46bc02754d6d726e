package record_test

import (
	"testing"

	"github.com/coredb-project/coredb/internal/record"
	"github.com/stretchr/testify/require"
)

func testSchema() *record.Schema {
	schema := record.NewSchema()
	schema.AddIntField("id")
	schema.AddStringField("name", 10)
	return schema
}

func TestLayoutAssignsOffsetsInSchemaOrder(t *testing.T) {
	layout := record.NewLayout(testSchema())

	require.Equal(t, 4, layout.Offset("id"))
	// "name" starts after the 4-byte flag and the 4-byte id; it takes a
	// 4-byte varchar length prefix plus 10 chars.
	require.Equal(t, 8, layout.Offset("name"))
	require.Equal(t, 8+4+10, layout.SlotSize())
}

func TestLayoutFromCatalogUsesSuppliedOffsets(t *testing.T) {
	schema := testSchema()
	offsets := map[string]int{"id": 4, "name": 100}
	layout := record.NewLayoutFromCatalog(schema, offsets, 200)

	require.Equal(t, 4, layout.Offset("id"))
	require.Equal(t, 100, layout.Offset("name"))
	require.Equal(t, 200, layout.SlotSize())
}

func TestSchemaAddAllCopiesFieldsAndTypes(t *testing.T) {
	src := testSchema()
	dst := record.NewSchema()
	dst.AddAll(src)

	require.Equal(t, src.Fields(), dst.Fields())
	require.Equal(t, record.Integer, dst.Type("id"))
	require.Equal(t, record.Varchar, dst.Type("name"))
	require.Equal(t, 10, dst.Length("name"))
}
