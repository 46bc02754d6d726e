package metadata

import (
	"github.com/coredb-project/coredb/internal/index"
	"github.com/coredb-project/coredb/internal/index/btree"
	"github.com/coredb-project/coredb/internal/record"
)

// IndexInfo carries cost-estimation metadata about one index, used by
// the query planner to decide whether an index is worth using and to
// obtain the index record layout (spec §4.12), grounded on
// original_source/src/metadata/index_info.h/.cpp.
type IndexInfo struct {
	indexName   string
	fieldName   string
	tx          btree.Transactor
	tableSchema *record.Schema
	indexLayout *record.Layout
	statInfo    StatInfo
}

// NewIndexInfo builds the index record layout for fieldName over
// tableSchema and captures tx/statInfo for later cost estimates.
func NewIndexInfo(indexName, fieldName string, tableSchema *record.Schema, tx btree.Transactor, statInfo StatInfo) *IndexInfo {
	info := &IndexInfo{indexName: indexName, fieldName: fieldName, tx: tx, tableSchema: tableSchema, statInfo: statInfo}
	info.indexLayout = info.createIndexLayout()
	return info
}

// Open returns a B+-tree Index.Index bound to this index's storage
// (spec §4.11: SimpleDB backs every declared index with a B-tree).
func (i *IndexInfo) Open() (index.Index, error) {
	return btree.NewIndex(i.tx, i.indexName, i.indexLayout)
}

// BlocksAccessed estimates the block accesses needed to search this
// index for one key, via the B-tree's SearchCost formula.
func (i *IndexInfo) BlocksAccessed() int {
	recordsPerBlock := i.tx.BlockSize() / i.indexLayout.SlotSize()
	if recordsPerBlock == 0 {
		recordsPerBlock = 1
	}
	numBlocks := i.statInfo.RecordsOutput() / recordsPerBlock
	if numBlocks < 1 {
		numBlocks = 1
	}
	return btree.SearchCost(numBlocks, recordsPerBlock)
}

// RecordsOutput estimates the number of records matching one search
// key: the table's record count divided by the indexed field's
// distinct-value estimate.
func (i *IndexInfo) RecordsOutput() int {
	distinct := i.statInfo.DistinctValues(i.fieldName)
	if distinct == 0 {
		distinct = 1
	}
	return i.statInfo.RecordsOutput() / distinct
}

// DistinctValues returns 1 for the indexed field itself (a lookup
// pins it to a single value) and the table's estimate otherwise.
func (i *IndexInfo) DistinctValues(fieldName string) int {
	if i.fieldName == fieldName {
		return 1
	}
	return i.statInfo.DistinctValues(i.fieldName)
}

// createIndexLayout builds the (block, id, key) schema backing
// this index's B-tree leaves.
func (i *IndexInfo) createIndexLayout() *record.Layout {
	schema := record.NewSchema()
	schema.AddIntField("block")
	schema.AddIntField("id")
	if i.tableSchema.Type(i.fieldName) == record.Integer {
		schema.AddIntField("key")
	} else {
		schema.AddStringField("key", i.tableSchema.Length(i.fieldName))
	}
	return record.NewLayout(schema)
}
