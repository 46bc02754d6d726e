package btree

import (
	"math"

	"github.com/coredb-project/coredb/internal/file"
	"github.com/coredb-project/coredb/internal/index"
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
)

// Index is a B+-tree implementation of index.Index: a directory file
// (rooted at block 0) and a leaf file (spec §4.11).
type Index struct {
	tx         Transactor
	dirLayout  *record.Layout
	leafLayout *record.Layout
	leafTable  string
	rootBlock  file.BlockID
	leaf       *Leaf
}

// NewIndex opens (creating if absent) the leaf and directory files for
// indexName.
func NewIndex(tx Transactor, indexName string, leafLayout *record.Layout) (*Index, error) {
	leafTable := indexName + "leaf"
	size, err := tx.Size(leafTable)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		block, err := tx.Append(leafTable)
		if err != nil {
			return nil, err
		}
		if err := tx.Pin(block); err != nil {
			return nil, err
		}
		err = FormatBlock(tx, block, leafLayout, -1)
		tx.Unpin(block)
		if err != nil {
			return nil, err
		}
	}

	dirSchema := record.NewSchema()
	dirSchema.Add("block", leafLayout.Schema())
	dirSchema.Add("key", leafLayout.Schema())
	dirLayout := record.NewLayout(dirSchema)

	directoryTable := indexName + "directory"
	rootBlock := file.NewBlockID(directoryTable, 0)
	dirSize, err := tx.Size(directoryTable)
	if err != nil {
		return nil, err
	}
	if dirSize == 0 {
		if _, err := tx.Append(directoryTable); err != nil {
			return nil, err
		}
		page, err := NewPage(tx, rootBlock, dirLayout)
		if err != nil {
			return nil, err
		}
		if err := FormatBlock(tx, rootBlock, dirLayout, 0); err != nil {
			page.Close()
			return nil, err
		}
		minKey := minKeyFor(dirSchema)
		if err := page.InsertDirectory(0, minKey, 0); err != nil {
			return nil, err
		}
		page.Close()
	}

	return &Index{tx: tx, dirLayout: dirLayout, leafLayout: leafLayout, leafTable: leafTable, rootBlock: rootBlock}, nil
}

func minKeyFor(schema *record.Schema) query.Constant {
	if schema.Type("key") == record.Integer {
		return query.NewIntConstant(math.MinInt32)
	}
	return query.NewStringConstant("")
}

// SearchCost estimates 1 + log_{records_per_block}(num_blocks) block
// accesses (spec §4.12).
func SearchCost(numBlocks, recordsPerBlock int) int {
	return 1 + int(math.Log(float64(numBlocks))/math.Log(float64(recordsPerBlock)))
}

// BeforeFirst traverses the directory to the leaf block for searchKey
// and positions just before the first matching record (spec §4.11).
func (idx *Index) BeforeFirst(searchKey query.Constant) error {
	idx.Close()
	root, err := NewDirectory(idx.tx, idx.rootBlock, idx.dirLayout)
	if err != nil {
		return err
	}
	blockNum, err := root.Search(searchKey)
	root.Close()
	if err != nil {
		return err
	}
	leafBlock := file.NewBlockID(idx.leafTable, blockNum)
	leaf, err := NewLeaf(idx.tx, leafBlock, idx.leafLayout, searchKey)
	if err != nil {
		return err
	}
	idx.leaf = leaf
	return nil
}

// Next advances to the next matching leaf record.
func (idx *Index) Next() (bool, error) {
	return idx.leaf.Next()
}

// GetDataRID returns the current leaf record's RID.
func (idx *Index) GetDataRID() (record.RID, error) {
	return idx.leaf.GetRID()
}

// Insert adds (key, rid), splitting the leaf and directory as needed,
// growing the root if the directory's root itself splits (spec §4.11).
func (idx *Index) Insert(key query.Constant, rid record.RID) error {
	if err := idx.BeforeFirst(key); err != nil {
		return err
	}
	entry, err := idx.leaf.Insert(rid)
	idx.leaf.Close()
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}
	root, err := NewDirectory(idx.tx, idx.rootBlock, idx.dirLayout)
	if err != nil {
		return err
	}
	entry2, err := root.Insert(*entry)
	if err != nil {
		root.Close()
		return err
	}
	if entry2 != nil {
		if err := root.MakeNewRoot(*entry2); err != nil {
			root.Close()
			return err
		}
	}
	root.Close()
	return nil
}

// Delete finds the leaf containing key and removes the (key, rid) record.
func (idx *Index) Delete(key query.Constant, rid record.RID) error {
	if err := idx.BeforeFirst(key); err != nil {
		return err
	}
	defer idx.leaf.Close()
	return idx.leaf.Delete(rid)
}

// Close releases the currently open leaf page, if any.
func (idx *Index) Close() {
	if idx.leaf != nil {
		idx.leaf.Close()
		idx.leaf = nil
	}
}

var _ index.Index = (*Index)(nil)
