package btree

import (
	"github.com/coredb-project/coredb/internal/file"
	"github.com/coredb-project/coredb/internal/index"
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
)

// Leaf holds the contents of a B-tree leaf block, positioned
// immediately before the first record having searchKey, if any (spec
// §4.11).
type Leaf struct {
	tx          Transactor
	layout      *record.Layout
	searchKey   query.Constant
	contents    *Page
	currentSlot int
	filename    string
}

// NewLeaf opens block as a leaf page and positions before searchKey.
func NewLeaf(tx Transactor, block file.BlockID, layout *record.Layout, searchKey query.Constant) (*Leaf, error) {
	contents, err := NewPage(tx, block, layout)
	if err != nil {
		return nil, err
	}
	slot, err := contents.FindSlotBefore(searchKey)
	if err != nil {
		return nil, err
	}
	return &Leaf{
		tx: tx, layout: layout, searchKey: searchKey,
		contents: contents, currentSlot: slot, filename: block.Filename,
	}, nil
}

// Close unpins the leaf's current page.
func (l *Leaf) Close() {
	l.contents.Close()
}

// Next advances to the next leaf record matching the search key,
// following an overflow chain if necessary.
func (l *Leaf) Next() (bool, error) {
	l.currentSlot++
	n, err := l.contents.GetNumRecords()
	if err != nil {
		return false, err
	}
	if l.currentSlot < n {
		key, err := l.contents.GetKey(l.currentSlot)
		if err != nil {
			return false, err
		}
		if key.Equals(l.searchKey) {
			return true, nil
		}
	}
	return l.tryOverflow()
}

// GetRID returns the current record's RID.
func (l *Leaf) GetRID() (record.RID, error) {
	return l.contents.GetRID(l.currentSlot)
}

// Delete removes the leaf record matching rid.
func (l *Leaf) Delete(rid record.RID) error {
	for {
		ok, err := l.Next()
		if err != nil || !ok {
			return err
		}
		got, err := l.GetRID()
		if err != nil {
			return err
		}
		if got.Equals(rid) {
			return l.contents.Delete(l.currentSlot)
		}
	}
}

// Insert adds a record (searchKey, rid). If the page is full it splits
// and returns the directory entry for the new page (spec §4.11).
func (l *Leaf) Insert(rid record.RID) (*index.DirectoryEntry, error) {
	flag, err := l.contents.GetFlag()
	if err != nil {
		return nil, err
	}
	if flag >= 0 {
		firstKey, err := l.contents.GetKey(0)
		if err != nil {
			return nil, err
		}
		if l.searchKey.Less(firstKey) {
			// firstKey > searchKey: route all current records into an
			// overflow block and keep only the new record here.
			newBlock, err := l.contents.Split(0, flag)
			if err != nil {
				return nil, err
			}
			l.currentSlot = 0
			if err := l.contents.SetFlag(-1); err != nil {
				return nil, err
			}
			if err := l.contents.InsertLeaf(l.currentSlot, l.searchKey, rid); err != nil {
				return nil, err
			}
			return &index.DirectoryEntry{Key: firstKey, BlockNumber: newBlock.Number}, nil
		}
	}

	l.currentSlot++
	if err := l.contents.InsertLeaf(l.currentSlot, l.searchKey, rid); err != nil {
		return nil, err
	}
	full, err := l.contents.IsFull()
	if err != nil {
		return nil, err
	}
	if !full {
		return nil, nil
	}

	n, err := l.contents.GetNumRecords()
	if err != nil {
		return nil, err
	}
	firstKey, err := l.contents.GetKey(0)
	if err != nil {
		return nil, err
	}
	lastKey, err := l.contents.GetKey(n - 1)
	if err != nil {
		return nil, err
	}
	if lastKey.Equals(firstKey) {
		newBlock, err := l.contents.Split(1, flag)
		if err != nil {
			return nil, err
		}
		if err := l.contents.SetFlag(newBlock.Number); err != nil {
			return nil, err
		}
		return nil, nil
	}

	splitPos := n / 2
	splitKey, err := l.contents.GetKey(splitPos)
	if err != nil {
		return nil, err
	}
	if splitKey.Equals(firstKey) {
		for {
			k, err := l.contents.GetKey(splitPos)
			if err != nil {
				return nil, err
			}
			if !k.Equals(splitKey) {
				break
			}
			splitPos++
		}
		splitKey, err = l.contents.GetKey(splitPos)
		if err != nil {
			return nil, err
		}
	} else {
		for {
			k, err := l.contents.GetKey(splitPos - 1)
			if err != nil {
				return nil, err
			}
			if !k.Equals(splitKey) {
				break
			}
			splitPos--
		}
	}
	newBlock, err := l.contents.Split(splitPos, -1)
	if err != nil {
		return nil, err
	}
	return &index.DirectoryEntry{Key: splitKey, BlockNumber: newBlock.Number}, nil
}

func (l *Leaf) tryOverflow() (bool, error) {
	firstKey, err := l.contents.GetKey(0)
	if err != nil {
		return false, err
	}
	flag, err := l.contents.GetFlag()
	if err != nil {
		return false, err
	}
	if !l.searchKey.Equals(firstKey) || flag < 0 {
		return false, nil
	}
	l.contents.Close()
	nextBlock := file.NewBlockID(l.filename, flag)
	contents, err := NewPage(l.tx, nextBlock, l.layout)
	if err != nil {
		return false, err
	}
	l.contents = contents
	l.currentSlot = 0
	return true, nil
}
