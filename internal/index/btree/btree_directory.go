package btree

import (
	"github.com/coredb-project/coredb/internal/file"
	"github.com/coredb-project/coredb/internal/index"
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
)

// Directory holds one B-tree directory block. Level 0 is immediately
// above the leaves (spec §4.11).
type Directory struct {
	tx       Transactor
	layout   *record.Layout
	contents *Page
	filename string
}

// NewDirectory opens block as a directory page.
func NewDirectory(tx Transactor, block file.BlockID, layout *record.Layout) (*Directory, error) {
	contents, err := NewPage(tx, block, layout)
	if err != nil {
		return nil, err
	}
	return &Directory{tx: tx, layout: layout, contents: contents, filename: block.Filename}, nil
}

// Close unpins the directory's current page.
func (d *Directory) Close() {
	d.contents.Close()
}

// Search walks down the directory levels to the leaf block number
// containing searchKey.
func (d *Directory) Search(searchKey query.Constant) (int, error) {
	childBlock, err := d.findChildBlock(searchKey)
	if err != nil {
		return 0, err
	}
	for {
		flag, err := d.contents.GetFlag()
		if err != nil {
			return 0, err
		}
		if flag <= 0 {
			break
		}
		d.contents.Close()
		contents, err := NewPage(d.tx, childBlock, d.layout)
		if err != nil {
			return 0, err
		}
		d.contents = contents
		childBlock, err = d.findChildBlock(searchKey)
		if err != nil {
			return 0, err
		}
	}
	return childBlock.Number, nil
}

// MakeNewRoot transfers the old root's contents to a new block, then
// writes two entries (old root, entry) at block 0 and bumps the level.
func (d *Directory) MakeNewRoot(entry index.DirectoryEntry) error {
	firstKey, err := d.contents.GetKey(0)
	if err != nil {
		return err
	}
	level, err := d.contents.GetFlag()
	if err != nil {
		return err
	}
	newBlock, err := d.contents.Split(0, level)
	if err != nil {
		return err
	}
	oldRoot := index.DirectoryEntry{Key: firstKey, BlockNumber: newBlock.Number}
	if _, err := d.insertEntry(oldRoot); err != nil {
		return err
	}
	if _, err := d.insertEntry(entry); err != nil {
		return err
	}
	return d.contents.SetFlag(level + 1)
}

// Insert recurses to the appropriate child, propagating a split entry
// upward if one results.
func (d *Directory) Insert(entry index.DirectoryEntry) (*index.DirectoryEntry, error) {
	flag, err := d.contents.GetFlag()
	if err != nil {
		return nil, err
	}
	if flag == 0 {
		return d.insertEntry(entry)
	}
	childBlock, err := d.findChildBlock(entry.Key)
	if err != nil {
		return nil, err
	}
	child, err := NewDirectory(d.tx, childBlock, d.layout)
	if err != nil {
		return nil, err
	}
	result, err := child.Insert(entry)
	child.Close()
	if err != nil || result == nil {
		return nil, err
	}
	return d.insertEntry(*result)
}

func (d *Directory) insertEntry(entry index.DirectoryEntry) (*index.DirectoryEntry, error) {
	before, err := d.contents.FindSlotBefore(entry.Key)
	if err != nil {
		return nil, err
	}
	newSlot := before + 1
	if err := d.contents.InsertDirectory(newSlot, entry.Key, entry.BlockNumber); err != nil {
		return nil, err
	}
	full, err := d.contents.IsFull()
	if err != nil {
		return nil, err
	}
	if !full {
		return nil, nil
	}
	level, err := d.contents.GetFlag()
	if err != nil {
		return nil, err
	}
	n, err := d.contents.GetNumRecords()
	if err != nil {
		return nil, err
	}
	splitPos := n / 2
	splitKey, err := d.contents.GetKey(splitPos)
	if err != nil {
		return nil, err
	}
	newBlock, err := d.contents.Split(splitPos, level)
	if err != nil {
		return nil, err
	}
	return &index.DirectoryEntry{Key: splitKey, BlockNumber: newBlock.Number}, nil
}

func (d *Directory) findChildBlock(searchKey query.Constant) (file.BlockID, error) {
	slot, err := d.contents.FindSlotBefore(searchKey)
	if err != nil {
		return file.BlockID{}, err
	}
	n, err := d.contents.GetNumRecords()
	if err != nil {
		return file.BlockID{}, err
	}
	if slot+1 < n {
		key, err := d.contents.GetKey(slot + 1)
		if err != nil {
			return file.BlockID{}, err
		}
		if key.Equals(searchKey) {
			slot++
		}
	}
	blockNum, err := d.contents.GetChildNum(slot)
	if err != nil {
		return file.BlockID{}, err
	}
	return file.NewBlockID(d.filename, blockNum), nil
}
