// Package btree implements the B+-tree index (part of spec C14),
// grounded on original_source/src/index/btree/btree_page.h/.cpp,
// btree_leaf.h/.cpp, btree_directory.h/.cpp, btree_index.h/.cpp and
// directory_entry.h.
package btree

import (
	"github.com/coredb-project/coredb/internal/file"
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
)

// Transactor is the transaction surface a B-tree page needs.
type Transactor interface {
	GetInt(block file.BlockID, offset int) (int, error)
	GetString(block file.BlockID, offset int) (string, error)
	SetInt(block file.BlockID, offset, val int, okToLog bool) error
	SetString(block file.BlockID, offset int, val string, okToLog bool) error
	Pin(block file.BlockID) error
	Unpin(block file.BlockID)
	Append(filename string) (file.BlockID, error)
	Size(filename string) (int, error)
	BlockSize() int
}

// Page holds functionality common to B-tree directory and leaf pages:
// sorted, slotted records that split when full (spec §4.11).
// The int at byte 0 stores a flag and the int at byte 4 stores
// num_records; record slots, numbered from 0, start at byte 8 and store
// (key, block/rid) tuples.
type Page struct {
	tx      Transactor
	block   file.BlockID
	layout  *record.Layout
}

// NewPage pins block and wraps it as a B-tree page under layout.
func NewPage(tx Transactor, block file.BlockID, layout *record.Layout) (*Page, error) {
	if err := tx.Pin(block); err != nil {
		return nil, err
	}
	return &Page{tx: tx, block: block, layout: layout}, nil
}

// FindSlotBefore returns the slot immediately before the first record
// whose key is >= searchKey.
func (p *Page) FindSlotBefore(searchKey query.Constant) (int, error) {
	slot := 0
	n, err := p.GetNumRecords()
	if err != nil {
		return 0, err
	}
	for slot < n {
		key, err := p.GetKey(slot)
		if err != nil {
			return 0, err
		}
		if !key.Less(searchKey) {
			break
		}
		slot++
	}
	return slot - 1, nil
}

// Close unpins the page's block.
func (p *Page) Close() {
	p.tx.Unpin(p.block)
}

// IsFull reports whether one more record would overflow the block.
func (p *Page) IsFull() (bool, error) {
	n, err := p.GetNumRecords()
	if err != nil {
		return false, err
	}
	return p.slotPosition(n+1) >= p.tx.BlockSize(), nil
}

// Split appends a new block with the given flag, transfers every record
// from splitPos onward into it, and returns its block id.
func (p *Page) Split(splitPos, flag int) (file.BlockID, error) {
	newBlock, err := p.appendNew(flag)
	if err != nil {
		return file.BlockID{}, err
	}
	newPage, err := NewPage(p.tx, newBlock, p.layout)
	if err != nil {
		return file.BlockID{}, err
	}
	if err := p.transferRecords(splitPos, newPage); err != nil {
		return file.BlockID{}, err
	}
	if err := newPage.SetFlag(flag); err != nil {
		return file.BlockID{}, err
	}
	newPage.Close()
	return newBlock, nil
}

// GetKey returns the "key" field of slot.
func (p *Page) GetKey(slot int) (query.Constant, error) {
	return p.getVal(slot, "key")
}

// GetFlag returns the page's flag field.
func (p *Page) GetFlag() (int, error) {
	return p.tx.GetInt(p.block, 0)
}

// SetFlag sets the page's flag field.
func (p *Page) SetFlag(val int) error {
	return p.tx.SetInt(p.block, 0, val, true)
}

func (p *Page) appendNew(flag int) (file.BlockID, error) {
	block, err := p.tx.Append(p.block.Filename)
	if err != nil {
		return file.BlockID{}, err
	}
	if err := p.tx.Pin(block); err != nil {
		return file.BlockID{}, err
	}
	if err := FormatBlock(p.tx, block, p.layout, flag); err != nil {
		return file.BlockID{}, err
	}
	return block, nil
}

// FormatBlock writes flag into block, zeroes num_records, and writes
// default values into every slot that fits (spec §4.11). Exported so BTreeIndex can
// format the very first leaf/directory root blocks on creation.
func FormatBlock(tx Transactor, block file.BlockID, layout *record.Layout, flag int) error {
	if err := tx.SetInt(block, 0, flag, false); err != nil {
		return err
	}
	if err := tx.SetInt(block, 4, 0, false); err != nil {
		return err
	}
	recordSize := layout.SlotSize()
	for pos := 8; pos+recordSize <= tx.BlockSize(); pos += recordSize {
		if err := makeDefaultRecord(tx, block, layout, pos); err != nil {
			return err
		}
	}
	return nil
}

func makeDefaultRecord(tx Transactor, block file.BlockID, layout *record.Layout, pos int) error {
	for _, field := range layout.Schema().Fields() {
		offset := layout.Offset(field)
		if layout.Schema().Type(field) == record.Integer {
			if err := tx.SetInt(block, pos+offset, 0, false); err != nil {
				return err
			}
		} else {
			if err := tx.SetString(block, pos+offset, "", false); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetChildNum returns the child block number stored at slot (directory
// pages only).
func (p *Page) GetChildNum(slot int) (int, error) {
	return p.getInt(slot, "block")
}

// InsertDirectory inserts a (key, blockNum) directory entry at slot.
func (p *Page) InsertDirectory(slot int, key query.Constant, blockNum int) error {
	if err := p.insertSlot(slot); err != nil {
		return err
	}
	if err := p.setVal(slot, "key", key); err != nil {
		return err
	}
	return p.setInt(slot, "block", blockNum)
}

// GetRID returns the RID stored at slot (leaf pages only).
func (p *Page) GetRID(slot int) (record.RID, error) {
	blockNum, err := p.getInt(slot, "block")
	if err != nil {
		return record.RID{}, err
	}
	id, err := p.getInt(slot, "id")
	if err != nil {
		return record.RID{}, err
	}
	return record.NewRID(blockNum, id), nil
}

// InsertLeaf inserts a (key, rid) leaf entry at slot.
func (p *Page) InsertLeaf(slot int, key query.Constant, rid record.RID) error {
	if err := p.insertSlot(slot); err != nil {
		return err
	}
	if err := p.setVal(slot, "key", key); err != nil {
		return err
	}
	if err := p.setInt(slot, "block", rid.BlockNumber); err != nil {
		return err
	}
	return p.setInt(slot, "id", rid.Slot)
}

// Delete removes slot, shifting later records down.
func (p *Page) Delete(slot int) error {
	n, err := p.GetNumRecords()
	if err != nil {
		return err
	}
	for i := slot + 1; i < n; i++ {
		if err := p.copyRecord(i, i-1); err != nil {
			return err
		}
	}
	return p.setNumRecords(n - 1)
}

// GetNumRecords returns the page's record count.
func (p *Page) GetNumRecords() (int, error) {
	return p.tx.GetInt(p.block, 4)
}

func (p *Page) getInt(slot int, field string) (int, error) {
	return p.tx.GetInt(p.block, p.fieldPosition(slot, field))
}

func (p *Page) getString(slot int, field string) (string, error) {
	return p.tx.GetString(p.block, p.fieldPosition(slot, field))
}

func (p *Page) getVal(slot int, field string) (query.Constant, error) {
	if p.layout.Schema().Type(field) == record.Integer {
		v, err := p.getInt(slot, field)
		if err != nil {
			return query.Constant{}, err
		}
		return query.NewIntConstant(v), nil
	}
	v, err := p.getString(slot, field)
	if err != nil {
		return query.Constant{}, err
	}
	return query.NewStringConstant(v), nil
}

func (p *Page) setInt(slot int, field string, val int) error {
	return p.tx.SetInt(p.block, p.fieldPosition(slot, field), val, true)
}

func (p *Page) setString(slot int, field, val string) error {
	return p.tx.SetString(p.block, p.fieldPosition(slot, field), val, true)
}

func (p *Page) setVal(slot int, field string, val query.Constant) error {
	if p.layout.Schema().Type(field) == record.Integer {
		return p.setInt(slot, field, val.AsInt())
	}
	return p.setString(slot, field, val.AsString())
}

func (p *Page) setNumRecords(n int) error {
	return p.tx.SetInt(p.block, 4, n, true)
}

func (p *Page) insertSlot(slot int) error {
	n, err := p.GetNumRecords()
	if err != nil {
		return err
	}
	for i := n; i > slot; i-- {
		if err := p.copyRecord(i-1, i); err != nil {
			return err
		}
	}
	return p.setNumRecords(n + 1)
}

func (p *Page) copyRecord(from, to int) error {
	for _, field := range p.layout.Schema().Fields() {
		val, err := p.getVal(from, field)
		if err != nil {
			return err
		}
		if err := p.setVal(to, field, val); err != nil {
			return err
		}
	}
	return nil
}

func (p *Page) transferRecords(slot int, dest *Page) error {
	destSlot := 0
	for {
		n, err := p.GetNumRecords()
		if err != nil {
			return err
		}
		if slot >= n {
			break
		}
		if err := dest.insertSlot(destSlot); err != nil {
			return err
		}
		for _, field := range p.layout.Schema().Fields() {
			val, err := p.getVal(slot, field)
			if err != nil {
				return err
			}
			if err := dest.setVal(destSlot, field, val); err != nil {
				return err
			}
		}
		if err := p.Delete(slot); err != nil {
			return err
		}
		destSlot++
	}
	return nil
}

func (p *Page) fieldPosition(slot int, field string) int {
	return p.slotPosition(slot) + p.layout.Offset(field)
}

func (p *Page) slotPosition(slot int) int {
	return 8 + slot*p.layout.SlotSize()
}
