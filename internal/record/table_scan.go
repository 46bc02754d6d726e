package record

import "github.com/coredb-project/coredb/internal/file"

// Transactor is the full transaction surface a table scan needs: typed
// I/O plus block lifecycle (pin/unpin/append/size).
type Transactor interface {
	txWriter
	Pin(block file.BlockID) error
	Unpin(block file.BlockID)
	Append(filename string) (file.BlockID, error)
	Size(filename string) (int, error)
}

// TableScan is an iterator-with-update interface over a file of record
// pages named "{table}.tbl" (spec §4.9).
type TableScan struct {
	tx          Transactor
	layout      *Layout
	filename    string
	rp          *Page
	currentSlot int
}

// NewTableScan opens (bootstrapping if empty) the table's file and
// positions the scan before the first record.
func NewTableScan(tx Transactor, tableName string, layout *Layout) (*TableScan, error) {
	ts := &TableScan{tx: tx, layout: layout, filename: tableName + ".tbl"}
	size, err := tx.Size(ts.filename)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		if err := ts.moveToNewBlock(); err != nil {
			return nil, err
		}
	} else {
		if err := ts.moveToBlock(0); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

// BeforeFirst resets the scan to its initial position.
func (ts *TableScan) BeforeFirst() error {
	return ts.moveToBlock(0)
}

// Next advances to the next record, returning false when exhausted.
func (ts *TableScan) Next() (bool, error) {
	for {
		next, err := ts.rp.NextAfter(ts.currentSlot)
		if err != nil {
			return false, err
		}
		ts.currentSlot = next
		if ts.currentSlot >= 0 {
			return true, nil
		}
		atLast, err := ts.atLastBlock()
		if err != nil {
			return false, err
		}
		if atLast {
			return false, nil
		}
		if err := ts.moveToBlock(ts.rp.Block().Number + 1); err != nil {
			return false, err
		}
	}
}

// GetInt reads field from the current record.
func (ts *TableScan) GetInt(field string) (int, error) {
	return ts.rp.GetInt(ts.currentSlot, field)
}

// GetString reads field from the current record.
func (ts *TableScan) GetString(field string) (string, error) {
	return ts.rp.GetString(ts.currentSlot, field)
}

// HasField reports whether field exists in this table's schema.
func (ts *TableScan) HasField(field string) bool {
	return ts.layout.Schema().HasField(field)
}

// Schema returns the table's schema, used by callers that need field
// type information (e.g. the query layer's Constant-typed GetVal).
func (ts *TableScan) Schema() *Schema {
	return ts.layout.Schema()
}

// SetInt writes field on the current record.
func (ts *TableScan) SetInt(field string, val int) error {
	return ts.rp.SetInt(ts.currentSlot, field, val)
}

// SetString writes field on the current record.
func (ts *TableScan) SetString(field string, val string) error {
	return ts.rp.SetString(ts.currentSlot, field, val)
}

// Insert finds or creates an empty slot and positions the scan on it.
func (ts *TableScan) Insert() error {
	for {
		newSlot, err := ts.rp.InsertAfter(ts.currentSlot)
		if err != nil {
			return err
		}
		ts.currentSlot = newSlot
		if ts.currentSlot >= 0 {
			return nil
		}
		atLast, err := ts.atLastBlock()
		if err != nil {
			return err
		}
		if atLast {
			if err := ts.moveToNewBlock(); err != nil {
				return err
			}
		} else {
			if err := ts.moveToBlock(ts.rp.Block().Number + 1); err != nil {
				return err
			}
		}
	}
}

// Delete marks the current record empty.
func (ts *TableScan) Delete() error {
	return ts.rp.Delete(ts.currentSlot)
}

// MoveToRID repositions the scan onto an exact record.
func (ts *TableScan) MoveToRID(rid RID) error {
	ts.Close()
	block := file.NewBlockID(ts.filename, rid.BlockNumber)
	if err := ts.tx.Pin(block); err != nil {
		return err
	}
	ts.rp = NewPage(ts.tx, block, ts.layout)
	ts.currentSlot = rid.Slot
	return nil
}

// GetRID returns the current record's identifier.
func (ts *TableScan) GetRID() RID {
	return NewRID(ts.rp.Block().Number, ts.currentSlot)
}

// Close unpins the currently held record-page block.
func (ts *TableScan) Close() {
	if ts.rp != nil {
		ts.tx.Unpin(ts.rp.Block())
		ts.rp = nil
	}
}

func (ts *TableScan) moveToBlock(blockNum int) error {
	ts.Close()
	block := file.NewBlockID(ts.filename, blockNum)
	if err := ts.tx.Pin(block); err != nil {
		return err
	}
	ts.rp = NewPage(ts.tx, block, ts.layout)
	ts.currentSlot = -1
	return nil
}

func (ts *TableScan) moveToNewBlock() error {
	ts.Close()
	block, err := ts.tx.Append(ts.filename)
	if err != nil {
		return err
	}
	if err := ts.tx.Pin(block); err != nil {
		return err
	}
	ts.rp = NewPage(ts.tx, block, ts.layout)
	if err := ts.rp.Format(); err != nil {
		return err
	}
	ts.currentSlot = -1
	return nil
}

func (ts *TableScan) atLastBlock() (bool, error) {
	size, err := ts.tx.Size(ts.filename)
	if err != nil {
		return false, err
	}
	return ts.rp.Block().Number == size-1, nil
}
