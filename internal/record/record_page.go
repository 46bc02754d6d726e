package record

import "github.com/coredb-project/coredb/internal/file"

// Slot flags, preserved literally per spec §9 ("Magic EMPTY=0/USED=1
// slot flag"): on-disk compatibility depends on these exact values.
const (
	FlagEmpty = 0
	FlagUsed  = 1
)

// txReader/txWriter is the minimal surface a record page needs from a
// transaction: typed, locked reads/writes of a pinned block.
type txReader interface {
	GetInt(block file.BlockID, offset int) (int, error)
	GetString(block file.BlockID, offset int) (string, error)
}

type txWriter interface {
	txReader
	SetInt(block file.BlockID, offset, val int, okToLog bool) error
	SetString(block file.BlockID, offset int, val string, okToLog bool) error
	BlockSize() int
}

// Page is a slotted record page: a sequence of floor(block_size/slot_size)
// fixed-size slots, each beginning with a 4-byte flag (spec §4.8).
type Page struct {
	tx     txWriter
	block  file.BlockID
	layout *Layout
}

// NewPage binds a record page to block under layout. The caller must
// have already pinned block on tx.
func NewPage(tx txWriter, block file.BlockID, layout *Layout) *Page {
	return &Page{tx: tx, block: block, layout: layout}
}

func (p *Page) offset(slot int) int {
	return slot * p.layout.SlotSize()
}

// IsValidSlot reports whether slot fits within one block.
func (p *Page) IsValidSlot(slot int) bool {
	return p.offset(slot+1) <= p.tx.BlockSize()
}

// GetInt reads an integer field from slot.
func (p *Page) GetInt(slot int, field string) (int, error) {
	return p.tx.GetInt(p.block, p.offset(slot)+p.layout.Offset(field))
}

// GetString reads a string field from slot.
func (p *Page) GetString(slot int, field string) (string, error) {
	return p.tx.GetString(p.block, p.offset(slot)+p.layout.Offset(field))
}

// SetInt writes an integer field into slot.
func (p *Page) SetInt(slot int, field string, val int) error {
	return p.tx.SetInt(p.block, p.offset(slot)+p.layout.Offset(field), val, true)
}

// SetString writes a string field into slot.
func (p *Page) SetString(slot int, field string, val string) error {
	return p.tx.SetString(p.block, p.offset(slot)+p.layout.Offset(field), val, true)
}

// Delete marks slot empty.
func (p *Page) Delete(slot int) error {
	return p.setFlag(slot, FlagEmpty)
}

func (p *Page) setFlag(slot, flag int) error {
	return p.tx.SetInt(p.block, p.offset(slot), flag, true)
}

func (p *Page) getFlag(slot int) (int, error) {
	return p.tx.GetInt(p.block, p.offset(slot))
}

// Format writes the EMPTY flag and zero/empty default field values into
// every slot, unlogged (spec §4.8).
func (p *Page) Format() error {
	slot := 0
	for p.IsValidSlot(slot) {
		if err := p.tx.SetInt(p.block, p.offset(slot), FlagEmpty, false); err != nil {
			return err
		}
		for _, field := range p.layout.Schema().Fields() {
			fieldPos := p.offset(slot) + p.layout.Offset(field)
			if p.layout.Schema().Type(field) == Integer {
				if err := p.tx.SetInt(p.block, fieldPos, 0, false); err != nil {
					return err
				}
			} else {
				if err := p.tx.SetString(p.block, fieldPos, "", false); err != nil {
					return err
				}
			}
		}
		slot++
	}
	return nil
}

// NextAfter scans forward for a USED slot, returning -1 if none remains.
func (p *Page) NextAfter(slot int) (int, error) {
	return p.searchAfter(slot, FlagUsed)
}

// InsertAfter scans forward for an EMPTY slot, marks it USED, and
// returns its index, or -1 if none remains.
func (p *Page) InsertAfter(slot int) (int, error) {
	newSlot, err := p.searchAfter(slot, FlagEmpty)
	if err != nil || newSlot < 0 {
		return newSlot, err
	}
	if err := p.setFlag(newSlot, FlagUsed); err != nil {
		return -1, err
	}
	return newSlot, nil
}

func (p *Page) searchAfter(slot, flag int) (int, error) {
	slot++
	for p.IsValidSlot(slot) {
		got, err := p.getFlag(slot)
		if err != nil {
			return -1, err
		}
		if got == flag {
			return slot, nil
		}
		slot++
	}
	return -1, nil
}

// Block returns the bound block.
func (p *Page) Block() file.BlockID {
	return p.block
}
