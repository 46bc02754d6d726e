package tx

import (
	"github.com/coredb-project/coredb/internal/buffer"
	"github.com/coredb-project/coredb/internal/file"
)

// bufferList tracks a transaction's pinned blocks, with a per-block pin
// count so a single transaction may pin the same block multiple times
// (spec §4.7).
type bufferList struct {
	bm      *buffer.Manager
	buffers map[file.BlockID]*buffer.Buffer
	pins    map[file.BlockID]int
}

func newBufferList(bm *buffer.Manager) *bufferList {
	return &bufferList{
		bm:      bm,
		buffers: make(map[file.BlockID]*buffer.Buffer),
		pins:    make(map[file.BlockID]int),
	}
}

func (bl *bufferList) getBuffer(block file.BlockID) *buffer.Buffer {
	return bl.buffers[block]
}

func (bl *bufferList) pin(block file.BlockID) error {
	buf, err := bl.bm.Pin(block)
	if err != nil {
		return err
	}
	bl.buffers[block] = buf
	bl.pins[block]++
	return nil
}

func (bl *bufferList) unpin(block file.BlockID) {
	buf, ok := bl.buffers[block]
	if !ok {
		return
	}
	bl.bm.Unpin(buf)
	bl.pins[block]--
	if bl.pins[block] <= 0 {
		delete(bl.buffers, block)
		delete(bl.pins, block)
	}
}

func (bl *bufferList) unpinAll() {
	for block, buf := range bl.buffers {
		for i := 0; i < bl.pins[block]; i++ {
			bl.bm.Unpin(buf)
		}
	}
	bl.buffers = make(map[file.BlockID]*buffer.Buffer)
	bl.pins = make(map[file.BlockID]int)
}
