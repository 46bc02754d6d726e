// Package buffer implements the buffer pool (spec C4), grounded on
// original_source/src/buffer/buffer.h/.cpp and buffer_manager.h/.cpp,
// with the teacher's BufferPool (server/innodb/buffer_pool/buffer_pool.go)
// as the Go-idiom reference for pool-wide locking and replacement state.
package buffer

import (
	"github.com/coredb-project/coredb/internal/file"
	"github.com/coredb-project/coredb/internal/wal"
)

// Buffer is one frame: a page optionally bound to a block, with pin
// count, modifying transaction, and last-written LSN (spec §3).
type Buffer struct {
	fm  *file.Manager
	lm  *wal.Manager

	contents     *file.Page
	block        *file.BlockID
	pins         int
	modifyingTxn int
	lsn          int
}

func newBuffer(fm *file.Manager, lm *wal.Manager) *Buffer {
	return &Buffer{
		fm:           fm,
		lm:           lm,
		contents:     file.NewPage(fm.BlockSize()),
		modifyingTxn: -1,
		lsn:          -1,
	}
}

// Contents returns the frame's page for direct typed I/O.
func (b *Buffer) Contents() *file.Page {
	return b.contents
}

// Block returns the block currently bound to this frame, or nil if
// unbound.
func (b *Buffer) Block() *file.BlockID {
	return b.block
}

// IsPinned reports whether the frame is currently pinned.
func (b *Buffer) IsPinned() bool {
	return b.pins > 0
}

// ModifyingTx reports the transaction that last modified this frame, or
// -1 if clean.
func (b *Buffer) ModifyingTx() int {
	return b.modifyingTxn
}

// SetModified records that txnID modified this frame's content at lsn.
// lsn < 0 suppresses the LSN update, used when logging is disabled
// (page formatting, undo writes) per spec §4.7.
func (b *Buffer) SetModified(txnID, lsn int) {
	b.modifyingTxn = txnID
	if lsn >= 0 {
		b.lsn = lsn
	}
}

func (b *Buffer) pin() {
	b.pins++
}

func (b *Buffer) unpin() {
	b.pins--
}

// assignToBlock flushes any dirty content, then rebinds the frame to
// block and loads its content, resetting the pin count to zero
// (spec §4.3 "Rebind").
func (b *Buffer) assignToBlock(block file.BlockID) error {
	if err := b.flush(); err != nil {
		return err
	}
	b.block = &block
	if err := b.fm.Read(block, b.contents); err != nil {
		return err
	}
	b.pins = 0
	return nil
}

// flush forces the log up to this frame's LSN (WAL) before writing the
// frame's content to disk, per the WAL invariant of spec §4.3/§5.
func (b *Buffer) flush() error {
	if b.modifyingTxn < 0 {
		return nil
	}
	if err := b.lm.Flush(b.lsn); err != nil {
		return err
	}
	if err := b.fm.Write(*b.block, b.contents); err != nil {
		return err
	}
	b.modifyingTxn = -1
	return nil
}
