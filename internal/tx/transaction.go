package tx

import (
	"sync/atomic"

	"github.com/coredb-project/coredb/internal/buffer"
	"github.com/coredb-project/coredb/internal/dberrors"
	"github.com/coredb-project/coredb/internal/file"
	"github.com/coredb-project/coredb/internal/tx/recovery"
	"github.com/coredb-project/coredb/internal/wal"
	"github.com/coredb-project/coredb/logger"
)

var nextTxnID int64

func nextTxnNumber() int {
	return int(atomic.AddInt64(&nextTxnID, 1))
}

// Transaction orchestrates buffer pinning, lock acquisition, logging and
// typed reads/writes on behalf of one logical unit of work (spec C8).
// Its id is a process-unique, monotonically increasing counter that is
// not persisted: after restart it begins again at 1, so log records may
// share ids with later transactions. Recovery tolerates this because it
// only scans back to the first CHECKPOINT (spec §9 open question).
type Transaction struct {
	id       int
	fm       *file.Manager
	lm       *wal.Manager
	bm       *buffer.Manager
	buffers  *bufferList
	cm       *ConcurrencyManager
	recovery *recovery.Manager
}

// New starts a new transaction, writing its START record immediately.
func New(fm *file.Manager, lm *wal.Manager, bm *buffer.Manager, lockTbl *LockTable) (*Transaction, error) {
	id := nextTxnNumber()
	t := &Transaction{
		id:      id,
		fm:      fm,
		lm:      lm,
		bm:      bm,
		buffers: newBufferList(bm),
		cm:      newConcurrencyManager(lockTbl),
	}
	rm, err := recovery.NewManager(lm, bm, id)
	if err != nil {
		return nil, err
	}
	t.recovery = rm
	return t, nil
}

// ID returns this transaction's process-unique identifier.
func (t *Transaction) ID() int {
	return t.id
}

// Pin declares that the transaction needs block's frame to remain
// resident. A transaction may pin the same block multiple times.
func (t *Transaction) Pin(block file.BlockID) error {
	return t.buffers.pin(block)
}

// Unpin releases one pin on block.
func (t *Transaction) Unpin(block file.BlockID) {
	t.buffers.unpin(block)
}

// GetInt S-locks block and reads the int at offset from the pinned
// buffer. Fails if the transaction has not previously pinned block.
func (t *Transaction) GetInt(block file.BlockID, offset int) (int, error) {
	if err := t.cm.SLock(block); err != nil {
		return 0, err
	}
	buf := t.buffers.getBuffer(block)
	if buf == nil {
		return 0, dberrors.Corruption("get_int on unpinned block "+block.String(), nil)
	}
	return buf.Contents().GetInt(offset), nil
}

// GetString S-locks block and reads the string at offset from the
// pinned buffer. Fails if the transaction has not previously pinned block.
func (t *Transaction) GetString(block file.BlockID, offset int) (string, error) {
	if err := t.cm.SLock(block); err != nil {
		return "", err
	}
	buf := t.buffers.getBuffer(block)
	if buf == nil {
		return "", dberrors.Corruption("get_string on unpinned block "+block.String(), nil)
	}
	return buf.Contents().GetString(offset), nil
}

// SetInt X-locks block and writes val at offset. If okToLog, the
// current value is first captured in a SETINT undo record. Otherwise
// the write is unlogged (page formatting, undo replay) and the buffer
// is marked modified with lsn -1 (spec §4.7).
func (t *Transaction) SetInt(block file.BlockID, offset, val int, okToLog bool) error {
	if err := t.cm.XLock(block); err != nil {
		return err
	}
	buf := t.buffers.getBuffer(block)
	if buf == nil {
		return dberrors.Corruption("set_int on unpinned block "+block.String(), nil)
	}
	lsn := -1
	if okToLog {
		var err error
		lsn, err = t.recovery.SetInt(buf, offset)
		if err != nil {
			return err
		}
	}
	buf.Contents().SetInt(offset, val)
	buf.SetModified(t.id, lsn)
	return nil
}

// SetString X-locks block and writes val at offset, analogous to SetInt.
func (t *Transaction) SetString(block file.BlockID, offset int, val string, okToLog bool) error {
	if err := t.cm.XLock(block); err != nil {
		return err
	}
	buf := t.buffers.getBuffer(block)
	if buf == nil {
		return dberrors.Corruption("set_string on unpinned block "+block.String(), nil)
	}
	lsn := -1
	if okToLog {
		var err error
		lsn, err = t.recovery.SetString(buf, offset)
		if err != nil {
			return err
		}
	}
	buf.Contents().SetString(offset, val)
	buf.SetModified(t.id, lsn)
	return nil
}

// Size S-locks the synthetic end-of-file block for filename and returns
// its current length in blocks.
func (t *Transaction) Size(filename string) (int, error) {
	eof := file.NewBlockID(filename, file.EndOfFile)
	if err := t.cm.SLock(eof); err != nil {
		return 0, err
	}
	return t.fm.Length(filename)
}

// Append X-locks the synthetic end-of-file block for filename and
// extends the file by one block.
func (t *Transaction) Append(filename string) (file.BlockID, error) {
	eof := file.NewBlockID(filename, file.EndOfFile)
	if err := t.cm.XLock(eof); err != nil {
		return file.BlockID{}, err
	}
	return t.fm.Append(filename)
}

// BlockSize returns the configured block size.
func (t *Transaction) BlockSize() int {
	return t.fm.BlockSize()
}

// Commit invokes the recovery manager, releases every lock, and unpins
// every buffer this transaction held (spec §4.7).
func (t *Transaction) Commit() error {
	if err := t.recovery.Commit(); err != nil {
		return err
	}
	t.cm.Release()
	t.buffers.unpinAll()
	logger.Infof("tx %d: committed", t.id)
	return nil
}

// Rollback invokes the recovery manager's undo walk, releases every
// lock, and unpins every buffer this transaction held (spec §4.7).
func (t *Transaction) Rollback() error {
	if err := t.recovery.Rollback(t); err != nil {
		return err
	}
	t.cm.Release()
	t.buffers.unpinAll()
	logger.Infof("tx %d: rolled back", t.id)
	return nil
}

// Recover runs restart recovery. It must be invoked exactly once at
// startup, before any other transaction.
func Recover(fm *file.Manager, lm *wal.Manager, bm *buffer.Manager, lockTbl *LockTable) error {
	bootstrap, err := New(fm, lm, bm, lockTbl)
	if err != nil {
		return err
	}
	if err := recovery.Recover(lm, bm, bootstrap.id, bootstrap); err != nil {
		return err
	}
	bootstrap.cm.Release()
	bootstrap.buffers.unpinAll()
	return nil
}

// PinForUndo, UnpinForUndo, SetIntForUndo and SetStringForUndo implement
// recovery.UndoTarget so the recovery manager can replay undo records
// against this transaction without the recovery package importing tx
// (which would create an import cycle).
func (t *Transaction) PinForUndo(block file.BlockID) error {
	return t.Pin(block)
}

func (t *Transaction) UnpinForUndo(block file.BlockID) {
	t.Unpin(block)
}

func (t *Transaction) SetIntForUndo(block file.BlockID, offset, val int) error {
	return t.SetInt(block, offset, val, false)
}

func (t *Transaction) SetStringForUndo(block file.BlockID, offset int, val string) error {
	return t.SetString(block, offset, val, false)
}
