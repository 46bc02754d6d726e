package recovery

import (
	"github.com/coredb-project/coredb/internal/buffer"
	"github.com/coredb-project/coredb/internal/wal"
	"github.com/coredb-project/coredb/logger"
)

// Manager is the per-transaction, undo-only recovery manager (spec
// §4.6). On construction it writes a START record.
type Manager struct {
	lm    *wal.Manager
	bm    *buffer.Manager
	txnID int
}

// NewManager writes START(txnID) to the log and returns a manager bound
// to that transaction.
func NewManager(lm *wal.Manager, bm *buffer.Manager, txnID int) (*Manager, error) {
	if _, err := lm.Append(encodeTxnRecord(TagStart, txnID)); err != nil {
		return nil, err
	}
	return &Manager{lm: lm, bm: bm, txnID: txnID}, nil
}

// SetInt captures buf's current value at offset as an undo record,
// returning its LSN, before the transaction overwrites it.
func (m *Manager) SetInt(buf *buffer.Buffer, offset int) (int, error) {
	oldVal := buf.Contents().GetInt(offset)
	block := *buf.Block()
	return m.lm.Append(encodeSetInt(m.txnID, block, offset, oldVal))
}

// SetString captures buf's current value at offset as an undo record,
// returning its LSN, before the transaction overwrites it.
func (m *Manager) SetString(buf *buffer.Buffer, offset int) (int, error) {
	oldVal := buf.Contents().GetString(offset)
	block := *buf.Block()
	return m.lm.Append(encodeSetString(m.txnID, block, offset, oldVal))
}

// Commit flushes every buffer this transaction dirtied, then appends
// and flushes a COMMIT record (spec §4.6).
func (m *Manager) Commit() error {
	if err := m.bm.FlushAll(m.txnID); err != nil {
		return err
	}
	lsn, err := m.lm.Append(encodeTxnRecord(TagCommit, m.txnID))
	if err != nil {
		return err
	}
	logger.Infof("recovery: txn %d committed at lsn %d", m.txnID, lsn)
	return m.lm.Flush(lsn)
}

// Rollback walks the log newest-to-oldest, undoing every record owned by
// this transaction until its START record, then flushes and appends
// ROLLBACK (spec §4.6).
func (m *Manager) Rollback(target UndoTarget) error {
	if err := m.doRollback(target); err != nil {
		return err
	}
	if err := m.bm.FlushAll(m.txnID); err != nil {
		return err
	}
	lsn, err := m.lm.Append(encodeTxnRecord(TagRollback, m.txnID))
	if err != nil {
		return err
	}
	return m.lm.Flush(lsn)
}

func (m *Manager) doRollback(target UndoTarget) error {
	it, err := m.lm.Iterator()
	if err != nil {
		return err
	}
	for it.HasNext() {
		bytes, err := it.Next()
		if err != nil {
			return err
		}
		r := decode(bytes)
		if r.txnID != m.txnID {
			continue
		}
		if r.tag == TagStart {
			return nil
		}
		if err := r.undo(target); err != nil {
			return err
		}
	}
	return nil
}

// Recover performs restart recovery: walks the log newest-to-oldest,
// undoing every record belonging to a transaction without a COMMIT or
// ROLLBACK, stopping at the first CHECKPOINT or log end, then flushes
// and appends CHECKPOINT (spec §4.6).
func Recover(lm *wal.Manager, bm *buffer.Manager, txnID int, target UndoTarget) error {
	if err := doRecover(lm, target); err != nil {
		return err
	}
	if err := bm.FlushAll(txnID); err != nil {
		return err
	}
	lsn, err := lm.Append(encodeCheckpoint())
	if err != nil {
		return err
	}
	logger.Infof("recovery: restart recovery complete")
	return lm.Flush(lsn)
}

func doRecover(lm *wal.Manager, target UndoTarget) error {
	it, err := lm.Iterator()
	if err != nil {
		return err
	}
	finished := make(map[int]bool)
	for it.HasNext() {
		bytes, err := it.Next()
		if err != nil {
			return err
		}
		r := decode(bytes)
		if r.tag == TagCheckpoint {
			return nil
		}
		if r.tag == TagCommit || r.tag == TagRollback {
			finished[r.txnID] = true
			continue
		}
		if r.tag == TagStart {
			continue
		}
		if !finished[r.txnID] {
			if err := r.undo(target); err != nil {
				return err
			}
		}
	}
	return nil
}
