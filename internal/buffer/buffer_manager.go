package buffer

import (
	"sync"
	"time"

	"github.com/coredb-project/coredb/internal/dberrors"
	"github.com/coredb-project/coredb/internal/file"
	"github.com/coredb-project/coredb/internal/wal"
	"github.com/coredb-project/coredb/logger"
)

// MaxWait is the pin timeout (spec §4.3, default pin_timeout_ms=10000).
const MaxWait = 10 * time.Second

// Manager is a fixed-size array of frames. Pinning a block when the
// pool is full blocks on a condition variable up to MaxWait (spec §4.3).
type Manager struct {
	mu            sync.Mutex
	cond          *sync.Cond
	pool          []*Buffer
	numAvailable  int
	maxWait       time.Duration
}

// NewManager preallocates numBuffs frames against fm/lm.
func NewManager(fm *file.Manager, lm *wal.Manager, numBuffs int) *Manager {
	m := &Manager{
		pool:         make([]*Buffer, numBuffs),
		numAvailable: numBuffs,
		maxWait:      MaxWait,
	}
	m.cond = sync.NewCond(&m.mu)
	for i := range m.pool {
		m.pool[i] = newBuffer(fm, lm)
	}
	return m
}

// Available reports the number of unpinned frames.
func (m *Manager) Available() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.numAvailable
}

// FlushAll flushes every dirty frame modified by txnID (spec §4.3).
func (m *Manager) FlushAll(txnID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, buf := range m.pool {
		if buf.ModifyingTx() == txnID {
			if err := buf.flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Unpin decrements block's pin count and, if it drops to zero,
// increments availability and wakes all waiters.
func (m *Manager) Unpin(buf *Buffer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf.unpin()
	if !buf.IsPinned() {
		m.numAvailable++
		m.cond.Broadcast()
	}
}

// Pin binds block to a frame, waiting up to maxWait for one to become
// available. Returns dberrors.BufferAbort if no frame could be pinned
// in time (spec §4.3).
func (m *Manager) Pin(block file.BlockID) (*Buffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deadline := time.Now().Add(m.maxWait)
	buf, err := m.tryToPin(block)
	if err != nil {
		return nil, err
	}
	for buf == nil {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			logger.Errorf("buffer: pin timeout on block %s", block)
			return nil, dberrors.BufferAbort(block.String())
		}
		waitWithTimeout(m.cond, remaining)
		buf, err = m.tryToPin(block)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func (m *Manager) tryToPin(block file.BlockID) (*Buffer, error) {
	buf := m.findExistingBuffer(block)
	if buf == nil {
		buf = m.chooseUnpinnedBuffer()
		if buf == nil {
			return nil, nil
		}
		if err := buf.assignToBlock(block); err != nil {
			return nil, err
		}
	}
	wasUnpinned := !buf.IsPinned()
	if wasUnpinned {
		m.numAvailable--
	}
	buf.pin()
	return buf, nil
}

func (m *Manager) findExistingBuffer(block file.BlockID) *Buffer {
	for _, buf := range m.pool {
		if buf.Block() != nil && buf.Block().Equals(block) {
			return buf
		}
	}
	return nil
}

func (m *Manager) chooseUnpinnedBuffer() *Buffer {
	for _, buf := range m.pool {
		if !buf.IsPinned() {
			return buf
		}
	}
	return nil
}

// waitWithTimeout waits on cond for at most d before returning, mirroring
// the original's cv.wait_for bounded wait without a select-based signal
// channel (sync.Cond has no native timeout).
func waitWithTimeout(cond *sync.Cond, d time.Duration) {
	done := make(chan struct{})
	timer := time.AfterFunc(d, func() {
		cond.L.Lock()
		cond.Broadcast()
		cond.L.Unlock()
	})
	go func() {
		<-done
		timer.Stop()
	}()
	cond.Wait()
	close(done)
}
