// Package wal implements the write-ahead log manager (spec C3),
// grounded on original_source/src/log/log_manager.h/.cpp. Named "wal"
// rather than "log" to avoid colliding with the ambient logger package.
package wal

import (
	"sync"

	"github.com/coredb-project/coredb/internal/dberrors"
	"github.com/coredb-project/coredb/internal/file"
	"github.com/coredb-project/coredb/logger"
)

// Manager appends variable-size records into log blocks right-to-left
// and flushes by LSN (spec §4.2). A single mutex guards append and flush.
type Manager struct {
	mu           sync.Mutex
	fm           *file.Manager
	logFile      string
	logPage      *file.Page
	currentBlock file.BlockID
	latestLSN    int
	lastSavedLSN int
}

// NewManager opens (or creates) logFile as the log manager's backing
// store. If the file is empty, a fresh block is appended; otherwise the
// existing tail block is loaded into memory.
func NewManager(fm *file.Manager, logFile string) (*Manager, error) {
	m := &Manager{
		fm:      fm,
		logFile: logFile,
		logPage: file.NewPage(fm.BlockSize()),
	}

	logSize, err := fm.Length(logFile)
	if err != nil {
		return nil, err
	}
	if logSize == 0 {
		block, err := m.appendNewBlock()
		if err != nil {
			return nil, err
		}
		m.currentBlock = block
	} else {
		m.currentBlock = file.NewBlockID(logFile, logSize-1)
		if err := fm.Read(m.currentBlock, m.logPage); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Flush forces the log up to lsn to disk, if it has not already been
// saved (spec §4.2).
func (m *Manager) Flush(lsn int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushIfNeeded(lsn)
}

func (m *Manager) flushIfNeeded(lsn int) error {
	if lsn > m.lastSavedLSN {
		return m.flushLocked()
	}
	return nil
}

func (m *Manager) flushLocked() error {
	if err := m.fm.Write(m.currentBlock, m.logPage); err != nil {
		return err
	}
	m.lastSavedLSN = m.latestLSN
	return nil
}

// Append writes record to the log, packing records from the high end of
// the current block downward, and returns the assigned LSN (spec §4.2).
func (m *Manager) Append(record []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	boundary := m.logPage.GetInt(0)
	recordSize := len(record)
	needed := recordSize + 4
	if boundary-needed < 4 {
		// Not enough room left in this block: flush it and start a new one.
		if err := m.flushLocked(); err != nil {
			return 0, err
		}
		block, err := m.appendNewBlock()
		if err != nil {
			return 0, err
		}
		m.currentBlock = block
		boundary = m.logPage.GetInt(0)
	}

	recordPos := boundary - needed
	m.logPage.SetBytes(recordPos, record)
	m.logPage.SetInt(0, recordPos)
	m.latestLSN++
	logger.Debugf("wal: appended record at lsn %d, block %s", m.latestLSN, m.currentBlock)
	return m.latestLSN, nil
}

// appendNewBlock extends the log file by one block, formats its
// boundary to block_size, and writes it immediately.
func (m *Manager) appendNewBlock() (file.BlockID, error) {
	block, err := m.fm.Append(m.logFile)
	if err != nil {
		return file.BlockID{}, err
	}
	m.logPage.SetInt(0, m.fm.BlockSize())
	if err := m.fm.Write(block, m.logPage); err != nil {
		return file.BlockID{}, err
	}
	return block, nil
}

// Iterator produces every log record newest-first, starting from a
// force-flushed view of the tail block (spec §4.2).
func (m *Manager) Iterator() (*Iterator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.flushLocked(); err != nil {
		return nil, err
	}
	return newIterator(m.fm, m.currentBlock)
}

// Iterator walks the log newest-first. Finite; not restartable.
type Iterator struct {
	fm          *file.Manager
	blockSize   int
	block       file.BlockID
	page        *file.Page
	currentPos  int
}

func newIterator(fm *file.Manager, block file.BlockID) (*Iterator, error) {
	it := &Iterator{fm: fm, blockSize: fm.BlockSize(), block: block, page: file.NewPage(fm.BlockSize())}
	if err := it.moveToBlock(block); err != nil {
		return nil, err
	}
	return it, nil
}

func (it *Iterator) moveToBlock(block file.BlockID) error {
	if err := it.fm.Read(block, it.page); err != nil {
		return err
	}
	it.currentPos = it.page.GetInt(0)
	it.block = block
	return nil
}

// HasNext reports whether another record remains.
func (it *Iterator) HasNext() bool {
	return it.currentPos < it.blockSize || it.block.Number > 0
}

// Next returns the next record in newest-first order, or an error if
// none remains.
func (it *Iterator) Next() ([]byte, error) {
	if it.currentPos == it.blockSize {
		prev := file.NewBlockID(it.block.Filename, it.block.Number-1)
		if err := it.moveToBlock(prev); err != nil {
			return nil, err
		}
	}
	if it.currentPos >= it.blockSize {
		return nil, dberrors.Corruption("log iterator: no more records", nil)
	}
	record := it.page.GetBytes(it.currentPos)
	it.currentPos += 4 + len(record)
	return record, nil
}
