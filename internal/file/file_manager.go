// Package file implements the paged file store (spec C1) and the Page
// abstraction (spec C2), grounded on original_source/src/file/file_manager.*
// and page.h, and on the teacher's BlockFile
// (server/innodb/storage/store/blocks/block_file.go) for the
// single-read-write-call open idiom spec §9 asks for in place of the
// original's fstream reopen dance.
package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/coredb-project/coredb/internal/dberrors"
	"github.com/coredb-project/coredb/logger"
)

// Manager is the paged file store: fixed-size block read/write over
// named files, with append extending a file by one zero-filled block.
// A single coarse mutex serialises all four operations (spec §4.1).
type Manager struct {
	mu        sync.Mutex
	dbDir     string
	blockSize int
	isNew     bool
	openFiles map[string]*os.File
}

// NewManager constructs the file store rooted at dbDir. If dbDir does
// not exist it is created and IsNew() reports true. Any file whose
// basename begins with "temp" is deleted, matching spec §4.1.
func NewManager(dbDir string, blockSize int) (*Manager, error) {
	m := &Manager{
		dbDir:     dbDir,
		blockSize: blockSize,
		openFiles: make(map[string]*os.File),
	}

	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		m.isNew = true
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return nil, dberrors.Corruption("creating database directory", err)
		}
	} else if err != nil {
		return nil, dberrors.Corruption("statting database directory", err)
	}

	entries, err := os.ReadDir(dbDir)
	if err != nil {
		return nil, dberrors.Corruption("reading database directory", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "temp") {
			if err := os.Remove(filepath.Join(dbDir, entry.Name())); err != nil {
				logger.Errorf("file manager: failed to remove temp file %s: %v", entry.Name(), err)
			}
		}
	}
	return m, nil
}

// IsNew reports whether the database directory was created by this call.
func (m *Manager) IsNew() bool {
	return m.isNew
}

// BlockSize returns the fixed block size configured for this store.
func (m *Manager) BlockSize() int {
	return m.blockSize
}

// Read loads block's content into page. Reading past end-of-file yields
// a zero-filled page and is not an error, supporting cold reads during
// buffer assignment (spec §4.1).
func (m *Manager) Read(block BlockID, page *Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := m.getFile(block.Filename)
	if err != nil {
		return err
	}
	buf := page.Contents()
	for i := range buf {
		buf[i] = 0
	}
	n, err := f.ReadAt(buf, int64(block.Number)*int64(m.blockSize))
	if err != nil && n == 0 {
		// Short/empty read past EOF: leave the zero-filled page.
		return nil
	}
	return nil
}

// Write persists page's content at block.
func (m *Manager) Write(block BlockID, page *Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := m.getFile(block.Filename)
	if err != nil {
		return err
	}
	if _, err := f.WriteAt(page.Contents(), int64(block.Number)*int64(m.blockSize)); err != nil {
		return dberrors.Corruption("writing block "+block.String(), err)
	}
	return nil
}

// Append extends filename by one zero-filled block and returns its
// block number, which equals the file's previous length in blocks.
func (m *Manager) Append(filename string) (BlockID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	newBlockNum, err := m.lengthLocked(filename)
	if err != nil {
		return BlockID{}, err
	}
	block := NewBlockID(filename, newBlockNum)
	f, err := m.getFile(filename)
	if err != nil {
		return BlockID{}, err
	}
	zeros := make([]byte, m.blockSize)
	if _, err := f.WriteAt(zeros, int64(newBlockNum)*int64(m.blockSize)); err != nil {
		return BlockID{}, dberrors.Corruption("appending block to "+filename, err)
	}
	return block, nil
}

// Length reports the number of blocks currently in filename.
func (m *Manager) Length(filename string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lengthLocked(filename)
}

func (m *Manager) lengthLocked(filename string) (int, error) {
	f, err := m.getFile(filename)
	if err != nil {
		return 0, err
	}
	info, err := f.Stat()
	if err != nil {
		return 0, dberrors.Corruption("statting "+filename, err)
	}
	return int(info.Size() / int64(m.blockSize)), nil
}

// getFile returns the cached, already-open read-write handle for
// filename, opening (and creating, if absent) it with a single call.
func (m *Manager) getFile(filename string) (*os.File, error) {
	if f, ok := m.openFiles[filename]; ok {
		return f, nil
	}
	path := filepath.Join(m.dbDir, filename)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, dberrors.Corruption("opening "+filename, err)
	}
	m.openFiles[filename] = f
	return f, nil
}

// Close releases all cached file handles.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.openFiles {
		_ = f.Close()
	}
	m.openFiles = make(map[string]*os.File)
	return nil
}
