package tx

import "github.com/coredb-project/coredb/internal/file"

type lockKind int

const (
	lockShared lockKind = iota
	lockExclusive
)

// ConcurrencyManager tracks which locks a single transaction holds
// (spec §4.5). Upgrades never release the shared lock before the
// exclusive acquisition; deadlocks are resolved solely by timeout-abort.
type ConcurrencyManager struct {
	table *LockTable
	locks map[file.BlockID]lockKind
}

func newConcurrencyManager(table *LockTable) *ConcurrencyManager {
	return &ConcurrencyManager{table: table, locks: make(map[file.BlockID]lockKind)}
}

// SLock acquires a shared lock on block, a no-op if already held.
func (cm *ConcurrencyManager) SLock(block file.BlockID) error {
	if _, ok := cm.locks[block]; ok {
		return nil
	}
	if err := cm.table.SLock(block); err != nil {
		return err
	}
	cm.locks[block] = lockShared
	return nil
}

// XLock acquires an exclusive lock on block, a no-op if already held.
// Ensures a shared lock first, as required by LockTable.XLock.
func (cm *ConcurrencyManager) XLock(block file.BlockID) error {
	if cm.hasXLock(block) {
		return nil
	}
	if err := cm.SLock(block); err != nil {
		return err
	}
	if err := cm.table.XLock(block); err != nil {
		return err
	}
	cm.locks[block] = lockExclusive
	return nil
}

func (cm *ConcurrencyManager) hasXLock(block file.BlockID) bool {
	kind, ok := cm.locks[block]
	return ok && kind == lockExclusive
}

// Release unlocks every block this transaction holds and clears its
// holdings (spec §4.5, called at commit/rollback per strict 2PL).
func (cm *ConcurrencyManager) Release() {
	for block := range cm.locks {
		cm.table.Unlock(block)
	}
	cm.locks = make(map[file.BlockID]lockKind)
}
