// Package index implements the common index interface (spec C14) plus
// the static-hash index; the B+-tree implementation lives in the
// sibling btree subpackage to mirror original_source's directory split
// (src/index/hash vs src/index/btree).
package index

import (
	"github.com/coredb-project/coredb/internal/query"
	"github.com/coredb-project/coredb/internal/record"
)

// Index is the common interface every index implementation satisfies
// (spec §4.11).
type Index interface {
	BeforeFirst(key query.Constant) error
	Next() (bool, error)
	GetDataRID() (record.RID, error)
	Insert(key query.Constant, rid record.RID) error
	Delete(key query.Constant, rid record.RID) error
	Close()
}

// DirectoryEntry is a B+-tree split result: the first key of the new
// block and the new block's number (spec §4.11).
type DirectoryEntry struct {
	Key         query.Constant
	BlockNumber int
}
