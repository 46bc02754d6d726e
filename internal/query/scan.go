package query

import "github.com/coredb-project/coredb/internal/record"

// Scan is the common read iterator shape for every relational operator
// (spec §4.10).
type Scan interface {
	BeforeFirst() error
	Next() (bool, error)
	GetInt(field string) (int, error)
	GetString(field string) (string, error)
	GetVal(field string) (Constant, error)
	HasField(field string) bool
	Close()
}

// UpdateScan is a Scan that additionally supports mutation and
// positioning by RID. Per spec §9's re-architecture note, a scan
// declares updatability at construction (by implementing this wider
// interface) rather than exposing it through a runtime downcast.
type UpdateScan interface {
	Scan
	SetInt(field string, val int) error
	SetString(field string, val string) error
	SetVal(field string, val Constant) error
	Insert() error
	Delete() error
	GetRID() record.RID
	MoveToRID(rid record.RID) error
}
