// Package dberrors groups the error kinds the engine must distinguish
// (spec §7): LockAbort, BufferAbort, BadSyntax, NotFound, Corruption.
package dberrors

import "github.com/juju/errors"

// Sentinel causes, wrapped by the constructors below. Callers use
// errors.Cause(err) == ErrLockAbort (etc.) to classify a failure.
var (
	ErrLockAbort   = errors.New("lock abort: wait exceeded")
	ErrBufferAbort = errors.New("buffer abort: no frame available")
	ErrBadSyntax   = errors.New("bad syntax")
	ErrNotFound    = errors.New("not found")
	ErrCorruption  = errors.New("corruption or i/o failure")
)

// LockAbort reports that a shared/exclusive lock request exceeded its
// timeout. The caller must roll back the owning transaction.
func LockAbort(resource string) error {
	return errors.Annotatef(ErrLockAbort, "resource %s", resource)
}

// BufferAbort reports that pin() could not find or free a frame within
// the pin timeout. The caller must roll back the owning transaction.
func BufferAbort(block string) error {
	return errors.Annotatef(ErrBufferAbort, "block %s", block)
}

// BadSyntax reports a parser/lexer rejection. External to the core; no
// transaction effects follow from it.
func BadSyntax(msg string) error {
	return errors.Annotate(ErrBadSyntax, msg)
}

// NotFound reports a catalog lookup miss (unknown table/view/index/field).
func NotFound(what string) error {
	return errors.Annotatef(ErrNotFound, "%s", what)
}

// Corruption reports a file read/write error, an unexpected EOF on a
// non-empty read, or a schema mismatch. Fatal: the caller cannot proceed.
func Corruption(msg string, cause error) error {
	if cause != nil {
		return errors.Annotate(cause, msg)
	}
	return errors.Annotate(ErrCorruption, msg)
}

// IsLockAbort reports whether err (or its cause chain) is a LockAbort.
func IsLockAbort(err error) bool {
	return errors.Cause(err) == ErrLockAbort
}

// IsBufferAbort reports whether err (or its cause chain) is a BufferAbort.
func IsBufferAbort(err error) bool {
	return errors.Cause(err) == ErrBufferAbort
}

// IsNotFound reports whether err (or its cause chain) is a NotFound.
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}
