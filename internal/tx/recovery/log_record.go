// Package recovery implements the per-transaction recovery manager
// (spec C7), grounded on
// original_source/src/txn/recovery/recovery_manager.h/.cpp and the log
// record variants in src/txn/recovery/*_record.h.
package recovery

import "github.com/coredb-project/coredb/internal/file"

// Tag identifies a log record's kind. Every record begins with a 4-byte
// tag (spec §3).
type Tag int

const (
	TagCheckpoint Tag = iota
	TagStart
	TagCommit
	TagRollback
	TagSetInt
	TagSetString
)

// UndoTarget is the subset of transaction behavior the recovery manager
// needs to replay undo records: pin/unpin a block and write an old value
// back with logging suppressed. Defined here (rather than importing the
// tx package directly) to avoid an import cycle between tx and
// tx/recovery; *tx.Transaction implements it.
type UndoTarget interface {
	PinForUndo(block file.BlockID) error
	UnpinForUndo(block file.BlockID)
	SetIntForUndo(block file.BlockID, offset, val int) error
	SetStringForUndo(block file.BlockID, offset int, val string) error
}

// record is the decoded form of one log entry, sufficient to identify
// its owning transaction and, for SET records, to undo it.
type record struct {
	tag      Tag
	txnID    int
	filename string
	blockNum int
	offset   int
	oldInt   int
	oldStr   string
}

func (r record) undo(target UndoTarget) error {
	switch r.tag {
	case TagSetInt:
		block := file.NewBlockID(r.filename, r.blockNum)
		if err := target.PinForUndo(block); err != nil {
			return err
		}
		defer target.UnpinForUndo(block)
		return target.SetIntForUndo(block, r.offset, r.oldInt)
	case TagSetString:
		block := file.NewBlockID(r.filename, r.blockNum)
		if err := target.PinForUndo(block); err != nil {
			return err
		}
		defer target.UnpinForUndo(block)
		return target.SetStringForUndo(block, r.offset, r.oldStr)
	}
	return nil
}

func decode(bytes []byte) record {
	p := file.NewPageFromBytes(bytes)
	tag := Tag(p.GetInt(0))
	r := record{tag: tag}
	switch tag {
	case TagCheckpoint:
	case TagStart, TagCommit, TagRollback:
		r.txnID = p.GetInt(4)
	case TagSetInt:
		r.txnID = p.GetInt(4)
		r.filename = p.GetString(8)
		pos := 8 + file.MaxLength(len(r.filename))
		r.blockNum = p.GetInt(pos)
		r.offset = p.GetInt(pos + 4)
		r.oldInt = p.GetInt(pos + 8)
	case TagSetString:
		r.txnID = p.GetInt(4)
		r.filename = p.GetString(8)
		pos := 8 + file.MaxLength(len(r.filename))
		r.blockNum = p.GetInt(pos)
		r.offset = p.GetInt(pos + 4)
		r.oldStr = p.GetString(pos + 8)
	}
	return r
}

func encodeCheckpoint() []byte {
	p := file.NewPage(4)
	p.SetInt(0, int(TagCheckpoint))
	return p.Contents()
}

func encodeTxnRecord(tag Tag, txnID int) []byte {
	p := file.NewPage(8)
	p.SetInt(0, int(tag))
	p.SetInt(4, txnID)
	return p.Contents()
}

func encodeSetInt(txnID int, block file.BlockID, offset, oldVal int) []byte {
	fnamePos := 8
	blockPos := fnamePos + file.MaxLength(len(block.Filename))
	size := blockPos + 12
	p := file.NewPage(size)
	p.SetInt(0, int(TagSetInt))
	p.SetInt(4, txnID)
	p.SetString(fnamePos, block.Filename)
	p.SetInt(blockPos, block.Number)
	p.SetInt(blockPos+4, offset)
	p.SetInt(blockPos+8, oldVal)
	return p.Contents()
}

func encodeSetString(txnID int, block file.BlockID, offset int, oldVal string) []byte {
	fnamePos := 8
	blockPos := fnamePos + file.MaxLength(len(block.Filename))
	strPos := blockPos + 8
	size := strPos + file.MaxLength(len(oldVal))
	p := file.NewPage(size)
	p.SetInt(0, int(TagSetString))
	p.SetInt(4, txnID)
	p.SetString(fnamePos, block.Filename)
	p.SetInt(blockPos, block.Number)
	p.SetInt(blockPos+4, offset)
	p.SetString(strPos, oldVal)
	return p.Contents()
}
