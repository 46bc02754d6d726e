package recovery

import (
	"testing"

	"github.com/coredb-project/coredb/internal/file"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	pinned []file.BlockID
	setInt []int
	setStr []string
}

func (f *fakeTarget) PinForUndo(block file.BlockID) error {
	f.pinned = append(f.pinned, block)
	return nil
}

func (f *fakeTarget) UnpinForUndo(block file.BlockID) {}

func (f *fakeTarget) SetIntForUndo(block file.BlockID, offset, val int) error {
	f.setInt = append(f.setInt, val)
	return nil
}

func (f *fakeTarget) SetStringForUndo(block file.BlockID, offset int, val string) error {
	f.setStr = append(f.setStr, val)
	return nil
}

func TestEncodeDecodeSetIntRoundTrips(t *testing.T) {
	block := file.NewBlockID("data.tbl", 3)
	bytes := encodeSetInt(7, block, 12, 999)
	r := decode(bytes)

	require.Equal(t, TagSetInt, r.tag)
	require.Equal(t, 7, r.txnID)
	require.Equal(t, "data.tbl", r.filename)
	require.Equal(t, 3, r.blockNum)
	require.Equal(t, 12, r.offset)
	require.Equal(t, 999, r.oldInt)
}

func TestEncodeDecodeSetStringRoundTrips(t *testing.T) {
	block := file.NewBlockID("data.tbl", 1)
	bytes := encodeSetString(7, block, 4, "hello")
	r := decode(bytes)

	require.Equal(t, TagSetString, r.tag)
	require.Equal(t, "hello", r.oldStr)
}

func TestEncodeDecodeTxnRecordRoundTrips(t *testing.T) {
	for _, tag := range []Tag{TagStart, TagCommit, TagRollback} {
		bytes := encodeTxnRecord(tag, 42)
		r := decode(bytes)
		require.Equal(t, tag, r.tag)
		require.Equal(t, 42, r.txnID)
	}
}

func TestEncodeDecodeCheckpoint(t *testing.T) {
	r := decode(encodeCheckpoint())
	require.Equal(t, TagCheckpoint, r.tag)
}

func TestUndoSetIntPinsAndWritesOldValue(t *testing.T) {
	target := &fakeTarget{}
	block := file.NewBlockID("data.tbl", 3)
	r := decode(encodeSetInt(1, block, 12, 555))

	require.NoError(t, r.undo(target))
	require.Equal(t, []file.BlockID{block}, target.pinned)
	require.Equal(t, []int{555}, target.setInt)
}

func TestUndoSetStringPinsAndWritesOldValue(t *testing.T) {
	target := &fakeTarget{}
	block := file.NewBlockID("data.tbl", 1)
	r := decode(encodeSetString(1, block, 4, "old-value"))

	require.NoError(t, r.undo(target))
	require.Equal(t, []string{"old-value"}, target.setStr)
}

func TestUndoIsNoopForNonSetRecords(t *testing.T) {
	target := &fakeTarget{}
	require.NoError(t, decode(encodeTxnRecord(TagStart, 1)).undo(target))
	require.NoError(t, decode(encodeCheckpoint()).undo(target))
	require.Empty(t, target.pinned)
}
