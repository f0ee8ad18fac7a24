package cursor

import (
	"testing"

	"github.com/fwelsch-hortonworks/hive/internal/base"
	"github.com/stretchr/testify/require"
)

// scriptedRowFile is a RowFileReader over a fixed number of rows, each row
// just an int payload equal to its row number.
type scriptedRowFile struct {
	total   int64
	pos     int64
	closed  bool
	stripes []StripeInfo
}

func newScriptedRowFile(n int64) *scriptedRowFile {
	return &scriptedRowFile{total: n, stripes: []StripeInfo{{Offset: 0, NumRows: n}}}
}

func (f *scriptedRowFile) Stripes() []StripeInfo { return f.stripes }
func (f *scriptedRowFile) NumRows() int64        { return f.total }
func (f *scriptedRowFile) HasNext() bool         { return f.pos < f.total }
func (f *scriptedRowFile) RowNumber() int64      { return f.pos }
func (f *scriptedRowFile) NextRow(dst interface{}) (interface{}, error) {
	row := f.pos
	f.pos++
	return row, nil
}
func (f *scriptedRowFile) Columns() int { return 2 }
func (f *scriptedRowFile) Close() error { f.closed = true; return nil }

// fakeOpener opens a scriptedRowFile for each registered path. Every open
// gets a fresh reader positioned at row 0, mirroring a real file reader.
type fakeOpener struct {
	rowCounts map[string]int64
	opens     []string
}

func (o *fakeOpener) Open(path string, opts ReadOptions) (RowFileReader, error) {
	o.opens = append(o.opens, path)
	return newScriptedRowFile(o.rowCounts[path]), nil
}

func TestOriginalCursorSplitModeSoleFileNoMaxKey(t *testing.T) {
	opener := &fakeOpener{rowCounts: map[string]int64{"f0": 3}}
	initial := newScriptedRowFile(3)
	cfg := OriginalCursorConfig{
		Opener:        opener,
		Bucket:        5,
		BucketPath:    "f0",
		CopyIndex:     0,
		SiblingFiles:  []OriginalFile{{Path: "f0", CopyIndex: 0}},
		FileNumRows:   3,
		InitialReader: initial,
	}
	oc, err := NewOriginalCursor(cfg)
	require.NoError(t, err)
	require.Nil(t, oc.MaxKey(), "sole file in the bucket has no synthesized maxKey")
	require.NoError(t, oc.AdvanceToMinKey())

	var rowIDs []int64
	for {
		head, ok := oc.Head()
		if !ok {
			break
		}
		rowIDs = append(rowIDs, head.RowID)
		require.Equal(t, base.OperationInsert, head.Operation)
		require.Equal(t, int64(0), head.OriginalTxn)
		require.Equal(t, int64(0), head.CurrentTxn)
		require.Equal(t, int32(5), head.Bucket)
		require.NoError(t, oc.Next(nil))
	}
	require.Equal(t, []int64{0, 1, 2}, rowIDs)
}

func TestOriginalCursorSplitModeNotLastFileSynthesizesMaxKey(t *testing.T) {
	opener := &fakeOpener{rowCounts: map[string]int64{"f0": 3, "f0_copy_1": 2}}
	initial := newScriptedRowFile(3)
	cfg := OriginalCursorConfig{
		Opener:     opener,
		Bucket:     5,
		BucketPath: "f0",
		CopyIndex:  0,
		SiblingFiles: []OriginalFile{
			{Path: "f0", CopyIndex: 0},
			{Path: "f0_copy_1", CopyIndex: 1},
		},
		FileNumRows:   3,
		InitialReader: initial,
	}
	oc, err := NewOriginalCursor(cfg)
	require.NoError(t, err)
	require.NotNil(t, oc.MaxKey())
	require.Equal(t, int64(2), oc.MaxKey().RowID, "maxKey is the last row of this file alone")
}

func TestOriginalCursorSplitModeCopyIndexShiftsRowIDOffset(t *testing.T) {
	opener := &fakeOpener{rowCounts: map[string]int64{"f0": 10, "f0_copy_1": 4}}
	initial := newScriptedRowFile(4)
	cfg := OriginalCursorConfig{
		Opener:     opener,
		Bucket:     5,
		BucketPath: "f0_copy_1",
		CopyIndex:  1,
		SiblingFiles: []OriginalFile{
			{Path: "f0", CopyIndex: 0},
			{Path: "f0_copy_1", CopyIndex: 1},
		},
		FileNumRows:   4,
		InitialReader: initial,
	}
	oc, err := NewOriginalCursor(cfg)
	require.NoError(t, err)
	require.NoError(t, oc.AdvanceToMinKey())

	head, ok := oc.Head()
	require.True(t, ok)
	require.Equal(t, int64(10), head.RowID, "rowId continues from the prior physical file's row count")
	require.Contains(t, opener.opens, "f0", "must probe the preceding sibling's row count")
}

func TestOriginalCursorCompactingModeConcatenatesFiles(t *testing.T) {
	opener := &fakeOpener{rowCounts: map[string]int64{"f0": 2, "f0_copy_1": 2}}
	cfg := OriginalCursorConfig{
		Opener:       opener,
		Bucket:       5,
		IsCompacting: true,
		OriginalFiles: []OriginalFile{
			{Path: "f0", CopyIndex: 0},
			{Path: "f0_copy_1", CopyIndex: 1},
		},
	}
	oc, err := NewOriginalCursor(cfg)
	require.NoError(t, err)
	require.NoError(t, oc.AdvanceToMinKey())

	var rowIDs []int64
	for {
		head, ok := oc.Head()
		if !ok {
			break
		}
		rowIDs = append(rowIDs, head.RowID)
		require.NoError(t, oc.Next(nil))
	}
	require.Equal(t, []int64{0, 1, 2, 3}, rowIDs, "row numbering is contiguous across physical files")
}

func TestOriginalCursorAdvanceToMinKeySkipsAtOrBefore(t *testing.T) {
	opener := &fakeOpener{rowCounts: map[string]int64{"f0": 5}}
	initial := newScriptedRowFile(5)
	min := base.MakeRecordIdentifier(0, 5, 1)
	cfg := OriginalCursorConfig{
		Opener:        opener,
		Bucket:        5,
		BucketPath:    "f0",
		CopyIndex:     0,
		SiblingFiles:  []OriginalFile{{Path: "f0", CopyIndex: 0}},
		FileNumRows:   5,
		InitialReader: initial,
		MinKey:        &min,
	}
	oc, err := NewOriginalCursor(cfg)
	require.NoError(t, err)
	require.NoError(t, oc.AdvanceToMinKey())

	head, ok := oc.Head()
	require.True(t, ok)
	require.Equal(t, int64(2), head.RowID)
}
