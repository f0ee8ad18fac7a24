package cursor

import (
	"testing"

	"github.com/fwelsch-hortonworks/hive/internal/base"
	"github.com/stretchr/testify/require"
)

type fakeKeyIndexReader struct {
	stripes  []StripeInfo
	keyIndex []base.RecordIdentifier
}

func (f *fakeKeyIndexReader) Stripes() []StripeInfo                     { return f.stripes }
func (f *fakeKeyIndexReader) KeyIndex() ([]base.RecordIdentifier, error) { return f.keyIndex, nil }
func (f *fakeKeyIndexReader) HasNext() bool                             { return false }
func (f *fakeKeyIndexReader) NextEvent(dst *base.Event) error           { return nil }
func (f *fakeKeyIndexReader) Columns() int                              { return 3 }
func (f *fakeKeyIndexReader) Close() error                              { return nil }

func TestDiscoverKeyBoundsFullFileHasNoBounds(t *testing.T) {
	r := &fakeKeyIndexReader{
		stripes: []StripeInfo{{Offset: 0, NumRows: 100}, {Offset: 1000, NumRows: 100}},
		keyIndex: []base.RecordIdentifier{
			base.MakeRecordIdentifier(1, 0, 99),
			base.MakeRecordIdentifier(1, 0, 199),
		},
	}
	iv, err := DiscoverKeyBounds(r, 0, 2000)
	require.NoError(t, err)
	require.Nil(t, iv.MinKey)
	require.Nil(t, iv.MaxKey)
}

func TestDiscoverKeyBoundsMidFileSplit(t *testing.T) {
	r := &fakeKeyIndexReader{
		stripes: []StripeInfo{
			{Offset: 0, NumRows: 100},
			{Offset: 1000, NumRows: 100},
			{Offset: 2000, NumRows: 100},
		},
		keyIndex: []base.RecordIdentifier{
			base.MakeRecordIdentifier(1, 0, 99),
			base.MakeRecordIdentifier(1, 0, 199),
			base.MakeRecordIdentifier(1, 0, 299),
		},
	}
	// Split covers only the second stripe.
	iv, err := DiscoverKeyBounds(r, 1000, 2000)
	require.NoError(t, err)
	require.NotNil(t, iv.MinKey)
	require.Equal(t, int64(99), iv.MinKey.RowID)
	require.NotNil(t, iv.MaxKey)
	require.Equal(t, int64(199), iv.MaxKey.RowID)
}

type fakeRowReader struct {
	stripes []StripeInfo
	numRows int64
}

func (f *fakeRowReader) Stripes() []StripeInfo            { return f.stripes }
func (f *fakeRowReader) NumRows() int64                   { return f.numRows }
func (f *fakeRowReader) HasNext() bool                    { return false }
func (f *fakeRowReader) RowNumber() int64                 { return 0 }
func (f *fakeRowReader) NextRow(dst interface{}) (interface{}, error) { return dst, nil }
func (f *fakeRowReader) Columns() int                     { return 2 }
func (f *fakeRowReader) Close() error                     { return nil }

func TestDiscoverOriginalKeyBoundsFullFile(t *testing.T) {
	r := &fakeRowReader{stripes: []StripeInfo{{Offset: 0, NumRows: 500}}, numRows: 500}
	iv := DiscoverOriginalKeyBounds(r, 7, 0, 1000)
	require.Nil(t, iv.MinKey)
	require.Nil(t, iv.MaxKey)
}

func TestDiscoverOriginalKeyBoundsMidFileSplit(t *testing.T) {
	r := &fakeRowReader{
		stripes: []StripeInfo{
			{Offset: 0, NumRows: 100},
			{Offset: 1000, NumRows: 100},
			{Offset: 2000, NumRows: 100},
		},
		numRows: 300,
	}
	iv := DiscoverOriginalKeyBounds(r, 7, 1000, 2000)
	require.NotNil(t, iv.MinKey)
	require.Equal(t, int64(99), iv.MinKey.RowID)
	require.Equal(t, int32(7), iv.MinKey.BucketProperty)
	require.NotNil(t, iv.MaxKey)
	require.Equal(t, int64(199), iv.MaxKey.RowID)
}

func TestDiscoverOriginalKeyBoundsSingleStripeSplitIsEmptyWindow(t *testing.T) {
	// Known limitation (HIVE-16953): when both offset and maxOffset fall
	// inside the same stripe, that stripe's rows are entirely attributed to
	// rowOffset (not rowLength), and the next stripe (if any) trips the
	// tail check -- producing minKey == maxKey rather than the true,
	// nonempty split window.
	r := &fakeRowReader{
		stripes: []StripeInfo{{Offset: 0, NumRows: 500}, {Offset: 5000, NumRows: 200}},
		numRows: 700,
	}
	iv := DiscoverOriginalKeyBounds(r, 7, 100, 200)
	require.NotNil(t, iv.MinKey)
	require.NotNil(t, iv.MaxKey)
	require.Equal(t, 0, iv.MinKey.Compare(*iv.MaxKey))
}
