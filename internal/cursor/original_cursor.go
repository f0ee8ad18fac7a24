package cursor

import (
	"time"

	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tokenbucket"
	"github.com/fwelsch-hortonworks/hive/internal/base"
	"github.com/prometheus/client_golang/prometheus"
)

// OriginalOpener opens the physical files of a logical pre-ACID bucket.
// Implemented by the hive package's adapter over layout.Directory; kept as
// its own tiny interface here so this package does not need to import
// layout.
type OriginalOpener interface {
	Open(path string, opts ReadOptions) (RowFileReader, error)
}

// OriginalFile names one physical file of a logical bucket, in the fixed
// deterministic order the bucket's files must be concatenated in.
type OriginalFile struct {
	Path      string
	CopyIndex int
}

// OriginalCursorConfig configures an OriginalCursor. See NewOriginalCursor.
type OriginalCursorConfig struct {
	Opener OriginalOpener
	Bucket int32
	Opts   ReadOptions

	// IsCompacting is true when the split covers the entire logical
	// bucket (all of OriginalFiles, read start to finish).
	IsCompacting bool
	// OriginalFiles is the full, sorted list of the bucket's physical
	// files. Required when IsCompacting; unused otherwise.
	OriginalFiles []OriginalFile

	// Split-mode-only fields (ignored when IsCompacting):
	// BucketPath is the physical file this split reads from.
	BucketPath string
	// CopyIndex is BucketPath's position in the logical bucket (0 for
	// "bbbbb_0").
	CopyIndex int
	// SiblingFiles enumerates every physical file of the bucket, used to
	// compute RowIdOffset and to detect whether BucketPath is the last
	// physical file of its logical bucket.
	SiblingFiles []OriginalFile
	// FileNumRows is BucketPath's own row count, used to synthesize
	// MaxKey when it is not the last file of the bucket.
	FileNumRows int64
	// InitialReader is an already-open reader for BucketPath (passed in
	// by the caller before key bounds were known). Used directly in split
	// mode; closed and discarded in compacting mode.
	InitialReader RowFileReader

	// MinKey/MaxKey are the caller-supplied bounds from
	// DiscoverOriginalKeyBounds, possibly nil.
	MinKey *base.RecordIdentifier
	MaxKey *base.RecordIdentifier

	// RateLimiter paces how fast compaction mode opens successive
	// physical files of a wide logical bucket. Optional; nil disables
	// pacing.
	RateLimiter *tokenbucket.TokenBucket
	// BytesPerFile estimates a file's weight for RateLimiter, when set.
	BytesPerFile func(path string) int64

	Logger base.Logger
	// CursorOpenLatency, when set, observes the wall-clock cost of opening
	// each physical file opened during compaction.
	CursorOpenLatency prometheus.Histogram
}

// OriginalCursor presents a pre-ACID "original" file (or, when compacting,
// the full ordered concatenation of a logical bucket's physical files) as
// an ACID event stream of synthetic INSERTs: OriginalTxn == 0, CurrentTxn
// == 0, the configured bucket, and a rowId that is contiguous across the
// whole logical bucket regardless of how many physical files it spans.
type OriginalCursor struct {
	cfg OriginalCursorConfig

	originalFiles []OriginalFile // empty unless compacting
	nextFileIndex int
	rowIDOffset   int64
	numRowsInFile int64
	current       RowFileReader

	minKey *base.RecordIdentifier
	maxKey *base.RecordIdentifier

	headRecord *base.Event
	headKey    base.ReaderKey
	primed     bool
	closed     bool
}

var _ Cursor = (*OriginalCursor)(nil)

// NewOriginalCursor constructs an OriginalCursor per cfg. It does not read;
// callers must call AdvanceToMinKey before use.
func NewOriginalCursor(cfg OriginalCursorConfig) (*OriginalCursor, error) {
	oc := &OriginalCursor{cfg: cfg, minKey: cfg.MinKey, maxKey: cfg.MaxKey}

	if cfg.IsCompacting {
		if len(cfg.OriginalFiles) == 0 {
			return nil, errors.AssertionFailedf(
				"original_cursor: bucket %d has no original files but a compacting split claims it", cfg.Bucket)
		}
		if cfg.InitialReader != nil {
			if err := cfg.InitialReader.Close(); err != nil {
				return nil, errors.Wrap(err, "original_cursor: closing caller-supplied reader before compaction scan")
			}
		}
		oc.originalFiles = cfg.OriginalFiles
		if err := oc.openNextFile(); err != nil {
			return nil, err
		}
		if oc.current == nil {
			return nil, errors.AssertionFailedf(
				"original_cursor: compactor produced a split for bucket %d with no data", cfg.Bucket)
		}
		return oc, nil
	}

	// Split mode: the byte-range of a single physical file.
	oc.current = cfg.InitialReader
	isLastFileForBucket := true

	if cfg.CopyIndex > 0 {
		haveSeenCurrent := false
		for _, f := range cfg.SiblingFiles {
			if haveSeenCurrent {
				isLastFileForBucket = false
				break
			}
			if f.Path == cfg.BucketPath {
				haveSeenCurrent = true
				isLastFileForBucket = true
				continue
			}
			n, err := oc.fileRowCount(f.Path)
			if err != nil {
				return nil, err
			}
			oc.rowIDOffset += n
		}
		if oc.rowIDOffset > 0 {
			if oc.minKey != nil {
				shifted := oc.minKey.WithRowID(oc.minKey.RowID + oc.rowIDOffset)
				oc.minKey = &shifted
			} else {
				k := base.MakeRecordIdentifier(0, cfg.Bucket, oc.rowIDOffset-1)
				oc.minKey = &k
			}
			if oc.maxKey != nil {
				shifted := oc.maxKey.WithRowID(oc.maxKey.RowID + oc.rowIDOffset)
				oc.maxKey = &shifted
			}
		}
	} else {
		numInBucket := 0
		for range cfg.SiblingFiles {
			numInBucket++
			if numInBucket > 1 {
				isLastFileForBucket = false
				break
			}
		}
	}

	if !isLastFileForBucket && oc.maxKey == nil {
		k := base.MakeRecordIdentifier(0, cfg.Bucket, oc.rowIDOffset+cfg.FileNumRows-1)
		oc.maxKey = &k
	}
	oc.numRowsInFile = cfg.FileNumRows
	return oc, nil
}

func (oc *OriginalCursor) fileRowCount(path string) (int64, error) {
	r, err := oc.cfg.Opener.Open(path, oc.cfg.Opts)
	if err != nil {
		return 0, errors.Wrapf(err, "original_cursor: opening %q to count rows", path)
	}
	n := r.NumRows()
	return n, errors.Wrap(r.Close(), "original_cursor: closing row-count probe reader")
}

// openNextFile advances nextFileIndex to the next file of the bucket
// (compaction mode only) and opens it, pacing opens through RateLimiter
// when configured.
func (oc *OriginalCursor) openNextFile() error {
	if oc.nextFileIndex >= len(oc.originalFiles) {
		oc.current = nil
		return nil
	}
	f := oc.originalFiles[oc.nextFileIndex]
	oc.nextFileIndex++

	if oc.cfg.RateLimiter != nil {
		weight := int64(1)
		if oc.cfg.BytesPerFile != nil {
			weight = oc.cfg.BytesPerFile(f.Path)
		}
		for {
			ok, d := oc.cfg.RateLimiter.TryToFulfill(tokenbucket.Tokens(weight))
			if ok {
				break
			}
			time.Sleep(d)
		}
	}

	start := crtime.NowMono()
	r, err := oc.cfg.Opener.Open(f.Path, oc.cfg.Opts)
	if err != nil {
		return errors.Wrapf(err, "original_cursor: opening %q", f.Path)
	}
	elapsed := start.Elapsed()
	if oc.cfg.CursorOpenLatency != nil {
		oc.cfg.CursorOpenLatency.Observe(elapsed.Seconds())
	}
	oc.current = r
	oc.numRowsInFile = r.NumRows()
	if oc.cfg.Logger != nil {
		oc.cfg.Logger.Infof("original_cursor: opened %q (%d rows) in %s", f.Path, r.NumRows(), elapsed)
	}
	return nil
}

// AdvanceToMinKey implements Cursor.
func (oc *OriginalCursor) AdvanceToMinKey() error {
	if oc.primed {
		return errors.AssertionFailedf("original_cursor: AdvanceToMinKey called twice")
	}
	oc.primed = true
	for {
		if err := oc.Next(nil); err != nil {
			return err
		}
		if oc.headRecord == nil {
			return nil
		}
		if oc.minKey == nil || oc.headKey.CompareRow(*oc.minKey) > 0 {
			return nil
		}
	}
}

// Next implements Cursor.
func (oc *OriginalCursor) Next(scratch *base.Event) error {
	if !oc.primed {
		return errors.AssertionFailedf("original_cursor: Next called before AdvanceToMinKey")
	}
	if scratch == nil {
		scratch = &base.Event{}
	}
	for {
		if oc.current != nil && oc.current.HasNext() {
			rowID := oc.current.RowNumber() + oc.rowIDOffset
			row, err := oc.current.NextRow(scratch.Row)
			if err != nil {
				return errors.Wrap(err, "original_cursor: reading next row")
			}
			scratch.Operation = base.OperationInsert
			scratch.OriginalTxn = 0
			scratch.CurrentTxn = 0
			scratch.Bucket = oc.cfg.Bucket
			scratch.RowID = rowID
			scratch.Row = row

			oc.headKey.SetAll(0, oc.cfg.Bucket, rowID, 0, 0)
			if oc.maxKey != nil && oc.headKey.CompareRow(*oc.maxKey) > 0 {
				oc.headRecord = nil
				return nil
			}
			oc.headRecord = scratch
			return nil
		}

		if len(oc.originalFiles) <= oc.nextFileIndex {
			oc.headRecord = nil
			if oc.current != nil {
				return errors.Wrap(oc.current.Close(), "original_cursor: closing exhausted file")
			}
			return nil
		}

		oc.rowIDOffset += oc.numRowsInFile
		if oc.current != nil {
			if err := oc.current.Close(); err != nil {
				return errors.Wrap(err, "original_cursor: closing file before advancing")
			}
		}
		if err := oc.openNextFile(); err != nil {
			return err
		}
		if oc.current == nil {
			oc.headRecord = nil
			return nil
		}
	}
}

// Head implements Cursor.
func (oc *OriginalCursor) Head() (*base.Event, bool) {
	return oc.headRecord, oc.headRecord != nil
}

// HeadKey implements Cursor.
func (oc *OriginalCursor) HeadKey() base.ReaderKey { return oc.headKey }

// MinKey implements Cursor.
func (oc *OriginalCursor) MinKey() *base.RecordIdentifier { return oc.minKey }

// MaxKey implements Cursor.
func (oc *OriginalCursor) MaxKey() *base.RecordIdentifier { return oc.maxKey }

// Bucket implements Cursor.
func (oc *OriginalCursor) Bucket() int32 { return oc.cfg.Bucket }

// Columns implements Cursor.
func (oc *OriginalCursor) Columns() int {
	if oc.current != nil {
		return oc.current.Columns()
	}
	return 0
}

// Close implements Cursor.
func (oc *OriginalCursor) Close() error {
	if oc.closed {
		return nil
	}
	oc.closed = true
	if oc.current != nil {
		return oc.current.Close()
	}
	return nil
}
