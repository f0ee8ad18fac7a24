package hive

import (
	"math"

	"github.com/cockroachdb/tokenbucket"
	"github.com/fwelsch-hortonworks/hive/internal/base"
	"github.com/fwelsch-hortonworks/hive/internal/cursor"
	"github.com/fwelsch-hortonworks/hive/internal/layout"
	"github.com/fwelsch-hortonworks/hive/internal/txn"
)

// envelopeFieldCount is the number of fixed leading fields in the on-disk
// event envelope (operation, originalTxn, bucket, rowId, currentTxn),
// ahead of the caller's payload row columns.
const envelopeFieldCount = 5

// CompactionOptions describes how a split relates to the rest of its
// logical bucket, needed only when reading pre-ACID "original" files.
type CompactionOptions struct {
	// CopyIndex is BucketPath's position among the logical bucket's
	// physical files (0 for "bbbbb_0").
	CopyIndex int
	// IsCompacting is true when the split must process the entire
	// logical bucket in one pass, assigning one contiguous rowId
	// sequence across all of its physical files.
	IsCompacting bool
	// BucketPath is the physical file this split reads from.
	BucketPath string
	// RootPath is the partition (or table) directory original files are
	// enumerated from.
	RootPath string
}

// Options configures a Merger.
type Options struct {
	// CollapseEvents selects whether only the latest event per row is
	// emitted (true) or every valid event (false).
	CollapseEvents bool
	// IsOriginal marks BasePath as a pre-ACID file requiring
	// OriginalCursor synthesis rather than a native ACID file.
	IsOriginal bool
	// Bucket is the bucket number being read.
	Bucket int32
	// ValidTxnList decides which transactions are visible to this read.
	// Defaults to "everything is valid" if nil.
	ValidTxnList txn.ValidTxnList
	// ReaderOptions is the row-level read configuration (column
	// selection, predicate pushdown, byte range) for the base reader.
	ReaderOptions cursor.ReadOptions
	// BasePath is the base file's path. Empty means no base.
	BasePath string
	// DeltaDirectories lists the delta directories to merge in, in no
	// particular order (the merge establishes the order).
	DeltaDirectories []string
	Compaction       CompactionOptions

	// Directory is the directory-layout collaborator: enumerates
	// original files, resolves delta bucket files, and opens readers.
	Directory layout.Directory

	// RateLimiter paces original-file opens during compaction of a wide
	// logical bucket. Optional.
	RateLimiter *tokenbucket.TokenBucket
	// BytesPerOriginalFile estimates a file's RateLimiter weight.
	BytesPerOriginalFile func(path string) int64

	Logger  base.Logger
	Metrics *Metrics
}

// EnsureDefaults fills in defaults for any unset fields and returns o for
// chaining. Safe to call on a zero-value Options, matching the pattern of
// pebble's own internal/base.Options.EnsureDefaults.
func (o *Options) EnsureDefaults() *Options {
	if o.Logger == nil {
		o.Logger = base.DefaultLogger{}
	}
	if o.ValidTxnList == nil {
		o.ValidTxnList = txn.Func(func(int64) bool { return true })
	}
	return o
}

// eventOptionsFor derives the delta/base event-reader options from the
// caller's row-level options: the byte range is widened to [offset, +inf)
// since delta reads always span the whole delta, and column names are
// shifted down by envelopeFieldCount to address the wrapped payload
// columns.
func eventOptionsFor(opts cursor.ReadOptions) cursor.ReadOptions {
	result := opts.Clone()
	result.MaxOffset = math.MaxInt64
	if opts.ColumnNames != nil {
		shifted := make([]string, len(opts.ColumnNames)+envelopeFieldCount)
		copy(shifted[envelopeFieldCount:], opts.ColumnNames)
		result.ColumnNames = shifted
	}
	return result
}
