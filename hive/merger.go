// Package hive implements the ACID raw record merger: it presents a
// deterministically ordered stream of insert/update/delete events (or,
// with collapsing enabled, a flattened view of only the latest event per
// row) across one base dataset and a time-ordered sequence of delta
// datasets, filtered to a split's key range and to currently-valid
// transactions.
//
// Package layout follows github.com/cockroachdb/pebble: the merge engine
// itself lives in this package (hive/), the composite sort key and event
// envelope live in internal/base, the per-source cursors in
// internal/cursor, and the directory-layout collaborator in
// internal/layout.
package hive

import (
	"context"

	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
	"github.com/fwelsch-hortonworks/hive/internal/base"
	"github.com/fwelsch-hortonworks/hive/internal/cursor"
	"github.com/fwelsch-hortonworks/hive/internal/layout"
	"github.com/fwelsch-hortonworks/hive/internal/txn"
	"golang.org/x/sync/errgroup"
)

// Merger is a single-threaded, pull-driven iterator over the merged event
// stream of a base and its deltas for one bucket of one split. It is not
// safe for concurrent use; the consumer must finish reading the record
// handed back by Next before calling Next again (see Next's doc comment on
// buffer aliasing).
type Merger struct {
	readers registry
	primary cursor.Cursor

	secondaryKey    base.ReaderKey
	hasSecondary    bool
	prevKey         base.ReaderKey
	havePrevKey     bool
	extraValue      *base.Event
	collapse        bool
	validTxnList    txn.ValidTxnList
	minKey, maxKey  *base.RecordIdentifier
	offset          int64
	length          int64
	columns         int
	baseProgressor  progressor
	metrics         *Metrics
	logger          base.Logger
}

type progressor interface {
	Progress() float64
}

// NewMerger constructs a Merger per opts: it opens the base reader (if
// any), discovers its key bounds, opens every delta that has a file for
// this bucket, and positions every cursor at the first record it will
// emit.
func NewMerger(opts Options) (*Merger, error) {
	opts.EnsureDefaults()

	m := &Merger{
		collapse:     opts.CollapseEvents,
		validTxnList: txn.NewMemoized(opts.ValidTxnList),
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		offset:       opts.ReaderOptions.Offset,
		length:       opts.ReaderOptions.MaxOffset - opts.ReaderOptions.Offset,
	}

	eventOpts := eventOptionsFor(opts.ReaderOptions)

	if opts.BasePath != "" {
		baseCursor, err := openBaseCursor(opts, eventOpts)
		if err != nil {
			return nil, err
		}
		if err := baseCursor.AdvanceToMinKey(); err != nil {
			return nil, errors.Wrap(err, "hive: priming base cursor")
		}
		m.minKey, m.maxKey = baseCursor.MinKey(), baseCursor.MaxKey()
		if _, ok := baseCursor.Head(); ok {
			m.readers.insert(baseCursor.HeadKey(), baseCursor)
		}
	}

	if len(opts.DeltaDirectories) > 0 {
		metas, err := discoverDeltaMetadata(opts.Directory, opts.DeltaDirectories, opts.Bucket)
		if err != nil {
			return nil, errors.Wrap(err, "hive: discovering delta metadata")
		}
		deltaBaseOpts := eventOpts
		deltaBaseOpts.Offset = 0
		for _, meta := range metas {
			if !meta.exists {
				continue
			}
			readerOpts := deltaBaseOpts
			if readerOpts.SearchArgument != nil && meta.stats.HasMutations() {
				// Pushing a search argument to a delta that contains
				// deletes or updates can wrongly drop the latest live
				// version of a row, or fault applying a projection meant
				// for a full row onto a tombstone.
				readerOpts = readerOpts.Clone()
				readerOpts.SearchArgument = nil
			}
			eventReader, err := observeOpen(opts.Metrics, func() (cursor.EventFileReader, error) {
				return opts.Directory.OpenEvent(meta.path, meta.length, readerOpts)
			})
			if err != nil {
				return nil, errors.Wrapf(err, "hive: opening delta %q", meta.path)
			}
			dc := cursor.NewFileCursor(eventReader, m.minKey, m.maxKey, opts.Bucket, meta.statementID)
			if err := dc.AdvanceToMinKey(); err != nil {
				return nil, errors.Wrapf(err, "hive: priming delta cursor %q", meta.path)
			}
			if _, ok := dc.Head(); ok {
				m.readers.insert(dc.HeadKey(), dc)
			}
		}
	}

	if c, ok := m.readers.extractMin(); ok {
		m.primary = c
		if key, has := m.readers.peekMin(); has {
			m.secondaryKey, m.hasSecondary = key, true
		}
		m.columns = c.Columns()
	}

	return m, nil
}

// observeOpen times fn's execution and, when metrics is non-nil, records it
// against CursorOpenLatency. Shared by the call sites that open the base and
// delta files; OriginalCursor times its own compaction-time fragment opens.
func observeOpen[T any](metrics *Metrics, fn func() (T, error)) (T, error) {
	start := crtime.NowMono()
	v, err := fn()
	if metrics != nil {
		metrics.CursorOpenLatency.Observe(start.Elapsed().Seconds())
	}
	return v, err
}

func openBaseCursor(opts Options, eventOpts cursor.ReadOptions) (cursor.Cursor, error) {
	if opts.IsOriginal {
		rowReader, err := observeOpen(opts.Metrics, func() (cursor.RowFileReader, error) {
			return opts.Directory.OpenOriginal(opts.BasePath, opts.ReaderOptions)
		})
		if err != nil {
			return nil, errors.Wrapf(err, "hive: opening original base %q", opts.BasePath)
		}
		iv := cursor.DiscoverOriginalKeyBounds(rowReader, opts.Bucket, opts.ReaderOptions.Offset, opts.ReaderOptions.MaxOffset)
		return buildOriginalCursor(opts, rowReader, iv)
	}

	eventReader, err := observeOpen(opts.Metrics, func() (cursor.EventFileReader, error) {
		return opts.Directory.OpenEvent(opts.BasePath, -1, eventOpts)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "hive: opening base %q", opts.BasePath)
	}
	iv, err := cursor.DiscoverKeyBounds(eventReader, opts.ReaderOptions.Offset, opts.ReaderOptions.MaxOffset)
	if err != nil {
		return nil, errors.Wrap(err, "hive: discovering base key bounds")
	}
	return cursor.NewFileCursor(eventReader, iv.MinKey, iv.MaxKey, opts.Bucket, 0), nil
}

// originalOpenerAdapter bridges layout.Directory (this package's view of
// the directory-layout collaborator) to cursor.OriginalOpener (the narrow
// interface internal/cursor depends on, to avoid a cursor -> layout ->
// cursor import cycle).
type originalOpenerAdapter struct {
	dir layout.Directory
}

func (a originalOpenerAdapter) Open(path string, opts cursor.ReadOptions) (cursor.RowFileReader, error) {
	return a.dir.OpenOriginal(path, opts)
}

func buildOriginalCursor(opts Options, initialReader cursor.RowFileReader, iv base.KeyInterval) (cursor.Cursor, error) {
	cfg := cursor.OriginalCursorConfig{
		Opener:        originalOpenerAdapter{dir: opts.Directory},
		Bucket:        opts.Bucket,
		Opts:          opts.ReaderOptions,
		IsCompacting:  opts.Compaction.IsCompacting,
		BucketPath:    opts.Compaction.BucketPath,
		CopyIndex:     opts.Compaction.CopyIndex,
		InitialReader: initialReader,
		MinKey:        iv.MinKey,
		MaxKey:        iv.MaxKey,
		RateLimiter:   opts.RateLimiter,
		BytesPerFile:  opts.BytesPerOriginalFile,
		Logger:        opts.Logger,
		FileNumRows:   initialReader.NumRows(),
	}
	if opts.Metrics != nil {
		cfg.CursorOpenLatency = opts.Metrics.CursorOpenLatency
	}

	if opts.Compaction.IsCompacting {
		files, err := opts.Directory.OriginalFiles(opts.Bucket)
		if err != nil {
			return nil, errors.Wrap(err, "hive: enumerating original files")
		}
		cfg.OriginalFiles = toOriginalFiles(files)
	} else {
		files, err := opts.Directory.OriginalFiles(opts.Bucket)
		if err != nil {
			return nil, errors.Wrap(err, "hive: enumerating original files")
		}
		cfg.SiblingFiles = toOriginalFiles(files)
	}

	return cursor.NewOriginalCursor(cfg)
}

func toOriginalFiles(files []layout.OriginalFile) []cursor.OriginalFile {
	layout.SortOriginalFiles(files)
	out := make([]cursor.OriginalFile, len(files))
	for i, f := range files {
		out[i] = cursor.OriginalFile{Path: f.Path, CopyIndex: f.CopyIndex}
	}
	return out
}

type deltaMeta struct {
	path        string
	exists      bool
	length      int64
	stats       layout.AcidStats
	statementID int32
}

// discoverDeltaMetadata resolves every delta directory's bucket file,
// flush length, and ACID stats concurrently: independent I/O with no
// ordering dependency, ahead of the single-threaded, pull-driven merge loop
// that follows.
func discoverDeltaMetadata(dir layout.Directory, deltaDirs []string, bucket int32) ([]deltaMeta, error) {
	metas := make([]deltaMeta, len(deltaDirs))
	g, _ := errgroup.WithContext(context.Background())
	for i, d := range deltaDirs {
		i, d := i, d
		g.Go(func() error {
			path, ok, err := dir.DeltaBucketFile(d, bucket)
			if err != nil {
				return errors.Wrapf(err, "hive: resolving delta bucket file in %q", d)
			}
			if !ok {
				return nil
			}
			length, err := dir.FlushLength(path)
			if err != nil {
				return errors.Wrapf(err, "hive: reading flush length of %q", path)
			}
			if length < 0 {
				return nil
			}
			stats, err := dir.DeltaStats(path)
			if err != nil {
				return errors.Wrapf(err, "hive: reading delta stats of %q", path)
			}
			parsed, err := layout.ParseDelta(d)
			if err != nil {
				return err
			}
			metas[i] = deltaMeta{path: path, exists: true, length: length, stats: stats, statementID: parsed.StatementID}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return metas, nil
}

// Next advances the merge and reports whether it produced an event. On a
// true return, outKey and outRecord hold the emitted key and event.
//
// Buffer aliasing: outRecord's Row field is assigned by reference from the
// cursor's internal buffer, not copied. The caller must finish using
// outRecord before calling Next again; the next call is free to mutate the
// same underlying storage.
func (m *Merger) Next(outKey *base.ReaderKey, outRecord *base.Event) (bool, error) {
	if m.metrics != nil {
		start := crtime.NowMono()
		defer func() { m.metrics.StepLatency.Observe(start.Elapsed().Seconds()) }()
	}

	keysSame := true
	for keysSame && m.primary != nil {
		current, _ := m.primary.Head()
		*outKey = m.primary.HeadKey()

		if err := m.primary.Next(m.extraValue); err != nil {
			return false, err
		}
		m.extraValue = current

		if _, ok := m.primary.Head(); !ok || m.primary.HeadKey().Compare(m.secondaryKeyOrMax()) > 0 {
			if ok {
				m.readers.insert(m.primary.HeadKey(), m.primary)
			}
			if next, exists := m.readers.extractMin(); exists {
				m.primary = next
				if key, has := m.readers.peekMin(); has {
					m.secondaryKey, m.hasSecondary = key, true
				} else {
					m.hasSecondary = false
				}
			} else {
				m.primary = nil
			}
		}

		if !m.validTxnList.IsValid(outKey.CurrentTxnID) {
			if m.metrics != nil {
				m.metrics.FilteredInvalid.Inc()
			}
			continue
		}

		// A run of events naming the same row must collapse to its head
		// (the most recent, by the descending currentTxn/statementId tail
		// of ReaderKey.Compare) in two cases: they belong to the same
		// multi-statement transaction (always, regardless of m.collapse),
		// or the caller asked to collapse every row to its latest version
		// across transactions.
		isSameRow := m.havePrevKey && m.prevKey.IsSameRow(*outKey)
		sameGroup := isSameRow || (m.collapse && m.havePrevKey && m.prevKey.CompareRow(outKey.RecordIdentifier) == 0)
		if sameGroup {
			keysSame = true
			if m.metrics != nil {
				m.metrics.Collapsed.Inc()
			}
		} else {
			keysSame = false
			m.prevKey = *outKey
			m.havePrevKey = true
		}

		*outRecord = *current
	}
	return !keysSame, nil
}

// secondaryKeyOrMax reports the registry's least key, or a key that sorts
// after everything when the registry is empty -- equivalent to comparing
// against Java's `null` secondaryKey, which Comparable treats as "greater
// than everything" in the original source's TreeMap-based merge.
func (m *Merger) secondaryKeyOrMax() base.ReaderKey {
	if m.hasSecondary {
		return m.secondaryKey
	}
	return maxReaderKey
}

var maxReaderKey = base.MakeReaderKey(1<<63-1, 1<<31-1, 1<<63-1, 1<<63-1, 1<<31-1)

// CreateKey returns a zero-value ReaderKey suitable for passing to Next.
func (m *Merger) CreateKey() base.ReaderKey { return base.ReaderKey{} }

// CreateValue returns a zero-value Event suitable for passing to Next.
func (m *Merger) CreateValue() base.Event { return base.Event{} }

// GetPos reports the merger's approximate byte position within the split,
// computed as the split offset plus GetProgress times the split length.
func (m *Merger) GetPos() int64 {
	return m.offset + int64(m.GetProgress()*float64(m.length))
}

// GetProgress reports 1.0. NewMerger attaches no progress source, so the
// value is 1.0 whether or not there is a base; progress through the base
// and through the deltas is not reported.
func (m *Merger) GetProgress() float64 {
	if m.baseProgressor == nil {
		return 1.0
	}
	return m.baseProgressor.Progress()
}

// IsDelete reports whether e is a DELETE event.
func (m *Merger) IsDelete(e *base.Event) bool {
	return e.Operation == base.OperationDelete
}

// GetColumns reports the number of columns in the underlying rows, or 0 if
// there is no base and no delta.
func (m *Merger) GetColumns() int { return m.columns }

// Close closes the primary cursor and every cursor still registered.
// Idempotent: closing a Merger twice is a no-op on the second call.
func (m *Merger) Close() error {
	var firstErr error
	if m.primary != nil {
		firstErr = m.primary.Close()
		m.primary = nil
	}
	for m.readers.len() > 0 {
		c, _ := m.readers.extractMin()
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
