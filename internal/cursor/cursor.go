package cursor

import (
	"github.com/cockroachdb/errors"
	"github.com/fwelsch-hortonworks/hive/internal/base"
)

// Cursor is the shared contract both cursor kinds implement: bounded
// one-record lookahead over a single logical source, clipped to
// (minKey, maxKey]. The Merger only ever talks to this interface.
type Cursor interface {
	// AdvanceToMinKey performs the cursor's first read, skipping any
	// records at or before MinKey. Must be called exactly once, before any
	// other method.
	AdvanceToMinKey() error
	// Next reads the next record into scratch (reused to avoid
	// allocation) and updates the cursor's head. scratch may be nil on
	// the very first call.
	Next(scratch *base.Event) error
	// Head returns the current head record and whether one exists. A
	// false second return means the cursor is exhausted.
	Head() (*base.Event, bool)
	// HeadKey returns the ReaderKey of the current head. Only valid when
	// Head's second return is true.
	HeadKey() base.ReaderKey
	// MinKey is the cursor's (possibly nil, possibly internally shifted)
	// lower bound.
	MinKey() *base.RecordIdentifier
	// MaxKey is the cursor's (possibly nil, possibly internally shifted
	// or synthesized) upper bound.
	MaxKey() *base.RecordIdentifier
	// Bucket is the cursor's configured bucket number.
	Bucket() int32
	// Columns reports the number of columns in the payload row schema.
	Columns() int
	// Close releases the cursor's underlying file reader(s). Idempotent.
	Close() error
}

// FileCursor is the ACID variant of Cursor: a bounded lookahead over a
// single file that already stores the five-field event envelope (a base
// file, or a delta). It is the Go analog of the original source's
// ReaderPair.
type FileCursor struct {
	reader      EventFileReader
	minKey      *base.RecordIdentifier
	maxKey      *base.RecordIdentifier
	bucket      int32
	statementID int32

	headRecord *base.Event
	headKey    base.ReaderKey
	primed     bool
	closed     bool
}

var _ Cursor = (*FileCursor)(nil)

// NewFileCursor binds a cursor to reader without reading anything. Callers
// must call AdvanceToMinKey before using the cursor.
func NewFileCursor(reader EventFileReader, minKey, maxKey *base.RecordIdentifier, bucket, statementID int32) *FileCursor {
	return &FileCursor{
		reader:      reader,
		minKey:      minKey,
		maxKey:      maxKey,
		bucket:      bucket,
		statementID: statementID,
	}
}

// AdvanceToMinKey implements Cursor.
func (c *FileCursor) AdvanceToMinKey() error {
	if c.primed {
		return errors.AssertionFailedf("cursor: AdvanceToMinKey called twice")
	}
	c.primed = true
	for {
		if err := c.Next(nil); err != nil {
			return err
		}
		if c.headRecord == nil {
			return nil
		}
		if c.minKey == nil || c.headKey.CompareRow(*c.minKey) > 0 {
			return nil
		}
	}
}

// Next implements Cursor.
func (c *FileCursor) Next(scratch *base.Event) error {
	if !c.primed {
		return errors.AssertionFailedf("cursor: Next called before AdvanceToMinKey")
	}
	if !c.reader.HasNext() {
		c.headRecord = nil
		return c.closeReader()
	}
	if scratch == nil {
		scratch = &base.Event{}
	}
	if err := c.reader.NextEvent(scratch); err != nil {
		return errors.Wrap(err, "cursor: reading next event")
	}
	c.headKey.SetAll(scratch.OriginalTxn, scratch.Bucket, scratch.RowID, scratch.CurrentTxn, c.statementID)
	if c.maxKey != nil && c.headKey.CompareRow(*c.maxKey) > 0 {
		c.headRecord = nil
		return c.closeReader()
	}
	c.headRecord = scratch
	return nil
}

// Head implements Cursor.
func (c *FileCursor) Head() (*base.Event, bool) {
	return c.headRecord, c.headRecord != nil
}

// HeadKey implements Cursor.
func (c *FileCursor) HeadKey() base.ReaderKey { return c.headKey }

// MinKey implements Cursor.
func (c *FileCursor) MinKey() *base.RecordIdentifier { return c.minKey }

// MaxKey implements Cursor.
func (c *FileCursor) MaxKey() *base.RecordIdentifier { return c.maxKey }

// Bucket implements Cursor.
func (c *FileCursor) Bucket() int32 { return c.bucket }

// Columns implements Cursor.
func (c *FileCursor) Columns() int { return c.reader.Columns() }

// Close implements Cursor.
func (c *FileCursor) Close() error { return c.closeReader() }

func (c *FileCursor) closeReader() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.reader.Close()
}
