// Package cursor implements the bounded, one-record-lookahead readers the
// Merger fans in from: the ACID variant (Cursor) over files that already
// carry the event envelope, and OriginalCursor, which synthesizes that
// envelope over pre-transactional "original" files while preserving a
// bucket-global row numbering across physical file fragments.
//
// The physical file reader itself -- stripe layout, row-numbered sequential
// reads, predicate pushdown -- is an external collaborator owned by the
// columnar file format; this package only depends on the small interfaces
// below.
package cursor

import "github.com/fwelsch-hortonworks/hive/internal/base"

// StripeInfo describes one stripe's placement and size, the unit
// KeyBoundsFinder walks to translate a byte-range split into a row-range
// key interval.
type StripeInfo struct {
	Offset  int64
	NumRows int64
}

// ReadOptions is the row-level read configuration forwarded to a file
// reader: column selection, predicate pushdown, and the byte range of the
// split. The merge engine never interprets SearchArgument; it only ever
// forwards or strips it.
type ReadOptions struct {
	Offset         int64
	MaxOffset      int64
	Include        []bool
	ColumnNames    []string
	SearchArgument interface{}
}

// Clone returns a deep-enough copy of o that mutating the result's slices
// does not alias the original (mirrors Reader.Options.clone() in the
// original Java source).
func (o ReadOptions) Clone() ReadOptions {
	clone := o
	if o.Include != nil {
		clone.Include = append([]bool(nil), o.Include...)
	}
	if o.ColumnNames != nil {
		clone.ColumnNames = append([]string(nil), o.ColumnNames...)
	}
	return clone
}

// EventFileReader reads sequential Event envelopes from a single ACID file
// (a base or a delta). Implementations read ahead into the caller's
// scratch Event.
type EventFileReader interface {
	// Stripes reports the reader's stripe layout in file order.
	Stripes() []StripeInfo
	// KeyIndex returns the per-file key index: one RecordIdentifier per
	// stripe, the last key written within it.
	KeyIndex() ([]base.RecordIdentifier, error)
	// HasNext reports whether another event remains.
	HasNext() bool
	// NextEvent reads the next event's five envelope fields and payload
	// into dst, reusing dst's storage where possible.
	NextEvent(dst *base.Event) error
	// Columns reports the number of columns in the payload row schema.
	Columns() int
	// Close releases the reader. Idempotent.
	Close() error
}

// RowFileReader reads sequential raw (non-enveloped) rows from a single
// pre-ACID "original" file.
type RowFileReader interface {
	// Stripes reports the reader's stripe layout in file order.
	Stripes() []StripeInfo
	// NumRows is the total row count of the file.
	NumRows() int64
	// HasNext reports whether another row remains.
	HasNext() bool
	// RowNumber is the file-global row number of the row HasNext just
	// reported as available (predicate-pushdown aware: it reflects the
	// reader's true position, not a count of rows actually returned).
	RowNumber() int64
	// NextRow reads the next raw row, reusing dst's storage where
	// possible.
	NextRow(dst interface{}) (interface{}, error)
	// Columns reports the number of columns in the row schema.
	Columns() int
	// Close releases the reader. Idempotent.
	Close() error
}
