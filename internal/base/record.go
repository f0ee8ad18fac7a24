// Package base holds the types shared across the merge engine: the
// composite sort keys, the event envelope, range helpers, and the small
// ambient interfaces (Logger) that every other package depends on.
package base

import "cmp"

// RecordIdentifier identifies a logical row across its entire history:
// the transaction that first inserted it, the bucket it lives in, and its
// row number within that bucket. It sorts lexicographically ascending on
// all three fields.
type RecordIdentifier struct {
	OriginalTxnID   int64
	BucketProperty  int32
	RowID           int64
}

// MakeRecordIdentifier constructs a RecordIdentifier from its three fields.
func MakeRecordIdentifier(originalTxnID int64, bucket int32, rowID int64) RecordIdentifier {
	return RecordIdentifier{OriginalTxnID: originalTxnID, BucketProperty: bucket, RowID: rowID}
}

// Compare orders two RecordIdentifiers lexicographically ascending on
// (OriginalTxnID, BucketProperty, RowID).
func (r RecordIdentifier) Compare(other RecordIdentifier) int {
	if c := cmp.Compare(r.OriginalTxnID, other.OriginalTxnID); c != 0 {
		return c
	}
	if c := cmp.Compare(r.BucketProperty, other.BucketProperty); c != 0 {
		return c
	}
	return cmp.Compare(r.RowID, other.RowID)
}

// WithRowID returns a copy of r with RowID replaced by rowID. Used by
// OriginalCursor to translate caller-supplied bounds into the bucket-global
// row numbering when a split targets a non-first physical file.
func (r RecordIdentifier) WithRowID(rowID int64) RecordIdentifier {
	r.RowID = rowID
	return r
}
