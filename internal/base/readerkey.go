package base

import (
	"cmp"
	"fmt"

	"github.com/cockroachdb/redact"
)

// ReaderKey extends RecordIdentifier with the currentTxnID and statementID
// of the event that produced it. It is the sort key of the merge: ascending
// on the RecordIdentifier projection, but descending on CurrentTxnID and
// StatementID. The descending tail means that when several events touch the
// same row, the most recent mutation of it sorts first -- a collapsing
// consumer can emit the head of a run of equal-row keys and skip the rest.
type ReaderKey struct {
	RecordIdentifier
	CurrentTxnID int64
	StatementID  int32
}

// MakeReaderKey constructs a ReaderKey from its five fields.
func MakeReaderKey(originalTxnID int64, bucket int32, rowID, currentTxnID int64, statementID int32) ReaderKey {
	return ReaderKey{
		RecordIdentifier: MakeRecordIdentifier(originalTxnID, bucket, rowID),
		CurrentTxnID:     currentTxnID,
		StatementID:      statementID,
	}
}

// SetAll overwrites every field of k in place. Cursors call this on every
// Next() to update their head key without allocating a new ReaderKey.
func (k *ReaderKey) SetAll(originalTxnID int64, bucket int32, rowID, currentTxnID int64, statementID int32) {
	k.OriginalTxnID = originalTxnID
	k.BucketProperty = bucket
	k.RowID = rowID
	k.CurrentTxnID = currentTxnID
	k.StatementID = statementID
}

// Set copies every field of other into k.
func (k *ReaderKey) Set(other ReaderKey) {
	*k = other
}

// CompareRow compares only the RecordIdentifier projection of two
// ReaderKeys (OriginalTxnID, BucketProperty, RowID), ignoring CurrentTxnID
// and StatementID. This is the comparison KeyInterval range checks use.
func (k ReaderKey) CompareRow(other RecordIdentifier) int {
	return k.RecordIdentifier.Compare(other)
}

// Compare orders two ReaderKeys: ascending on the RecordIdentifier
// projection, then descending on CurrentTxnID, then descending on
// StatementID.
func (k ReaderKey) Compare(other ReaderKey) int {
	if c := k.RecordIdentifier.Compare(other.RecordIdentifier); c != 0 {
		return c
	}
	if c := cmp.Compare(other.CurrentTxnID, k.CurrentTxnID); c != 0 {
		return c
	}
	return cmp.Compare(other.StatementID, k.StatementID)
}

// CompareToRecordIdentifier compares k against a bare RecordIdentifier. When
// the RecordIdentifier projections are equal, the ReaderKey sorts before the
// bare identifier: a ReaderKey always ranks lower than an otherwise-equal
// non-ReaderKey bound, so a maxKey expressed as a bare RecordIdentifier
// still includes every ReaderKey sharing its row.
func (k ReaderKey) CompareToRecordIdentifier(other RecordIdentifier) int {
	if c := k.RecordIdentifier.Compare(other); c != 0 {
		return c
	}
	return -1
}

// Equal reports whether every field of k and other agree, consistent with
// Compare (StatementID participates in both).
func (k ReaderKey) Equal(other ReaderKey) bool {
	return k.Compare(other) == 0 &&
		k.CurrentTxnID == other.CurrentTxnID && k.StatementID == other.StatementID
}

// IsSameRow reports whether k and other name the same row under the same
// transaction: a single multi-statement transaction mutating one row more
// than once. Such runs must always collapse to their head, regardless of
// the Merger's collapse setting.
func (k ReaderKey) IsSameRow(other ReaderKey) bool {
	return k.CompareRow(other.RecordIdentifier) == 0 && k.CurrentTxnID == other.CurrentTxnID
}

// String implements fmt.Stringer.
func (k ReaderKey) String() string {
	return fmt.Sprintf("{originalTxn: %d, bucket: %d, row: %d, currentTxn: %d, stmt: %d}",
		k.OriginalTxnID, k.BucketProperty, k.RowID, k.CurrentTxnID, k.StatementID)
}

// SafeFormat implements redact.SafeFormatter so ReaderKey can be logged
// without risk of leaking payload bytes (which never appear in the key).
func (k ReaderKey) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("{originalTxn: %d, bucket: %d, row: %d, currentTxn: %d, stmt: %d}",
		k.OriginalTxnID, k.BucketProperty, k.RowID, k.CurrentTxnID, k.StatementID)
}
