package base

import "github.com/cockroachdb/redact"

// Operation is the kind of mutation an Event records.
type Operation int32

// The three ACID event kinds. Values are part of the on-disk envelope
// schema and must not be renumbered.
const (
	OperationInsert Operation = 0
	OperationUpdate Operation = 1
	OperationDelete Operation = 2
)

func (op Operation) String() string {
	switch op {
	case OperationInsert:
		return "INSERT"
	case OperationUpdate:
		return "UPDATE"
	case OperationDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// SafeFormat implements redact.SafeFormatter.
func (op Operation) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Print(redact.SafeString(op.String()))
}

// Event is the five-field ACID envelope plus its payload row. Row is
// whatever representation the caller's FileReader collaborator produces;
// the merge engine never interprets its contents, only the five leading
// fields.
type Event struct {
	Operation     Operation
	OriginalTxn   int64
	Bucket        int32
	RowID         int64
	CurrentTxn    int64
	Row           interface{}
}

// Key extracts the ReaderKey projection of an event, given the statement id
// of the source it was read from (statement id is not part of the on-disk
// envelope; it comes from the delta directory name).
func (e *Event) Key(statementID int32) ReaderKey {
	return MakeReaderKey(e.OriginalTxn, e.Bucket, e.RowID, e.CurrentTxn, statementID)
}

// SafeFormat implements redact.SafeFormatter. The payload Row is
// deliberately omitted: it is caller-defined and may contain sensitive
// column data that should never be redacted implicitly into a log line.
func (e *Event) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("{op: %s, originalTxn: %d, bucket: %d, row: %d, currentTxn: %d}",
		e.Operation, e.OriginalTxn, e.Bucket, e.RowID, e.CurrentTxn)
}
