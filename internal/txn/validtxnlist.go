// Package txn provides the transaction-visibility oracle the merge engine
// filters events against, plus a memoizing wrapper for it. The oracle
// itself is supplied by the caller (it reflects the table's live
// transaction state); this package only adds a thin caching layer in front
// of it.
package txn

// ValidTxnList decides which transaction ids are visible to the current
// read snapshot. It is supplied by the caller.
type ValidTxnList interface {
	IsValid(txnID int64) bool
}

// Func adapts a plain function to ValidTxnList.
type Func func(txnID int64) bool

// IsValid implements ValidTxnList.
func (f Func) IsValid(txnID int64) bool { return f(txnID) }

// Memoized wraps a ValidTxnList with a cache of past answers. The merge
// engine is single-threaded and pull-driven, so a plain map needs no
// locking; the cache exists because a hot row's history can re-query the
// same handful of transaction ids many times within one split.
type Memoized struct {
	underlying ValidTxnList
	cache      map[int64]bool
}

// NewMemoized wraps underlying with an unsynchronized answer cache.
func NewMemoized(underlying ValidTxnList) *Memoized {
	return &Memoized{underlying: underlying, cache: make(map[int64]bool)}
}

// IsValid implements ValidTxnList.
func (m *Memoized) IsValid(txnID int64) bool {
	if v, ok := m.cache[txnID]; ok {
		return v
	}
	v := m.underlying.IsValid(txnID)
	m.cache[txnID] = v
	return v
}
