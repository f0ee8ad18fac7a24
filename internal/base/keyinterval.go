package base

// KeyInterval is an open-lower, closed-upper window over RecordIdentifiers:
// a record k is in range iff (MinKey == nil || k > MinKey) && (MaxKey ==
// nil || k <= MaxKey), using the RecordIdentifier projection only (ignoring
// CurrentTxnID/StatementID).
type KeyInterval struct {
	MinKey *RecordIdentifier
	MaxKey *RecordIdentifier
}

// Contains reports whether k's RecordIdentifier projection falls within the
// interval.
func (iv KeyInterval) Contains(k ReaderKey) bool {
	if iv.MinKey != nil && k.CompareRow(*iv.MinKey) <= 0 {
		return false
	}
	if iv.MaxKey != nil && k.CompareRow(*iv.MaxKey) > 0 {
		return false
	}
	return true
}

// PastMax reports whether k's RecordIdentifier projection is strictly past
// the interval's upper bound, i.e. the cursor producing k should stop.
func (iv KeyInterval) PastMax(k ReaderKey) bool {
	return iv.MaxKey != nil && k.CompareRow(*iv.MaxKey) > 0
}

// AtOrBeforeMin reports whether k's RecordIdentifier projection is at or
// before the interval's exclusive lower bound, i.e. advanceToMinKey should
// keep skipping it.
func (iv KeyInterval) AtOrBeforeMin(k ReaderKey) bool {
	return iv.MinKey != nil && k.CompareRow(*iv.MinKey) <= 0
}
