package cursor

import "github.com/fwelsch-hortonworks/hive/internal/base"

// DiscoverKeyBounds finds the key range covered by a split of a native ACID
// file (one that already carries a per-stripe key index). offset and
// maxOffset are the split's byte range, which usually lands on block
// boundaries rather than stripe boundaries.
func DiscoverKeyBounds(r EventFileReader, offset, maxOffset int64) (base.KeyInterval, error) {
	keyIndex, err := r.KeyIndex()
	if err != nil {
		return base.KeyInterval{}, err
	}

	firstStripe := 0
	stripeCount := 0
	isTail := true
	for _, stripe := range r.Stripes() {
		switch {
		case offset > stripe.Offset:
			firstStripe++
		case maxOffset > stripe.Offset:
			stripeCount++
		default:
			isTail = false
		}
		if !isTail {
			break
		}
	}

	var iv base.KeyInterval
	if firstStripe != 0 {
		k := keyIndex[firstStripe-1]
		iv.MinKey = &k
	}
	if !isTail {
		k := keyIndex[firstStripe+stripeCount-1]
		iv.MaxKey = &k
	}
	return iv, nil
}

// DiscoverOriginalKeyBounds finds the key range covered by a split of a
// pre-ACID "original" file, where no key index exists and keys must be
// synthesized from cumulative stripe row counts. bucket is the configured
// bucket number all rows of this file are reported under.
//
// Known limitation (HIVE-16953): if both offset and maxOffset fall within a
// single stripe, rowLength stays 0 and the computed maxKey equals minKey,
// yielding an empty window. Callers must tolerate this rather than treat it
// as an error.
func DiscoverOriginalKeyBounds(r RowFileReader, bucket int32, offset, maxOffset int64) base.KeyInterval {
	var rowOffset, rowLength int64
	isTail := true
	for _, stripe := range r.Stripes() {
		switch {
		case offset > stripe.Offset:
			rowOffset += stripe.NumRows
		case maxOffset > stripe.Offset:
			rowLength += stripe.NumRows
		default:
			isTail = false
		}
		if !isTail {
			break
		}
	}

	var iv base.KeyInterval
	if rowOffset > 0 {
		k := base.MakeRecordIdentifier(0, bucket, rowOffset-1)
		iv.MinKey = &k
	}
	if !isTail {
		k := base.MakeRecordIdentifier(0, bucket, rowOffset+rowLength-1)
		iv.MaxKey = &k
	}
	return iv
}
