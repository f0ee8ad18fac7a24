// Package layout implements the directory-layout helpers the merge engine
// needs from the table's on-disk structure: listing a bucket's original
// (pre-ACID) files, resolving a delta directory's bucket file and stats,
// and parsing copy indexes and statement identifiers out of names.
package layout

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/fwelsch-hortonworks/hive/internal/cursor"
	"golang.org/x/exp/slices"
)

// OriginalFile is one physical file of a logical pre-ACID bucket.
// CopyIndex is 0 for the file named "bbbbb_0" and N for
// "bbbbb_0_copy_N".
type OriginalFile struct {
	Path      string
	CopyIndex int
}

// AcidStats is a delta file's summary statistics, used to decide whether
// predicate pushdown is safe to forward to it.
type AcidStats struct {
	Deletes int64
	Updates int64
	Inserts int64
}

// HasMutations reports whether a delta contains any update or delete
// events, the condition under which pushing a search argument to it is
// unsafe.
func (s AcidStats) HasMutations() bool { return s.Deletes > 0 || s.Updates > 0 }

// ParsedDelta is the result of parsing a delta directory name.
type ParsedDelta struct {
	Path        string
	StatementID int32
}

// Directory abstracts enumeration of a table bucket's on-disk layout. A
// concrete implementation is provided by the columnar file format's own
// directory module; this interface is the minimal surface the merge engine
// needs from it.
type Directory interface {
	// OriginalFiles returns all original files for bucket, in the fixed
	// deterministic order (bbbbb_0, bbbbb_0_copy_1, ..., bbbbb_0_copy_N).
	OriginalFiles(bucket int32) ([]OriginalFile, error)
	// OpenOriginal opens the original file at path for sequential
	// row-at-a-time reads.
	OpenOriginal(path string, opts cursor.ReadOptions) (cursor.RowFileReader, error)
	// DeltaBucketFile resolves the path of bucket's file within a delta
	// directory. ok is false if the delta has no file for bucket.
	DeltaBucketFile(deltaDir string, bucket int32) (path string, ok bool, err error)
	// FlushLength reads a delta file's durably-flushed length marker.
	FlushLength(path string) (int64, error)
	// DeltaStats reads a delta file's ACID summary statistics.
	DeltaStats(path string) (AcidStats, error)
	// OpenEvent opens an ACID file (base or delta) for sequential event
	// reads, capped at maxLength bytes.
	OpenEvent(path string, maxLength int64, opts cursor.ReadOptions) (cursor.EventFileReader, error)
}

const copySuffix = "_copy_"

// ParseOriginalFilename extracts the copy index from an original file's
// base name: "bbbbb_0" is copy index 0, "bbbbb_0_copy_3" is copy index 3.
func ParseOriginalFilename(name string) (copyIndex int, err error) {
	if i := strings.Index(name, copySuffix); i >= 0 {
		n, err := strconv.Atoi(name[i+len(copySuffix):])
		if err != nil {
			return 0, errors.Wrapf(err, "layout: parsing copy index from %q", name)
		}
		return n, nil
	}
	return 0, nil
}

// ParseDelta parses a delta directory name of the form
// "delta_<minTxn>_<maxTxn>[_<statementId>]".
func ParseDelta(dirName string) (ParsedDelta, error) {
	base := dirName
	if i := strings.LastIndexByte(dirName, '/'); i >= 0 {
		base = dirName[i+1:]
	}
	parts := strings.Split(base, "_")
	if len(parts) < 3 || parts[0] != "delta" {
		return ParsedDelta{}, errors.Newf("layout: malformed delta directory name %q", dirName)
	}
	var statementID int32
	if len(parts) >= 4 {
		n, err := strconv.Atoi(parts[3])
		if err != nil {
			return ParsedDelta{}, errors.Wrapf(err, "layout: parsing statement id from %q", dirName)
		}
		statementID = int32(n)
	}
	return ParsedDelta{Path: dirName, StatementID: statementID}, nil
}

// SortOriginalFiles orders files deterministically: by copy index
// ascending, matching the fixed "bbbbb_0, bbbbb_0_copy_1, ..." layout the
// merge engine relies on for bucket-global row numbering.
func SortOriginalFiles(files []OriginalFile) {
	slices.SortFunc(files, func(a, b OriginalFile) bool {
		return a.CopyIndex < b.CopyIndex
	})
}

// BucketKey returns a stable hash (xxhash) of a bucket file's path.
func BucketKey(path string) uint64 {
	return xxhash.Sum64String(path)
}
