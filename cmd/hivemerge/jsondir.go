package main

// jsonDirectory is a minimal, JSON-backed layout.Directory implementation.
// The real columnar file reader is an out-of-scope collaborator (see
// internal/cursor's package doc); this debug format exists only so the CLI
// has something concrete to drive a Merger against for manual inspection.
// Each ACID file is a JSON array of eventRecord; each original file is a
// JSON array of arbitrary row values.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fwelsch-hortonworks/hive/internal/base"
	"github.com/fwelsch-hortonworks/hive/internal/cursor"
	"github.com/fwelsch-hortonworks/hive/internal/layout"
)

type eventRecord struct {
	Operation   string      `json:"op"`
	OriginalTxn int64       `json:"originalTxn"`
	Bucket      int32       `json:"bucket"`
	RowID       int64       `json:"rowId"`
	CurrentTxn  int64       `json:"currentTxn"`
	Row         interface{} `json:"row"`
}

func parseOperation(s string) (base.Operation, error) {
	switch s {
	case "insert":
		return base.OperationInsert, nil
	case "update":
		return base.OperationUpdate, nil
	case "delete":
		return base.OperationDelete, nil
	default:
		return 0, errors.Newf("hivemerge: unknown operation %q", s)
	}
}

func operationName(op base.Operation) string {
	switch op {
	case base.OperationInsert:
		return "insert"
	case base.OperationUpdate:
		return "update"
	case base.OperationDelete:
		return "delete"
	default:
		return "unknown"
	}
}

func readEvents(path string) ([]eventRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "hivemerge: reading %q", path)
	}
	var records []eventRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(err, "hivemerge: parsing %q", path)
	}
	return records, nil
}

// jsonDirectory resolves the fixed set of original-file paths and
// delta directories the caller supplied on the command line.
type jsonDirectory struct {
	originalFiles []string
}

func (d *jsonDirectory) OriginalFiles(bucket int32) ([]layout.OriginalFile, error) {
	files := make([]layout.OriginalFile, 0, len(d.originalFiles))
	for _, path := range d.originalFiles {
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		idx, err := layout.ParseOriginalFilename(name)
		if err != nil {
			return nil, err
		}
		files = append(files, layout.OriginalFile{Path: path, CopyIndex: idx})
	}
	layout.SortOriginalFiles(files)
	return files, nil
}

func (d *jsonDirectory) OpenOriginal(path string, opts cursor.ReadOptions) (cursor.RowFileReader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "hivemerge: reading original file %q", path)
	}
	var rows []interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrapf(err, "hivemerge: parsing original file %q", path)
	}
	return &jsonRowFile{rows: rows}, nil
}

func (d *jsonDirectory) DeltaBucketFile(deltaDir string, bucket int32) (string, bool, error) {
	path := filepath.Join(deltaDir, fmt.Sprintf("bucket_%05d.json", bucket))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "hivemerge: stat %q", path)
	}
	return path, true, nil
}

func (d *jsonDirectory) FlushLength(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.Wrapf(err, "hivemerge: stat %q", path)
	}
	return info.Size(), nil
}

func (d *jsonDirectory) DeltaStats(path string) (layout.AcidStats, error) {
	records, err := readEvents(path)
	if err != nil {
		return layout.AcidStats{}, err
	}
	var stats layout.AcidStats
	for _, r := range records {
		switch r.Operation {
		case "insert":
			stats.Inserts++
		case "update":
			stats.Updates++
		case "delete":
			stats.Deletes++
		}
	}
	return stats, nil
}

func (d *jsonDirectory) OpenEvent(path string, maxLength int64, opts cursor.ReadOptions) (cursor.EventFileReader, error) {
	records, err := readEvents(path)
	if err != nil {
		return nil, err
	}
	return newJSONEventFile(records)
}

// jsonRowFile implements cursor.RowFileReader over an in-memory row slice,
// treating the whole file as one stripe (the debug format has no stripe
// boundaries of its own).
type jsonRowFile struct {
	rows []interface{}
	pos  int64
}

func (f *jsonRowFile) Stripes() []cursor.StripeInfo {
	return []cursor.StripeInfo{{Offset: 0, NumRows: int64(len(f.rows))}}
}
func (f *jsonRowFile) NumRows() int64   { return int64(len(f.rows)) }
func (f *jsonRowFile) HasNext() bool    { return f.pos < int64(len(f.rows)) }
func (f *jsonRowFile) RowNumber() int64 { return f.pos }
func (f *jsonRowFile) NextRow(dst interface{}) (interface{}, error) {
	row := f.rows[f.pos]
	f.pos++
	return row, nil
}
func (f *jsonRowFile) Columns() int { return 1 }
func (f *jsonRowFile) Close() error { return nil }

// jsonEventFile implements cursor.EventFileReader over an in-memory event
// slice, one stripe per file, with a key index of exactly the last record's
// key (matching the single-stripe Stripes() above).
type jsonEventFile struct {
	events   []base.Event
	keyIndex []base.RecordIdentifier
	pos      int
}

func newJSONEventFile(records []eventRecord) (*jsonEventFile, error) {
	events := make([]base.Event, len(records))
	for i, r := range records {
		op, err := parseOperation(r.Operation)
		if err != nil {
			return nil, err
		}
		events[i] = base.Event{
			Operation:   op,
			OriginalTxn: r.OriginalTxn,
			Bucket:      r.Bucket,
			RowID:       r.RowID,
			CurrentTxn:  r.CurrentTxn,
			Row:         r.Row,
		}
	}
	f := &jsonEventFile{events: events}
	if len(events) > 0 {
		last := events[len(events)-1]
		f.keyIndex = []base.RecordIdentifier{
			base.MakeRecordIdentifier(last.OriginalTxn, last.Bucket, last.RowID),
		}
	}
	return f, nil
}

func (f *jsonEventFile) Stripes() []cursor.StripeInfo {
	return []cursor.StripeInfo{{Offset: 0, NumRows: int64(len(f.events))}}
}
func (f *jsonEventFile) KeyIndex() ([]base.RecordIdentifier, error) { return f.keyIndex, nil }
func (f *jsonEventFile) HasNext() bool                              { return f.pos < len(f.events) }
func (f *jsonEventFile) NextEvent(dst *base.Event) error {
	*dst = f.events[f.pos]
	f.pos++
	return nil
}
func (f *jsonEventFile) Columns() int { return 1 }
func (f *jsonEventFile) Close() error { return nil }
