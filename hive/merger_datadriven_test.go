package hive

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/fwelsch-hortonworks/hive/internal/base"
	"github.com/fwelsch-hortonworks/hive/internal/txn"
)

// TestMergerDataDriven drives Merger across hand-written event scenarios,
// following the define-then-rerun shape pebble's own merging_iter_test.go
// uses: "define" records the statement files as text, and each "merge"
// command rebuilds a fresh Merger from that text and prints its output, so
// a single definition can be replayed under several collapse/invalid-txn
// settings.
func TestMergerDataDriven(t *testing.T) {
	var statementFiles [][]base.Event
	datadriven.RunTest(t, "testdata/merger", func(t *testing.T, d *datadriven.TestData) string {
		switch d.Cmd {
		case "define":
			statementFiles = nil
			for _, block := range strings.Split(d.Input, "\n\n") {
				var events []base.Event
				for _, line := range strings.Split(block, "\n") {
					line = strings.TrimSpace(line)
					if line == "" {
						continue
					}
					evt, err := parseEventLine(line)
					if err != nil {
						t.Fatalf("%s", err)
					}
					events = append(events, evt)
				}
				statementFiles = append(statementFiles, events)
			}
			return ""

		case "merge":
			collapse := false
			var invalid []int64
			for _, arg := range d.CmdArgs {
				switch arg.Key {
				case "collapse":
					collapse = true
				case "invalid":
					for _, v := range arg.Vals {
						n, err := strconv.ParseInt(v, 10, 64)
						if err != nil {
							t.Fatalf("parsing invalid txn id %q: %s", v, err)
						}
						invalid = append(invalid, n)
					}
				}
			}
			valid := txn.Func(func(txnID int64) bool {
				for _, n := range invalid {
					if n == txnID {
						return false
					}
				}
				return true
			})

			m := newTestMerger(t, collapse, valid, statementFiles...)
			events := drain(t, m)

			var sb strings.Builder
			for _, evt := range events {
				fmt.Fprintf(&sb, "%s row=%d cur=%d", evt.Operation, evt.RowID, evt.CurrentTxn)
				if evt.Operation != base.OperationDelete {
					fmt.Fprintf(&sb, " val=%v", evt.Row)
				}
				sb.WriteByte('\n')
			}
			return sb.String()

		default:
			return fmt.Sprintf("unknown command: %s", d.Cmd)
		}
	})
}

// parseEventLine parses one "define" line of the form
// "<op> row=<id> txn=<originalTxn> cur=<currentTxn> [val=<value>]".
func parseEventLine(line string) (base.Event, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return base.Event{}, errNoFields
	}
	var row, origTxn, curTxn int64
	var val string
	for _, f := range fields[1:] {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			return base.Event{}, fmt.Errorf("malformed field %q", f)
		}
		var err error
		switch k {
		case "row":
			row, err = strconv.ParseInt(v, 10, 64)
		case "txn":
			origTxn, err = strconv.ParseInt(v, 10, 64)
		case "cur":
			curTxn, err = strconv.ParseInt(v, 10, 64)
		case "val":
			val = v
		default:
			return base.Event{}, fmt.Errorf("unknown field %q", k)
		}
		if err != nil {
			return base.Event{}, fmt.Errorf("parsing field %q: %w", f, err)
		}
	}

	switch fields[0] {
	case "insert":
		return insertEvt(origTxn, row, curTxn, val), nil
	case "update":
		return updateEvt(origTxn, row, curTxn, val), nil
	case "delete":
		return deleteEvt(origTxn, row, curTxn), nil
	default:
		return base.Event{}, fmt.Errorf("unknown operation %q", fields[0])
	}
}

var errNoFields = fmt.Errorf("empty event line")
