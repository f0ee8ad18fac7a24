package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/fwelsch-hortonworks/hive/hive"
	"github.com/fwelsch-hortonworks/hive/internal/base"
	"github.com/fwelsch-hortonworks/hive/internal/cursor"
	"github.com/fwelsch-hortonworks/hive/internal/txn"
	"github.com/spf13/cobra"
)

// buildMerger assembles a Merger from h's flags. Shared by the merge and
// stats subcommands so both drive the exact same configuration.
func (h *hiveMergeT) buildMerger() (*hive.Merger, error) {
	dir := &jsonDirectory{originalFiles: h.originalFiles}

	invalid := make(map[int64]bool, len(h.invalidTxns))
	for _, id := range h.invalidTxns {
		invalid[id] = true
	}

	opts := hive.Options{
		CollapseEvents:   h.collapse,
		IsOriginal:       h.original,
		Bucket:           h.bucket,
		ValidTxnList:     txn.Func(func(id int64) bool { return !invalid[id] }),
		ReaderOptions:    cursor.ReadOptions{Offset: h.offset, MaxOffset: h.maxOffset},
		BasePath:         h.basePath,
		DeltaDirectories: h.deltaDirs,
		Compaction: hive.CompactionOptions{
			BucketPath:   h.basePath,
			CopyIndex:    h.copyIndex,
			IsCompacting: h.compacting,
		},
		Directory: dir,
		Metrics:   hive.NewMetrics("hivemerge", "cli"),
	}

	m, err := hive.NewMerger(opts)
	if err != nil {
		return nil, errors.Wrap(err, "hivemerge: building merger")
	}
	return m, nil
}

func (h *hiveMergeT) runMerge(cmd *cobra.Command, args []string) error {
	m, err := h.buildMerger()
	if err != nil {
		return err
	}
	defer m.Close()

	out := cmd.OutOrStdout()
	key := m.CreateKey()
	val := m.CreateValue()
	for {
		ok, err := m.Next(&key, &val)
		if err != nil {
			return errors.Wrap(err, "hivemerge: merging")
		}
		if !ok {
			break
		}
		fmt.Fprintln(out, formatEvent(&key, &val))
	}
	return nil
}

func formatEvent(key *base.ReaderKey, val *base.Event) string {
	return fmt.Sprintf("%-8s bucket=%d row=%d originalTxn=%d currentTxn=%d stmt=%d row=%v",
		operationName(val.Operation), val.Bucket, val.RowID, val.OriginalTxn, key.CurrentTxnID, key.StatementID, val.Row)
}
