// Command hivemerge is a debug CLI over the merge engine: it drives a
// Merger across a JSON-encoded fixture directory and prints either the
// merged event stream or a summary stats table, for manual inspection
// during development. It is not part of the merge engine's public contract.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newHiveMergeT().Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// hiveMergeT holds the command tree and the flags shared by its
// subcommands, following the struct-of-commands shape pebble's
// tool/manifest.go uses for its own CLI.
type hiveMergeT struct {
	Root  *cobra.Command
	Merge *cobra.Command
	Stats *cobra.Command

	bucket        int32
	basePath      string
	original      bool
	deltaDirs     []string
	originalFiles []string
	copyIndex     int
	compacting    bool
	collapse      bool
	offset        int64
	maxOffset     int64
	invalidTxns   []int64
}

func newHiveMergeT() *hiveMergeT {
	h := &hiveMergeT{}

	h.Root = &cobra.Command{
		Use:   "hivemerge",
		Short: "debug tooling for the ACID raw record merger",
	}
	h.Root.PersistentFlags().Int32Var(&h.bucket, "bucket", 0, "bucket number")
	h.Root.PersistentFlags().StringVar(&h.basePath, "base", "", "path to the base file (JSON fixture)")
	h.Root.PersistentFlags().BoolVar(&h.original, "original", false, "treat --base as a pre-ACID original file")
	h.Root.PersistentFlags().StringSliceVar(&h.deltaDirs, "deltas", nil, "delta directories, in any order")
	h.Root.PersistentFlags().StringSliceVar(&h.originalFiles, "original-files", nil, "every physical file of the logical bucket (original mode only)")
	h.Root.PersistentFlags().IntVar(&h.copyIndex, "copy-index", 0, "copy index of --base among --original-files")
	h.Root.PersistentFlags().BoolVar(&h.compacting, "compacting", false, "process the whole logical bucket as one pass (original mode only)")
	h.Root.PersistentFlags().BoolVar(&h.collapse, "collapse", false, "emit only the latest event per row")
	h.Root.PersistentFlags().Int64Var(&h.offset, "offset", 0, "split start offset")
	h.Root.PersistentFlags().Int64Var(&h.maxOffset, "max-offset", 1<<62, "split end offset")
	h.Root.PersistentFlags().Int64SliceVar(&h.invalidTxns, "invalid-txns", nil, "transaction ids to treat as invalid (aborted)")

	h.Merge = &cobra.Command{
		Use:   "merge",
		Short: "print the merged event stream",
		RunE:  h.runMerge,
	}
	h.Root.AddCommand(h.Merge)

	h.Stats = &cobra.Command{
		Use:   "stats",
		Short: "summarize the merged event stream",
		RunE:  h.runStats,
	}
	h.Root.AddCommand(h.Stats)

	return h
}
