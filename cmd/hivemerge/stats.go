package main

import (
	"fmt"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/errors"
	"github.com/fwelsch-hortonworks/hive/internal/base"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// progressScale turns GetProgress's [0, 1] float into an integer percentage,
// the resolution hdrhistogram.RecordValue expects.
const progressScale = 100

func (h *hiveMergeT) runStats(cmd *cobra.Command, args []string) error {
	m, err := h.buildMerger()
	if err != nil {
		return err
	}
	defer m.Close()

	counts := map[base.Operation]int{}
	var progress []float64
	hist := hdrhistogram.New(0, progressScale, 3)

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
		counts[val.Operation]++
		p := m.GetProgress()
		progress = append(progress, p*100)
		if err := hist.RecordValue(int64(p * progressScale)); err != nil {
			return errors.Wrap(err, "hivemerge: recording progress sample")
		}
	}

	out := cmd.OutOrStdout()

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"operation", "count"})
	for _, op := range []base.Operation{base.OperationInsert, base.OperationUpdate, base.OperationDelete} {
		table.Append([]string{operationName(op), fmt.Sprintf("%d", counts[op])})
	}
	table.Render()

	fmt.Fprintf(out, "progress: mean=%.1f%% p50=%d%% p90=%d%% p99=%d%%\n",
		hist.Mean(), hist.ValueAtPercentile(50), hist.ValueAtPercentile(90), hist.ValueAtPercentile(99))

	if len(progress) > 1 {
		fmt.Fprintln(out, asciigraph.Plot(progress, asciigraph.Height(10)))
	}

	return nil
}
