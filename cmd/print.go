package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/juanibiapina/vlist/internal/list"
	"github.com/juanibiapina/vlist/internal/scenario"
	"github.com/juanibiapina/vlist/internal/sim"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printSummary prints the outcome of a run in human-readable form
func printSummary(w io.Writer, sum scenario.Summary) {
	name := sum.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(w, "%s  %s  %s  %d steps  %s\n", name, sum.LayoutType, sum.Binding, sum.Steps, formatDuration(sum.Duration))
	fmt.Fprintf(w, "offset %.1f  content %.1f\n", sum.ContentOffset, sum.ContentSize)
	fmt.Fprintf(w, "visible: %s\n", strings.Join(sum.Visible, " "))

	if len(sum.Events) > 0 {
		names := make([]string, 0, len(sum.Events))
		for n := range sum.Events {
			names = append(names, n)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, n := range names {
			parts[i] = fmt.Sprintf("%s=%d", n, sum.Events[n])
		}
		fmt.Fprintf(w, "events: %s\n", strings.Join(parts, " "))
	}
	fmt.Fprintf(w, "host: %d binds  %d enqueued  %d live  %d pooled\n",
		sum.Stats.Binds, sum.Stats.Enqueued, sum.Stats.Live, sum.Stats.Pooled)

	for _, e := range sum.Errors {
		fmt.Fprintf(w, "✗ step %d: %s\n", e.Step, e.Message)
	}
}

// printItems prints the attached items of a snapshot, one per line
func printItems(w io.Writer, snap list.Snapshot) {
	for _, it := range snap.Items {
		if !it.Attached {
			continue
		}
		marker := " "
		switch {
		case it.Pinned:
			marker = "▪"
		case it.OnScreen:
			marker = "◉"
		}
		fmt.Fprintf(w, "%s %4d  %-8s  col %d  y %7.1f  h %6.1f  %s\n",
			marker, it.Index, it.Key, it.ColIndex, it.Frame.Y, it.Frame.Height, it.Status)
	}
}

// printRecord prints one host record
func printRecord(w io.Writer, step int, kind, name string, target int, detail map[string]any) {
	line := fmt.Sprintf("step %-3d  %-11s  %-26s  %d", step, kind, name, target)
	if len(detail) > 0 {
		if data, err := json.Marshal(detail); err == nil {
			line += "  " + string(data)
		}
	}
	fmt.Fprintln(w, line)
}

func printTrace(w io.Writer, trace []sim.Record) {
	for _, r := range trace {
		printRecord(w, r.Step, r.Kind, r.Name, r.Target, r.Detail)
	}
}
