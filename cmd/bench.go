package cmd

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"github.com/spf13/cobra"

	"github.com/juanibiapina/vlist/internal/scenario"
)

var (
	benchItems int
	benchSteps int
	benchType  string
	benchSpan  int
	benchJSON  bool
)

// benchReport is the outcome of one bench run
type benchReport struct {
	LayoutType string        `json:"layout_type"`
	Items      int           `json:"items"`
	Steps      int           `json:"steps"`
	Total      time.Duration `json:"total_ns"`
	P50        time.Duration `json:"p50_ns"`
	P95        time.Duration `json:"p95_ns"`
	Max        time.Duration `json:"max_ns"`
	Binds      int           `json:"binds"`
	RSSBefore  uint64        `json:"rss_before"`
	RSSAfter   uint64        `json:"rss_after"`
	CPUSeconds float64       `json:"cpu_seconds"`
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure layout cost on a synthetic list",
	Long: `Lay out a synthetic list and scroll through it, timing every step.

Items get varied sizes so waterfall columns diverge. Each step jumps three
quarters of a viewport and wraps at the end of the content.

Reports step latency percentiles, how many binds the host served, and the
resident memory and CPU time of this process.

Examples:
  vlist bench
  vlist bench --type waterfall --span 3 --items 10000 --steps 2000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if benchItems < 0 || benchSteps < 0 {
			return fmt.Errorf("--items and --steps must not be negative")
		}
		sc := scenario.Synthetic(benchType, benchSpan, benchItems, benchSteps)
		if err := sc.Validate(); err != nil {
			return err
		}

		proc, err := process.NewProcess(int32(os.Getpid()))
		if err != nil {
			return fmt.Errorf("failed to inspect process: %w", err)
		}
		report := benchReport{LayoutType: benchType, Items: benchItems, Steps: len(sc.Steps)}
		if mem, err := proc.MemoryInfo(); err == nil {
			report.RSSBefore = mem.RSS
		}
		cpuBefore, _ := proc.Times()

		sess, err := scenario.NewSession(sc)
		if err != nil {
			return err
		}
		latencies := make([]time.Duration, 0, len(sc.Steps))
		start := time.Now()
		for _, step := range sc.Steps {
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			t := time.Now()
			_ = sess.Apply(step)
			latencies = append(latencies, time.Since(t))
		}
		report.Total = time.Since(start)
		report.Binds = sess.Host.Stats().Binds

		if mem, err := proc.MemoryInfo(); err == nil {
			report.RSSAfter = mem.RSS
		}
		if cpuAfter, err := proc.Times(); err == nil && cpuBefore != nil {
			report.CPUSeconds = (cpuAfter.User + cpuAfter.System) - (cpuBefore.User + cpuBefore.System)
		}

		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
		report.P50 = percentile(latencies, 0.50)
		report.P95 = percentile(latencies, 0.95)
		if n := len(latencies); n > 0 {
			report.Max = latencies[n-1]
		}

		out := cmd.OutOrStdout()
		if benchJSON {
			return writeJSON(out, report)
		}
		fmt.Fprintf(out, "%s  %d items  %d steps  %s total\n", report.LayoutType, report.Items, report.Steps, formatDuration(report.Total))
		fmt.Fprintf(out, "step p50 %s  p95 %s  max %s\n", formatDuration(report.P50), formatDuration(report.P95), formatDuration(report.Max))
		fmt.Fprintf(out, "binds %d  rss %s → %s  cpu %.2fs\n",
			report.Binds, formatBytes(report.RSSBefore), formatBytes(report.RSSAfter), report.CPUSeconds)
		return nil
	},
}

// percentile returns the q-th quantile of sorted durations
func percentile(sorted []time.Duration, q float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	i := int(q * float64(len(sorted)-1))
	return sorted[i]
}

func init() {
	RootCmd.AddCommand(benchCmd)
	benchCmd.Flags().IntVar(&benchItems, "items", 1000, "Number of items")
	benchCmd.Flags().IntVar(&benchSteps, "steps", 500, "Number of scroll steps after the first layout")
	benchCmd.Flags().StringVar(&benchType, "type", "single", "Layout type: single, flow or waterfall")
	benchCmd.Flags().IntVar(&benchSpan, "span", 2, "Column count for flow and waterfall")
	benchCmd.Flags().BoolVar(&benchJSON, "json", false, "Output in JSON format")
}
