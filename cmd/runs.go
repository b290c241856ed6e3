package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/juanibiapina/vlist/internal/store"
	"github.com/spf13/cobra"
)

var (
	runsJSON  bool
	runsLimit int
	pruneKeep int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show stored scenario runs",
	Long: `Show the scenario runs stored with 'vlist run --save', newest first.

Output format:
  <run_id>  <started>  <layout>  <steps>  <duration>  <status>

Where:
  run_id:   First 8 characters of the run id (any unique prefix works)
  started:  When the run started (relative time)
  status:   ✓ for a clean run, ✗ (N) when N steps were rejected

Subcommands:
  runs delete <run_id>    Delete a run and its events
  runs prune --keep N     Delete all but the newest N runs

Exit codes:
  0: Success
  1: Error (store not readable)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.OpenDefault()
		if err != nil {
			return fmt.Errorf("failed to open run store: %w", err)
		}
		defer st.Close()

		runs, err := st.ListRuns(runsLimit)
		if err != nil {
			return err
		}

		// If no runs, print message (unless JSON output)
		if len(runs) == 0 {
			if runsJSON {
				fmt.Fprintln(cmd.OutOrStdout(), "[]")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs found")
			}
			return nil
		}

		if runsJSON {
			return writeJSON(cmd.OutOrStdout(), runs)
		}

		for _, run := range runs {
			status := "✓"
			switch {
			case run.Status != store.StatusFinished:
				status = "◉"
			case run.ErrorCount > 0:
				status = fmt.Sprintf("✗ (%d)", run.ErrorCount)
			}
			name := run.Name
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s  %-20s  %-10s  %3d steps  %-8s  %s\n",
				shortID(run.ID), formatRelativeTime(run.StartedAt), name, run.LayoutType,
				run.StepCount, formatDuration(time.Duration(run.DurationNs)), status)
		}

		return nil
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:               "delete <run_id>",
	Short:             "Delete a stored run and its events",
	ValidArgsFunction: completeRunIDs,
	Args:              cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.OpenDefault()
		if err != nil {
			return fmt.Errorf("failed to open run store: %w", err)
		}
		defer st.Close()

		run, err := st.GetRun(args[0])
		if err != nil {
			return err
		}
		if err := st.DeleteRun(run.ID); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", shortID(run.ID))
		return nil
	},
}

var runsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pruneKeep < 0 {
			return fmt.Errorf("--keep must not be negative, got %d", pruneKeep)
		}
		st, err := store.OpenDefault()
		if err != nil {
			return fmt.Errorf("failed to open run store: %w", err)
		}
		defer st.Close()

		removed, err := st.PruneRuns(pruneKeep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", pluralRuns(removed))
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func pluralRuns(n int) string {
	if n == 1 {
		return "1 run"
	}
	return strconv.Itoa(n) + " runs"
}

func init() {
	RootCmd.AddCommand(runsCmd)
	runsCmd.Flags().BoolVar(&runsJSON, "json", false, "Output in JSON format")
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 0, "Show at most this many runs")
	runsCmd.AddCommand(runsDeleteCmd)
	runsCmd.AddCommand(runsPruneCmd)
	runsPruneCmd.Flags().IntVar(&pruneKeep, "keep", 20, "Number of newest runs to keep")
}
