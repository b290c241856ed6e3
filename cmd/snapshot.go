package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/juanibiapina/vlist/internal/list"
	"github.com/juanibiapina/vlist/internal/store"
	"github.com/spf13/cobra"
)

var snapshotJSON bool

var snapshotCmd = &cobra.Command{
	Use:               "snapshot <run_id>",
	Short:             "Show the final item geometry of a stored run",
	ValidArgsFunction: completeRunIDs,
	Long: `Show the geometry stored at the end of a run: every attached item with
its column, position, size and bind status.

Markers:
  ◉  on screen
  ▪  pinned by sticky positioning`,
	Args: cobra.ExactArgs(1),
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
		if len(run.Snapshot) == 0 {
			return fmt.Errorf("run %s has no snapshot", shortID(run.ID))
		}

		var snap list.Snapshot
		if err := json.Unmarshal(run.Snapshot, &snap); err != nil {
			return fmt.Errorf("failed to decode snapshot: %w", err)
		}
		if snapshotJSON {
			return writeJSON(cmd.OutOrStdout(), snap)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  %s  span %d  viewport %.1f  offset %.1f  content %.1f\n",
			snap.LayoutType, snap.Orientation, snap.SpanCount, snap.ViewportSize, snap.ContentOffset, snap.ContentSize)
		printItems(out, snap)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "Output in JSON format")
}
