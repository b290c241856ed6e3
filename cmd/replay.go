package cmd

import (
	"errors"
	"fmt"

	"github.com/juanibiapina/vlist/internal/store"
	"github.com/spf13/cobra"
)

var replayJSON bool

// errReplayMismatch makes replay exit non-zero without printing twice
var errReplayMismatch = errors.New("replay does not match the stored snapshot")

var replayCmd = &cobra.Command{
	Use:               "replay <run_id>",
	Short:             "Run a stored scenario again and compare",
	ValidArgsFunction: completeRunIDs,
	Long: `Run the scenario of a stored run again and compare the final geometry with
the stored snapshot. Layout is deterministic, so a difference means the
engine changed behavior since the run was saved.

Exit codes:
  0: Snapshot matches
  1: Snapshot differs, or the run could not be loaded`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.OpenDefault()
		if err != nil {
			return fmt.Errorf("failed to open run store: %w", err)
		}
		defer st.Close()

		replay, err := st.Replay(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if replayJSON {
			if err := writeJSON(out, replay); err != nil {
				return err
			}
		} else if replay.Match {
			fmt.Fprintf(out, "✓ run %s matches\n", shortID(replay.RunID))
		} else {
			fmt.Fprintf(out, "✗ run %s differs (-stored +replayed):\n%s", shortID(replay.RunID), replay.Diff)
		}

		if !replay.Match {
			cmd.SilenceErrors = true
			return errReplayMismatch
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "Output in JSON format")
}
