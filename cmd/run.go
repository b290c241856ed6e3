package cmd

import (
	"fmt"

	"github.com/juanibiapina/vlist/internal/scenario"
	"github.com/juanibiapina/vlist/internal/store"
	"github.com/juanibiapina/vlist/internal/telemetry"
	"github.com/spf13/cobra"
)

var (
	runJSON  bool
	runSave  bool
	runTrace bool
	runItems bool
)

var runCmd = &cobra.Command{
	Use:   "run [scenario.yaml]",
	Short: "Run a layout scenario",
	Long: `Run a layout scenario against the list engine and print the result.

Without a file, runs the built-in scenario: a 360x640 single-column list of
200 items, laid out once.

Output shows the final content offset and size, the keys on screen, how
many of each event the list sent, and any step that was rejected.

Examples:
  vlist run scenarios/waterfall.yaml
  vlist run scenarios/sticky.yaml --items
  vlist run scenarios/insert-above.yaml --trace
  vlist run scenarios/deferred.yaml --save

Exit codes:
  0: Success (rejected steps are reported, not fatal)
  1: Error (unreadable or invalid scenario)`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc := scenario.Default()
		if len(args) == 1 {
			var err error
			sc, err = scenario.Load(args[0])
			if err != nil {
				return err
			}
		}

		res, err := scenario.Run(cmd.Context(), sc)
		if err != nil {
			return err
		}
		telemetry.ScenarioRun(res.Snapshot.LayoutType, res.Binding, len(res.Snapshot.Items), res.Steps, len(res.Errors), res.Duration)

		var runID string
		if runSave {
			st, err := store.OpenDefault()
			if err != nil {
				return fmt.Errorf("failed to open run store: %w", err)
			}
			defer st.Close()
			runID, err = st.SaveResult(sc, res)
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if runJSON {
			if runTrace || runItems {
				return writeJSON(out, res)
			}
			return writeJSON(out, struct {
				RunID string `json:"run_id,omitempty"`
				scenario.Summary
			}{runID, res.Summary()})
		}

		printSummary(out, res.Summary())
		if runItems {
			fmt.Fprintln(out)
			printItems(out, res.Snapshot)
		}
		if runTrace {
			fmt.Fprintln(out)
			printTrace(out, res.Trace)
		}
		if runID != "" {
			fmt.Fprintf(out, "saved run %s\n", runID)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Output in JSON format")
	runCmd.Flags().BoolVar(&runSave, "save", false, "Store the run for later inspection")
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "Print every host record")
	runCmd.Flags().BoolVar(&runItems, "items", false, "Print the attached items")
}
