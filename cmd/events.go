package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/juanibiapina/vlist/internal/store"
	"github.com/spf13/cobra"
)

var (
	eventsJSON bool
	eventsName string
	eventsKind string
)

var eventsCmd = &cobra.Command{
	Use:               "events <run_id>",
	Short:             "Show the host records of a stored run",
	ValidArgsFunction: completeRunIDs,
	Long: `Show what the list asked of the host during a stored run: binds,
enqueues, scroll info updates, events and errors, in order.

With --json, records are printed as JSON objects, one per line:
  {"run_id":"...","seq":12,"step":2,"kind":"event","name":"scroll","target":1,"detail":{...}}

Examples:
  vlist events 3f2a9c1b
  vlist events 3f2a --name scrolltolower
  vlist events 3f2a --kind bind --json`,
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
		events, err := st.GetEvents(run.ID, store.EventFilter{Name: eventsName, Kind: eventsKind})
		if err != nil {
			return err
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		for _, e := range events {
			if eventsJSON {
				if err := encoder.Encode(e); err != nil {
					return err
				}
				continue
			}
			printRecord(cmd.OutOrStdout(), e.Step, e.Kind, e.Name, e.Target, e.Detail)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "Output one JSON object per line")
	eventsCmd.Flags().StringVar(&eventsName, "name", "", "Only records with this name")
	eventsCmd.Flags().StringVar(&eventsKind, "kind", "", "Only records of this kind (event, bind, enqueue, scroll_info, error)")
}
