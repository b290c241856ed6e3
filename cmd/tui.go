package cmd

import (
	"github.com/juanibiapina/vlist/internal/scenario"
	"github.com/juanibiapina/vlist/internal/store"
	"github.com/juanibiapina/vlist/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [scenario.yaml]",
	Short: "Explore a scenario interactively",
	Long: `Open an interactive view of the list after running a scenario.

The left panel draws the viewport: every attached item as a box, pinned
items highlighted. The right panels list all items and the records the
host received. Scroll, insert, remove, resize and retype the list from the
keyboard; every action is a scenario step.

Press y to copy the session as a scenario file, or w to store it as a run.`,
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
		return tui.Start(sc, store.OpenDefault)
	},
}

func init() {
	RootCmd.AddCommand(tuiCmd)
}
