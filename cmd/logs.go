package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/juanibiapina/vlist/internal/store"
	"github.com/juanibiapina/vlist/internal/tail"
	"github.com/spf13/cobra"
)

var (
	logsFollow bool
	logsMatch  string
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the engine and store debug log",
	Long: `Print the debug log written by the layout engine and the run store.

Logging is enabled with --log <file> or VLIST_LOG; with neither set, logs
reads the default log in the state directory, which VLIST_DEBUG=1 enables.

Example:
  # Run with logging, then read it
  VLIST_DEBUG=1 vlist run scroll.yaml
  vlist logs

  # Keep streaming store warnings
  vlist logs -f --match component=store,level=WARN

Flags:
  -f, --follow   Keep streaming new lines until Ctrl+C
      --match    Only lines containing all of these comma separated patterns`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveLogPath()
		if err != nil {
			return err
		}
		if path == "" {
			if path, err = store.GetLogPath(); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		err = tail.Follow(ctx, path, cmd.OutOrStdout(), tail.Options{
			Follow: logsFollow,
			Match:  tail.ParseMatch(logsMatch),
		})
		if os.IsNotExist(err) {
			return fmt.Errorf("no log at %s (enable it with --log, VLIST_LOG or VLIST_DEBUG=1)", path)
		}
		return err
	},
}

func init() {
	RootCmd.AddCommand(logsCmd)
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Keep streaming new lines")
	logsCmd.Flags().StringVar(&logsMatch, "match", "", "Only lines containing all of these comma separated patterns")
}
