package cmd

import (
	"strings"

	"github.com/juanibiapina/vlist/internal/store"
	"github.com/spf13/cobra"
)

// completeRunIDs provides completion for stored run IDs
func completeRunIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Only complete the first argument
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	st, err := store.OpenDefault()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer st.Close()

	runs, err := st.ListRuns(0)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var completions []string
	for _, run := range runs {
		if strings.HasPrefix(run.ID, toComplete) {
			// Format: runID\tname (tab-separated for description)
			completions = append(completions, run.ID+"\t"+run.Name)
		}
	}

	return completions, cobra.ShellCompDirectiveNoFileComp
}
