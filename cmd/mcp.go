package cmd

import (
	"github.com/juanibiapina/vlist/internal/mcp"
	"github.com/juanibiapina/vlist/internal/version"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server on stdio",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This allows AI agents to run layout scenarios and inspect stored runs
through the MCP protocol.

Example configuration for .mcp.json:
  {
    "mcpServers": {
      "vlist": {
        "command": "vlist",
        "args": ["mcp"]
      }
    }
  }`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(version.Version)
		return server.Serve()
	},
}

func init() {
	RootCmd.AddCommand(mcpCmd)
}
