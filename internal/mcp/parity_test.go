package mcp_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/juanibiapina/vlist/cmd"
	"github.com/juanibiapina/vlist/internal/mcp"
)

// Every top-level CLI command has an MCP tool named vlist_<command> (hyphens
// become underscores) taking the same inputs, unless it is listed below with
// a reason. Inputs are the command's flags plus its positional argument.

// cliOnlyCommands have no MCP tool
var cliOnlyCommands = map[string]string{
	"bench":      "Measures the CLI process itself; through MCP the numbers would include transport overhead",
	"completion": "Shell completion",
	"help":       "Built-in Cobra command",
	"logs":       "Follows a local log file until interrupted; a tool call must return",
	"mcp":        "Starts the MCP server itself",
	"tui":        "Interactive terminal UI",
}

// outputFlags change how the CLI prints, not what it computes
var outputFlags = map[string]bool{
	"json":  true,
	"trace": true,
	"items": true,
	"help":  true,
}

// positionalParams maps the argument placeholders of Use lines to tool
// parameters
var positionalParams = map[string]string{
	"<run_id>":        "run_id",
	"[scenario.yaml]": "path",
}

// mcpOnlyParams are tool parameters with no CLI counterpart
var mcpOnlyParams = map[string]string{
	"vlist_run.scenario": "Inline scenario YAML; the CLI reads scenarios from files",
}

func toolName(command string) string {
	return "vlist_" + strings.ReplaceAll(command, "-", "_")
}

// commandParams returns the sorted tool parameters a command's inputs map to
func commandParams(c *cobra.Command) []string {
	params := []string{}
	for _, field := range strings.Fields(c.Use)[1:] {
		if p, ok := positionalParams[field]; ok {
			params = append(params, p)
		}
	}
	c.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if !outputFlags[f.Name] {
			params = append(params, strings.ReplaceAll(f.Name, "-", "_"))
		}
	})
	sort.Strings(params)
	return params
}

func TestCLIMCPParity(t *testing.T) {
	server := mcp.NewServer("test")
	tools := make(map[string]bool)
	for _, name := range server.ListToolNames() {
		tools[name] = true
	}

	for _, c := range cmd.RootCmd.Commands() {
		if _, ok := cliOnlyCommands[c.Name()]; ok {
			continue
		}
		tool := toolName(c.Name())
		if !tools[tool] {
			t.Errorf("CLI command %q has no MCP tool %q: add the tool or list the command in cliOnlyCommands", c.Name(), tool)
			continue
		}
		delete(tools, tool)

		var toolParams []string
		for _, p := range server.ToolParams(tool) {
			if _, ok := mcpOnlyParams[tool+"."+p]; !ok {
				toolParams = append(toolParams, p)
			}
		}
		if diff := cmp.Diff(commandParams(c), toolParams); diff != "" {
			t.Errorf("inputs of %q and %q differ (-cli +mcp):\n%s", c.Name(), tool, diff)
		}
	}

	for tool := range tools {
		t.Errorf("MCP tool %q has no CLI command", tool)
	}
}

func TestExceptionsHaveReasons(t *testing.T) {
	for _, m := range []map[string]string{cliOnlyCommands, mcpOnlyParams} {
		for name, reason := range m {
			if reason == "" {
				t.Errorf("%q has no reason", name)
			}
		}
	}
}

func TestCommandParams(t *testing.T) {
	c := &cobra.Command{Use: "events <run_id>"}
	c.Flags().Bool("json", false, "")
	c.Flags().String("name", "", "")
	c.Flags().String("event-kind", "", "")

	want := []string{"event_kind", "name", "run_id"}
	if diff := cmp.Diff(want, commandParams(c)); diff != "" {
		t.Errorf("commandParams() (-want +got):\n%s", diff)
	}
	if got := toolName("layout-dump"); got != "vlist_layout_dump" {
		t.Errorf("toolName(layout-dump) = %q", got)
	}
}
