package telemetry

import "time"

// CLI

var cliCommandName string
var cliStartTime time.Time

func CLICommandStart(commandName string) {
	cliCommandName = commandName
	cliStartTime = time.Now()
}

func CLICommandEnd() {
	if cliCommandName == "" {
		return
	}
	durationMs := time.Since(cliStartTime).Milliseconds()
	send("cli_command_run", "command_name", cliCommandName, "duration_ms", durationMs)
}

// Scenarios

// ScenarioRun reports the shape of a finished run, never its content
func ScenarioRun(layoutType, binding string, items, steps, errors int, duration time.Duration) {
	send("scenario_run",
		"layout_type", layoutType,
		"binding", binding,
		"item_count", items,
		"step_count", steps,
		"error_count", errors,
		"duration_ms", duration.Milliseconds(),
	)
}

// MCP

func MCPToolCall(toolName string) {
	send("mcp_tool_call", "tool_name", toolName)
}

// TUI

var tuiStartTime time.Time

func TUISessionStart() {
	tuiStartTime = time.Now()
	send("tui_session_start")
}

func TUISessionEnd() {
	durationMs := time.Since(tuiStartTime).Milliseconds()
	send("tui_session_end", "duration_ms", durationMs)
}

func TUIActionExecute(actionName string) {
	send("tui_action_execute", "action_name", actionName)
}
