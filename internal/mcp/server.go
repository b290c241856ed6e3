// Package mcp provides an MCP (Model Context Protocol) server for vlist.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/juanibiapina/vlist/internal/scenario"
	"github.com/juanibiapina/vlist/internal/store"
	"github.com/juanibiapina/vlist/internal/telemetry"
)

// Server wraps the MCP server with vlist-specific functionality.
type Server struct {
	mcpServer *server.MCPServer
	openStore func() (*store.Store, error)
	tools     []mcp.Tool
}

// Option configures a Server
type Option func(*Server)

// WithStore replaces the default run store opener
func WithStore(open func() (*store.Store, error)) Option {
	return func(s *Server) {
		s.openStore = open
	}
}

// NewServer creates a new MCP server for vlist.
func NewServer(version string, opts ...Option) *Server {
	s := &Server{openStore: store.OpenDefault}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = server.NewMCPServer(
		"vlist",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.registerTools()

	return s
}

// Serve starts the MCP server on stdio.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// HandleMessage processes one JSON-RPC message without a transport.
func (s *Server) HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	return s.mcpServer.HandleMessage(ctx, message)
}

// ListToolNames returns the names of the registered tools, sorted.
func (s *Server) ListToolNames() []string {
	names := make([]string, 0, len(s.tools))
	for _, t := range s.tools {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// ToolParams returns the sorted input property names of a tool, or nil for
// an unknown tool.
func (s *Server) ToolParams(name string) []string {
	for _, t := range s.tools {
		if t.Name != name {
			continue
		}
		params := make([]string, 0, len(t.InputSchema.Properties))
		for p := range t.InputSchema.Properties {
			params = append(params, p)
		}
		sort.Strings(params)
		return params
	}
	return nil
}

func (s *Server) registerTools() {
	s.registerRun()
	s.registerRuns()
	s.registerEvents()
	s.registerSnapshot()
	s.registerReplay()
}

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.tools = append(s.tools, tool)
	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		telemetry.MCPToolCall(tool.Name)
		return handler(ctx, request)
	})
}

// jsonResult marshals a result to JSON and returns it as a tool result.
func jsonResult(result any) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

// registerRun registers the vlist_run tool.
func (s *Server) registerRun() {
	tool := mcp.NewTool("vlist_run",
		mcp.WithDescription("Run a layout scenario against the list engine and return the final geometry"),
		mcp.WithString("path",
			mcp.Description("Path to a scenario YAML file"),
		),
		mcp.WithString("scenario",
			mcp.Description("Inline scenario YAML, used when path is empty"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Store the run so it can be inspected and replayed later (default: false)"),
		),
	)

	s.addTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := request.GetString("path", "")
		inline := request.GetString("scenario", "")

		var (
			sc  *scenario.Scenario
			err error
		)
		switch {
		case path != "":
			sc, err = scenario.Load(path)
		case inline != "":
			sc, err = scenario.Parse([]byte(inline))
		default:
			return mcp.NewToolResultError("either path or scenario is required"), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		res, err := scenario.Run(ctx, sc)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("run failed: %v", err)), nil
		}
		telemetry.ScenarioRun(res.Snapshot.LayoutType, res.Binding, len(res.Snapshot.Items), res.Steps, len(res.Errors), res.Duration)

		response := map[string]any{"summary": res.Summary()}
		if request.GetBool("save", false) {
			st, err := s.openStore()
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to open run store: %v", err)), nil
			}
			defer st.Close()
			id, err := st.SaveResult(sc, res)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to save run: %v", err)), nil
			}
			response["run_id"] = id
		}

		return jsonResult(response)
	})
}

// registerRuns registers the vlist_runs tool.
func (s *Server) registerRuns() {
	tool := mcp.NewTool("vlist_runs",
		mcp.WithDescription("List stored scenario runs, newest first"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of runs to return (default: all)"),
		),
	)

	s.addTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 0)

		st, err := s.openStore()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to open run store: %v", err)), nil
		}
		defer st.Close()

		runs, err := st.ListRuns(limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list runs: %v", err)), nil
		}
		if runs == nil {
			runs = []*store.Run{}
		}
		return jsonResult(map[string]any{"runs": runs})
	})
}

// registerEvents registers the vlist_events tool.
func (s *Server) registerEvents() {
	tool := mcp.NewTool("vlist_events",
		mcp.WithDescription("Show the host records (binds, events, errors) of a stored run"),
		mcp.WithString("run_id",
			mcp.Required(),
			mcp.Description("Run ID or unique prefix"),
		),
		mcp.WithString("name",
			mcp.Description("Only records with this name, e.g. scroll or scrolltolower"),
		),
		mcp.WithString("kind",
			mcp.Description("Only records of this kind: event, bind, enqueue, scroll_info or error"),
		),
	)

	s.addTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		runID, err := request.RequireString("run_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		st, err := s.openStore()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to open run store: %v", err)), nil
		}
		defer st.Close()

		run, err := st.GetRun(runID)
		if err != nil {
			return runError(runID, err), nil
		}
		events, err := st.GetEvents(run.ID, store.EventFilter{
			Name: request.GetString("name", ""),
			Kind: request.GetString("kind", ""),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read events: %v", err)), nil
		}
		if events == nil {
			events = []store.Event{}
		}
		return jsonResult(map[string]any{"run_id": run.ID, "events": events})
	})
}

// registerSnapshot registers the vlist_snapshot tool.
func (s *Server) registerSnapshot() {
	tool := mcp.NewTool("vlist_snapshot",
		mcp.WithDescription("Show the final item geometry stored with a run"),
		mcp.WithString("run_id",
			mcp.Required(),
			mcp.Description("Run ID or unique prefix"),
		),
	)

	s.addTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		runID, err := request.RequireString("run_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		st, err := s.openStore()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to open run store: %v", err)), nil
		}
		defer st.Close()

		run, err := st.GetRun(runID)
		if err != nil {
			return runError(runID, err), nil
		}
		if len(run.Snapshot) == 0 {
			return mcp.NewToolResultError(fmt.Sprintf("run %s has no snapshot", run.ID)), nil
		}
		return mcp.NewToolResultText(string(run.Snapshot)), nil
	})
}

// registerReplay registers the vlist_replay tool.
func (s *Server) registerReplay() {
	tool := mcp.NewTool("vlist_replay",
		mcp.WithDescription("Run a stored scenario again and compare the result with the stored snapshot"),
		mcp.WithString("run_id",
			mcp.Required(),
			mcp.Description("Run ID or unique prefix"),
		),
	)

	s.addTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		runID, err := request.RequireString("run_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		st, err := s.openStore()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to open run store: %v", err)), nil
		}
		defer st.Close()

		replay, err := st.Replay(ctx, runID)
		if err != nil {
			return runError(runID, err), nil
		}
		return jsonResult(map[string]any{
			"run_id":  replay.RunID,
			"match":   replay.Match,
			"diff":    replay.Diff,
			"summary": replay.Result.Summary(),
		})
	})
}

func runError(runID string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, store.ErrRunNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("run not found: %s", runID))
	case errors.Is(err, store.ErrAmbiguousRun):
		return mcp.NewToolResultError(fmt.Sprintf("run id %s matches more than one run", runID))
	default:
		return mcp.NewToolResultError(err.Error())
	}
}
