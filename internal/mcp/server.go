// Package mcp provides an MCP (Model Context Protocol) server for eqg.
// This allows AI agents to render ownership diagrams through MCP tools
// instead of CLI commands.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hargabyte/eqg/internal/config"
	"github.com/hargabyte/eqg/internal/dataset"
	"github.com/hargabyte/eqg/internal/graph"
	"github.com/hargabyte/eqg/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server with eqg-specific functionality
type Server struct {
	mcpServer    *server.MCPServer
	store        *store.Store
	cfg          *config.Config
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
}

// Config holds server configuration
type Config struct {
	WorkDir string        // Directory to resolve .eqg from (empty = cwd)
	Tools   []string      // Which tools to expose (empty = all)
	Timeout time.Duration // Inactivity timeout (0 = no timeout)
}

// DefaultTools is the default set of tools to expose
var DefaultTools = []string{"eqg_render", "eqg_graph", "eqg_inspect", "eqg_datasets"}

// AllTools lists all available tools
var AllTools = []string{"eqg_render", "eqg_graph", "eqg_inspect", "eqg_datasets"}

// New creates a new MCP server for eqg
func New(cfg Config) (*Server, error) {
	workDir := cfg.WorkDir
	if workDir == "" {
		workDir = "."
	}

	renderCfg, err := config.Load(workDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// The dataset library is optional: without a .eqg directory, tools
	// that take inline data still work.
	var storeDB *store.Store
	if configDir, err := config.FindConfigDir(workDir); err == nil {
		storeDB, err = store.Open(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
	}

	mcpServer := server.NewMCPServer(
		"eqg",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer:    mcpServer,
		store:        storeDB,
		cfg:          renderCfg,
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
	}

	toolsToRegister := cfg.Tools
	if len(toolsToRegister) == 0 {
		toolsToRegister = DefaultTools
	}

	for _, toolName := range toolsToRegister {
		if err := s.registerTool(toolName); err != nil {
			if storeDB != nil {
				storeDB.Close()
			}
			return nil, fmt.Errorf("failed to register tool %s: %w", toolName, err)
		}
		s.tools[toolName] = true
	}

	return s, nil
}

// registerTool registers a single tool with the MCP server
func (s *Server) registerTool(name string) error {
	switch name {
	case "eqg_render":
		return s.registerRenderTool()
	case "eqg_graph":
		return s.registerGraphTool()
	case "eqg_inspect":
		return s.registerInspectTool()
	case "eqg_datasets":
		return s.registerDatasetsTool()
	default:
		return fmt.Errorf("unknown tool: %s", name)
	}
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	if s.timeout > 0 {
		go s.timeoutChecker()
	}

	return server.ServeStdio(s.mcpServer)
}

// timeoutChecker monitors for inactivity and exits if timeout exceeded
func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			fmt.Fprintf(os.Stderr, "eqg serve: timeout after %v of inactivity\n", s.timeout)
			os.Exit(0)
		}
	}
}

// updateActivity updates the last activity timestamp
func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// Close closes the server and its resources
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// ListTools returns the list of registered tools
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for t := range s.tools {
		tools = append(tools, t)
	}
	return tools
}

// ToolSchema describes a tool's name, description, and parameters.
type ToolSchema struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Parameters  []ParameterSchema `json:"parameters" yaml:"parameters"`
}

// ParameterSchema describes a single tool parameter.
type ParameterSchema struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

// toolSchemaRegistry holds the schema definitions for all tools.
// These mirror the mcp.NewTool() definitions in the register*Tool() functions.
var toolSchemaRegistry = map[string]ToolSchema{
	"eqg_render": {
		Name:        "eqg_render",
		Description: "Render an ownership dataset as a diagram. Returns Mermaid flowchart text or vis.js node/edge JSON.",
		Parameters: []ParameterSchema{
			{Name: "data", Type: "string", Description: "Inline dataset as JSON or YAML text"},
			{Name: "name", Type: "string", Description: "Name of a stored dataset to render instead of inline data"},
			{Name: "format", Type: "string", Description: "Output format: mermaid or visjs (default: mermaid)"},
			{Name: "direction", Type: "string", Description: "Mermaid flow direction: TD or LR"},
		},
	},
	"eqg_graph": {
		Name:        "eqg_graph",
		Description: "Compile an ownership dataset into its graph structure. Returns nodes with levels and positions, equity and control edges, convergence state, and issues.",
		Parameters: []ParameterSchema{
			{Name: "data", Type: "string", Description: "Inline dataset as JSON or YAML text"},
			{Name: "name", Type: "string", Description: "Name of a stored dataset to compile instead of inline data"},
		},
	},
	"eqg_inspect": {
		Name:        "eqg_inspect",
		Description: "Inspect a single entity within a dataset: style class, level, metadata, and incident relationships.",
		Parameters: []ParameterSchema{
			{Name: "entity", Type: "string", Description: "Entity name to inspect", Required: true},
			{Name: "data", Type: "string", Description: "Inline dataset as JSON or YAML text"},
			{Name: "name", Type: "string", Description: "Name of a stored dataset to inspect instead of inline data"},
		},
	},
	"eqg_datasets": {
		Name:        "eqg_datasets",
		Description: "List datasets stored in the .eqg library.",
		Parameters:  []ParameterSchema{},
	},
}

// GetToolSchemas returns schemas for all registered tools.
func (s *Server) GetToolSchemas() []ToolSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schemas := make([]ToolSchema, 0, len(s.tools))
	for name := range s.tools {
		if schema, ok := toolSchemaRegistry[name]; ok {
			schemas = append(schemas, schema)
		}
	}
	return schemas
}

// CallTool dispatches a tool call by name with the given arguments.
// Returns the result string or an error.
func (s *Server) CallTool(name string, args map[string]interface{}) (string, error) {
	s.mu.RLock()
	registered := s.tools[name]
	s.mu.RUnlock()

	if !registered {
		return "", fmt.Errorf("unknown tool: %s (run 'eqg call --list' to see available tools)", name)
	}

	switch name {
	case "eqg_render":
		data, _ := args["data"].(string)
		dsName, _ := args["name"].(string)
		format, _ := args["format"].(string)
		direction, _ := args["direction"].(string)
		return s.executeRender(data, dsName, format, direction)

	case "eqg_graph":
		data, _ := args["data"].(string)
		dsName, _ := args["name"].(string)
		return s.executeGraph(data, dsName)

	case "eqg_inspect":
		entity, _ := args["entity"].(string)
		if entity == "" {
			return "", fmt.Errorf("entity parameter is required")
		}
		data, _ := args["data"].(string)
		dsName, _ := args["name"].(string)
		return s.executeInspect(entity, data, dsName)

	case "eqg_datasets":
		return s.executeDatasets()

	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// registerRenderTool registers the eqg_render tool
func (s *Server) registerRenderTool() error {
	tool := mcp.NewTool("eqg_render",
		mcp.WithDescription("Render an ownership dataset as a diagram. Returns Mermaid flowchart text or vis.js node/edge JSON."),
		mcp.WithString("data",
			mcp.Description("Inline dataset as JSON or YAML text"),
		),
		mcp.WithString("name",
			mcp.Description("Name of a stored dataset to render instead of inline data"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: mermaid or visjs (default: mermaid)"),
		),
		mcp.WithString("direction",
			mcp.Description("Mermaid flow direction: TD or LR"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleRender)
	return nil
}

// registerGraphTool registers the eqg_graph tool
func (s *Server) registerGraphTool() error {
	tool := mcp.NewTool("eqg_graph",
		mcp.WithDescription("Compile an ownership dataset into its graph structure. Returns nodes with levels and positions, equity and control edges, convergence state, and issues."),
		mcp.WithString("data",
			mcp.Description("Inline dataset as JSON or YAML text"),
		),
		mcp.WithString("name",
			mcp.Description("Name of a stored dataset to compile instead of inline data"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleGraph)
	return nil
}

// registerInspectTool registers the eqg_inspect tool
func (s *Server) registerInspectTool() error {
	tool := mcp.NewTool("eqg_inspect",
		mcp.WithDescription("Inspect a single entity within a dataset: style class, level, metadata, and incident relationships."),
		mcp.WithString("entity",
			mcp.Required(),
			mcp.Description("Entity name to inspect"),
		),
		mcp.WithString("data",
			mcp.Description("Inline dataset as JSON or YAML text"),
		),
		mcp.WithString("name",
			mcp.Description("Name of a stored dataset to inspect instead of inline data"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleInspect)
	return nil
}

// registerDatasetsTool registers the eqg_datasets tool
func (s *Server) registerDatasetsTool() error {
	tool := mcp.NewTool("eqg_datasets",
		mcp.WithDescription("List datasets stored in the .eqg library."),
	)

	s.mcpServer.AddTool(tool, s.handleDatasets)
	return nil
}

// Tool handlers

func (s *Server) handleRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	data, _ := args["data"].(string)
	name, _ := args["name"].(string)
	format, _ := args["format"].(string)
	direction, _ := args["direction"].(string)

	result, err := s.executeRender(data, name, format, direction)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	data, _ := args["data"].(string)
	name, _ := args["name"].(string)

	result, err := s.executeGraph(data, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleInspect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	entity, ok := args["entity"].(string)
	if !ok || entity == "" {
		return mcp.NewToolResultError("entity parameter is required"), nil
	}
	data, _ := args["data"].(string)
	name, _ := args["name"].(string)

	result, err := s.executeInspect(entity, data, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleDatasets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	result, err := s.executeDatasets()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result), nil
}

// Tool implementations

// loadDataset resolves a dataset from inline text or the stored library.
func (s *Server) loadDataset(data, name string) (*dataset.Ownership, error) {
	switch {
	case data != "" && name != "":
		return nil, fmt.Errorf("pass either data or name, not both")
	case data != "":
		return decodeFlexible([]byte(data))
	case name != "":
		if s.store == nil {
			return nil, fmt.Errorf("no dataset library: run 'eqg init' first")
		}
		raw, err := s.store.GetDataset(name)
		if err != nil {
			return nil, err
		}
		return decodeFlexible(raw)
	default:
		return nil, fmt.Errorf("data or name parameter is required")
	}
}

// decodeFlexible accepts JSON or YAML input.
func decodeFlexible(raw []byte) (*dataset.Ownership, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		return dataset.Decode(raw)
	}
	return dataset.DecodeYAML(raw)
}

func (s *Server) buildOptions(direction string) graph.Options {
	opts := graph.DefaultOptions()
	opts.Direction = s.cfg.Render.Direction
	opts.NodeSpacing = s.cfg.Render.NodeSpacing
	opts.LevelIterations = s.cfg.Render.LevelIterations
	opts.EdgeLabelLimit = s.cfg.Render.EdgeLabelLimit
	if direction != "" {
		opts.Direction = direction
	}
	return opts
}

func (s *Server) executeRender(data, name, format, direction string) (string, error) {
	if format == "" {
		format = s.cfg.Output.Format
	}
	if !config.IsValidFormat(format) {
		return "", fmt.Errorf("format must be one of %v, got %q", config.ValidFormats, format)
	}
	if direction != "" && direction != "TD" && direction != "LR" {
		return "", fmt.Errorf("direction must be TD or LR, got %q", direction)
	}

	ds, err := s.loadDataset(data, name)
	if err != nil {
		return "", err
	}

	g, _ := graph.Build(ds, s.buildOptions(direction))

	if format == "visjs" {
		out, err := json.MarshalIndent(g.VisJS(), "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding result: %w", err)
		}
		return string(out), nil
	}
	return g.Mermaid(), nil
}

// graphResult is the JSON shape returned by eqg_graph.
type graphResult struct {
	Core      string          `json:"core"`
	Nodes     []graphNode     `json:"nodes"`
	Equity    []graphRelation `json:"equity"`
	Control   []graphRelation `json:"control"`
	Converged bool            `json:"converged"`
	Issues    []string        `json:"issues,omitempty"`
}

type graphNode struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Class string  `json:"class"`
	Level int     `json:"level"`
	X     float64 `json:"x"`
}

type graphRelation struct {
	Parent      string  `json:"parent"`
	Child       string  `json:"child"`
	Percentage  float64 `json:"percentage,omitempty"`
	Description string  `json:"description,omitempty"`
}

func (s *Server) executeGraph(data, name string) (string, error) {
	ds, err := s.loadDataset(data, name)
	if err != nil {
		return "", err
	}

	g, issues := graph.Build(ds, s.buildOptions(""))

	result := graphResult{
		Core:      g.Core,
		Converged: g.Converged,
	}
	for _, n := range g.Registry.Nodes() {
		result.Nodes = append(result.Nodes, graphNode{
			ID:    n.ID,
			Name:  n.Name,
			Class: string(n.Class),
			Level: n.Level,
			X:     n.X,
		})
	}
	for _, e := range g.Equity {
		result.Equity = append(result.Equity, graphRelation{
			Parent: e.Parent, Child: e.Child, Percentage: e.Percentage,
		})
	}
	for _, e := range g.Control {
		result.Control = append(result.Control, graphRelation{
			Parent: e.Parent, Child: e.Child, Description: e.Description,
		})
	}
	for _, iss := range issues {
		result.Issues = append(result.Issues, iss.String())
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(out), nil
}

// inspectResult is the JSON shape returned by eqg_inspect.
type inspectResult struct {
	Name                string          `json:"name"`
	ID                  string          `json:"id"`
	Class               string          `json:"class"`
	Level               int             `json:"level"`
	Type                string          `json:"type,omitempty"`
	EnglishName         string          `json:"english_name,omitempty"`
	RegistrationCapital string          `json:"registration_capital,omitempty"`
	EstablishmentDate   string          `json:"establishment_date,omitempty"`
	Holders             []graphRelation `json:"holders,omitempty"`
	Holdings            []graphRelation `json:"holdings,omitempty"`
}

func (s *Server) executeInspect(entity, data, name string) (string, error) {
	ds, err := s.loadDataset(data, name)
	if err != nil {
		return "", err
	}

	g, _ := graph.Build(ds, s.buildOptions(""))
	node, ok := g.Registry.Lookup(entity)
	if !ok {
		return "", fmt.Errorf("entity not found: %s", entity)
	}

	result := inspectResult{
		Name:  node.Name,
		ID:    node.ID,
		Class: string(node.Class),
		Level: node.Level,
	}
	if meta, ok := g.Entity(entity); ok {
		result.Type = meta.Type
		result.EnglishName = meta.EnglishName
		result.RegistrationCapital = meta.RegistrationCapital
		result.EstablishmentDate = meta.EstablishmentDate
	}
	all := append(append([]graph.Edge{}, g.Equity...), g.Control...)
	for _, e := range all {
		rel := graphRelation{
			Parent: e.Parent, Child: e.Child,
			Percentage: e.Percentage, Description: e.Description,
		}
		if e.Child == entity {
			result.Holders = append(result.Holders, rel)
		}
		if e.Parent == entity {
			result.Holdings = append(result.Holdings, rel)
		}
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(out), nil
}

// datasetsResult is the JSON shape returned by eqg_datasets.
type datasetsResult struct {
	Datasets []datasetEntry `json:"datasets"`
}

type datasetEntry struct {
	Name      string `json:"name"`
	Size      int    `json:"size"`
	UpdatedAt string `json:"updated_at"`
}

func (s *Server) executeDatasets() (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("no dataset library: run 'eqg init' first")
	}

	infos, err := s.store.ListDatasets()
	if err != nil {
		return "", err
	}

	result := datasetsResult{Datasets: []datasetEntry{}}
	for _, info := range infos {
		result.Datasets = append(result.Datasets, datasetEntry{
			Name:      info.Name,
			Size:      info.Size,
			UpdatedAt: info.UpdatedAt.Format(time.RFC3339),
		})
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(out), nil
}
