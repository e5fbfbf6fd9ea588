package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hargabyte/eqg/internal/mcp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	callList bool
	callPipe bool
	callJSON bool
)

var callCmd = &cobra.Command{
	Use:   "call [tool] [json-args]",
	Short: "Unified tool gateway for all eqg operations",
	Long: `Call any eqg tool with structured JSON input/output.

Tools accept JSON arguments and return their results directly: Mermaid
text for eqg_render, JSON for the rest.

Modes:
  eqg call --list                          List all tools and parameters
  eqg call <tool> '{"key":"value"}'        Call a tool with JSON args
  eqg call --pipe                          Read JSON lines from stdin

Tool names accept shorthand: "render" is equivalent to "eqg_render".

Examples:
  eqg call --list
  eqg call render '{"name":"acme"}'
  eqg call render '{"name":"acme","format":"visjs"}'
  eqg call graph '{"name":"acme"}'
  eqg call inspect '{"name":"acme","entity":"Alice"}'
  echo '{"tool":"eqg_datasets","args":{}}' | eqg call --pipe`,
	Args: cobra.MaximumNArgs(2),
	RunE: runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().BoolVar(&callList, "list", false, "List all available tools and their parameters")
	callCmd.Flags().BoolVar(&callPipe, "pipe", false, "Read JSON lines from stdin (pipe mode)")
	callCmd.Flags().BoolVar(&callJSON, "json", false, "List tools as JSON instead of YAML")
}

func runCall(cmd *cobra.Command, args []string) error {
	if callList {
		return runCallList()
	}
	if callPipe {
		return runCallPipe()
	}
	if len(args) == 0 {
		return fmt.Errorf("tool name required (run 'eqg call --list' to see available tools)")
	}
	return runCallSingle(args)
}

func runCallList() error {
	srv, err := mcp.New(mcp.Config{Tools: mcp.AllTools})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	defer srv.Close()

	schemas := srv.GetToolSchemas()

	if callJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(schemas)
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(schemas)
}

func runCallSingle(args []string) error {
	toolName := normalizeToolName(args[0])

	// Parse JSON args
	var toolArgs map[string]interface{}
	if len(args) >= 2 {
		if err := json.Unmarshal([]byte(args[1]), &toolArgs); err != nil {
			return fmt.Errorf("invalid JSON args: %w", err)
		}
	} else {
		toolArgs = make(map[string]interface{})
	}

	srv, err := mcp.New(mcp.Config{Tools: mcp.AllTools})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	defer srv.Close()

	result, err := srv.CallTool(toolName, toolArgs)
	if err != nil {
		return err
	}

	fmt.Println(result)
	return nil
}

// pipeRequest is the JSON format for pipe mode input.
type pipeRequest struct {
	Tool string                 `json:"tool"`
	Args map[string]interface{} `json:"args"`
}

// pipeResponse is the JSON format for pipe mode output.
type pipeResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func runCallPipe() error {
	srv, err := mcp.New(mcp.Config{Tools: mcp.AllTools})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	defer srv.Close()

	enc := json.NewEncoder(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)
	// Allow larger lines (1MB)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req pipeRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			enc.Encode(pipeResponse{Error: fmt.Sprintf("invalid JSON: %v", err)})
			continue
		}

		toolName := normalizeToolName(req.Tool)
		if req.Args == nil {
			req.Args = make(map[string]interface{})
		}

		result, err := srv.CallTool(toolName, req.Args)
		if err != nil {
			enc.Encode(pipeResponse{Error: err.Error()})
			continue
		}

		// Mermaid output is plain text; wrap anything that is not valid JSON
		var raw json.RawMessage
		if err := json.Unmarshal([]byte(result), &raw); err != nil {
			b, _ := json.Marshal(result)
			raw = b
		}
		enc.Encode(pipeResponse{Result: raw})
	}

	return scanner.Err()
}

// normalizeToolName converts shorthand names to full tool names.
// "render" -> "eqg_render", "eqg_render" -> "eqg_render"
func normalizeToolName(name string) string {
	if !strings.HasPrefix(name, "eqg_") {
		return "eqg_" + name
	}
	return name
}
