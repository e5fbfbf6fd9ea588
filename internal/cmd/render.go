package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hargabyte/eqg/internal/config"
	"github.com/hargabyte/eqg/internal/dataset"
	"github.com/hargabyte/eqg/internal/graph"
	"github.com/hargabyte/eqg/internal/store"
	"github.com/spf13/cobra"
)

var (
	renderFormat    string
	renderOutput    string
	renderDirection string
	renderName      string
	renderSave      string
	renderPretty    bool
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Compile an ownership dataset into a diagram",
	Long: `Compile an ownership dataset into Mermaid flowchart text or vis.js JSON.

The dataset is read from a file, from stdin ("-"), or from the local library
with --name. JSON and YAML input are both accepted; files are sniffed by
extension first, then by content.

Structural problems in the dataset (malformed relationships, duplicates,
unresolved hierarchy levels) are reported on stderr but never abort the
render: the diagram always comes out, degraded if necessary.

Examples:
  eqg render ownership.json                 # Mermaid to stdout
  eqg render ownership.yaml -f visjs        # vis.js JSON
  cat data.json | eqg render -              # From stdin
  eqg render --name acme                    # From the library
  eqg render data.json --save acme          # Render and store as "acme"
  eqg render data.json -o chart.mmd         # Write to file`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "Output format: mermaid or visjs (default from config)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write output to file instead of stdout")
	renderCmd.Flags().StringVar(&renderDirection, "direction", "", "Mermaid flow direction: TD or LR (default from config)")
	renderCmd.Flags().StringVar(&renderName, "name", "", "Render a dataset stored in the library")
	renderCmd.Flags().StringVar(&renderSave, "save", "", "Store the input dataset in the library under this name")
	renderCmd.Flags().BoolVar(&renderPretty, "pretty", false, "Indent JSON output")
}

func runRender(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	raw, source, err := readDatasetInput(args)
	if err != nil {
		return err
	}

	ds, err := decodeInput(raw, source)
	if err != nil {
		return err
	}

	format := renderFormat
	if format == "" {
		format = cfg.Output.Format
	}
	if !config.IsValidFormat(format) {
		return fmt.Errorf("format must be one of %v, got %q", config.ValidFormats, format)
	}

	opts := optionsFromConfig(cfg)
	opts.Logger = logger
	if renderDirection != "" {
		if renderDirection != "TD" && renderDirection != "LR" {
			return fmt.Errorf("direction must be TD or LR, got %q", renderDirection)
		}
		opts.Direction = renderDirection
	}

	g, issues := graph.Build(ds, opts)
	for _, iss := range issues {
		logger.Warn(iss.String())
	}

	var out string
	if format == "visjs" {
		result := g.VisJS()
		var encoded []byte
		if renderPretty || cfg.Output.Pretty {
			encoded, err = json.MarshalIndent(result, "", "  ")
		} else {
			encoded, err = json.Marshal(result)
		}
		if err != nil {
			return fmt.Errorf("encoding vis.js output: %w", err)
		}
		out = string(encoded)
	} else {
		out = g.Mermaid()
	}

	if err := recordRender(logger, raw, source, format, g, issues); err != nil {
		return err
	}

	if renderOutput != "" {
		if err := os.WriteFile(renderOutput, []byte(out+"\n"), 0644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}
	fmt.Println(out)
	return nil
}

// readDatasetInput resolves the raw dataset bytes and a source name used for
// format sniffing and history records.
func readDatasetInput(args []string) ([]byte, string, error) {
	if renderName != "" {
		if len(args) > 0 {
			return nil, "", fmt.Errorf("pass either a file or --name, not both")
		}
		s, err := openStore()
		if err != nil {
			return nil, "", err
		}
		defer s.Close()
		raw, err := s.GetDataset(renderName)
		if err != nil {
			return nil, "", err
		}
		return raw, renderName, nil
	}

	if len(args) == 0 {
		return nil, "", fmt.Errorf("dataset file required (or - for stdin, or --name for the library)")
	}
	if args[0] == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		return raw, "stdin", nil
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("reading dataset: %w", err)
	}
	return raw, args[0], nil
}

// decodeInput parses dataset bytes, choosing JSON or YAML by file extension
// and falling back to content sniffing.
func decodeInput(raw []byte, source string) (*dataset.Ownership, error) {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		return dataset.Decode(raw)
	case ".yaml", ".yml":
		return dataset.DecodeYAML(raw)
	}
	if strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		return dataset.Decode(raw)
	}
	return dataset.DecodeYAML(raw)
}

func optionsFromConfig(cfg *config.Config) graph.Options {
	opts := graph.DefaultOptions()
	opts.Direction = cfg.Render.Direction
	opts.NodeSpacing = cfg.Render.NodeSpacing
	opts.LevelIterations = cfg.Render.LevelIterations
	opts.EdgeLabelLimit = cfg.Render.EdgeLabelLimit
	return opts
}

// openStore opens the library, requiring an initialized .eqg directory.
func openStore() (*store.Store, error) {
	configDir, err := config.FindConfigDir(".")
	if err != nil {
		return nil, fmt.Errorf("no dataset library: run 'eqg init' first")
	}
	return store.Open(configDir)
}

// recordRender saves the dataset under --save and appends a history entry
// when a library exists. History failures only warn.
func recordRender(logger *log.Logger, raw []byte, source, format string, g *graph.Graph, issues []graph.Issue) error {
	dsName := renderSave
	if dsName == "" {
		dsName = renderName
	}

	var s *store.Store
	if renderSave != "" {
		configDir, err := config.EnsureConfigDir(".")
		if err != nil {
			return err
		}
		s, err = store.Open(configDir)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.SaveDataset(renderSave, raw); err != nil {
			return err
		}
	} else {
		configDir, err := config.FindConfigDir(".")
		if err != nil {
			return nil // no library, nothing to record
		}
		var openErr error
		s, openErr = store.Open(configDir)
		if openErr != nil {
			logger.Warn("could not open render history", "error", openErr)
			return nil
		}
		defer s.Close()
	}

	if dsName == "" {
		dsName = source
	}
	rec := store.RenderRecord{
		Dataset:   dsName,
		Format:    format,
		Entities:  g.Registry.Len(),
		Edges:     len(g.Equity) + len(g.Control),
		Issues:    len(issues),
		Converged: g.Converged,
	}
	if err := s.RecordRender(rec); err != nil {
		logger.Warn("could not record render history", "error", err)
	}
	return nil
}
