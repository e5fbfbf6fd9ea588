package cmd

import (
	"fmt"

	"github.com/hargabyte/eqg/internal/graph"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate an ownership dataset without rendering",
	Long: `Compile an ownership dataset and report structural issues.

Runs the full compilation pipeline (decode, normalize, level assignment)
and prints every issue found: malformed relationships, duplicates,
entities whose hierarchy level could not be resolved, and cyclic
structures that kept level assignment from converging.

Exits non-zero when any issue is found.

Examples:
  eqg check ownership.json
  cat data.yaml | eqg check -
  eqg check --name acme`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&renderName, "name", "", "Check a dataset stored in the library")
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	opts := optionsFromConfig(cfg)
	opts.Logger = newLogger()
	g, issues := graph.Build(ds, opts)

	fmt.Printf("core:      %s\n", g.Core)
	fmt.Printf("entities:  %d\n", g.Registry.Len())
	fmt.Printf("equity:    %d edges\n", len(g.Equity))
	fmt.Printf("control:   %d edges\n", len(g.Control))
	fmt.Printf("converged: %v\n", g.Converged)

	if len(issues) == 0 {
		fmt.Println("ok")
		return nil
	}

	fmt.Println()
	for _, iss := range issues {
		fmt.Printf("  %s\n", iss.String())
	}
	return fmt.Errorf("%d issue(s) found", len(issues))
}
