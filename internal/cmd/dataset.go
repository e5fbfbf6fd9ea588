package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/hargabyte/eqg/internal/config"
	"github.com/hargabyte/eqg/internal/store"
	"github.com/spf13/cobra"
)

// datasetCmd groups the dataset library subcommands
var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage the local dataset library",
	Long: `Manage ownership datasets stored in the local library (.eqg/eqg.db).

Stored datasets keep their original serialized form and can be rendered,
checked, or inspected by name from anywhere under the project.

Examples:
  eqg dataset save acme ownership.json
  eqg dataset list
  eqg dataset show acme
  eqg dataset rm acme`,
}

var datasetSaveCmd = &cobra.Command{
	Use:   "save <name> [file]",
	Short: "Store a dataset under a name",
	Long: `Store a dataset in the library under a name.

The input is validated by decoding it before storing; the raw bytes are
kept verbatim. Reads from stdin when no file is given or the file is "-".
Saving over an existing name replaces it.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDatasetSave,
}

var datasetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored datasets",
	RunE:  runDatasetList,
}

var datasetShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a stored dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetShow,
}

var datasetRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a stored dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetRm,
}

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.AddCommand(datasetSaveCmd)
	datasetCmd.AddCommand(datasetListCmd)
	datasetCmd.AddCommand(datasetShowCmd)
	datasetCmd.AddCommand(datasetRmCmd)
}

func runDatasetSave(cmd *cobra.Command, args []string) error {
	name := args[0]

	var raw []byte
	var source string
	var err error
	if len(args) < 2 || args[1] == "-" {
		raw, err = io.ReadAll(os.Stdin)
		source = "stdin"
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	} else {
		source = args[1]
		raw, err = os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("reading dataset: %w", err)
		}
	}

	// reject input that does not decode as a dataset
	if _, err := decodeInput(raw, source); err != nil {
		return fmt.Errorf("invalid dataset: %w", err)
	}

	configDir, err := config.EnsureConfigDir(".")
	if err != nil {
		return err
	}
	s, err := store.Open(configDir)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.SaveDataset(name, raw); err != nil {
		return err
	}
	fmt.Printf("Saved dataset %q (%d bytes)\n", name, len(raw))
	return nil
}

func runDatasetList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	infos, err := s.ListDatasets()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No datasets stored")
		return nil
	}

	fmt.Printf("%-24s %8s  %s\n", "NAME", "SIZE", "UPDATED")
	for _, info := range infos {
		fmt.Printf("%-24s %8d  %s\n", info.Name, info.Size,
			info.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runDatasetShow(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	raw, err := s.GetDataset(args[0])
	if err != nil {
		return err
	}
	os.Stdout.Write(raw)
	if len(raw) > 0 && raw[len(raw)-1] != '\n' {
		fmt.Println()
	}
	return nil
}

func runDatasetRm(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteDataset(args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed dataset %q\n", args[0])
	return nil
}
