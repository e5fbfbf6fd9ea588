package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hargabyte/eqg/internal/config"
	"github.com/hargabyte/eqg/internal/store"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .eqg directory, config, and dataset library",
	Long: `Initialize the .eqg directory in the current directory.

Creates .eqg/config.yaml with default settings and .eqg/eqg.db, the
SQLite database holding the dataset library and render history.

Examples:
  eqg init          # Initialize in current directory
  eqg init --force  # Rewrite config and database`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Reinitialize even if .eqg already exists")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	eqgDir := filepath.Join(cwd, config.ConfigDirName)
	cfgPath := filepath.Join(eqgDir, config.ConfigFileName)
	dbPath := filepath.Join(eqgDir, store.DBFileName)

	if _, err := os.Stat(cfgPath); err == nil {
		if !initForce {
			relPath, _ := filepath.Rel(cwd, eqgDir)
			fmt.Printf("Already initialized at %s\n", relPath)
			return nil
		}
		if err := os.Remove(cfgPath); err != nil {
			return fmt.Errorf("removing existing config: %w", err)
		}
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing existing database: %w", err)
		}
	}

	if _, err := config.SaveDefault(cwd); err != nil {
		return err
	}

	storeDB, err := store.Open(eqgDir)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer storeDB.Close()

	relPath, _ := filepath.Rel(cwd, eqgDir)
	fmt.Printf("Initialized eqg at %s\n", relPath)
	return nil
}
