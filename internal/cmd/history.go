package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent renders",
	Long: `Show recent renders recorded in the library.

Each render through the CLI or MCP server appends an entry with the
dataset name, output format, entity and edge counts, issue count, and
whether level assignment converged.

Examples:
  eqg history
  eqg history --limit 50`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.History(historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No renders recorded")
		return nil
	}

	fmt.Printf("%-20s %-8s %8s %6s %7s %10s  %s\n",
		"DATASET", "FORMAT", "ENTITIES", "EDGES", "ISSUES", "CONVERGED", "WHEN")
	for _, rec := range records {
		fmt.Printf("%-20s %-8s %8d %6d %7d %10v  %s\n",
			rec.Dataset, rec.Format, rec.Entities, rec.Edges, rec.Issues,
			rec.Converged, rec.CreatedAt.Format("2006-01-02 15:04"))
	}

	st, err := s.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("\n%d dataset(s), %d render(s) in %s\n", st.Datasets, st.Renders, st.Path)
	return nil
}
