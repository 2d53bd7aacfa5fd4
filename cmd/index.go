package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"spyglass/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index <path>...",
	Short: "Index files and directories for search",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}

		roots := make([]string, 0, len(args))
		for _, arg := range args {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return err
			}
			roots = append(roots, abs)
		}

		idx, err := openIndexer(settings)
		if err != nil {
			return err
		}
		defer idx.Close()

		fmt.Printf("Indexing %d path(s)...\n", len(roots))
		start := time.Now()

		summary := idx.Process(cmd.Context(), roots, printProgress)
		elapsed := time.Since(start)

		fmt.Printf("\nDone in %s\n", elapsed.Round(time.Millisecond))
		fmt.Printf("  Files: %d total, %d processed, %d failed\n",
			summary.TotalFiles, summary.ProcessedFiles, len(summary.Errors))
		for _, e := range summary.Errors {
			fmt.Printf("  error: %s\n", e)
		}

		if !summary.Success {
			return fmt.Errorf("%d file(s) failed", len(summary.Errors))
		}
		return nil
	},
}

// printProgress rewrites a single status line as files complete.
func printProgress(s index.ProcessingStatus) {
	fmt.Printf("\r  %d/%d files (%d%%)", s.Processed, s.Total, s.Percentage)
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
