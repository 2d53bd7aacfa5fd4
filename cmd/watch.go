package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"spyglass/internal/index"
	"spyglass/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <path>...",
	Short: "Watch paths and keep the index up to date",
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

		w := watcher.New(watcherConfig(idx, watchProgress))
		if err := w.Start(roots); err != nil {
			return err
		}
		defer w.Close()

		// Catch up on anything that changed while the watcher was down,
		// reporting through the same sink the incremental runs use.
		summary := idx.Process(cmd.Context(), roots, watchProgress)
		fmt.Printf("Initial scan: %d file(s) processed\n", summary.ProcessedFiles)

		fmt.Println("Watching for changes. Press Ctrl-C to stop.")
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		fmt.Println("\nStopping.")
		return nil
	},
}

// watcherConfig wires the watcher callbacks to the indexer. Incremental runs
// report through the same progress sink as the initial scan.
func watcherConfig(idx *index.Indexer, onProgress index.ProgressFunc) watcher.Config {
	return watcher.Config{
		Extensions: idx.Extensions(),
		Reindex: func(paths []string) {
			summary := idx.Process(context.Background(), paths, onProgress)
			if !summary.Success {
				for _, e := range summary.Errors {
					log.Warn("reindex failed", "err", e)
				}
			}
			log.Info("reindexed", "files", summary.ProcessedFiles)
		},
		Remove: func(path string) {
			if err := idx.Remove(path); err != nil {
				log.Warn("remove failed", "path", path, "err", err)
			}
		},
	}
}

// watchProgress reports indexing progress through the logger, one line per
// completed file.
func watchProgress(s index.ProcessingStatus) {
	log.Info("indexing progress", "processed", s.Processed, "total", s.Total, "percentage", s.Percentage)
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
