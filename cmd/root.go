package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"spyglass/internal/config"
	"spyglass/internal/index"
)

var rootCmd = &cobra.Command{
	Use:   "spyglass",
	Short: "Local file search with lexical and semantic indexing",
	Long: `Spyglass indexes the files on your machine into a searchable catalog:
file names and paths go into a trigram-based lexical index, document
contents are chunked, embedded via Ollama, and stored for semantic search.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "lexical database path (default ~/.spyglass/index.db)")
	pf.String("vector-db", "", "vector database path (default ~/.spyglass/vectors.db)")
	pf.String("ollama-url", "http://localhost:11434", "ollama base URL")
	pf.String("embed-model", "all-minilm", "embedding model")
	pf.String("chat-model", "qwen3:8b", "generative model for ask")
	pf.Int("chunk-size", 100, "chunk size in words")
	pf.Int("chunk-overlap", 10, "chunk overlap in words")
	pf.Int("concurrency", 4, "files processed in parallel")
	pf.Int("top-k", 5, "semantic results to retrieve")
}

// loadSettings resolves flags, environment, and defaults into Settings.
func loadSettings() (*config.Settings, error) {
	settings, err := config.LoadSettingsWithFlags(rootCmd.PersistentFlags())
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if err := config.ValidateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// openIndexer creates the database directories and opens both stores.
func openIndexer(settings *config.Settings) (*index.Indexer, error) {
	for _, path := range []string{settings.DBPath, settings.VectorDBPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	return index.New(index.Config{
		DBPath:       settings.DBPath,
		VectorDBPath: settings.VectorDBPath,
		OllamaURL:    settings.OllamaURL,
		EmbedModel:   settings.EmbedModel,
		EmbedDim:     settings.EmbedDim,
		ChunkSize:    settings.ChunkSize,
		ChunkOverlap: settings.ChunkOverlap,
		Concurrency:  settings.Concurrency,
	})
}
