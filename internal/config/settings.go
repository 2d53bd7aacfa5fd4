package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Settings application settings.
type Settings struct {
	DBPath       string `mapstructure:"db_path"`
	VectorDBPath string `mapstructure:"vector_db_path"`
	OllamaURL    string `mapstructure:"ollama_url"`
	EmbedModel   string `mapstructure:"embed_model"`
	ChatModel    string `mapstructure:"chat_model"`
	EmbedDim     int    `mapstructure:"embed_dim"`
	ChunkSize    int    `mapstructure:"chunk_size"`
	ChunkOverlap int    `mapstructure:"chunk_overlap"`
	Concurrency  int    `mapstructure:"concurrency"`
	TopK         int    `mapstructure:"top_k"`
}

// LoadSettings loads settings from environment variables and optional .env file.
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	v.SetDefault("db_path", filepath.Join(defaultDataDir(), "index.db"))
	v.SetDefault("vector_db_path", filepath.Join(defaultDataDir(), "vectors.db"))
	v.SetDefault("ollama_url", "http://localhost:11434")
	v.SetDefault("embed_model", "all-minilm")
	v.SetDefault("chat_model", "qwen3:8b")
	v.SetDefault("embed_dim", 384)
	v.SetDefault("chunk_size", 100)
	v.SetDefault("chunk_overlap", 10)
	v.SetDefault("concurrency", 4)
	v.SetDefault("top_k", 5)

	v.SetEnvPrefix("SPYGLASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		_ = v.BindPFlag("db_path", flags.Lookup("db"))
		_ = v.BindPFlag("vector_db_path", flags.Lookup("vector-db"))
		_ = v.BindPFlag("ollama_url", flags.Lookup("ollama-url"))
		_ = v.BindPFlag("embed_model", flags.Lookup("embed-model"))
		_ = v.BindPFlag("chat_model", flags.Lookup("chat-model"))
		_ = v.BindPFlag("chunk_size", flags.Lookup("chunk-size"))
		_ = v.BindPFlag("chunk_overlap", flags.Lookup("chunk-overlap"))
		_ = v.BindPFlag("concurrency", flags.Lookup("concurrency"))
		_ = v.BindPFlag("top_k", flags.Lookup("top-k"))
	}

	// Helper to look for .env file.
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	settings.DBPath = expandHomeDir(settings.DBPath)
	settings.VectorDBPath = expandHomeDir(settings.VectorDBPath)

	return &settings, nil
}

// ValidateSettings checks for values the rest of the system cannot work with.
func ValidateSettings(s *Settings) error {
	if s.DBPath == "" || s.VectorDBPath == "" {
		return errors.New("db and vector-db paths cannot be empty")
	}
	if s.EmbedDim <= 0 {
		return errors.New("embed-dim must be positive")
	}
	if s.ChunkSize <= 0 {
		return errors.New("chunk-size must be positive")
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		return errors.New("chunk-overlap must be non-negative and smaller than chunk-size")
	}
	if s.Concurrency <= 0 {
		return errors.New("concurrency must be positive")
	}
	if s.TopK <= 0 {
		return errors.New("top-k must be positive")
	}
	return nil
}

// defaultDataDir returns the directory holding the databases.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".spyglass"
	}
	return filepath.Join(home, ".spyglass")
}

// expandHomeDir expands ~ to the user's home directory.
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}
