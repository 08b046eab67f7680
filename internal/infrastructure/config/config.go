// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for world-core configuration.
	DefaultConfigDir = ".world"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultAssetsDir is where generated images are written.
	DefaultAssetsDir = "assets"
	// DefaultDBFile is the default SQLite database file name.
	DefaultDBFile = "worlds.db"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	LLM        LLMConfig        `yaml:"llm,omitempty"`
	Image      ImageConfig      `yaml:"image,omitempty"`
	Embedder   EmbedderConfig   `yaml:"embedder,omitempty"`
	Qdrant     QdrantConfig     `yaml:"qdrant,omitempty"`
	SQLite     SQLiteConfig     `yaml:"sqlite,omitempty"`
	Generation GenerationConfig `yaml:"generation,omitempty"`
}

// LLMConfig holds configuration for the structured-generation provider.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
}

// ImageConfig holds configuration for the image-generation provider.
type ImageConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	Size     string `yaml:"size,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	// AssetsDir is where generated images are stored.
	AssetsDir string `yaml:"assets_dir,omitempty"`
}

// EmbedderConfig holds configuration for the embedding provider.
type EmbedderConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
}

// QdrantConfig holds configuration for the Qdrant vector database.
type QdrantConfig struct {
	Host       string `yaml:"host,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	Collection string `yaml:"collection,omitempty"`
	APIKey     string `yaml:"api_key,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite world store.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	Path string `yaml:"path,omitempty"`
}

// GenerationConfig holds orchestration knobs.
type GenerationConfig struct {
	// ArtStyle is the default art style passed to the image stage.
	ArtStyle string `yaml:"art_style,omitempty"`
	// MaxConcurrent caps concurrent entity syntheses.
	MaxConcurrent int64 `yaml:"max_concurrent,omitempty"`
	// CallTimeoutSeconds bounds a single entity synthesis.
	CallTimeoutSeconds int `yaml:"call_timeout_seconds,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Image: ImageConfig{
			Provider:  "openai",
			Model:     "dall-e-3",
			Size:      "1024x1024",
			AssetsDir: DefaultAssetsDir,
		},
		Embedder: EmbedderConfig{
			Provider: "openai",
			Model:    "text-embedding-3-small",
		},
		Qdrant: QdrantConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: "world_entities",
		},
		Generation: GenerationConfig{
			ArtStyle:           "digital painting",
			MaxConcurrent:      8,
			CallTimeoutSeconds: 120,
		},
	}
}

// Load loads configuration from the .world directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'world init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	return cfg, nil
}

// SQLitePath returns where the world database lives for a base path,
// honoring an explicit config override.
func (c *Config) SQLitePath(basePath string) string {
	if c.SQLite.Path != "" {
		return c.SQLite.Path
	}
	return filepath.Join(basePath, DefaultConfigDir, DefaultDBFile)
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if c.LLM.APIKey == "" {
			c.LLM.APIKey = key
		}
		if c.Image.APIKey == "" {
			c.Image.APIKey = key
		}
		if c.Embedder.APIKey == "" {
			c.Embedder.APIKey = key
		}
	}
	if key := os.Getenv("QDRANT_API_KEY"); key != "" {
		if c.Qdrant.APIKey == "" {
			c.Qdrant.APIKey = key
		}
	}
}
