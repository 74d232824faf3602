// Package config loads and validates the YAML configuration surface.
// Invalid configuration is rejected here, at load time, so it can never
// fail a query.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"docqa/internal/chunker"
	"docqa/internal/classifier"
	"docqa/internal/domain"
	"docqa/internal/lexical"
)

// ChunkerConfig configures how documents are split into chunks.
// Overlap is a pointer so an explicit `overlap: 0` (valid, no overlap)
// is distinguishable from an absent key (defaulted).
type ChunkerConfig struct {
	ChunkSize int  `yaml:"chunk_size"`
	Overlap   *int `yaml:"overlap"`
}

// OverlapChars returns the configured overlap in characters.
func (c ChunkerConfig) OverlapChars() int {
	if c.Overlap == nil {
		return chunker.DefaultOverlap
	}
	return *c.Overlap
}

// RetrieverConfig configures ranking and the vector-call timeout.
type RetrieverConfig struct {
	TopK              int `yaml:"top_k"`
	VectorTimeoutSecs int `yaml:"vector_timeout_secs"`
}

// LexicalConfig holds the three lexical sub-score weights.
type LexicalConfig struct {
	JaccardWeight   float64 `yaml:"jaccard_weight"`
	SubstringWeight float64 `yaml:"substring_weight"`
	WordMatchWeight float64 `yaml:"word_match_weight"`
}

// Weights converts the config values into scorer weights.
func (c LexicalConfig) Weights() lexical.Weights {
	return lexical.Weights{
		Jaccard:   c.JaccardWeight,
		Substring: c.SubstringWeight,
		WordMatch: c.WordMatchWeight,
	}
}

// EmbedderConfig configures the embedding provider adapter.
type EmbedderConfig struct {
	Enabled     bool   `yaml:"enabled"`
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// ClassifierConfig bounds the document-type scan.
type ClassifierConfig struct {
	PrefixChunks int `yaml:"prefix_chunks"`
}

// AnswerConfig configures the chat answer generator. When disabled, the
// host uses the extractive offline mode.
type AnswerConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Model       string   `yaml:"model"`
	APIKeyEnv   string   `yaml:"api_key_env"`
	BaseURL     string   `yaml:"base_url"`
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature *float64 `yaml:"temperature"`
}

// TemperatureValue returns the configured sampling temperature; an
// explicit 0 is honored, only an absent key falls back to the default.
func (c AnswerConfig) TemperatureValue() float64 {
	if c.Temperature == nil {
		return 0.7
	}
	return *c.Temperature
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Chunker     ChunkerConfig     `yaml:"chunker"`
	Retriever   RetrieverConfig   `yaml:"retriever"`
	Lexical     LexicalConfig     `yaml:"lexical"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Classifier  ClassifierConfig  `yaml:"classifier"`
	Answer      AnswerConfig      `yaml:"answer"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docqa/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects configurations the engine must never see.
func (c *AppConfig) Validate() error {
	if c.Chunker.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive", domain.ErrInvalidConfiguration)
	}
	if o := c.Chunker.OverlapChars(); o < 0 || o >= c.Chunker.ChunkSize {
		return fmt.Errorf("%w: overlap %d must be in [0, chunk_size)", domain.ErrInvalidConfiguration, o)
	}
	if err := c.Lexical.Weights().Validate(); err != nil {
		return err
	}
	if c.Retriever.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive", domain.ErrInvalidConfiguration)
	}
	switch c.VectorStore.Type {
	case "", "memory":
	case "qdrant":
		if c.VectorStore.Qdrant == nil || c.VectorStore.Qdrant.URL == "" || c.VectorStore.Qdrant.Collection == "" {
			return fmt.Errorf("%w: qdrant store requires url and collection", domain.ErrInvalidConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown vector store %q", domain.ErrInvalidConfiguration, c.VectorStore.Type)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docqa", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = chunker.DefaultChunkSize
	}
	if cfg.Chunker.Overlap == nil {
		o := chunker.DefaultOverlap
		if o >= cfg.Chunker.ChunkSize {
			o = cfg.Chunker.ChunkSize / 5
		}
		cfg.Chunker.Overlap = &o
	}
	if cfg.Retriever.TopK == 0 {
		cfg.Retriever.TopK = 5
	}
	if cfg.Retriever.VectorTimeoutSecs == 0 {
		cfg.Retriever.VectorTimeoutSecs = 3
	}
	zero := LexicalConfig{}
	if cfg.Lexical == zero {
		w := lexical.DefaultWeights()
		cfg.Lexical = LexicalConfig{
			JaccardWeight:   w.Jaccard,
			SubstringWeight: w.Substring,
			WordMatchWeight: w.WordMatch,
		}
	}
	if cfg.Classifier.PrefixChunks == 0 {
		cfg.Classifier.PrefixChunks = classifier.DefaultPrefixChunks
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.Embedder.Enabled {
		if cfg.Embedder.BaseURL == "" {
			cfg.Embedder.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.APIKeyEnv == "" {
			cfg.Embedder.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.Model == "" {
			cfg.Embedder.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.TimeoutSecs == 0 {
			cfg.Embedder.TimeoutSecs = 30
		}
	}
	if cfg.Answer.Enabled {
		if cfg.Answer.Model == "" {
			cfg.Answer.Model = "gpt-4o-mini"
		}
		if cfg.Answer.APIKeyEnv == "" {
			cfg.Answer.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Answer.MaxTokens == 0 {
			cfg.Answer.MaxTokens = 1500
		}
		if cfg.Answer.Temperature == nil {
			t := 0.7
			cfg.Answer.Temperature = &t
		}
	}
	if cfg.VectorStore.Type == "qdrant" && cfg.VectorStore.Qdrant != nil && cfg.VectorStore.Qdrant.TimeoutSecs == 0 {
		cfg.VectorStore.Qdrant.TimeoutSecs = 15
	}
}
