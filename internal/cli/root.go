// Package cli defines the cobra command surface of the application.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"docqa/internal/answer"
	"docqa/internal/chunker"
	"docqa/internal/classifier"
	"docqa/internal/config"
	"docqa/internal/domain"
	oaiembed "docqa/internal/embedding/openai"
	"docqa/internal/extract"
	"docqa/internal/lexical"
	"docqa/internal/logger"
	"docqa/internal/retriever"
	"docqa/internal/tui"
	"docqa/internal/vectorstore/memory"
	"docqa/internal/vectorstore/qdrant"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docqa <document>",
	Short: "docqa — chat with a document in your terminal",
	Long: `docqa ingests a PDF or plain-text document, splits it into
sentence-aware chunks, and answers questions about it. Retrieval uses
vector similarity when an embedding backend is configured and reachable,
and lexical scoring otherwise.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./config.yaml, then ~/.config/docqa/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func run(path string) error {
	logger.SetVerbose(verbose)
	// .env is optional; real environment always wins
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine := buildEngine(cfg)
	generator := buildGenerator(cfg)

	raw, err := extract.Text(path)
	if err != nil {
		return fmt.Errorf("extract %s: %w", path, err)
	}

	docID := uuid.NewString()
	chunks, err := engine.Ingest(context.Background(), docID, filepath.Base(path), raw)
	if err != nil {
		return err
	}
	logger.Debug("document ready: %d chunks, generator=%s", len(chunks), generator.Name())

	p := tea.NewProgram(tui.New(engine, generator, docID), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func loadConfig() (*config.AppConfig, error) {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", cfgFile, err)
		}
		return cfg, nil
	}
	cfg, from, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Debug("config loaded from %s", from)
	return cfg, nil
}

// buildEngine assembles the retrieval engine from config. The vector
// backend is optional: any setup problem just leaves the engine on the
// lexical path.
func buildEngine(cfg *config.AppConfig) *retriever.Engine {
	var embedder domain.Embedder
	if cfg.Embedder.Enabled {
		client, err := oaiembed.NewClient(oaiembed.Config{
			BaseURL:   cfg.Embedder.BaseURL,
			APIKeyEnv: cfg.Embedder.APIKeyEnv,
			Model:     cfg.Embedder.Model,
			Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
		})
		if err != nil {
			logger.Warn("embedder disabled: %v", err)
		} else {
			embedder = client
		}
	}

	opts := retriever.Options{
		Chunker:       chunker.New(cfg.Chunker.ChunkSize, cfg.Chunker.OverlapChars()),
		Scorer:        lexical.NewScorer(cfg.Lexical.Weights()),
		Classifier:    classifier.New(cfg.Classifier.PrefixChunks),
		TopK:          cfg.Retriever.TopK,
		VectorTimeout: time.Duration(cfg.Retriever.VectorTimeoutSecs) * time.Second,
	}
	if embedder != nil {
		opts.Embedder = embedder
		switch cfg.VectorStore.Type {
		case "qdrant":
			q := cfg.VectorStore.Qdrant
			opts.Store = qdrant.NewStorage(qdrant.Config{
				URL:        q.URL,
				APIKey:     q.APIKey,
				Collection: q.Collection,
				Timeout:    time.Duration(q.TimeoutSecs) * time.Second,
			})
		default:
			opts.Store = memory.NewStorage()
		}
	}
	return retriever.New(opts)
}

// buildGenerator picks the chat generator when configured and reachable,
// the extractive offline mode otherwise.
func buildGenerator(cfg *config.AppConfig) answer.Generator {
	if cfg.Answer.Enabled {
		gen, err := answer.NewOpenAI(answer.OpenAIConfig{
			Model:       cfg.Answer.Model,
			APIKeyEnv:   cfg.Answer.APIKeyEnv,
			BaseURL:     cfg.Answer.BaseURL,
			MaxTokens:   cfg.Answer.MaxTokens,
			Temperature: cfg.Answer.TemperatureValue(),
		})
		if err == nil {
			return gen
		}
		logger.Warn("chat answers disabled: %v", err)
	}
	return answer.NewExtractive(5)
}
