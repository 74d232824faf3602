package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func intp(v int) *int { return &v }

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Chunker.ChunkSize)
	assert.Equal(t, 200, cfg.Chunker.OverlapChars())
	assert.Equal(t, 5, cfg.Retriever.TopK)
	assert.Equal(t, "memory", cfg.VectorStore.Type)
	assert.InDelta(t, 1.0, cfg.Lexical.JaccardWeight+cfg.Lexical.SubstringWeight+cfg.Lexical.WordMatchWeight, 1e-9)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	want := &AppConfig{
		Chunker:   ChunkerConfig{ChunkSize: 500, Overlap: intp(100)},
		Retriever: RetrieverConfig{TopK: 3, VectorTimeoutSecs: 2},
		Lexical:   LexicalConfig{JaccardWeight: 0.5, SubstringWeight: 0.25, WordMatchWeight: 0.25},
	}
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, got.Chunker.ChunkSize)
	assert.Equal(t, 100, got.Chunker.OverlapChars())
	assert.Equal(t, 3, got.Retriever.TopK)
	assert.Equal(t, 0.5, got.Lexical.JaccardWeight)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker: ["), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"negative chunk size", "chunker:\n  chunk_size: -1\n"},
		{"overlap at chunk size", "chunker:\n  chunk_size: 100\n  overlap: 100\n"},
		{"negative top_k", "retriever:\n  top_k: -2\n"},
		{"bad weights", "lexical:\n  jaccard_weight: 0.9\n  substring_weight: 0.9\n  word_match_weight: 0.9\n"},
		{"unknown store", "vector_store:\n  type: redis\n"},
		{"qdrant missing url", "vector_store:\n  type: qdrant\n  qdrant:\n    collection: docs\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.yaml), 0o644))
			_, err := Load(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
		})
	}
}

func TestOverlapDefaultCappedBySmallChunkSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker:\n  chunk_size: 100\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Chunker.OverlapChars())
}

func TestExplicitZeroOverlapKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker:\n  chunk_size: 100\n  overlap: 0\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Chunker.OverlapChars())
}

func TestExplicitZeroTemperatureKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("answer:\n  enabled: true\n  temperature: 0\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Answer.TemperatureValue())

	require.NoError(t, os.WriteFile(path, []byte("answer:\n  enabled: true\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.7, cfg.Answer.TemperatureValue())
}

func TestEmbedderDefaultsOnlyWhenEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embedder:\n  enabled: true\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Embedder.BaseURL)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.APIKeyEnv)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.Model)

	cfg, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.False(t, cfg.Embedder.Enabled)
	assert.Empty(t, cfg.Embedder.BaseURL)
}
