package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DB_NAME", "textguard")

	cfg, err := Load()
	require.NoError(t, err)
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := validConfig(t)

	assert.Equal(t, 5, cfg.ShingleSize)
	assert.Equal(t, 128, cfg.NumPermutations)
	assert.Equal(t, 32, cfg.LSHBands)
	assert.Equal(t, 4, cfg.LSHRows)
	assert.Equal(t, 0.15, cfg.MinJaccard)
	assert.Equal(t, 0.6, cfg.MinSemantic)
	assert.Equal(t, 0.6, cfg.LexicalWeight)
	assert.Equal(t, 0.4, cfg.SemanticWeight)
	assert.Equal(t, 5, cfg.DefaultTopK)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 50, cfg.MinContentWords)
	assert.Equal(t, 1<<20, cfg.MaxTextBytes)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SHINGLE_SIZE", "7")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("MATCH_MIN_JACCARD", "0.25")
	t.Setenv("FALLBACK_SEED_URLS", "https://a.test/, https://b.test/")

	cfg := validConfig(t)

	assert.Equal(t, 7, cfg.ShingleSize)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 0.25, cfg.MinJaccard)
	assert.Equal(t, []string{"https://a.test/", "https://b.test/"}, cfg.FallbackSeedURLs)
}

func TestValidate(t *testing.T) {
	t.Run("missing mongo settings", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.MongoURI = ""
		assert.Error(t, cfg.Validate())

		cfg = validConfig(t)
		cfg.MongoDBName = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("shingle size floor", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.ShingleSize = 1
		assert.Error(t, cfg.Validate())
	})

	t.Run("banding must fit the sketch", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.LSHBands = 64
		cfg.LSHRows = 4
		cfg.NumPermutations = 128
		assert.Error(t, cfg.Validate())
	})

	t.Run("weights must not both be zero", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.LexicalWeight = 0
		cfg.SemanticWeight = 0
		assert.Error(t, cfg.Validate())
	})
}
