package config

import (
	"fmt"
	"time"

	"github.com/Umar-fr/TextGuard-Plagiarism/internal/configs/env"
)

// Config holds all configuration for the application
type Config struct {
	// MongoDB
	MongoURI    string
	MongoDBName string

	// Redis (optional; empty host falls back to the in-memory page cache)
	RedisHost     string
	RedisPassword string

	// Search provider (optional; empty base URL disables discovery and the
	// crawler works from the fallback seed list only)
	SearchBaseURL    string
	SearchAPIKey     string
	SearchTimeout    time.Duration
	FallbackSeedURLs []string

	// Embeddings provider (optional; empty base URL disables semantic scoring)
	EmbeddingsBaseURL   string
	EmbeddingsModel     string
	EmbeddingsAPIKey    string
	SemanticWindowChars int

	// Similarity core
	ShingleSize     int
	NumPermutations int
	LSHBands        int
	LSHRows         int
	MinHashSeed     int64
	SnapshotPath    string

	// Scoring
	MinJaccard     float64
	MinSemantic    float64
	LexicalWeight  float64
	SemanticWeight float64
	DefaultTopK    int

	// Crawling
	CacheTTL           time.Duration
	FetchTimeout       time.Duration
	CrawlDelay         time.Duration
	MinContentWords    int
	MaxPhrases         int
	MaxCandidateURLs   int
	MaxConcurrentFetch int
	CheckBudget        time.Duration
	UserAgent          string

	// Input limits
	MaxTextBytes int

	// JWT (optional; empty secret disables auth on the API group)
	JWTSecret string
	JWTIssuer string

	// Rate Limiting
	RateLimitRPS float64

	// Logging
	LogLevel string

	// Server
	ServerPort string
}

func Load() (*Config, error) {
	cfg := &Config{}

	// MongoDB
	cfg.MongoURI = env.GetEnv("MONGO_URI", "")
	cfg.MongoDBName = env.GetEnv("MONGO_DB_NAME", "")

	// Redis
	cfg.RedisHost = env.GetEnv("REDIS_HOST", "")
	cfg.RedisPassword = env.GetEnv("REDIS_PASSWORD", "")

	// Search provider
	cfg.SearchBaseURL = env.GetEnv("SEARCH_BASE_URL", "")
	cfg.SearchAPIKey = env.GetEnv("SEARCH_API_KEY", "")
	cfg.SearchTimeout = env.GetEnvDuration("SEARCH_TIMEOUT", 5*time.Second)
	cfg.FallbackSeedURLs = env.GetEnvList("FALLBACK_SEED_URLS")

	// Embeddings provider
	cfg.EmbeddingsBaseURL = env.GetEnv("EMBEDDINGS_BASE_URL", "")
	cfg.EmbeddingsModel = env.GetEnv("EMBEDDINGS_MODEL", "text-embedding-3-small")
	cfg.EmbeddingsAPIKey = env.GetEnv("EMBEDDINGS_API_KEY", "")
	cfg.SemanticWindowChars = env.GetEnvInt("SEMANTIC_WINDOW_CHARS", 1000)

	// Similarity core
	cfg.ShingleSize = env.GetEnvInt("SHINGLE_SIZE", 5)
	cfg.NumPermutations = env.GetEnvInt("NUM_PERMUTATIONS", 128)
	cfg.LSHBands = env.GetEnvInt("LSH_BANDS", 32)
	cfg.LSHRows = env.GetEnvInt("LSH_ROWS", 4)
	cfg.MinHashSeed = int64(env.GetEnvInt("MINHASH_SEED", 1))
	cfg.SnapshotPath = env.GetEnv("INDEX_SNAPSHOT_PATH", "data/index.snapshot")

	// Scoring
	cfg.MinJaccard = env.GetEnvFloat("MATCH_MIN_JACCARD", 0.15)
	cfg.MinSemantic = env.GetEnvFloat("MATCH_MIN_SEMANTIC", 0.6)
	cfg.LexicalWeight = env.GetEnvFloat("LEXICAL_WEIGHT", 0.6)
	cfg.SemanticWeight = env.GetEnvFloat("SEMANTIC_WEIGHT", 0.4)
	cfg.DefaultTopK = env.GetEnvInt("DEFAULT_TOP_K", 5)

	// Crawling
	cfg.CacheTTL = env.GetEnvDuration("CACHE_TTL", 24*time.Hour)
	cfg.FetchTimeout = env.GetEnvDuration("FETCH_TIMEOUT", 10*time.Second)
	cfg.CrawlDelay = env.GetEnvDuration("CRAWL_DELAY", 500*time.Millisecond)
	cfg.MinContentWords = env.GetEnvInt("MIN_CONTENT_WORDS", 50)
	cfg.MaxPhrases = env.GetEnvInt("MAX_PHRASES", 5)
	cfg.MaxCandidateURLs = env.GetEnvInt("MAX_CANDIDATE_URLS", 10)
	cfg.MaxConcurrentFetch = env.GetEnvInt("MAX_CONCURRENT_FETCH", 4)
	cfg.CheckBudget = env.GetEnvDuration("CHECK_BUDGET", 60*time.Second)
	cfg.UserAgent = env.GetEnv("CRAWLER_USER_AGENT", "TextGuardBot/1.0 (+plagiarism-check)")

	// Input limits
	cfg.MaxTextBytes = env.GetEnvInt("MAX_TEXT_BYTES", 1<<20)

	// JWT
	cfg.JWTSecret = env.GetEnv("JWT_SECRET", "")
	cfg.JWTIssuer = env.GetEnv("JWT_ISSUER", "textguard")

	// Rate Limiting
	cfg.RateLimitRPS = env.GetEnvFloat("RATE_LIMIT_RPS", 10.0)

	// Logging
	cfg.LogLevel = env.GetEnv("LOG_LEVEL", "info")

	// Server
	cfg.ServerPort = env.GetEnv("SERVER_PORT", "8080")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.MongoDBName == "" {
		return fmt.Errorf("MONGO_DB_NAME is required")
	}
	if c.ShingleSize < 2 {
		return fmt.Errorf("SHINGLE_SIZE must be at least 2")
	}
	if c.NumPermutations <= 0 {
		return fmt.Errorf("NUM_PERMUTATIONS must be greater than 0")
	}
	if c.LSHBands <= 0 || c.LSHRows <= 0 {
		return fmt.Errorf("LSH_BANDS and LSH_ROWS must be greater than 0")
	}
	if c.LSHBands*c.LSHRows > c.NumPermutations {
		return fmt.Errorf("LSH_BANDS * LSH_ROWS must not exceed NUM_PERMUTATIONS")
	}
	if c.LexicalWeight+c.SemanticWeight <= 0 {
		return fmt.Errorf("LEXICAL_WEIGHT + SEMANTIC_WEIGHT must be greater than 0")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be greater than 0")
	}
	if c.MaxConcurrentFetch <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_FETCH must be greater than 0")
	}
	if c.MaxTextBytes <= 0 {
		return fmt.Errorf("MAX_TEXT_BYTES must be greater than 0")
	}
	return nil
}
