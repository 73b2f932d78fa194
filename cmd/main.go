package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Umar-fr/TextGuard-Plagiarism/internal/api"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/cache"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/config"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/configs/env"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/crawler"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/extract"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/infra/mongo"
	redisInfra "github.com/Umar-fr/TextGuard-Plagiarism/internal/infra/redis"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/logger"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/plagiarism"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/repository"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/search"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/semantic"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/snapshot"
)

func main() {
	if err := env.LoadEnv(); err != nil {
		log.Warn().Err(err).Msg("Failed to load .env file, continuing with system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	logger.Init(cfg.LogLevel)
	log.Info().Msg("Starting TextGuard server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect MongoDB
	mongoClient, err := mongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create MongoDB client")
	}
	defer mongoClient.Close(ctx)

	// Page cache: Redis when configured, otherwise in-memory
	var pageCache cache.PageCache
	if cfg.RedisHost != "" {
		redisClient, err := redisInfra.NewClient(ctx, cfg.RedisHost, cfg.RedisPassword, 0)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Redis client")
		}
		defer redisClient.Close()
		pageCache = cache.NewRedis(redisClient.Client, cfg.CacheTTL)
	} else {
		log.Warn().Msg("REDIS_HOST not set, using in-memory page cache")
		pageCache = cache.NewMemory()
	}

	// Initialize MongoDB repository
	mongoRepo := repository.NewMongoRepository(mongoClient)

	// Initialize repositories
	pagesRepo := repository.NewPagesRepository(mongoRepo)
	submissionsRepo := repository.NewSubmissionsRepository(mongoRepo)
	reportsRepo := repository.NewReportsRepository(mongoRepo)

	// Optional collaborators
	var provider search.Provider
	if cfg.SearchBaseURL != "" {
		provider = search.NewHTTPProvider(cfg.SearchBaseURL, cfg.SearchAPIKey, cfg.SearchTimeout)
	} else {
		log.Warn().Msg("SEARCH_BASE_URL not set, candidate discovery limited to fallback seed URLs")
	}

	var scorer plagiarism.SemanticScorer
	if cfg.EmbeddingsBaseURL != "" {
		embeddingScorer, err := semantic.NewEmbeddingScorer(cfg.EmbeddingsBaseURL, cfg.EmbeddingsModel, cfg.EmbeddingsAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create embedding scorer")
		}
		scorer = embeddingScorer
	} else {
		log.Warn().Msg("EMBEDDINGS_BASE_URL not set, semantic scoring disabled")
	}

	extractor := extract.NewDefault()

	fetcher := crawler.New(crawler.Config{
		TTL:          cfg.CacheTTL,
		FetchTimeout: cfg.FetchTimeout,
		Delay:        cfg.CrawlDelay,
		MinWords:     cfg.MinContentWords,
		UserAgent:    cfg.UserAgent,
	}, pageCache, extractor)

	service, err := plagiarism.NewService(cfg, plagiarism.Dependencies{
		Pages:       pagesRepo,
		Submissions: submissionsRepo,
		Reports:     reportsRepo,
		Snapshots:   snapshot.NewStore(cfg.SnapshotPath),
		Fetcher:     fetcher,
		Search:      provider,
		Extractor:   extractor,
		Semantic:    scorer,
		PageCache:   pageCache,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize similarity service")
	}

	router := api.SetupRoutes(cfg, service)

	// Start Gin server - Gin handles all HTTP routing, middleware (auth, rate limiter), and request processing
	srv := api.StartServer(router, cfg.ServerPort)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down gracefully...")

	// Shutdown Gin server gracefully
	if err := api.ShutdownServer(srv, 30*time.Second); err != nil {
		log.Error().Err(err).Msg("Error shutting down Gin server")
	}

	// Flush the index snapshot and release workers
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := service.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error flushing index snapshot")
	}

	log.Info().Msg("Shutdown complete")
}
