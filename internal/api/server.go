package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// StartServer runs the router on the given port in a background goroutine
// and returns the http.Server handle for graceful shutdown. Only header
// reads and idle keep-alives are time-bounded here; a whole check request
// may legitimately run up to the configured check budget, so no write
// timeout is set.
func StartServer(router *gin.Engine, port string) *http.Server {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server exited")
		}
	}()

	return srv
}

// ShutdownServer drains in-flight connections, waiting at most timeout.
func ShutdownServer(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Info().Dur("timeout", timeout).Msg("Draining HTTP connections")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	log.Info().Msg("HTTP server stopped")
	return nil
}
