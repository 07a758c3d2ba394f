// Command repo-proxy serves the repository view over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Sternrassler/gh-repo-browser/internal/server"
	"github.com/Sternrassler/gh-repo-browser/pkg/client"
	"github.com/Sternrassler/gh-repo-browser/pkg/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	// Configuration from environment
	port := getEnv("PORT", "8080")
	userAgent := getEnv("USER_AGENT", "gh-repo-browser/0.1.0")

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", string(logging.LevelInfo))),
		Pretty: getEnv("LOG_PRETTY", "false") == "true",
		Output: os.Stderr,
	})

	cfg := client.DefaultConfig(userAgent)
	cfg.BaseURL = getEnv("GITHUB_API_URL", client.DefaultBaseURL)
	cfg.Org = getEnv("GITHUB_ORG", client.DefaultOrg)

	repoClient, err := client.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create repository client")
	}

	srvCfg := server.DefaultConfig()
	if origins := getEnv("CORS_ORIGINS", ""); origins != "" {
		srvCfg.AllowedOrigins = splitList(origins)
	}

	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           server.New(repoClient, srvCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Str("org", cfg.Org).
			Str("user_agent", userAgent).
			Msg("Starting repository proxy")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Repository proxy stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
