// Command repo-browser is the interactive terminal browser for an
// organization's GitHub repositories.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Sternrassler/gh-repo-browser/internal/tui"
	"github.com/Sternrassler/gh-repo-browser/pkg/client"
	"github.com/Sternrassler/gh-repo-browser/pkg/logging"
	"github.com/Sternrassler/gh-repo-browser/pkg/metrics"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logFile, err := logging.OpenFile(getEnv("LOG_FILE", ""))
	if err != nil {
		return err
	}
	defer logFile.Close()

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", string(logging.LevelInfo))),
		Pretty: getEnv("LOG_PRETTY", "false") == "true",
		Output: logFile,
	})

	cfg := client.DefaultConfig(getEnv("USER_AGENT", "gh-repo-browser/0.1.0"))
	cfg.BaseURL = getEnv("GITHUB_API_URL", client.DefaultBaseURL)
	cfg.Org = getEnv("GITHUB_ORG", client.DefaultOrg)

	repoClient, err := client.New(cfg)
	if err != nil {
		return fmt.Errorf("create repository client: %w", err)
	}

	if addr := getEnv("METRICS_ADDR", ""); addr != "" {
		go serveMetrics(addr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info().Str("org", cfg.Org).Str("base_url", cfg.BaseURL).Msg("Starting repository browser")

	p := tea.NewProgram(tui.NewModel(ctx, repoClient), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal UI: %w", err)
	}

	log.Info().Msg("Repository browser stopped")
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	log.Info().Str("addr", addr).Msg("Serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
