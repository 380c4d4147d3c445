package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"

	"github.com/L1m-NguyenHai/Tauri-Product-Review-sub001/internal/adapter/outbound/api"
	"github.com/L1m-NguyenHai/Tauri-Product-Review-sub001/internal/adapter/outbound/state"
	"github.com/L1m-NguyenHai/Tauri-Product-Review-sub001/internal/config"
	"github.com/L1m-NguyenHai/Tauri-Product-Review-sub001/internal/service"
)

// buildSession wires config, logger, gateway client, snapshot store, and
// the session service. Every subcommand that talks to the backend goes
// through here so flag/env/file precedence is applied exactly once.
func buildSession() (*service.SessionService, *config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg.Log)

	opts := []api.Option{
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithTimeout(cfg.APITimeout()),
		api.WithLogger(logger),
		api.WithMetrics(api.NewMetrics(prometheus.NewRegistry())),
	}
	if cfg.API.RateLimit > 0 {
		opts = append(opts, api.WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst))
	}
	client := api.NewClient(opts...)

	path := statePath
	if path == "" {
		path = cfg.State.Path
	}
	if path == "" {
		path = state.DefaultPath()
	}
	store := state.NewFileSnapshotStore(path, logger)

	svc := service.NewSessionService(client, store, service.Config{
		TTL:    cfg.SessionTTL(),
		Logger: logger,
	})
	return svc, cfg, nil
}

// newLogger builds the slog logger from the log config. Diagnostics go to
// stderr so command output stays pipeable.
func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// promptPassword reads a password from the terminal without echo when
// stdin is a TTY, or a single line otherwise (piped input, tests).
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		defer fmt.Fprintln(os.Stderr)
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
