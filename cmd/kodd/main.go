// Command kodd runs the Kingdoms of Discord game server: a websocket chat
// gateway in front of the kingdom engine, with movement and daily-cycle
// timers running in the background.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/madeofmoss/KoD/internal/command"
	"github.com/madeofmoss/KoD/internal/config"
	"github.com/madeofmoss/KoD/internal/engine"
	"github.com/madeofmoss/KoD/internal/entropy"
	"github.com/madeofmoss/KoD/internal/gateway"
	"github.com/madeofmoss/KoD/internal/persistence"
	"github.com/madeofmoss/KoD/internal/rules"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Engine wiring ─────────────────────────────────────────────────
	dice := entropy.New(cfg.RandomOrgKey)
	if cfg.RandomOrgKey != "" {
		slog.Info("random.org entropy pool enabled")
	}

	// The gateway is the engine's notifier and the dispatcher's transport;
	// the dispatcher arrives after construction to break the cycle.
	server := gateway.NewServer(nil)
	eng := engine.New(rules.Default(), db, dice, server, cfg.Engine())
	server.SetDispatcher(command.NewDispatcher(eng))

	ctx, cancel := context.WithCancel(context.Background())
	sched := engine.NewScheduler(eng,
		time.Duration(cfg.MoveInterval), time.Duration(cfg.DayInterval))
	go sched.Run(ctx)

	// ── HTTP ──────────────────────────────────────────────────────────
	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websocket writes are unbounded
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		httpServer.Shutdown(shutdownCtx)
	}()

	slog.Info("kingdoms server listening", "addr", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
