package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/milletcart/api/internal/config"
	"github.com/milletcart/api/internal/router"
	"github.com/milletcart/api/internal/storage"
	"github.com/milletcart/api/internal/storage/postgres"
	"github.com/milletcart/api/internal/storage/sqlite"
	"github.com/milletcart/api/internal/ws"
	"github.com/milletcart/api/pkg/logging"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	store, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	hub := ws.NewHub()
	go hub.Run()

	r := router.New(cfg, store, hub)

	slog.Info("starting server", "port", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// openStore picks the Postgres backend when DATABASE_URL is set, otherwise
// the embedded SQLite file.
func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.DatabaseURL != "" {
		slog.Info("storage backend: postgres")
		return postgres.New(context.Background(), cfg.DatabaseURL)
	}
	slog.Info("storage backend: sqlite", "path", cfg.SQLitePath)
	return sqlite.New(cfg.SQLitePath)
}
