// Package backend selects and opens the configured storage gateway.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"moneta/internal/config"
	"moneta/internal/storage"
	"moneta/internal/storage/postgres"
	"moneta/internal/storage/sqlite"
)

// OpenGateway opens the gateway named by cfg.DataBackend, running its
// embedded migrations.
func OpenGateway(ctx context.Context, cfg *config.Config) (storage.Gateway, error) {
	switch cfg.DataBackend {
	case config.BackendSQLite:
		slog.InfoContext(ctx, "opening sqlite backend", "path", cfg.SQLiteDBPath)
		return sqlite.Open(cfg.SQLiteDBPath)
	case config.BackendPostgres:
		slog.InfoContext(ctx, "opening postgres backend")
		return postgres.Open(ctx, cfg.PostgresURL)
	default:
		return nil, fmt.Errorf("unsupported data backend %q", cfg.DataBackend)
	}
}
