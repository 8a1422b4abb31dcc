package providers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/promptozer/promptozer/internal/config"
	"github.com/promptozer/promptozer/internal/logger"
	"github.com/promptozer/promptozer/internal/store"
	"github.com/promptozer/promptozer/internal/store/postgres"
	"github.com/promptozer/promptozer/internal/store/sqlite"
)

// StoreHandle wraps the repository with shutdown capability.
type StoreHandle struct {
	store.Repository
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the configured server-of-record database.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		repo, err := postgres.Open(ctx, cfg.Database.DSN, log.Logger)
		if err != nil {
			return nil, err
		}
		log.Info("Database initialized", "driver", cfg.Database.Driver)
		return &StoreHandle{Repository: repo}, nil

	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
		repo, err := sqlite.Open(cfg.Database.DSN, log.Logger)
		if err != nil {
			return nil, err
		}
		log.Info("Database initialized", "driver", cfg.Database.Driver, "path", cfg.Database.DSN)
		return &StoreHandle{Repository: repo}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
