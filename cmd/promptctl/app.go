package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/promptozer/promptozer/internal/client"
	"github.com/promptozer/promptozer/internal/config"
	"github.com/promptozer/promptozer/internal/identity"
	"github.com/promptozer/promptozer/internal/local"
	"github.com/promptozer/promptozer/internal/logger"
	"github.com/promptozer/promptozer/internal/migration"
	"github.com/promptozer/promptozer/internal/remote"
)

// app is the wired client for one command invocation.
type app struct {
	cfg     *config.ClientConfig
	logger  *slog.Logger
	db      *local.DB
	session *client.Session
}

// openApp wires the session for the configured mode. Remote mode talks to
// the server of record and can migrate; local mode keeps everything on the
// device, including user records.
func openApp(cfg *config.ClientConfig, logOut io.Writer, color bool) (*app, error) {
	format := "plain"
	if color {
		format = "pretty"
	}
	log := logger.New(logger.Config{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: format,
		Writer: logOut,
	}).Logger

	if err := os.MkdirAll(cfg.DevicePath(), 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := local.Open(cfg.DevicePath(), log)
	if err != nil {
		return nil, err
	}
	slots := local.NewSlots(db)

	var session *client.Session
	switch cfg.Mode {
	case config.ModeLocal:
		session = client.NewSession(client.SessionConfig{
			Users:    slots,
			Identity: identity.NewResolver(local.NewUsers(db), log),
			Store:    local.NewPrompts(slots, log),
			Logger:   log,
		})

	default:
		rc, err := remote.New(cfg.ServerURL,
			remote.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			remote.WithLogger(log),
		)
		if err != nil {
			db.Close()
			return nil, err
		}
		session = client.NewSession(client.SessionConfig{
			Users:    slots,
			Identity: rc,
			Store:    rc,
			Engine:   migration.NewEngine(slots, rc, rc, log),
			Logger:   log,
		})
	}

	log.Debug("client ready", "mode", cfg.Mode, "data_dir", cfg.DataDir)
	return &app{cfg: cfg, logger: log, db: db, session: session}, nil
}

// Close releases the device store.
func (a *app) Close() error {
	return a.db.Close()
}
