// Package providers contains dependency injection providers for the prompt server.
package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/promptozer/promptozer/internal/config"
	"github.com/promptozer/promptozer/internal/logger"
)

// ProvideConfig returns a provider that loads the configuration from args.
func ProvideConfig(args []string) do.Provider[*config.Config] {
	return func(_ do.Injector) (*config.Config, error) {
		return config.LoadConfig(args)
	}
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Promptozer server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_dir", cfg.Data.Dir,
		"db_driver", cfg.Database.Driver,
	)

	return log, nil
}

// ProvideSlogLogger provides access to the underlying slog.Logger for packages that need it.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return log.Logger, nil
}
