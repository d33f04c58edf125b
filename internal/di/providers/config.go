// Package providers contains dependency injection providers for the pokedex.
package providers

import (
	"github.com/samber/do/v2"
	"github.com/spf13/pflag"

	"github.com/listenupapp/pokedex/internal/config"
	"github.com/listenupapp/pokedex/internal/logger"
)

// Options carries what the command line knows before the container starts.
type Options struct {
	Flags       *pflag.FlagSet
	Interactive bool
}

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	opts := do.MustInvoke[Options](i)
	return config.Load(opts.Flags)
}

// ProvideLogger provides the structured logger. The terminal UI logs to a
// file; commands log to stderr unless a file is configured.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)
	opts := do.MustInvoke[Options](i)

	logCfg := logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	}

	path := cfg.Logger.File
	if path == "" && opts.Interactive {
		path = config.DefaultLogFile()
	}

	var (
		log *logger.Logger
		err error
	)
	if path != "" {
		log, err = logger.NewFile(logCfg, path)
		if err != nil {
			return nil, err
		}
	} else {
		log = logger.New(logCfg)
	}

	log.Debug("Starting pokedex",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"api_url", cfg.API.BaseURL,
		"page_size", cfg.Catalog.PageSize,
	)

	return log, nil
}
