// Package di wires the pokedex services together.
package di

import (
	"github.com/samber/do/v2"
	"github.com/spf13/pflag"

	"github.com/listenupapp/pokedex/internal/app"
	"github.com/listenupapp/pokedex/internal/config"
	"github.com/listenupapp/pokedex/internal/di/providers"
	"github.com/listenupapp/pokedex/internal/logger"
)

// NewContainer creates and configures the DI container with all providers.
// flags holds the parsed command-line flags; interactive selects file
// logging so the terminal UI keeps the screen.
func NewContainer(flags *pflag.FlagSet, interactive bool) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, providers.Options{Flags: flags, Interactive: interactive})

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Remote service
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideClient)

	// Session
	do.Provide(injector, providers.ProvideSession)
	do.Provide(injector, providers.ProvideTokenWatcher)

	return injector
}

// Bootstrap initializes the core services so configuration errors surface
// before any command runs.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*app.Session](injector); err != nil {
		return err
	}
	return nil
}
