package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/listenupapp/pokedex/internal/app"
	"github.com/listenupapp/pokedex/internal/config"
	"github.com/listenupapp/pokedex/internal/credentials"
	"github.com/listenupapp/pokedex/internal/logger"
	"github.com/listenupapp/pokedex/internal/pokeapi"
)

// ProvideSession provides the root controller. Its Shutdown stops the
// name index build.
func ProvideSession(i do.Injector) (*app.Session, error) {
	client := do.MustInvoke[*pokeapi.Client](i)
	log := do.MustInvoke[*logger.Logger](i)
	return app.NewSession(client, log.Logger), nil
}

// TokenWatcherHandle wraps the token file watcher with shutdown capability.
// Watcher is nil when no token file is configured.
type TokenWatcherHandle struct {
	Watcher *credentials.Watcher
	cancel  context.CancelFunc
}

// Shutdown implements do.ShutdownerWithError.
func (h *TokenWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	<-h.Watcher.Done()
	return nil
}

// ProvideTokenWatcher follows the configured token file and applies every
// change to the session's client.
func ProvideTokenWatcher(i do.Injector) (*TokenWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	session := do.MustInvoke[*app.Session](i)

	if cfg.API.TokenFile == "" {
		return &TokenWatcherHandle{}, nil
	}

	// An explicit token is never replaced by the file.
	if !credentials.IsPlaceholder(cfg.API.Token) {
		return &TokenWatcherHandle{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	w, err := credentials.Watch(ctx, cfg.API.TokenFile, log.Logger, func(token string) {
		session.ApplyToken(token)
	})
	if err != nil {
		cancel()
		log.Warn("Token file watch unavailable", "path", cfg.API.TokenFile, "error", err)
		return &TokenWatcherHandle{}, nil
	}

	log.Info("Watching token file", "path", cfg.API.TokenFile)
	return &TokenWatcherHandle{Watcher: w, cancel: cancel}, nil
}
