package providers

import (
	"time"

	"github.com/samber/do/v2"

	"github.com/listenupapp/pokedex/internal/auth"
	"github.com/listenupapp/pokedex/internal/config"
	"github.com/listenupapp/pokedex/internal/credentials"
	"github.com/listenupapp/pokedex/internal/logger"
	"github.com/listenupapp/pokedex/internal/pokeapi"
	"github.com/listenupapp/pokedex/internal/ratelimit"
)

// ProvideRateLimiter provides the outbound request limiter.
func ProvideRateLimiter(i do.Injector) (*ratelimit.KeyedRateLimiter, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return ratelimit.New(cfg.API.RateLimit, cfg.API.RateBurst), nil
}

// ProvideClient provides the API client holding the resolved token.
func ProvideClient(i do.Injector) (*pokeapi.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	limiter := do.MustInvoke[*ratelimit.KeyedRateLimiter](i)

	token, err := credentials.Resolve(cfg.API.Token, cfg.API.TokenFile)
	if err != nil {
		return nil, err
	}

	client := pokeapi.New(cfg.API.BaseURL,
		pokeapi.WithLogger(log.Logger),
		pokeapi.WithLimiter(limiter),
		pokeapi.WithTimeout(cfg.API.Timeout),
		pokeapi.WithToken(token),
	)

	log.Info("API client initialized",
		"base_url", client.BaseURL(),
		"token_set", client.HasToken(),
	)

	if info, err := auth.Inspect(client.Token()); err == nil && info.Expired(time.Now()) {
		log.Warn("Bearer token has expired; box requests will be rejected",
			"expired_at", info.ExpiresAt,
		)
	}

	return client, nil
}
