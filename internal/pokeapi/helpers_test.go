package pokeapi_test

import (
	"context"
	"sync"

	"github.com/listenupapp/pokedex/internal/domain"
)

type countingLimiter struct {
	mu    sync.Mutex
	calls int
	keys  []string
}

func (l *countingLimiter) Wait(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	l.keys = append(l.keys, key)
	return nil
}

func validInsert() domain.InsertBoxEntry {
	return domain.InsertBoxEntry{
		PokemonID: 1,
		Location:  "Route 1",
		Level:     5,
		CreatedAt: "2025-03-01T10:00:00Z",
	}
}

func validUpdate() domain.UpdateBoxEntry {
	return domain.UpdateBoxEntry{
		Location:  "Route 2",
		Level:     6,
		CreatedAt: "2025-03-01T10:00:00Z",
	}
}
