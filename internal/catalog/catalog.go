// Package catalog drives the paged Pokemon list, the details lookup and the
// background id to name index the box depends on.
package catalog

import (
	"context"

	"github.com/listenupapp/pokedex/internal/domain"
)

// Lister fetches one catalog page. *pokeapi.Client satisfies it.
type Lister interface {
	ListPokemon(ctx context.Context, limit, offset int) ([]domain.Pokemon, error)
}

// Getter fetches a full record by name. *pokeapi.Client satisfies it.
type Getter interface {
	GetPokemonByName(ctx context.Context, name string) (*domain.Pokemon, error)
}

// LoadDetails re-fetches summary by name. On failure the summary itself is
// returned with fellBack set, so the overlay still has something to show.
func LoadDetails(ctx context.Context, src Getter, summary domain.Pokemon) (p domain.Pokemon, fellBack bool, err error) {
	full, err := src.GetPokemonByName(ctx, summary.Name)
	if err != nil {
		return summary, true, err
	}
	return *full, false, nil
}
