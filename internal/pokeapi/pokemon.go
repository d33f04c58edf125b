package pokeapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/listenupapp/pokedex/internal/domain"
)

// ListPokemon returns one catalog page. Unauthenticated.
func (c *Client) ListPokemon(ctx context.Context, limit, offset int) ([]domain.Pokemon, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var list []domain.Pokemon
	err := c.do(ctx, call{
		op:     "listPokemon",
		method: http.MethodGet,
		path:   "/pokemon/",
		query:  query,
	}, &list)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Pokemon{}
	}
	return list, nil
}

// GetPokemonByName returns the full record for one Pokemon. Unauthenticated.
// The service has no lookup by id.
func (c *Client) GetPokemonByName(ctx context.Context, name string) (*domain.Pokemon, error) {
	var p domain.Pokemon
	err := c.do(ctx, call{
		op:     "getPokemon",
		ref:    name,
		method: http.MethodGet,
		path:   "/pokemon/" + url.PathEscape(name),
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
