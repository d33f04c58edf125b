package pokeapitest

import (
	"fmt"

	"github.com/listenupapp/pokedex/internal/domain"
)

var (
	grass  = domain.TypeTag{Name: "grass", Color: "#78C850"}
	fire   = domain.TypeTag{Name: "fire", Color: "#F08030"}
	normal = domain.TypeTag{Name: "normal", Color: "#A8A878"}
)

// Pokemon builds a catalog record with plausible detail fields.
func Pokemon(id int, name string) domain.Pokemon {
	power := 40
	tag := grass
	if id%2 == 0 {
		tag = fire
	}
	return domain.Pokemon{
		ID:   id,
		Name: name,
		Sprites: domain.Sprites{
			FrontDefault: fmt.Sprintf("https://img.example/%d.png", id),
			FrontShiny:   fmt.Sprintf("https://img.example/shiny/%d.png", id),
		},
		Types:       []domain.TypeTag{tag},
		Description: fmt.Sprintf("%s is entry %d of the test catalog.", name, id),
		Stats:       map[string]int{"hp": 40 + id%60, "attack": 50, "specialAttack": 65},
		Moves: []domain.Move{
			{Name: "tackle", Power: &power, Type: normal},
			{Name: "growl", Type: normal},
		},
	}
}

// Catalog builds n Pokemon with ids 1..n named "mon-<id>".
func Catalog(n int) []domain.Pokemon {
	list := make([]domain.Pokemon, 0, n)
	for i := 1; i <= n; i++ {
		list = append(list, Pokemon(i, fmt.Sprintf("mon-%d", i)))
	}
	return list
}

// Entry builds a box entry for pokemonID.
func Entry(id string, pokemonID int) domain.BoxEntry {
	return domain.BoxEntry{
		ID:        id,
		PokemonID: pokemonID,
		Location:  "Route 1",
		Level:     5,
		CreatedAt: "2025-03-01T10:00:00Z",
	}
}
