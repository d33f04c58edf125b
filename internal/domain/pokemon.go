package domain

import (
	"maps"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Pokemon is a catalog entry as served by the remote API.
// Values are immutable once fetched; the client never persists them.
type Pokemon struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Sprites     Sprites        `json:"sprites"`
	Types       []TypeTag      `json:"types"`
	Description string         `json:"description"`
	Stats       map[string]int `json:"stats"`
	Moves       []Move         `json:"moves"`
}

// Sprites holds the image URLs for a Pokemon.
type Sprites struct {
	FrontDefault string `json:"front_default"`
	FrontShiny   string `json:"front_shiny"`
}

// TypeTag is an elemental type with the display color the API assigns to it.
type TypeTag struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Move is a learnable move. Power is nil for status moves.
type Move struct {
	Name  string  `json:"name"`
	Power *int    `json:"power,omitempty"`
	Type  TypeTag `json:"type"`
}

// DisplayName returns the Pokemon name title-cased for display.
func (p *Pokemon) DisplayName() string {
	return DisplayName(p.Name)
}

// DisplayName title-cases an API name: "mr-mime" -> "Mr-Mime".
func DisplayName(name string) string {
	// Casers carry state and must not be shared between goroutines.
	return cases.Title(language.English).String(name)
}

// StatLabel turns a camelCase stat key into words.
// "specialAttack" -> "Special Attack", "hp" -> "Hp".
func StatLabel(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return DisplayName(strings.TrimSpace(b.String()))
}

// statOrder is the display order for the stats the API is known to send.
var statOrder = []string{"hp", "attack", "defense", "specialAttack", "specialDefense", "speed"}

// StatKeys returns the keys of stats in display order: the standard stats
// first, then any others alphabetically.
func StatKeys(stats map[string]int) []string {
	rank := func(k string) int {
		if i := slices.Index(statOrder, k); i >= 0 {
			return i
		}
		return len(statOrder)
	}
	keys := slices.Collect(maps.Keys(stats))
	slices.SortFunc(keys, func(a, b string) int {
		if d := rank(a) - rank(b); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return keys
}
