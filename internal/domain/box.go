package domain

import "time"

// caughtAtLayout is how catch timestamps are shown to the user.
const caughtAtLayout = "Jan 2, 2006, 03:04 PM"

// BoxEntry is a user's record of a caught Pokemon.
// The remote service owns it; the client only holds refetched copies.
type BoxEntry struct {
	ID        string `json:"id"`
	PokemonID int    `json:"pokemonId"`
	Location  string `json:"location"`
	Level     int    `json:"level"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"createdAt"` // ISO-8601
}

// InsertBoxEntry is the write projection used to create an entry.
type InsertBoxEntry struct {
	PokemonID int    `json:"pokemonId"`
	Location  string `json:"location"`
	Level     int    `json:"level"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// UpdateBoxEntry is the write projection used to update an entry.
// The referenced Pokemon cannot change.
type UpdateBoxEntry struct {
	Location  string `json:"location"`
	Level     int    `json:"level"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// CaughtAt formats CreatedAt in local time.
// Unparsable timestamps are returned unchanged.
func (e *BoxEntry) CaughtAt() string {
	t, err := time.Parse(time.RFC3339, e.CreatedAt)
	if err != nil {
		return e.CreatedAt
	}
	return t.Local().Format(caughtAtLayout)
}
