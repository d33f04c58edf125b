package main

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/pokedex/internal/pokeapi/pokeapitest"
)

// execute runs the CLI against srv and returns what it printed.
func execute(t *testing.T, srv *pokeapitest.Server, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"POKEDEX_TOKEN", "POKEDEX_TOKEN_FILE", "POKEDEX_PAGE_SIZE", "POKEDEX_API_URL"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	base := []string{
		"--api-url", srv.BaseURL(),
		"--token", pokeapitest.DefaultToken,
		"--env-file", filepath.Join(dir, "missing.env"),
		"--log-file", filepath.Join(dir, "pokedex.log"),
	}

	var out, errOut bytes.Buffer
	err := run(context.Background(), append(args, base...), strings.NewReader(stdin), &out, &errOut)
	return out.String(), err
}

func TestCatalogList(t *testing.T) {
	srv := pokeapitest.New(t, pokeapitest.WithPokemon(pokeapitest.Catalog(7)...))

	out, err := execute(t, srv, "", "catalog", "list", "--page-size", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Mon-1")
	assert.Contains(t, out, "Mon-5")
	assert.NotContains(t, out, "Mon-6")
	assert.Contains(t, out, "Page 1 (next: --page 2)")

	out, err = execute(t, srv, "", "catalog", "list", "--page-size", "5", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Mon-7")
	assert.Contains(t, out, "Page 2\n")
}

func TestCatalogList_InvalidPage(t *testing.T) {
	srv := pokeapitest.New(t)

	_, err := execute(t, srv, "", "catalog", "list", "--page", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid page")
	assert.Equal(t, 0, srv.TotalCalls())
}

func TestCatalogShow(t *testing.T) {
	srv := pokeapitest.New(t, pokeapitest.WithPokemon(pokeapitest.Catalog(3)...))

	out, err := execute(t, srv, "", "catalog", "show", "MON-2")
	require.NoError(t, err)
	assert.Contains(t, out, "#2 Mon-2")
	assert.Contains(t, out, "Types: fire")
	assert.Contains(t, out, "Special Attack")
	assert.Contains(t, out, "Tackle")

	_, err = execute(t, srv, "", "catalog", "show", "missingno")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Pokemon missingno not found")
}

func TestBoxList(t *testing.T) {
	srv := pokeapitest.New(t,
		pokeapitest.WithPokemon(pokeapitest.Catalog(3)...),
		pokeapitest.WithEntries(pokeapitest.Entry("a", 1), pokeapitest.Entry("b", 3)),
	)

	out, err := execute(t, srv, "", "box", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Mon-1")
	assert.Contains(t, out, "Mon-3")
	assert.Contains(t, out, "Route 1")
}

func TestBoxList_Empty(t *testing.T) {
	srv := pokeapitest.New(t)

	out, err := execute(t, srv, "", "box", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Your Box is empty!")
}

func TestBoxList_Unauthorized(t *testing.T) {
	srv := pokeapitest.New(t, pokeapitest.WithToken("other"))

	_, err := execute(t, srv, "", "box", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please double check your token")
}

func TestBoxAdd(t *testing.T) {
	srv := pokeapitest.New(t, pokeapitest.WithPokemon(pokeapitest.Catalog(3)...))

	out, err := execute(t, srv, "", "box", "add", "mon-2",
		"--location", "Cerulean Cave",
		"--level", "70",
		"--notes", "first try",
		"--caught-at", "2025-05-04T10:11:12+02:00",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Caught Mon-2")

	entries := srv.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].PokemonID)
	assert.Equal(t, "Cerulean Cave", entries[0].Location)
	assert.Equal(t, 70, entries[0].Level)
	assert.Equal(t, "first try", entries[0].Notes)
	assert.Equal(t, "2025-05-04T08:11:12.000Z", entries[0].CreatedAt)
}

func TestBoxAdd_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing location", []string{"--level", "5"}, "Location is required"},
		{"level too high", []string{"--location", "Route 1", "--level", "101"}, "Level must be a number between 1 and 100"},
		{"bad date", []string{"--location", "Route 1", "--level", "5", "--caught-at", "yesterday"}, "invalid --caught-at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := pokeapitest.New(t, pokeapitest.WithPokemon(pokeapitest.Catalog(1)...))

			_, err := execute(t, srv, "", append([]string{"box", "add", "mon-1"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, 0, srv.Calls(http.MethodPost, "/box/"))
		})
	}
}

func TestBoxEdit(t *testing.T) {
	srv := pokeapitest.New(t,
		pokeapitest.WithPokemon(pokeapitest.Catalog(1)...),
		pokeapitest.WithEntries(pokeapitest.Entry("a", 1)),
	)

	out, err := execute(t, srv, "", "box", "edit", "a", "--level", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated entry a: level 9 at Route 1")

	entry := srv.Entries()[0]
	assert.Equal(t, 9, entry.Level)
	assert.Equal(t, "Route 1", entry.Location)
	assert.Equal(t, "2025-03-01T10:00:00Z", entry.CreatedAt)
}

func TestBoxEdit_NotFound(t *testing.T) {
	srv := pokeapitest.New(t)

	_, err := execute(t, srv, "", "box", "edit", "nope", "--level", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Box entry not found")
}

func TestBoxRelease(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     []string
		released bool
	}{
		{"confirmed", "y\n", nil, true},
		{"declined", "n\n", nil, false},
		{"no answer", "", nil, false},
		{"yes flag", "", []string{"--yes"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := pokeapitest.New(t, pokeapitest.WithEntries(pokeapitest.Entry("a", 1)))

			out, err := execute(t, srv, tt.stdin, append([]string{"box", "release", "a"}, tt.args...)...)
			require.NoError(t, err)

			if tt.released {
				assert.Contains(t, out, "Released entry a")
				assert.Empty(t, srv.Entries())
			} else {
				assert.Contains(t, out, "Aborted.")
				assert.Len(t, srv.Entries(), 1)
				assert.Equal(t, 0, srv.Calls(http.MethodDelete, "/box/a"))
			}
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	srv := pokeapitest.New(t)

	_, err := execute(t, srv, "", "catalog", "list", "--page-size", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid page size")
}
