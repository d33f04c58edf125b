package box

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/pokedex/internal/catalog"
	"github.com/listenupapp/pokedex/internal/domain"
	domainerrors "github.com/listenupapp/pokedex/internal/errors"
	"github.com/listenupapp/pokedex/internal/pokeapi"
	"github.com/listenupapp/pokedex/internal/pokeapi/pokeapitest"
)

func newFixture(t *testing.T, entries ...domain.BoxEntry) (*pokeapitest.Server, *catalog.NameIndex) {
	t.Helper()
	mons := []domain.Pokemon{
		pokeapitest.Pokemon(1, "bulbasaur"),
		pokeapitest.Pokemon(4, "charmander"),
		pokeapitest.Pokemon(7, "squirtle"),
	}
	srv := pokeapitest.New(t, pokeapitest.WithPokemon(mons...), pokeapitest.WithEntries(entries...))
	ix := catalog.NewNameIndex()
	ix.Add(mons)
	return srv, ix
}

func TestView_Load(t *testing.T) {
	srv, ix := newFixture(t,
		pokeapitest.Entry("a", 1),
		pokeapitest.Entry("b", 4),
	)
	v := NewView(srv.Client(), ix, nil)

	require.NoError(t, v.Load(context.Background()))

	snap := v.Snapshot()
	assert.Equal(t, StateLoaded, snap.State)
	require.Len(t, snap.Entries, 2)

	entry, p, ok := snap.Card(0)
	assert.True(t, ok)
	assert.Equal(t, "a", entry.ID)
	assert.Equal(t, "bulbasaur", p.Name)

	_, p, ok = snap.Card(1)
	assert.True(t, ok)
	assert.Equal(t, "charmander", p.Name)
}

func TestView_Load_NoToken(t *testing.T) {
	srv, ix := newFixture(t, pokeapitest.Entry("a", 1))
	v := NewView(srv.Client(pokeapi.WithToken("")), ix, nil)

	err := v.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAuthRequired)

	snap := v.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, "JWT token is not set", snap.Error)
	assert.Equal(t, 0, srv.TotalCalls())
}

func TestView_Load_Empty(t *testing.T) {
	srv, ix := newFixture(t)
	v := NewView(srv.Client(), ix, nil)

	require.NoError(t, v.Load(context.Background()))

	snap := v.Snapshot()
	assert.True(t, snap.Empty())
	assert.Equal(t, 1, srv.TotalCalls())
}

func TestView_Load_EntriesAreAllOrNothing(t *testing.T) {
	srv, ix := newFixture(t,
		pokeapitest.Entry("a", 1),
		pokeapitest.Entry("b", 4),
	)
	srv.Fail(http.MethodGet, "/box/b", pokeapitest.Failure{
		Status: http.StatusInternalServerError,
		Body:   `{"message":"entry b is corrupt","code":"INTERNAL"}`,
	})
	v := NewView(srv.Client(), ix, nil)

	err := v.Load(context.Background())
	require.Error(t, err)

	snap := v.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, "entry b is corrupt", snap.Error)
	assert.Empty(t, snap.Entries)
}

func TestView_Load_PlainTextFailure(t *testing.T) {
	srv, ix := newFixture(t, pokeapitest.Entry("a", 1))
	srv.Fail(http.MethodGet, "/box/", pokeapitest.Failure{
		Status: http.StatusBadGateway,
		Body:   "upstream timed out\n",
	})
	v := NewView(srv.Client(), ix, nil)

	require.Error(t, v.Load(context.Background()))
	assert.Equal(t, "upstream timed out", v.Snapshot().Error)
}

func TestView_Load_DetailFailureLeavesPlaceholder(t *testing.T) {
	srv, ix := newFixture(t,
		pokeapitest.Entry("a", 1),
		pokeapitest.Entry("b", 4),
	)
	srv.Fail(http.MethodGet, "/pokemon/charmander", pokeapitest.Failure{Status: http.StatusBadGateway})
	v := NewView(srv.Client(), ix, nil)

	require.NoError(t, v.Load(context.Background()))

	snap := v.Snapshot()
	assert.Equal(t, StateLoaded, snap.State)
	require.Len(t, snap.Entries, 2)

	_, p, ok := snap.Card(0)
	assert.True(t, ok)
	assert.Equal(t, "bulbasaur", p.Name)

	entry, _, ok := snap.Card(1)
	assert.False(t, ok)
	assert.Equal(t, "b", entry.ID)
}

func TestView_Load_UnknownPokemonIDIsNotLookedUp(t *testing.T) {
	srv, ix := newFixture(t, pokeapitest.Entry("a", 151))
	v := NewView(srv.Client(), ix, nil)

	require.NoError(t, v.Load(context.Background()))

	_, _, ok := v.Snapshot().Card(0)
	assert.False(t, ok)
	assert.Equal(t, 2, srv.TotalCalls()) // list + entry, no name lookup

	_, _, editable := v.Editable("a")
	assert.False(t, editable)
}

func TestView_Load_ErrorKeepsPreviousEntries(t *testing.T) {
	srv, ix := newFixture(t, pokeapitest.Entry("a", 1))
	v := NewView(srv.Client(), ix, nil)
	require.NoError(t, v.Load(context.Background()))

	srv.Fail(http.MethodGet, "/box/", pokeapitest.Failure{Status: http.StatusServiceUnavailable})
	require.Error(t, v.Load(context.Background()))

	snap := v.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, "Service Unavailable", snap.Error)
	assert.Len(t, snap.Entries, 1)
}

func TestView_Load_CancelledLeavesErrorState(t *testing.T) {
	srv, ix := newFixture(t, pokeapitest.Entry("a", 1))
	v := NewView(srv.Client(), ix, nil)
	require.NoError(t, v.Load(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := v.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrSuperseded)

	snap := v.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.NotEmpty(t, snap.Error)
	assert.Len(t, snap.Entries, 1)
}

func TestView_Delete_Reloads(t *testing.T) {
	srv, ix := newFixture(t,
		pokeapitest.Entry("a", 1),
		pokeapitest.Entry("b", 7),
	)
	v := NewView(srv.Client(), ix, nil)
	require.NoError(t, v.Load(context.Background()))
	require.Equal(t, 1, srv.Calls(http.MethodGet, "/box/"))

	require.NoError(t, v.Delete(context.Background(), "a"))

	assert.Equal(t, 1, srv.Calls(http.MethodDelete, "/box/a"))
	assert.Equal(t, 2, srv.Calls(http.MethodGet, "/box/"))

	snap := v.Snapshot()
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "b", snap.Entries[0].ID)
}

func TestView_Delete_FailureSkipsReload(t *testing.T) {
	srv, ix := newFixture(t, pokeapitest.Entry("a", 1))
	v := NewView(srv.Client(), ix, nil)
	require.NoError(t, v.Load(context.Background()))

	err := v.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "Box entry not found", pokeapi.Message(err))
	assert.Equal(t, 1, srv.Calls(http.MethodGet, "/box/"))
}

func TestView_Editable(t *testing.T) {
	srv, ix := newFixture(t, pokeapitest.Entry("a", 7))
	v := NewView(srv.Client(), ix, nil)
	require.NoError(t, v.Load(context.Background()))

	entry, p, ok := v.Editable("a")
	require.True(t, ok)
	assert.Equal(t, "a", entry.ID)
	assert.Equal(t, "squirtle", p.Name)

	_, _, ok = v.Editable("zzz")
	assert.False(t, ok)
}

func TestErrorMessage(t *testing.T) {
	wrap := func(status int, msg string) error {
		return &pokeapi.Error{Op: "listBox", Err: &pokeapi.HTTPError{Status: status, Message: msg}}
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "Failed to fetch Box entries"},
		{"unauthorized", wrap(401, "Invalid token"), "Unauthorized: Invalid token. Please double check your token."},
		{"forbidden", wrap(403, "Not yours"), "Forbidden: Not yours."},
		{"other status", wrap(500, "Oops"), "Oops"},
		{"auth required", domainerrors.AuthRequired("JWT token is not set"), "JWT token is not set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}
