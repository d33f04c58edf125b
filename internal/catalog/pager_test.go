package catalog

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/pokedex/internal/domain"
	"github.com/listenupapp/pokedex/internal/pokeapi/pokeapitest"
)

func TestPager_Initial(t *testing.T) {
	p := NewPager(&fakeLister{failAt: -1}, 0, nil)
	assert.Equal(t, DefaultPageSize, p.PageSize())

	snap := p.Snapshot()
	assert.Equal(t, StateLoading, snap.State)
	assert.False(t, p.CanPrev())
	assert.False(t, p.CanNext())
}

func TestPager_OffsetIsPageTimesSize(t *testing.T) {
	src := &fakeLister{sizes: []int{10, 10, 10, 10}, failAt: -1}
	p := NewPager(src, 10, nil)

	for _, page := range []int{0, 3, 1} {
		require.NoError(t, p.Load(context.Background(), page))
	}

	assert.Equal(t, []int{0, 30, 10}, src.offsets)
	assert.Equal(t, []int{10, 10, 10}, src.limits)
}

func TestPager_HasMore(t *testing.T) {
	tests := []struct {
		name     string
		returned int
		want     bool
	}{
		{"full page", 10, true},
		{"short page", 7, false},
		{"empty page", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPager(&fakeLister{sizes: []int{tt.returned}, failAt: -1}, 10, nil)
			require.NoError(t, p.Load(context.Background(), 0))

			snap := p.Snapshot()
			assert.Equal(t, StateLoaded, snap.State)
			assert.Equal(t, tt.want, snap.HasMore)
			assert.Equal(t, tt.want, p.CanNext())
			assert.Len(t, snap.Items, tt.returned)
		})
	}
}

func TestPager_NextAndPrev(t *testing.T) {
	srv := pokeapitest.New(t, pokeapitest.WithPokemon(pokeapitest.Catalog(25)...))
	p := NewPager(srv.Client(), 10, nil)
	ctx := context.Background()

	require.NoError(t, p.Load(ctx, 0))
	assert.False(t, p.CanPrev())
	assert.True(t, p.CanNext())

	require.NoError(t, p.Next(ctx))
	require.NoError(t, p.Next(ctx))
	snap := p.Snapshot()
	assert.Equal(t, 2, snap.Number)
	assert.Len(t, snap.Items, 5)
	assert.Equal(t, 21, snap.Items[0].ID)
	assert.False(t, p.CanNext())

	// Next at the end is a no-op.
	require.NoError(t, p.Next(ctx))
	assert.Equal(t, 2, p.Current())
	assert.Equal(t, 3, srv.Calls(http.MethodGet, "/pokemon/"))

	require.NoError(t, p.Prev(ctx))
	assert.Equal(t, 1, p.Current())
	assert.True(t, p.CanPrev())
}

func TestPager_ErrorKeepsItemsAndRetry(t *testing.T) {
	srv := pokeapitest.New(t, pokeapitest.WithPokemon(pokeapitest.Catalog(25)...))
	p := NewPager(srv.Client(), 10, nil)
	ctx := context.Background()

	require.NoError(t, p.Load(ctx, 0))

	srv.Fail(http.MethodGet, "/pokemon/", pokeapitest.Failure{
		Status: http.StatusInternalServerError,
		Body:   `{"message":"database unavailable","code":"INTERNAL"}`,
	})
	require.Error(t, p.Next(ctx))

	snap := p.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, "database unavailable", snap.Error)
	assert.Equal(t, 1, snap.Number)
	require.Len(t, snap.Items, 10)
	assert.Equal(t, 1, snap.Items[0].ID)

	srv.Recover(http.MethodGet, "/pokemon/")
	require.NoError(t, p.Retry(ctx))

	snap = p.Snapshot()
	assert.Equal(t, StateLoaded, snap.State)
	assert.Empty(t, snap.Error)
	assert.Equal(t, 11, snap.Items[0].ID)
}

// blockingLister holds the first call until released.
type blockingLister struct {
	first   chan struct{}
	release chan struct{}
	calls   int
}

func (b *blockingLister) ListPokemon(ctx context.Context, limit, offset int) ([]domain.Pokemon, error) {
	b.calls++
	if b.calls == 1 {
		close(b.first)
		select {
		case <-b.release:
		case <-ctx.Done():
		}
		return []domain.Pokemon{{ID: 1, Name: "stale"}}, nil
	}
	return []domain.Pokemon{{ID: offset + 1, Name: "fresh"}}, nil
}

func TestPager_StaleResultIsDropped(t *testing.T) {
	src := &blockingLister{first: make(chan struct{}), release: make(chan struct{})}
	p := NewPager(src, 10, nil)

	errc := make(chan error, 1)
	go func() { errc <- p.Load(context.Background(), 0) }()
	<-src.first

	require.NoError(t, p.Load(context.Background(), 4))
	close(src.release)

	assert.ErrorIs(t, <-errc, ErrSuperseded)

	snap := p.Snapshot()
	assert.Equal(t, 4, snap.Number)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "fresh", snap.Items[0].Name)
}

func TestPager_Close(t *testing.T) {
	p := NewPager(&fakeLister{sizes: []int{10}, failAt: -1}, 10, nil)
	p.Close()
	assert.ErrorIs(t, p.Load(context.Background(), 0), ErrSuperseded)
}

type contextLister struct{}

func (contextLister) ListPokemon(ctx context.Context, limit, _ int) ([]domain.Pokemon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return make([]domain.Pokemon, limit), nil
}

func TestPager_CancelledLoadLeavesErrorState(t *testing.T) {
	p := NewPager(contextLister{}, 10, nil)
	require.NoError(t, p.Load(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Load(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrSuperseded)

	snap := p.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.NotEmpty(t, snap.Error)
	assert.Len(t, snap.Items, 10, "previous items are kept")
	assert.True(t, p.CanNext(), "paging is usable again")
}
