package catalog

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/listenupapp/pokedex/internal/domain"
	"github.com/listenupapp/pokedex/internal/fetch"
	"github.com/listenupapp/pokedex/internal/pokeapi"
)

// DefaultPageSize is the list view's page size.
const DefaultPageSize = 10

// ErrSuperseded is returned by Load when a newer load replaced it. The
// result was discarded.
var ErrSuperseded = errors.New("catalog: load superseded")

// State is the list view's load state.
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Page is a point-in-time copy of the pager's state.
type Page struct {
	Number  int // zero-based
	Items   []domain.Pokemon
	HasMore bool
	State   State
	Error   string
}

// Pager pages through the catalog. There is no total count, so a page that
// comes back full is taken to mean another page exists.
type Pager struct {
	src      Lister
	pageSize int
	logger   *slog.Logger
	scope    fetch.Scope

	mu      sync.Mutex
	page    int
	items   []domain.Pokemon
	hasMore bool
	state   State
	errMsg  string
}

// NewPager creates a pager in the loading state. pageSize < 1 uses
// DefaultPageSize.
func NewPager(src Lister, pageSize int, logger *slog.Logger) *Pager {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pager{
		src:      src,
		pageSize: pageSize,
		logger:   logger,
		hasMore:  true,
		state:    StateLoading,
	}
}

// PageSize returns the configured page size.
func (p *Pager) PageSize() int { return p.pageSize }

// Load fetches page (zero-based) and commits it if no later load started
// meanwhile. On failure the previous items stay in place and the state
// carries the error message.
func (p *Pager) Load(ctx context.Context, page int) error {
	page = max(page, 0)

	p.mu.Lock()
	ctx, ticket := p.scope.Begin(ctx)
	p.page = page
	p.state = StateLoading
	p.errMsg = ""
	p.mu.Unlock()

	list, err := p.src.ListPokemon(ctx, p.pageSize, page*p.pageSize)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.scope.Superseded(ticket) {
		return ErrSuperseded
	}

	if err != nil {
		p.state = StateError
		p.errMsg = pokeapi.Message(err)
		if p.errMsg == "" {
			p.errMsg = "Failed to fetch Pokemon"
		}
		p.logger.Warn("catalog page failed", "page", page, "error", err)
		return err
	}

	p.items = list
	p.hasMore = len(list) == p.pageSize
	p.state = StateLoaded
	return nil
}

// Next loads the following page. It is a no-op when CanNext is false.
func (p *Pager) Next(ctx context.Context) error {
	if !p.CanNext() {
		return nil
	}
	return p.Load(ctx, p.Current()+1)
}

// Prev loads the preceding page. It is a no-op when CanPrev is false.
func (p *Pager) Prev(ctx context.Context) error {
	if !p.CanPrev() {
		return nil
	}
	return p.Load(ctx, p.Current()-1)
}

// Retry reloads the current page.
func (p *Pager) Retry(ctx context.Context) error {
	return p.Load(ctx, p.Current())
}

// Current returns the zero-based page number.
func (p *Pager) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// CanPrev is false on the first page or while loading.
func (p *Pager) CanPrev() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page > 0 && p.state != StateLoading
}

// CanNext is false when the last page came back short or while loading.
func (p *Pager) CanNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore && p.state != StateLoading
}

// Snapshot copies the current state.
func (p *Pager) Snapshot() Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Page{
		Number:  p.page,
		Items:   slices.Clone(p.items),
		HasMore: p.hasMore,
		State:   p.state,
		Error:   p.errMsg,
	}
}

// Close cancels any load in flight.
func (p *Pager) Close() {
	p.scope.Close()
}
