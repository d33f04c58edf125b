// Package box loads and edits the signed-in user's box of caught Pokemon.
package box

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/listenupapp/pokedex/internal/domain"
	domainerrors "github.com/listenupapp/pokedex/internal/errors"
	"github.com/listenupapp/pokedex/internal/fetch"
	"github.com/listenupapp/pokedex/internal/pokeapi"
)

const fallbackLoadMessage = "Failed to fetch Box entries"

// ErrSuperseded is returned by Load when a newer load replaced it.
var ErrSuperseded = errors.New("box: load superseded")

// Service is the part of the API the box view uses.
// *pokeapi.Client satisfies it.
type Service interface {
	HasToken() bool
	ListBoxEntryIDs(ctx context.Context) ([]string, error)
	GetBoxEntry(ctx context.Context, entryID string) (*domain.BoxEntry, error)
	GetPokemonByName(ctx context.Context, name string) (*domain.Pokemon, error)
	DeleteBoxEntry(ctx context.Context, entryID string) error
}

// Names resolves Pokemon ids. *catalog.NameIndex satisfies it.
type Names interface {
	Lookup(id int) (string, bool)
}

// State is the box view's load state.
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateError
)

// Snapshot is a point-in-time copy of the view.
type Snapshot struct {
	Entries []domain.BoxEntry
	Pokemon map[string]domain.Pokemon // keyed by entry id; missing means unresolved
	State   State
	Error   string
}

// Card returns entry i and its Pokemon. ok is false while the Pokemon is
// unresolved; such entries render as a placeholder.
func (s Snapshot) Card(i int) (entry domain.BoxEntry, p domain.Pokemon, ok bool) {
	entry = s.Entries[i]
	p, ok = s.Pokemon[entry.ID]
	return entry, p, ok
}

// Empty reports a loaded box with no entries.
func (s Snapshot) Empty() bool {
	return s.State == StateLoaded && len(s.Entries) == 0
}

// View is the box list controller.
type View struct {
	svc    Service
	names  Names
	logger *slog.Logger
	scope  fetch.Scope

	mu      sync.Mutex
	entries []domain.BoxEntry
	pokemon map[string]domain.Pokemon
	state   State
	errMsg  string
}

// NewView creates a view in the loading state.
func NewView(svc Service, names Names, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &View{
		svc:     svc,
		names:   names,
		logger:  logger,
		pokemon: make(map[string]domain.Pokemon),
		state:   StateLoading,
	}
}

// Load fetches the box: the id list, then every entry (all must succeed),
// then the Pokemon behind each entry the name index can resolve. A failed
// Pokemon lookup only leaves that entry unresolved.
//
// On failure the previous entries stay in place and the state carries the
// message from ErrorMessage.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	ctx, ticket := v.scope.Begin(ctx)
	v.state = StateLoading
	v.errMsg = ""
	v.mu.Unlock()

	entries, resolved, err := v.fetch(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.scope.Superseded(ticket) {
		return ErrSuperseded
	}

	if err != nil {
		v.state = StateError
		v.errMsg = ErrorMessage(err)
		v.logger.Warn("box load failed", "error", err)
		return err
	}

	v.entries = entries
	v.pokemon = resolved
	v.state = StateLoaded
	return nil
}

func (v *View) fetch(ctx context.Context) ([]domain.BoxEntry, map[string]domain.Pokemon, error) {
	if !v.svc.HasToken() {
		return nil, nil, domainerrors.AuthRequired("JWT token is not set")
	}

	ids, err := v.svc.ListBoxEntryIDs(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(ids) == 0 {
		return []domain.BoxEntry{}, map[string]domain.Pokemon{}, nil
	}

	entries := make([]domain.BoxEntry, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, entryID := range ids {
		g.Go(func() error {
			entry, err := v.svc.GetBoxEntry(gctx, entryID)
			if err != nil {
				return err
			}
			entries[i] = *entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		mu       sync.Mutex
		resolved = make(map[string]domain.Pokemon, len(entries))
		details  errgroup.Group
	)
	for _, entry := range entries {
		name, ok := v.names.Lookup(entry.PokemonID)
		if !ok {
			v.logger.Debug("box entry unresolved", "entry", entry.ID, "pokemon_id", entry.PokemonID)
			continue
		}
		details.Go(func() error {
			p, err := v.svc.GetPokemonByName(ctx, name)
			if err != nil {
				v.logger.Debug("box entry details failed", "entry", entry.ID, "name", name, "error", err)
				return nil
			}
			mu.Lock()
			resolved[entry.ID] = *p
			mu.Unlock()
			return nil
		})
	}
	_ = details.Wait()

	return entries, resolved, nil
}

// Snapshot copies the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	pokemon := make(map[string]domain.Pokemon, len(v.pokemon))
	for k, p := range v.pokemon {
		pokemon[k] = p
	}
	return Snapshot{
		Entries: slices.Clone(v.entries),
		Pokemon: pokemon,
		State:   v.state,
		Error:   v.errMsg,
	}
}

// Editable returns the entry and its Pokemon when the entry can be edited.
// Only entries whose Pokemon resolved are editable.
func (v *View) Editable(entryID string) (domain.BoxEntry, domain.Pokemon, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	p, ok := v.pokemon[entryID]
	if !ok {
		return domain.BoxEntry{}, domain.Pokemon{}, false
	}
	idx := slices.IndexFunc(v.entries, func(e domain.BoxEntry) bool { return e.ID == entryID })
	if idx < 0 {
		return domain.BoxEntry{}, domain.Pokemon{}, false
	}
	return v.entries[idx], p, true
}

// Delete releases an entry and reloads the whole box. A failed delete is
// returned unchanged and nothing is reloaded.
func (v *View) Delete(ctx context.Context, entryID string) error {
	if err := v.svc.DeleteBoxEntry(ctx, entryID); err != nil {
		return err
	}
	v.logger.Info("box entry released", "entry", entryID)
	return v.Load(ctx)
}

// Close cancels any load in flight.
func (v *View) Close() {
	v.scope.Close()
}

// ErrorMessage renders a load failure for the user. Rejected tokens get a
// hint to check the token.
func ErrorMessage(err error) string {
	if err == nil {
		return fallbackLoadMessage
	}

	msg := pokeapi.Message(err)
	if msg == "" {
		msg = fallbackLoadMessage
	}

	switch pokeapi.Status(err) {
	case http.StatusUnauthorized:
		return fmt.Sprintf("Unauthorized: %s. Please double check your token.", msg)
	case http.StatusForbidden:
		return fmt.Sprintf("Forbidden: %s.", msg)
	default:
		return msg
	}
}
