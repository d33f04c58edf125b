// Package app holds the state shared by every screen: the API client, the
// id to name index, the active view and the selected Pokemon.
package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/listenupapp/pokedex/internal/catalog"
	"github.com/listenupapp/pokedex/internal/credentials"
	"github.com/listenupapp/pokedex/internal/domain"
	"github.com/listenupapp/pokedex/internal/pokeapi"
)

// View selects the main screen.
type View int

const (
	ViewCatalog View = iota
	ViewBox
)

func (v View) String() string {
	switch v {
	case ViewCatalog:
		return "All Pokemon"
	case ViewBox:
		return "My Box"
	default:
		return "unknown"
	}
}

// Session is the root controller. It is safe for concurrent use.
type Session struct {
	client *pokeapi.Client
	names  *catalog.NameIndex
	logger *slog.Logger

	indexOnce sync.Once
	indexDone chan struct{}

	mu           sync.Mutex
	indexStarted bool
	stopIndex    context.CancelFunc
	view         View
	selected     *domain.Pokemon
	detailsOpen  bool
}

// NewSession creates a session on the catalog view.
func NewSession(client *pokeapi.Client, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		client:    client,
		names:     catalog.NewNameIndex(),
		logger:    logger,
		indexDone: make(chan struct{}),
	}
}

// Client returns the shared API client.
func (s *Session) Client() *pokeapi.Client { return s.client }

// Names returns the id to name index. It may still be filling.
func (s *Session) Names() *catalog.NameIndex { return s.names }

// ApplyToken sets token on the client unless it is empty or a placeholder,
// in which case the client's token is cleared. It reports whether a token
// is now set.
func (s *Session) ApplyToken(token string) bool {
	token = credentials.Normalize(token)
	s.client.SetToken(token)
	return token != ""
}

// StartIndex builds the name index in the background. Only the first call
// starts a build; the build is never awaited by the views.
func (s *Session) StartIndex(ctx context.Context) {
	s.indexOnce.Do(func() {
		ctx, cancel := context.WithCancel(ctx)
		s.mu.Lock()
		s.stopIndex = cancel
		s.indexStarted = true
		s.mu.Unlock()

		go func() {
			defer close(s.indexDone)
			defer cancel()
			catalog.BuildNameIndex(ctx, s.client, s.names, s.logger)
		}()
	})
}

// IndexDone is closed when the index build has ended, whatever the outcome.
func (s *Session) IndexDone() <-chan struct{} {
	return s.indexDone
}

// IndexStatus reports how many Pokemon are known and whether the build ended.
func (s *Session) IndexStatus() (known int, done bool) {
	select {
	case <-s.indexDone:
		done = true
	default:
	}
	return s.names.Len(), done
}

// SwitchView changes the main screen.
func (s *Session) SwitchView(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
}

// View returns the main screen.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Select opens the details overlay for p.
func (s *Session) Select(p domain.Pokemon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &p
	s.detailsOpen = true
}

// Selected returns the Pokemon whose details are open.
func (s *Session) Selected() (domain.Pokemon, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return domain.Pokemon{}, false
	}
	return *s.selected, true
}

// DetailsOpen reports whether the overlay is shown.
func (s *Session) DetailsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detailsOpen
}

// CloseDetails hides the overlay and clears the selection.
func (s *Session) CloseDetails() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
	s.detailsOpen = false
}

// Shutdown stops a running index build and waits for it. A StartIndex
// after Shutdown does nothing.
func (s *Session) Shutdown() error {
	s.indexOnce.Do(func() {})

	s.mu.Lock()
	started, stop := s.indexStarted, s.stopIndex
	s.mu.Unlock()

	if started {
		stop()
		<-s.indexDone
	}
	return nil
}
