// Package pokeapitest runs an in-memory stand-in for the remote Pokemon
// service so client, view and command tests can exercise real HTTP.
package pokeapitest

import (
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/listenupapp/pokedex/internal/domain"
	domainerrors "github.com/listenupapp/pokedex/internal/errors"
	"github.com/listenupapp/pokedex/internal/http/response"
	"github.com/listenupapp/pokedex/internal/pokeapi"
)

// DefaultToken is the bearer token the server accepts unless overridden.
const DefaultToken = "test-token"

// Failure is a canned response returned instead of the real handler.
type Failure struct {
	Status int
	Body   string // sent verbatim; may be JSON or plain text
}

// Server is the fake service. All methods are safe for concurrent use.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	token    string
	pokemon  []domain.Pokemon
	entries  map[string]domain.BoxEntry
	order    []string
	calls    map[string]int
	failures map[string]Failure
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithToken changes the accepted bearer token.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithPokemon seeds the catalog. Order is preserved for paging.
func WithPokemon(list ...domain.Pokemon) Option {
	return func(s *Server) { s.pokemon = append(s.pokemon, list...) }
}

// WithEntries seeds the box.
func WithEntries(entries ...domain.BoxEntry) Option {
	return func(s *Server) {
		for _, e := range entries {
			s.entries[e.ID] = e
			s.order = append(s.order, e.ID)
		}
	}
}

// New starts a server that is closed when the test ends.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		token:    DefaultToken,
		entries:  make(map[string]domain.BoxEntry),
		calls:    make(map[string]int),
		failures: make(map[string]Failure),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root to hand to pokeapi.New.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// Client returns a client for this server holding the accepted token.
func (s *Server) Client(opts ...pokeapi.Option) *pokeapi.Client {
	base := []pokeapi.Option{
		pokeapi.WithHTTPClient(s.Server.Client()),
		pokeapi.WithToken(s.token),
	}
	return pokeapi.New(s.BaseURL(), append(base, opts...)...)
}

// Fail makes every later request matching method and path (relative to the
// API root, e.g. "/box/abc") answer with f until Recover is called.
func (s *Server) Fail(method, path string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = f
}

// Recover removes a failure installed with Fail.
func (s *Server) Recover(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method+" "+path)
}

// Calls reports how many requests hit method and path, query excluded.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

// TotalCalls reports every request the server has seen.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// Entries returns a snapshot of the box in insertion order.
func (s *Server) Entries() []domain.BoxEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.BoxEntry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id])
	}
	return out
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Route("/api", func(r chi.Router) {
		r.Get("/pokemon/", s.listPokemon)
		r.Get("/pokemon/{name}", s.getPokemon)

		r.Group(func(r chi.Router) {
			r.Use(s.requireToken)
			r.Get("/box/", s.listBox)
			r.Post("/box/", s.createEntry)
			r.Get("/box/{id}", s.getEntry)
			r.Put("/box/{id}", s.updateEntry)
			r.Delete("/box/{id}", s.deleteEntry)
		})
	})
	return r
}

// record counts the request and short-circuits installed failures.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")

		s.mu.Lock()
		s.calls[key]++
		f, failing := s.failures[key]
		s.mu.Unlock()

		if failing {
			if strings.HasPrefix(strings.TrimSpace(f.Body), "{") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(f.Status)
				_, _ = w.Write([]byte(f.Body))
				return
			}
			response.Text(w, f.Status, f.Body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Unauthorized(w, "Missing bearer token", s.logger)
			return
		}
		if token != s.token {
			response.Unauthorized(w, "Invalid token", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listPokemon(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		response.BadRequest(w, "limit must be a non-negative integer", s.logger)
		return
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		response.BadRequest(w, "offset must be a non-negative integer", s.logger)
		return
	}

	s.mu.Lock()
	start := min(offset, len(s.pokemon))
	end := min(start+limit, len(s.pokemon))
	page := slices.Clone(s.pokemon[start:end])
	s.mu.Unlock()

	response.Success(w, page, s.logger)
}

func (s *Server) getPokemon(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	s.mu.Lock()
	idx := slices.IndexFunc(s.pokemon, func(p domain.Pokemon) bool { return p.Name == name })
	var p domain.Pokemon
	if idx >= 0 {
		p = s.pokemon[idx]
	}
	s.mu.Unlock()

	if idx < 0 {
		response.NotFound(w, fmt.Sprintf("Pokemon %s not found", name), s.logger)
		return
	}
	response.Success(w, p, s.logger)
}

func (s *Server) listBox(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	ids := slices.Clone(s.order)
	s.mu.Unlock()

	if ids == nil {
		ids = []string{}
	}
	response.Success(w, ids, s.logger)
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")

	s.mu.Lock()
	entry, ok := s.entries[entryID]
	s.mu.Unlock()

	if !ok {
		response.NotFound(w, "Box entry not found", s.logger)
		return
	}
	response.Success(w, entry, s.logger)
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	var in domain.InsertBoxEntry
	if err := json.UnmarshalRead(r.Body, &in); err != nil {
		response.BadRequest(w, "Invalid JSON body", s.logger)
		return
	}
	if err := s.checkEntry(in.Location, in.Level, in.CreatedAt); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.mu.Lock()
	known := slices.ContainsFunc(s.pokemon, func(p domain.Pokemon) bool { return p.ID == in.PokemonID })
	entry := domain.BoxEntry{
		ID:        uuid.New().String(),
		PokemonID: in.PokemonID,
		Location:  in.Location,
		Level:     in.Level,
		Notes:     in.Notes,
		CreatedAt: in.CreatedAt,
	}
	if known {
		s.entries[entry.ID] = entry
		s.order = append(s.order, entry.ID)
	}
	s.mu.Unlock()

	if !known {
		response.HandleError(w, domainerrors.Validationf("unknown pokemonId %d", in.PokemonID), s.logger)
		return
	}
	response.Created(w, entry, s.logger)
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")

	var in domain.UpdateBoxEntry
	if err := json.UnmarshalRead(r.Body, &in); err != nil {
		response.BadRequest(w, "Invalid JSON body", s.logger)
		return
	}
	if err := s.checkEntry(in.Location, in.Level, in.CreatedAt); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.mu.Lock()
	entry, ok := s.entries[entryID]
	if ok {
		entry.Location = in.Location
		entry.Level = in.Level
		entry.Notes = in.Notes
		entry.CreatedAt = in.CreatedAt
		s.entries[entryID] = entry
	}
	s.mu.Unlock()

	if !ok {
		response.NotFound(w, "Box entry not found", s.logger)
		return
	}
	response.Success(w, entry, s.logger)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")

	s.mu.Lock()
	_, ok := s.entries[entryID]
	if ok {
		delete(s.entries, entryID)
		s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == entryID })
	}
	s.mu.Unlock()

	if !ok {
		response.NotFound(w, "Box entry not found", s.logger)
		return
	}
	response.NoContent(w)
}

func (s *Server) checkEntry(location string, level int, createdAt string) error {
	switch {
	case strings.TrimSpace(location) == "":
		return domainerrors.Validation("location is required")
	case level < 1 || level > 100:
		return domainerrors.Validation("level must be between 1 and 100")
	case createdAt == "":
		return domainerrors.Validation("createdAt is required")
	}
	return nil
}
