package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/listenupapp/pokedex/internal/domain"
)

// Index build bounds: pages of IndexPageSize, at most IndexMaxPages pages.
const (
	IndexPageSize = 50
	IndexMaxPages = 20
)

// NameIndex maps Pokemon ids to names. Box entries only carry the id and
// the service only looks Pokemon up by name.
//
// Reads are safe while a build is still adding pages.
type NameIndex struct {
	mu    sync.RWMutex
	names map[int]string
}

// NewNameIndex creates an empty index.
func NewNameIndex() *NameIndex {
	return &NameIndex{names: make(map[int]string)}
}

// Add records every Pokemon in list.
func (ix *NameIndex) Add(list []domain.Pokemon) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, p := range list {
		ix.names[p.ID] = p.Name
	}
}

// Lookup returns the name for id.
func (ix *NameIndex) Lookup(id int) (string, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	name, ok := ix.names[id]
	return name, ok
}

// Len returns how many ids are known.
func (ix *NameIndex) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.names)
}

// BuildNameIndex pages through the catalog into ix. Each page is visible as
// soon as it arrives. The build stops at the first short page, after
// IndexMaxPages pages, or on the first error. Errors are logged and never
// returned: a partial index only leaves some box entries unresolved.
//
// It returns the number of pages added.
func BuildNameIndex(ctx context.Context, src Lister, ix *NameIndex, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for page := range IndexMaxPages {
		offset := page * IndexPageSize
		list, err := src.ListPokemon(ctx, IndexPageSize, offset)
		if err != nil {
			logger.Warn("name index build stopped",
				"offset", offset,
				"known", ix.Len(),
				"error", err,
			)
			return page
		}

		ix.Add(list)

		if len(list) < IndexPageSize {
			logger.Debug("name index complete", "known", ix.Len(), "pages", page+1)
			return page + 1
		}
	}

	logger.Debug("name index reached page cap", "known", ix.Len(), "pages", IndexMaxPages)
	return IndexMaxPages
}
