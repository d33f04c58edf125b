package pokeapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/listenupapp/pokedex/internal/domain"
)

// ListBoxEntryIDs returns the ids of every entry in the caller's box.
func (c *Client) ListBoxEntryIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := c.do(ctx, call{
		op:     "listBox",
		method: http.MethodGet,
		path:   "/box/",
		auth:   true,
	}, &ids)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// GetBoxEntry returns one box entry.
func (c *Client) GetBoxEntry(ctx context.Context, entryID string) (*domain.BoxEntry, error) {
	var entry domain.BoxEntry
	err := c.do(ctx, call{
		op:     "getBoxEntry",
		ref:    entryID,
		method: http.MethodGet,
		path:   "/box/" + url.PathEscape(entryID),
		auth:   true,
	}, &entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateBoxEntry stores a new catch. The server assigns the id.
func (c *Client) CreateBoxEntry(ctx context.Context, data domain.InsertBoxEntry) (*domain.BoxEntry, error) {
	var entry domain.BoxEntry
	err := c.do(ctx, call{
		op:     "createBoxEntry",
		method: http.MethodPost,
		path:   "/box/",
		body:   data,
		auth:   true,
	}, &entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateBoxEntry replaces the mutable fields of an entry.
func (c *Client) UpdateBoxEntry(ctx context.Context, entryID string, data domain.UpdateBoxEntry) (*domain.BoxEntry, error) {
	var entry domain.BoxEntry
	err := c.do(ctx, call{
		op:     "updateBoxEntry",
		ref:    entryID,
		method: http.MethodPut,
		path:   "/box/" + url.PathEscape(entryID),
		body:   data,
		auth:   true,
	}, &entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteBoxEntry releases an entry. The service answers 204.
func (c *Client) DeleteBoxEntry(ctx context.Context, entryID string) error {
	return c.do(ctx, call{
		op:     "deleteBoxEntry",
		ref:    entryID,
		method: http.MethodDelete,
		path:   "/box/" + url.PathEscape(entryID),
		auth:   true,
	}, nil)
}
