// Package fetch ties a view's in-flight request to the view's lifetime.
//
// Every load starts with Begin, which cancels whatever the view was still
// waiting on. The returned Ticket is checked with Current before the result
// is committed, so a slow response that lost the race is discarded.
package fetch

import (
	"context"
	"sync"
)

// Ticket identifies one request started by Begin.
type Ticket struct {
	seq uint64
	ctx context.Context //nolint:containedctx // checked by Current
}

// Seq is the request's position in the scope, starting at 1.
func (t Ticket) Seq() uint64 { return t.seq }

// Scope is owned by one view. The zero value is ready to use.
type Scope struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	closed bool
}

// Begin supersedes the previous request and returns the context and ticket
// for a new one. After Close the returned context is already cancelled.
func (s *Scope) Begin(parent context.Context) (context.Context, Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.seq++

	ctx, cancel := context.WithCancel(parent)
	if s.closed {
		cancel()
	}
	s.cancel = cancel
	return ctx, Ticket{seq: s.seq, ctx: ctx}
}

// Current reports whether t is still the latest request and was not
// cancelled.
func (s *Scope) Current(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || t.seq != s.seq || t.ctx == nil {
		return false
	}
	return t.ctx.Err() == nil
}

// Superseded reports whether a later Begin or Close replaced t. Unlike
// Current it ignores cancellation of the parent context, so a load whose
// caller gave up still owns the view's state.
func (s *Scope) Superseded(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed || t.seq != s.seq || t.ctx == nil
}

// Close cancels outstanding work. Later tickets are never current.
func (s *Scope) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
