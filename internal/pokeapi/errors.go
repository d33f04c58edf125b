package pokeapi

import (
	"fmt"
	"net/http"

	domainerrors "github.com/listenupapp/pokedex/internal/errors"
)

// ErrAuthRequired is returned by box operations when no token is set.
// It is raised before any network call and matches
// domainerrors.ErrAuthRequired under errors.Is.
var ErrAuthRequired = domainerrors.AuthRequired("authentication token required")

// Defaults used when a failure response carries no usable body.
const (
	defaultErrorMessage = "An error occurred"
	defaultErrorCode    = "UNKNOWN"
)

// HTTPError is a normalized non-2xx response from the remote service.
type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is lets callers match an HTTPError against the coded domain sentinels,
// e.g. errors.Is(err, domainerrors.ErrUnauthorized) for a 401.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*domainerrors.Error)
	return ok && t.Code == domainerrors.FromStatus(e.Status)
}

// Unauthorized reports a 401 response.
func (e *HTTPError) Unauthorized() bool { return e.Status == http.StatusUnauthorized }

// Forbidden reports a 403 response.
func (e *HTTPError) Forbidden() bool { return e.Status == http.StatusForbidden }

// NotFound reports a 404 response.
func (e *HTTPError) NotFound() bool { return e.Status == http.StatusNotFound }

// Error wraps an underlying error with operation context.
type Error struct {
	Op  string // Operation: "listPokemon", "getBoxEntry", ...
	Ref string // Pokemon name or box entry id, if applicable
	Err error
}

func (e *Error) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("pokeapi %s [%s]: %v", e.Op, e.Ref, e.Err)
	}
	return fmt.Sprintf("pokeapi %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, ref string, err error) error {
	return &Error{Op: op, Ref: ref, Err: err}
}

// Message returns the text a view should show for err: the server's
// message for HTTP failures, the bare reason otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if domainerrors.As(err, &httpErr) {
		return httpErr.Message
	}
	var domainErr *domainerrors.Error
	if domainerrors.As(err, &domainErr) {
		return domainErr.Error()
	}
	var opErr *Error
	if domainerrors.As(err, &opErr) {
		return opErr.Err.Error()
	}
	return err.Error()
}

// Status returns the HTTP status carried by err, or 0.
func Status(err error) int {
	var httpErr *HTTPError
	if domainerrors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}
