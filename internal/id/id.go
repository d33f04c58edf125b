// Package id generates short correlation identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// requestIDLength keeps request ids readable in log lines.
const requestIDLength = 12

// Generate creates a prefixed NanoID: "req-V1StGXR8_Z5j".
func Generate(prefix string, size int) (string, error) {
	id, err := gonanoid.New(size)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// Request returns an id for the X-Request-ID header.
// Falls back to a fixed marker when the system has no entropy; a missing
// correlation id must never fail the request itself.
func Request() string {
	id, err := Generate("req", requestIDLength)
	if err != nil {
		return "req-unavailable"
	}
	return id
}
