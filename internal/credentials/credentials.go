// Package credentials finds the bearer token for the box endpoints and
// follows a token file for changes.
package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Placeholder is the value shipped in sample configuration. A token
// containing it is treated as unset.
const Placeholder = "INSERT_JWT_TOKEN"

// IsPlaceholder reports whether token is empty after trimming or still
// contains Placeholder.
func IsPlaceholder(token string) bool {
	token = strings.TrimSpace(token)
	return token == "" || strings.Contains(token, Placeholder)
}

// Normalize trims token and maps placeholders to "".
func Normalize(token string) string {
	if IsPlaceholder(token) {
		return ""
	}
	return strings.TrimSpace(token)
}

// Resolve picks the token to use: an explicit token wins, otherwise the
// contents of file. A missing file is not an error; the result is "".
func Resolve(token, file string) (string, error) {
	if t := Normalize(token); t != "" {
		return t, nil
	}
	if file == "" {
		return "", nil
	}
	return ReadFile(file)
}

// ReadFile reads a token file. A missing file yields "".
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return Normalize(string(data)), nil
}
