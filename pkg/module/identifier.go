// SPDX-License-Identifier: MPL-2.0

package module

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

const minIdentifierLen = 2

var (
	// ErrInvalidIdentifier is the sentinel error wrapped by InvalidIdentifierError.
	ErrInvalidIdentifier = errors.New("invalid module identifier")

	identifierReplacer = strings.NewReplacer("-", "_")
)

type (
	// Identifier is a registry module name: "publisher.name" or a bare
	// official "name".
	Identifier string

	// InvalidIdentifierError is returned when an Identifier fails validation.
	InvalidIdentifierError struct {
		Value  Identifier
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid module identifier %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidIdentifier so callers can use errors.Is for programmatic detection.
func (e *InvalidIdentifierError) Unwrap() error { return ErrInvalidIdentifier }

// Validate checks the identifier is at least two characters, begins with a
// letter or digit and has at most one publisher separator with no empty parts.
func (id Identifier) Validate() error {
	s := string(id)
	if len(s) < minIdentifierLen {
		return &InvalidIdentifierError{Value: id, Reason: "must be at least 2 characters"}
	}
	first := rune(s[0])
	if first > unicode.MaxASCII || (!unicode.IsLetter(first) && !unicode.IsDigit(first)) {
		return &InvalidIdentifierError{Value: id, Reason: "must begin with a letter or digit"}
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return &InvalidIdentifierError{Value: id, Reason: "expected publisher.name or name"}
	}
	for _, p := range parts {
		if p == "" {
			return &InvalidIdentifierError{Value: id, Reason: "empty name segment"}
		}
		if strings.ContainsAny(p, `/\ `) {
			return &InvalidIdentifierError{Value: id, Reason: "contains a path separator or space"}
		}
	}
	return nil
}

// Normalize lowercases the identifier and replaces dashes with underscores,
// the form used on disk and in the registry.
func (id Identifier) Normalize() Identifier {
	return Identifier(identifierReplacer.Replace(strings.ToLower(string(id))))
}

// Split returns the publisher (empty for official modules) and the name.
func (id Identifier) Split() (publisher, name string) {
	s := string(id)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return "", s
}

// RelPath returns the identifier as a storage-relative path.
func (id Identifier) RelPath() string {
	return filepath.FromSlash(strings.ReplaceAll(string(id), ".", "/"))
}

// String returns the identifier text.
func (id Identifier) String() string { return string(id) }

// IdentifierFromPath derives the dotted identifier of a module directory
// relative to root. It is the inverse of RelPath.
func IdentifierFromPath(root, dir string) (Identifier, error) {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return "", err
	}
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is not inside %s", dir, root)
	}
	return Identifier(strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")), nil
}

// SplitVersion separates a trailing "@version" from a token. The "@" of an
// scp-style URL such as git@host:owner/repo is not a version separator.
func SplitVersion(token string) (base, version string) {
	at := strings.LastIndexByte(token, '@')
	if at <= 0 || at < strings.LastIndexAny(token, "/:") {
		return token, ""
	}
	return token[:at], token[at+1:]
}
