// SPDX-License-Identifier: MPL-2.0

package module

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	// ErrInvalidURL is returned for a repository URL that cannot be parsed.
	ErrInvalidURL = errors.New("invalid repository URL")
	// ErrUnresolvableName is returned for a URL with no path to name a module after.
	ErrUnresolvableName = errors.New("cannot derive a module name from URL")

	// scpLikePattern matches git@host:owner/repo.
	scpLikePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+@[A-Za-z0-9_.-]+:`)

	urlSchemes = map[string]bool{"http": true, "https": true, "ssh": true, "git": true}

	// Dots inside a URL segment would read as the publisher separator.
	segmentReplacer = strings.NewReplacer(".", "_")
)

// URLIdent is the publisher and module name derived from a repository URL.
type URLIdent struct {
	Publisher string
	Name      string
}

// Identifier returns the normalized identifier of u. Dots in the publisher
// or name become underscores, so "owner/chart.js" is "owner.chart_js".
func (u URLIdent) Identifier() Identifier {
	name := segmentReplacer.Replace(u.Name)
	if u.Publisher == "" {
		return Identifier(name).Normalize()
	}
	return Identifier(segmentReplacer.Replace(u.Publisher) + "." + name).Normalize()
}

// IsURL reports whether token names a repository by URL rather than by
// registry identifier.
func IsURL(token string) bool {
	if scpLikePattern.MatchString(token) {
		return true
	}
	scheme, _, ok := strings.Cut(token, "://")
	return ok && urlSchemes[strings.ToLower(scheme)]
}

// ParseURL derives the module identity from a repository URL: the last path
// segment, without a ".git" suffix, is the name and the one before it the
// publisher.
func ParseURL(raw string) (URLIdent, error) {
	path, err := urlPath(raw)
	if err != nil {
		return URLIdent{}, err
	}

	var segments []string
	for s := range strings.SplitSeq(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return URLIdent{}, fmt.Errorf("%w: %q", ErrUnresolvableName, raw)
	}

	name := strings.TrimSuffix(segments[len(segments)-1], ".git")
	if name == "" {
		return URLIdent{}, fmt.Errorf("%w: %q", ErrUnresolvableName, raw)
	}
	ident := URLIdent{Name: name}
	if len(segments) > 1 {
		ident.Publisher = segments[len(segments)-2]
	}
	return ident, nil
}

func urlPath(raw string) (string, error) {
	if loc := scpLikePattern.FindStringIndex(raw); loc != nil {
		return raw[loc[1]:], nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if !urlSchemes[strings.ToLower(u.Scheme)] || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return u.Path, nil
}
