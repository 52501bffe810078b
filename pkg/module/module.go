// SPDX-License-Identifier: MPL-2.0

package module

import (
	"strings"

	"github.com/modpm/modpm/pkg/vcs"
)

// Module describes one query token resolved against the storage root. It
// lives for a single run and is never persisted.
type Module struct {
	// Ident is the normalized dotted identifier ("alice.markdown", "pcre").
	Ident Identifier
	// Name is the module name without publisher.
	Name string
	// Publisher is empty for official modules.
	Publisher string
	// URL is the repository URL for URL tokens, empty until looked up otherwise.
	URL string
	// Version is the requested version ("" for latest).
	Version string

	InstallPath          string
	FormattedInstallPath string

	IsInstalled bool
	// InstalledVersion is the manifest version of the installed copy.
	InstalledVersion string
	// PinnedVersion is the tag an installed git checkout is detached at.
	PinnedVersion string
	// IsExternal is true when the token was a URL.
	IsExternal bool
	// VCS is the backend detected in InstallPath, nil when none.
	VCS vcs.Backend
}

// String returns the identifier.
func (m Module) String() string { return m.Ident.String() }

// IsPlainHTTP reports whether the module came from an http:// URL.
func (m Module) IsPlainHTTP() bool {
	return m.IsExternal && strings.HasPrefix(strings.ToLower(m.URL), "http://")
}

// Display names the module for messages, with its requested version.
func (m Module) Display() string {
	if m.Version == "" {
		return m.Ident.String()
	}
	return m.Ident.String() + "@" + m.Version
}
