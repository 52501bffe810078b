// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

// ModuleSpec describes a module directory to lay out under a storage root.
type ModuleSpec struct {
	// Path is relative to the root, e.g. "alice/markdown" or "pcre".
	Path string
	// Marker is the VCS marker directory (".git", ".hg"); empty for none.
	Marker string
	// Version is written to the manifest when WithManifest is set.
	Version string
	// Dependencies are written to the manifest when WithManifest is set.
	Dependencies []string
	// WithManifest writes a modpm.cue file.
	WithManifest bool
}

// MakeModule lays out spec under root and returns the module directory.
func MakeModule(t testing.TB, root string, spec ModuleSpec) string {
	t.Helper()

	dir := filepath.Join(root, filepath.FromSlash(spec.Path))
	MustMkdirAll(t, dir)
	if spec.Marker != "" {
		MustMkdirAll(t, filepath.Join(dir, spec.Marker))
	}
	if spec.WithManifest {
		MustWriteFile(t, filepath.Join(dir, "modpm.cue"), ManifestCUE(filepath.Base(dir), spec.Version, spec.Dependencies))
	}
	return dir
}

// ManifestCUE renders a minimal modpm.cue document.
func ManifestCUE(name, version string, deps []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "name: %q\n", name)
	if version != "" {
		fmt.Fprintf(&sb, "version: %q\n", version)
	}
	if len(deps) > 0 {
		quoted := make([]string, len(deps))
		for i, d := range deps {
			quoted[i] = fmt.Sprintf("%q", d)
		}
		fmt.Fprintf(&sb, "dependencies: [%s]\n", strings.Join(quoted, ", "))
	}
	return sb.String()
}
