// SPDX-License-Identifier: MPL-2.0

package install

import (
	"slices"
	"testing"

	"github.com/modpm/modpm/pkg/module"
)

func TestDecide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		m     module.Module
		force bool
		want  Decision
	}{
		{
			name: "not installed",
			m:    module.Module{Ident: "alice.markdown", Version: "1.0.0"},
			want: Decision{Action: ActionInstall},
		},
		{
			name: "installed without version or pin updates",
			m:    module.Module{Ident: "alice.markdown", IsInstalled: true, InstalledVersion: "1.0.0"},
			want: Decision{Action: ActionUpdate},
		},
		{
			name:  "force does not change an unversioned update",
			m:     module.Module{Ident: "alice.markdown", IsInstalled: true},
			force: true,
			want:  Decision{Action: ActionUpdate},
		},
		{
			name: "plain http module updates by path",
			m:    module.Module{Ident: "carol.zlib", IsInstalled: true, IsExternal: true, URL: "http://example.com/carol/zlib"},
			want: Decision{Action: ActionUpdate, UpdateByPath: true},
		},
		{
			name: "https module updates by identifier",
			m:    module.Module{Ident: "carol.zlib", IsInstalled: true, IsExternal: true, URL: "https://example.com/carol/zlib"},
			want: Decision{Action: ActionUpdate},
		},
		{
			name: "requested version needs confirmation",
			m:    module.Module{Ident: "alice.markdown", IsInstalled: true, InstalledVersion: "1.0.0", Version: "2.0.0"},
			want: Decision{Action: ActionReinstall, NeedsConfirm: true},
		},
		{
			name: "pinned checkout needs confirmation",
			m:    module.Module{Ident: "alice.markdown", IsInstalled: true, PinnedVersion: "v1.0.0"},
			want: Decision{Action: ActionReinstall, NeedsConfirm: true},
		},
		{
			name:  "forced reinstall skips confirmation",
			m:     module.Module{Ident: "alice.markdown", IsInstalled: true, InstalledVersion: "1.0.0", Version: "1.0.0"},
			force: true,
			want:  Decision{Action: ActionReinstall},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Decide(tt.m, tt.force); got != tt.want {
				t.Errorf("Decide() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSameVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want bool
	}{
		{"1.2.0", "v1.2.0", true},
		{"v1.2", "1.2.0", true},
		{"1.2.0", "1.2.1", false},
		{"main", "main", true},
		{"main", "develop", false},
		{"", "", false},
		{"1.0.0", "", false},
		{"release-1", "v1.0.0", false},
	}
	for _, tt := range tests {
		if got := sameVersion(tt.a, tt.b); got != tt.want {
			t.Errorf("sameVersion(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCascade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		deps  []string
		query []string
		want  []string
	}{
		{
			name:  "order preserving difference",
			deps:  []string{"zlib", "alice.markdown", "pcre", "bob.regex"},
			query: []string{"pcre", "alice.markdown"},
			want:  []string{"zlib", "bob.regex"},
		},
		{
			name:  "normalized comparison",
			deps:  []string{"Alice.Mark-Down@1.0", "pcre"},
			query: []string{"alice.mark_down"},
			want:  []string{"pcre"},
		},
		{
			name:  "url dependency matches identifier",
			deps:  []string{"https://github.com/bob/regex.git", "zlib"},
			query: []string{"bob.regex"},
			want:  []string{"zlib"},
		},
		{
			name: "duplicates kept once",
			deps: []string{"zlib", "pcre", "zlib"},
			want: []string{"zlib", "pcre"},
		},
		{
			name:  "everything already queried",
			deps:  []string{"zlib"},
			query: []string{"zlib"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Cascade(tt.deps, tt.query); !slices.Equal(got, tt.want) {
				t.Errorf("Cascade(%v, %v) = %v, want %v", tt.deps, tt.query, got, tt.want)
			}
		})
	}
}
