// SPDX-License-Identifier: MPL-2.0

package module

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/modpm/modpm/internal/testutil"
	"github.com/modpm/modpm/pkg/vcs"
)

func TestLocateIdentifier(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	r := NewResolver(root, WithHomeDir(filepath.Dir(root)))

	m, err := r.Locate("Alice.Mark-Down@1.2.0")
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if m.Ident != "alice.mark_down" || m.Publisher != "alice" || m.Name != "mark_down" {
		t.Errorf("Locate() identity = %+v", m)
	}
	if m.Version != "1.2.0" {
		t.Errorf("Version = %q, want 1.2.0", m.Version)
	}
	if want := filepath.Join(root, "alice", "mark_down"); m.InstallPath != want {
		t.Errorf("InstallPath = %q, want %q", m.InstallPath, want)
	}
	if want := filepath.Join("~", filepath.Base(root), "alice", "mark_down"); m.FormattedInstallPath != want {
		t.Errorf("FormattedInstallPath = %q, want %q", m.FormattedInstallPath, want)
	}
	if m.IsExternal || m.IsInstalled {
		t.Errorf("IsExternal/IsInstalled set on a fresh identifier: %+v", m)
	}
}

func TestLocateOfficial(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	m, err := NewResolver(root).Locate("pcre")
	if err != nil {
		t.Fatal(err)
	}
	if m.Publisher != "" || m.InstallPath != filepath.Join(root, "pcre") {
		t.Errorf("Locate(pcre) = %+v", m)
	}
}

func TestLocateURL(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	m, err := NewResolver(root).Locate("https://github.com/Bob/regex-utils.git@v0.3.0")
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsExternal {
		t.Error("IsExternal = false for a URL token")
	}
	if m.URL != "https://github.com/Bob/regex-utils.git" {
		t.Errorf("URL = %q", m.URL)
	}
	if m.Ident != "bob.regex_utils" || m.Version != "v0.3.0" {
		t.Errorf("Locate() = %+v", m)
	}
	if m.InstallPath != filepath.Join(root, "bob", "regex_utils") {
		t.Errorf("InstallPath = %q", m.InstallPath)
	}
	if m.IsPlainHTTP() {
		t.Error("https URL reported as plain http")
	}

	plain, err := NewResolver(root).Locate("http://example.com/carol/zlib")
	if err != nil {
		t.Fatal(err)
	}
	if !plain.IsPlainHTTP() {
		t.Error("http URL not reported as plain http")
	}
}

func TestLocateURLWithDottedName(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	m, err := NewResolver(root).Locate("https://github.com/owner/chart.js.git")
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if m.Ident != "owner.chart_js" || m.Publisher != "owner" || m.Name != "chart_js" {
		t.Errorf("Locate() identity = %+v", m)
	}
	if m.InstallPath != filepath.Join(root, "owner", "chart_js") {
		t.Errorf("InstallPath = %q", m.InstallPath)
	}
}

func TestLocateErrors(t *testing.T) {
	t.Parallel()

	r := NewResolver(t.TempDir())
	tests := []struct {
		token string
		want  error
	}{
		{"x", ErrInvalidIdentifier},
		{"_x", ErrInvalidIdentifier},
		{"https://example.com/", ErrUnresolvableName},
		{"https:///a/b", ErrInvalidURL},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			t.Parallel()
			if _, err := r.Locate(tt.token); !errors.Is(err, tt.want) {
				t.Errorf("Locate(%q) error = %v, want %v", tt.token, err, tt.want)
			}
		})
	}
}

func TestResolveInstalled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MakeModule(t, root, testutil.ModuleSpec{
		Path:         "alice/markdown",
		Marker:       ".git",
		Version:      "1.0.0",
		WithManifest: true,
	})

	m, err := NewResolver(root).Resolve("alice.markdown")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !m.IsInstalled {
		t.Fatal("IsInstalled = false")
	}
	if m.InstalledVersion != "1.0.0" {
		t.Errorf("InstalledVersion = %q, want 1.0.0", m.InstalledVersion)
	}
	if m.VCS == nil || m.VCS.Kind() != vcs.KindGit {
		t.Errorf("VCS = %v, want git", m.VCS)
	}
	// The fake .git directory is not a repository, so no pin is read.
	if m.PinnedVersion != "" {
		t.Errorf("PinnedVersion = %q, want empty", m.PinnedVersion)
	}
}

func TestResolveWithoutManifest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MakeModule(t, root, testutil.ModuleSpec{Path: "bob/tool", Marker: ".hg"})

	m, err := NewResolver(root).Resolve("bob.tool")
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsInstalled || m.InstalledVersion != "" {
		t.Errorf("Resolve() = %+v", m)
	}
	if m.VCS == nil || m.VCS.Kind() != vcs.KindMercurial {
		t.Errorf("VCS = %v, want hg", m.VCS)
	}
}

func TestResolveBrokenManifest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := testutil.MakeModule(t, root, testutil.ModuleSpec{Path: "bob/tool", Marker: ".git"})
	testutil.MustWriteFile(t, filepath.Join(dir, "modpm.cue"), "name: 42\n")

	if _, err := NewResolver(root).Resolve("bob.tool"); err == nil {
		t.Error("Resolve() accepted an invalid manifest")
	}
}

func TestResolveManifestWithExtraFields(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := testutil.MakeModule(t, root, testutil.ModuleSpec{Path: "bob/tool", Marker: ".git"})
	testutil.MustWriteFile(t, filepath.Join(dir, "modpm.cue"), `version:  "2.1.0"
homepage: "https://example.com/tool"
scripts: build: "make"
`)

	m, err := NewResolver(root).Resolve("bob.tool")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if m.InstalledVersion != "2.1.0" {
		t.Errorf("InstalledVersion = %q, want 2.1.0", m.InstalledVersion)
	}
}

func TestResolveNotInstalled(t *testing.T) {
	t.Parallel()

	m, err := NewResolver(t.TempDir()).Resolve("alice.markdown")
	if err != nil {
		t.Fatal(err)
	}
	if m.IsInstalled || m.VCS != nil {
		t.Errorf("Resolve() = %+v, want not installed", m)
	}
}

func TestInstalled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, spec := range []testutil.ModuleSpec{
		{Path: "alice/markdown", Marker: ".git"},
		{Path: "alice/regex", Marker: ".hg"},
		{Path: "alice/notes"},
		{Path: "pcre", Marker: ".git", WithManifest: true},
		{Path: "cache/alice/markdown", Marker: ".git"},
		{Path: "bob/zlib", Marker: ".git", WithManifest: true},
	} {
		testutil.MakeModule(t, root, spec)
	}
	testutil.MustWriteFile(t, filepath.Join(root, "stray.txt"), "x")

	got, err := NewResolver(root).Installed()
	if err != nil {
		t.Fatalf("Installed() error: %v", err)
	}
	want := []Identifier{"alice.markdown", "alice.regex", "bob.zlib", "pcre"}
	if !slices.Equal(got, want) {
		t.Errorf("Installed() = %v, want %v", got, want)
	}
}

func TestInstalledMissingRoot(t *testing.T) {
	t.Parallel()

	got, err := NewResolver(filepath.Join(t.TempDir(), "absent")).Installed()
	if err != nil || len(got) != 0 {
		t.Errorf("Installed() = %v, %v; want empty, nil", got, err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	home := filepath.Join(string(filepath.Separator), "home", "alice")
	r := NewResolver(filepath.Join(home, ".modpm", "modules"), WithHomeDir(home))

	tests := []struct{ in, want string }{
		{filepath.Join(home, ".modpm", "modules", "pcre"), filepath.Join("~", ".modpm", "modules", "pcre")},
		{home, "~"},
		{filepath.Join(string(filepath.Separator), "home", "alicex", "m"), filepath.Join(string(filepath.Separator), "home", "alicex", "m")},
		{filepath.Join(string(filepath.Separator), "opt", "m"), filepath.Join(string(filepath.Separator), "opt", "m")},
	}
	for _, tt := range tests {
		if got := r.FormatPath(tt.in); got != tt.want {
			t.Errorf("FormatPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
