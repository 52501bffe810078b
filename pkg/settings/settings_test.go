// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"path/filepath"
	"slices"
	"testing"
)

func TestNewAppliesOptions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	s, err := New(
		WithStorageRoot(root),
		WithForce(true),
		WithVerbose(true),
		WithFailOnPrompt(true),
		WithMercurial(true),
		WithMirrors([]string{" https://a.example/ ", "", "https://b.example"}),
		WithExe("mpm"),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if s.StorageRoot() != root {
		t.Errorf("StorageRoot() = %q, want %q", s.StorageRoot(), root)
	}
	if !s.Force() || !s.Verbose() || !s.FailOnPrompt() || !s.UseMercurial() {
		t.Errorf("boolean settings not applied: %+v", s)
	}
	if want := []string{"https://a.example", "https://b.example"}; !slices.Equal(s.Mirrors(), want) {
		t.Errorf("Mirrors() = %v, want %v", s.Mirrors(), want)
	}
	if s.Exe() != "mpm" {
		t.Errorf("Exe() = %q, want mpm", s.Exe())
	}
}

func TestNewDefaultsMirrors(t *testing.T) {
	t.Parallel()

	s, err := New(WithStorageRoot(t.TempDir()), WithExe("modpm"))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(s.Mirrors(), DefaultMirrors) {
		t.Errorf("Mirrors() = %v, want defaults", s.Mirrors())
	}
}

func TestMirrorsIsACopy(t *testing.T) {
	t.Parallel()

	s, err := New(WithStorageRoot(t.TempDir()), WithMirrors([]string{"https://a.example"}))
	if err != nil {
		t.Fatal(err)
	}
	m := s.Mirrors()
	m[0] = "mutated"
	if s.Mirrors()[0] != "https://a.example" {
		t.Error("Mirrors() exposed internal state")
	}
}

func TestWithLeavesOriginalUntouched(t *testing.T) {
	t.Parallel()

	base, err := New(WithStorageRoot(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	forced := base.With(WithForce(true))
	if base.Force() {
		t.Error("With() mutated the receiver")
	}
	if !forced.Force() {
		t.Error("With() did not apply the option")
	}
}

func TestValidateRejectsRelativeRoot(t *testing.T) {
	t.Parallel()

	if _, err := New(WithStorageRoot("relative/path")); err == nil {
		t.Error("New() accepted a relative storage root")
	}
}

func TestDefaultStorageRootWith(t *testing.T) {
	t.Parallel()

	t.Run("env override", func(t *testing.T) {
		t.Parallel()
		want := t.TempDir()
		got, err := DefaultStorageRootWith(func(k string) string {
			if k == ModulesPathEnvVar {
				return want
			}
			return ""
		})
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("DefaultStorageRootWith() = %q, want %q", got, want)
		}
	})

	t.Run("home fallback", func(t *testing.T) {
		t.Parallel()
		got, err := DefaultStorageRootWith(func(string) string { return "" })
		if err != nil {
			t.Skipf("no home directory: %v", err)
		}
		if filepath.Base(got) != "modules" || filepath.Base(filepath.Dir(got)) != ".modpm" {
			t.Errorf("DefaultStorageRootWith() = %q, want .../.modpm/modules", got)
		}
	})
}

func TestExeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"", "modpm"},
		{"/usr/local/bin/mpm", "mpm"},
		{"modpm-shim", "modpm-shim"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			got := ExeName(func(string) string { return tt.env })
			if got != tt.want {
				t.Errorf("ExeName(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}
