// SPDX-License-Identifier: MPL-2.0

// Package settings holds the run settings every modpm component reads. A
// Settings value is built once at startup from the config file, environment
// and flags, and is never mutated afterwards.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	// ModulesPathEnvVar overrides the module storage root.
	ModulesPathEnvVar = "MODPM_MODULES_PATH"
	// ExeEnvVar names the frontend that invoked modpm, for help text.
	ExeEnvVar = "MODPM_EXE"

	// DefaultExe is used when ExeEnvVar is unset.
	DefaultExe = "modpm"

	defaultStorageDir = ".modpm"
	modulesDirName    = "modules"
)

// DefaultMirrors are the registry servers queried when no mirror list is configured.
var DefaultMirrors = []string{
	"https://registry.modpm.dev",
	"https://mirror1.modpm.dev",
	"https://mirror2.modpm.dev",
}

// ErrNoStorageRoot is returned by Validate when the storage root is empty.
var ErrNoStorageRoot = errors.New("no module storage root configured")

type (
	// Settings is the frozen configuration of one modpm run.
	Settings struct {
		storageRoot  string
		force        bool
		verbose      bool
		failOnPrompt bool
		useMercurial bool
		mirrors      []string
		exe          string
	}

	// Option sets one field while building Settings.
	Option func(*Settings)
)

// New builds Settings from opts. Unset fields fall back to defaults: the
// storage root from DefaultStorageRoot, the mirror list from DefaultMirrors
// and the frontend name from MODPM_EXE.
func New(opts ...Option) (Settings, error) {
	s := Settings{}
	for _, opt := range opts {
		opt(&s)
	}

	if s.storageRoot == "" {
		root, err := DefaultStorageRoot()
		if err != nil {
			return Settings{}, err
		}
		s.storageRoot = root
	}
	if len(s.mirrors) == 0 {
		s.mirrors = slices.Clone(DefaultMirrors)
	}
	if s.exe == "" {
		s.exe = ExeName(os.Getenv)
	}
	return s, s.Validate()
}

// WithStorageRoot sets the directory modules are installed under.
func WithStorageRoot(root string) Option {
	return func(s *Settings) { s.storageRoot = filepath.Clean(root) }
}

// WithForce makes conflicting installs overwrite without confirmation.
func WithForce(force bool) Option {
	return func(s *Settings) { s.force = force }
}

// WithVerbose enables DEBUG-level output.
func WithVerbose(verbose bool) Option {
	return func(s *Settings) { s.verbose = verbose }
}

// WithFailOnPrompt makes every confirmation a fatal error.
func WithFailOnPrompt(fail bool) Option {
	return func(s *Settings) { s.failOnPrompt = fail }
}

// WithMercurial makes URL installs use mercurial instead of git.
func WithMercurial(hg bool) Option {
	return func(s *Settings) { s.useMercurial = hg }
}

// WithMirrors sets the registry servers. Blank entries and trailing slashes
// are dropped.
func WithMirrors(mirrors []string) Option {
	return func(s *Settings) {
		s.mirrors = s.mirrors[:0]
		for _, m := range mirrors {
			m = strings.TrimRight(strings.TrimSpace(m), "/")
			if m != "" {
				s.mirrors = append(s.mirrors, m)
			}
		}
	}
}

// WithExe sets the frontend name shown in help text.
func WithExe(exe string) Option {
	return func(s *Settings) { s.exe = exe }
}

// Validate checks the invariants New relies on.
func (s Settings) Validate() error {
	if s.storageRoot == "" {
		return ErrNoStorageRoot
	}
	if !filepath.IsAbs(s.storageRoot) {
		return fmt.Errorf("module storage root must be absolute, got %q", s.storageRoot)
	}
	return nil
}

// StorageRoot returns the directory modules are installed under.
func (s Settings) StorageRoot() string { return s.storageRoot }

// Force reports whether conflicts overwrite without confirmation.
func (s Settings) Force() bool { return s.force }

// Verbose reports whether DEBUG output is enabled.
func (s Settings) Verbose() bool { return s.verbose }

// FailOnPrompt reports whether confirmations are fatal.
func (s Settings) FailOnPrompt() bool { return s.failOnPrompt }

// UseMercurial reports whether URL installs use mercurial.
func (s Settings) UseMercurial() bool { return s.useMercurial }

// Mirrors returns a copy of the configured registry servers.
func (s Settings) Mirrors() []string { return slices.Clone(s.mirrors) }

// Exe returns the frontend name used in help text.
func (s Settings) Exe() string { return s.exe }

// With returns a copy of s with opts applied.
func (s Settings) With(opts ...Option) Settings {
	s.mirrors = slices.Clone(s.mirrors)
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// DefaultStorageRoot returns $MODPM_MODULES_PATH, or ~/.modpm/modules.
func DefaultStorageRoot() (string, error) {
	return DefaultStorageRootWith(os.Getenv)
}

// DefaultStorageRootWith is DefaultStorageRoot with an injectable environment.
func DefaultStorageRootWith(getenv func(string) string) (string, error) {
	if p := getenv(ModulesPathEnvVar); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", ModulesPathEnvVar, err)
		}
		return abs, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, defaultStorageDir, modulesDirName), nil
}

// ExeName returns the base name of $MODPM_EXE, or DefaultExe.
func ExeName(getenv func(string) string) string {
	if exe := getenv(ExeEnvVar); exe != "" {
		return filepath.Base(exe)
	}
	return DefaultExe
}
