// SPDX-License-Identifier: MPL-2.0

package vcs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/modpm/modpm/pkg/types"
)

const (
	// KindGit selects the git backend.
	KindGit Kind = "git"
	// KindMercurial selects the mercurial backend.
	KindMercurial Kind = "hg"
)

var (
	// ErrToolMissing is returned when a backend's executable is not on PATH.
	ErrToolMissing = errors.New("vcs executable not found")
	// ErrInvalidBackend is returned by Validate for a backend with an empty template.
	ErrInvalidBackend = errors.New("invalid vcs backend")
	// ErrUnknownKind is returned by ParseKind.
	ErrUnknownKind = errors.New("unknown vcs kind")

	// supported is the detection order.
	supported = []Backend{Git{}, Mercurial{}}
)

type (
	// Kind names a version-control system.
	Kind string

	// Backend is one supported version-control system. The interface is
	// closed: only this package's variants implement template().
	Backend interface {
		Kind() Kind
		Executable() string
		MarkerDir() string
		InstallCommand(url, path, version string) Command
		UpdateCommand(path string) Command
		OutdatedSteps(path string) []Command
		// Outdated runs the backend's outdated-detection protocol in path.
		Outdated(ctx context.Context, r Runner, path string) (bool, error)

		template() template
	}

	// template is the static command vocabulary of a backend.
	template struct {
		executable  string
		markerDir   string
		installArgs []string
		versionFlag string
		pathFlag    string
		updateArgs  []string
		outdated    []string
	}

	// ToolMissingError is returned by IsAvailable.
	ToolMissingError struct {
		Kind       Kind
		Executable string
		Err        error
	}
)

// Error implements the error interface.
func (e *ToolMissingError) Error() string {
	return fmt.Sprintf("%s is not installed: %q not found in PATH", e.Kind, e.Executable)
}

// Unwrap returns ErrToolMissing for errors.Is.
func (e *ToolMissingError) Unwrap() error { return ErrToolMissing }

// String returns the kind name.
func (k Kind) String() string { return string(k) }

// ParseKind accepts "git", "hg" and "mercurial". An empty string means git,
// the registry default.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "git":
		return KindGit, nil
	case "hg", "mercurial":
		return KindMercurial, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// ByKind returns the backend for k.
func ByKind(k Kind) (Backend, bool) {
	for _, b := range supported {
		if b.Kind() == k {
			return b, true
		}
	}
	return nil, false
}

// Detect returns the first backend whose marker directory exists in dir.
// Absent means dir is not a checkout of any supported backend.
func Detect(dir string) types.Lookup[Backend] {
	for _, b := range supported {
		info, err := os.Stat(filepath.Join(dir, b.MarkerDir()))
		switch {
		case err == nil && info.IsDir():
			return types.Found(b)
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return types.Failed[Backend](fmt.Errorf("detect vcs in %s: %w", dir, err))
		}
	}
	return types.Absent[Backend]()
}

// IsAvailable checks that b's executable can be found. Callers must check
// this before running any command built from b.
func IsAvailable(r Runner, b Backend) error {
	if _, err := r.LookPath(b.Executable()); err != nil {
		return &ToolMissingError{Kind: b.Kind(), Executable: b.Executable(), Err: err}
	}
	return nil
}

// Validate rejects a backend whose command vocabulary has a gap.
func Validate(b Backend) error {
	t := b.template()
	var missing []string
	if t.executable == "" {
		missing = append(missing, "executable")
	}
	if t.markerDir == "" {
		missing = append(missing, "marker directory")
	}
	if len(t.installArgs) == 0 {
		missing = append(missing, "install arguments")
	}
	if t.versionFlag == "" {
		missing = append(missing, "version flag")
	}
	if t.pathFlag == "" {
		missing = append(missing, "path flag")
	}
	if len(t.updateArgs) == 0 {
		missing = append(missing, "update arguments")
	}
	if len(t.outdated) == 0 {
		missing = append(missing, "outdated steps")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w %s: missing %s", ErrInvalidBackend, b.Kind(), strings.Join(missing, ", "))
	}
	return nil
}

// installCommand renders
// {executable} {install args}[ {version flag} {version}] "{url}" "{path}".
func (t template) installCommand(url, path, version string) Command {
	args := append([]string(nil), t.installArgs...)
	display := t.executable + " " + strings.Join(t.installArgs, " ")
	if version != "" {
		args = append(args, t.versionFlag, version)
		display += " " + t.versionFlag + " " + version
	}
	args = append(args, url, path)
	display += fmt.Sprintf(" %q %q", url, path)
	return Command{Name: t.executable, Args: args, display: display}
}

// inPath renders {executable} {path flag} "{path}" {step}.
func (t template) inPath(path string, step []string) Command {
	args := append([]string{t.pathFlag, path}, step...)
	display := fmt.Sprintf("%s %s %q %s", t.executable, t.pathFlag, path, strings.Join(step, " "))
	return Command{Name: t.executable, Args: args, display: display}
}

func (t template) updateCommand(path string) Command {
	return t.inPath(path, t.updateArgs)
}

func (t template) outdatedSteps(path string) []Command {
	steps := make([]Command, 0, len(t.outdated))
	for _, s := range t.outdated {
		steps = append(steps, t.inPath(path, strings.Fields(s)))
	}
	return steps
}
