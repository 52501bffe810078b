// SPDX-License-Identifier: MPL-2.0

package install

import (
	"errors"
	"fmt"
	"strings"

	"github.com/modpm/modpm/pkg/staleness"
)

var (
	// ErrFilesystem is wrapped by failures to create or remove module directories.
	ErrFilesystem = errors.New("filesystem operation failed")
	// ErrPromptUnavailable is returned when a confirmation is required but
	// cannot be asked.
	ErrPromptUnavailable = errors.New("confirmation required but prompting is unavailable")
	// ErrStaleness is the sentinel wrapped by StalenessError.
	ErrStaleness = errors.New("staleness check failed")
	// ErrNotInstalled is an item error for operations on absent modules.
	ErrNotInstalled = errors.New("module is not installed")
	// ErrNoManifest is returned by InstallFromManifest when the directory has no manifest.
	ErrNoManifest = errors.New("no manifest found")
)

type (
	// StalenessError reports the modules whose staleness check could not run.
	StalenessError struct {
		Failed []staleness.Result
	}

	// PromptUnavailableError names the module that needed a confirmation.
	PromptUnavailableError struct {
		Module string
		Reason string
	}
)

// Error implements the error interface.
func (e *StalenessError) Error() string {
	lines := make([]string, 0, len(e.Failed))
	for _, r := range e.Failed {
		lines = append(lines, fmt.Sprintf("%s: %v", r.Name, r.Err))
	}
	return fmt.Sprintf("could not check %d module(s) for updates:\n  %s", len(e.Failed), strings.Join(lines, "\n  "))
}

// Unwrap returns ErrStaleness for errors.Is.
func (e *StalenessError) Unwrap() error { return ErrStaleness }

// Error implements the error interface.
func (e *PromptUnavailableError) Error() string {
	return fmt.Sprintf("%s is already installed with a different version; %s (use --force to overwrite)", e.Module, e.Reason)
}

// Unwrap returns ErrPromptUnavailable for errors.Is.
func (e *PromptUnavailableError) Unwrap() error { return ErrPromptUnavailable }
