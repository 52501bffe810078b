// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/modpm/modpm/pkg/vcs"
)

type (
	// FakeRunner is a scripted vcs.Runner. Responses are keyed by the argv
	// joined with single spaces ("git -C /x fetch"); unmatched commands get
	// Default. It is safe for concurrent use.
	FakeRunner struct {
		// Responses maps an argv line to the result it produces.
		Responses map[string]FakeResponse
		// Default answers commands without a scripted response.
		Default FakeResponse
		// Missing lists executables LookPath cannot find.
		Missing []string
		// OnRun, when set, runs before the response is returned. Tests use it
		// to simulate the filesystem effects of a clone.
		OnRun func(argv []string) error

		mu    sync.Mutex
		calls []string
	}

	// FakeResponse is one scripted command outcome.
	FakeResponse struct {
		Output   string
		ExitCode int
		Err      error
	}
)

// Argv joins a command into the key format used by FakeRunner.
func Argv(c vcs.Command) string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Run implements vcs.Runner.
func (f *FakeRunner) Run(_ context.Context, c vcs.Command) (vcs.Result, error) {
	key := Argv(c)

	f.mu.Lock()
	f.calls = append(f.calls, key)
	resp, ok := f.Responses[key]
	f.mu.Unlock()

	if !ok {
		resp = f.Default
	}
	if f.OnRun != nil {
		if err := f.OnRun(append([]string{c.Name}, c.Args...)); err != nil {
			return vcs.Result{ExitCode: -1}, err
		}
	}
	if resp.Err != nil {
		return vcs.Result{Output: resp.Output, ExitCode: -1}, resp.Err
	}
	return vcs.Result{Output: resp.Output, ExitCode: resp.ExitCode}, nil
}

// LookPath implements vcs.Runner.
func (f *FakeRunner) LookPath(file string) (string, error) {
	for _, m := range f.Missing {
		if m == file {
			return "", errors.New("executable file not found in $PATH")
		}
	}
	return "/usr/bin/" + file, nil
}

// Calls returns the argv lines run so far, in order.
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Called reports whether any recorded call starts with prefix.
func (f *FakeRunner) Called(prefix string) bool {
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}
