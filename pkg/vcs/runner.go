// SPDX-License-Identifier: MPL-2.0

package vcs

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrExecution is the sentinel wrapped by ExecError.
var ErrExecution = errors.New("vcs command failed")

type (
	// Command is a VCS invocation as an argv vector.
	Command struct {
		Name string
		Args []string
		// display is the quoted template form shown in verbose output.
		display string
	}

	// Result is what a finished subprocess produced.
	Result struct {
		// Output is combined stdout and stderr.
		Output string
		// ExitCode is -1 when the process did not exit normally.
		ExitCode int
	}

	// Runner executes VCS commands. The error return is reserved for commands
	// that could not run at all; a non-zero exit is reported in Result.
	Runner interface {
		Run(ctx context.Context, cmd Command) (Result, error)
		LookPath(file string) (string, error)
	}

	// ExecRunner runs commands with os/exec.
	ExecRunner struct{}

	// ExecError describes a VCS command that failed or exited non-zero.
	ExecError struct {
		Command  Command
		ExitCode int
		Output   string
		Err      error
	}
)

// String renders the command the way a user would type it.
func (c Command) String() string {
	if c.display != "" {
		return c.display
	}
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	out, err := cmd.CombinedOutput()
	res := Result{Output: string(out)}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	res.ExitCode = -1
	return res, err
}

// LookPath implements Runner.
func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
}

// Unwrap returns ErrExecution for errors.Is.
func (e *ExecError) Unwrap() error { return ErrExecution }

// Run executes c and turns a non-zero exit into an *ExecError.
func Run(ctx context.Context, r Runner, c Command) (string, error) {
	return runChecked(ctx, r, c)
}

func runChecked(ctx context.Context, r Runner, c Command) (string, error) {
	res, err := r.Run(ctx, c)
	if err != nil {
		return res.Output, &ExecError{Command: c, ExitCode: res.ExitCode, Output: res.Output, Err: err}
	}
	if res.ExitCode != 0 {
		return res.Output, &ExecError{Command: c, ExitCode: res.ExitCode, Output: res.Output}
	}
	return res.Output, nil
}
