// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/modpm/modpm/internal/issue"
	"github.com/modpm/modpm/pkg/install"
	"github.com/modpm/modpm/pkg/registry"
	"github.com/modpm/modpm/pkg/types"
	"github.com/modpm/modpm/pkg/vcs"
)

// fatal wraps an error that aborted op into an actionable error carrying the
// matching issue page and suggestions. The result exits with code 1.
func fatal(op string, err error) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return &ExitError{Code: types.ExitFailure, Err: err}
	}

	ec := issue.NewErrorContext().WithOperation(op)

	var toolErr *vcs.ToolMissingError
	var promptErr *install.PromptUnavailableError
	var exhausted *registry.ExhaustedError
	switch {
	case errors.As(err, &toolErr):
		ec = ec.WithIssue(issue.VCSToolMissingId).
			WithSuggestion(fmt.Sprintf("Install %s and make sure it is on your PATH", toolErr.Executable))
	case errors.Is(err, registry.ErrMirrorUnreachable):
		ec = ec.WithIssue(issue.MirrorUnreachableId).
			WithSuggestion("Check your network connection").
			WithSuggestion("Configure a reachable mirror with MODPM_MIRRORS or mirrors in config.cue")
	case errors.As(err, &promptErr):
		ec = ec.WithIssue(issue.PromptUnavailableId).
			WithResource(promptErr.Module).
			WithSuggestion("Re-run with --force to overwrite without asking")
	case errors.Is(err, install.ErrStaleness):
		ec = ec.WithIssue(issue.StalenessCheckFailedId).
			WithSuggestion("Re-run with --verbose to see the failing commands")
	case errors.Is(err, install.ErrNoManifest):
		ec = ec.WithIssue(issue.ManifestNotFoundId).
			WithSuggestion("Name the modules to install, or run from a directory with a modpm.cue")
	case errors.As(err, &exhausted):
		ec = ec.WithResource(exhausted.Subject).
			WithSuggestion("Re-run with --verbose to see each mirror's answer")
	}

	return &ExitError{Code: types.ExitFailure, Err: ec.Wrap(err).Build()}
}

// requireArgs rejects an empty argument list with exit code 2.
func requireArgs(what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return nil
		}
		return &ExitError{
			Code: types.ExitMissingArgs,
			Err:  fmt.Errorf("%s requires at least one %s", cmd.CommandPath(), what),
		}
	}
}

// issueStyle picks the glamour style for issue pages written to w.
func issueStyle(w io.Writer) string {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "dark"
	}
	return "notty"
}
