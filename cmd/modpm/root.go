// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/modpm/modpm/internal/issue"
	"github.com/modpm/modpm/pkg/settings"
	"github.com/modpm/modpm/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the modpm command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	exe := settings.ExeName(app.Getenv)

	rootCmd := &cobra.Command{
		Use:   exe,
		Short: "Install, update and remove modules from the modpm registry",
		Long: TitleStyle.Render("modpm") + SubtitleStyle.Render(" - a package manager for modules") + `

Modules are installed by registry name (alice.markdown, pcre) or by
repository URL, optionally pinned with @version. Each module is a git or
mercurial checkout under the modules directory, and the dependencies listed
in its modpm.cue are installed along with it.

` + SubtitleStyle.Render("Examples:") + `
  ` + exe + ` search markdown          Find modules by name
  ` + exe + ` install alice.markdown   Install a module and its dependencies
  ` + exe + ` install pcre@v1.2.0      Install a specific version
  ` + exe + ` install                  Install the dependencies of ./modpm.cue
  ` + exe + ` upgrade                  Update every outdated module`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			_ = cmd.Usage()
			return &ExitError{Code: types.ExitNoCommand}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&app.flags.verbose, "verbose", "v", false, "show commands, subprocess output and debug logs")
	pf.BoolVarP(&app.flags.force, "force", "f", false, "overwrite installed modules without asking")
	pf.BoolVar(&app.flags.failOnPrompt, "fail-on-prompt", false, "fail instead of asking for confirmation")
	pf.StringVar(&app.flags.modulesPath, "modules-path", "", "modules directory (default $"+settings.ModulesPathEnvVar+" or ~/.modpm/modules)")
	pf.StringVar(&app.flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/modpm/config.cue)")

	rootCmd.AddCommand(
		newSearchCommand(app),
		newInstallCommand(app),
		newUpdateCommand(app),
		newUpgradeCommand(app),
		newOutdatedCommand(app),
		newListCommand(app),
		newRemoveCommand(app),
		newShowCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(ctx context.Context, app *App, args []string) types.ExitCode {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	)
	return exitCodeFor(err)
}

// Main is the process entry point. It returns the exit code instead of
// exiting so tests can run it in-process.
func Main() int {
	return int(Execute(context.Background(), NewApp(Dependencies{}), os.Args[1:]))
}

// exitCodeFor maps a command error onto the documented exit codes.
func exitCodeFor(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		return types.ExitUnknownCommand
	}
	return types.ExitFailure
}

// handleError prints the error that ended the run. Errors the command
// already reported (an ExitError without a cause) print nothing.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		fang.DefaultErrorHandler(w, styles, err)
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+ae.Format(a.flags.verbose))
	if ae.Issue == 0 || !a.flags.verbose {
		return
	}
	if page := issue.Get(ae.Issue); page != nil {
		rendered, renderErr := page.Render(issueStyle(w))
		if renderErr == nil {
			fmt.Fprint(w, rendered)
		}
	}
}
