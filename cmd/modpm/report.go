// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/modpm/modpm/pkg/install"
	"github.com/modpm/modpm/pkg/types"
)

// printReport writes the outcome lines of a run to stdout and the failure
// summary to stderr. Each failure was already logged when it happened.
func printReport(stdout, stderr io.Writer, rep *install.Report) {
	if rep == nil {
		return
	}
	for _, name := range rep.Installed {
		fmt.Fprintf(stdout, "%s installed %s\n", SuccessStyle.Render(iconSuccess), TitleStyle.Render(name))
	}
	for _, name := range rep.Updated {
		fmt.Fprintf(stdout, "%s updated %s\n", SuccessStyle.Render(iconSuccess), TitleStyle.Render(name))
	}
	for _, name := range rep.Removed {
		fmt.Fprintf(stdout, "%s removed %s\n", SuccessStyle.Render(iconSuccess), TitleStyle.Render(name))
	}
	for _, name := range rep.Skipped {
		fmt.Fprintf(stdout, "%s skipped %s\n", WarningStyle.Render(iconSkipped), name)
	}
	if rep.Empty() {
		fmt.Fprintln(stdout, SubtitleStyle.Render("Nothing to do."))
	}

	if rep.Failed() {
		names := make([]string, len(rep.Errors))
		for i, e := range rep.Errors {
			names[i] = e.Module
		}
		fmt.Fprintf(stderr, "%s %d module(s) failed: %s\n",
			ErrorStyle.Render(iconFailure), len(rep.Errors), strings.Join(names, ", "))
	}
}

// finish prints rep and turns the run's outcome into the command error.
func (a *App) finish(op string, rep *install.Report, err error) error {
	printReport(a.stdout, a.stderr, rep)
	if err != nil {
		return fatal(op, err)
	}
	if rep != nil && rep.Failed() {
		return &ExitError{Code: types.ExitFailure}
	}
	return nil
}
