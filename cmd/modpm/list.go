// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modpm/modpm/pkg/install"
	"github.com/modpm/modpm/pkg/registry"
	"github.com/modpm/modpm/pkg/types"
)

func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List installed modules",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			s, err := app.newSession(cmd.Context())
			if err != nil {
				return fatal("list modules", err)
			}
			listings, err := s.orch.List()
			if err != nil {
				return fatal("list modules", err)
			}

			if len(listings) == 0 {
				fmt.Fprintf(app.stdout, "No modules installed in %s.\n",
					s.orch.Resolver().FormatPath(s.settings.StorageRoot()))
				return nil
			}

			failed := 0
			for _, l := range listings {
				if l.Err != nil {
					failed++
					fmt.Fprintf(app.stderr, "%s %s: %v\n", ErrorStyle.Render(iconFailure), l.Module.Ident, l.Err)
					continue
				}
				version := l.Module.InstalledVersion
				if l.Module.PinnedVersion != "" {
					version = l.Module.PinnedVersion
				}
				line := TitleStyle.Render(l.Module.Ident.String())
				if version != "" {
					line += " " + CmdStyle.Render(version)
				}
				fmt.Fprintf(app.stdout, "%s  %s\n", line, SubtitleStyle.Render(l.Module.FormattedInstallPath))
			}

			if failed > 0 {
				return &ExitError{Code: types.ExitFailure}
			}
			return nil
		},
	}
}

func newShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <module>...",
		Short: "Show module details",
		Long: `Show the manifest of installed modules, or the registry record of modules
that are not installed.`,
		Args: requireArgs("module"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			s, err := app.newSession(cmd.Context())
			if err != nil {
				return fatal("show modules", err)
			}

			failed := 0
			for i, token := range args {
				d, err := s.orch.Show(cmd.Context(), token)
				if errors.Is(err, registry.ErrMirrorUnreachable) {
					return fatal("show modules", err)
				}
				if err != nil {
					failed++
					s.logger.Error(err.Error(), "module", token)
					continue
				}
				if i > 0 {
					fmt.Fprintln(app.stdout)
				}
				printDetails(app.stdout, d)
			}

			if failed > 0 {
				return &ExitError{Code: types.ExitFailure}
			}
			return nil
		},
	}
}

func printDetails(w io.Writer, d install.Details) {
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%s%s\n", labelStyle.Render(label), value)
		}
	}

	fmt.Fprintln(w, TitleStyle.Render(d.Module.Ident.String()))

	if mf := d.Manifest; mf != nil {
		field("Version", mf.Version)
		if d.Module.PinnedVersion != "" && d.Module.PinnedVersion != mf.Version {
			field("Pinned", d.Module.PinnedVersion)
		}
		field("Description", mf.Description)
		field("Author", mf.Author)
		field("License", mf.License)
		field("Repository", mf.RepoURL)
		field("Dependencies", strings.Join(mf.Dependencies, ", "))
		field("Location", d.Module.FormattedInstallPath)
		return
	}

	if d.Module.IsInstalled {
		field("Location", d.Module.FormattedInstallPath)
		field("Status", "installed, no modpm.cue")
		return
	}

	if meta := d.Metadata; meta != nil {
		field("Repository", meta.URL)
		field("VCS", meta.VCS)
		field("Downloads", strconv.Itoa(meta.Downloads))
	}
	field("Status", "not installed")
}
