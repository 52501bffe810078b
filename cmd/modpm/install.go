// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modpm/modpm/pkg/install"
	"github.com/modpm/modpm/pkg/settings"
)

func newInstallCommand(app *App) *cobra.Command {
	var hg bool

	cmd := &cobra.Command{
		Use:   "install [<module-or-url>[@version]...]",
		Short: "Install modules and their dependencies",
		Long: `Install modules by registry name or repository URL, then the dependencies
their modpm.cue declares. Without arguments, install the dependencies of the
modpm.cue in the current directory.

Installing a module that is already present with a different version asks
before overwriting it; --force overwrites without asking.`,
		Example: `  modpm install alice.markdown pcre
  modpm install pcre@v1.2.0
  modpm install https://github.com/alice/markdown.git
  modpm install --hg https://hg.example.com/bob/regex`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			s, err := app.newSession(cmd.Context(), settings.WithMercurial(hg))
			if err != nil {
				return fatal("install modules", err)
			}

			var rep *install.Report
			if len(args) == 0 {
				wd, wdErr := os.Getwd()
				if wdErr != nil {
					return fatal("install modules", fmt.Errorf("get working directory: %w", wdErr))
				}
				rep, err = s.orch.InstallFromManifest(cmd.Context(), wd)
			} else {
				rep, err = s.orch.Install(cmd.Context(), args)
			}
			return app.finish("install modules", rep, err)
		},
	}

	cmd.Flags().BoolVar(&hg, "hg", false, "clone repository URLs with mercurial instead of git")

	return cmd
}

func newUpdateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "update [<module>...]",
		Short: "Update installed modules",
		Long: `Pull the latest changes of the named modules, or of every installed module
when none are named. Dependencies declared by an updated module are updated
too, or installed when missing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			s, err := app.newSession(cmd.Context())
			if err != nil {
				return fatal("update modules", err)
			}
			rep, err := s.orch.Update(cmd.Context(), args)
			return app.finish("update modules", rep, err)
		},
	}
}

func newUpgradeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Update every module that is behind upstream",
		Long: `Check every installed module against its upstream repository, then update
the outdated ones. If any check fails, nothing is updated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			s, err := app.newSession(cmd.Context())
			if err != nil {
				return fatal("upgrade modules", err)
			}
			rep, err := s.orch.Upgrade(cmd.Context())
			if err == nil && rep.Empty() {
				fmt.Fprintln(app.stdout, SuccessStyle.Render(iconSuccess)+" All modules are up to date.")
				return nil
			}
			return app.finish("upgrade modules", rep, err)
		},
	}
}

func newOutdatedCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "outdated",
		Short: "List modules that are behind upstream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			s, err := app.newSession(cmd.Context())
			if err != nil {
				return fatal("check modules", err)
			}
			outdated, err := s.orch.Outdated(cmd.Context())
			if err != nil {
				return fatal("check modules", err)
			}

			if len(outdated) == 0 {
				fmt.Fprintln(app.stdout, SuccessStyle.Render(iconSuccess)+" All modules are up to date.")
				return nil
			}
			for _, id := range outdated {
				fmt.Fprintf(app.stdout, "%s %s\n", WarningStyle.Render(iconOutdated), TitleStyle.Render(id.String()))
			}
			fmt.Fprintf(app.stdout, "\nRun %s to update them.\n", CmdStyle.Render(s.settings.Exe()+" upgrade"))
			return nil
		},
	}
}
