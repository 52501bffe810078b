// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/spf13/cobra"

func newRemoveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <module>...",
		Aliases: []string{"uninstall", "rm"},
		Short:   "Remove installed modules",
		Long: `Delete installed modules. A publisher directory left empty is deleted
as well. Dependencies are not removed.`,
		Args: requireArgs("module"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			s, err := app.newSession(cmd.Context())
			if err != nil {
				return fatal("remove modules", err)
			}
			rep, err := s.orch.Remove(cmd.Context(), args)
			return app.finish("remove modules", rep, err)
		},
	}
}
