// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>...",
		Short: "Search the registry for modules",
		Long: `Search the registry for modules whose name contains any of the given
keywords. Matching ignores case.`,
		Example: `  modpm search markdown
  modpm search regex pcre`,
		Args: requireArgs("query"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			s, err := app.newSession(cmd.Context())
			if err != nil {
				return fatal("search modules", err)
			}

			found, err := s.registry.Search(cmd.Context(), args)
			if err != nil {
				return fatal("search modules", err)
			}

			if len(found) == 0 {
				fmt.Fprintf(app.stdout, "No modules match %s.\n", strings.Join(args, " "))
				return nil
			}
			for _, m := range found {
				fmt.Fprintf(app.stdout, "%s  %s  %s\n",
					TitleStyle.Render(m.Name),
					CmdStyle.Render(m.URL),
					SubtitleStyle.Render(fmt.Sprintf("(%d downloads)", m.Downloads)))
			}
			return nil
		},
	}
}
