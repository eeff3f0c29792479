package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskflow/pkg/render"
	"github.com/harrisonrobin/taskflow/pkg/snapshot"
	"github.com/harrisonrobin/taskflow/pkg/theme"
)

func newThemeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), s.theme)
				return nil
			}

			next := s.theme.Toggle()
			if args[0] != "toggle" {
				if next, err = theme.Parse(args[0]); err != nil {
					return err
				}
			}
			if err := snapshot.SaveTheme(cmd.Context(), s.store, next); err != nil {
				return err
			}
			render.New(cmd.OutOrStdout(), next).Notice(render.Primary, fmt.Sprintf("Theme set to %s", next))
			return nil
		},
	}
}
