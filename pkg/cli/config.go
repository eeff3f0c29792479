package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskflow/pkg/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "storage.backend  %s\n", a.cfg.Storage.Backend)
			fmt.Fprintf(out, "storage.dir      %s\n", a.cfg.Storage.Dir)
			fmt.Fprintf(out, "remote.url       %s\n", a.cfg.Remote.URL)
			fmt.Fprintf(out, "remote.limit     %d\n", a.cfg.Remote.Limit)
			fmt.Fprintf(out, "remote.timeout   %s\n", a.cfg.Remote.Timeout)
			fmt.Fprintf(out, "calendar.name    %s\n", a.cfg.Calendar.Name)
			fmt.Fprintf(out, "calendar.workers %d\n", a.cfg.Calendar.Workers)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-calendar <name>",
		Short: "Set the default Google Calendar name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.cfg.Calendar.Name = args[0]
			if err := config.Save(a.cfg, a.cfgPath); err != nil {
				return fmt.Errorf("error saving config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default calendar set to: %s\n", args[0])
			return nil
		},
	})
	return cmd
}
