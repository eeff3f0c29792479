package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harrisonrobin/taskflow/pkg/orgmode"
	"github.com/harrisonrobin/taskflow/pkg/remote"
	"github.com/harrisonrobin/taskflow/pkg/render"
)

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replace the task list with the remote demo list",
		Long: `sync fetches the remote todo list and replaces the whole local list with it.
Nothing is merged: local tasks, including the trash, are discarded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := remote.NewClient(a.cfg.Remote.URL, a.cfg.Remote.Limit)
			return a.mutate(cmd, func(s *session) (bool, error) {
				ctx := cmd.Context()
				if a.cfg.Remote.Timeout > 0 {
					var cancel context.CancelFunc
					ctx, cancel = context.WithTimeout(ctx, a.cfg.Remote.Timeout)
					defer cancel()
				}

				n, err := remote.Sync(ctx, client, s.tasks)
				if err != nil {
					a.logger.Warn("Remote sync failed", zap.String("url", client.BaseURL), zap.Error(err))
					s.notify(render.Danger, "Could not sync with the remote API")
					return false, fmt.Errorf("sync failed: %w", err)
				}
				a.logger.Debug("Remote sync done", zap.Int("tasks", n))
				s.notify(render.Primary, fmt.Sprintf("Synced %d tasks", n))
				return true, nil
			})
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.org>",
		Short: "Replace the task list with the TODO/DONE headings of an Org-mode file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := orgmode.ParseFile(args[0])
			if err != nil {
				return fmt.Errorf("could not import %s: %w", args[0], err)
			}
			return a.mutate(cmd, func(s *session) (bool, error) {
				n := s.tasks.LoadTasks(records)
				s.notify(render.Primary, fmt.Sprintf("Imported %d tasks from %s", n, args[0]))
				return true, nil
			})
		},
	}
}
