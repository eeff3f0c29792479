package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harrisonrobin/taskflow/pkg/auth"
	"github.com/harrisonrobin/taskflow/pkg/calendar"
	"github.com/harrisonrobin/taskflow/pkg/index"
	"github.com/harrisonrobin/taskflow/pkg/render"
)

func newPushCmd(a *app) *cobra.Command {
	var calendarName string
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Mirror pending task deadlines to Google Calendar",
		Long: `push creates or updates an all-day event for every pending task with a
deadline and removes the events of tasks that were completed or deleted.
Run "taskflow auth" first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if calendarName == "" {
				calendarName = a.cfg.Calendar.Name
			}
			dir, err := a.configDir()
			if err != nil {
				return fmt.Errorf("could not find path to configuration directory: %w", err)
			}

			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			ctx := cmd.Context()
			srv, err := auth.GetCalendarService(ctx, dir, a.logger)
			if err != nil {
				return err
			}
			api, err := calendar.NewServiceAPI(ctx, srv, calendarName)
			if err != nil {
				return err
			}
			idx, err := index.NewEventIndex(dir)
			if err != nil {
				return fmt.Errorf("failed to open event index: %w", err)
			}

			mirror := calendar.NewMirror(api, idx, a.cfg.Calendar.Workers, a.logger)
			res, err := mirror.Push(ctx, s.tasks.GetTasks(), a.now())
			if err != nil {
				return err
			}
			a.logger.Debug("Calendar push done",
				zap.String("calendar", calendarName),
				zap.Int("created", res.Created),
				zap.Int("patched", res.Patched),
				zap.Int("deleted", res.Deleted),
				zap.Int("failed", res.Failed))

			kind := render.Primary
			if res.Failed > 0 {
				kind = render.Danger
			}
			s.view.Notice(kind, fmt.Sprintf("%s: %d created, %d updated, %d unchanged, %d removed, %d failed",
				calendarName, res.Created, res.Patched, res.Unchanged, res.Deleted, res.Failed))
			return nil
		},
	}
	cmd.Flags().StringVar(&calendarName, "calendar", "", "Google Calendar name (overrides config)")
	return cmd
}

func newAuthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.configDir()
			if err != nil {
				return fmt.Errorf("could not find path to configuration directory: %w", err)
			}
			if err := auth.ResetToken(dir); err != nil {
				return err
			}
			if _, err := auth.GetCalendarService(cmd.Context(), dir, a.logger); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Authentication successful! Token saved in %s\n", dir)
			return nil
		},
	}
}
