package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harrisonrobin/taskflow/pkg/overdue"
	"github.com/harrisonrobin/taskflow/pkg/render"
	"github.com/harrisonrobin/taskflow/pkg/snapshot"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		interval time.Duration
		count    int
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the list periodically to refresh countdowns",
		Long: `watch redraws the list every interval until interrupted. It never writes
the task list; it only remembers which expired deadlines it has announced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("interval must be positive, got %s", interval)
			}
			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			ctx := cmd.Context()
			table, err := overdue.Load(ctx, s.store)
			if err != nil {
				a.logger.Warn("Could not load overdue table, starting fresh", zap.Error(err))
				table = overdue.NewTable()
			}

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for i := 0; ; i++ {
				if i > 0 {
					// Pick up changes made by other invocations.
					if err := snapshot.Load(ctx, s.store, s.tasks); err != nil {
						a.logger.Warn("Could not reload tasks", zap.Error(err))
					}
				}
				now := a.now()
				for _, t := range table.Sweep(s.tasks.GetTasks(), now) {
					s.notify(render.Danger, fmt.Sprintf("Deadline passed: %s", t.Description))
				}
				if err := table.Save(ctx, s.store); err != nil {
					a.logger.Warn("Could not save overdue table", zap.Error(err))
				}
				s.render()

				if count > 0 && i+1 >= count {
					return nil
				}
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "Refresh interval")
	cmd.Flags().IntVar(&count, "count", 0, "Stop after this many refreshes (0 runs until interrupted)")
	return cmd
}
