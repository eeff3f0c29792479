package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskflow/pkg/render"
	"github.com/harrisonrobin/taskflow/pkg/task"
)

func newAddCmd(a *app) *cobra.Command {
	var deadline string
	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.TrimSpace(strings.Join(args, " "))
			var due *task.Date
			if deadline != "" {
				d, err := task.ParseDate(deadline)
				if err != nil {
					return err
				}
				due = &d
			}
			return a.mutate(cmd, func(s *session) (bool, error) {
				t, err := s.tasks.AddTask(description, due)
				if err != nil {
					return false, err
				}
				s.notify(render.Primary, fmt.Sprintf("%q added", t.Description))
				return true, nil
			})
		},
	}
	cmd.Flags().StringVarP(&deadline, "deadline", "d", "", "Deadline date (YYYY-MM-DD)")
	return cmd
}

// missing reports an unknown id. Lookups by unknown id are not errors.
func missing(s *session, id string) {
	s.notify(render.Danger, fmt.Sprintf("No task with id %s", id))
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"toggle"},
		Short:   "Toggle a task between pending and completed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(s *session) (bool, error) {
				if !s.tasks.ToggleTask(args[0]) {
					missing(s, args[0])
					return false, nil
				}
				return true, nil
			})
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Move a task to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(s *session) (bool, error) {
				if _, ok := s.tasks.GetTask(args[0]); !ok {
					missing(s, args[0])
					return false, nil
				}
				s.tasks.RemoveTask(args[0])
				s.notify(render.Primary, "Task moved to the trash")
				return true, nil
			})
		},
	}
}

func newRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a task from the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(s *session) (bool, error) {
				if _, ok := s.tasks.GetTask(args[0]); !ok {
					missing(s, args[0])
					return false, nil
				}
				s.tasks.RestoreTask(args[0])
				s.notify(render.Primary, "Task restored")
				return true, nil
			})
		},
	}
}

func newPurgeCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "purge <id>",
		Short: "Delete a task permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(s *session) (bool, error) {
				t, ok := s.tasks.GetTask(args[0])
				if !ok {
					missing(s, args[0])
					return false, nil
				}
				if !yes && !confirm(cmd, fmt.Sprintf("Delete %q permanently? [y/N] ", t.Description)) {
					return false, nil
				}
				s.tasks.PermanentlyDeleteTask(args[0])
				s.notify(render.Danger, "Task deleted permanently")
				return true, nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func runList(cmd *cobra.Command, a *app) error {
	s, err := a.openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()
	s.render()
	return nil
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show active tasks, the trash and counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, a)
		},
	}
}

func newTrashCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "trash",
		Short: "Show soft-deleted tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			deleted := s.tasks.GetDeletedTasks()
			if len(deleted) == 0 {
				s.notify(render.Primary, "Trash is empty")
			}
			s.view.Trash(deleted)
			s.flush()
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			s.view.Stats(s.tasks.Stats())
			s.flush()
			return nil
		},
	}
}
