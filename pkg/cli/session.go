package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harrisonrobin/taskflow/pkg/manager"
	"github.com/harrisonrobin/taskflow/pkg/render"
	"github.com/harrisonrobin/taskflow/pkg/snapshot"
	"github.com/harrisonrobin/taskflow/pkg/storage"
	"github.com/harrisonrobin/taskflow/pkg/theme"
)

// session is one command's view of the persisted state.
type session struct {
	app   *app
	store storage.Store
	tasks *manager.Manager
	theme theme.Name
	view  *render.Renderer

	notices []notice
}

type notice struct {
	kind render.NoticeKind
	msg  string
}

func (a *app) openSession(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()
	store, err := storage.Open(storage.Options{
		Backend: a.cfg.Storage.Backend,
		Dir:     a.cfg.Storage.Dir,
	})
	if err != nil {
		return nil, err
	}

	s := &session{
		app:   a,
		store: store,
		tasks: manager.New(manager.WithClock(a.now)),
	}

	s.theme, err = snapshot.LoadTheme(ctx, store)
	if err != nil {
		a.logger.Warn("Could not read theme, using light", zap.Error(err))
	}
	s.view = render.New(cmd.OutOrStdout(), s.theme)

	if err := snapshot.Load(ctx, store, s.tasks); err != nil {
		if !errors.Is(err, snapshot.ErrCorrupt) {
			store.Close()
			return nil, err
		}
		a.logger.Warn("Stored task list was corrupt and has been set aside",
			zap.String("key", snapshot.CorruptKey), zap.Error(err))
		s.notify(render.Danger, fmt.Sprintf("Saved tasks could not be read; a copy was kept as %s", snapshot.CorruptKey))
	}
	return s, nil
}

func (s *session) save(ctx context.Context) error {
	return snapshot.Save(ctx, s.store, s.tasks)
}

func (s *session) notify(kind render.NoticeKind, msg string) {
	s.notices = append(s.notices, notice{kind: kind, msg: msg})
}

// render draws all views followed by any pending notices.
func (s *session) render() {
	s.view.All(s.tasks, s.app.now())
	s.flush()
}

func (s *session) flush() {
	for _, n := range s.notices {
		s.view.Notice(n.kind, n.msg)
	}
	s.notices = nil
}

func (s *session) close() {
	if err := s.store.Close(); err != nil {
		s.app.logger.Warn("Could not close store", zap.Error(err))
	}
}

// mutate runs fn against the collection, then saves and re-renders when fn
// reports a change.
func (a *app) mutate(cmd *cobra.Command, fn func(s *session) (changed bool, err error)) error {
	s, err := a.openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	changed, err := fn(s)
	if err != nil {
		s.flush()
		return err
	}
	if changed {
		if err := s.save(cmd.Context()); err != nil {
			return err
		}
	}
	s.render()
	return nil
}
