package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/taskflow/pkg/index"
	"github.com/harrisonrobin/taskflow/pkg/task"
)

// Result counts what a Push did.
type Result struct {
	Created   int
	Patched   int
	Unchanged int
	Deleted   int
	Failed    int
}

// Mirror pushes task deadlines to a calendar.
type Mirror struct {
	api     EventAPI
	index   *index.EventIndex
	workers int
	logger  *zap.Logger

	mu     sync.Mutex
	result Result
}

func NewMirror(api EventAPI, idx *index.EventIndex, workers int, logger *zap.Logger) *Mirror {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror{api: api, index: idx, workers: workers, logger: logger}
}

func (m *Mirror) count(f func(*Result)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f(&m.result)
}

// Push creates or patches an event for every eligible task and deletes the
// events of indexed tasks that are no longer eligible. Failures on single
// tasks are logged and counted; only cancellation aborts the push.
func (m *Mirror) Push(ctx context.Context, tasks []*task.Task, now time.Time) (Result, error) {
	m.result = Result{}
	eligible := make(map[string]bool, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	for _, t := range tasks {
		if !Eligible(t) {
			continue
		}
		eligible[t.ID] = true
		g.Go(func() error {
			if err := m.syncTask(gctx, t, now); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				m.logger.Warn("Could not sync event", zap.String("task", t.ID), zap.Error(err))
				m.count(func(r *Result) { r.Failed++ })
			}
			return nil
		})
	}

	for _, id := range m.index.TaskIDs() {
		if eligible[id] {
			continue
		}
		g.Go(func() error {
			if err := m.deleteTask(gctx, id); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				m.logger.Warn("Could not delete event", zap.String("task", id), zap.Error(err))
				m.count(func(r *Result) { r.Failed++ })
			}
			return nil
		})
	}

	err := g.Wait()
	if saveErr := m.index.Save(); saveErr != nil {
		m.logger.Warn("Could not save event index", zap.Error(saveErr))
	}
	return m.result, err
}

func (m *Mirror) syncTask(ctx context.Context, t *task.Task, now time.Time) error {
	target, err := ConvertTaskToEvent(t, now)
	if err != nil {
		return err
	}

	var existing *gcal.Event
	if eventID := m.index.Get(t.ID); eventID != "" {
		existing, err = m.api.Get(ctx, eventID)
		if err != nil {
			// Stale index entry; fall back to the search.
			existing = nil
		}
	}
	if existing == nil {
		existing, err = m.api.FindByTaskID(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("error searching for event: %w", err)
		}
	}

	if existing == nil {
		created, err := m.api.Insert(ctx, target)
		if err != nil {
			return fmt.Errorf("error creating event: %w", err)
		}
		m.index.Set(t.ID, created.Id)
		m.count(func(r *Result) { r.Created++ })
		return nil
	}

	m.index.Set(t.ID, existing.Id)
	patch := EventNeedsUpdate(existing, target)
	if patch == nil {
		m.count(func(r *Result) { r.Unchanged++ })
		return nil
	}
	if _, err := m.api.Patch(ctx, existing.Id, patch); err != nil {
		return fmt.Errorf("error patching event: %w", err)
	}
	m.count(func(r *Result) { r.Patched++ })
	return nil
}

func (m *Mirror) deleteTask(ctx context.Context, taskID string) error {
	eventID := m.index.Get(taskID)
	if eventID != "" {
		if err := m.api.Delete(ctx, eventID); err != nil && !IsGone(err) {
			return err
		}
	}
	m.index.Remove(taskID)
	m.count(func(r *Result) { r.Deleted++ })
	return nil
}
