// Package manager owns the task collection and every mutation applied to it.
package manager

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/harrisonrobin/taskflow/pkg/task"
)

// ErrEmptyDescription is returned by AddTask for blank descriptions.
var ErrEmptyDescription = errors.New("task description must not be empty")

// Manager holds an ordered collection of tasks. It is not safe for concurrent
// use; callers mutate it one event at a time.
type Manager struct {
	tasks []*task.Task
	now   func() time.Time
	newID func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now as the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) { m.newID = gen }
}

func New(opts ...Option) *Manager {
	m := &Manager{
		now:   time.Now,
		newID: task.NewID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddTask appends a new active, incomplete task created now.
func (m *Manager) AddTask(description string, deadline *task.Date) (*task.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	t := task.New(description,
		task.WithID(m.uniqueID()),
		task.WithCreatedAt(m.now()),
		task.WithDeadline(deadline),
	)
	m.tasks = append(m.tasks, t)
	return t, nil
}

func (m *Manager) uniqueID() string {
	for {
		id := m.newID()
		if _, ok := m.GetTask(id); !ok && id != "" {
			return id
		}
	}
}

// RemoveTask soft-deletes the task with the given id.
func (m *Manager) RemoveTask(id string) {
	if t, ok := m.GetTask(id); ok {
		t.Status = task.Deleted
	}
}

// RestoreTask brings a soft-deleted task back to the active list.
func (m *Manager) RestoreTask(id string) {
	if t, ok := m.GetTask(id); ok {
		t.Status = task.Active
	}
}

// PermanentlyDeleteTask drops the task from the collection.
func (m *Manager) PermanentlyDeleteTask(id string) {
	for i, t := range m.tasks {
		if t.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}

// ToggleTask flips the completion flag and reports whether the task exists.
func (m *Manager) ToggleTask(id string) bool {
	t, ok := m.GetTask(id)
	if ok {
		t.ToggleStatus()
	}
	return ok
}

// GetTask looks a task up by id regardless of its status.
func (m *Manager) GetTask(id string) (*task.Task, bool) {
	for _, t := range m.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// GetTasks returns every task in storage order.
func (m *Manager) GetTasks() []*task.Task {
	out := make([]*task.Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

func (m *Manager) GetActiveTasks() []*task.Task {
	return m.filter(func(t *task.Task) bool { return !t.Deleted() })
}

func (m *Manager) GetDeletedTasks() []*task.Task {
	return m.filter(func(t *task.Task) bool { return t.Deleted() })
}

func (m *Manager) filter(keep func(*task.Task) bool) []*task.Task {
	var out []*task.Task
	for _, t := range m.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// LoadTasks replaces the whole collection with the given records. Records with
// no description or title are skipped, and only the first record for a given
// id is kept. It returns the number of tasks loaded.
func (m *Manager) LoadTasks(records []task.Record) int {
	now := m.now()
	loaded := make([]*task.Task, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Text()) == "" {
			continue
		}
		if r.ID == "" {
			r.ID = task.RecordID(m.newID())
		}
		if seen[string(r.ID)] {
			continue
		}
		seen[string(r.ID)] = true
		loaded = append(loaded, task.FromRecord(r, now))
	}
	m.tasks = loaded
	return len(loaded)
}

// Records serializes the full collection in storage order.
func (m *Manager) Records() []task.Record {
	out := make([]task.Record, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t.Record())
	}
	return out
}

// Stats summarizes the collection. Total, Pending and Completed count active
// tasks only.
type Stats struct {
	Total     int
	Pending   int
	Completed int
	Deleted   int
}

func (m *Manager) Stats() Stats {
	var s Stats
	for _, t := range m.tasks {
		switch {
		case t.Deleted():
			s.Deleted++
		case t.Completed:
			s.Total++
			s.Completed++
		default:
			s.Total++
			s.Pending++
		}
	}
	return s
}

// DisplayOrder returns a sorted copy of tasks: incomplete before completed,
// then earliest deadline first with undated tasks last.
func DisplayOrder(tasks []*task.Task) []*task.Task {
	out := make([]*task.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		switch {
		case a.Deadline == nil:
			return false
		case b.Deadline == nil:
			return true
		default:
			return a.Deadline.Before(*b.Deadline)
		}
	})
	return out
}
