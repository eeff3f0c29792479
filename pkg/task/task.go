// Package task holds the Task entity and its plain record form.
package task

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a task inside its collection.
type Status int

const (
	Active Status = iota
	Deleted
)

func (s Status) String() string {
	switch s {
	case Deleted:
		return "deleted"
	default:
		return "active"
	}
}

// Task is a single to-do item.
type Task struct {
	ID          string
	Description string
	Completed   bool
	Status      Status
	CreatedAt   time.Time
	Deadline    *Date
}

// Remaining is the countdown to a task's deadline.
type Remaining struct {
	Expired bool
	Days    int
	Hours   int
	Minutes int
}

// Option configures a Task built by New.
type Option func(*Task)

func WithID(id string) Option {
	return func(t *Task) { t.ID = id }
}

func WithCompleted(completed bool) Option {
	return func(t *Task) { t.Completed = completed }
}

func WithStatus(s Status) Option {
	return func(t *Task) { t.Status = s }
}

func WithCreatedAt(at time.Time) Option {
	return func(t *Task) { t.CreatedAt = at }
}

// WithDeadline sets the deadline. A nil or zero date leaves the task without one.
func WithDeadline(d *Date) Option {
	return func(t *Task) {
		if d == nil || d.IsZero() {
			t.Deadline = nil
			return
		}
		day := *d
		t.Deadline = &day
	}
}

// NewID returns a fresh opaque task identifier.
func NewID() string {
	return uuid.NewString()
}

// New builds a task. The description is taken as given; callers validate it.
func New(description string, opts ...Option) *Task {
	t := &Task{Description: description}
	for _, opt := range opts {
		opt(t)
	}
	if t.ID == "" {
		t.ID = NewID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	return t
}

func (t *Task) Deleted() bool {
	return t.Status == Deleted
}

// ToggleStatus flips the completion flag.
func (t *Task) ToggleStatus() {
	t.Completed = !t.Completed
}

// TimeRemaining returns the countdown to the deadline as seen at now, or nil
// when there is no deadline or the task is already completed. The deadline is
// midnight of its day in now's location.
func (t *Task) TimeRemaining(now time.Time) *Remaining {
	if t.Deadline == nil || t.Completed {
		return nil
	}
	diff := t.Deadline.Midnight(now.Location()).Sub(now)
	if diff <= 0 {
		return &Remaining{Expired: true}
	}
	return &Remaining{
		Days:    int(diff / (24 * time.Hour)),
		Hours:   int(diff/time.Hour) % 24,
		Minutes: int(diff/time.Minute) % 60,
	}
}
