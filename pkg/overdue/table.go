// Package overdue remembers which task deadlines have already been announced
// as expired, so a long-running watcher reports each expiry once.
package overdue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harrisonrobin/taskflow/pkg/storage"
	"github.com/harrisonrobin/taskflow/pkg/task"
)

const Key = "taskflow_overdue"

type Entry struct {
	Description string    `json:"description"`
	Deadline    task.Date `json:"deadline"`
	AnnouncedAt time.Time `json:"announced_at"`
}

type Table struct {
	Entries map[string]Entry `json:"entries"`
	dirty   bool
}

func NewTable() *Table {
	return &Table{Entries: make(map[string]Entry)}
}

// Load reads the table from s. A missing table is an empty one.
func Load(ctx context.Context, s storage.Store) (*Table, error) {
	t := NewTable()
	b, err := s.Get(ctx, Key)
	if errors.Is(err, storage.ErrNotFound) {
		return t, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, t); err != nil {
		return nil, fmt.Errorf("failed to decode overdue table: %w", err)
	}
	if t.Entries == nil {
		t.Entries = make(map[string]Entry)
	}
	return t, nil
}

func (t *Table) Save(ctx context.Context, s storage.Store) error {
	if !t.dirty {
		return nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	if err := s.Set(ctx, Key, b); err != nil {
		return err
	}
	t.dirty = false
	return nil
}

// Sweep returns the tasks whose deadline expired since the last sweep and
// records them. Entries for tasks that are gone, deleted, completed or whose
// deadline moved are dropped, so a moved deadline is announced again.
func (t *Table) Sweep(tasks []*task.Task, now time.Time) []*task.Task {
	var expired []*task.Task
	live := make(map[string]bool, len(tasks))

	for _, tk := range tasks {
		if tk.Deleted() {
			continue
		}
		rem := tk.TimeRemaining(now)
		if rem == nil || !rem.Expired {
			continue
		}
		live[tk.ID] = true
		if old, exists := t.Entries[tk.ID]; exists && old.Deadline == *tk.Deadline {
			continue
		}
		t.Entries[tk.ID] = Entry{
			Description: tk.Description,
			Deadline:    *tk.Deadline,
			AnnouncedAt: now,
		}
		t.dirty = true
		expired = append(expired, tk)
	}

	for id := range t.Entries {
		if !live[id] {
			delete(t.Entries, id)
			t.dirty = true
		}
	}
	return expired
}
