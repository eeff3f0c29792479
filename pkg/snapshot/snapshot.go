// Package snapshot reads and writes the persisted task list and theme.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harrisonrobin/taskflow/pkg/manager"
	"github.com/harrisonrobin/taskflow/pkg/storage"
	"github.com/harrisonrobin/taskflow/pkg/task"
	"github.com/harrisonrobin/taskflow/pkg/theme"
)

const (
	TasksKey   = "taskflow_data"
	ThemeKey   = "taskflow_theme"
	CorruptKey = TasksKey + ".corrupt"
)

// ErrCorrupt is returned by Load when the stored task list cannot be decoded.
// The undecodable bytes are kept under CorruptKey.
var ErrCorrupt = errors.New("stored task list is corrupt")

// Save rewrites the full task list.
func Save(ctx context.Context, s storage.Store, m *manager.Manager) error {
	b, err := json.Marshal(m.Records())
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := s.Set(ctx, TasksKey, b); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}

// Load replaces m's collection with the stored task list. A missing list
// leaves m empty. A corrupt list is moved aside, m is emptied and ErrCorrupt
// is returned.
func Load(ctx context.Context, s storage.Store, m *manager.Manager) error {
	b, err := s.Get(ctx, TasksKey)
	if errors.Is(err, storage.ErrNotFound) {
		m.LoadTasks(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read tasks: %w", err)
	}

	var records []task.Record
	if err := json.Unmarshal(b, &records); err != nil {
		m.LoadTasks(nil)
		if setErr := s.Set(ctx, CorruptKey, b); setErr != nil {
			return fmt.Errorf("%w: %v (backup failed: %v)", ErrCorrupt, err, setErr)
		}
		if delErr := s.Delete(ctx, TasksKey); delErr != nil {
			return fmt.Errorf("%w: %v (cleanup failed: %v)", ErrCorrupt, err, delErr)
		}
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	m.LoadTasks(records)
	return nil
}

// LoadTheme returns the stored theme, light when none or an unknown one is stored.
func LoadTheme(ctx context.Context, s storage.Store) (theme.Name, error) {
	b, err := s.Get(ctx, ThemeKey)
	if errors.Is(err, storage.ErrNotFound) {
		return theme.Light, nil
	}
	if err != nil {
		return theme.Light, fmt.Errorf("failed to read theme: %w", err)
	}
	name, err := theme.Parse(string(b))
	if err != nil {
		return theme.Light, nil
	}
	return name, nil
}

func SaveTheme(ctx context.Context, s storage.Store, name theme.Name) error {
	if err := s.Set(ctx, ThemeKey, []byte(name)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}
