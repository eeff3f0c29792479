package manager

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/taskflow/pkg/task"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestManager() *Manager {
	n := 0
	return New(
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func ids(tasks []*task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func date(t *testing.T, s string) *task.Date {
	t.Helper()
	d, err := task.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func TestLifecycleScenario(t *testing.T) {
	m := New()

	added, err := m.AddTask("Buy milk", nil)
	require.NoError(t, err)
	assert.Len(t, m.GetActiveTasks(), 1)
	assert.Len(t, m.GetDeletedTasks(), 0)

	m.RemoveTask(added.ID)
	assert.Len(t, m.GetActiveTasks(), 0)
	assert.Len(t, m.GetDeletedTasks(), 1)

	m.RestoreTask(added.ID)
	assert.Len(t, m.GetActiveTasks(), 1)
	assert.Len(t, m.GetDeletedTasks(), 0)

	m.PermanentlyDeleteTask(added.ID)
	assert.Len(t, m.GetTasks(), 0)

	m.RestoreTask(added.ID)
	assert.Len(t, m.GetTasks(), 0)
}

func TestAddTask(t *testing.T) {
	m := newTestManager()

	got, err := m.AddTask("  Write tests  ", date(t, "2024-03-05"))
	require.NoError(t, err)

	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, "Write tests", got.Description)
	assert.False(t, got.Completed)
	assert.False(t, got.Deleted())
	assert.True(t, got.CreatedAt.Equal(fixedNow))
	require.NotNil(t, got.Deadline)
	assert.Equal(t, "2024-03-05", got.Deadline.String())

	found, ok := m.GetTask(got.ID)
	require.True(t, ok)
	if diff := cmp.Diff(got, found); diff != "" {
		t.Errorf("GetTask mismatch (-added +found):\n%s", diff)
	}
}

func TestAddTaskRejectsEmptyDescription(t *testing.T) {
	m := newTestManager()

	for _, desc := range []string{"", "   ", "\t\n"} {
		_, err := m.AddTask(desc, nil)
		assert.ErrorIs(t, err, ErrEmptyDescription)
	}
	assert.Empty(t, m.GetTasks())
}

func TestAddTaskIDsAreUnique(t *testing.T) {
	// Generator repeats itself; the manager must skip ids already taken.
	seq := []string{"a", "a", "b", "a", "b", "c"}
	i := 0
	m := New(WithIDGenerator(func() string {
		id := seq[i]
		i++
		return id
	}))

	for range 3 {
		_, err := m.AddTask("x", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids(m.GetTasks()))
}

func TestDefaultIDsAreUnique(t *testing.T) {
	m := New()
	seen := map[string]bool{}
	for range 200 {
		tk, err := m.AddTask("x", nil)
		require.NoError(t, err)
		if seen[tk.ID] {
			t.Fatalf("Duplicate ID %s", tk.ID)
		}
		seen[tk.ID] = true
	}
}

func TestUnknownIDIsNoop(t *testing.T) {
	m := newTestManager()
	_, err := m.AddTask("keep me", nil)
	require.NoError(t, err)

	m.RemoveTask("missing")
	m.RestoreTask("missing")
	m.PermanentlyDeleteTask("missing")
	assert.False(t, m.ToggleTask("missing"))

	_, ok := m.GetTask("missing")
	assert.False(t, ok)
	assert.Len(t, m.GetActiveTasks(), 1)
}

func TestToggleTask(t *testing.T) {
	m := newTestManager()
	tk, err := m.AddTask("x", nil)
	require.NoError(t, err)

	assert.True(t, m.ToggleTask(tk.ID))
	assert.True(t, tk.Completed)
	assert.True(t, m.ToggleTask(tk.ID))
	assert.False(t, tk.Completed)
}

func TestViewsPartitionCollection(t *testing.T) {
	m := newTestManager()
	for i := range 6 {
		_, err := m.AddTask(fmt.Sprintf("task %d", i), nil)
		require.NoError(t, err)
	}
	m.RemoveTask("id-2")
	m.RemoveTask("id-4")
	m.PermanentlyDeleteTask("id-5")
	m.RestoreTask("id-4")
	m.RemoveTask("id-6")

	all := map[string]bool{}
	for _, id := range ids(m.GetTasks()) {
		all[id] = true
	}
	union := map[string]bool{}
	for _, id := range ids(m.GetActiveTasks()) {
		union[id] = true
	}
	for _, id := range ids(m.GetDeletedTasks()) {
		if union[id] {
			t.Errorf("Task %s is both active and deleted", id)
		}
		union[id] = true
	}
	assert.Equal(t, all, union)
	assert.Equal(t, []string{"id-1", "id-3", "id-4"}, ids(m.GetActiveTasks()))
	assert.Equal(t, []string{"id-2", "id-6"}, ids(m.GetDeletedTasks()))
}

func TestGetTasksReturnsCopy(t *testing.T) {
	m := newTestManager()
	_, err := m.AddTask("x", nil)
	require.NoError(t, err)

	list := m.GetTasks()
	list[0] = nil
	assert.NotNil(t, m.GetTasks()[0])
}

func TestLoadTasksLegacyTitle(t *testing.T) {
	m := newTestManager()
	_, err := m.AddTask("discarded", nil)
	require.NoError(t, err)

	n := m.LoadTasks([]task.Record{{ID: "x", Title: "A", Completed: true}})
	assert.Equal(t, 1, n)

	tasks := m.GetTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "x", tasks[0].ID)
	assert.Equal(t, "A", tasks[0].Description)
	assert.True(t, tasks[0].Completed)
	assert.False(t, tasks[0].Deleted())
	assert.True(t, tasks[0].CreatedAt.Equal(fixedNow))
}

func TestLoadTasksSkipsBlankAndDuplicates(t *testing.T) {
	m := newTestManager()

	n := m.LoadTasks([]task.Record{
		{ID: "a", Description: "first"},
		{ID: "b"},
		{ID: "a", Description: "second"},
		{Description: "no id"},
		{ID: "c", Description: "gone", Deleted: true},
	})
	assert.Equal(t, 3, n)

	tasks := m.GetTasks()
	assert.Equal(t, []string{"a", "id-1", "c"}, ids(tasks))
	assert.Equal(t, "first", tasks[0].Description)
	assert.Equal(t, []string{"c"}, ids(m.GetDeletedTasks()))
}

func TestRecordsRoundTrip(t *testing.T) {
	m := newTestManager()
	a, err := m.AddTask("a", date(t, "2024-04-01"))
	require.NoError(t, err)
	b, err := m.AddTask("b", nil)
	require.NoError(t, err)
	m.ToggleTask(b.ID)
	m.RemoveTask(a.ID)

	other := newTestManager()
	other.LoadTasks(m.Records())

	if diff := cmp.Diff(m.GetTasks(), other.GetTasks()); diff != "" {
		t.Errorf("reloaded collection mismatch (-want +got):\n%s", diff)
	}
}

func TestStats(t *testing.T) {
	m := newTestManager()
	for range 4 {
		_, err := m.AddTask("x", nil)
		require.NoError(t, err)
	}
	m.ToggleTask("id-1")
	m.RemoveTask("id-2")
	m.ToggleTask("id-2")

	assert.Equal(t, Stats{Total: 3, Pending: 2, Completed: 1, Deleted: 1}, m.Stats())
}

func TestDisplayOrder(t *testing.T) {
	mk := func(id string, completed bool, deadline string) *task.Task {
		opts := []task.Option{task.WithID(id), task.WithCompleted(completed)}
		if deadline != "" {
			opts = append(opts, task.WithDeadline(date(t, deadline)))
		}
		return task.New(id, opts...)
	}

	in := []*task.Task{
		mk("done-late", true, "2024-05-01"),
		mk("open-none", false, ""),
		mk("open-late", false, "2024-06-01"),
		mk("done-none", true, ""),
		mk("open-early", false, "2024-01-01"),
		mk("done-early", true, "2024-02-01"),
		mk("open-none-2", false, ""),
	}

	got := ids(DisplayOrder(in))
	want := []string{
		"open-early", "open-late", "open-none", "open-none-2",
		"done-early", "done-late", "done-none",
	}
	assert.Equal(t, want, got)
	assert.Equal(t, "done-late", in[0].ID, "input slice must not be reordered")
}
