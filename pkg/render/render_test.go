package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/taskflow/pkg/manager"
	"github.com/harrisonrobin/taskflow/pkg/task"
	"github.com/harrisonrobin/taskflow/pkg/theme"
)

func TestCountdown(t *testing.T) {
	assert.Equal(t, "", Countdown(nil))
	assert.Equal(t, "Expired", Countdown(&task.Remaining{Expired: true}))
	assert.Equal(t, "2d 3h", Countdown(&task.Remaining{Days: 2, Hours: 3, Minutes: 59}))
}

func TestAll(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	m := manager.New(manager.WithClock(func() time.Time { return now }))

	d, err := task.ParseDate("2024-03-10")
	require.NoError(t, err)
	_, err = m.AddTask("Due soon", &d)
	require.NoError(t, err)
	done, err := m.AddTask("Already done", &d)
	require.NoError(t, err)
	m.ToggleTask(done.ID)
	gone, err := m.AddTask("Thrown away", nil)
	require.NoError(t, err)
	m.RemoveTask(gone.ID)

	var buf bytes.Buffer
	New(&buf, theme.Dark).All(m, now)
	out := buf.String()

	assert.Contains(t, out, "Due soon")
	assert.Contains(t, out, "1d 12h")
	assert.Contains(t, out, "Trash")
	assert.Contains(t, out, "Thrown away")
	assert.Contains(t, out, "total 2 · pending 1 · completed 1 · trash 1")
	assert.Less(t, strings.Index(out, "Due soon"), strings.Index(out, "Already done"))
	assert.Equal(t, 1, strings.Count(out, "1d 12h"), "completed task must not show a countdown")
}

func TestEmptyList(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, theme.Light)
	r.Active(nil, time.Now())
	r.Trash(nil)

	assert.Contains(t, buf.String(), "Your list is empty")
	assert.NotContains(t, buf.String(), "Trash")
}
