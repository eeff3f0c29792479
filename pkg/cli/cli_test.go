package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/taskflow/pkg/config"
	"github.com/harrisonrobin/taskflow/pkg/manager"
	"github.com/harrisonrobin/taskflow/pkg/snapshot"
	"github.com/harrisonrobin/taskflow/pkg/storage"
	"github.com/harrisonrobin/taskflow/pkg/task"
)

// setupEnv points HOME and the data directory at temp dirs.
// Cannot use t.Parallel() - modifies env vars.
func setupEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dataDir := t.TempDir()
	t.Setenv("TASKFLOW_STORAGE_DIR", dataDir)
	return dataDir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&app{now: time.Now})
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func stored(t *testing.T, dataDir string) *manager.Manager {
	t.Helper()
	s, err := storage.NewFileStore(dataDir)
	require.NoError(t, err)
	defer s.Close()
	m := manager.New()
	require.NoError(t, snapshot.Load(context.Background(), s, m))
	return m
}

func onlyTask(t *testing.T, m *manager.Manager) *task.Task {
	t.Helper()
	tasks := m.GetTasks()
	require.Len(t, tasks, 1)
	return tasks[0]
}

func TestTaskLifecycle(t *testing.T) {
	dataDir := setupEnv(t)

	out, err := run(t, "", "add", "Buy", "milk", "--deadline", "2099-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, `"Buy milk" added`)

	tk := onlyTask(t, stored(t, dataDir))
	assert.Equal(t, "Buy milk", tk.Description)
	assert.Equal(t, "2099-01-01", tk.Deadline.String())

	_, err = run(t, "", "done", tk.ID)
	require.NoError(t, err)
	assert.True(t, onlyTask(t, stored(t, dataDir)).Completed)

	out, err = run(t, "", "rm", tk.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Task moved to the trash")
	m := stored(t, dataDir)
	assert.Len(t, m.GetActiveTasks(), 0)
	assert.Len(t, m.GetDeletedTasks(), 1)

	out, err = run(t, "", "trash")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy milk")

	_, err = run(t, "", "restore", tk.ID)
	require.NoError(t, err)
	assert.Len(t, stored(t, dataDir).GetActiveTasks(), 1)

	_, err = run(t, "n\n", "purge", tk.ID)
	require.NoError(t, err)
	assert.Len(t, stored(t, dataDir).GetTasks(), 1)

	out, err = run(t, "y\n", "purge", tk.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Task deleted permanently")
	assert.Empty(t, stored(t, dataDir).GetTasks())
}

func TestAddValidation(t *testing.T) {
	dataDir := setupEnv(t)

	_, err := run(t, "", "add", "   ")
	assert.ErrorIs(t, err, manager.ErrEmptyDescription)

	_, err = run(t, "", "add", "x", "--deadline", "tomorrow")
	assert.Error(t, err)

	assert.Empty(t, stored(t, dataDir).GetTasks())
}

func TestUnknownIDIsReportedNotFatal(t *testing.T) {
	setupEnv(t)

	for _, cmd := range []string{"done", "rm", "restore", "purge"} {
		out, err := run(t, "", cmd, "nope")
		require.NoError(t, err, cmd)
		assert.Contains(t, out, "No task with id nope", cmd)
	}
}

func TestListAndStats(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "add", "first")
	require.NoError(t, err)
	_, err = run(t, "", "add", "second")
	require.NoError(t, err)

	out, err := run(t, "")
	require.NoError(t, err)
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")

	out, err = run(t, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "total 2 · pending 2 · completed 0 · trash 0")
}

func TestSync(t *testing.T) {
	dataDir := setupEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("_limit"))
		w.Write([]byte(`[{"userId":1,"id":1,"title":"remote one","completed":true}]`))
	}))
	defer srv.Close()
	t.Setenv("TASKFLOW_REMOTE_URL", srv.URL)
	t.Setenv("TASKFLOW_REMOTE_LIMIT", "3")

	_, err := run(t, "", "add", "local")
	require.NoError(t, err)

	out, err := run(t, "", "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "Synced 1 tasks")

	tk := onlyTask(t, stored(t, dataDir))
	assert.Equal(t, "1", tk.ID)
	assert.Equal(t, "remote one", tk.Description)
	assert.True(t, tk.Completed)
}

func TestSyncFailureKeepsTasks(t *testing.T) {
	dataDir := setupEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	t.Setenv("TASKFLOW_REMOTE_URL", srv.URL)

	_, err := run(t, "", "add", "local")
	require.NoError(t, err)

	out, err := run(t, "", "sync")
	require.Error(t, err)
	assert.Contains(t, out, "Could not sync with the remote API")
	assert.Equal(t, "local", onlyTask(t, stored(t, dataDir)).Description)
}

func TestImport(t *testing.T) {
	dataDir := setupEnv(t)
	path := filepath.Join(t.TempDir(), "inbox.org")
	require.NoError(t, os.WriteFile(path, []byte("* TODO Read book\n  DEADLINE: <2099-02-03 Tue>\n* DONE Sleep\n"), 0600))

	out, err := run(t, "", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 tasks")

	m := stored(t, dataDir)
	require.Len(t, m.GetTasks(), 2)
	assert.Equal(t, 1, m.Stats().Completed)
}

func TestTheme(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "", "theme")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	_, err = run(t, "", "theme", "toggle")
	require.NoError(t, err)
	out, err = run(t, "", "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	_, err = run(t, "", "theme", "light")
	require.NoError(t, err)
	out, err = run(t, "", "theme")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	_, err = run(t, "", "theme", "sepia")
	assert.Error(t, err)
}

func TestWatchAnnouncesExpiredOnce(t *testing.T) {
	dataDir := setupEnv(t)

	_, err := run(t, "", "add", "Overdue thing", "--deadline", "2000-01-01")
	require.NoError(t, err)

	out, err := run(t, "", "watch", "--count", "2", "--interval", "1ms")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "Deadline passed: Overdue thing"))
	assert.Contains(t, out, "Expired")

	out, err = run(t, "", "watch", "--count", "1", "--interval", "1ms")
	require.NoError(t, err)
	assert.NotContains(t, out, "Deadline passed")

	assert.Len(t, stored(t, dataDir).GetTasks(), 1)
}

func TestCorruptSnapshotIsSetAside(t *testing.T) {
	dataDir := setupEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, snapshot.TasksKey+".json"), []byte("garbage"), 0600))

	out, err := run(t, "", "add", "fresh start")
	require.NoError(t, err)
	assert.Contains(t, out, "could not be read")

	assert.Equal(t, "fresh start", onlyTask(t, stored(t, dataDir)).Description)
	backup, err := os.ReadFile(filepath.Join(dataDir, snapshot.CorruptKey+".json"))
	require.NoError(t, err)
	assert.Equal(t, "garbage", string(backup))
}

func TestConfigSetCalendar(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := run(t, "", "--config", path, "config", "set-calendar", "Work")
	require.NoError(t, err)
	assert.Contains(t, out, "Default calendar set to: Work")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Work", cfg.Calendar.Name)

	out, err = run(t, "", "--config", path, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "calendar.name    Work")
}

func TestSQLiteBackend(t *testing.T) {
	setupEnv(t)
	t.Setenv("TASKFLOW_STORAGE_BACKEND", "sqlite")

	_, err := run(t, "", "add", "in sqlite")
	require.NoError(t, err)

	out, err := run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "in sqlite")
}
