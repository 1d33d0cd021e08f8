package monitor

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-deployment-service/internal/models"
)

type eventCollector struct {
	mu     sync.Mutex
	events []models.FileEvent
}

func (c *eventCollector) add(event models.FileEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *eventCollector) snapshot() []models.FileEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.FileEvent{}, c.events...)
}

func newTestMonitor(t *testing.T) (*EnvFileMonitor, string, *eventCollector) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("DEPLOY_API_URL=http://localhost\n"), 0o600))

	m, err := NewEnvFileMonitor(path, nil)
	require.NoError(t, err)
	m.SetDebounceDelay(50 * time.Millisecond)

	collector := &eventCollector{}
	m.OnChange(collector.add)
	t.Cleanup(func() { m.Stop() })
	return m, path, collector
}

func TestStartErrors(t *testing.T) {
	m, err := NewEnvFileMonitor("/non/existent/dir/.env", nil)
	require.NoError(t, err)
	defer m.Stop()

	assert.Error(t, m.Start())
}

func TestStopIsIdempotent(t *testing.T) {
	m, err := NewEnvFileMonitor(".env", nil)
	require.NoError(t, err)

	assert.NoError(t, m.Stop())
	assert.NoError(t, m.Stop())
}

func TestModificationIsDebounced(t *testing.T) {
	m, path, collector := newTestMonitor(t)
	require.NoError(t, m.Start())

	for i := 0; i < 5; i++ {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
		require.NoError(t, err)
		_, err = f.WriteString("DEPLOY_API_TOKEN=x\n")
		require.NoError(t, err)
		f.Close()
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return len(collector.snapshot()) == 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(150 * time.Millisecond)

	events := collector.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "modify", events[0].Type)
	assert.Equal(t, m.path, events[0].Path)
}

func TestOtherFilesAreIgnored(t *testing.T) {
	m, path, collector := newTestMonitor(t)
	require.NoError(t, m.Start())

	other := filepath.Join(filepath.Dir(path), "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))

	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, collector.snapshot())
}

func TestDeletion(t *testing.T) {
	m, path, collector := newTestMonitor(t)
	require.NoError(t, m.Start())

	require.NoError(t, os.Remove(path))

	assert.Eventually(t, func() bool {
		events := collector.snapshot()
		return len(events) == 1 && events[0].Type == "delete"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestEventTypeFor(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want string
	}{
		{fsnotify.Create, "create"},
		{fsnotify.Write, "modify"},
		{fsnotify.Remove, "delete"},
		{fsnotify.Rename, "delete"},
		{fsnotify.Rename | fsnotify.Create, "modify"},
		{fsnotify.Chmod, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, eventTypeFor(tt.op), "op %v", tt.op)
	}
}
