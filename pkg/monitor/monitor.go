// Package monitor watches the service's environment file and reports changes.
//
// Configuration is read once at startup, so a change only produces a
// notification; callers decide whether to log it or restart.
package monitor

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mcp-deployment-service/internal/models"
	"mcp-deployment-service/pkg/logging"
)

// DefaultDebounceDelay collapses bursts of writes from editors into one event
const DefaultDebounceDelay = 500 * time.Millisecond

// EnvFileMonitor reports changes to a single file
type EnvFileMonitor struct {
	watcher       *fsnotify.Watcher
	path          string
	debounceDelay time.Duration
	logger        *logging.StructuredLogger

	mu        sync.Mutex
	callbacks []func(models.FileEvent)
	timer     *time.Timer
	pending   fsnotify.Op
	stopOnce  sync.Once
}

// NewEnvFileMonitor creates a monitor for path. The parent directory is
// watched so that editors which replace the file are still observed.
func NewEnvFileMonitor(path string, logger *logging.StructuredLogger) (*EnvFileMonitor, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &EnvFileMonitor{
		watcher:       watcher,
		path:          absPath,
		debounceDelay: DefaultDebounceDelay,
		logger:        logger,
	}, nil
}

// SetDebounceDelay changes how long events are collected before a callback runs
func (m *EnvFileMonitor) SetDebounceDelay(delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debounceDelay = delay
}

// OnChange registers a callback for debounced change events
func (m *EnvFileMonitor) OnChange(callback func(models.FileEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, callback)
}

// Start begins watching. Events are delivered until Stop is called.
func (m *EnvFileMonitor) Start() error {
	dir := filepath.Dir(m.path)
	if err := m.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	go m.monitorEvents()

	m.logger.WithContext("path", m.path).Info("Started monitoring environment file")
	return nil
}

// Stop ends monitoring. It is safe to call more than once.
func (m *EnvFileMonitor) Stop() error {
	var err error
	m.stopOnce.Do(func() {
		m.mu.Lock()
		if m.timer != nil {
			m.timer.Stop()
		}
		m.mu.Unlock()
		err = m.watcher.Close()
	})
	return err
}

// monitorEvents processes file system events with debouncing
func (m *EnvFileMonitor) monitorEvents() {
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != m.path {
				continue
			}
			m.schedule(event.Op)

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.logger.WithError(err).Warn("File watcher error")
		}
	}
}

func (m *EnvFileMonitor) schedule(op fsnotify.Op) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending |= op
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.debounceDelay, m.flush)
}

// flush converts the collected operations to one FileEvent and calls callbacks
func (m *EnvFileMonitor) flush() {
	m.mu.Lock()
	op := m.pending
	m.pending = 0
	m.timer = nil
	callbacks := append([]func(models.FileEvent){}, m.callbacks...)
	m.mu.Unlock()

	eventType := eventTypeFor(op)
	if eventType == "" {
		return
	}

	start := time.Now()
	event := models.FileEvent{
		Type:      eventType,
		Path:      m.path,
		Timestamp: start,
	}
	for _, callback := range callbacks {
		callback(event)
	}

	m.logger.LogFileSystemEvent(eventType, m.path, map[string]interface{}{
		"processing_time_ms": time.Since(start).Milliseconds(),
	})
}

func eventTypeFor(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		if op.Has(fsnotify.Create) {
			// replaced in place by an editor
			return "modify"
		}
		return "delete"
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "modify"
	default:
		return ""
	}
}
