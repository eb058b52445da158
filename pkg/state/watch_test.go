package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeKind_String(t *testing.T) {
	assert.Equal(t, "modified", ChangeModified.String())
	assert.Equal(t, "removed", ChangeRemoved.String())
}

func TestWatch_ReportsRemoval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	require.NoError(t, Save(path, Record{MetricID: "m_1"}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	changes := make(chan Change, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, logger, func(c Change) { changes <- c })
	}()

	// Give the watcher a moment to register before touching the file.
	time.Sleep(100 * time.Millisecond)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0600))
	require.NoError(t, os.Remove(path))

	deadline := time.After(3 * time.Second)
	for {
		select {
		case c := <-changes:
			assert.Equal(t, path, c.Path)
			if c.Kind == ChangeRemoved {
				cancel()
				require.NoError(t, <-done)
				for _, entry := range hook.AllEntries() {
					assert.Equal(t, logrus.DebugLevel, entry.Level, "unexpected log: %s", entry.Message)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for removal event")
		}
	}
}

func TestWatch_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, filepath.Join(t.TempDir(), "state.json"), nil, nil)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing", "state.json"), nil, nil)
	assert.Error(t, err)
}
