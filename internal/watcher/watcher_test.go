package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesMatchingWrites(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	var got atomic.Value

	w, err := New(dir, Prefix("taskflow.db"), func(changed []string) {
		got.Store(changed)
		calls.Add(1)
	})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	for i := range 5 {
		name := "taskflow.db"
		if i%2 == 1 {
			name = "taskflow.db-wal"
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{byte(i)}, 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("x"), 0o600))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(3 * DebounceDelay)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []string{"taskflow.db", "taskflow.db-wal"}, got.Load())
}

func TestPrefix(t *testing.T) {
	m := Prefix("taskflow.db")
	assert.True(t, m("taskflow.db"))
	assert.True(t, m("taskflow.db-shm"))
	assert.False(t, m("session.json"))
	assert.False(t, m("task"))
}
