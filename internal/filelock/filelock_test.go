package filelock

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSerializesCallers(t *testing.T) {
	target := filepath.Join(t.TempDir(), "session.json")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := With(target, func() error {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestWithReturnsCallbackError(t *testing.T) {
	target := filepath.Join(t.TempDir(), "x")
	boom := errors.New("boom")
	err := With(target, func() error { return boom })
	require.ErrorIs(t, err, boom)

	// The lock is released even when the callback fails.
	require.NoError(t, With(target, func() error { return nil }))
}

func TestSharedLocksCoexist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.jsonl.lock")

	first, err := Lock(path, Shared)
	require.NoError(t, err)
	defer first() //nolint:errcheck // test cleanup

	acquired := make(chan struct{})
	go func() {
		second, err := Lock(path, Shared)
		if assert.NoError(t, err) {
			_ = second()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second shared lock blocked")
	}
}

func TestExclusiveWaitsForShared(t *testing.T) {
	target := filepath.Join(t.TempDir(), "session.json")

	reading := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- WithShared(target, func() error {
			close(reading)
			<-release
			return nil
		})
	}()
	<-reading

	wrote := make(chan struct{})
	go func() {
		_ = With(target, func() error { return nil })
		close(wrote)
	}()

	select {
	case <-wrote:
		t.Fatal("writer entered while a reader held the lock")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-done)
	select {
	case <-wrote:
	case <-time.After(2 * time.Second):
		t.Fatal("writer never acquired the lock")
	}
}
