package activity

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndRecent(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "activity.jsonl"))
	fixed := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	l.Record(ActionCreate, "abc", "Buy milk")
	l.Record(ActionComplete, "abc", "Upcoming -> Completed")

	entries, err := l.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionCreate, entries[0].Action)
	assert.Equal(t, "abc", entries[1].TaskID)
	assert.True(t, fixed.Equal(entries[1].Timestamp))
}

func TestTruncatesToNewest(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "activity.jsonl"))
	l.max = 3

	for i := range 5 {
		require.NoError(t, l.Append(Entry{Action: ActionEdit, Detail: fmt.Sprint(i)}))
	}

	entries, err := l.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2", entries[0].Detail)
	assert.Equal(t, "4", entries[2].Detail)
}

func TestRecentSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("not json\n{\"action\":\"delete\",\"detail\":\"x\"}\n"), 0o600))

	entries, err := New(path).Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionDelete, entries[0].Action)
}

func TestMissingFileAndNilLog(t *testing.T) {
	entries, err := New(filepath.Join(t.TempDir(), "none.jsonl")).Recent(5)
	require.NoError(t, err)
	assert.Empty(t, entries)

	var l *Log
	l.Record(ActionCreate, "x", "ignored")
	assert.NoError(t, l.Append(Entry{}))
}
