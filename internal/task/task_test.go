package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestNewWithoutDeadlineIsUpcoming(t *testing.T) {
	tk, err := New(Draft{Title: "  Buy milk  ", Description: " 2 liters "}, "user-1", now)
	require.NoError(t, err)

	assert.NotEmpty(t, tk.ID)
	assert.Equal(t, "user-1", tk.OwnerID)
	assert.Equal(t, "Buy milk", tk.Title)
	assert.Equal(t, "2 liters", tk.Description)
	assert.Equal(t, StatusUpcoming, tk.Status)
	assert.Equal(t, PriorityMedium, tk.Priority)
	assert.Equal(t, DefaultColor, tk.Color)
	assert.Equal(t, now, tk.CreatedAt)
	assert.Nil(t, tk.Deadline)
}

func TestNewWithPastDeadlineIsOverdue(t *testing.T) {
	past := now.Add(-time.Hour)
	tk, err := New(Draft{Title: "Late", Deadline: &past}, "u", now)
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, tk.Status)

	past = past.Add(48 * time.Hour)
	assert.True(t, tk.Deadline.Before(now), "draft deadline must be copied")
}

func TestNewWithFutureDeadlineIsUpcoming(t *testing.T) {
	future := now.Add(time.Hour)
	tk, err := New(Draft{Title: "Soon", Deadline: &future, Priority: PriorityHigh, Color: "red"}, "u", now)
	require.NoError(t, err)
	assert.Equal(t, StatusUpcoming, tk.Status)
	assert.Equal(t, PriorityHigh, tk.Priority)
	assert.Equal(t, "red", tk.Color)
}

func TestNewRejectsBlankTitle(t *testing.T) {
	_, err := New(Draft{Title: "   "}, "u", now)
	require.Error(t, err)
	assert.True(t, clierr.Is(err, clierr.InvalidTitle))
}

func TestNewRejectsUnknownPriority(t *testing.T) {
	_, err := New(Draft{Title: "x", Priority: "Urgent"}, "u", now)
	require.Error(t, err)
	assert.True(t, clierr.Is(err, clierr.InvalidPriority))
}

func TestEffectiveStatus(t *testing.T) {
	deadline := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		status   Status
		deadline *time.Time
		want     Status
	}{
		{"upcoming past deadline", StatusUpcoming, &deadline, StatusOverdue},
		{"completed past deadline", StatusCompleted, &deadline, StatusCompleted},
		{"canceled past deadline", StatusCanceled, &deadline, StatusCanceled},
		{"stored overdue", StatusOverdue, &deadline, StatusOverdue},
		{"no deadline", StatusUpcoming, nil, StatusUpcoming},
		{"future deadline", StatusUpcoming, ptr(now.Add(time.Hour)), StatusUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := &Task{Status: tt.status, Deadline: tt.deadline}
			assert.Equal(t, tt.want, EffectiveStatus(tk, now))
		})
	}
}

func TestEffectiveStatusDeadlineEqualToNow(t *testing.T) {
	tk := &Task{Status: StatusUpcoming, Deadline: ptr(now)}
	assert.Equal(t, StatusUpcoming, EffectiveStatus(tk, now))
}

func TestTransition(t *testing.T) {
	tests := []struct {
		action  Action
		from    Status
		want    Status
		wantErr bool
	}{
		{ActionComplete, StatusUpcoming, StatusCompleted, false},
		{ActionComplete, StatusOverdue, StatusCompleted, false},
		{ActionComplete, StatusCanceled, StatusCompleted, false},
		{ActionComplete, StatusCompleted, "", true},
		{ActionReopen, StatusCompleted, StatusUpcoming, false},
		{ActionReopen, StatusCanceled, StatusUpcoming, false},
		{ActionReopen, StatusUpcoming, "", true},
		{ActionReopen, StatusOverdue, "", true},
		{ActionCancel, StatusUpcoming, StatusCanceled, false},
		{ActionCancel, StatusOverdue, StatusCanceled, false},
		{ActionCancel, StatusCompleted, StatusCanceled, false},
		{ActionCancel, StatusCanceled, "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.action)+"/"+string(tt.from), func(t *testing.T) {
			got, err := Transition(tt.action, tt.from)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, clierr.Is(err, clierr.StatusConflict))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEveryStatusHasAnOutgoingTransition(t *testing.T) {
	for _, s := range Statuses {
		assert.NotEmpty(t, Available(s), "status %s has no transitions", s)
	}
}

func TestParseStatusAndPriority(t *testing.T) {
	s, err := ParseStatus("completed")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, s)

	p, err := ParsePriority(" HIGH ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParseStatus("done")
	assert.True(t, clierr.Is(err, clierr.InvalidStatus))

	_, err = ParseAction("finish")
	assert.True(t, clierr.Is(err, clierr.InvalidInput))
}

func TestPatch(t *testing.T) {
	tk, err := New(Draft{Title: "Old", Deadline: ptr(now.Add(time.Hour))}, "u", now)
	require.NoError(t, err)

	_, err = Patch{}.Normalize()
	assert.True(t, clierr.Is(err, clierr.NoChanges))

	_, err = Patch{Title: ptr("  ")}.Normalize()
	assert.True(t, clierr.Is(err, clierr.InvalidTitle))

	_, err = Patch{Deadline: ptr(now), ClearDeadline: true}.Normalize()
	assert.True(t, clierr.Is(err, clierr.InvalidInput))

	p, err := Patch{Title: ptr(" New "), ClearDeadline: true, Priority: ptr(PriorityLow), Color: ptr("")}.Normalize()
	require.NoError(t, err)
	p.Apply(tk)

	assert.Equal(t, "New", tk.Title)
	assert.Nil(t, tk.Deadline)
	assert.Equal(t, PriorityLow, tk.Priority)
	assert.Equal(t, DefaultColor, tk.Color)
	assert.Equal(t, StatusUpcoming, tk.Status, "edits never touch status")
}

func TestClone(t *testing.T) {
	tk := &Task{ID: "abcdef0123456789", Deadline: ptr(now)}
	c := tk.Clone()
	*c.Deadline = now.Add(time.Hour)

	assert.Equal(t, now, *tk.Deadline)
	assert.Equal(t, "abcdef01", tk.ShortID())
}
