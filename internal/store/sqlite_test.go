package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func openTemp(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "taskflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTask(t *testing.T, owner, title string, deadline *time.Time, created time.Time) *task.Task {
	t.Helper()
	tk, err := task.New(task.Draft{Title: title, Deadline: deadline}, owner, created)
	require.NoError(t, err)
	return tk
}

func TestSQLiteCRUD(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	deadline := now.Add(24 * time.Hour)
	a := newTask(t, "u1", "First", &deadline, now)
	b := newTask(t, "u1", "Second", nil, now.Add(time.Minute))
	other := newTask(t, "u2", "Not mine", nil, now)
	for _, tk := range []*task.Task{a, b, other} {
		require.NoError(t, s.Create(ctx, tk))
	}

	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)
	require.NotNil(t, got.Deadline)
	assert.True(t, deadline.Equal(*got.Deadline))
	assert.Equal(t, task.DefaultColor, got.Color)
	assert.Equal(t, task.PriorityMedium, got.Priority)

	list, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)

	title := "Renamed"
	done := task.StatusCompleted
	require.NoError(t, s.Update(ctx, a.ID, Fields{Title: &title, ClearDeadline: true, Status: &done}))
	got, err = s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Nil(t, got.Deadline)
	assert.Equal(t, task.StatusCompleted, got.Status)

	require.NoError(t, s.Delete(ctx, b.ID))
	_, err = s.Get(ctx, b.ID)
	assert.True(t, clierr.Is(err, clierr.TaskNotFound))
}

func TestSQLiteListOrdersWithinOneSecond(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	first := newTask(t, "u1", "first", nil, now.Add(120*time.Millisecond))
	second := newTask(t, "u1", "second", nil, now.Add(123*time.Millisecond))
	third := newTask(t, "u1", "third", nil, now.Add(time.Second))
	for _, tk := range []*task.Task{third, second, first} {
		require.NoError(t, s.Create(ctx, tk))
	}

	list, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{list[0].Title, list[1].Title, list[2].Title})
	assert.True(t, first.CreatedAt.Equal(list[0].CreatedAt))
}

func TestParseTimeAcceptsEarlierLayout(t *testing.T) {
	got, err := parseTime("2025-06-01T12:00:00.12Z")
	require.NoError(t, err)
	assert.True(t, now.Add(120*time.Millisecond).Equal(got))

	got, err = parseTime("2025-06-01T12:00:00Z")
	require.NoError(t, err)
	assert.True(t, now.Equal(got))
}

func TestSQLiteMissingTask(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	title := "x"
	err := s.Update(ctx, "nope", Fields{Title: &title})
	assert.True(t, clierr.Is(err, clierr.TaskNotFound))
	assert.Equal(t, "task not found: nope", err.Error())

	err = s.Delete(ctx, "nope")
	assert.True(t, clierr.Is(err, clierr.TaskNotFound))
}

func TestSQLiteUsers(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	u := &User{ID: "id-1", Email: "a@example.com", PasswordHash: "hash", CreatedAt: now}
	require.NoError(t, s.CreateUser(ctx, u))

	err := s.CreateUser(ctx, &User{ID: "id-2", Email: "a@example.com", PasswordHash: "x", CreatedAt: now})
	assert.ErrorIs(t, err, ErrEmailTaken)

	byEmail, err := s.UserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "id-1", byEmail.ID)
	assert.True(t, now.Equal(byEmail.CreatedAt))

	byID, err := s.UserByID(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "hash", byID.PasswordHash)

	_, err = s.UserByEmail(ctx, "b@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "taskflow.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	tk := newTask(t, "u", "Persisted", nil, now)
	require.NoError(t, s.Create(ctx, tk))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persisted", got.Title)
}

func TestSQLiteSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := openTemp(t)

	require.NoError(t, s.Create(ctx, newTask(t, "u1", "Existing", nil, now)))

	sub, err := s.Subscribe(ctx, "u1")
	require.NoError(t, err)
	defer sub.Unsubscribe()

	first := <-sub.C()
	require.NoError(t, first.Err)
	require.Len(t, first.Tasks, 1)

	require.NoError(t, s.Create(ctx, newTask(t, "u1", "Added", nil, now.Add(time.Second))))
	require.NoError(t, s.Create(ctx, newTask(t, "u2", "Elsewhere", nil, now)))

	select {
	case snap := <-sub.C():
		require.NoError(t, snap.Err)
		assert.Len(t, snap.Tasks, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot after create")
	}

	sub.Unsubscribe()
	_, ok := <-sub.C()
	assert.False(t, ok, "channel closes after unsubscribe")
}

func TestSQLiteSubscribeEndsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := openTemp(t)

	sub, err := s.Subscribe(ctx, "u1")
	require.NoError(t, err)
	<-sub.C()

	cancel()
	select {
	case _, ok := <-sub.C():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription still open after cancel")
	}
}

func TestSQLiteGetWithMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := newSQLite(sqlx.NewDb(db, "sqlite"), "")

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM tasks WHERE id = \?`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(taskColumns))

		_, err := s.Get(context.Background(), "missing")
		assert.True(t, clierr.Is(err, clierr.TaskNotFound))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver error is wrapped", func(t *testing.T) {
		boom := errors.New("disk I/O error")
		mock.ExpectQuery(`SELECT .* FROM tasks WHERE id = \?`).
			WithArgs("x").
			WillReturnError(boom)

		_, err := s.Get(context.Background(), "x")
		require.ErrorIs(t, err, boom)
		assert.Equal(t, clierr.InternalError, clierr.CodeOf(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown stored status is rejected", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM tasks WHERE id = \?`).
			WithArgs("t9").
			WillReturnRows(sqlmock.NewRows(taskColumns).
				AddRow("t9", "u1", "Legacy", "", nil, "#3f51b5", "Medium", "Archived", "2025-06-01T12:00:00Z"))

		_, err := s.Get(context.Background(), "t9")
		assert.True(t, clierr.Is(err, clierr.InvalidStatus))
		assert.Contains(t, err.Error(), "task t9")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update rolls back on failure", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT owner_id FROM tasks WHERE id = \?`).
			WithArgs("t1").
			WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("u1"))
		mock.ExpectExec(`UPDATE tasks SET status = \? WHERE id = \?`).
			WithArgs("Completed", "t1").
			WillReturnError(errors.New("locked"))
		mock.ExpectRollback()

		err := s.Update(context.Background(), "t1", StatusFields(task.StatusCompleted))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "updating task")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFieldsApply(t *testing.T) {
	tk := newTask(t, "u", "Old", nil, now)
	assert.True(t, Fields{}.IsEmpty())

	dl := now.Add(time.Hour)
	color := "#ff0000"
	f := Fields{Deadline: &dl, Color: &color}
	f.Apply(tk)
	require.NotNil(t, tk.Deadline)
	assert.Equal(t, dl, *tk.Deadline)
	assert.Equal(t, color, tk.Color)

	Fields{ClearDeadline: true, Deadline: &dl}.Apply(tk)
	assert.Nil(t, tk.Deadline)
}

func TestUpdateMap(t *testing.T) {
	dl := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	m := updateMap(Fields{Deadline: &dl})
	assert.Equal(t, "2025-01-02T02:04:05.000000000Z", m["deadline"])

	m = updateMap(Fields{ClearDeadline: true})
	v, ok := m["deadline"]
	assert.True(t, ok)
	assert.Nil(t, v)
}
