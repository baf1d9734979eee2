package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
	"github.com/twiced-technology-gmbh/taskflow/internal/watcher"
)

// timeLayout is fixed width so the TEXT columns sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite stores tasks and accounts in a local database file. Writes from
// this process notify subscribers directly; writes from other processes
// are noticed by watching the database directory.
type SQLite struct {
	db   *sqlx.DB
	path string

	broker *broker

	mu       sync.Mutex
	watch    *watcher.Watcher
	stopWait context.CancelFunc
}

type taskRow struct {
	ID          string         `db:"id"`
	OwnerID     string         `db:"owner_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Deadline    sql.NullString `db:"deadline"`
	Color       string         `db:"color"`
	Priority    string         `db:"priority"`
	Status      string         `db:"status"`
	CreatedAt   string         `db:"created_at"`
}

type userRow struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    string `db:"created_at"`
}

var taskColumns = []string{"id", "owner_id", "title", "description", "deadline", "color", "priority", "status", "created_at"}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sqlx.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := newSQLite(db, path)
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("preparing schema: %w", err)
	}
	return s, nil
}

func newSQLite(db *sqlx.DB, path string) *SQLite {
	return &SQLite{db: db, path: path, broker: newBroker()}
}

// Close stops the watcher, ends every subscription and closes the database.
func (s *SQLite) Close() error {
	s.mu.Lock()
	if s.stopWait != nil {
		s.stopWait()
	}
	if s.watch != nil {
		_ = s.watch.Close()
		s.watch = nil
	}
	s.mu.Unlock()

	s.broker.closeAll()
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	deadline TEXT DEFAULT NULL,
	status TEXT NOT NULL DEFAULT 'Upcoming',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS tasks_owner ON tasks (owner_id);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureTaskColumns()
}

// ensureTaskColumns adds columns introduced after the first schema.
func (s *SQLite) ensureTaskColumns() error {
	required := map[string]string{
		"color":    `ALTER TABLE tasks ADD COLUMN color TEXT NOT NULL DEFAULT '#3f51b5';`,
		"priority": `ALTER TABLE tasks ADD COLUMN priority TEXT NOT NULL DEFAULT 'Medium';`,
	}

	var cols []struct {
		CID     int            `db:"cid"`
		Name    string         `db:"name"`
		Type    string         `db:"type"`
		NotNull int            `db:"notnull"`
		Default sql.NullString `db:"dflt_value"`
		PK      int            `db:"pk"`
	}
	if err := s.db.Select(&cols, `PRAGMA table_info(tasks);`); err != nil {
		return err
	}
	existing := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		existing[c.Name] = struct{}{}
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts t.
func (s *SQLite) Create(ctx context.Context, t *task.Task) error {
	row := toRow(t)
	query, args, err := sq.Insert("tasks").
		Columns(taskColumns...).
		Values(row.ID, row.OwnerID, row.Title, row.Description, row.Deadline, row.Color, row.Priority, row.Status, row.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	s.changed(ctx, t.OwnerID)
	return nil
}

// Get returns the task with the given id.
func (s *SQLite) Get(ctx context.Context, id string) (*task.Task, error) {
	query, args, err := sq.Select(taskColumns...).From("tasks").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	var row taskRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, task.NotFound(id)
		}
		return nil, fmt.Errorf("loading task: %w", err)
	}
	return row.toTask()
}

// List returns the owner's tasks in creation order.
func (s *SQLite) List(ctx context.Context, ownerID string) ([]*task.Task, error) {
	query, args, err := sq.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	tasks := make([]*task.Task, len(rows))
	for i := range rows {
		t, err := rows[i].toTask()
		if err != nil {
			return nil, err
		}
		tasks[i] = t
	}
	return tasks, nil
}

// Update writes the set fields of f.
func (s *SQLite) Update(ctx context.Context, id string, f Fields) error {
	if f.IsEmpty() {
		return nil
	}
	set := updateMap(f)

	var owner string
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &owner, `SELECT owner_id FROM tasks WHERE id = ?`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return task.NotFound(id)
			}
			return err
		}
		query, args, err := sq.Update("tasks").SetMap(set).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		return wrap("updating task", err)
	}
	s.changed(ctx, owner)
	return nil
}

// Delete removes the task with the given id.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	var owner string
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &owner, `SELECT owner_id FROM tasks WHERE id = ?`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return task.NotFound(id)
			}
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return wrap("deleting task", err)
	}
	s.changed(ctx, owner)
	return nil
}

// Subscribe streams the owner's tasks. The watcher on the database
// directory is started with the first subscription.
func (s *SQLite) Subscribe(ctx context.Context, ownerID string) (*Subscription, error) {
	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("watching database: %w", err)
	}
	sub := s.broker.add(ownerID)

	tasks, err := s.List(ctx, ownerID)
	if err != nil {
		sub.Unsubscribe()
		return nil, err
	}
	sub.deliverInitial(Snapshot{Tasks: tasks})
	unsubscribeOn(ctx, sub)
	return sub, nil
}

// CreateUser inserts an account.
func (s *SQLite) CreateUser(ctx context.Context, u *User) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (:id, :email, :password_hash, :created_at)`,
		userRow{ID: u.ID, Email: u.Email, PasswordHash: u.PasswordHash, CreatedAt: u.CreatedAt.UTC().Format(timeLayout)})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// UserByEmail looks up an account by its email.
func (s *SQLite) UserByEmail(ctx context.Context, email string) (*User, error) {
	return s.user(ctx, sq.Eq{"email": email})
}

// UserByID looks up an account by its id.
func (s *SQLite) UserByID(ctx context.Context, id string) (*User, error) {
	return s.user(ctx, sq.Eq{"id": id})
}

func (s *SQLite) user(ctx context.Context, where sq.Eq) (*User, error) {
	query, args, err := sq.Select("id", "email", "password_hash", "created_at").From("users").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	var row userRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	created, _ := parseTime(row.CreatedAt)
	return &User{ID: row.ID, Email: row.Email, PasswordHash: row.PasswordHash, CreatedAt: created}, nil
}

func (s *SQLite) inTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// changed republishes the owner's snapshot to local subscribers.
func (s *SQLite) changed(ctx context.Context, owner string) {
	if owner == "" || !s.broker.has(owner) {
		return
	}
	tasks, err := s.List(context.WithoutCancel(ctx), owner)
	if err != nil {
		s.broker.publish(owner, Snapshot{Err: err})
		return
	}
	s.broker.publish(owner, Snapshot{Tasks: tasks})
}

// refreshAll republishes every subscribed owner's snapshot.
func (s *SQLite) refreshAll() {
	for _, owner := range s.broker.owners() {
		s.changed(context.Background(), owner)
	}
}

func (s *SQLite) startWatcher() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watch != nil || s.path == "" {
		return nil
	}
	w, err := watcher.New(filepath.Dir(s.path), watcher.Prefix(filepath.Base(s.path)), func([]string) { s.refreshAll() })
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.watch = w
	s.stopWait = cancel
	go w.Run(ctx, nil)
	return nil
}

func updateMap(f Fields) map[string]any {
	set := make(map[string]any)
	if f.Title != nil {
		set["title"] = *f.Title
	}
	if f.Description != nil {
		set["description"] = *f.Description
	}
	if f.ClearDeadline {
		set["deadline"] = nil
	} else if f.Deadline != nil {
		set["deadline"] = f.Deadline.UTC().Format(timeLayout)
	}
	if f.Color != nil {
		set["color"] = *f.Color
	}
	if f.Priority != nil {
		set["priority"] = string(*f.Priority)
	}
	if f.Status != nil {
		set["status"] = string(*f.Status)
	}
	return set
}

func toRow(t *task.Task) taskRow {
	row := taskRow{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Color:       t.Color,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.UTC().Format(timeLayout),
	}
	if t.Deadline != nil {
		row.Deadline = sql.NullString{String: t.Deadline.UTC().Format(timeLayout), Valid: true}
	}
	return row
}

func (r taskRow) toTask() (*task.Task, error) {
	if err := checkStored(r.ID, r.Status, r.Priority); err != nil {
		return nil, err
	}
	t := &task.Task{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		Color:       r.Color,
		Priority:    task.Priority(r.Priority),
		Status:      task.Status(r.Status),
	}
	if r.Deadline.Valid {
		if parsed, err := parseTime(r.Deadline.String); err == nil {
			t.Deadline = &parsed
		}
	}
	if created, err := parseTime(r.CreatedAt); err == nil {
		t.CreatedAt = created
	}
	return t, nil
}

// parseTime reads timeLayout and the variable-width RFC 3339 values
// written by earlier versions.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// wrap adds context to backend failures and passes coded errors through.
func wrap(msg string, err error) error {
	var ce *clierr.Error
	if errors.As(err, &ce) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	u.RawQuery = q.Encode()
	return u.String()
}
