// Package store persists tasks and accounts. Two backends implement the
// same interfaces: a local SQLite database and Cloud Firestore.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// Sentinel errors for account lookups. Task lookups return coded
// TASK_NOT_FOUND errors instead.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// Fields is a partial task update. Nil pointers leave the column untouched.
type Fields struct {
	Title         *string
	Description   *string
	Deadline      *time.Time
	ClearDeadline bool
	Color         *string
	Priority      *task.Priority
	Status        *task.Status
}

// FieldsFromPatch converts a normalized edit into store fields.
func FieldsFromPatch(p task.Patch) Fields {
	return Fields{
		Title:         p.Title,
		Description:   p.Description,
		Deadline:      p.Deadline,
		ClearDeadline: p.ClearDeadline,
		Color:         p.Color,
		Priority:      p.Priority,
	}
}

// StatusFields returns fields that only change the status.
func StatusFields(s task.Status) Fields {
	return Fields{Status: &s}
}

// IsEmpty reports whether the update changes nothing.
func (f Fields) IsEmpty() bool {
	return f.Title == nil && f.Description == nil && f.Deadline == nil && !f.ClearDeadline &&
		f.Color == nil && f.Priority == nil && f.Status == nil
}

// Apply copies the set fields onto t.
func (f Fields) Apply(t *task.Task) {
	if f.Title != nil {
		t.Title = *f.Title
	}
	if f.Description != nil {
		t.Description = *f.Description
	}
	if f.ClearDeadline {
		t.Deadline = nil
	} else if f.Deadline != nil {
		d := *f.Deadline
		t.Deadline = &d
	}
	if f.Color != nil {
		t.Color = *f.Color
	}
	if f.Priority != nil {
		t.Priority = *f.Priority
	}
	if f.Status != nil {
		t.Status = *f.Status
	}
}

// Tasks stores task records.
type Tasks interface {
	Create(ctx context.Context, t *task.Task) error
	Get(ctx context.Context, id string) (*task.Task, error)
	// List returns every task owned by ownerID in creation order.
	List(ctx context.Context, ownerID string) ([]*task.Task, error)
	Update(ctx context.Context, id string, f Fields) error
	Delete(ctx context.Context, id string) error
	// Subscribe streams full snapshots of the owner's tasks. The current
	// snapshot is delivered first; each change delivers a replacement.
	Subscribe(ctx context.Context, ownerID string) (*Subscription, error)
}

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Users stores accounts.
type Users interface {
	// CreateUser inserts u, returning ErrEmailTaken when the email exists.
	CreateUser(ctx context.Context, u *User) error
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByID(ctx context.Context, id string) (*User, error)
}

// Store is a full backend.
type Store interface {
	Tasks
	Users
	Close() error
}

// Open connects to the backend selected in cfg.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Backend.Driver {
	case config.DriverSQLite, "":
		return OpenSQLite(cfg.DatabasePath())
	case config.DriverFirestore:
		return OpenFirestore(ctx, cfg.Backend.Firestore)
	default:
		return nil, fmt.Errorf("unknown backend driver %q", cfg.Backend.Driver)
	}
}

// checkStored rejects a stored status or priority this binary does not know.
func checkStored(id, status, priority string) error {
	if err := task.ValidateStatus(status); err != nil {
		return fmt.Errorf("task %s: %w", id, err)
	}
	if err := task.ValidatePriority(priority); err != nil {
		return fmt.Errorf("task %s: %w", id, err)
	}
	return nil
}
