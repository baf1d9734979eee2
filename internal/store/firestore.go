package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// Firestore stores tasks and accounts in Cloud Firestore. Subscriptions
// are backed by query snapshot listeners.
type Firestore struct {
	client *firestore.Client
	tasks  string
	users  string
}

type taskDoc struct {
	OwnerID     string     `firestore:"ownerId"`
	Title       string     `firestore:"title"`
	Description string     `firestore:"description"`
	Deadline    *time.Time `firestore:"deadline"`
	Color       string     `firestore:"color"`
	Priority    string     `firestore:"priority"`
	Status      string     `firestore:"status"`
	CreatedAt   time.Time  `firestore:"createdAt"`
}

type userDoc struct {
	Email        string    `firestore:"email"`
	PasswordHash string    `firestore:"passwordHash"`
	CreatedAt    time.Time `firestore:"createdAt"`
}

// OpenFirestore connects through a Firebase app. An empty credentials file
// falls back to application default credentials.
func OpenFirestore(ctx context.Context, cfg config.FirestoreConfig) (*Firestore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting firestore client: %w", err)
	}
	return NewFirestore(client, cfg.Collection, cfg.UsersCollection), nil
}

// NewFirestore wraps an existing client.
func NewFirestore(client *firestore.Client, tasksCollection, usersCollection string) *Firestore {
	if tasksCollection == "" {
		tasksCollection = config.DefaultTasksCollection
	}
	if usersCollection == "" {
		usersCollection = config.DefaultUsersCollection
	}
	return &Firestore{client: client, tasks: tasksCollection, users: usersCollection}
}

// Close closes the client.
func (f *Firestore) Close() error {
	return f.client.Close()
}

// Create stores t under its id.
func (f *Firestore) Create(ctx context.Context, t *task.Task) error {
	_, err := f.client.Collection(f.tasks).Doc(t.ID).Create(ctx, toDoc(t))
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

// Get returns the task with the given id.
func (f *Firestore) Get(ctx context.Context, id string) (*task.Task, error) {
	snap, err := f.client.Collection(f.tasks).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, task.NotFound(id)
		}
		return nil, fmt.Errorf("loading task: %w", err)
	}
	return fromSnapshot(snap)
}

// List returns the owner's tasks in creation order.
func (f *Firestore) List(ctx context.Context, ownerID string) ([]*task.Task, error) {
	docs, err := f.ownerQuery(ownerID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return fromSnapshots(docs)
}

// Update writes the set fields of fields.
func (f *Firestore) Update(ctx context.Context, id string, fields Fields) error {
	updates := firestoreUpdates(fields)
	if len(updates) == 0 {
		return nil
	}
	_, err := f.client.Collection(f.tasks).Doc(id).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return task.NotFound(id)
		}
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

// Delete removes the task with the given id.
func (f *Firestore) Delete(ctx context.Context, id string) error {
	_, err := f.client.Collection(f.tasks).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return task.NotFound(id)
		}
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// Subscribe listens to the owner's tasks. Every listener event delivers
// the full query result.
func (f *Firestore) Subscribe(ctx context.Context, ownerID string) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscription(cancel)

	it := f.ownerQuery(ownerID).Snapshots(ctx)
	first, err := it.Next()
	if err != nil {
		it.Stop()
		cancel()
		return nil, fmt.Errorf("subscribing to tasks: %w", err)
	}
	f.deliverQuery(ctx, sub, first)

	go func() {
		defer it.Stop()
		defer sub.Unsubscribe()
		for {
			qs, err := it.Next()
			if err != nil {
				if ctx.Err() != nil || status.Code(err) == codes.Canceled || errors.Is(err, iterator.Done) {
					return
				}
				sub.deliver(Snapshot{Err: err})
				return
			}
			f.deliverQuery(ctx, sub, qs)
		}
	}()
	return sub, nil
}

func (f *Firestore) deliverQuery(ctx context.Context, sub *Subscription, qs *firestore.QuerySnapshot) {
	docs, err := qs.Documents.GetAll()
	if err != nil {
		if ctx.Err() == nil {
			sub.deliver(Snapshot{Err: err})
		}
		return
	}
	tasks, err := fromSnapshots(docs)
	sub.deliver(Snapshot{Tasks: tasks, Err: err})
}

func (f *Firestore) ownerQuery(ownerID string) firestore.Query {
	return f.client.Collection(f.tasks).Where("ownerId", "==", ownerID).OrderBy("createdAt", firestore.Asc)
}

// CreateUser stores u, checking email uniqueness inside a transaction.
func (f *Firestore) CreateUser(ctx context.Context, u *User) error {
	users := f.client.Collection(f.users)
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(users.Where("email", "==", u.Email).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(docs) > 0 {
			return ErrEmailTaken
		}
		return tx.Create(users.Doc(u.ID), userDoc{Email: u.Email, PasswordHash: u.PasswordHash, CreatedAt: u.CreatedAt})
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return ErrEmailTaken
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// UserByEmail looks up an account by its email.
func (f *Firestore) UserByEmail(ctx context.Context, email string) (*User, error) {
	docs, err := f.client.Collection(f.users).Where("email", "==", email).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrUserNotFound
	}
	return userFromSnapshot(docs[0])
}

// UserByID looks up an account by its id.
func (f *Firestore) UserByID(ctx context.Context, id string) (*User, error) {
	snap, err := f.client.Collection(f.users).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return userFromSnapshot(snap)
}

func firestoreUpdates(f Fields) []firestore.Update {
	var updates []firestore.Update
	if f.Title != nil {
		updates = append(updates, firestore.Update{Path: "title", Value: *f.Title})
	}
	if f.Description != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *f.Description})
	}
	if f.ClearDeadline {
		updates = append(updates, firestore.Update{Path: "deadline", Value: nil})
	} else if f.Deadline != nil {
		updates = append(updates, firestore.Update{Path: "deadline", Value: f.Deadline.UTC()})
	}
	if f.Color != nil {
		updates = append(updates, firestore.Update{Path: "color", Value: *f.Color})
	}
	if f.Priority != nil {
		updates = append(updates, firestore.Update{Path: "priority", Value: string(*f.Priority)})
	}
	if f.Status != nil {
		updates = append(updates, firestore.Update{Path: "status", Value: string(*f.Status)})
	}
	return updates
}

func toDoc(t *task.Task) taskDoc {
	d := taskDoc{
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Color:       t.Color,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.UTC(),
	}
	if t.Deadline != nil {
		dl := t.Deadline.UTC()
		d.Deadline = &dl
	}
	return d
}

func fromSnapshot(snap *firestore.DocumentSnapshot) (*task.Task, error) {
	var d taskDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decoding task %s: %w", snap.Ref.ID, err)
	}
	if err := checkStored(snap.Ref.ID, d.Status, d.Priority); err != nil {
		return nil, err
	}
	return &task.Task{
		ID:          snap.Ref.ID,
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		Description: d.Description,
		Deadline:    d.Deadline,
		Color:       d.Color,
		Priority:    task.Priority(d.Priority),
		Status:      task.Status(d.Status),
		CreatedAt:   d.CreatedAt,
	}, nil
}

// fromSnapshots decodes every document, skipping undecodable ones and
// reporting the first failure alongside the rest.
func fromSnapshots(docs []*firestore.DocumentSnapshot) ([]*task.Task, error) {
	tasks := make([]*task.Task, 0, len(docs))
	var errs []string
	for _, doc := range docs {
		t, err := fromSnapshot(doc)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		tasks = append(tasks, t)
	}
	if len(errs) > 0 {
		return tasks, errors.New(strings.Join(errs, "; "))
	}
	return tasks, nil
}

func userFromSnapshot(snap *firestore.DocumentSnapshot) (*User, error) {
	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}
	return &User{ID: snap.Ref.ID, Email: d.Email, PasswordHash: d.PasswordHash, CreatedAt: d.CreatedAt}, nil
}
