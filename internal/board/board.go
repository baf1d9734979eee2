// Package board implements the operations one signed-in user performs on
// their own tasks. It enforces ownership, resolves short task references,
// persists through a store and records every mutation in the activity log.
package board

import (
	"context"
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/activity"
	"github.com/twiced-technology-gmbh/taskflow/internal/store"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
	"github.com/twiced-technology-gmbh/taskflow/internal/view"
)

// Defaults are applied to drafts that leave a field empty.
type Defaults struct {
	Priority task.Priority
	Color    string
}

// Board is the task board of one owner.
type Board struct {
	tasks    store.Tasks
	owner    string
	defaults Defaults
	log      *activity.Log
	now      func() time.Time
}

// New returns the board of owner backed by tasks. log may be nil.
func New(tasks store.Tasks, owner string, defaults Defaults, log *activity.Log) *Board {
	return &Board{tasks: tasks, owner: owner, defaults: defaults, log: log, now: time.Now}
}

// SetNow overrides the clock used for creation times and effective status
// (for testing).
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
}

// Now returns the board's clock reading.
func (b *Board) Now() time.Time {
	return b.now()
}

// All returns every task of the owner in creation order.
func (b *Board) All(ctx context.Context) ([]*task.Task, error) {
	return b.tasks.List(ctx, b.owner)
}

// List loads the owner's tasks and runs them through the view pipeline.
func (b *Board) List(ctx context.Context, opts view.Options) ([]view.Row, error) {
	all, err := b.All(ctx)
	if err != nil {
		return nil, err
	}
	return view.Rows(all, opts, b.now()), nil
}

// Summary counts the owner's tasks.
func (b *Board) Summary(ctx context.Context) (view.Summary, error) {
	all, err := b.All(ctx)
	if err != nil {
		return view.Summary{}, err
	}
	return view.Summarize(all, b.now()), nil
}

// Get resolves ref to one of the owner's tasks.
func (b *Board) Get(ctx context.Context, ref string) (*task.Task, error) {
	return b.resolve(ctx, ref)
}

// Create stores a new task built from d.
func (b *Board) Create(ctx context.Context, d task.Draft) (*task.Task, error) {
	if d.Priority == "" {
		d.Priority = b.defaults.Priority
	}
	if d.Color == "" {
		d.Color = b.defaults.Color
	}
	t, err := task.New(d, b.owner, b.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := b.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	b.log.Record(activity.ActionCreate, t.ID, t.Title)
	return t, nil
}

// Edit applies p to the task ref points at and returns the updated task.
// The stored status is left alone.
func (b *Board) Edit(ctx context.Context, ref string, p task.Patch) (*task.Task, error) {
	p, err := p.Normalize()
	if err != nil {
		return nil, err
	}
	t, err := b.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	fields := store.FieldsFromPatch(p)
	if err := b.tasks.Update(ctx, t.ID, fields); err != nil {
		return nil, err
	}
	fields.Apply(t)
	b.log.Record(activity.ActionEdit, t.ID, t.Title)
	return t, nil
}

// Act performs a status transition on the task ref points at.
func (b *Board) Act(ctx context.Context, ref string, a task.Action) (*task.Task, error) {
	t, err := b.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	to, err := task.Transition(a, t.Status)
	if err != nil {
		return nil, err
	}
	fields := store.StatusFields(to)
	if err := b.tasks.Update(ctx, t.ID, fields); err != nil {
		return nil, err
	}
	from := t.Status
	fields.Apply(t)
	b.log.Record(actionName(a), t.ID, string(from)+" -> "+string(to))
	return t, nil
}

// Delete removes the task ref points at and returns it.
func (b *Board) Delete(ctx context.Context, ref string) (*task.Task, error) {
	t, err := b.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := b.tasks.Delete(ctx, t.ID); err != nil {
		return nil, err
	}
	b.log.Record(activity.ActionDelete, t.ID, t.Title)
	return t, nil
}

// Subscribe streams snapshots of the owner's tasks.
func (b *Board) Subscribe(ctx context.Context) (*store.Subscription, error) {
	return b.tasks.Subscribe(ctx, b.owner)
}

func actionName(a task.Action) string {
	switch a {
	case task.ActionComplete:
		return activity.ActionComplete
	case task.ActionReopen:
		return activity.ActionReopen
	case task.ActionCancel:
		return activity.ActionCancel
	default:
		return string(a)
	}
}
