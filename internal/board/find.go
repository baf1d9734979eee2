package board

import (
	"context"
	"strings"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// MinPrefix is the shortest ID prefix accepted as a task reference.
const MinPrefix = 4

// resolve finds the owner's task for ref, which is either a full ID or a
// unique ID prefix of at least MinPrefix characters. Tasks of other owners
// are reported as not found.
func (b *Board) resolve(ctx context.Context, ref string) (*task.Task, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return nil, task.ValidateTaskID(ref, "empty reference")
	}

	t, err := b.tasks.Get(ctx, ref)
	switch {
	case err == nil:
		if t.OwnerID != b.owner {
			return nil, task.NotFound(ref)
		}
		return t, nil
	case !clierr.Is(err, clierr.TaskNotFound):
		return nil, err
	}

	if len(ref) < MinPrefix {
		return nil, task.ValidateTaskID(ref, "reference is too short")
	}
	all, err := b.All(ctx)
	if err != nil {
		return nil, err
	}
	return FindByPrefix(all, ref)
}

// FindByPrefix returns the single task whose ID starts with prefix.
func FindByPrefix(tasks []*task.Task, prefix string) (*task.Task, error) {
	var matches []*task.Task
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, task.NotFound(prefix)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return nil, task.ValidateTaskID(prefix, "matches more than one task").
			WithDetails(map[string]any{"input": prefix, "matches": ids})
	}
}

// ParseRefs splits a comma-separated reference list, dropping blanks and
// duplicates.
func ParseRefs(arg string) ([]string, error) {
	parts := strings.Split(arg, ",")
	seen := make(map[string]bool, len(parts))
	refs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		refs = append(refs, p)
	}
	if len(refs) == 0 {
		return nil, clierr.New(clierr.InvalidTaskID, "no task IDs provided")
	}
	return refs, nil
}
