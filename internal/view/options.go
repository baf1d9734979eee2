// Package view derives what the user sees from a task snapshot: the
// filtered and sorted list, the calendar marks, and the status summary.
// Every function here is pure; none of them mutates its input.
package view

import (
	"strings"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// All selects every value of a filter.
const All = "All"

// StatusFilter is All or one of the task statuses.
type StatusFilter string

// PriorityFilter is All or one of the task priorities.
type PriorityFilter string

// SortOption selects the list order.
type SortOption string

// Sort options.
const (
	DeadlineAsc  SortOption = "deadlineAsc"
	DeadlineDesc SortOption = "deadlineDesc"
	TitleAsc     SortOption = "titleAsc"
	TitleDesc    SortOption = "titleDesc"
)

// SortOptions lists every sort option in menu order.
var SortOptions = []SortOption{DeadlineAsc, DeadlineDesc, TitleAsc, TitleDesc}

// sortAliases maps the names used by earlier clients onto sort options.
var sortAliases = map[string]SortOption{
	"dateasc":   DeadlineAsc,
	"datedesc":  DeadlineDesc,
	"alphaasc":  TitleAsc,
	"alphadesc": TitleDesc,
	"deadline":  DeadlineAsc,
	"title":     TitleAsc,
}

// OverduePolicy decides which status the status filter compares against.
type OverduePolicy string

// Overdue policies.
const (
	// MatchStored compares the stored status, so an Upcoming task whose
	// deadline has lapsed does not match an Overdue filter.
	MatchStored OverduePolicy = "stored"
	// MatchEffective compares the effective status.
	MatchEffective OverduePolicy = "effective"
)

// Options is the user's current list selection.
type Options struct {
	Status   StatusFilter
	Priority PriorityFilter
	Sort     SortOption
	Policy   OverduePolicy
	// Collation is a BCP 47 language tag for title ordering. Empty means "en".
	Collation string
}

// DefaultOptions returns the selection a fresh session starts with.
func DefaultOptions() Options {
	return Options{
		Status:   All,
		Priority: All,
		Sort:     DeadlineAsc,
		Policy:   MatchStored,
	}
}

// StatusFilters lists every status filter value in menu order.
func StatusFilters() []StatusFilter {
	out := []StatusFilter{All}
	for _, s := range task.Statuses {
		out = append(out, StatusFilter(s))
	}
	return out
}

// PriorityFilters lists every priority filter value in menu order.
func PriorityFilters() []PriorityFilter {
	out := []PriorityFilter{All}
	for _, p := range task.Priorities {
		out = append(out, PriorityFilter(p))
	}
	return out
}

// ParseStatusFilter resolves user input into a status filter.
func ParseStatusFilter(s string) (StatusFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, All) {
		return All, nil
	}
	st, err := task.ParseStatus(s)
	if err != nil {
		return "", err
	}
	return StatusFilter(st), nil
}

// ParsePriorityFilter resolves user input into a priority filter.
func ParsePriorityFilter(s string) (PriorityFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, All) {
		return All, nil
	}
	p, err := task.ParsePriority(s)
	if err != nil {
		return "", err
	}
	return PriorityFilter(p), nil
}

// ParseSortOption resolves user input into a sort option.
func ParseSortOption(s string) (SortOption, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, o := range SortOptions {
		if strings.ToLower(string(o)) == key {
			return o, nil
		}
	}
	if o, ok := sortAliases[key]; ok {
		return o, nil
	}
	return "", clierr.Newf(clierr.InvalidSort, "invalid sort option %q", s).
		WithDetails(map[string]any{"sort": s, "allowed": SortOptions})
}

// ParseOverduePolicy resolves user input into an overdue policy.
func ParseOverduePolicy(s string) (OverduePolicy, error) {
	switch OverduePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case MatchStored, "":
		return MatchStored, nil
	case MatchEffective:
		return MatchEffective, nil
	}
	return "", clierr.Newf(clierr.InvalidInput, "invalid overdue filter policy %q (expected stored or effective)", s)
}

// Next returns the value after cur in values, wrapping around. Unknown
// values restart at the first entry.
func Next[T comparable](values []T, cur T) T {
	for i, v := range values {
		if v == cur {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

// Label returns a short human-readable name for the sort option.
func (o SortOption) Label() string {
	switch o {
	case DeadlineAsc:
		return "Deadline ↑"
	case DeadlineDesc:
		return "Deadline ↓"
	case TitleAsc:
		return "A → Z"
	case TitleDesc:
		return "Z → A"
	default:
		return string(o)
	}
}
