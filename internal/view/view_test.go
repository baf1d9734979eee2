package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func at(y int, m time.Month, d, h int) *time.Time {
	t := time.Date(y, m, d, h, 0, 0, 0, time.UTC)
	return &t
}

func mk(id, title string, status task.Status, prio task.Priority, deadline *time.Time) *task.Task {
	return &task.Task{ID: id, Title: title, Status: status, Priority: prio, Deadline: deadline, Color: task.DefaultColor}
}

func ids(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func fixture() []*task.Task {
	return []*task.Task{
		mk("a", "Write report", task.StatusUpcoming, task.PriorityHigh, at(2025, 6, 20, 9)),
		mk("b", "buy milk", task.StatusCompleted, task.PriorityLow, at(2025, 6, 10, 9)),
		mk("c", "Call mom", task.StatusUpcoming, task.PriorityMedium, at(2025, 6, 1, 9)),
		mk("d", "Archive", task.StatusCanceled, task.PriorityHigh, nil),
		mk("e", "Dentist", task.StatusOverdue, task.PriorityMedium, at(2025, 5, 30, 9)),
	}
}

func TestApplyDefaultsIsPermutation(t *testing.T) {
	in := fixture()
	out := Apply(in, DefaultOptions(), now)
	assert.ElementsMatch(t, ids(in), ids(out))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := fixture()
	before := ids(in)
	_ = Apply(in, Options{Status: All, Priority: All, Sort: TitleDesc}, now)
	assert.Equal(t, before, ids(in))
}

func TestFilterComparesStoredStatus(t *testing.T) {
	// "c" has a lapsed deadline but is stored Upcoming.
	out := Apply(fixture(), Options{Status: StatusFilter(task.StatusOverdue), Priority: All, Sort: DeadlineAsc}, now)
	assert.Equal(t, []string{"e"}, ids(out))

	out = Apply(fixture(), Options{Status: StatusFilter(task.StatusUpcoming), Priority: All, Sort: DeadlineAsc}, now)
	assert.Equal(t, []string{"c", "a"}, ids(out))
}

func TestFilterEffectivePolicy(t *testing.T) {
	opts := Options{Status: StatusFilter(task.StatusOverdue), Priority: All, Sort: DeadlineAsc, Policy: MatchEffective}
	out := Apply(fixture(), opts, now)
	assert.Equal(t, []string{"e", "c"}, ids(out))
}

func TestFilterStatusAndPriorityAreConjunctive(t *testing.T) {
	opts := Options{Status: StatusFilter(task.StatusUpcoming), Priority: PriorityFilter(task.PriorityHigh), Sort: DeadlineAsc}
	out := Apply(fixture(), opts, now)
	assert.Equal(t, []string{"a"}, ids(out))
}

func TestFilterUnknownValuesAreIdentity(t *testing.T) {
	out := Filter(fixture(), Options{Status: "Someday", Priority: "Urgent"}, now)
	assert.Len(t, out, 5)
}

func TestApplyIsIdempotent(t *testing.T) {
	opts := Options{Status: All, Priority: PriorityFilter(task.PriorityMedium), Sort: TitleAsc}
	once := Apply(fixture(), opts, now)
	twice := Apply(once, opts, now)
	assert.Equal(t, ids(once), ids(twice))
}

func TestSortDeadline(t *testing.T) {
	asc := Apply(fixture(), Options{Status: All, Priority: All, Sort: DeadlineAsc}, now)
	assert.Equal(t, []string{"d", "e", "c", "b", "a"}, ids(asc))

	desc := Apply(fixture(), Options{Status: All, Priority: All, Sort: DeadlineDesc}, now)
	assert.Equal(t, []string{"a", "b", "c", "e", "d"}, ids(desc))
}

func TestSortNullDeadlineComesFirst(t *testing.T) {
	tasks := []*task.Task{
		mk("late", "B", task.StatusUpcoming, task.PriorityLow, at(2025, 1, 1, 0)),
		mk("none", "A", task.StatusUpcoming, task.PriorityLow, nil),
	}
	out := Apply(tasks, Options{Status: All, Priority: All, Sort: DeadlineAsc}, now)
	assert.Equal(t, []string{"none", "late"}, ids(out))
}

func TestSortTitleIsCaseInsensitive(t *testing.T) {
	asc := Apply(fixture(), Options{Status: All, Priority: All, Sort: TitleAsc}, now)
	assert.Equal(t, []string{"d", "b", "c", "e", "a"}, ids(asc))

	desc := Apply(fixture(), Options{Status: All, Priority: All, Sort: TitleDesc}, now)
	assert.Equal(t, []string{"a", "e", "c", "b", "d"}, ids(desc))
}

func TestSortIsStable(t *testing.T) {
	same := at(2025, 7, 1, 0)
	tasks := []*task.Task{
		mk("1", "x", task.StatusUpcoming, task.PriorityLow, same),
		mk("2", "x", task.StatusUpcoming, task.PriorityLow, same),
		mk("3", "x", task.StatusUpcoming, task.PriorityLow, same),
	}
	for _, opt := range SortOptions {
		out := Apply(tasks, Options{Status: All, Priority: All, Sort: opt}, now)
		assert.Equal(t, []string{"1", "2", "3"}, ids(out), "sort %s", opt)
	}
}

func TestSortUnknownOptionKeepsOrder(t *testing.T) {
	in := fixture()
	out := Apply(in, Options{Status: All, Priority: All, Sort: "random"}, now)
	assert.Equal(t, ids(in), ids(out))
}

func TestRowsCarryEffectiveStatus(t *testing.T) {
	rows := Rows(fixture(), Options{Status: All, Priority: All, Sort: DeadlineAsc}, now)
	require.Len(t, rows, 5)
	byID := map[string]task.Status{}
	for _, r := range rows {
		byID[r.Task.ID] = r.Effective
	}
	assert.Equal(t, task.StatusOverdue, byID["c"])
	assert.Equal(t, task.StatusUpcoming, byID["a"])
	assert.Equal(t, task.StatusCompleted, byID["b"])
}

func TestParseHelpers(t *testing.T) {
	s, err := ParseStatusFilter("")
	require.NoError(t, err)
	assert.Equal(t, StatusFilter(All), s)

	s, err = ParseStatusFilter("overdue")
	require.NoError(t, err)
	assert.Equal(t, StatusFilter(task.StatusOverdue), s)

	p, err := ParsePriorityFilter("all")
	require.NoError(t, err)
	assert.Equal(t, PriorityFilter(All), p)

	for in, want := range map[string]SortOption{
		"dateAsc":   DeadlineAsc,
		"dateDesc":  DeadlineDesc,
		"alphaAsc":  TitleAsc,
		"alphaDesc": TitleDesc,
		"titledesc": TitleDesc,
	} {
		got, err := ParseSortOption(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err = ParseSortOption("priority")
	assert.True(t, clierr.Is(err, clierr.InvalidSort))

	_, err = ParseOverduePolicy("sometimes")
	assert.True(t, clierr.Is(err, clierr.InvalidInput))
}

func TestNextWraps(t *testing.T) {
	assert.Equal(t, DeadlineDesc, Next(SortOptions, DeadlineAsc))
	assert.Equal(t, DeadlineAsc, Next(SortOptions, TitleDesc))
	assert.Equal(t, StatusFilter(All), Next(StatusFilters(), StatusFilter(task.StatusCanceled)))
}

func TestCalendarMarks(t *testing.T) {
	tasks := fixture()
	tasks[0].Color = "#ff0000"
	tasks = append(tasks, mk("f", "Second", task.StatusUpcoming, task.PriorityLow, at(2025, 6, 20, 18)))

	m := Calendar(tasks, date.New(2025, 6, 1), time.UTC)
	assert.Equal(t, 30, m.Days)
	assert.Equal(t, time.Sunday, m.Weekday())

	mark := m.At(20)
	require.NotNil(t, mark)
	assert.Equal(t, 2, mark.Count)
	assert.Equal(t, []string{"#ff0000", task.DefaultColor}, mark.Colors)

	assert.Nil(t, m.At(2))
	assert.Nil(t, m.At(31))
	assert.Len(t, m.Marks, 3, "May task and undated task are excluded")
}

func TestCalendarUsesLocationForDayKey(t *testing.T) {
	late := time.Date(2025, 6, 30, 23, 30, 0, 0, time.UTC)
	tasks := []*task.Task{mk("x", "x", task.StatusUpcoming, task.PriorityLow, &late)}

	utc := Calendar(tasks, date.New(2025, 6, 1), time.UTC)
	assert.NotNil(t, utc.At(30))

	east := time.FixedZone("UTC+2", 2*60*60)
	shifted := Calendar(tasks, date.New(2025, 6, 1), east)
	assert.Empty(t, shifted.Marks)
	assert.Len(t, TasksOn(tasks, date.New(2025, 7, 1), east), 1)
}

func TestSummarize(t *testing.T) {
	s := Summarize(fixture(), now)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 1, s.Lapsed)

	count := func(list []StatusCount, st task.Status) int {
		for _, c := range list {
			if c.Status == st {
				return c.Count
			}
		}
		return -1
	}
	assert.Equal(t, 2, count(s.Stored, task.StatusUpcoming))
	assert.Equal(t, 1, count(s.Stored, task.StatusOverdue))
	assert.Equal(t, 1, count(s.Effective, task.StatusUpcoming))
	assert.Equal(t, 2, count(s.Effective, task.StatusOverdue))
	assert.Len(t, s.Priorities, 3)
}
