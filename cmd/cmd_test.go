package cmd

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
	"github.com/twiced-technology-gmbh/taskflow/internal/view"
)

// newFlagCmd parses args against the flags of tmpl after resetting them to
// their defaults. The flags are shared with tmpl.
func newFlagCmd(t *testing.T, tmpl *cobra.Command, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: tmpl.Use}
	c.Flags().AddFlagSet(tmpl.Flags())
	c.Flags().SetNormalizeFunc(normalizeTaskFlags)
	c.Flags().VisitAll(func(f *pflag.Flag) { _ = f.Value.Set(f.DefValue); f.Changed = false })
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestResolveCreateTitle(t *testing.T) {
	c := newFlagCmd(t, createCmd)
	title, err := resolveCreateTitle(c, []string{"Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", title)

	c = newFlagCmd(t, createCmd, "--title", "From flag")
	title, err = resolveCreateTitle(c, nil)
	require.NoError(t, err)
	assert.Equal(t, "From flag", title)

	_, err = resolveCreateTitle(c, []string{"both"})
	assert.True(t, clierr.Is(err, clierr.InvalidInput))

	_, err = resolveCreateTitle(newFlagCmd(t, createCmd), nil)
	assert.True(t, clierr.Is(err, clierr.InvalidTitle))
}

func TestApplyCreateFlags(t *testing.T) {
	loc := time.UTC
	c := newFlagCmd(t, createCmd, "--desc", "notes", "--due", "2025-07-01", "--priority", "high", "--color", " #ff0000 ")

	var d task.Draft
	require.NoError(t, applyCreateFlags(c, &d, loc))
	assert.Equal(t, "notes", d.Description)
	assert.Equal(t, task.PriorityHigh, d.Priority)
	assert.Equal(t, "#ff0000", d.Color)
	require.NotNil(t, d.Deadline)
	assert.Equal(t, time.Date(2025, 7, 1, 23, 59, 0, 0, loc), *d.Deadline)

	c = newFlagCmd(t, createCmd, "--deadline", "tomorrow")
	err := applyCreateFlags(c, &task.Draft{}, loc)
	assert.True(t, clierr.Is(err, clierr.InvalidDate))

	c = newFlagCmd(t, createCmd, "--priority", "urgent")
	err = applyCreateFlags(c, &task.Draft{}, loc)
	assert.True(t, clierr.Is(err, clierr.InvalidPriority))
}

func TestPatchFromFlags(t *testing.T) {
	c := newFlagCmd(t, editCmd, "--title", "New", "--clear-due")
	p, err := patchFromFlags(c, time.UTC)
	require.NoError(t, err)
	require.NotNil(t, p.Title)
	assert.Equal(t, "New", *p.Title)
	assert.True(t, p.ClearDeadline)
	assert.Nil(t, p.Description)

	_, err = patchFromFlags(newFlagCmd(t, editCmd), time.UTC)
	assert.True(t, clierr.Is(err, clierr.NoChanges))

	c = newFlagCmd(t, editCmd, "--deadline", "2025-01-01", "--clear-deadline")
	_, err = patchFromFlags(c, time.UTC)
	assert.True(t, clierr.Is(err, clierr.InvalidInput))

	c = newFlagCmd(t, editCmd, "--description", "")
	p, err = patchFromFlags(c, time.UTC)
	require.NoError(t, err)
	require.NotNil(t, p.Description, "an explicit empty description clears it")
	assert.Empty(t, *p.Description)
}

func TestListOptions(t *testing.T) {
	base := view.DefaultOptions()

	opts, err := listOptions(newFlagCmd(t, listCmd), base)
	require.NoError(t, err)
	assert.Equal(t, base, opts)

	c := newFlagCmd(t, listCmd, "--status", "overdue", "--priority", "low", "--sort", "titleDesc", "--overdue-filter", "effective")
	opts, err = listOptions(c, base)
	require.NoError(t, err)
	assert.Equal(t, view.StatusFilter(task.StatusOverdue), opts.Status)
	assert.Equal(t, view.PriorityFilter(task.PriorityLow), opts.Priority)
	assert.Equal(t, view.TitleDesc, opts.Sort)
	assert.Equal(t, view.MatchEffective, opts.Policy)

	_, err = listOptions(newFlagCmd(t, listCmd, "--sort", "random"), base)
	assert.True(t, clierr.Is(err, clierr.InvalidSort))
}

func TestCalendarTarget(t *testing.T) {
	today := date.New(2025, time.June, 15)

	sel, month, hasDay, err := calendarTarget(newFlagCmd(t, calendarCmd), today)
	require.NoError(t, err)
	assert.False(t, hasDay)
	assert.Equal(t, today, sel)
	assert.Equal(t, date.New(2025, time.June, 1), month)

	sel, month, hasDay, err = calendarTarget(newFlagCmd(t, calendarCmd, "--day", "2025-08-03"), today)
	require.NoError(t, err)
	assert.True(t, hasDay)
	assert.Equal(t, date.New(2025, time.August, 3), sel)
	assert.Equal(t, date.New(2025, time.August, 1), month)

	_, month, _, err = calendarTarget(newFlagCmd(t, calendarCmd, "--month", "2026-02"), today)
	require.NoError(t, err)
	assert.Equal(t, date.New(2026, time.February, 1), month)

	_, _, _, err = calendarTarget(newFlagCmd(t, calendarCmd, "--month", "02/2026"), today)
	assert.True(t, clierr.Is(err, clierr.InvalidDate))
}

func TestConfigAccessors(t *testing.T) {
	accessors := configAccessors()
	for _, key := range allConfigKeys() {
		_, ok := accessors[key]
		assert.True(t, ok, "missing accessor for %s", key)
	}
	assert.Len(t, accessors, len(allConfigKeys()))

	cfg := config.NewDefault()
	require.NoError(t, accessors["defaults.sort"].set(cfg, "title"))
	assert.Equal(t, string(view.TitleAsc), cfg.Defaults.Sort)

	require.NoError(t, accessors["overdue_filter"].set(cfg, "Effective"))
	assert.Equal(t, "effective", cfg.OverdueFilter)

	require.NoError(t, accessors["api.cors_origins"].set(cfg, "http://a, ,http://b"))
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.API.CORSOrigins)

	assert.Error(t, accessors["defaults.priority"].set(cfg, "urgent"))
	assert.False(t, accessors["backend.driver"].writable)

	require.NoError(t, accessors["theme"].set(cfg, "neon"))
	assert.Error(t, cfg.Validate())
}

func TestFormatConfigValue(t *testing.T) {
	assert.Equal(t, "--", formatConfigValue(""))
	assert.Equal(t, "--", formatConfigValue([]string(nil)))
	assert.Equal(t, "a, b", formatConfigValue([]string{"a", "b"}))
	assert.Equal(t, "4", formatConfigValue(4))
}
