package cmd

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/xvierd/purrmodoro/internal/config"
	"github.com/xvierd/purrmodoro/internal/domain"
)

func decodeSettings(t *testing.T, out string) domain.Settings {
	t.Helper()
	var s domain.Settings
	require.NoError(t, json.Unmarshal([]byte(out), &s), out)
	return s
}

func TestSettingsShow_Defaults(t *testing.T) {
	db := setupTestEnv(t)

	out, _, err := executeCmd(rootCmd, "settings", "show", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "25:00")
	assert.Contains(t, out, "05:00")
	assert.Contains(t, out, "15:00")
}

func TestSettingsSet_PersistsAndClamps(t *testing.T) {
	db := setupTestEnv(t)

	out, _, err := executeCmd(rootCmd, "settings", "set", "--work", "50m", "--short", "500ms", "--json", "--db", db)
	require.NoError(t, err)
	saved := decodeSettings(t, out)
	assert.Equal(t, 3000, saved.WorkDuration)
	assert.Equal(t, domain.MinDurationSeconds, saved.ShortBreakDuration, "sub-second values are raised to one second")
	assert.Equal(t, 900, saved.LongBreakDuration, "untouched flags keep their value")

	resetCommands()
	out, _, err = executeCmd(rootCmd, "settings", "show", "--json", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, saved, decodeSettings(t, out))
}

func TestSettingsSet_Errors(t *testing.T) {
	db := setupTestEnv(t)

	_, _, err := executeCmd(rootCmd, "settings", "set", "--db", db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to set")

	resetCommands()
	_, _, err = executeCmd(rootCmd, "settings", "set", "--work=-5m", "--db", db)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidDuration))
}

func TestSettingsReset(t *testing.T) {
	db := setupTestEnv(t)

	_, _, err := executeCmd(rootCmd, "settings", "set", "--long", "1h", "--db", db)
	require.NoError(t, err)

	resetCommands()
	out, _, err := executeCmd(rootCmd, "settings", "reset", "--json", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), decodeSettings(t, out))
}

func TestSettingsEdit_RequiresTerminal(t *testing.T) {
	db := setupTestEnv(t)
	isInteractive = func() bool { return false }

	_, _, err := executeCmd(rootCmd, "settings", "edit", "--db", db)
	assert.ErrorIs(t, err, errNotInteractive)
}

func TestSettingsFields(t *testing.T) {
	f := newSettingsFields(domain.Settings{WorkDuration: 1505, ShortBreakDuration: 300, LongBreakDuration: 59})
	assert.Equal(t, [3]string{"25", "5", "0"}, f.minutes)
	assert.Equal(t, [3]string{"5", "0", "59"}, f.seconds)

	got, err := f.settings()
	require.NoError(t, err)
	assert.Equal(t, 1505, got.WorkDuration)
	assert.Equal(t, 59, got.LongBreakDuration)

	f.minutes[1] = ""
	f.seconds[1] = " "
	got, err = f.settings()
	require.NoError(t, err)
	assert.Equal(t, 0, got.ShortBreakDuration, "blank fields count as zero")

	f.seconds[0] = "60"
	_, err = f.settings()
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	f.seconds[0] = "abc"
	_, err = f.settings()
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
}

func TestSettingsValidators(t *testing.T) {
	assert.NoError(t, validateMinutes(""))
	assert.NoError(t, validateMinutes("120"))
	assert.Error(t, validateMinutes("-1"))
	assert.Error(t, validateMinutes("x"))

	assert.NoError(t, validateSeconds("0"))
	assert.NoError(t, validateSeconds("59"))
	assert.Error(t, validateSeconds("60"))
	assert.Error(t, validateSeconds("-1"))
}

func sampleCompletions() []*domain.Completion {
	now := time.Now()
	work := domain.NewCompletion(domain.ModeWork, 1500, now.Add(-2*time.Hour))
	work.SetGitContext("main", "abcdef1234567890")
	short := domain.NewCompletion(domain.ModeShortBreak, 300, now.Add(-90*time.Minute))
	old := domain.NewCompletion(domain.ModeWork, 1500, now.AddDate(0, 0, -20))
	return []*domain.Completion{work, short, old}
}

func TestHistory_JSON(t *testing.T) {
	db := setupTestEnv(t)
	seedCompletions(t, db, sampleCompletions()...)

	out, _, err := executeCmd(rootCmd, "history", "--json", "--db", db)
	require.NoError(t, err)

	var records []completionRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2, "the default period is the last week")
	assert.Equal(t, "SHORT_BREAK", records[0].Mode, "newest first")
	assert.Equal(t, "main", records[1].GitBranch)
	assert.NotContains(t, out, `"git_branch": ""`)
}

func TestHistory_Text(t *testing.T) {
	db := setupTestEnv(t)
	seedCompletions(t, db, sampleCompletions()...)

	out, _, err := executeCmd(rootCmd, "history", "--period", "all", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "main@abcdef1")
	assert.Contains(t, out, "2 focus sessions · 1 breaks · 50m focused")
}

func TestHistory_EmptyAndBadPeriod(t *testing.T) {
	db := setupTestEnv(t)

	out, _, err := executeCmd(rootCmd, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing yet")

	resetCommands()
	_, _, err = executeCmd(rootCmd, "history", "--period", "fortnight", "--db", db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown period")
}

func TestExport_Formats(t *testing.T) {
	db := setupTestEnv(t)
	seedCompletions(t, db, sampleCompletions()...)

	out, _, err := executeCmd(rootCmd, "export", "--format", "csv", "--db", db)
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"completed_at", "mode", "duration_seconds", "git_branch", "git_commit"}, rows[0])

	resetCommands()
	out, _, err = executeCmd(rootCmd, "export", "--format", "yaml", "--period", "all", "--db", db)
	require.NoError(t, err)
	var doc struct {
		Completions []completionRecord `yaml:"completions"`
		Summary     summary            `yaml:"summary"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc.Completions, 3)
	assert.Equal(t, summary{WorkSessions: 2, BreaksTaken: 1, FocusedSeconds: 3000}, doc.Summary)

	resetCommands()
	out, _, err = executeCmd(rootCmd, "export", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "# PurrModoro Export")
	assert.Contains(t, out, "Focus Time")
	assert.Contains(t, out, "on `main`")

	resetCommands()
	_, _, err = executeCmd(rootCmd, "export", "--format", "pdf", "--db", db)
	assert.Error(t, err)
}

func TestWisdom_DisabledUsesFallback(t *testing.T) {
	db := setupTestEnv(t)

	out, _, err := executeCmd(rootCmd, "wisdom", "--mode", "short", "--json", "--db", db)
	require.NoError(t, err)

	var quote domain.Quote
	require.NoError(t, json.Unmarshal([]byte(out), &quote))
	assert.Equal(t, domain.FallbackQuote(), quote)

	resetCommands()
	_, _, err = executeCmd(rootCmd, "wisdom", "--mode", "zzzz", "--db", db)
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}

func TestStats_Dashboard(t *testing.T) {
	db := setupTestEnv(t)
	seedCompletions(t, db, sampleCompletions()...)

	out, _, err := executeCmd(rootCmd, "stats", "--period", "all", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Completions by mode")
	assert.Contains(t, out, "Focused time per day")
	assert.Contains(t, out, "Your most productive hours")
}

func TestBuildDashboard(t *testing.T) {
	d := buildDashboard("all", sampleCompletions())
	assert.Equal(t, 2, d.totals.WorkSessions)
	assert.Equal(t, 2, d.byMode[domain.ModeWork])
	assert.Equal(t, 1, d.byMode[domain.ModeShortBreak])
	assert.Len(t, d.byDay, 2)
	assert.Less(t, d.byDay[0].day, d.byDay[1].day)
	assert.LessOrEqual(t, len(d.topHour), 3)

	empty := buildDashboard("week", nil)
	assert.Empty(t, empty.byDay)
	assert.Empty(t, empty.topHour)
}

func TestScaleBar(t *testing.T) {
	assert.Equal(t, 0, scaleBar(0, 10))
	assert.Equal(t, 0, scaleBar(5, 0))
	assert.Equal(t, maxBarWidth, scaleBar(10, 10))
	assert.Equal(t, 1, scaleBar(1, 1000), "non-zero values show at least one block")
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "0m", formatHours(0))
	assert.Equal(t, "25m", formatHours(25.0/60))
	assert.Equal(t, "2h", formatHours(2))
	assert.Equal(t, "1h 30m", formatHours(1.5))
}

func TestConfig_ShowAndSet(t *testing.T) {
	db := setupTestEnv(t)

	out, _, err := executeCmd(rootCmd, "config", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "config.toml")
	assert.Contains(t, out, "Cat wisdom:     off")

	resetCommands()
	out, _, err = executeCmd(rootCmd, "config", "set", "sound", "off", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "sound: off")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.False(t, cfg.Notifications.Sound)

	resetCommands()
	_, _, err = executeCmd(rootCmd, "config", "set", "volume", "on", "--db", db)
	assert.Error(t, err)

	resetCommands()
	_, _, err = executeCmd(rootCmd, "config", "set", "sound", "maybe", "--db", db)
	assert.Error(t, err)
}
