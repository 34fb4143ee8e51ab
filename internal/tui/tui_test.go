package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"appdeck/internal/app"
	"appdeck/internal/index"
	"appdeck/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeScanner struct {
	cached  []app.Record
	records []app.Record
}

func (f *fakeScanner) Cached(context.Context) []app.Record { return f.cached }

func (f *fakeScanner) Index(_ context.Context, commit index.Commit) ([]app.Record, index.Stats) {
	stats := index.Stats{Candidates: len(f.records), RootsScanned: 1}
	if commit != nil && !commit(f.records) {
		stats.Superseded = true
	}
	return f.records, stats
}

type fakeLauncher struct {
	mu       sync.Mutex
	launched []app.Record
	err      error
}

func (f *fakeLauncher) Launch(_ context.Context, rec app.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.launched = append(f.launched, rec)
	return f.err
}

type fakeRecorder struct{ paths []string }

func (f *fakeRecorder) RecordLaunch(_ context.Context, path string, _ float64) error {
	f.paths = append(f.paths, path)
	return nil
}

type fakeOpener struct{ err error }

func (f fakeOpener) Open(context.Context, string) error { return f.err }

// --- helpers ---

func newTestModel(sc Scanner, l Launcher) Model {
	return New(Config{
		Session:    session.New(),
		Scanner:    sc,
		MaxResults: 10,
		launcher:   l,
	})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func recs(names ...string) []app.Record {
	out := make([]app.Record, len(names))
	for i, n := range names {
		out[i] = app.NewRecord("/Applications/"+n+".app", n, 0)
	}
	return out
}

// --- tests ---

func TestSeedThenScanCompletion(t *testing.T) {
	sc := &fakeScanner{cached: recs("Cached"), records: recs("Fresh")}
	m := newTestModel(sc, &fakeLauncher{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	s := m.config.Session
	gen := s.BeginScan()
	m, _ = update(t, m, seedMsg{records: sc.cached})
	assert.Contains(t, m.View(), "Cached")
	assert.Contains(t, m.View(), "scanning")

	m, _ = update(t, m, runScan(sc, s, gen)())
	view := m.View()
	assert.Contains(t, view, "Fresh")
	assert.NotContains(t, view, "Cached")
	assert.Contains(t, view, "1 apps from 1 roots")
}

func TestStaleScanIgnored(t *testing.T) {
	m := newTestModel(&fakeScanner{}, &fakeLauncher{})
	s := m.config.Session
	old := s.BeginScan()
	latest := s.BeginScan()

	m, _ = update(t, m, runScan(&fakeScanner{records: recs("New")}, s, latest)())
	msg := runScan(&fakeScanner{records: recs("Old", "Older")}, s, old)()
	assert.True(t, msg.(scanDoneMsg).stats.Superseded)
	m, _ = update(t, m, msg)

	view := m.View()
	assert.Contains(t, view, "New")
	assert.NotContains(t, view, "Old")
	assert.Contains(t, view, "1 apps from 1 roots")
}

func TestTypingFiltersAndEnterLaunchesSelection(t *testing.T) {
	l := &fakeLauncher{}
	m := newTestModel(&fakeScanner{}, l)
	s := m.config.Session
	s.Complete(s.BeginScan(), recs("Mail", "Maps", "Safari"))

	m = typeText(t, m, "ma")
	assert.Equal(t, "ma", s.Query())
	view := m.View()
	assert.Contains(t, view, "Mail")
	assert.NotContains(t, view, "Safari")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "launching")

	msg := cmd()
	done, ok := msg.(launchDoneMsg)
	require.True(t, ok)
	assert.NoError(t, done.err)
	require.Len(t, l.launched, 1)
	assert.Equal(t, "Maps", l.launched[0].DisplayName)
}

func TestEnterWithNoResultsDoesNothing(t *testing.T) {
	l := &fakeLauncher{}
	m := newTestModel(&fakeScanner{}, l)
	m = typeText(t, m, "zzz")
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, l.launched)
}

func TestLaunchErrorShownInStatus(t *testing.T) {
	m := newTestModel(&fakeScanner{}, &fakeLauncher{})
	m, _ = update(t, m, launchDoneMsg{err: errors.New("record launch: disk full")})
	assert.Contains(t, m.View(), "disk full")
}

func TestCoordinatorWiredFromConfig(t *testing.T) {
	rec := &fakeRecorder{}
	m := New(Config{Session: session.New(), History: rec, Opener: fakeOpener{err: errors.New("refused")}})
	s := m.config.Session
	s.Complete(s.BeginScan(), recs("Notes"))

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	done := cmd().(launchDoneMsg)
	assert.NoError(t, done.err)
	assert.Equal(t, []string{"/Applications/Notes.app"}, rec.paths)
}

func TestRescanStartsNewGeneration(t *testing.T) {
	sc := &fakeScanner{records: recs("Again")}
	m := newTestModel(sc, &fakeLauncher{})
	s := m.config.Session
	s.Complete(s.BeginScan(), recs("First"))
	before := s.Generation()

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	assert.True(t, s.Scanning())

	m, _ = update(t, m, runScan(sc, s, before+1)())
	assert.False(t, s.Scanning())
	assert.Contains(t, m.View(), "Again")
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(&fakeScanner{}, &fakeLauncher{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.Equal(t, ViewHelp, m.state)
	assert.Contains(t, m.View(), "esc or ? to return")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewPicker, m.state)

	// With a query typed, ? is just a character.
	m = typeText(t, m, "a?")
	assert.Equal(t, ViewPicker, m.state)
	assert.Equal(t, "a?", m.config.Session.Query())
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(&fakeScanner{}, &fakeLauncher{})
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSelectionScrollsIntoView(t *testing.T) {
	m := newTestModel(&fakeScanner{}, &fakeLauncher{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 6})
	s := m.config.Session
	s.Complete(s.BeginScan(), recs("A1", "A2", "A3", "A4", "A5", "A6"))

	for range 5 {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	view := m.View()
	assert.Contains(t, view, "A6")
	assert.NotContains(t, view, "A1")
}

func TestSelectionStaysWithinMaxResults(t *testing.T) {
	l := &fakeLauncher{}
	m := newTestModel(&fakeScanner{}, l)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 40})
	s := m.config.Session

	names := make([]string, 30)
	for i := range names {
		names[i] = fmt.Sprintf("App%02d", i)
	}
	s.Complete(s.BeginScan(), recs(names...))

	for range 15 {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 9, s.SelectedIndex())

	view := m.View()
	assert.Contains(t, view, "▸ App09")
	assert.NotContains(t, view, "App10")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd()
	require.Len(t, l.launched, 1)
	assert.Equal(t, "App09", l.launched[0].DisplayName)
}

func TestNameLine(t *testing.T) {
	line := nameLine("Safari", "never", 20)
	assert.Equal(t, 20, len(line))
	assert.True(t, strings.HasPrefix(line, "Safari"))
	assert.True(t, strings.HasSuffix(line, "never"))

	long := nameLine("A Very Long Application Name Indeed", "2 hours ago", 24)
	assert.Contains(t, long, ellipsis)
	assert.True(t, strings.HasSuffix(long, "2 hours ago"))
}

func TestPathLine(t *testing.T) {
	assert.Equal(t, "/Applications/Mail.app", pathLine("/Applications/Mail.app", 40))
	short := pathLine("/Applications/Utilities/Activity Monitor.app", 20)
	assert.True(t, strings.HasPrefix(short, ellipsis))
	assert.True(t, strings.HasSuffix(short, "Monitor.app"))
	assert.Equal(t, "", pathLine("/x", 0))
}

func TestLastLaunched(t *testing.T) {
	assert.Equal(t, "never", lastLaunched(app.NewRecord("/a.app", "A", 0)))
	ago := app.UnixSeconds(time.Now().Add(-3 * time.Hour))
	assert.Equal(t, "3 hours ago", lastLaunched(app.NewRecord("/a.app", "A", ago)))
}
