package launch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"appdeck/internal/app"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeRecorder struct {
	mu    sync.Mutex
	calls []string
	ts    []float64
	err   error
	log   *[]string
}

func (f *fakeRecorder) RecordLaunch(_ context.Context, path string, ts float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, path)
	f.ts = append(f.ts, ts)
	if f.log != nil {
		*f.log = append(*f.log, "record")
	}
	return f.err
}

type fakeOpener struct {
	paths []string
	err   error
	log   *[]string
}

func (f *fakeOpener) Open(_ context.Context, path string) error {
	f.paths = append(f.paths, path)
	if f.log != nil {
		*f.log = append(*f.log, "open")
	}
	return f.err
}

// --- tests ---

func TestLaunch_Order(t *testing.T) {
	var steps []string
	rec := &fakeRecorder{log: &steps}
	op := &fakeOpener{log: &steps}
	term := TerminatorFunc(func() { steps = append(steps, "terminate") })

	c := NewCoordinator(rec, op, term)
	c.now = func() time.Time { return time.Unix(1700000000, 500_000_000) }

	require.NoError(t, c.Launch(context.Background(), app.NewRecord("/Applications/Safari.app", "Safari", 0)))
	assert.Equal(t, []string{"record", "open", "terminate"}, steps)
	assert.Equal(t, []string{"/Applications/Safari.app"}, rec.calls)
	assert.InDelta(t, 1700000000.5, rec.ts[0], 1e-6)
	assert.Equal(t, []string{"/Applications/Safari.app"}, op.paths)
}

func TestLaunch_OpenFailureKeepsHistory(t *testing.T) {
	rec := &fakeRecorder{}
	op := &fakeOpener{err: errors.New("LSOpen failed")}
	terminated := false

	c := NewCoordinator(rec, op, TerminatorFunc(func() { terminated = true }))
	err := c.Launch(context.Background(), app.NewRecord("/Applications/Broken.app", "Broken", 0))

	assert.NoError(t, err)
	assert.Equal(t, []string{"/Applications/Broken.app"}, rec.calls)
	assert.True(t, terminated)
}

func TestLaunch_HistoryFailureStillOpens(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	op := &fakeOpener{}
	terminated := false

	c := NewCoordinator(rec, op, TerminatorFunc(func() { terminated = true }))
	err := c.Launch(context.Background(), app.NewRecord("/Applications/Mail.app", "Mail", 0))

	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, []string{"/Applications/Mail.app"}, op.paths)
	assert.True(t, terminated)
}

func TestLaunch_EmptyPath(t *testing.T) {
	rec := &fakeRecorder{}
	op := &fakeOpener{}
	c := NewCoordinator(rec, op, nil)

	assert.ErrorIs(t, c.Launch(context.Background(), app.Record{DisplayName: "x"}), ErrEmptyPath)
	assert.Empty(t, rec.calls)
	assert.Empty(t, op.paths)
}

func TestNewCommandOpener(t *testing.T) {
	tests := []struct {
		name     string
		template string
		path     string
		want     []string
	}{
		{"placeholder", "open {path}", "/Applications/My App.app", []string{"open", "/Applications/My App.app"}},
		{"appended", "gio launch", "/usr/share/applications/x.desktop", []string{"gio", "launch", "/usr/share/applications/x.desktop"}},
		{"quoted flags", `open -a "Some Tool" --args {path}`, "/a.app", []string{"open", "-a", "Some Tool", "--args", "/a.app"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := NewCommandOpener(tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.want, o.Command(tt.path))
		})
	}
}

func TestNewCommandOpener_Errors(t *testing.T) {
	_, err := NewCommandOpener("   ")
	assert.Error(t, err)
	_, err = NewCommandOpener(`open "unterminated`)
	assert.Error(t, err)
}

func TestCommandOpener_Open(t *testing.T) {
	out := filepath.Join(t.TempDir(), "opened")
	o, err := NewCommandOpener("sh -c 'echo \"$0\" > " + out + "' {path}")
	require.NoError(t, err)

	require.NoError(t, o.Open(context.Background(), "/Applications/Notes.app"))
	require.Eventually(t, func() bool {
		b, err := os.ReadFile(out)
		return err == nil && string(b) == "/Applications/Notes.app\n"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestCommandOpener_MissingBinary(t *testing.T) {
	o, err := NewCommandOpener("appdeck-no-such-binary {path}")
	require.NoError(t, err)
	assert.Error(t, o.Open(context.Background(), "/a.app"))
}
