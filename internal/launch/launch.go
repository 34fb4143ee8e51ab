// Package launch records a launch in history, hands the path to the OS and
// tells the host to exit.
package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"appdeck/internal/app"
)

// ErrEmptyPath is returned when asked to launch a record without a path.
var ErrEmptyPath = errors.New("launch: empty path")

// Recorder is the history write the coordinator needs.
type Recorder interface {
	RecordLaunch(ctx context.Context, path string, ts float64) error
}

// Opener asks the OS to start the application at path. It should return as
// soon as the request has been handed off.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// Terminator tells the host process to exit.
type Terminator interface {
	Terminate()
}

// TerminatorFunc adapts a function to Terminator.
type TerminatorFunc func()

func (f TerminatorFunc) Terminate() { f() }

// NopTerminator keeps the host running. Used by long-lived hosts.
type NopTerminator struct{}

func (NopTerminator) Terminate() {}

// Coordinator runs the launch sequence.
type Coordinator struct {
	history    Recorder
	opener     Opener
	terminator Terminator
	now        func() time.Time
}

// NewCoordinator creates a Coordinator. A nil terminator means NopTerminator.
func NewCoordinator(history Recorder, opener Opener, terminator Terminator) *Coordinator {
	if terminator == nil {
		terminator = NopTerminator{}
	}
	return &Coordinator{
		history:    history,
		opener:     opener,
		terminator: terminator,
		now:        time.Now,
	}
}

// Launch records rec in history, opens it and signals termination, in that
// order. History is written before the open and is kept even if the open
// fails: it records that the app was selected, not that it started. A failed
// history write does not stop the open; it is returned afterwards. Open
// failures are logged and not returned.
func (c *Coordinator) Launch(ctx context.Context, rec app.Record) error {
	if rec.Path == "" {
		return ErrEmptyPath
	}

	var histErr error
	if err := c.history.RecordLaunch(ctx, rec.Path, app.UnixSeconds(c.now())); err != nil {
		slog.Warn("history write failed", "path", rec.Path, "err", err)
		histErr = fmt.Errorf("record launch: %w", err)
	}

	if err := c.opener.Open(ctx, rec.Path); err != nil {
		slog.Warn("open failed", "path", rec.Path, "err", err)
	} else {
		slog.Info("launched", "name", rec.DisplayName, "path", rec.Path)
	}

	c.terminator.Terminate()
	return histErr
}
