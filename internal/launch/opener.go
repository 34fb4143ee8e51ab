package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/google/shlex"
)

// PathPlaceholder is replaced with the bundle path in an open command.
const PathPlaceholder = "{path}"

// CommandOpener opens applications by running a command template such as
// "open {path}". The command is started and not waited on by the caller.
type CommandOpener struct {
	argv []string
}

// NewCommandOpener parses template with shell quoting rules. A template
// without the placeholder gets the path appended as the last argument.
func NewCommandOpener(template string) (*CommandOpener, error) {
	argv, err := shlex.Split(template)
	if err != nil {
		return nil, fmt.Errorf("parse open command: %w", err)
	}
	if len(argv) == 0 {
		return nil, errors.New("open command is empty")
	}
	if !strings.Contains(template, PathPlaceholder) {
		argv = append(argv, PathPlaceholder)
	}
	return &CommandOpener{argv: argv}, nil
}

// Command returns the argv used to open path.
func (o *CommandOpener) Command(path string) []string {
	out := make([]string, len(o.argv))
	for i, a := range o.argv {
		out[i] = strings.ReplaceAll(a, PathPlaceholder, path)
	}
	return out
}

// Open starts the command and reaps it in the background. It fails only if
// the command cannot be started. The process is not tied to ctx so it
// survives the launcher exiting.
func (o *CommandOpener) Open(_ context.Context, path string) error {
	argv := o.Command(path)
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", argv[0], err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			slog.Warn("open command exited with error", "cmd", argv, "err", err)
		}
	}()
	return nil
}
