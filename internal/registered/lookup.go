// Package registered asks the operating system which applications it knows
// about beyond what a plain directory listing finds.
package registered

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// RootPlaceholder is replaced by the root hint in a command template.
const RootPlaceholder = "{root}"

// Lookup returns absolute paths of registered applications. Empty results and
// errors are both normal; callers treat either as "nothing extra".
type Lookup interface {
	Lookup(ctx context.Context, rootHint string) ([]string, error)
}

// Disabled is a Lookup that never finds anything.
type Disabled struct{}

// Lookup implements Lookup.
func (Disabled) Lookup(context.Context, string) ([]string, error) { return nil, nil }

// CommandLookup runs an external command and reads one path per output line.
type CommandLookup struct {
	argv []string
}

// NewCommandLookup parses a shell-like command template such as
//
//	mdfind -onlyin {root} "kMDItemContentType == 'com.apple.application-bundle'"
func NewCommandLookup(template string) (*CommandLookup, error) {
	argv, err := shlex.Split(template)
	if err != nil {
		return nil, fmt.Errorf("parse registered lookup command: %w", err)
	}
	if len(argv) == 0 {
		return nil, errors.New("registered lookup command is empty")
	}
	return &CommandLookup{argv: argv}, nil
}

// Command returns the argv that Lookup would run for rootHint.
func (l *CommandLookup) Command(rootHint string) []string {
	argv := make([]string, len(l.argv))
	for i, arg := range l.argv {
		argv[i] = strings.ReplaceAll(arg, RootPlaceholder, rootHint)
	}
	return argv
}

// Lookup implements Lookup. The command is killed if ctx ends first.
func (l *CommandLookup) Lookup(ctx context.Context, rootHint string) ([]string, error) {
	argv := l.Command(rootHint)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", argv[0], err)
	}
	return ParseOutput(out), nil
}

// ParseOutput splits command output into absolute paths, skipping blank and
// relative lines.
func ParseOutput(out []byte) []string {
	var paths []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !filepath.IsAbs(line) {
			continue
		}
		paths = append(paths, filepath.Clean(line))
	}
	return paths
}
