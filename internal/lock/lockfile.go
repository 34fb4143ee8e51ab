//go:build unix

// Package lock keeps a single interactive launcher session per user.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrHeld is returned when another process holds the lock.
var ErrHeld = errors.New("another appdeck session is running")

// Lock is an exclusive flock(2) on a file holding the owner's PID.
type Lock struct {
	file *os.File
}

// Acquire takes the lock at path without blocking. If another process holds
// it the error wraps ErrHeld and names that process's PID when known.
//
// The lock file is never removed, so every process contends on the same
// inode. Acquire still checks after locking that path names the file it
// locked, and retries if it was replaced in between.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	for range 3 {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open lock file: %w", err)
		}

		if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
			defer f.Close()
			if errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN) {
				if pid := readPID(f); pid > 0 {
					return nil, fmt.Errorf("%w (pid %d)", ErrHeld, pid)
				}
				return nil, ErrHeld
			}
			return nil, fmt.Errorf("flock %s: %w", path, err)
		}

		if !samePath(f, path) {
			f.Close()
			continue
		}

		if err := f.Truncate(0); err != nil {
			f.Close()
			return nil, fmt.Errorf("truncate lock file: %w", err)
		}
		if _, err := f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0); err != nil {
			f.Close()
			return nil, fmt.Errorf("write pid: %w", err)
		}
		return &Lock{file: f}, nil
	}
	return nil, fmt.Errorf("lock file %s keeps changing", path)
}

// samePath reports whether path still names the open file f.
func samePath(f *os.File, path string) bool {
	var held, named unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &held); err != nil {
		return false
	}
	if err := unix.Stat(path, &named); err != nil {
		return false
	}
	return held.Dev == named.Dev && held.Ino == named.Ino
}

// Release clears the recorded PID and drops the lock. The file stays in
// place for the next session. It is safe to call on nil and more than once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.file.Truncate(0)
	unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	err := l.file.Close()
	l.file = nil
	return err
}

// HolderPID returns the PID of the process holding the lock at path, or 0
// when nobody holds it.
func HolderPID(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_SH|unix.LOCK_NB); err == nil {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		return 0
	}
	return readPID(f)
}

func readPID(f *os.File) int {
	buf := make([]byte, 32)
	n, _ := f.ReadAt(buf, 0)
	pid, err := strconv.Atoi(strings.TrimSpace(string(buf[:n])))
	if err != nil {
		return 0
	}
	return pid
}
