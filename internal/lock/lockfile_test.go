//go:build unix

package lock

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "appdeck.lock")

	l, err := Acquire(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), HolderPID(path))

	require.NoError(t, l.Release())
	assert.FileExists(t, path)
	assert.Equal(t, 0, HolderPID(path))
	require.NoError(t, l.Release())

	l2, err := Acquire(path)
	require.NoError(t, err)
	require.NoError(t, l2.Release())
}

func TestAcquire_Held(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appdeck.lock")

	l, err := Acquire(path)
	require.NoError(t, err)
	defer l.Release()

	_, err = Acquire(path)
	require.ErrorIs(t, err, ErrHeld)
	assert.Contains(t, err.Error(), "pid")
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	assert.NoError(t, l.Release())
}

func TestHolderPID_Missing(t *testing.T) {
	assert.Equal(t, 0, HolderPID(filepath.Join(t.TempDir(), "nope")))
}

func TestReleaseKeepsOneLockFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appdeck.lock")

	l, err := Acquire(path)
	require.NoError(t, err)

	// Another session opened the file while the lock was held.
	waiting, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	defer waiting.Close()

	require.NoError(t, l.Release())

	next, err := Acquire(path)
	require.NoError(t, err)
	defer next.Release()

	// Both opened the same file, so the earlier opener is shut out.
	err = unix.Flock(int(waiting.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	assert.ErrorIs(t, err, unix.EWOULDBLOCK)
}

func TestHolderPID_StaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appdeck.lock")
	require.NoError(t, os.WriteFile(path, []byte("12345\n"), 0o600))
	assert.Equal(t, 0, HolderPID(path))

	l, err := Acquire(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), HolderPID(path))
	require.NoError(t, l.Release())
}
