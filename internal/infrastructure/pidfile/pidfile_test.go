package pidfile

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLock_AcquireAndRelease(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "run", "daemon.pid")
	lock := New(path)

	// Act
	err := lock.Acquire(false)

	// Assert
	require.NoError(t, err)
	pid, alive := lock.Owner()
	assert.Equal(t, os.Getpid(), pid)
	assert.True(t, alive)

	require.NoError(t, lock.Release())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLock_ReplacesStaleFile(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "daemon.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid\n"), 0o644))
	lock := New(path)

	// Act
	err := lock.Acquire(false)

	// Assert
	require.NoError(t, err)
	pid, _ := lock.Owner()
	assert.Equal(t, os.Getpid(), pid)
}

func TestLock_RejectsLiveOwner(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "daemon.pid")
	parent := os.Getppid()
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(parent)+"\n"), 0o644))
	lock := New(path)

	// Act
	err := lock.Acquire(false)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyRunning))
}

func TestLock_ReleaseKeepsForeignLock(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "daemon.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getppid())+"\n"), 0o644))
	lock := New(path)

	// Act
	err := lock.Release()

	// Assert
	require.NoError(t, err)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}
