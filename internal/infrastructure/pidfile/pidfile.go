package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrAlreadyRunning is returned when another live process holds the lock
var ErrAlreadyRunning = errors.New("daemon is already running")

// Lock keeps a single daemon per state directory by recording the owner's
// process id in a file
type Lock struct {
	path string
	pid  int
}

// New creates a lock backed by the file at path
func New(path string) *Lock {
	return &Lock{path: path, pid: os.Getpid()}
}

// Path returns the lock file path
func (l *Lock) Path() string {
	return l.path
}

// Owner returns the pid recorded in the lock file and whether that process
// is still alive. A missing or unreadable file has no owner.
func (l *Lock) Owner() (int, bool) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, isAlive(pid)
}

// Acquire takes the lock. A stale file left by a dead process is replaced.
// When another daemon is alive, Acquire fails with ErrAlreadyRunning unless
// force is set, in which case that daemon is terminated first.
func (l *Lock) Acquire(force bool) error {
	if pid, alive := l.Owner(); alive && pid != l.pid {
		if !force {
			return fmt.Errorf("%w (PID %d, lock %s)", ErrAlreadyRunning, pid, l.path)
		}
		if err := terminate(pid, 5*time.Second); err != nil {
			return fmt.Errorf("failed to stop daemon %d: %w", pid, err)
		}
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create lock directory: %w", err)
		}
	}
	if err := os.WriteFile(l.path, []byte(strconv.Itoa(l.pid)+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write lock file: %w", err)
	}
	return nil
}

// Release removes the lock file if this process still owns it
func (l *Lock) Release() error {
	if pid, _ := l.Owner(); pid != 0 && pid != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// terminate sends SIGTERM and waits up to grace before escalating to SIGKILL
func terminate(pid int, grace time.Duration) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}

	deadline := time.Now().Add(grace)
	for time.Now().Before(deadline) {
		if !isAlive(pid) {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	if err := process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// isAlive probes pid with signal 0. EPERM means the process exists under
// another user.
func isAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}
