// Package pid guards against two monitors running in the same session.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/dpmsctl/internal/errors"
)

const (
	pidFile = "dpmsctl.pid"
)

// Path returns the PID file location.
func Path() string {
	return filepath.Join(os.TempDir(), pidFile)
}

// Write writes the current process ID to the PID file. It fails with
// errors.ErrAlreadyRunning when the file names a live process. A stale or
// unreadable file is overwritten.
func Write() error {
	errFactory := errors.New()
	path := Path()

	if pid, ok := readPID(path); ok && pid != os.Getpid() && alive(pid) {
		return errFactory.WithData(errors.ErrAlreadyRunning, pid)
	}

	err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o600)
	if err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the PID file if it belongs to this process.
func Remove() error {
	path := Path()

	pid, ok := readPID(path)
	if !ok || pid != os.Getpid() {
		return nil
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	return nil
}

func readPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}

	return pid, true
}

// alive probes pid with signal 0. On Windows FindProcess already fails for
// exited processes.
func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	if err := process.Signal(syscall.Signal(0)); err != nil {
		return errors.Is(err, syscall.EPERM)
	}
	return true
}
