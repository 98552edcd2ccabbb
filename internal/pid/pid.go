package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"devdash/internal/errors"
)

const pidFile = "devdash.pid"

// Write writes the current process ID to a PID file. Two dashboards
// sharing one session would fight over the terminal, so a live PID in
// the file refuses startup.
func Write() error {
	errFactory := errors.New()
	pid := os.Getpid()
	path := filepath.Join(os.TempDir(), pidFile)

	if _, err := os.Stat(path); err == nil {
		raw, err := os.ReadFile(path)
		if err != nil {
			return errFactory.Wrap(errors.ErrInternal, err)
		}

		oldPid, err := strconv.Atoi(string(raw))
		if err == nil {
			process, err := os.FindProcess(oldPid)
			if err == nil && process.Signal(syscall.Signal(0)) == nil {
				return errFactory.New(errors.ErrAlreadyRunning)
			}
		}
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the PID file.
func Remove() error {
	errFactory := errors.New()
	path := filepath.Join(os.TempDir(), pidFile)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(path); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}
