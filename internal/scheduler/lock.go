package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	ps "github.com/mitchellh/go-ps"

	"github.com/hsnsag/pillbox/internal/constants"
	"github.com/hsnsag/pillbox/internal/logger"
)

// Lock guards against two watch loops sharing one store: the at-most-one
// popup rule only holds within a single process.
type Lock struct {
	path  string
	token string
}

// AcquireLock claims the watch lockfile in dir. It fails if another live
// process holds it; a lockfile left behind by a dead process is reclaimed.
func AcquireLock(dir string) (*Lock, error) {
	path := filepath.Join(dir, constants.WatchLockfileName)

	if data, err := os.ReadFile(path); err == nil {
		if pid, ok := parseLockfile(string(data)); ok {
			if processAlive(pid) {
				return nil, fmt.Errorf("another watch process is already running (pid %d)", pid)
			}
			logger.Warn("reclaiming stale watch lockfile", "pid", pid)
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}

	l := &Lock{
		path:  path,
		token: uuid.NewString(),
	}
	content := fmt.Sprintf("%d|%s\n", os.Getpid(), l.token)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return l, nil
}

// Release removes the lockfile if this process still owns it.
func (l *Lock) Release() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !strings.Contains(string(data), l.token) {
		// Someone else reclaimed the lock; not ours to remove.
		return nil
	}
	return os.Remove(l.path)
}

func parseLockfile(content string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(content), "|", 2)
	if len(parts) != 2 {
		return 0, false
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

func processAlive(pid int) bool {
	proc, err := ps.FindProcess(pid)
	if err != nil {
		// Cannot inspect the process table; assume alive rather than risk
		// two concurrent watch loops.
		return true
	}
	return proc != nil
}
