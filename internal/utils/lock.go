package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrStoreBusy means another process held the store lock for longer than
// the caller was willing to wait.
var ErrStoreBusy = errors.New("local store is locked by another paintsadmin process")

const lockRetryDelay = 100 * time.Millisecond

// StoreLock serialises writers of the local store across processes. The lock
// is a sidecar file next to the sqlite file.
type StoreLock struct {
	flock *flock.Flock
}

func NewStoreLock(storePath string) (*StoreLock, error) {
	path, err := GetAbsStorePath(storePath)
	if err != nil {
		return nil, fmt.Errorf("resolving store path: %w", err)
	}
	return &StoreLock{flock: flock.New(path + ".lock")}, nil
}

// Path is the lock file.
func (l *StoreLock) Path() string { return l.flock.Path() }

// Lock takes the lock, waiting up to wait for the current holder to let go.
// A zero wait fails at once if the lock is held.
func (l *StoreLock) Lock(ctx context.Context, wait time.Duration) error {
	ok, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("locking %s: %w", l.Path(), err)
	}
	if ok {
		return nil
	}
	if wait <= 0 {
		return fmt.Errorf("%w (%s)", ErrStoreBusy, l.Path())
	}

	Log.Warnf("Waiting up to %s for another paintsadmin process to release %s", wait, l.Path())
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	ok, err = l.flock.TryLockContext(ctx, lockRetryDelay)
	switch {
	case ok:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w after %s (%s)", ErrStoreBusy, wait, l.Path())
	case err != nil:
		return fmt.Errorf("locking %s: %w", l.Path(), err)
	}
	return fmt.Errorf("%w (%s)", ErrStoreBusy, l.Path())
}

// Unlock releases the lock. Releasing a lock that is not held is a no-op.
func (l *StoreLock) Unlock() error {
	if !l.flock.Locked() {
		return nil
	}
	if err := l.flock.Unlock(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unlocking %s: %w", l.Path(), err)
	}
	return nil
}

// GetAbsStorePath resolves the store path, defaulting to ~/.config/paintsadmin.
func GetAbsStorePath(storePath string) (string, error) {
	if storePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "paintsadmin", "paintsadmin.sqlite"), nil
	}
	return filepath.Abs(storePath)
}
