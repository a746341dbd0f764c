package index

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/transcripter/transcripter/internal/errors"
)

// DefaultLockPath returns the indexing lock file location
// (~/.transcripter/index.lock, temp dir as fallback).
func DefaultLockPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".transcripter", "index.lock")
	}
	return filepath.Join(home, ".transcripter", "index.lock")
}

// acquireLock takes the exclusive indexing lock and returns its release
// function. A held lock means another indexing process is mid-run; the
// exists-then-write sequence must not interleave with it, so we bail out
// instead of waiting. An empty path disables locking.
func acquireLock(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.New(errors.ErrCodeIndexFailed, "creating lock directory", err)
	}

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.New(errors.ErrCodeIndexFailed, "acquiring indexing lock", err).
			WithDetail("path", path)
	}
	if !locked {
		return nil, errors.New(errors.ErrCodeIndexFailed,
			"another indexing run is in progress", nil).WithDetail("path", path)
	}
	return func() { _ = lock.Unlock() }, nil
}
