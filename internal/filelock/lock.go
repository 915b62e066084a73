package filelock

import (
	"fmt"
	"os"
	"path/filepath"
)

// Lock is an advisory exclusive lock on a file path. A Lock is not safe for
// concurrent use; create one per goroutine.
type Lock struct {
	path string
	file *os.File
}

// New returns a Lock on path. The file is created on first Lock.
func New(path string) *Lock {
	return &Lock{path: path}
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Held reports whether this Lock currently holds the lock.
func (l *Lock) Held() bool {
	return l.file != nil
}

// Lock acquires the lock, blocking until it is available.
func (l *Lock) Lock() error {
	if l.file != nil {
		return nil
	}
	f, err := l.open()
	if err != nil {
		return err
	}
	if err := lockFile(f, true); err != nil {
		_ = f.Close()
		return fmt.Errorf("flock: %w", err)
	}
	l.file = f
	return nil
}

// TryLock attempts to acquire the lock without blocking. It returns false
// when another holder has it.
func (l *Lock) TryLock() (bool, error) {
	if l.file != nil {
		return true, nil
	}
	f, err := l.open()
	if err != nil {
		return false, err
	}
	if err := lockFile(f, false); err != nil {
		_ = f.Close()
		if isWouldBlock(err) {
			return false, nil
		}
		return false, fmt.Errorf("flock: %w", err)
	}
	l.file = f
	return true, nil
}

// Unlock releases the lock. Unlocking a Lock that is not held is a no-op.
func (l *Lock) Unlock() error {
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	if err := unlockFile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("funlock: %w", err)
	}
	return f.Close()
}

func (l *Lock) open() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	return f, nil
}
