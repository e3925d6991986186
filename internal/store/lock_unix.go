//go:build unix

package store

import (
	"fmt"
	"os"
	"syscall"
)

// Lock is an advisory exclusive lock held for an entire tracking
// session, so two flowtrack instances can never interleave saves on the
// same interval log. The OS releases it if the process dies without
// calling Release.
type Lock struct {
	f *os.File
}

// AcquireLock takes a non-blocking exclusive flock on path, failing
// immediately if another process holds it.
func AcquireLock(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("another flowtrack instance is already tracking (lock %s is held)", path)
	}
	return &Lock{f: f}, nil
}

// Release drops the lock. Safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	l.f = nil
	return err
}
