//go:build !unix

package store

// Lock is a no-op on platforms without flock(2); single-instance
// enforcement is only provided on unix.
type Lock struct{}

func AcquireLock(path string) (*Lock, error) { return &Lock{}, nil }

func (l *Lock) Release() error { return nil }
