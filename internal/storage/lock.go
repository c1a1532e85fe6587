package storage

import (
	"os"
	"sync"
	"syscall"
)

// docLock guards one document file against concurrent writers, including
// writers in other processes. The in-process mutex serializes goroutines; the
// flock on a sidecar .lock file serializes CLI invocations.
type docLock struct {
	path string
	mu   sync.Mutex
	file *os.File
}

func newDocLock(path string) *docLock {
	return &docLock{path: path}
}

// Acquire blocks until the document lock is held.
func (l *docLock) Acquire() error {
	l.mu.Lock()

	f, err := os.OpenFile(l.path+".lock", os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		l.mu.Unlock()
		return err
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		l.mu.Unlock()
		return err
	}

	l.file = f
	return nil
}

// TryAcquire takes the lock only if nobody holds it.
func (l *docLock) TryAcquire() bool {
	if !l.mu.TryLock() {
		return false
	}

	f, err := os.OpenFile(l.path+".lock", os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		l.mu.Unlock()
		return false
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		l.mu.Unlock()
		return false
	}

	l.file = f
	return true
}

// Release drops the lock and removes the sidecar file.
func (l *docLock) Release() {
	if l.file == nil {
		return
	}

	syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	l.file.Close()
	os.Remove(l.path + ".lock")

	l.file = nil
	l.mu.Unlock()
}
