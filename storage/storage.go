// Package storage persists store files (inventory snapshot, tag records) as
// JSON, guarded by advisory file locks so a CLI invocation and a running
// watch daemon do not clobber each other's writes.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gofrs/flock"
)

// FileLock coordinates cross-process access to a store file.
type FileLock struct {
	fl   *flock.Flock
	path string
}

// NewFileLock returns a lock rooted at path. The lock file is created on
// first acquisition.
func NewFileLock(path string) *FileLock {
	return &FileLock{fl: flock.New(path), path: path}
}

// Lock blocks until the exclusive lock is held.
func (l *FileLock) Lock() error {
	if err := l.fl.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", l.path, err)
	}
	return nil
}

// RLock blocks until a shared lock is held.
func (l *FileLock) RLock() error {
	if err := l.fl.RLock(); err != nil {
		return fmt.Errorf("locking %s: %w", l.path, err)
	}
	return nil
}

// TryLock attempts the exclusive lock without blocking. It reports whether
// the lock was acquired.
func (l *FileLock) TryLock() (bool, error) {
	ok, err := l.fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("locking %s: %w", l.path, err)
	}
	return ok, nil
}

// Unlock releases the lock.
func (l *FileLock) Unlock() error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("unlocking %s: %w", l.path, err)
	}
	return nil
}

// AtomicWrite replaces the file at path with data via a temp file and rename,
// so readers never observe a partial write. The temp file lives in the target
// directory to keep the rename on one filesystem.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	tmp = nil
	return syncDir(dir)
}

// syncDir flushes the directory entry after a rename so the replacement is
// durable. Windows cannot flush a read-only directory handle, so it is a
// no-op there.
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dir, err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", dir, err)
	}
	return nil
}

// LockAndWrite writes data to path under the exclusive lock at path + ".lock".
func LockAndWrite(path string, data []byte) error {
	lock := NewFileLock(path + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()
	return AtomicWrite(path, data)
}

// LockAndRead reads path under the shared lock at path + ".lock". A missing
// file surfaces as fs.ErrNotExist.
func LockAndRead(path string) ([]byte, error) {
	lock := NewFileLock(path + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, err
	}
	defer lock.Unlock()
	return os.ReadFile(path)
}

// WriteJSON marshals v with two-space indentation and writes it to path under
// the file lock.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return LockAndWrite(path, data)
}

// ReadJSON reads path under the file lock and unmarshals it into v. It
// reports false without error when the file does not exist; malformed content
// is an error for the caller to interpret.
func ReadJSON(path string, v any) (bool, error) {
	data, err := LockAndRead(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return true, nil
}
