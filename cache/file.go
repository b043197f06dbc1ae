package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const fileSuffix = ".json"

// File keeps one file per key. The file's modification time is the store
// time, so entries survive restarts and are shared between processes.
type File struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

func NewFile(dir string, ttl time.Duration) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir %s: %w", dir, err)
	}
	return &File{dir: dir, ttl: ttl, now: time.Now}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+fileSuffix)
}

func (f *File) Get(key string) ([]byte, bool) {
	path := f.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if f.now().Sub(info.ModTime()) >= f.ttl {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put writes to a temp file and renames it so readers never see a partial entry.
func (f *File) Put(key string, value []byte) error {
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create cache temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close cache entry: %w", err)
	}

	now := f.now()
	if err := os.Chtimes(tmpName, now, now); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to stamp cache entry: %w", err)
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Purge removes every entry.
func (f *File) Purge() error {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to list cache dir: %w", err)
	}

	var firstErr error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileSuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(f.dir, e.Name())); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
