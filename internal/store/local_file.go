package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/natefinch/atomic"
)

var slotKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileLocal stores each slot as a JSON file inside a directory. Writes are
// atomic so a crash never leaves a half-written mirror behind.
type FileLocal struct {
	dir string
	mu  sync.RWMutex
}

// NewFileLocal creates the directory if needed.
func NewFileLocal(dir string) (*FileLocal, error) {
	if dir == "" {
		return nil, errors.New("store: local directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}
	return &FileLocal{dir: dir}, nil
}

// Get reads a slot.
func (f *FileLocal) Get(_ context.Context, key string) ([]byte, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: read slot %s: %w", key, err)
	}
	return data, nil
}

// Put replaces a slot.
func (f *FileLocal) Put(_ context.Context, key string, value []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := atomic.WriteFile(p, bytes.NewReader(value)); err != nil {
		return fmt.Errorf("store: write slot %s: %w", key, err)
	}
	return nil
}

// Delete removes a slot. Missing slots are not an error.
func (f *FileLocal) Delete(_ context.Context, key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: delete slot %s: %w", key, err)
	}
	return nil
}

func (f *FileLocal) path(key string) (string, error) {
	if !slotKeyPattern.MatchString(key) {
		return "", fmt.Errorf("store: invalid slot key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}
