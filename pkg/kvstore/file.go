package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// File snapshots all keys into a single JSON file, the on-device storage
// analogue. The whole map is loaded on open and rewritten on every mutation;
// the data set here is a handful of small strings, so that is cheap.
type File struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// OpenFile loads (or creates) a file-backed store at path.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, data: make(map[string]string)}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, err
	}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &f.data); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *File) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return f.flush()
}

func (f *File) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; !ok {
		return nil
	}
	delete(f.data, key)
	return f.flush()
}

// flush writes via a temp file and rename so a crash mid-write cannot leave a
// truncated snapshot. Caller holds the mutex.
func (f *File) flush() error {
	b, err := json.Marshal(f.data)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
