package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// fileStateRepo persists every key in a single JSON object on disk.
// Writes go to a temporary file in the same directory which is then renamed
// over the original, so readers never observe a half-written file.
type fileStateRepo struct {
	mu   sync.Mutex
	path string
}

// NewFileStateRepo constructs a StateRepo stored at path. The file is created
// on the first Set; a missing file reads as empty.
func NewFileStateRepo(path string) StateRepo {
	return &fileStateRepo{path: path}
}

func (r *fileStateRepo) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.load()
	if err != nil {
		return "", false, fmt.Errorf("repo.StateRepo.Get: %w", err)
	}
	v, ok := values[key]
	return v, ok, nil
}

func (r *fileStateRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.load()
	if err != nil {
		return fmt.Errorf("repo.StateRepo.Set: %w", err)
	}
	values[key] = value

	if err := r.save(values); err != nil {
		return fmt.Errorf("repo.StateRepo.Set: %w", err)
	}
	return nil
}

// load reads the whole file. Callers must hold r.mu.
func (r *fileStateRepo) load() (map[string]string, error) {
	values := make(map[string]string)

	b, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return values, nil
		}
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	if len(b) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(b, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return values, nil
}

// save writes the whole file through a rename. Callers must hold r.mu.
func (r *fileStateRepo) save(values map[string]string) error {
	b, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
