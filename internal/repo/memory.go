package repo

import (
	"context"
	"sync"
)

// memoryStateRepo keeps state in process memory. State is lost on restart.
type memoryStateRepo struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStateRepo constructs an empty in-memory StateRepo.
func NewMemoryStateRepo() StateRepo {
	return &memoryStateRepo{values: make(map[string]string)}
}

func (r *memoryStateRepo) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok, nil
}

func (r *memoryStateRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}
