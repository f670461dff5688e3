package schedule

import (
	"context"
	"sync"
)

// StubRepository is an in-memory Repository used by service and handler
// tests.
type StubRepository struct {
	mu     sync.Mutex
	config *Config
}

func NewStubRepository() *StubRepository {
	return &StubRepository{}
}

func (r *StubRepository) GetConfig(ctx context.Context) (*Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.config == nil {
		return nil, nil
	}
	cfg := *r.config
	return &cfg, nil
}

func (r *StubRepository) StoreConfig(ctx context.Context, cfg Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = &cfg
	return nil
}
