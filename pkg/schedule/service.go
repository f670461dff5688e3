package schedule

import (
	"context"
	"fmt"
)

// Service exposes the scheduling configuration to the rest of the
// application. Readers always get a complete, valid configuration: when
// nothing has been stored yet the built-in defaults are returned.
type Service interface {
	GetConfig(ctx context.Context) (Config, error)
	SetConfig(ctx context.Context, cfg Config) error
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetConfig(ctx context.Context) (Config, error) {
	cfg, err := s.repo.GetConfig(ctx)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load scheduling config: %w", err)
	}
	if cfg == nil {
		return DefaultConfig(), nil
	}
	return *cfg, nil
}

func (s *ServiceImpl) SetConfig(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.repo.StoreConfig(ctx, cfg); err != nil {
		return fmt.Errorf("failed to store scheduling config: %w", err)
	}
	return nil
}
