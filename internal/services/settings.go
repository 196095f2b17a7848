package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/facio/facio/internal/models"
	"github.com/facio/facio/internal/store"
	"github.com/goccy/go-json"
)

// SettingsService loads and saves the business configuration.
type SettingsService struct {
	mu      sync.Mutex
	backend store.Backend
}

func NewSettingsService(b store.Backend) *SettingsService {
	return &SettingsService{backend: b}
}

// Load returns the stored settings merged over the defaults: keys present in
// the stored blob win, absent keys keep their default.
func (s *SettingsService) Load(ctx context.Context) models.BusinessConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := models.DefaultBusinessConfig()
	data, err := s.backend.Get(ctx, store.KeyBusinessConfig)
	if errors.Is(err, store.ErrNotFound) {
		return cfg
	}
	if err != nil {
		log.Printf("[settings] read failed, using defaults: %v", err)
		return cfg
	}
	merged := cfg
	if err := json.Unmarshal(data, &merged); err != nil {
		log.Printf("[settings] stored config is corrupt, using defaults: %v", err)
		return cfg
	}
	return merged
}

// Save replaces the stored settings wholesale.
func (s *SettingsService) Save(ctx context.Context, cfg models.BusinessConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%w: encode settings: %w", store.ErrWrite, err)
	}
	if err := s.backend.Set(ctx, store.KeyBusinessConfig, data); err != nil {
		return fmt.Errorf("%w: settings: %w", store.ErrWrite, err)
	}
	return nil
}
