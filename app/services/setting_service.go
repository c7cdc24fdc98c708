package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

// Settings is a key to JSON value map.
type Settings map[string]json.RawMessage

const maxSettingKey = 191

type SettingService struct {
	Deps
	store  *repositories.SettingRepository
	system *repositories.SettingRepository
}

func NewSettingService(d Deps) *SettingService {
	return &SettingService{
		Deps:   d,
		store:  repositories.NewStoreSettingRepository(d.DB),
		system: repositories.NewSystemSettingRepository(d.DB),
	}
}

// Store returns the public store settings, cached.
func (s *SettingService) Store(ctx context.Context) (Settings, error) {
	return orm.Remember(ctx, s.Cache, KeyStoreSetting, cacheTTL, func() (Settings, error) {
		return s.store.Map(ctx)
	})
}

func (s *SettingService) System(ctx context.Context) (Settings, error) {
	return s.system.Map(ctx)
}

func (s *SettingService) UpdateStore(ctx context.Context, values Settings) (Settings, error) {
	if err := checkKeys(values); err != nil {
		return nil, err
	}
	if err := s.store.Upsert(ctx, values); err != nil {
		return nil, err
	}
	s.forget(ctx, KeyStoreSetting)
	return s.store.Map(ctx)
}

func (s *SettingService) UpdateSystem(ctx context.Context, values Settings) (Settings, error) {
	if err := checkKeys(values); err != nil {
		return nil, err
	}
	if err := s.system.Upsert(ctx, values); err != nil {
		return nil, err
	}
	return s.system.Map(ctx)
}

func checkKeys(values Settings) error {
	if len(values) == 0 {
		return Invalid("settings", "At least one setting is required.")
	}
	errs := map[string]string{}
	for k := range values {
		if strings.TrimSpace(k) == "" || len(k) > maxSettingKey {
			errs[k] = "The setting key must be between 1 and 191 characters."
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
