package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/validators"
	"github.com/MKhiriev/go-finance-keeper/internal/vault"
	"github.com/MKhiriev/go-finance-keeper/models"
)

type settingsService struct {
	store     RecordStore
	validator validators.Validator
	logger    *logger.Logger
	now       func() time.Time
}

func NewSettingsService(store RecordStore, validator validators.Validator, logger *logger.Logger) SettingsService {
	return &settingsService{
		store:     store,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// DefaultSettings are returned until the user saves settings of their own.
func DefaultSettings() models.Settings {
	return models.Settings{
		ID:              models.SettingsID,
		Currency:        DefaultCurrency,
		BaseCurrency:    DefaultCurrency,
		Theme:           "system",
		PINLength:       4,
		AutoLockMinutes: 15,
		BudgetAlerts:    true,
	}
}

func (s *settingsService) Get(ctx context.Context) (models.Settings, error) {
	settings, found, err := vault.GetAs[models.Settings](ctx, s.store, models.CollectionSettings, models.SettingsID)
	if err != nil {
		return models.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if !found {
		return DefaultSettings(), nil
	}
	return settings, nil
}

func (s *settingsService) Save(ctx context.Context, settings models.Settings) (models.Settings, error) {
	settings.ID = models.SettingsID
	if err := s.validator.Validate(ctx, settings); err != nil {
		return models.Settings{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	prev, found, err := vault.GetAs[models.Settings](ctx, s.store, models.CollectionSettings, models.SettingsID)
	if err != nil {
		return models.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	ts := timestamp(s.now())
	settings.CreatedAt = ts
	if found {
		settings.CreatedAt = prev.CreatedAt
	}
	settings.UpdatedAt = ts

	if err = s.store.Put(ctx, models.CollectionSettings, settings); err != nil {
		return models.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return settings, nil
}
