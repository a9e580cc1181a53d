// Package settings serves the admin-editable key/value settings.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/core-coin/ostiarius/internal/greeting"
	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/pkg/logger"
	"github.com/core-coin/ostiarius/pkg/validation"
)

// ErrInvalidValue wraps every validation failure. The stored value is kept.
var ErrInvalidValue = errors.New("invalid setting value")

// Defaults are inserted on startup for keys that are absent.
var Defaults = map[string]string{
	models.SettingCardNumber:   "0000 0000 0000 0000",
	models.SettingPhoneNumber:  "+7 (000) 000-00-00",
	models.SettingAmount:       "1000",
	models.SettingStartMessage: greeting.DefaultStartMessage,
}

// Snapshot is the full set of values the greeting needs.
type Snapshot struct {
	CardNumber   string
	PhoneNumber  string
	Amount       string
	StartMessage string
}

type Service struct {
	logger *logger.Logger
	repo   models.Repository
}

func NewService(repo models.Repository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Seed inserts defaults for missing keys.
func (s *Service) Seed(ctx context.Context) error {
	return s.repo.SeedSettings(ctx, Defaults)
}

// Get returns the stored value, or the default when the key was never stored.
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	value, err := s.repo.GetSetting(ctx, key)
	if errors.Is(err, models.ErrNotFound) {
		return Defaults[key], nil
	}
	return value, err
}

func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	for key, dst := range map[string]*string{
		models.SettingCardNumber:   &snap.CardNumber,
		models.SettingPhoneNumber:  &snap.PhoneNumber,
		models.SettingAmount:       &snap.Amount,
		models.SettingStartMessage: &snap.StartMessage,
	} {
		value, err := s.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		*dst = value
	}
	return &snap, nil
}

// Update validates value for key and stores the normalized form.
func (s *Service) Update(ctx context.Context, key, value string) (string, error) {
	normalized, err := normalize(key, value)
	if err != nil {
		return "", err
	}
	if err := s.repo.SetSetting(ctx, key, normalized); err != nil {
		return "", err
	}
	s.logger.Info("Setting updated", "key", key)
	return normalized, nil
}

// ResetStartMessage restores the default start message.
func (s *Service) ResetStartMessage(ctx context.Context) error {
	return s.repo.SetSetting(ctx, models.SettingStartMessage, greeting.DefaultStartMessage)
}

func normalize(key, value string) (string, error) {
	value = strings.TrimSpace(value)
	switch key {
	case models.SettingCardNumber:
		value = validation.NormalizeSpaces(value)
		if err := validation.ValidateCardNumber(value); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
	case models.SettingPhoneNumber:
		value = validation.NormalizeSpaces(value)
		if err := validation.ValidatePhoneNumber(value); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
	case models.SettingAmount:
		amount, err := validation.ParseAmount(value)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		value = strconv.FormatInt(amount, 10)
	case models.SettingStartMessage:
		if value == "" {
			return "", fmt.Errorf("%w: start message cannot be empty", ErrInvalidValue)
		}
		if err := greeting.Validate(value); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		if err := greeting.ValidateMarkup(value); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
	default:
		return "", fmt.Errorf("%w: unknown setting %q", ErrInvalidValue, key)
	}
	return value, nil
}
