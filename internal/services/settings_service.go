package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nnamdiokafor/foliobot/internal/core"
	"github.com/nnamdiokafor/foliobot/internal/models"
)

// SettingsService owns reading and writing the profile and bot config
// documents. Writes are last-writer-wins; there is a single owner.
type SettingsService struct {
	store core.DbClient
}

func NewSettingsService(store core.DbClient) *SettingsService {
	return &SettingsService{store: store}
}

// LoadProfile returns the stored profile, or an empty normalized profile
// when nothing has been saved yet.
func (s *SettingsService) LoadProfile(ctx context.Context) (models.Profile, error) {
	var profile models.Profile
	raw, err := s.store.GetDocument(ctx, core.DocProfile)
	if err != nil {
		return profile, fmt.Errorf("load profile: %w", err)
	}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			return profile, fmt.Errorf("decode stored profile: %w", err)
		}
	}
	profile.Normalize()
	return profile, nil
}

func (s *SettingsService) SaveProfile(ctx context.Context, profile models.Profile) error {
	profile.Normalize()
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.store.PutDocument(ctx, core.DocProfile, string(raw)); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// UpdateProfile applies a partial update onto the stored profile and saves
// the result. List fields in the patch replace stored lists wholesale.
func (s *SettingsService) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (models.Profile, error) {
	profile, err := s.LoadProfile(ctx)
	if err != nil {
		return profile, err
	}
	patch.Apply(&profile)
	if err := s.SaveProfile(ctx, profile); err != nil {
		return profile, err
	}
	return profile, nil
}

// LoadConfig returns the stored bot config, or the defaults when nothing has
// been saved yet.
func (s *SettingsService) LoadConfig(ctx context.Context) (models.BotConfig, error) {
	raw, err := s.store.GetDocument(ctx, core.DocBotConfig)
	if err != nil {
		return models.DefaultBotConfig(), fmt.Errorf("load config: %w", err)
	}
	if raw == "" {
		return models.DefaultBotConfig(), nil
	}
	var cfg models.BotConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return models.DefaultBotConfig(), fmt.Errorf("decode stored config: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

func (s *SettingsService) SaveConfig(ctx context.Context, cfg models.BotConfig) error {
	cfg.Normalize()
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := s.store.PutDocument(ctx, core.DocBotConfig, string(raw)); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

func (s *SettingsService) UpdateConfig(ctx context.Context, patch models.BotConfigPatch) (models.BotConfig, error) {
	cfg, err := s.LoadConfig(ctx)
	if err != nil {
		return cfg, err
	}
	patch.Apply(&cfg)
	if err := s.SaveConfig(ctx, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
