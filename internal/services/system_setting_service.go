package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"farm-backend/internal/apperr"
	"farm-backend/internal/cache"
	"farm-backend/internal/models"
)

const settingCacheTTL = 10 * time.Minute

// SettingStore is the part of *repositories.SystemSettingRepository the service uses.
type SettingStore interface {
	Get(ctx context.Context, key string) (*models.SystemSetting, error)
	List(ctx context.Context) ([]*models.SystemSetting, error)
	Upsert(ctx context.Context, key, value, description string, userID int) error
	InsertDefault(ctx context.Context, key, value, description string) error
}

type SystemSettingService struct {
	Repo                SettingStore
	DefaultBirdsPerCage int
	logger              *zap.Logger
}

func NewSystemSettingService(repo SettingStore, defaultBirdsPerCage int, logger *zap.Logger) *SystemSettingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SystemSettingService{Repo: repo, DefaultBirdsPerCage: defaultBirdsPerCage, logger: logger}
}

// EnsureDefaults writes the known settings that are still missing.
func (s *SystemSettingService) EnsureDefaults(ctx context.Context) error {
	return s.Repo.InsertDefault(ctx, models.SettingBirdsPerCage,
		strconv.Itoa(s.DefaultBirdsPerCage), "Birds loaded into one cage")
}

func (s *SystemSettingService) GetSetting(ctx context.Context, key string) (*models.SystemSetting, error) {
	return s.Repo.Get(ctx, key)
}

func (s *SystemSettingService) ListSettings(ctx context.Context) ([]*models.SystemSetting, error) {
	return s.Repo.List(ctx)
}

// UpdateSetting validates known keys before storing the value.
func (s *SystemSettingService) UpdateSetting(ctx context.Context, key, value string, userID int) error {
	value = strings.TrimSpace(value)
	if key == "" {
		return apperr.Validation("setting key is required")
	}
	if key == models.SettingBirdsPerCage {
		n, err := cast.ToIntE(value)
		if err != nil || n <= 0 {
			return apperr.Validation("%s must be a positive whole number", key)
		}
		value = strconv.Itoa(n)
	}
	if err := s.Repo.Upsert(ctx, key, value, "", userID); err != nil {
		return err
	}
	cache.InvalidateSettingCaches(ctx)
	return nil
}

// BirdsPerCage returns the stored conversion, or the configured default when
// the setting is absent, unreadable or not positive.
func (s *SystemSettingService) BirdsPerCage(ctx context.Context) int {
	cacheKey := "settings:" + models.SettingBirdsPerCage
	if data, ok := cache.GetCached(ctx, cacheKey); ok {
		if n, err := strconv.Atoi(string(data)); err == nil && n > 0 {
			return n
		}
	}

	setting, err := s.Repo.Get(ctx, models.SettingBirdsPerCage)
	if err != nil {
		s.logger.Debug("birds_per_cage setting unavailable, using default", zap.Error(err))
		return s.DefaultBirdsPerCage
	}
	n, err := cast.ToIntE(strings.TrimSpace(setting.SettingValue))
	if err != nil || n <= 0 {
		s.logger.Warn("ignoring invalid birds_per_cage setting", zap.String("value", setting.SettingValue))
		return s.DefaultBirdsPerCage
	}
	cache.SetCached(ctx, cacheKey, []byte(strconv.Itoa(n)), settingCacheTTL)
	return n
}
