package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/foliopress/foliopress-backend/internal/common"
	"github.com/foliopress/foliopress-backend/internal/domain"
	"github.com/foliopress/foliopress-backend/internal/repository"
)

// SettingService is a typed facade over the settings table. Reads fall back
// to the supplied default on a missing key or storage failure, so feature
// toggles degrade predictably. Flags are read per operation, not cached in
// process state.
type SettingService interface {
	Get(ctx context.Context, key, fallback string) string
	GetBool(ctx context.Context, key string, fallback bool) bool
	GetInt(ctx context.Context, key string, fallback int) int
	Set(ctx context.Context, req *domain.SetSettingRequest) error
	All(ctx context.Context) ([]domain.Setting, error)

	CacheEnabled(ctx context.Context) bool
	MaintenanceMode(ctx context.Context) bool
}

type settingService struct {
	repo    repository.SettingRepository
	timeout time.Duration
}

// NewSettingService creates a new SettingService
func NewSettingService(repo repository.SettingRepository, timeout time.Duration) SettingService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &settingService{repo: repo, timeout: timeout}
}

func (s *settingService) Get(ctx context.Context, key, fallback string) string {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		return fallback
	}
	return setting.Value
}

func (s *settingService) GetBool(ctx context.Context, key string, fallback bool) bool {
	raw := s.Get(ctx, key, "")
	if raw == "" {
		return fallback
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func (s *settingService) GetInt(ctx context.Context, key string, fallback int) int {
	raw := s.Get(ctx, key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// Set upserts a setting. The type hint defaults to text.
func (s *settingService) Set(ctx context.Context, req *domain.SetSettingRequest) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	key := strings.TrimSpace(req.Key)
	if key == "" {
		return common.ErrInvalidInput
	}
	typ := req.Type
	if typ == "" {
		typ = domain.SettingTypeText
	}

	return s.repo.Set(ctx, &domain.Setting{
		Key:   key,
		Value: req.Value,
		Type:  typ,
	})
}

func (s *settingService) All(ctx context.Context) ([]domain.Setting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	settings, err := s.repo.GetAll(ctx)
	if err != nil && !errors.Is(err, common.ErrSettingNotFound) {
		return nil, err
	}
	return settings, nil
}

// CacheEnabled gates the whole cache tier; defaults on.
func (s *settingService) CacheEnabled(ctx context.Context) bool {
	return s.GetBool(ctx, domain.SettingCacheEnabled, true)
}

// MaintenanceMode gates the public read surface; defaults off.
func (s *settingService) MaintenanceMode(ctx context.Context) bool {
	return s.GetBool(ctx, domain.SettingMaintenanceMode, false)
}
