package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/foliopress/foliopress-backend/internal/common"
	"github.com/foliopress/foliopress-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository settings table access
type SettingRepository interface {
	Get(ctx context.Context, key string) (*domain.Setting, error)
	GetAll(ctx context.Context) ([]domain.Setting, error)
	Set(ctx context.Context, setting *domain.Setting) error
}

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new SettingRepository
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	var setting domain.Setting
	err := r.db.WithContext(ctx).Where("`key` = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrSettingNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return &setting, nil
}

func (r *settingRepository) GetAll(ctx context.Context) ([]domain.Setting, error) {
	var settings []domain.Setting
	if err := r.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return settings, nil
}

// Set upserts on the unique key column.
func (r *settingRepository) Set(ctx context.Context, setting *domain.Setting) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "type", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return nil
}
