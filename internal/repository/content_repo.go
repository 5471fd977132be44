package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/foliopress/foliopress-backend/internal/common"
	"github.com/foliopress/foliopress-backend/internal/domain"
	"gorm.io/gorm"
)

// ContentRepository content data access. The content table is mutated only
// through this repository.
type ContentRepository interface {
	Create(ctx context.Context, content *domain.Content) error
	Update(ctx context.Context, content *domain.Content) error
	FindByID(ctx context.Context, id uint) (*domain.Content, error)
	FindByIDAny(ctx context.Context, id uint) (*domain.Content, error)
	FindBySlug(ctx context.Context, slug, kind string) (*domain.Content, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	List(ctx context.Context, filters domain.ContentFilters) ([]*domain.Content, int64, error)
	NextSortOrder(ctx context.Context) (int, error)
	UpdateSortOrders(ctx context.Context, orders map[uint]int) error
	RecentlyEditedIDs(ctx context.Context, limit int) ([]uint, error)
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

// live scopes queries to rows that have not been soft-deleted
func live(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NULL")
}

func (r *contentRepository) Create(ctx context.Context, content *domain.Content) error {
	if err := r.db.WithContext(ctx).Create(content).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict
		}
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return nil
}

func (r *contentRepository) Update(ctx context.Context, content *domain.Content) error {
	// Save writes all fields; the service owns which fields changed
	if err := r.db.WithContext(ctx).Save(content).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict
		}
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return nil
}

func (r *contentRepository) FindByID(ctx context.Context, id uint) (*domain.Content, error) {
	var content domain.Content
	err := live(r.db.WithContext(ctx)).First(&content, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrContentNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return &content, nil
}

// FindByIDAny also returns soft-deleted rows. Used where delete idempotence
// and version-history access need to see the tombstone.
func (r *contentRepository) FindByIDAny(ctx context.Context, id uint) (*domain.Content, error) {
	var content domain.Content
	err := r.db.WithContext(ctx).First(&content, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrContentNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return &content, nil
}

func (r *contentRepository) FindBySlug(ctx context.Context, slug, kind string) (*domain.Content, error) {
	var content domain.Content
	q := live(r.db.WithContext(ctx)).Where("LOWER(slug) = LOWER(?)", slug)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	err := q.First(&content).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrContentNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return &content, nil
}

// SlugExists checks slugs case-insensitively among live rows only, so a
// soft-deleted row never blocks slug reuse. excludeID skips the row being
// updated.
func (r *contentRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	q := live(r.db.WithContext(ctx).Model(&domain.Content{})).
		Where("LOWER(slug) = LOWER(?)", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return count > 0, nil
}

func (r *contentRepository) List(ctx context.Context, filters domain.ContentFilters) ([]*domain.Content, int64, error) {
	q := live(r.db.WithContext(ctx).Model(&domain.Content{}))

	if filters.Kind != "" {
		q = q.Where("kind = ?", filters.Kind)
	}
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.Search != "" {
		term := "%" + filters.Search + "%"
		q = q.Where("(title LIKE ? OR teaser_text LIKE ? OR body LIKE ?)", term, term, term)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	var items []*domain.Content
	err := q.Order("sort_order ASC").Order("created_at DESC").
		Limit(filters.Limit).Offset(filters.Offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return items, total, nil
}

func (r *contentRepository) NextSortOrder(ctx context.Context) (int, error) {
	var maxOrder *int
	err := r.db.WithContext(ctx).Model(&domain.Content{}).
		Select("MAX(sort_order)").Scan(&maxOrder).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	if maxOrder == nil {
		return 1, nil
	}
	return *maxOrder + 1, nil
}

// UpdateSortOrders applies a reorder in one transaction so a failed drag
// never leaves a half-applied ordering.
func (r *contentRepository) UpdateSortOrders(ctx context.Context, orders map[uint]int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, order := range orders {
			if err := tx.Model(&domain.Content{}).Where("id = ?", id).
				Update("sort_order", order).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return nil
}

// RecentlyEditedIDs returns the most recently updated live content ids,
// used by the periodic autosave pruning sweep.
func (r *contentRepository) RecentlyEditedIDs(ctx context.Context, limit int) ([]uint, error) {
	var ids []uint
	err := live(r.db.WithContext(ctx).Model(&domain.Content{})).
		Order("updated_at DESC").Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return ids, nil
}
