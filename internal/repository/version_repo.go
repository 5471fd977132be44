package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/foliopress/foliopress-backend/internal/common"
	"github.com/foliopress/foliopress-backend/internal/domain"
	"gorm.io/gorm"
)

// snapshotRetries bounds retry attempts when concurrent writers race for the
// same version number. Collisions past this budget surface as ErrConflict.
const snapshotRetries = 3

// VersionRepository content version data access. Rows are append-only;
// deletes happen only through PruneAutosaves.
type VersionRepository interface {
	CreateNext(ctx context.Context, contentID uint, title, body string, isAutosave bool) (*domain.ContentVersion, error)
	FindByVersion(ctx context.Context, contentID uint, versionNumber int) (*domain.ContentVersion, error)
	ListByContentID(ctx context.Context, contentID uint) ([]*domain.ContentVersion, error)
	PruneAutosaves(ctx context.Context, contentID uint, keep int) (int64, error)
}

type versionRepository struct {
	db *gorm.DB
}

// NewVersionRepository creates a new VersionRepository
func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

// CreateNext computes version_number = max(existing)+1 and inserts in one
// attempt, relying on unique(content_id, version_number) to reject a racing
// writer. A duplicate-key failure means another writer took the number, so
// the read-and-insert is retried with a fresh max.
func (r *versionRepository) CreateNext(ctx context.Context, contentID uint, title, body string, isAutosave bool) (*domain.ContentVersion, error) {
	for attempt := 0; attempt < snapshotRetries; attempt++ {
		next, err := r.nextVersion(ctx, contentID)
		if err != nil {
			return nil, err
		}

		version := &domain.ContentVersion{
			ContentID:     contentID,
			VersionNumber: next,
			Title:         title,
			Body:          body,
			IsAutosave:    isAutosave,
		}

		err = r.db.WithContext(ctx).Create(version).Error
		if err == nil {
			return version, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
		}
		// lost the race, recompute and try again
	}
	return nil, common.ErrConflict
}

func (r *versionRepository) nextVersion(ctx context.Context, contentID uint) (int, error) {
	var maxVersion *int
	err := r.db.WithContext(ctx).Model(&domain.ContentVersion{}).
		Where("content_id = ?", contentID).
		Select("MAX(version_number)").
		Scan(&maxVersion).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	if maxVersion == nil {
		return 1, nil
	}
	return *maxVersion + 1, nil
}

func (r *versionRepository) FindByVersion(ctx context.Context, contentID uint, versionNumber int) (*domain.ContentVersion, error) {
	var version domain.ContentVersion
	err := r.db.WithContext(ctx).
		Where("content_id = ? AND version_number = ?", contentID, versionNumber).
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrVersionNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return &version, nil
}

func (r *versionRepository) ListByContentID(ctx context.Context, contentID uint) ([]*domain.ContentVersion, error) {
	var versions []*domain.ContentVersion
	err := r.db.WithContext(ctx).
		Where("content_id = ?", contentID).
		Order("version_number DESC").
		Find(&versions).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return versions, nil
}

// PruneAutosaves deletes autosave versions beyond the keep most recent for
// one content. Manual saves are never touched. Returns the number of rows
// removed.
func (r *versionRepository) PruneAutosaves(ctx context.Context, contentID uint, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	var keepIDs []uint
	err := r.db.WithContext(ctx).Model(&domain.ContentVersion{}).
		Where("content_id = ? AND is_autosave = ?", contentID, true).
		Order("version_number DESC").
		Limit(keep).
		Pluck("id", &keepIDs).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	q := r.db.WithContext(ctx).
		Where("content_id = ? AND is_autosave = ?", contentID, true)
	if len(keepIDs) > 0 {
		q = q.Where("id NOT IN ?", keepIDs)
	}
	res := q.Delete(&domain.ContentVersion{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrStorage, res.Error)
	}
	return res.RowsAffected, nil
}
