package service

import (
	"context"
	"strings"
	"time"

	"github.com/foliopress/foliopress-backend/internal/common"
	"github.com/foliopress/foliopress-backend/internal/domain"
	"github.com/foliopress/foliopress-backend/internal/repository"
)

// VersionService captures content edits as an addressable version history.
// Snapshots never mutate the content row itself; promoting a restored
// snapshot back to current state goes through ContentService.Update.
type VersionService interface {
	Snapshot(ctx context.Context, contentID uint, req *domain.SnapshotRequest) (*domain.ContentVersion, error)
	Restore(ctx context.Context, contentID uint, versionNumber int) (*domain.ContentVersion, error)
	List(ctx context.Context, contentID uint) ([]domain.VersionListItem, error)
	PruneAutosaves(ctx context.Context, contentID uint, keep int) (int64, error)
}

type versionService struct {
	repo        repository.VersionRepository
	contentRepo repository.ContentRepository
	timeout     time.Duration
}

// NewVersionService creates a new VersionService
func NewVersionService(repo repository.VersionRepository, contentRepo repository.ContentRepository, timeout time.Duration) VersionService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &versionService{repo: repo, contentRepo: contentRepo, timeout: timeout}
}

// Snapshot appends a new version with the next version number. Concurrent
// snapshots for the same content cannot produce duplicate numbers; the
// repository retries behind the uniqueness constraint.
func (s *versionService) Snapshot(ctx context.Context, contentID uint, req *domain.SnapshotRequest) (*domain.ContentVersion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, common.ErrEmptyTitle
	}

	// snapshots attach only to live content
	if _, err := s.contentRepo.FindByID(ctx, contentID); err != nil {
		return nil, err
	}

	return s.repo.CreateNext(ctx, contentID, title, req.Body, req.IsAutosave)
}

// Restore returns the stored snapshot for the caller to apply (or not).
// History stays retrievable by id even after the content is soft-deleted.
func (s *versionService) Restore(ctx context.Context, contentID uint, versionNumber int) (*domain.ContentVersion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.repo.FindByVersion(ctx, contentID, versionNumber)
}

// List returns the version history newest-first for the admin screen.
func (s *versionService) List(ctx context.Context, contentID uint) ([]domain.VersionListItem, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	versions, err := s.repo.ListByContentID(ctx, contentID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.VersionListItem, len(versions))
	for i, v := range versions {
		title := v.Title
		if len(title) > 80 {
			title = title[:80] + "..."
		}
		items[i] = domain.VersionListItem{
			ID:            v.ID,
			VersionNumber: v.VersionNumber,
			Title:         title,
			IsAutosave:    v.IsAutosave,
			CreatedAt:     v.CreatedAt.Format(time.RFC3339),
		}
	}
	return items, nil
}

// PruneAutosaves removes autosave versions beyond the keep most recent,
// bounding storage growth from autosave ticks. Manual saves survive.
func (s *versionService) PruneAutosaves(ctx context.Context, contentID uint, keep int) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if keep < 0 {
		keep = 0
	}
	return s.repo.PruneAutosaves(ctx, contentID, keep)
}
