package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foliopress/foliopress-backend/internal/common"
	"github.com/foliopress/foliopress-backend/internal/domain"
	"github.com/foliopress/foliopress-backend/internal/repository"
	"github.com/foliopress/foliopress-backend/pkg/cache"
)

// slugRetries bounds re-uniquification attempts when concurrent creates
// race for the same slug. Collisions past this budget surface as
// ErrConflict.
const slugRetries = 3

// ContentPage is the read-surface shape for one navigable page of a content
// item, safe to cache as a derived view.
type ContentPage struct {
	ContentID  uint   `json:"content_id"`
	Kind       string `json:"kind"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Page       int    `json:"page"`
	PageCount  int    `json:"page_count"`
	Body       string `json:"body"`
	TeaserText string `json:"teaser_text"`
	Published  bool   `json:"published"`
}

// ContentService owns the content lifecycle: create/update/publish/delete
// on the write side, slug and page lookups on the read side. Every
// successful mutation invalidates the content's cache prefix before
// returning so a subsequent request observes fresh data.
type ContentService interface {
	Create(ctx context.Context, req *domain.CreateContentRequest) (*domain.Content, error)
	Update(ctx context.Context, id uint, req *domain.UpdateContentRequest) (*domain.Content, error)
	Publish(ctx context.Context, id uint) (*domain.Content, error)
	SoftDelete(ctx context.Context, id uint) error
	List(ctx context.Context, filters domain.ContentFilters) ([]*domain.Content, *common.Meta, error)
	GetBySlug(ctx context.Context, slug, kind string) (*domain.Content, error)
	GetPage(ctx context.Context, slug, kind string, page int) (*ContentPage, error)
	Reorder(ctx context.Context, orders map[uint]int) error
}

type contentService struct {
	repo    repository.ContentRepository
	cache   cache.Service
	timeout time.Duration
}

// NewContentService creates a new ContentService
func NewContentService(repo repository.ContentRepository, cacheService cache.Service, timeout time.Duration) ContentService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &contentService{repo: repo, cache: cacheService, timeout: timeout}
}

// Create validates input, derives a unique slug when none is given, and
// stores the row in draft status. The unique index on slug backstops the
// read-then-insert uniqueness check; losing the race to a concurrent
// create re-uniquifies against the committed row and retries.
func (s *contentService) Create(ctx context.Context, req *domain.CreateContentRequest) (*domain.Content, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, common.ErrEmptyTitle
	}
	if !domain.ValidKind(req.Kind) {
		return nil, common.ErrInvalidKind
	}

	base := req.Slug
	if base == "" {
		base = title
	}

	sortOrder, err := s.repo.NextSortOrder(ctx)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < slugRetries; attempt++ {
		slug, err := s.uniqueSlug(ctx, common.Slugify(base), 0)
		if err != nil {
			return nil, err
		}

		content := &domain.Content{
			Kind:        req.Kind,
			Title:       title,
			Slug:        slug,
			Author:      req.Author,
			Body:        req.Body,
			Status:      domain.StatusDraft,
			SortOrder:   sortOrder,
			TeaserText:  req.TeaserText,
			TeaserImage: req.TeaserImage,
			PageCount:   common.PageCount(req.Body),
		}

		err = s.repo.Create(ctx, content)
		if err == nil {
			s.invalidate(ctx, content.Kind, content.Slug)
			return content, nil
		}
		if !errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		// a racing create took the slug first, pick a fresh one
	}
	return nil, common.ErrConflict
}

// Update applies a patch. A changed title does not regenerate the slug;
// only an explicit slug field does (empty string requests regeneration from
// the current title). page_count is refreshed whenever body changes so the
// stored value can never drift from the recomputed split.
func (s *contentService) Update(ctx context.Context, id uint, req *domain.UpdateContentRequest) (*domain.Content, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	content, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldSlug := content.Slug

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, common.ErrEmptyTitle
		}
		content.Title = title
	}
	if req.Slug != nil {
		base := *req.Slug
		if base == "" {
			base = content.Title
		}
		slug, err := s.uniqueSlug(ctx, common.Slugify(base), content.ID)
		if err != nil {
			return nil, err
		}
		content.Slug = slug
	}
	if req.Author != nil {
		content.Author = *req.Author
	}
	if req.Body != nil {
		content.Body = *req.Body
		content.PageCount = common.PageCount(*req.Body)
	}
	if req.TeaserText != nil {
		content.TeaserText = *req.TeaserText
	}
	if req.TeaserImage != nil {
		content.TeaserImage = *req.TeaserImage
	}
	if req.SortOrder != nil {
		content.SortOrder = *req.SortOrder
	}
	content.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, content); err != nil {
		return nil, err
	}

	if oldSlug != content.Slug {
		s.invalidate(ctx, content.Kind, oldSlug)
	}
	s.invalidate(ctx, content.Kind, content.Slug)
	return content, nil
}

// Publish moves draft content to published. Re-publishing is a no-op that
// keeps the original published_at.
func (s *contentService) Publish(ctx context.Context, id uint) (*domain.Content, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	content, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if content.Status == domain.StatusPublished {
		return content, nil
	}

	content.Status = domain.StatusPublished
	if content.PublishedAt == nil {
		now := time.Now()
		content.PublishedAt = &now
	}
	content.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, content); err != nil {
		return nil, err
	}

	s.invalidate(ctx, content.Kind, content.Slug)
	return content, nil
}

// SoftDelete marks content deleted, keeping the row and its version history
// for audit. Deleting already-deleted content succeeds. The tombstone's
// slug is renamed so the unique index frees the original slug for reuse.
func (s *contentService) SoftDelete(ctx context.Context, id uint) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	content, err := s.repo.FindByIDAny(ctx, id)
	if err != nil {
		return err
	}
	if content.IsDeleted() {
		return nil
	}

	now := time.Now()
	oldSlug := content.Slug
	content.DeletedAt = &now
	content.UpdatedAt = now
	content.Slug = fmt.Sprintf("%s-deleted-%d", oldSlug, content.ID)

	if err := s.repo.Update(ctx, content); err != nil {
		return err
	}

	s.invalidate(ctx, content.Kind, oldSlug)
	return nil
}

// List returns non-deleted content ordered by sort_order, then newest first.
func (s *contentService) List(ctx context.Context, filters domain.ContentFilters) ([]*domain.Content, *common.Meta, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if filters.Limit < 1 || filters.Limit > 100 {
		filters.Limit = 20
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	if filters.Kind != "" && !domain.ValidKind(filters.Kind) {
		return nil, nil, common.ErrInvalidKind
	}

	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, nil, err
	}

	meta := &common.Meta{
		Kind:   filters.Kind,
		Limit:  filters.Limit,
		Offset: filters.Offset,
		Total:  total,
	}
	return items, meta, nil
}

// GetBySlug finds non-deleted content by slug, case-insensitively.
func (s *contentService) GetBySlug(ctx context.Context, slug, kind string) (*domain.Content, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.repo.FindBySlug(ctx, slug, kind)
}

// GetPage returns one navigable page of a content item, served from cache
// when possible. The cache key carries the row's updated-at revision, so a
// stale entry for an earlier revision can never answer a fresh lookup.
func (s *contentService) GetPage(ctx context.Context, slug, kind string, page int) (*ContentPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	content, err := s.repo.FindBySlug(ctx, slug, kind)
	if err != nil {
		return nil, err
	}
	rev := content.UpdatedAt.Unix()

	if s.cache != nil {
		var cached ContentPage
		if err := s.cache.GetContentPage(ctx, content.Kind, content.Slug, rev, page, &cached); err == nil {
			return &cached, nil
		}
	}

	fragment, err := common.GetPage(content.Body, page)
	if err != nil {
		return nil, err
	}

	result := &ContentPage{
		ContentID:  content.ID,
		Kind:       content.Kind,
		Slug:       content.Slug,
		Title:      content.Title,
		Page:       page,
		PageCount:  common.PageCount(content.Body),
		Body:       fragment,
		TeaserText: content.TeaserText,
		Published:  content.IsPublished(),
	}

	if s.cache != nil {
		_ = s.cache.SetContentPage(ctx, content.Kind, content.Slug, rev, page, result)
	}
	return result, nil
}

// Reorder applies a new sort order to a set of content ids in one
// transaction.
func (s *contentService) Reorder(ctx context.Context, orders map[uint]int) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if len(orders) == 0 {
		return common.ErrInvalidInput
	}
	if err := s.repo.UpdateSortOrders(ctx, orders); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidatePrefix(ctx, cache.PrefixListing)
	}
	return nil
}

// uniqueSlug uniquifies base against live rows, skipping excludeID. The
// repo lookup error, if any, is carried out of the closure.
func (s *contentService) uniqueSlug(ctx context.Context, base string, excludeID uint) (string, error) {
	var lookupErr error
	slug := common.UniqueSlug(base, func(candidate string) bool {
		exists, err := s.repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			lookupErr = err
			return false
		}
		return exists
	})
	if lookupErr != nil {
		return "", lookupErr
	}
	return slug, nil
}

// invalidate clears every cache entry scoped to one content item. Cache
// failures are already downgraded to logged warnings inside the cache
// service, so the mutation result is never affected.
func (s *contentService) invalidate(ctx context.Context, kind, slug string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateContent(ctx, kind, slug)
}
