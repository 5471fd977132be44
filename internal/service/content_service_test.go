package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/foliopress/foliopress-backend/internal/common"
	"github.com/foliopress/foliopress-backend/internal/domain"
	"github.com/foliopress/foliopress-backend/pkg/cache"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

func TestCreateDerivesSlug(t *testing.T) {
	svc, _, _ := newContentFixture(t)
	ctx := context.Background()

	content, err := svc.Create(ctx, &domain.CreateContentRequest{
		Kind:  domain.KindArticle,
		Title: "My First Article!",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !slugPattern.MatchString(content.Slug) {
		t.Errorf("slug %q is not URL-safe", content.Slug)
	}
	if content.Status != domain.StatusDraft {
		t.Errorf("new content must start as draft, got %s", content.Status)
	}

	got, err := svc.GetBySlug(ctx, content.Slug, domain.KindArticle)
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if got.ID != content.ID {
		t.Errorf("GetBySlug returned wrong row")
	}
}

func TestCreateDuplicateTitlesGetDistinctSlugs(t *testing.T) {
	svc, _, _ := newContentFixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, &domain.CreateContentRequest{Kind: domain.KindArticle, Title: "Hello World"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Create(ctx, &domain.CreateContentRequest{Kind: domain.KindArticle, Title: "Hello World"})
	if err != nil {
		t.Fatal(err)
	}

	if first.Slug != "hello-world" {
		t.Errorf("expected hello-world, got %s", first.Slug)
	}
	if second.Slug != "hello-world-2" {
		t.Errorf("expected hello-world-2, got %s", second.Slug)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newContentFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.CreateContentRequest
		want error
	}{
		{"empty title", domain.CreateContentRequest{Kind: domain.KindArticle, Title: "   "}, common.ErrEmptyTitle},
		{"unknown kind", domain.CreateContentRequest{Kind: "podcast", Title: "Hi"}, common.ErrInvalidKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, &tt.req); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUpdateKeepsSlugOnTitleChange(t *testing.T) {
	svc, _, _ := newContentFixture(t)
	ctx := context.Background()

	content, err := svc.Create(ctx, &domain.CreateContentRequest{Kind: domain.KindPage, Title: "About Us"})
	if err != nil {
		t.Fatal(err)
	}

	newTitle := "About Our Team"
	updated, err := svc.Update(ctx, content.ID, &domain.UpdateContentRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Slug != "about-us" {
		t.Errorf("title change must not regenerate slug, got %s", updated.Slug)
	}
	if updated.Title != newTitle {
		t.Errorf("title not updated")
	}

	// explicit empty slug requests regeneration from the current title
	empty := ""
	updated, err = svc.Update(ctx, content.ID, &domain.UpdateContentRequest{Slug: &empty})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Slug != "about-our-team" {
		t.Errorf("expected regenerated slug, got %s", updated.Slug)
	}
}

func TestUpdateRefreshesPageCount(t *testing.T) {
	svc, _, _ := newContentFixture(t)
	ctx := context.Background()

	content, err := svc.Create(ctx, &domain.CreateContentRequest{
		Kind:  domain.KindArticle,
		Title: "Long Read",
		Body:  "one page only",
	})
	if err != nil {
		t.Fatal(err)
	}
	if content.PageCount != 1 {
		t.Fatalf("expected page_count 1, got %d", content.PageCount)
	}

	body := `part one<hr class="mce-pagebreak" />part two<hr class="mce-pagebreak" />part three`
	updated, err := svc.Update(ctx, content.ID, &domain.UpdateContentRequest{Body: &body})
	if err != nil {
		t.Fatal(err)
	}
	if updated.PageCount != 3 {
		t.Errorf("expected page_count 3 after body change, got %d", updated.PageCount)
	}
}

func TestUpdateMissingContent(t *testing.T) {
	svc, _, _ := newContentFixture(t)
	title := "x"
	if _, err := svc.Update(context.Background(), 999, &domain.UpdateContentRequest{Title: &title}); !errors.Is(err, common.ErrContentNotFound) {
		t.Errorf("expected ErrContentNotFound, got %v", err)
	}
}

func TestPublishIdempotent(t *testing.T) {
	svc, _, _ := newContentFixture(t)
	ctx := context.Background()

	content, err := svc.Create(ctx, &domain.CreateContentRequest{Kind: domain.KindArticle, Title: "Launch"})
	if err != nil {
		t.Fatal(err)
	}

	published, err := svc.Publish(ctx, content.ID)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if published.Status != domain.StatusPublished || published.PublishedAt == nil {
		t.Fatalf("publish did not set status/timestamp: %+v", published)
	}
	firstPublish := *published.PublishedAt

	again, err := svc.Publish(ctx, content.ID)
	if err != nil {
		t.Fatalf("re-publish failed: %v", err)
	}
	if again.PublishedAt == nil || !again.PublishedAt.Equal(firstPublish) {
		t.Errorf("re-publish must keep the original publish time")
	}
}

func TestSoftDelete(t *testing.T) {
	svc, versions, _ := newContentFixture(t)
	ctx := context.Background()

	content, err := svc.Create(ctx, &domain.CreateContentRequest{Kind: domain.KindArticle, Title: "Doomed"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := versions.Snapshot(ctx, content.ID, &domain.SnapshotRequest{Title: "Doomed", Body: "v1"}); err != nil {
		t.Fatal(err)
	}

	if err := svc.SoftDelete(ctx, content.ID); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}
	// idempotent
	if err := svc.SoftDelete(ctx, content.ID); err != nil {
		t.Errorf("second SoftDelete must succeed, got %v", err)
	}

	if _, err := svc.GetBySlug(ctx, content.Slug, domain.KindArticle); !errors.Is(err, common.ErrContentNotFound) {
		t.Errorf("deleted content must not resolve by slug, got %v", err)
	}

	items, _, err := svc.List(ctx, domain.ContentFilters{Kind: domain.KindArticle})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("deleted content must not be listed, got %d items", len(items))
	}

	// version history remains retrievable by id
	history, err := versions.List(ctx, content.ID)
	if err != nil {
		t.Fatalf("version history lookup failed: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("expected surviving version history, got %d entries", len(history))
	}
	if _, err := versions.Restore(ctx, content.ID, 1); err != nil {
		t.Errorf("restore after delete failed: %v", err)
	}
}

func TestSoftDeleteFreesSlug(t *testing.T) {
	svc, _, _ := newContentFixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, &domain.CreateContentRequest{Kind: domain.KindArticle, Title: "Recycled"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.SoftDelete(ctx, first.ID); err != nil {
		t.Fatal(err)
	}

	// the tombstone's renamed slug must not collide on the unique index,
	// so the original slug comes back without a suffix
	second, err := svc.Create(ctx, &domain.CreateContentRequest{Kind: domain.KindArticle, Title: "Recycled"})
	if err != nil {
		t.Fatalf("recreate after delete failed: %v", err)
	}
	if second.Slug != "recycled" {
		t.Errorf("expected freed slug to be reused, got %s", second.Slug)
	}
}

func TestSoftDeleteMissing(t *testing.T) {
	svc, _, _ := newContentFixture(t)
	if err := svc.SoftDelete(context.Background(), 12345); !errors.Is(err, common.ErrContentNotFound) {
		t.Errorf("expected ErrContentNotFound, got %v", err)
	}
}

func TestMutationsInvalidateCache(t *testing.T) {
	svc, _, fc := newContentFixture(t)
	ctx := context.Background()

	content, err := svc.Create(ctx, &domain.CreateContentRequest{
		Kind:  domain.KindArticle,
		Title: "Cached",
		Body:  "hello",
	})
	if err != nil {
		t.Fatal(err)
	}
	prefix := cache.ContentPrefix(domain.KindArticle, content.Slug)
	if !fc.sawPrefix(prefix) {
		t.Errorf("create did not invalidate %s", prefix)
	}

	// warm the page cache, then mutate and verify the entry is gone
	if _, err := svc.GetPage(ctx, content.Slug, domain.KindArticle, 1); err != nil {
		t.Fatal(err)
	}

	body := "changed"
	if _, err := svc.Update(ctx, content.ID, &domain.UpdateContentRequest{Body: &body}); err != nil {
		t.Fatal(err)
	}

	page, err := svc.GetPage(ctx, content.Slug, domain.KindArticle, 1)
	if err != nil {
		t.Fatal(err)
	}
	if page.Body != "changed" {
		t.Errorf("read after write returned stale body %q", page.Body)
	}

	if _, err := svc.Publish(ctx, content.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.SoftDelete(ctx, content.ID); err != nil {
		t.Fatal(err)
	}
	// every mutation path invalidated the same prefix
	count := 0
	for _, p := range fc.invalidatedPrefixes {
		if p == prefix {
			count++
		}
	}
	if count < 4 {
		t.Errorf("expected invalidation on create/update/publish/delete, saw %d", count)
	}
}

func TestGetPage(t *testing.T) {
	svc, _, fc := newContentFixture(t)
	ctx := context.Background()

	body := `A<hr class="mce-pagebreak" />B<hr class="mce-pagebreak" />C`
	content, err := svc.Create(ctx, &domain.CreateContentRequest{
		Kind:  domain.KindArticle,
		Title: "Paged",
		Body:  body,
	})
	if err != nil {
		t.Fatal(err)
	}

	page, err := svc.GetPage(ctx, content.Slug, domain.KindArticle, 2)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if page.Body != "B" || page.Page != 2 || page.PageCount != 3 {
		t.Errorf("unexpected page: %+v", page)
	}

	// second read must hit the cache and agree with the first
	cachedPage, err := svc.GetPage(ctx, content.Slug, domain.KindArticle, 2)
	if err != nil {
		t.Fatal(err)
	}
	if cachedPage.Body != page.Body {
		t.Errorf("cached page disagrees: %q vs %q", cachedPage.Body, page.Body)
	}
	if len(fc.entries) == 0 {
		t.Errorf("expected the page to be cached")
	}

	if _, err := svc.GetPage(ctx, content.Slug, domain.KindArticle, 4); !errors.Is(err, common.ErrPageOutOfRange) {
		t.Errorf("expected ErrPageOutOfRange, got %v", err)
	}
	if _, err := svc.GetPage(ctx, content.Slug, domain.KindArticle, 0); !errors.Is(err, common.ErrPageOutOfRange) {
		t.Errorf("expected ErrPageOutOfRange for page 0, got %v", err)
	}
}

func TestReorder(t *testing.T) {
	svc, _, _ := newContentFixture(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, &domain.CreateContentRequest{Kind: domain.KindArticle, Title: "A"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.Create(ctx, &domain.CreateContentRequest{Kind: domain.KindArticle, Title: "B"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Reorder(ctx, map[uint]int{a.ID: 2, b.ID: 1}); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	items, _, err := svc.List(ctx, domain.ContentFilters{Kind: domain.KindArticle})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].ID != b.ID {
		t.Errorf("expected b first after reorder")
	}

	if err := svc.Reorder(ctx, map[uint]int{}); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("empty reorder must be rejected, got %v", err)
	}
}
