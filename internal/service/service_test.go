package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/foliopress/foliopress-backend/internal/domain"
	"github.com/foliopress/foliopress-backend/internal/repository"
	"github.com/foliopress/foliopress-backend/pkg/cache"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&domain.Content{}, &domain.ContentVersion{}, &domain.Setting{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// fakeCache is an in-memory cache.Service that records invalidations so
// tests can assert read-your-writes behavior.
type fakeCache struct {
	mu                  sync.Mutex
	entries             map[string][]byte
	invalidatedPrefixes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.entries[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = data
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.entries, k)
	}
	return nil
}

func (f *fakeCache) InvalidatePrefix(_ context.Context, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidatedPrefixes = append(f.invalidatedPrefixes, prefix)
	for k := range f.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(f.entries, k)
		}
	}
	return nil
}

func (f *fakeCache) GetContentPage(ctx context.Context, kind, slug string, rev int64, page int, dest interface{}) error {
	return f.Get(ctx, cache.ContentPageKey(kind, slug, rev, page), dest)
}

func (f *fakeCache) SetContentPage(ctx context.Context, kind, slug string, rev int64, page int, value interface{}) error {
	return f.Set(ctx, cache.ContentPageKey(kind, slug, rev, page), value, cache.TTLContent)
}

func (f *fakeCache) InvalidateContent(ctx context.Context, kind, slug string) error {
	if err := f.InvalidatePrefix(ctx, cache.ContentPrefix(kind, slug)); err != nil {
		return err
	}
	return f.InvalidatePrefix(ctx, cache.PrefixListing+kind+":")
}

func (f *fakeCache) IsAvailable() bool { return true }
func (f *fakeCache) Ping(_ context.Context) error { return nil }

func (f *fakeCache) sawPrefix(prefix string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.invalidatedPrefixes {
		if p == prefix {
			return true
		}
	}
	return false
}

func newContentFixture(t *testing.T) (ContentService, VersionService, *fakeCache) {
	t.Helper()
	db := setupTestDB(t)
	contentRepo := repository.NewContentRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	fc := newFakeCache()
	return NewContentService(contentRepo, fc, time.Second),
		NewVersionService(versionRepo, contentRepo, time.Second),
		fc
}
