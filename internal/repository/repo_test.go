package repository

import (
	"context"
	"testing"

	"github.com/foliopress/foliopress-backend/internal/domain"
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
	// in-memory sqlite is per-connection; a second pooled connection would
	// see an empty database
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

func mustCreateContent(t *testing.T, repo ContentRepository, kind, title, slug string) *domain.Content {
	t.Helper()
	content := &domain.Content{
		Kind:      kind,
		Title:     title,
		Slug:      slug,
		Status:    domain.StatusDraft,
		PageCount: 1,
	}
	if err := repo.Create(context.Background(), content); err != nil {
		t.Fatalf("failed to create content: %v", err)
	}
	return content
}
