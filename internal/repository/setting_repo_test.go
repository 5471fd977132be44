package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/foliopress/foliopress-backend/internal/common"
	"github.com/foliopress/foliopress-backend/internal/domain"
)

func TestSettingUpsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingRepository(db)
	ctx := context.Background()

	if _, err := repo.Get(ctx, "site_title"); !errors.Is(err, common.ErrSettingNotFound) {
		t.Fatalf("expected ErrSettingNotFound on empty table, got %v", err)
	}

	err := repo.Set(ctx, &domain.Setting{Key: "site_title", Value: "Foliopress", Type: domain.SettingTypeText})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := repo.Get(ctx, "site_title")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Value != "Foliopress" {
		t.Errorf("expected Foliopress, got %s", got.Value)
	}

	// second Set on the same key updates in place
	err = repo.Set(ctx, &domain.Setting{Key: "site_title", Value: "Renamed", Type: domain.SettingTypeText})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, err = repo.Get(ctx, "site_title")
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != "Renamed" {
		t.Errorf("expected Renamed, got %s", got.Value)
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("upsert must not duplicate rows, got %d", len(all))
	}
}
