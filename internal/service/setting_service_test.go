package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foliopress/foliopress-backend/internal/common"
	"github.com/foliopress/foliopress-backend/internal/domain"
	"github.com/foliopress/foliopress-backend/internal/repository"
)

func newSettingFixture(t *testing.T) SettingService {
	t.Helper()
	db := setupTestDB(t)
	return NewSettingService(repository.NewSettingRepository(db), time.Second)
}

func TestSettingRoundTrip(t *testing.T) {
	svc := newSettingFixture(t)
	ctx := context.Background()

	if err := svc.Set(ctx, &domain.SetSettingRequest{Key: "site_title", Value: "Foliopress"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := svc.Get(ctx, "site_title", "fallback"); got != "Foliopress" {
		t.Errorf("expected stored value, got %q", got)
	}

	// upsert replaces the value without duplicating the key
	if err := svc.Set(ctx, &domain.SetSettingRequest{Key: "site_title", Value: "Renamed"}); err != nil {
		t.Fatal(err)
	}
	if got := svc.Get(ctx, "site_title", ""); got != "Renamed" {
		t.Errorf("expected upserted value, got %q", got)
	}

	all, err := svc.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("expected one row after upsert, got %d", len(all))
	}
}

func TestSettingFallbacks(t *testing.T) {
	svc := newSettingFixture(t)
	ctx := context.Background()

	if got := svc.Get(ctx, "missing", "default"); got != "default" {
		t.Errorf("expected fallback, got %q", got)
	}
	if !svc.GetBool(ctx, "missing_flag", true) {
		t.Errorf("expected bool fallback true")
	}
	if got := svc.GetInt(ctx, "missing_int", 7); got != 7 {
		t.Errorf("expected int fallback, got %d", got)
	}

	if err := svc.Set(ctx, &domain.SetSettingRequest{Key: "bad_int", Value: "zebra", Type: domain.SettingTypeNumber}); err != nil {
		t.Fatal(err)
	}
	if got := svc.GetInt(ctx, "bad_int", 3); got != 3 {
		t.Errorf("unparsable number must fall back, got %d", got)
	}
}

func TestSettingGetBoolParsing(t *testing.T) {
	svc := newSettingFixture(t)
	ctx := context.Background()

	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"Yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"off", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if err := svc.Set(ctx, &domain.SetSettingRequest{Key: "flag", Value: tt.value, Type: domain.SettingTypeBoolean}); err != nil {
				t.Fatal(err)
			}
			if got := svc.GetBool(ctx, "flag", !tt.want); got != tt.want {
				t.Errorf("GetBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestSettingSetValidation(t *testing.T) {
	svc := newSettingFixture(t)
	if err := svc.Set(context.Background(), &domain.SetSettingRequest{Key: "  "}); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for blank key, got %v", err)
	}
}

func TestCacheAndMaintenanceToggles(t *testing.T) {
	svc := newSettingFixture(t)
	ctx := context.Background()

	// defaults: cache on, maintenance off
	if !svc.CacheEnabled(ctx) {
		t.Errorf("cache must default to enabled")
	}
	if svc.MaintenanceMode(ctx) {
		t.Errorf("maintenance must default to off")
	}

	if err := svc.Set(ctx, &domain.SetSettingRequest{Key: domain.SettingCacheEnabled, Value: "0", Type: domain.SettingTypeBoolean}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Set(ctx, &domain.SetSettingRequest{Key: domain.SettingMaintenanceMode, Value: "1", Type: domain.SettingTypeBoolean}); err != nil {
		t.Fatal(err)
	}

	if svc.CacheEnabled(ctx) {
		t.Errorf("cache toggle did not take effect")
	}
	if !svc.MaintenanceMode(ctx) {
		t.Errorf("maintenance toggle did not take effect")
	}
}
