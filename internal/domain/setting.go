package domain

import "time"

// Setting value type hints
const (
	SettingTypeText    = "text"
	SettingTypeBoolean = "boolean"
	SettingTypeEmail   = "email"
	SettingTypeNumber  = "number"
)

// Well-known setting keys
const (
	SettingCacheEnabled    = "cache_enabled"
	SettingMaintenanceMode = "maintenance_mode"
	SettingSiteTitle       = "site_title"
	SettingSiteMotto       = "site_motto"
	SettingAdminEmail      = "admin_email"
	SettingItemsPerPage    = "items_per_page"
)

// Setting is a keyed configuration row with upsert-only semantics.
type Setting struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Key       string    `gorm:"column:key;size:100;uniqueIndex" json:"key"`
	Value     string    `gorm:"column:value;type:text" json:"value"`
	Type      string    `gorm:"column:type;size:20;default:text" json:"type"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the table name for Setting
func (Setting) TableName() string {
	return "settings"
}

// DefaultSettings seeds a fresh install. Values mirror the defaults the
// admin screens expect to exist.
var DefaultSettings = []Setting{
	{Key: SettingSiteTitle, Value: "Foliopress", Type: SettingTypeText},
	{Key: SettingSiteMotto, Value: "A Simple Content Management System", Type: SettingTypeText},
	{Key: SettingAdminEmail, Value: "admin@example.com", Type: SettingTypeEmail},
	{Key: SettingItemsPerPage, Value: "10", Type: SettingTypeNumber},
	{Key: SettingCacheEnabled, Value: "1", Type: SettingTypeBoolean},
	{Key: SettingMaintenanceMode, Value: "0", Type: SettingTypeBoolean},
}

// SetSettingRequest represents the admin settings upsert payload
type SetSettingRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
	Type  string `json:"type"`
}
