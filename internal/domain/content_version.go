package domain

import "time"

// ContentVersion is an append-only snapshot of a content edit. The reference
// to the owning Content is a plain foreign id, not an embedded object, so
// versions can be listed and pruned independently. version_number starts at
// 1 per content and is guarded by unique(content_id, version_number).
type ContentVersion struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ContentID     uint      `gorm:"column:content_id;uniqueIndex:idx_content_version,priority:1" json:"content_id"`
	VersionNumber int       `gorm:"column:version_number;uniqueIndex:idx_content_version,priority:2" json:"version_number"`
	Title         string    `gorm:"column:title;size:255" json:"title"`
	Body          string    `gorm:"column:body;type:longtext" json:"body"`
	IsAutosave    bool      `gorm:"column:is_autosave;default:false" json:"is_autosave"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name for ContentVersion
func (ContentVersion) TableName() string {
	return "content_versions"
}

// SnapshotRequest represents a manual or autosave snapshot payload
type SnapshotRequest struct {
	Title      string `json:"title" binding:"required"`
	Body       string `json:"body"`
	IsAutosave bool   `json:"is_autosave"`
}

// VersionListItem is the trimmed listing shape for the admin versions screen
type VersionListItem struct {
	ID            uint   `json:"id"`
	VersionNumber int    `json:"version_number"`
	Title         string `json:"title"`
	IsAutosave    bool   `json:"is_autosave"`
	CreatedAt     string `json:"created_at"`
}
