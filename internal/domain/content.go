package domain

import "time"

// Content kinds
const (
	KindArticle   = "article"
	KindPhotobook = "photobook"
	KindPage      = "page"
)

// Content statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ValidKind reports whether kind is one of the recognized content kinds.
func ValidKind(kind string) bool {
	return kind == KindArticle || kind == KindPhotobook || kind == KindPage
}

// Content represents an article, photobook, or static page moving through
// the draft/published lifecycle. Slug uniqueness is enforced by the unique
// index; a soft delete renames the slug to <slug>-deleted-<id> so the
// tombstone keeps its row and history without blocking slug reuse.
type Content struct {
	ID          uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Kind        string     `gorm:"column:kind;size:20;index" json:"kind"`
	Title       string     `gorm:"column:title;size:255" json:"title"`
	Slug        string     `gorm:"column:slug;size:255;uniqueIndex" json:"slug"`
	Author      string     `gorm:"column:author;size:100" json:"author"`
	Body        string     `gorm:"column:body;type:longtext" json:"body"`
	Status      string     `gorm:"column:status;size:20;default:draft;index" json:"status"`
	SortOrder   int        `gorm:"column:sort_order;default:0" json:"sort_order"`
	TeaserText  string     `gorm:"column:teaser_text;type:text" json:"teaser_text"`
	TeaserImage string     `gorm:"column:teaser_image;size:500" json:"teaser_image"`
	PageCount   int        `gorm:"column:page_count;default:1" json:"page_count"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	DeletedAt   *time.Time `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

// TableName returns the table name for Content
func (Content) TableName() string {
	return "content"
}

// IsPublished reports whether the content is live.
func (c *Content) IsPublished() bool {
	return c.Status == StatusPublished
}

// IsDeleted reports whether the content has been soft-deleted.
func (c *Content) IsDeleted() bool {
	return c.DeletedAt != nil
}

// CreateContentRequest represents the admin create payload
type CreateContentRequest struct {
	Kind        string `json:"kind" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug"`
	Author      string `json:"author"`
	Body        string `json:"body"`
	TeaserText  string `json:"teaser_text"`
	TeaserImage string `json:"teaser_image"`
}

// UpdateContentRequest represents the admin update payload. Pointer fields
// distinguish "leave unchanged" from "set to zero value".
type UpdateContentRequest struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Author      *string `json:"author"`
	Body        *string `json:"body"`
	TeaserText  *string `json:"teaser_text"`
	TeaserImage *string `json:"teaser_image"`
	SortOrder   *int    `json:"sort_order"`
}

// ContentFilters narrows List results
type ContentFilters struct {
	Kind   string
	Status string
	Search string
	Limit  int
	Offset int
}
