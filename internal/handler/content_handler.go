package handler

import (
	"net/http"
	"strconv"

	"github.com/foliopress/foliopress-backend/internal/common"
	"github.com/foliopress/foliopress-backend/internal/domain"
	"github.com/foliopress/foliopress-backend/internal/service"
	"github.com/foliopress/foliopress-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ContentHandler handles admin content lifecycle requests plus the public
// read surface (slug and page lookups).
type ContentHandler struct {
	service  service.ContentService
	versions service.VersionService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService service.ContentService, versionService service.VersionService) *ContentHandler {
	return &ContentHandler{service: contentService, versions: versionService}
}

// Create handles POST /api/v1/admin/content
// @Summary Create content
// @Description Creates a new content item in draft status; derives a slug from the title when none is given
// @Tags content
// @Accept json
// @Produce json
// @Param request body domain.CreateContentRequest true "content to create"
// @Success 200 {object} common.APIResponse{data=domain.Content}
// @Failure 400 {object} common.APIResponse
// @Router /admin/content [post]
func (h *ContentHandler) Create(c *gin.Context) {
	var req domain.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	content, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, content, nil)
}

// Update handles PUT /api/v1/admin/content/:id
// @Summary Update content
// @Description Applies a patch and records a manual version snapshot of the result
// @Tags content
// @Accept json
// @Produce json
// @Param id path int true "content id"
// @Param request body domain.UpdateContentRequest true "fields to change"
// @Success 200 {object} common.APIResponse{data=domain.Content}
// @Failure 404 {object} common.APIResponse
// @Router /admin/content/{id} [put]
func (h *ContentHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req domain.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	content, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		common.FailWith(c, err)
		return
	}

	// Manual edits become addressable history. The update already
	// succeeded; a failed snapshot is logged, not surfaced.
	_, err = h.versions.Snapshot(c.Request.Context(), content.ID, &domain.SnapshotRequest{
		Title:      content.Title,
		Body:       content.Body,
		IsAutosave: false,
	})
	if err != nil {
		logger.GetLogger().Warn().Err(err).Uint("content_id", content.ID).Msg("version snapshot failed")
	}

	common.SuccessResponse(c, content, nil)
}

// Publish handles POST /api/v1/admin/content/:id/publish
// @Summary Publish content
// @Description Moves draft content to published; re-publishing keeps the original publish time
// @Tags content
// @Produce json
// @Param id path int true "content id"
// @Success 200 {object} common.APIResponse{data=domain.Content}
// @Failure 404 {object} common.APIResponse
// @Router /admin/content/{id}/publish [post]
func (h *ContentHandler) Publish(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	content, err := h.service.Publish(c.Request.Context(), id)
	if err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, content, nil)
}

// Delete handles DELETE /api/v1/admin/content/:id
// @Summary Soft-delete content
// @Description Marks content deleted; version history is retained
// @Tags content
// @Produce json
// @Param id path int true "content id"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /admin/content/{id} [delete]
func (h *ContentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.SoftDelete(c.Request.Context(), id); err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// List handles GET /api/v1/admin/content
// @Summary List content
// @Description Lists non-deleted content filtered by kind/status/search, ordered by sort order then newest first
// @Tags content
// @Produce json
// @Param kind query string false "article | photobook | page"
// @Param status query string false "draft | published"
// @Param search query string false "match against title, teaser, body"
// @Param limit query int false "page size"
// @Param offset query int false "pagination offset"
// @Success 200 {object} common.APIResponse{data=[]domain.Content}
// @Router /admin/content [get]
func (h *ContentHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filters := domain.ContentFilters{
		Kind:   c.Query("kind"),
		Status: c.Query("status"),
		Search: c.Query("search"),
		Limit:  limit,
		Offset: offset,
	}

	items, meta, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, items, meta)
}

// Reorder handles PUT /api/v1/admin/content/order
// @Summary Reorder content
// @Description Applies a full sort-order mapping in one transaction
// @Tags content
// @Accept json
// @Produce json
// @Param request body map[string]int true "content id to sort order"
// @Success 200 {object} common.APIResponse
// @Router /admin/content/order [put]
func (h *ContentHandler) Reorder(c *gin.Context) {
	var body map[string]int
	if err := c.ShouldBindJSON(&body); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	orders := make(map[uint]int, len(body))
	for rawID, order := range body {
		id, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid content id: "+rawID, err)
			return
		}
		orders[uint(id)] = order
	}

	if err := h.service.Reorder(c.Request.Context(), orders); err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"reordered": len(orders)}, nil)
}

// GetBySlug handles GET /api/v1/content/:kind/:slug
// @Summary Get published content by slug
// @Description Case-insensitive slug lookup among non-deleted, published content
// @Tags content
// @Produce json
// @Param kind path string true "article | photobook | page"
// @Param slug path string true "URL slug"
// @Success 200 {object} common.APIResponse{data=domain.Content}
// @Failure 404 {object} common.APIResponse
// @Router /content/{kind}/{slug} [get]
func (h *ContentHandler) GetBySlug(c *gin.Context) {
	kind := c.Param("kind")
	if !domain.ValidKind(kind) {
		common.FailWith(c, common.ErrInvalidKind)
		return
	}

	content, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"), kind)
	if err != nil {
		common.FailWith(c, err)
		return
	}
	// drafts are not public
	if !content.IsPublished() {
		common.FailWith(c, common.ErrContentNotFound)
		return
	}

	common.SuccessResponse(c, content, nil)
}

// GetPage handles GET /api/v1/content/:kind/:slug/pages/:page
// @Summary Get one page of a content item
// @Description Returns the nth page fragment split at embedded page-break markers
// @Tags content
// @Produce json
// @Param kind path string true "article | photobook | page"
// @Param slug path string true "URL slug"
// @Param page path int true "1-indexed page number"
// @Success 200 {object} common.APIResponse{data=service.ContentPage}
// @Failure 404 {object} common.APIResponse
// @Router /content/{kind}/{slug}/pages/{page} [get]
func (h *ContentHandler) GetPage(c *gin.Context) {
	kind := c.Param("kind")
	if !domain.ValidKind(kind) {
		common.FailWith(c, common.ErrInvalidKind)
		return
	}

	pageNum, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid page number", err)
		return
	}

	page, err := h.service.GetPage(c.Request.Context(), c.Param("slug"), kind, pageNum)
	if err != nil {
		common.FailWith(c, err)
		return
	}
	// drafts are not public
	if !page.Published {
		common.FailWith(c, common.ErrContentNotFound)
		return
	}

	common.SuccessResponse(c, page, nil)
}

// pathID parses the :id path parameter, responding 400 on garbage.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid content id", err)
		return 0, false
	}
	return uint(id), true
}
