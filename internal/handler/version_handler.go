package handler

import (
	"net/http"
	"strconv"

	"github.com/foliopress/foliopress-backend/internal/common"
	"github.com/foliopress/foliopress-backend/internal/domain"
	"github.com/foliopress/foliopress-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// VersionHandler handles version history requests for the admin editor
type VersionHandler struct {
	service service.VersionService
}

// NewVersionHandler creates a new VersionHandler
func NewVersionHandler(versionService service.VersionService) *VersionHandler {
	return &VersionHandler{service: versionService}
}

// Snapshot handles POST /api/v1/admin/content/:id/versions
// @Summary Save a version snapshot
// @Description Appends a manual or autosave snapshot with the next version number
// @Tags versions
// @Accept json
// @Produce json
// @Param id path int true "content id"
// @Param request body domain.SnapshotRequest true "snapshot payload"
// @Success 200 {object} common.APIResponse{data=domain.ContentVersion}
// @Failure 404 {object} common.APIResponse
// @Router /admin/content/{id}/versions [post]
func (h *VersionHandler) Snapshot(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req domain.SnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	version, err := h.service.Snapshot(c.Request.Context(), id, &req)
	if err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, version, nil)
}

// List handles GET /api/v1/admin/content/:id/versions
// @Summary List version history
// @Description Lists versions newest-first; works for soft-deleted content too
// @Tags versions
// @Produce json
// @Param id path int true "content id"
// @Success 200 {object} common.APIResponse{data=[]domain.VersionListItem}
// @Router /admin/content/{id}/versions [get]
func (h *VersionHandler) List(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	items, err := h.service.List(c.Request.Context(), id)
	if err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, items, nil)
}

// Restore handles GET /api/v1/admin/content/:id/versions/:version
// @Summary Fetch a stored snapshot
// @Description Returns the snapshot for the editor to apply; the content row is not modified
// @Tags versions
// @Produce json
// @Param id path int true "content id"
// @Param version path int true "version number"
// @Success 200 {object} common.APIResponse{data=domain.ContentVersion}
// @Failure 404 {object} common.APIResponse
// @Router /admin/content/{id}/versions/{version} [get]
func (h *VersionHandler) Restore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	versionNumber, err := strconv.Atoi(c.Param("version"))
	if err != nil || versionNumber < 1 {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid version number", err)
		return
	}

	version, err := h.service.Restore(c.Request.Context(), id, versionNumber)
	if err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, version, nil)
}

// Prune handles DELETE /api/v1/admin/content/:id/versions/autosaves
// @Summary Prune autosave versions
// @Description Deletes autosave versions beyond the keep most recent; manual saves are never pruned
// @Tags versions
// @Produce json
// @Param id path int true "content id"
// @Param keep query int false "autosaves to keep (default 5)"
// @Success 200 {object} common.APIResponse
// @Router /admin/content/{id}/versions/autosaves [delete]
func (h *VersionHandler) Prune(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	keep, err := strconv.Atoi(c.DefaultQuery("keep", "5"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid keep count", err)
		return
	}

	removed, err := h.service.PruneAutosaves(c.Request.Context(), id, keep)
	if err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"removed": removed}, nil)
}
