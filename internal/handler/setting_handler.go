package handler

import (
	"net/http"

	"github.com/foliopress/foliopress-backend/internal/common"
	"github.com/foliopress/foliopress-backend/internal/domain"
	"github.com/foliopress/foliopress-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// SettingHandler handles site settings requests
type SettingHandler struct {
	service service.SettingService
}

// NewSettingHandler creates a new SettingHandler
func NewSettingHandler(settingService service.SettingService) *SettingHandler {
	return &SettingHandler{service: settingService}
}

// List handles GET /api/v1/admin/settings
// @Summary List all settings
// @Tags settings
// @Produce json
// @Success 200 {object} common.APIResponse{data=[]domain.Setting}
// @Router /admin/settings [get]
func (h *SettingHandler) List(c *gin.Context) {
	settings, err := h.service.All(c.Request.Context())
	if err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, settings, nil)
}

// Set handles PUT /api/v1/admin/settings
// @Summary Upsert a setting
// @Tags settings
// @Accept json
// @Produce json
// @Param request body domain.SetSettingRequest true "setting to store"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Router /admin/settings [put]
func (h *SettingHandler) Set(c *gin.Context) {
	var req domain.SetSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.service.Set(c.Request.Context(), &req); err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"key": req.Key}, nil)
}
