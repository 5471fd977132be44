package routes

import (
	"github.com/foliopress/foliopress-backend/internal/handler"
	"github.com/foliopress/foliopress-backend/internal/middleware"
	"github.com/foliopress/foliopress-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	contentHandler *handler.ContentHandler,
	versionHandler *handler.VersionHandler,
	settingHandler *handler.SettingHandler,
	settings service.SettingService,
) {
	api := router.Group("/api/v1")

	// Public read surface, gated by maintenance mode
	public := api.Group("/content", middleware.Maintenance(settings))
	{
		public.GET("/:kind/:slug", contentHandler.GetBySlug)
		public.GET("/:kind/:slug/pages/:page", contentHandler.GetPage)
	}

	// Admin write surface. Authentication is terminated upstream (reverse
	// proxy / session tier); this service trusts the admin network path.
	admin := api.Group("/admin")
	{
		content := admin.Group("/content")
		{
			content.GET("", contentHandler.List)
			content.POST("", contentHandler.Create)
			content.PUT("/order", contentHandler.Reorder)
			content.PUT("/:id", contentHandler.Update)
			content.DELETE("/:id", contentHandler.Delete)
			content.POST("/:id/publish", contentHandler.Publish)

			versions := content.Group("/:id/versions")
			{
				versions.GET("", versionHandler.List)
				versions.POST("", versionHandler.Snapshot)
				versions.DELETE("/autosaves", versionHandler.Prune)
				versions.GET("/:version", versionHandler.Restore)
			}
		}

		settingsGroup := admin.Group("/settings")
		{
			settingsGroup.GET("", settingHandler.List)
			settingsGroup.PUT("", settingHandler.Set)
		}
	}
}
