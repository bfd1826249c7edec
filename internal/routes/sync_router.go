package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agenda-system/internal/controllers"
	"agenda-system/internal/services"
)

func runSyncRouter(secureGroup *echo.Group, syncService services.SyncServiceInterface, logger *zap.Logger) {
	syncCtrl := controllers.NewSyncController(syncService, logger)

	syncGroup := secureGroup.Group("/sync")
	syncGroup.GET("/status", syncCtrl.GetStatus)
	syncGroup.POST("/resync", syncCtrl.Resync)
	syncGroup.DELETE("/monitors/:table/:id", syncCtrl.TeardownMonitor)
}
