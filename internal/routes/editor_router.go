package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agenda-system/internal/controllers"
)

func runEditorRouter(secureGroup *echo.Group, svc Services, logger *zap.Logger) {
	orderCtrl := controllers.NewOrderController(svc.Order, logger)
	activityCtrl := controllers.NewActivityController(svc.Activity, logger)

	secureGroup.GET("/orders/:id", orderCtrl.GetOrder)
	secureGroup.PATCH("/orders/:id", orderCtrl.UpdateOrder)
	secureGroup.PATCH("/activities/:id", activityCtrl.UpdateActivity)
}
