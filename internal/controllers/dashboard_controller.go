package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agenda-system/internal/services"
	"agenda-system/pkg/utils"
)

// viewTimeoutSeconds ограничивает ожидание первого снимка при создании монитора.
const viewTimeoutSeconds = 10

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	logger           *zap.Logger
}

func NewDashboardController(dashboardService services.DashboardServiceInterface, logger *zap.Logger) *DashboardController {
	return &DashboardController{dashboardService: dashboardService, logger: logger}
}

func (c *DashboardController) GetDashboard(ctx echo.Context) error {
	reqCtx, cancel := utils.ContextWithTimeout(ctx, viewTimeoutSeconds)
	defer cancel()

	res, err := c.dashboardService.GetDashboard(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Сводка успешно получена", http.StatusOK)
}
