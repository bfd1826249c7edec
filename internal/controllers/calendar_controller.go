package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agenda-system/internal/services"
	"agenda-system/pkg/utils"
)

type CalendarController struct {
	calendarService services.CalendarServiceInterface
	logger          *zap.Logger
}

func NewCalendarController(calendarService services.CalendarServiceInterface, logger *zap.Logger) *CalendarController {
	return &CalendarController{calendarService: calendarService, logger: logger}
}

func (c *CalendarController) GetOrganizationCalendar(ctx echo.Context) error {
	reqCtx, cancel := utils.ContextWithTimeout(ctx, viewTimeoutSeconds)
	defer cancel()

	res, err := c.calendarService.GetOrganizationCalendar(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Календарь успешно получен", http.StatusOK)
}
