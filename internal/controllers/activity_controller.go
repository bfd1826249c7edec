package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agenda-system/internal/dto"
	"agenda-system/internal/services"
	apperrors "agenda-system/pkg/errors"
	"agenda-system/pkg/middleware"
	"agenda-system/pkg/utils"
)

type ActivityController struct {
	activityService services.ActivityServiceInterface
	logger          *zap.Logger
}

func NewActivityController(activityService services.ActivityServiceInterface, logger *zap.Logger) *ActivityController {
	return &ActivityController{activityService: activityService, logger: logger}
}

func (c *ActivityController) UpdateActivity(ctx echo.Context) error {
	id, err := utils.ParseUintParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.requestLogger(ctx))
	}

	var payload dto.UpdateActivityDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат запроса", err, nil), c.requestLogger(ctx))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.requestLogger(ctx))
	}

	res, err := c.activityService.UpdateActivity(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.requestLogger(ctx))
	}
	return utils.SuccessResponse(ctx, res, "Активность успешно обновлена", http.StatusOK)
}

func (c *ActivityController) requestLogger(ctx echo.Context) *zap.Logger {
	return middleware.LoggerFromContext(ctx, c.logger)
}
