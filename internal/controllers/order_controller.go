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

type OrderController struct {
	orderService services.OrderServiceInterface
	logger       *zap.Logger
}

func NewOrderController(orderService services.OrderServiceInterface, logger *zap.Logger) *OrderController {
	return &OrderController{orderService: orderService, logger: logger}
}

func (c *OrderController) GetOrder(ctx echo.Context) error {
	id, err := utils.ParseUintParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.requestLogger(ctx))
	}

	res, err := c.orderService.GetOrder(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.requestLogger(ctx))
	}
	return utils.SuccessResponse(ctx, res, "Заказ успешно получен", http.StatusOK)
}

func (c *OrderController) UpdateOrder(ctx echo.Context) error {
	id, err := utils.ParseUintParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.requestLogger(ctx))
	}

	var payload dto.UpdateOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат запроса", err, nil), c.requestLogger(ctx))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.requestLogger(ctx))
	}

	if err := c.orderService.UpdateOrder(ctx.Request().Context(), id, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.requestLogger(ctx))
	}
	return utils.SuccessResponse(ctx, nil, "Заказ успешно обновлен", http.StatusOK)
}

func (c *OrderController) requestLogger(ctx echo.Context) *zap.Logger {
	return middleware.LoggerFromContext(ctx, c.logger)
}
