package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agenda-system/internal/services"
	"agenda-system/pkg/utils"
)

type AgendaController struct {
	agendaService services.AgendaServiceInterface
	location      *time.Location
	logger        *zap.Logger
}

func NewAgendaController(agendaService services.AgendaServiceInterface, location *time.Location, logger *zap.Logger) *AgendaController {
	return &AgendaController{agendaService: agendaService, location: location, logger: logger}
}

// GetAgenda отдает повестку оператора. ETag - отпечаток содержимого, на совпадение отвечаем 304.
func (c *AgendaController) GetAgenda(ctx echo.Context) error {
	operatorID, err := utils.ParseUintParam(ctx, "operatorId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondAgenda(ctx, operatorID)
}

// GetMyAgenda - повестка оператора из токена.
func (c *AgendaController) GetMyAgenda(ctx echo.Context) error {
	operatorID, err := utils.GetOperatorIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondAgenda(ctx, operatorID)
}

func (c *AgendaController) respondAgenda(ctx echo.Context, operatorID uint64) error {
	reqCtx, cancel := utils.ContextWithTimeout(ctx, viewTimeoutSeconds)
	defer cancel()

	view, err := c.agendaService.GetAgenda(reqCtx, operatorID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	etag := `"` + strconv.FormatUint(view.Fingerprint, 16) + `"`
	ctx.Response().Header().Set("ETag", etag)
	if !view.Response.Stale && ctx.Request().Header.Get("If-None-Match") == etag {
		return ctx.NoContent(http.StatusNotModified)
	}
	return utils.SuccessResponse(ctx, view.Response, "Повестка успешно получена", http.StatusOK)
}

// ExportAgenda выгружает повестку оператора в Excel.
func (c *AgendaController) ExportAgenda(ctx echo.Context) error {
	operatorID, err := utils.ParseUintParam(ctx, "operatorId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	view, err := c.agendaService.GetAgenda(ctx.Request().Context(), operatorID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	f, err := services.BuildAgendaWorkbook(view.Operator.WorkerName, view.Response.Data, c.location)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer f.Close()

	fileName := services.AgendaExportFileName(view.Operator.WorkerName, time.Now().In(c.location))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
