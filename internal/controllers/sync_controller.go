package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agenda-system/internal/services"
	"agenda-system/pkg/utils"
)

type SyncController struct {
	syncService services.SyncServiceInterface
	logger      *zap.Logger
}

func NewSyncController(syncService services.SyncServiceInterface, logger *zap.Logger) *SyncController {
	return &SyncController{syncService: syncService, logger: logger}
}

func (c *SyncController) GetStatus(ctx echo.Context) error {
	return utils.SuccessResponse(ctx, c.syncService.GetStatuses(), "Состояние мониторов", http.StatusOK)
}

// Resync принудительно перечитывает все мониторы; ответ не ждет окончания чтений.
func (c *SyncController) Resync(ctx echo.Context) error {
	c.syncService.ResyncAll()
	return utils.SuccessResponse(ctx, nil, "Перечитывание запущено", http.StatusAccepted)
}

func (c *SyncController) TeardownMonitor(ctx echo.Context) error {
	if err := c.syncService.Teardown(ctx.Param("table"), ctx.Param("id")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Монитор закрыт", http.StatusOK)
}
