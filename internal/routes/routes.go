package routes

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agenda-system/internal/controllers"
	"agenda-system/internal/services"
	"agenda-system/pkg/config"
	"agenda-system/pkg/middleware"
	"agenda-system/pkg/service"
	"agenda-system/pkg/websocket"
)

type Loggers struct {
	Main  *zap.Logger
	Auth  *zap.Logger
	Views *zap.Logger
	Sync  *zap.Logger
}

// Services - собранные в main сервисы; роутер только раскладывает их по контроллерам.
type Services struct {
	Dashboard services.DashboardServiceInterface
	Calendar  services.CalendarServiceInterface
	Agenda    services.AgendaServiceInterface
	Order     services.OrderServiceInterface
	Activity  services.ActivityServiceInterface
	Sync      services.SyncServiceInterface
}

func InitRouter(e *echo.Echo, svc Services, hub *websocket.Hub, jwtSvc service.JWTService, location *time.Location, cfg *config.Config, loggers *Loggers) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	e.Use(middleware.RequestLogger(loggers.Main.Named("http")))

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)
	secureGroup := api.Group("", authMW.Auth)

	runViewsRouter(secureGroup, svc, location, loggers.Views)
	runEditorRouter(secureGroup, svc, loggers.Main)
	runSyncRouter(secureGroup, svc.Sync, loggers.Sync)

	wsController := controllers.NewWebSocketController(hub, jwtSvc, cfg.Server.AllowedOrigins, loggers.Auth)
	e.GET("/ws", wsController.ServeWs)

	loggers.Main.Info("InitRouter: Создание маршрутов завершено")
}
