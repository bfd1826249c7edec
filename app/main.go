package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"agenda-system/internal/listeners"
	"agenda-system/internal/realtime"
	"agenda-system/internal/repositories"
	"agenda-system/internal/routes"
	"agenda-system/internal/scheduler"
	"agenda-system/internal/services"
	"agenda-system/internal/syncer"
	"agenda-system/internal/views"
	"agenda-system/pkg/config"
	"agenda-system/pkg/customvalidator"
	"agenda-system/pkg/database/postgresql"
	apperrors "agenda-system/pkg/errors"
	"agenda-system/pkg/eventbus"
	applogger "agenda-system/pkg/logger"
	"agenda-system/pkg/service"
	"agenda-system/pkg/utils"
	"agenda-system/pkg/websocket"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Echo и middleware
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "If-None-Match"},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition, "ETag"},
	}))

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("Ошибка регистрации кастомных правил валидации", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	// 2. Хранилища
	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatal("не удалось подключиться к базе данных", zap.Error(err))
	}
	defer dbConn.Close()
	if err := postgresql.Migrate(ctx, dbConn, logger); err != nil {
		logger.Fatal("не удалось применить миграции", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, logger)

	orderRepo := repositories.NewOrderRepository(dbConn, logger)
	activityRepo := repositories.NewActivityRepository(dbConn, logger)
	customerRepo := repositories.NewCustomerRepository(dbConn, logger)
	operatorRepo := repositories.NewOperatorRepository(dbConn, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient, "agenda")
	txManager := repositories.NewTxManager(dbConn)

	// 3. Канал изменений и мониторы
	changeHub := realtime.NewHub(logger)
	defer changeHub.Close()
	bus := eventbus.New(logger)

	coordinator := syncer.NewCoordinator(changeHub, orderRepo, activityRepo, customerRepo, bus,
		syncer.Options{Debounce: cfg.Sync.Debounce}, logger)
	changeHub.OnReconnect(coordinator.ResyncAll)

	for _, source := range notifySources(cfg, dbConn, redisClient, changeHub, logger) {
		go func(s realtime.Source) {
			logger.Info("Запуск источника уведомлений", zap.String("source", s.Name()))
			if err := s.Run(ctx); err != nil {
				logger.Error("Источник уведомлений завершился с ошибкой", zap.String("source", s.Name()), zap.Error(err))
			}
		}(source)
	}

	// 4. Сервисы
	location := cfg.Dashboard.Location()
	dashboardService := services.NewDashboardService(coordinator, views.DashboardOptions{
		LeadingAdvisory:  cfg.Dashboard.LeadingAdvisory,
		TrailingAdvisory: cfg.Dashboard.TrailingAdvisory,
	}, location, logger)
	calendarService := services.NewCalendarService(coordinator, logger)
	agendaService := services.NewAgendaService(coordinator, operatorRepo, cacheRepo, cfg.Server.InstanceID, logger)

	wsHub := websocket.NewHub(logger)
	wsHub.OnOperatorGone(func(operatorID uint64) {
		agendaService.Forget(context.Background(), operatorID)
	})
	go wsHub.Run()

	wsNotificationService := services.NewWebSocketNotificationService(wsHub, dashboardService, calendarService, agendaService, logger)
	listeners.NewViewListener(wsNotificationService, cfg.Sync.PushWindow, logger).Register(bus)

	rollover := scheduler.NewRollover(bus, location, logger)
	if err := rollover.Start(cfg.Dashboard.RolloverCron); err != nil {
		logger.Fatal("неверное расписание смены дня", zap.String("cron", cfg.Dashboard.RolloverCron), zap.Error(err))
	}

	// 5. Роуты
	routes.InitRouter(e, routes.Services{
		Dashboard: dashboardService,
		Calendar:  calendarService,
		Agenda:    agendaService,
		Order:     services.NewOrderService(coordinator, txManager, orderRepo, logger),
		Activity:  services.NewActivityService(txManager, activityRepo, logger),
		Sync:      services.NewSyncService(coordinator),
	}, wsHub, jwtSvc, location, cfg, &routes.Loggers{
		Main:  logger,
		Auth:  logger.Named("auth"),
		Views: logger.Named("views"),
		Sync:  logger.Named("sync"),
	})

	// 6. Запуск и остановка
	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port), zap.String("instance", cfg.Server.InstanceID))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Получен сигнал остановки, завершаем работу")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	rollover.Stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки HTTP-сервера", zap.Error(err))
	}
	coordinator.Close()
	if err := bus.Drain(shutdownCtx); err != nil {
		logger.Warn("Не все обработчики событий завершились", zap.Error(err))
	}
	wsHub.Stop()
	logger.Info("Сервер остановлен")
}

// notifySources выбирает источники уведомлений по NOTIFY_SOURCE. С Relay уведомления
// Postgres дополнительно публикуются в Redis для реплик, которые слушают только его.
func notifySources(cfg *config.Config, dbConn *pgxpool.Pool, redisClient *redis.Client, hub *realtime.Hub, logger *zap.Logger) []realtime.Source {
	n := cfg.Notify
	var sources []realtime.Source

	if n.Source == config.NotifySourcePostgres || n.Source == config.NotifySourceBoth {
		pg := realtime.NewPGListener(dbConn, n.Channel, hub, n.Reconnect, logger)
		if n.Relay && n.Source == config.NotifySourcePostgres {
			relay := realtime.NewRedisSource(redisClient, n.Channel, hub, n.Reconnect, logger)
			pg.SetRelay(relay.Publish)
		}
		sources = append(sources, pg)
	}
	if n.Source == config.NotifySourceRedis || n.Source == config.NotifySourceBoth {
		sources = append(sources, realtime.NewRedisSource(redisClient, n.Channel, hub, n.Reconnect, logger))
	}
	if len(sources) == 0 {
		logger.Fatal("неизвестный источник уведомлений", zap.String("NOTIFY_SOURCE", n.Source))
	}
	return sources
}
