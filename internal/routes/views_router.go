package routes

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agenda-system/internal/controllers"
)

func runViewsRouter(secureGroup *echo.Group, svc Services, location *time.Location, logger *zap.Logger) {
	dashboardCtrl := controllers.NewDashboardController(svc.Dashboard, logger)
	calendarCtrl := controllers.NewCalendarController(svc.Calendar, logger)
	agendaCtrl := controllers.NewAgendaController(svc.Agenda, location, logger)

	secureGroup.GET("/dashboard", dashboardCtrl.GetDashboard)
	secureGroup.GET("/calendar", calendarCtrl.GetOrganizationCalendar)

	agenda := secureGroup.Group("/agenda")
	agenda.GET("/me", agendaCtrl.GetMyAgenda)
	agenda.GET("/:operatorId", agendaCtrl.GetAgenda)
	agenda.GET("/:operatorId/export", agendaCtrl.ExportAgenda)
}
