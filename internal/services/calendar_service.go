package services

import (
	"context"

	"go.uber.org/zap"

	"agenda-system/internal/dto"
	"agenda-system/internal/syncer"
	"agenda-system/internal/views"
)

type CalendarServiceInterface interface {
	GetOrganizationCalendar(ctx context.Context) (dto.ViewResponseDTO[[]dto.CalendarEventDTO], error)
}

type CalendarService struct {
	coordinator *syncer.Coordinator
	logger      *zap.Logger
}

func NewCalendarService(coordinator *syncer.Coordinator, logger *zap.Logger) CalendarServiceInterface {
	return &CalendarService{coordinator: coordinator, logger: logger}
}

func (s *CalendarService) GetOrganizationCalendar(ctx context.Context) (dto.ViewResponseDTO[[]dto.CalendarEventDTO], error) {
	var resp dto.ViewResponseDTO[[]dto.CalendarEventDTO]

	monitor, err := s.coordinator.WatchOrders(ctx)
	if err != nil {
		return resp, err
	}
	orders, _ := monitor.Snapshot()
	if err := viewState(&resp, monitor.Status()); err != nil {
		return resp, err
	}

	resp.Data = views.ProjectOrganizationCalendar(orders)
	return resp, nil
}
