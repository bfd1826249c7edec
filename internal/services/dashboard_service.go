package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"agenda-system/internal/dto"
	"agenda-system/internal/syncer"
	"agenda-system/internal/views"
)

type DashboardServiceInterface interface {
	GetDashboard(ctx context.Context) (dto.ViewResponseDTO[dto.DashboardStatsDTO], error)
}

type dashboardMemo struct {
	version uint64
	minute  time.Time
	resp    dto.ViewResponseDTO[dto.DashboardStatsDTO]
}

type DashboardService struct {
	coordinator *syncer.Coordinator
	opts        views.DashboardOptions
	location    *time.Location
	now         func() time.Time
	logger      *zap.Logger

	mu   sync.Mutex
	memo *dashboardMemo
}

func NewDashboardService(
	coordinator *syncer.Coordinator,
	opts views.DashboardOptions,
	location *time.Location,
	logger *zap.Logger,
) *DashboardService {
	if location == nil {
		location = time.Local
	}
	return &DashboardService{
		coordinator: coordinator,
		opts:        opts,
		location:    location,
		now:         time.Now,
		logger:      logger,
	}
}

// GetDashboard пересчитывает сводку только при новой версии снимка заказов
// или при смене минуты: просрочки и "сегодня" зависят от текущего времени.
func (s *DashboardService) GetDashboard(ctx context.Context) (dto.ViewResponseDTO[dto.DashboardStatsDTO], error) {
	var resp dto.ViewResponseDTO[dto.DashboardStatsDTO]

	monitor, err := s.coordinator.WatchOrders(ctx)
	if err != nil {
		return resp, err
	}
	orders, _ := monitor.Snapshot()
	status := monitor.Status()
	if err := viewState(&resp, status); err != nil {
		return resp, err
	}

	now := s.now().In(s.location)
	minute := now.Truncate(time.Minute)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.memo != nil && s.memo.version == status.Version && s.memo.minute.Equal(minute) {
		cached := s.memo.resp
		cached.Stale, cached.Error = resp.Stale, resp.Error
		return cached, nil
	}

	resp.Data = views.BuildDashboardStats(orders, now, s.opts)
	s.memo = &dashboardMemo{version: status.Version, minute: minute, resp: resp}
	s.logger.Debug("Сводка пересчитана", zap.Uint64("version", status.Version), zap.Time("minute", minute))
	return resp, nil
}
