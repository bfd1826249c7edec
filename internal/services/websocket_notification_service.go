package services

import (
	"context"

	"go.uber.org/zap"
)

// Типы сообщений WebSocket.
const (
	MessageDashboardUpdated = "dashboard.updated"
	MessageCalendarUpdated  = "calendar.updated"
	MessageAgendaUpdated    = "agenda.updated"
	MessageOrderUpdated     = "order.updated"
)

// Pusher - то, что нужно сервису от WebSocket-хаба.
type Pusher interface {
	Broadcast(payload interface{}, messageType string) error
	SendMessageToOperator(operatorID uint64, payload interface{}, messageType string) error
	ConnectedOperators() []uint64
}

type WebSocketNotificationServiceInterface interface {
	PushDashboard(ctx context.Context)
	PushCalendar(ctx context.Context)
	PushAgendas(ctx context.Context)
	PushOrderChanged(orderID string, version uint64, cleared bool)
}

// OrderChangedPayload - сигнал, что снимок заказа изменился; данные клиент берет через GET.
type OrderChangedPayload struct {
	OrderID string `json:"orderId"`
	Version uint64 `json:"version"`
	Deleted bool   `json:"deleted"`
}

type WebSocketNotificationService struct {
	pusher    Pusher
	dashboard DashboardServiceInterface
	calendar  CalendarServiceInterface
	agenda    AgendaServiceInterface
	logger    *zap.Logger
}

func NewWebSocketNotificationService(
	pusher Pusher,
	dashboard DashboardServiceInterface,
	calendar CalendarServiceInterface,
	agenda AgendaServiceInterface,
	logger *zap.Logger,
) WebSocketNotificationServiceInterface {
	return &WebSocketNotificationService{
		pusher:    pusher,
		dashboard: dashboard,
		calendar:  calendar,
		agenda:    agenda,
		logger:    logger,
	}
}

func (s *WebSocketNotificationService) PushDashboard(ctx context.Context) {
	if len(s.pusher.ConnectedOperators()) == 0 {
		return
	}
	resp, err := s.dashboard.GetDashboard(ctx)
	if err != nil {
		s.logger.Error("Не удалось собрать сводку для отправки", zap.Error(err))
		return
	}
	if err := s.pusher.Broadcast(resp, MessageDashboardUpdated); err != nil {
		s.logger.Error("Не удалось отправить сводку", zap.Error(err))
	}
}

func (s *WebSocketNotificationService) PushCalendar(ctx context.Context) {
	if len(s.pusher.ConnectedOperators()) == 0 {
		return
	}
	resp, err := s.calendar.GetOrganizationCalendar(ctx)
	if err != nil {
		s.logger.Error("Не удалось собрать календарь для отправки", zap.Error(err))
		return
	}
	if err := s.pusher.Broadcast(resp, MessageCalendarUpdated); err != nil {
		s.logger.Error("Не удалось отправить календарь", zap.Error(err))
	}
}

// PushAgendas отправляет повестку каждому подключенному оператору, если её
// отпечаток ещё не уходил. Повестку мог уже пересобрать GET, поэтому Changed не решает.
func (s *WebSocketNotificationService) PushAgendas(ctx context.Context) {
	for _, operatorID := range s.pusher.ConnectedOperators() {
		view, err := s.agenda.GetAgenda(ctx, operatorID)
		if err != nil {
			s.logger.Warn("Не удалось собрать повестку оператора", zap.Uint64("operatorID", operatorID), zap.Error(err))
			continue
		}
		if !s.agenda.ShouldPush(ctx, operatorID, view.Fingerprint) {
			s.logger.Debug("Повестка не изменилась", zap.Uint64("operatorID", operatorID), zap.Bool("rebuilt", view.Changed))
			continue
		}
		if err := s.pusher.SendMessageToOperator(operatorID, view.Response, MessageAgendaUpdated); err != nil {
			s.logger.Error("Не удалось отправить повестку", zap.Uint64("operatorID", operatorID), zap.Error(err))
		}
	}
}

func (s *WebSocketNotificationService) PushOrderChanged(orderID string, version uint64, cleared bool) {
	payload := OrderChangedPayload{OrderID: orderID, Version: version, Deleted: cleared}
	if err := s.pusher.Broadcast(payload, MessageOrderUpdated); err != nil {
		s.logger.Error("Не удалось отправить изменение заказа", zap.String("orderID", orderID), zap.Error(err))
	}
}
