package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agenda-system/internal/dto"
)

type sentMessage struct {
	operatorID  uint64
	messageType string
	payload     interface{}
}

type fakePusher struct {
	mu        sync.Mutex
	operators []uint64
	broadcast []sentMessage
	direct    []sentMessage
}

func (p *fakePusher) Broadcast(payload interface{}, messageType string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.broadcast = append(p.broadcast, sentMessage{messageType: messageType, payload: payload})
	return nil
}

func (p *fakePusher) SendMessageToOperator(operatorID uint64, payload interface{}, messageType string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.direct = append(p.direct, sentMessage{operatorID: operatorID, messageType: messageType, payload: payload})
	return nil
}

func (p *fakePusher) ConnectedOperators() []uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]uint64(nil), p.operators...)
}

type countingDashboard struct {
	calls int
}

func (d *countingDashboard) GetDashboard(ctx context.Context) (dto.ViewResponseDTO[dto.DashboardStatsDTO], error) {
	d.calls++
	return dto.ViewResponseDTO[dto.DashboardStatsDTO]{Data: dto.EmptyDashboardStats(), Version: 3}, nil
}

type failingCalendar struct{}

func (failingCalendar) GetOrganizationCalendar(ctx context.Context) (dto.ViewResponseDTO[[]dto.CalendarEventDTO], error) {
	return dto.ViewResponseDTO[[]dto.CalendarEventDTO]{}, errors.New("no snapshot")
}

func TestWebSocketNotificationService_SkipsWithoutConnections(t *testing.T) {
	pusher := &fakePusher{}
	dashboard := &countingDashboard{}
	svc := NewWebSocketNotificationService(pusher, dashboard, failingCalendar{}, nil, zap.NewNop())

	svc.PushDashboard(context.Background())
	assert.Zero(t, dashboard.calls, "сводка не считается, если слушать некому")
	assert.Empty(t, pusher.broadcast)

	pusher.operators = []uint64{1}
	svc.PushDashboard(context.Background())
	assert.Equal(t, 1, dashboard.calls)
	require.Len(t, pusher.broadcast, 1)
	assert.Equal(t, MessageDashboardUpdated, pusher.broadcast[0].messageType)

	svc.PushCalendar(context.Background())
	assert.Len(t, pusher.broadcast, 1, "ошибка сборки календаря не отправляется")
}

func TestWebSocketNotificationService_PushAgendasOncePerFingerprint(t *testing.T) {
	ctx := context.Background()
	store, agenda, touch := newAgendaFixture(t)
	pusher := &fakePusher{operators: []uint64{1, 99}}
	svc := NewWebSocketNotificationService(pusher, &countingDashboard{}, failingCalendar{}, agenda, zap.NewNop())

	svc.PushAgendas(ctx)
	require.Len(t, pusher.direct, 1, "оператор 99 не найден и пропускается")
	assert.Equal(t, uint64(1), pusher.direct[0].operatorID)
	assert.Equal(t, MessageAgendaUpdated, pusher.direct[0].messageType)

	// GET уже пересобрал повестку, но отправки ещё не было: отпечаток тот же, повтора нет.
	_, err := agenda.GetAgenda(ctx, 1)
	require.NoError(t, err)
	svc.PushAgendas(ctx)
	assert.Len(t, pusher.direct, 1)

	a := store.activity(10)
	a.Name = "Rilievo misure"
	store.putActivity(a)
	touch()
	require.Eventually(t, func() bool {
		v, err := agenda.GetAgenda(ctx, 1)
		return err == nil && v.Response.Data[0].Title == "Rossi - Cucina - Rilievo misure - in corso"
	}, waitFor, tick)

	svc.PushAgendas(ctx)
	require.Len(t, pusher.direct, 2)
	payload, ok := pusher.direct[1].payload.(dto.ViewResponseDTO[[]dto.AgendaEntryDTO])
	require.True(t, ok)
	assert.Equal(t, "Rossi - Cucina - Rilievo misure - in corso", payload.Data[0].Title)
}

func TestWebSocketNotificationService_PushOrderChanged(t *testing.T) {
	pusher := &fakePusher{}
	svc := NewWebSocketNotificationService(pusher, &countingDashboard{}, failingCalendar{}, nil, zap.NewNop())

	svc.PushOrderChanged("7", 4, true)
	require.Len(t, pusher.broadcast, 1)
	assert.Equal(t, MessageOrderUpdated, pusher.broadcast[0].messageType)
	assert.Equal(t, OrderChangedPayload{OrderID: "7", Version: 4, Deleted: true}, pusher.broadcast[0].payload)
}
