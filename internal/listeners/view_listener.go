package listeners

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"agenda-system/internal/events"
	"agenda-system/internal/services"
	"agenda-system/pkg/constants"
	"agenda-system/pkg/eventbus"
)

// pendingPush - что нужно разослать по истечении окна группировки.
type pendingPush struct {
	dashboard bool
	calendar  bool
	agendas   bool
	orders    map[string]events.SnapshotUpdatedEvent
}

func (p *pendingPush) empty() bool {
	return !p.dashboard && !p.calendar && !p.agendas && len(p.orders) == 0
}

// ViewListener пересылает клиентам пересчитанные представления после обновления снимков.
// События за окно window схлопываются в одну рассылку.
type ViewListener struct {
	wsNotificationService services.WebSocketNotificationServiceInterface
	window                time.Duration
	logger                *zap.Logger

	mu      sync.Mutex
	pending pendingPush
	timer   *time.Timer
}

func NewViewListener(
	wsNotificationService services.WebSocketNotificationServiceInterface,
	window time.Duration,
	logger *zap.Logger,
) *ViewListener {
	return &ViewListener{
		wsNotificationService: wsNotificationService,
		window:                window,
		logger:                logger,
	}
}

func (l *ViewListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.SnapshotUpdatedEvent{}.Name(), l.handleSnapshotUpdated)
	bus.Subscribe(events.DayRolledOverEvent{}.Name(), l.handleDayRolledOver)
	l.logger.Info("ViewListener подписан на 'snapshot.updated' и 'day.rolled_over'")
}

func (l *ViewListener) handleSnapshotUpdated(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.SnapshotUpdatedEvent)
	if !ok {
		return nil
	}

	l.enqueue(func(p *pendingPush) {
		switch {
		case e.Table == constants.TableOrders && e.ID == "*":
			p.dashboard = true
			p.calendar = true
			p.agendas = true
		case e.Table == constants.TableOrders:
			if p.orders == nil {
				p.orders = make(map[string]events.SnapshotUpdatedEvent)
			}
			p.orders[e.ID] = e
		case e.Table == constants.TableActivities && strings.HasPrefix(e.ID, "responsible="):
			p.agendas = true
		case e.Table == constants.TableCustomers:
			p.agendas = true
		}
	})
	return nil
}

func (l *ViewListener) handleDayRolledOver(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.DayRolledOverEvent)
	if !ok {
		return nil
	}
	l.logger.Info("Новый день, сводка будет пересчитана", zap.Time("today", e.Today))
	l.enqueue(func(p *pendingPush) { p.dashboard = true })
	return nil
}

func (l *ViewListener) enqueue(mark func(p *pendingPush)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	mark(&l.pending)
	if l.pending.empty() || l.timer != nil {
		return
	}
	l.timer = time.AfterFunc(l.window, func() {
		l.flush(context.Background())
	})
}

func (l *ViewListener) flush(ctx context.Context) {
	l.mu.Lock()
	p := l.pending
	l.pending = pendingPush{}
	l.timer = nil
	l.mu.Unlock()

	if p.dashboard {
		l.wsNotificationService.PushDashboard(ctx)
	}
	if p.calendar {
		l.wsNotificationService.PushCalendar(ctx)
	}
	if p.agendas {
		l.wsNotificationService.PushAgendas(ctx)
	}
	for id, e := range p.orders {
		l.wsNotificationService.PushOrderChanged(id, e.Version, e.Cleared)
	}
}
