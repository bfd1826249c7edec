package syncer

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"agenda-system/internal/entities"
	"agenda-system/internal/events"
	"agenda-system/internal/realtime"
	"agenda-system/internal/repositories"
	"agenda-system/pkg/constants"
	apperrors "agenda-system/pkg/errors"
	"agenda-system/pkg/eventbus"
)

type Options struct {
	// Debounce > 0 схлопывает пачку уведомлений в одно перечитывание на окно.
	Debounce time.Duration
}

type watcher interface {
	Key() Key
	Status() Status
	Resync()
	Teardown()
}

// Coordinator - реестр мониторов по ключу (таблица, id) с явным жизненным циклом.
type Coordinator struct {
	channel      realtime.Channel
	orderRepo    repositories.OrderRepositoryInterface
	activityRepo repositories.ActivityRepositoryInterface
	customerRepo repositories.CustomerRepositoryInterface
	bus          *eventbus.Bus
	opts         Options
	logger       *zap.Logger

	mu       sync.Mutex
	monitors map[Key]watcher
	closed   bool
}

func NewCoordinator(
	channel realtime.Channel,
	orderRepo repositories.OrderRepositoryInterface,
	activityRepo repositories.ActivityRepositoryInterface,
	customerRepo repositories.CustomerRepositoryInterface,
	bus *eventbus.Bus,
	opts Options,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		channel:      channel,
		orderRepo:    orderRepo,
		activityRepo: activityRepo,
		customerRepo: customerRepo,
		bus:          bus,
		opts:         opts,
		logger:       logger.Named("syncer"),
		monitors:     make(map[Key]watcher),
	}
}

// WatchOrder следит за одним заказом: строка заказа и его активности.
// DELETE заказа очищает снимок, последующий INSERT снова его заполняет.
func (c *Coordinator) WatchOrder(ctx context.Context, orderID uint64) (*Monitor[*entities.Order], error) {
	key := OrderKey(orderID)
	id := key.ID
	return watch(ctx, c, monitorConfig[*entities.Order]{
		key: key,
		op:  "FindOrderDetail",
		fetch: func(ctx context.Context) (*entities.Order, error) {
			return c.orderRepo.FindOrderDetail(ctx, orderID)
		},
		bindings: []binding{
			{table: constants.TableOrders, filter: realtime.Eq("id", id)},
			{table: constants.TableActivities, filter: realtime.Eq("order_id", id)},
		},
		clearOn: func(ch realtime.Change) bool {
			return ch.Table == constants.TableOrders && ch.Type == realtime.Delete
		},
	})
}

// WatchOrders следит за всеми заказами с активностями.
func (c *Coordinator) WatchOrders(ctx context.Context) (*Monitor[[]entities.Order], error) {
	return watch(ctx, c, monitorConfig[[]entities.Order]{
		key:   Key{Table: constants.TableOrders, ID: allRows},
		op:    "GetOrdersWithActivities",
		fetch: c.orderRepo.GetOrdersWithActivities,
		bindings: []binding{
			{table: constants.TableOrders},
			{table: constants.TableActivities},
		},
	})
}

func (c *Coordinator) WatchCustomers(ctx context.Context) (*Monitor[[]entities.Customer], error) {
	return watch(ctx, c, monitorConfig[[]entities.Customer]{
		key:      Key{Table: constants.TableCustomers, ID: allRows},
		op:       "GetCustomers",
		fetch:    c.customerRepo.GetCustomers,
		bindings: []binding{{table: constants.TableCustomers}},
	})
}

// WatchOperatorActivities следит за активностями, где responsible == имя оператора.
func (c *Coordinator) WatchOperatorActivities(ctx context.Context, responsible string) (*Monitor[[]entities.Activity], error) {
	return watch(ctx, c, monitorConfig[[]entities.Activity]{
		key: OperatorActivitiesKey(responsible),
		op:  "GetActivitiesByResponsible",
		fetch: func(ctx context.Context) ([]entities.Activity, error) {
			return c.activityRepo.GetActivitiesByResponsible(ctx, responsible)
		},
		bindings: []binding{
			{table: constants.TableActivities, filter: realtime.Eq("responsible", responsible)},
		},
	})
}

func OrderKey(orderID uint64) Key {
	return Key{Table: constants.TableOrders, ID: strconv.FormatUint(orderID, 10)}
}

func OperatorActivitiesKey(responsible string) Key {
	return Key{Table: constants.TableActivities, ID: "responsible=" + responsible}
}

// watch возвращает существующий монитор по ключу или создает новый.
func watch[T any](ctx context.Context, c *Coordinator, cfg monitorConfig[T]) (*Monitor[T], error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, apperrors.ErrMonitorClosed
	}
	if existing, ok := c.monitors[cfg.key]; ok && existing.Status().State != StateClosed {
		c.mu.Unlock()
		m, ok := existing.(*Monitor[T])
		if !ok {
			return nil, fmt.Errorf("монитор %s уже зарегистрирован с другим типом данных", cfg.key)
		}
		if err := m.Wait(ctx); err != nil {
			return nil, err
		}
		if m.Status().State == StateClosed {
			return nil, apperrors.ErrMonitorClosed
		}
		return m, nil
	}

	cfg.debounce = c.opts.Debounce
	cfg.onUpdate = c.publish
	m := newMonitor(ctx, c.channel, cfg, c.logger)
	c.monitors[cfg.key] = m
	c.mu.Unlock()

	c.logger.Info("Создан монитор", zap.String("key", cfg.key.String()))
	if err := m.start(); err != nil {
		c.mu.Lock()
		if current, ok := c.monitors[cfg.key]; ok && current == watcher(m) {
			delete(c.monitors, cfg.key)
		}
		c.mu.Unlock()
		return nil, err
	}
	// Отмена ctx прерывает только ожидание: монитор остается в реестре и дочитает данные.
	if err := m.Wait(ctx); err != nil {
		return nil, err
	}
	if m.Status().State == StateClosed {
		return nil, apperrors.ErrMonitorClosed
	}
	return m, nil
}

func (c *Coordinator) publish(key Key, version uint64, cleared bool) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(context.Background(), events.SnapshotUpdatedEvent{
		Table:   key.Table,
		ID:      key.ID,
		Version: version,
		Cleared: cleared,
	})
}

// Teardown закрывает монитор и убирает его из реестра.
func (c *Coordinator) Teardown(key Key) bool {
	c.mu.Lock()
	w, ok := c.monitors[key]
	delete(c.monitors, key)
	c.mu.Unlock()
	if !ok {
		return false
	}
	w.Teardown()
	return true
}

// ResyncAll перечитывает все мониторы. Вызывается после переподключения источника,
// когда часть уведомлений могла потеряться.
func (c *Coordinator) ResyncAll() {
	for _, w := range c.snapshotWatchers() {
		go w.Resync()
	}
}

// Statuses - состояние всех мониторов, отсортированное по ключу.
func (c *Coordinator) Statuses() []Status {
	watchers := c.snapshotWatchers()
	statuses := make([]Status, 0, len(watchers))
	for _, w := range watchers {
		statuses = append(statuses, w.Status())
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Key.String() < statuses[j].Key.String()
	})
	return statuses
}

func (c *Coordinator) snapshotWatchers() []watcher {
	c.mu.Lock()
	defer c.mu.Unlock()
	watchers := make([]watcher, 0, len(c.monitors))
	for _, w := range c.monitors {
		watchers = append(watchers, w)
	}
	return watchers
}

// Close закрывает все мониторы; новые после этого не создаются.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	monitors := c.monitors
	c.monitors = make(map[Key]watcher)
	c.mu.Unlock()

	for _, w := range monitors {
		w.Teardown()
	}
	c.logger.Info("Все мониторы закрыты", zap.Int("count", len(monitors)))
}
