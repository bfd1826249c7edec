package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"agenda-system/internal/entities"
	"agenda-system/internal/realtime"
	"agenda-system/internal/syncer"
	"agenda-system/pkg/constants"
	apperrors "agenda-system/pkg/errors"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// memStore - хранилище записей в памяти; реализует все интерфейсы репозиториев.
type memStore struct {
	mu         sync.Mutex
	orders     map[uint64]entities.Order
	activities map[uint64]entities.Activity
	customers  []entities.Customer
	operators  map[uint64]entities.Operator
	err        error
	ordersErr  error
	lastFields map[string]interface{}
}

func newMemStore() *memStore {
	return &memStore{
		orders:     make(map[uint64]entities.Order),
		activities: make(map[uint64]entities.Activity),
		operators:  make(map[uint64]entities.Operator),
	}
}

func (m *memStore) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	m.ordersErr = err
}

// setOrdersErr ломает только чтение заказов.
func (m *memStore) setOrdersErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ordersErr = err
}

func (m *memStore) putOrder(o entities.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
}

func (m *memStore) putActivity(a entities.Activity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activities[a.ID] = a
}

func (m *memStore) activity(id uint64) entities.Activity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activities[id]
}

func (m *memStore) fields() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFields
}

func (m *memStore) GetOrdersWithActivities(ctx context.Context) ([]entities.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ordersErr != nil {
		return nil, m.ordersErr
	}
	orders := make([]entities.Order, 0, len(m.orders))
	for _, o := range m.orders {
		o.Activities = m.activitiesOf(o.ID)
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (m *memStore) FindOrderDetail(ctx context.Context, id uint64) (*entities.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ordersErr != nil {
		return nil, m.ordersErr
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	o.Activities = m.activitiesOf(id)
	return &o, nil
}

func (m *memStore) UpdateOrderFields(ctx context.Context, tx pgx.Tx, id uint64, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return apperrors.ErrNotFound
	}
	m.lastFields = fields
	return nil
}

// activitiesOf вызывается под m.mu.
func (m *memStore) activitiesOf(orderID uint64) []entities.Activity {
	out := make([]entities.Activity, 0)
	for _, a := range m.activities {
		if a.OrderID == orderID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) GetActivitiesByResponsible(ctx context.Context, responsible string) ([]entities.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]entities.Activity, 0)
	for _, a := range m.activities {
		if a.Responsible == responsible {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) FindActivity(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.activities[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (m *memStore) UpdateActivity(ctx context.Context, tx pgx.Tx, id uint64, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.activities[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	m.lastFields = fields
	if v, ok := fields["status"].(string); ok {
		a.Status = constants.ParseActivityStatus(v)
	}
	if v, ok := fields["completed"]; ok {
		if t, isTime := v.(time.Time); isTime {
			a.Completed = &t
		} else {
			a.Completed = nil
		}
	}
	if v, ok := fields["name"].(string); ok {
		a.Name = v
	}
	m.activities[id] = a
	return nil
}

func (m *memStore) GetCustomers(ctx context.Context) ([]entities.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.Customer(nil), m.customers...), nil
}

func (m *memStore) FindOperator(ctx context.Context, id uint64) (*entities.Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.operators[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &op, nil
}

func (m *memStore) GetOperators(ctx context.Context) ([]entities.Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entities.Operator, 0, len(m.operators))
	for _, op := range m.operators {
		out = append(out, op)
	}
	return out, nil
}

// fakeTx выполняет функцию без настоящей транзакции.
type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

// memCache - CacheRepositoryInterface в памяти.
type memCache struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newMemCache() *memCache {
	return &memCache{values: make(map[string]string)}
}

func (c *memCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	v, ok := c.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.values[key] = value.(string)
	return nil
}

func (c *memCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func newTestCoordinator(t *testing.T, store *memStore) (*syncer.Coordinator, *realtime.Hub) {
	t.Helper()
	hub := realtime.NewHub(zap.NewNop())
	c := syncer.NewCoordinator(hub, store, store, store, nil, syncer.Options{}, zap.NewNop())
	t.Cleanup(c.Close)
	return c, hub
}

func orderChange(id uint64) realtime.Change {
	return realtime.Change{Table: constants.TableOrders, Type: realtime.Update, Record: map[string]any{"id": id}}
}

func activityChange(id, orderID uint64, responsible string) realtime.Change {
	return realtime.Change{
		Table:  constants.TableActivities,
		Type:   realtime.Update,
		Record: map[string]any{"id": id, "order_id": orderID, "responsible": responsible},
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func ptrUint(v uint64) *uint64 { return &v }

func ptrString(s string) *string { return &s }
