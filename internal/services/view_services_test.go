package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agenda-system/internal/entities"
	"agenda-system/internal/views"
	"agenda-system/pkg/constants"
	apperrors "agenda-system/pkg/errors"
)

func TestDashboardService_RecomputesOnVersionAndMinute(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 10, 0, time.UTC)

	store := newMemStore()
	store.putOrder(entities.Order{ID: 1, OrderName: "Cucina", CreatedAt: now.Add(-48 * time.Hour)})
	store.putActivity(entities.Activity{
		ID: 10, OrderID: 1, Name: "Posa",
		Status:  constants.ActivityStatusInProgress,
		EndDate: ptrTime(now.Add(30 * time.Second)),
	})
	coord, hub := newTestCoordinator(t, store)

	svc := NewDashboardService(coord, views.DashboardOptions{}, time.UTC, zap.NewNop())
	clock := now
	svc.now = func() time.Time { return clock }

	first, err := svc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Data.Notifications)
	assert.Empty(t, first.Data.Warnings)
	assert.False(t, first.Stale)

	// Строка появилась в хранилище, но уведомления не было: та же версия, та же минута.
	store.putOrder(entities.Order{ID: 2, OrderName: "Bagno", CreatedAt: now})
	second, err := svc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	hub.Dispatch(orderChange(2))
	require.Eventually(t, func() bool {
		resp, err := svc.GetDashboard(ctx)
		return err == nil && resp.Data.DailyStats.New == 1
	}, waitFor, tick)

	clock = now.Add(2 * time.Minute)
	late, err := svc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, late.Data.Notifications)
	assert.Equal(t, []string{"1 ordini in ritardo"}, late.Data.Warnings)
}

func TestDashboardService_StaleKeepsLastData(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.putOrder(entities.Order{ID: 1, OrderName: "Cucina", CreatedAt: time.Now()})
	coord, hub := newTestCoordinator(t, store)
	svc := NewDashboardService(coord, views.DashboardOptions{}, time.UTC, zap.NewNop())

	fresh, err := svc.GetDashboard(ctx)
	require.NoError(t, err)

	store.setErr(errors.New("connection refused"))
	hub.Dispatch(orderChange(1))

	require.Eventually(t, func() bool {
		resp, err := svc.GetDashboard(ctx)
		return err == nil && resp.Stale
	}, waitFor, tick)

	stale, err := svc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh.Data, stale.Data)
	assert.Equal(t, fresh.Version, stale.Version)
	assert.Contains(t, stale.Error, "connection refused")
}

func TestDashboardService_FirstReadFails(t *testing.T) {
	store := newMemStore()
	store.setErr(errors.New("connection refused"))
	coord, _ := newTestCoordinator(t, store)
	svc := NewDashboardService(coord, views.DashboardOptions{}, nil, zap.NewNop())

	_, err := svc.GetDashboard(context.Background())
	var fetchErr *apperrors.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "GetOrdersWithActivities", fetchErr.Op)
}

func TestCalendarService_ProjectsCalendarActivities(t *testing.T) {
	store := newMemStore()
	store.putOrder(entities.Order{ID: 1, OrderName: "Cucina"})
	store.putActivity(entities.Activity{
		ID: 10, OrderID: 1, Name: "Rilievo", Responsible: "Mario", InCalendar: true,
		Status:    constants.ActivityStatusStandby,
		StartDate: ptrTime(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)),
	})
	store.putActivity(entities.Activity{ID: 11, OrderID: 1, Name: "Interno", InCalendar: false})
	coord, _ := newTestCoordinator(t, store)

	resp, err := NewCalendarService(coord, zap.NewNop()).GetOrganizationCalendar(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Mario", resp.Data[0].Responsible)
	assert.False(t, resp.Stale)
	assert.NotZero(t, resp.Version)
}

func newAgendaFixture(t *testing.T) (*memStore, *AgendaService, func()) {
	t.Helper()
	store := newMemStore()
	store.operators[1] = entities.Operator{ID: 1, WorkerName: "Mario"}
	store.customers = []entities.Customer{{ID: 5, CustomerName: "Rossi"}}
	store.putOrder(entities.Order{ID: 100, OrderName: "Cucina", ClientID: ptrUint(5)})
	store.putActivity(entities.Activity{
		ID: 10, OrderID: 100, Name: "Rilievo", Responsible: "Mario",
		Status:    constants.ActivityStatusInProgress,
		StartDate: ptrTime(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)),
	})
	store.putActivity(entities.Activity{ID: 11, OrderID: 100, Name: "Posa", Responsible: "Luigi"})

	coord, hub := newTestCoordinator(t, store)
	svc := NewAgendaService(coord, store, nil, "node-a", zap.NewNop()).(*AgendaService)
	return store, svc, func() { hub.Dispatch(activityChange(10, 100, "Mario")) }
}

func TestAgendaService_GetAgenda(t *testing.T) {
	ctx := context.Background()
	store, svc, touch := newAgendaFixture(t)

	view, err := svc.GetAgenda(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Mario", view.Operator.WorkerName)
	require.Len(t, view.Response.Data, 1, "только активности с responsible == имя оператора")
	assert.Equal(t, "Rossi - Cucina - Rilievo - in corso", view.Response.Data[0].Title)
	assert.Equal(t, "Rossi - Cucina", view.Response.Data[0].OrderLabel)
	assert.True(t, view.Changed)
	assert.NotZero(t, view.Fingerprint)

	again, err := svc.GetAgenda(ctx, 1)
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.Equal(t, view.Fingerprint, again.Fingerprint)

	a := store.activity(10)
	a.Status = constants.ActivityStatusCompleted
	store.putActivity(a)
	touch()

	require.Eventually(t, func() bool {
		v, err := svc.GetAgenda(ctx, 1)
		return err == nil && len(v.Response.Data) == 1 &&
			v.Response.Data[0].Title == "Rossi - Cucina - Rilievo - Completato"
	}, waitFor, tick)

	latest, err := svc.GetAgenda(ctx, 1)
	require.NoError(t, err)
	assert.NotEqual(t, view.Fingerprint, latest.Fingerprint)
}

func TestAgendaService_UnknownOperator(t *testing.T) {
	_, svc, _ := newAgendaFixture(t)

	_, err := svc.GetAgenda(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAgendaService_OrdersNotLoadedYet(t *testing.T) {
	store, svc, _ := newAgendaFixture(t)
	store.setOrdersErr(errors.New("timeout"))

	view, err := svc.GetAgenda(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, view.Response.Data, 1)
	assert.Equal(t, constants.OrderLoadingPlaceholder+" - Rilievo - in corso", view.Response.Data[0].Title)
	assert.True(t, view.Response.Stale)
	assert.Contains(t, view.Response.Error, "timeout")
}

func TestAgendaService_ShouldPushInMemory(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newAgendaFixture(t)

	assert.True(t, svc.ShouldPush(ctx, 1, 42))
	assert.False(t, svc.ShouldPush(ctx, 1, 42))
	assert.True(t, svc.ShouldPush(ctx, 2, 42), "у каждого оператора свой отпечаток")
	assert.True(t, svc.ShouldPush(ctx, 1, 43))

	svc.Forget(ctx, 1)
	assert.True(t, svc.ShouldPush(ctx, 1, 43))
}

func TestAgendaService_ShouldPushWithCache(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newAgendaFixture(t)
	coord, _ := newTestCoordinator(t, store)
	cache := newMemCache()
	svc := NewAgendaService(coord, store, cache, "node-a", zap.NewNop())

	assert.True(t, svc.ShouldPush(ctx, 1, 42))
	assert.Equal(t, "42", cache.values["agenda_fp:node-a:1"])
	assert.False(t, svc.ShouldPush(ctx, 1, 42))

	// Другая реплика ведет свои отпечатки.
	other := NewAgendaService(coord, store, cache, "node-b", zap.NewNop())
	assert.True(t, other.ShouldPush(ctx, 1, 42))

	svc.Forget(ctx, 1)
	assert.NotContains(t, cache.values, "agenda_fp:node-a:1")
	assert.Contains(t, cache.values, "agenda_fp:node-b:1")
	assert.True(t, svc.ShouldPush(ctx, 1, 42))
}

func TestAgendaService_ShouldPushCacheDown(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newAgendaFixture(t)
	coord, _ := newTestCoordinator(t, store)
	cache := newMemCache()
	cache.err = errors.New("redis: connection refused")
	svc := NewAgendaService(coord, store, cache, "node-a", zap.NewNop())

	assert.True(t, svc.ShouldPush(ctx, 1, 42))
	assert.True(t, svc.ShouldPush(ctx, 1, 42), "без кеша лучше отправить лишний раз")
}
