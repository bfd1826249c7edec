package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenda-system/internal/entities"
	"agenda-system/pkg/constants"
	apperrors "agenda-system/pkg/errors"
)

func TestSyncService_StatusesAndTeardown(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.putOrder(entities.Order{ID: 1, OrderName: "Cucina"})
	coord, hub := newTestCoordinator(t, store)
	svc := NewSyncService(coord)

	assert.Empty(t, svc.GetStatuses())

	_, err := coord.WatchOrders(ctx)
	require.NoError(t, err)
	_, err = coord.WatchOrder(ctx, 1)
	require.NoError(t, err)

	statuses := svc.GetStatuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, "orders/*", statuses[0].Key)
	assert.Equal(t, "orders/1", statuses[1].Key)
	for _, st := range statuses {
		assert.Equal(t, "subscribed", st.State)
		assert.False(t, st.Stale)
		assert.NotNil(t, st.UpdatedAt)
	}

	store.setErr(errors.New("connection refused"))
	hub.Dispatch(orderChange(1))
	require.Eventually(t, func() bool {
		for _, st := range svc.GetStatuses() {
			if !st.Stale || st.Error == "" {
				return false
			}
		}
		return true
	}, waitFor, tick)

	require.NoError(t, svc.Teardown(constants.TableOrders, "1"))
	assert.Len(t, svc.GetStatuses(), 1)
	assert.ErrorIs(t, svc.Teardown(constants.TableOrders, "1"), apperrors.ErrNotFound)
}

func TestSyncService_ResyncAll(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	coord, _ := newTestCoordinator(t, store)
	svc := NewSyncService(coord)

	_, err := coord.WatchOrders(ctx)
	require.NoError(t, err)

	// Уведомление потерялось: без ResyncAll монитор о записи не узнает.
	store.putOrder(entities.Order{ID: 7, OrderName: "Bagno"})
	svc.ResyncAll()

	require.Eventually(t, func() bool {
		st := svc.GetStatuses()
		return len(st) == 1 && st[0].Version == 2
	}, waitFor, tick)
}
