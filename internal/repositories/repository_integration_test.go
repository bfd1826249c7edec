package repositories

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agenda-system/pkg/constants"
	"agenda-system/pkg/database/postgresql"
	apperrors "agenda-system/pkg/errors"
)

var testPool *pgxpool.Pool

// TestMain подключается к тестовой БД из TEST_DATABASE_URL и применяет миграции.
// Без переменной интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	var err error
	testPool, err = postgresql.ConnectDB(ctx, dsn, zap.NewNop())
	if err != nil {
		log.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
	}
	if err := postgresql.Migrate(ctx, testPool, zap.NewNop()); err != nil {
		log.Fatalf("Не удалось применить миграции: %v", err)
	}

	code := m.Run()
	testPool.Close()
	os.Exit(code)
}

func requireDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL не задан")
	}
	cleanupTables(t, testPool)
	return testPool
}

// cleanupTables очищает таблицы для изоляции тестов.
func cleanupTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `TRUNCATE TABLE activities, orders, operators, customers RESTART IDENTITY CASCADE;`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

type seeded struct {
	customerID, operatorID, orderID, emptyOrderID uint64
	activityIDs                                   []uint64
}

// seedData создает клиента, оператора, заказ с двумя активностями и заказ без активностей.
func seedData(t *testing.T, pool *pgxpool.Pool) seeded {
	t.Helper()
	ctx := context.Background()
	var s seeded

	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO customers (customer_name, customer_phone) VALUES ('Rossi', '+39 02 1234567') RETURNING id`,
	).Scan(&s.customerID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO operators (worker_name) VALUES ('Mario') RETURNING id`,
	).Scan(&s.operatorID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO orders (order_name, created_at, urgency, client_id, order_manager)
		 VALUES ('Cucina', now() - interval '1 day', 'Alta', $1, $2) RETURNING id`,
		s.customerID, s.operatorID,
	).Scan(&s.orderID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO orders (order_name) VALUES ('Bagno') RETURNING id`,
	).Scan(&s.emptyOrderID))

	for _, a := range []struct{ name, status, responsible string }{
		{"Rilievo", "Completato", "Mario"},
		{"Posa", "in corso", "Luigi"},
	} {
		var id uint64
		require.NoError(t, pool.QueryRow(ctx,
			`INSERT INTO activities (name, status, responsible, start_date, order_id)
			 VALUES ($1, $2, $3, now(), $4) RETURNING id`,
			a.name, a.status, a.responsible, s.orderID,
		).Scan(&id))
		s.activityIDs = append(s.activityIDs, id)
	}
	return s
}

func TestOrderRepository_Integration_GetOrdersWithActivities(t *testing.T) {
	pool := requireDB(t)
	s := seedData(t, pool)
	repo := NewOrderRepository(pool, zap.NewNop())

	orders, err := repo.GetOrdersWithActivities(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, s.emptyOrderID, orders[0].ID, "новые заказы первыми")
	assert.NotNil(t, orders[0].Activities)
	assert.Empty(t, orders[0].Activities)
	assert.Equal(t, constants.UrgencyUnknown, orders[0].Urgency)

	cucina := orders[1]
	assert.Equal(t, constants.UrgencyHigh, cucina.Urgency)
	require.Len(t, cucina.Activities, 2)
	assert.Equal(t, s.activityIDs, []uint64{cucina.Activities[0].ID, cucina.Activities[1].ID})
	assert.Equal(t, []string{}, cucina.Activities[0].Notes)
}

func TestOrderRepository_Integration_FindOrderDetail(t *testing.T) {
	pool := requireDB(t)
	s := seedData(t, pool)
	repo := NewOrderRepository(pool, zap.NewNop())
	ctx := context.Background()

	order, err := repo.FindOrderDetail(ctx, s.orderID)
	require.NoError(t, err)
	require.NotNil(t, order.Customer)
	assert.Equal(t, "Rossi", order.Customer.CustomerName)
	require.NotNil(t, order.Manager)
	assert.Equal(t, "Mario", order.Manager.WorkerName)
	assert.Len(t, order.Activities, 2)

	bare, err := repo.FindOrderDetail(ctx, s.emptyOrderID)
	require.NoError(t, err)
	assert.Nil(t, bare.Customer)
	assert.Nil(t, bare.Manager)

	_, err = repo.FindOrderDetail(ctx, 999999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOrderRepository_Integration_UpdateOrderFields(t *testing.T) {
	pool := requireDB(t)
	s := seedData(t, pool)
	repo := NewOrderRepository(pool, zap.NewNop())
	txManager := NewTxManager(pool)
	ctx := context.Background()

	err := txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return repo.UpdateOrderFields(ctx, tx, s.orderID, map[string]interface{}{"is_confirmed": true, "urgency": "Bassa"})
	})
	require.NoError(t, err)

	order, err := repo.FindOrderDetail(ctx, s.orderID)
	require.NoError(t, err)
	assert.True(t, order.IsConfirmed)
	assert.Equal(t, constants.UrgencyLow, order.Urgency)

	err = txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return repo.UpdateOrderFields(ctx, tx, 999999, map[string]interface{}{"is_confirmed": true})
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestActivityRepository_Integration(t *testing.T) {
	pool := requireDB(t)
	s := seedData(t, pool)
	repo := NewActivityRepository(pool, zap.NewNop())
	txManager := NewTxManager(pool)
	ctx := context.Background()

	mine, err := repo.GetActivitiesByResponsible(ctx, "Mario")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Rilievo", mine[0].Name)

	completedAt := time.Now().UTC().Truncate(time.Microsecond)
	err = txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := repo.FindActivity(ctx, tx, s.activityIDs[1]); err != nil {
			return err
		}
		return repo.UpdateActivity(ctx, tx, s.activityIDs[1], map[string]interface{}{
			"status": "Completato", "completed": completedAt, "note": []string{"ok"},
		})
	})
	require.NoError(t, err)

	posa, err := repo.FindActivity(ctx, nil, s.activityIDs[1])
	require.NoError(t, err)
	assert.Equal(t, constants.ActivityStatusCompleted, posa.Status)
	require.NotNil(t, posa.Completed)
	assert.True(t, completedAt.Equal(*posa.Completed))
	assert.Equal(t, []string{"ok"}, posa.Notes)

	// Ошибка внутри fn откатывает транзакцию.
	rollback := errors.New("rollback")
	err = txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := repo.UpdateActivity(ctx, tx, s.activityIDs[1], map[string]interface{}{"name": "Nuovo"}); err != nil {
			return err
		}
		return rollback
	})
	assert.ErrorIs(t, err, rollback)
	posa, err = repo.FindActivity(ctx, nil, s.activityIDs[1])
	require.NoError(t, err)
	assert.Equal(t, "Posa", posa.Name)

	_, err = repo.FindActivity(ctx, nil, 999999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOperatorAndCustomerRepository_Integration(t *testing.T) {
	pool := requireDB(t)
	s := seedData(t, pool)
	ctx := context.Background()

	operators := NewOperatorRepository(pool, zap.NewNop())
	op, err := operators.FindOperator(ctx, s.operatorID)
	require.NoError(t, err)
	assert.Equal(t, "Mario", op.WorkerName)
	assert.Empty(t, op.OperatorPhone)

	_, err = operators.FindOperator(ctx, 999999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	all, err := operators.GetOperators(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	customers, err := NewCustomerRepository(pool, zap.NewNop()).GetCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "+39 02 1234567", customers[0].CustomerPhone)
}
