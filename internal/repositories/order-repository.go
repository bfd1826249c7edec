package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"agenda-system/internal/entities"
	"agenda-system/pkg/constants"
	apperrors "agenda-system/pkg/errors"
)

type OrderRepositoryInterface interface {
	// GetOrdersWithActivities - все заказы с вложенными активностями.
	GetOrdersWithActivities(ctx context.Context) ([]entities.Order, error)
	// FindOrderDetail - один заказ с менеджером, клиентом и активностями.
	FindOrderDetail(ctx context.Context, id uint64) (*entities.Order, error)
	UpdateOrderFields(ctx context.Context, tx pgx.Tx, id uint64, fields map[string]interface{}) error
}

type OrderRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) OrderRepositoryInterface {
	return &OrderRepository{storage: storage, logger: logger}
}

func (r *OrderRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *OrderRepository) GetOrdersWithActivities(ctx context.Context) ([]entities.Order, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(orderFields).
		From(constants.TableOrders + " o").
		OrderBy("o.created_at DESC", "o.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для списка заказов: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка заказов: %w", err)
	}
	defer rows.Close()

	orders := make([]entities.Order, 0)
	index := make(map[uint64]int)
	ids := make([]uint64, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования заказа: %w", err)
		}
		o.Activities = []entities.Activity{}
		index[o.ID] = len(orders)
		ids = append(ids, o.ID)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения списка заказов: %w", err)
	}
	if len(ids) == 0 {
		return orders, nil
	}

	activities, err := selectActivities(ctx, r.storage, sq.Eq{"a.order_id": ids})
	if err != nil {
		return nil, err
	}
	for _, a := range activities {
		if i, ok := index[a.OrderID]; ok {
			orders[i].Activities = append(orders[i].Activities, a)
		}
	}
	return orders, nil
}

func (r *OrderRepository) FindOrderDetail(ctx context.Context, id uint64) (*entities.Order, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(orderFields, customerFields, operatorFields).
		From(constants.TableOrders + " o").
		LeftJoin(constants.TableCustomers + " c ON c.id = o.client_id").
		LeftJoin(constants.TableOperators + " op ON op.id = o.order_manager").
		Where(sq.Eq{"o.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для FindOrderDetail: %w", err)
	}

	var customer joinedCustomer
	var manager joinedOperator
	joined := append(customer.dest(), manager.dest()...)
	order, err := scanOrder(r.storage.QueryRow(ctx, query, args...), joined...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения заказа %d: %w", id, err)
	}
	order.Customer = customer.entity()
	order.Manager = manager.entity()

	activities, err := selectActivities(ctx, r.storage, sq.Eq{"a.order_id": id})
	if err != nil {
		return nil, err
	}
	order.Activities = activities
	return &order, nil
}

func (r *OrderRepository) UpdateOrderFields(ctx context.Context, tx pgx.Tx, id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	query, args, err := sq.Update(constants.TableOrders).
		PlaceholderFormat(sq.Dollar).
		SetMap(fields).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки SQL для обновления заказа: %w", err)
	}

	tag, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления заказа %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// selectActivities читает активности в порядке id, чтобы проекции были стабильными.
func selectActivities(ctx context.Context, q Querier, where sq.Sqlizer) ([]entities.Activity, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(activityFields).
		From(constants.TableActivities + " a").
		Where(where).
		OrderBy("a.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для активностей: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения активностей: %w", err)
	}
	defer rows.Close()

	activities := make([]entities.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования активности: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения активностей: %w", err)
	}
	return activities, nil
}
