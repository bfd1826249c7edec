package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"agenda-system/internal/entities"
	"agenda-system/pkg/constants"
)

type CustomerRepositoryInterface interface {
	GetCustomers(ctx context.Context) ([]entities.Customer, error)
}

type CustomerRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCustomerRepository(storage *pgxpool.Pool, logger *zap.Logger) CustomerRepositoryInterface {
	return &CustomerRepository{storage: storage, logger: logger}
}

func (r *CustomerRepository) GetCustomers(ctx context.Context) ([]entities.Customer, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(customerFields).
		From(constants.TableCustomers + " c").
		OrderBy("c.customer_name", "c.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для клиентов: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения клиентов: %w", err)
	}
	defer rows.Close()

	customers := make([]entities.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования клиента: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
