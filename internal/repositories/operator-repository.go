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

type OperatorRepositoryInterface interface {
	FindOperator(ctx context.Context, id uint64) (*entities.Operator, error)
	GetOperators(ctx context.Context) ([]entities.Operator, error)
}

type OperatorRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOperatorRepository(storage *pgxpool.Pool, logger *zap.Logger) OperatorRepositoryInterface {
	return &OperatorRepository{storage: storage, logger: logger}
}

func (r *OperatorRepository) FindOperator(ctx context.Context, id uint64) (*entities.Operator, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(operatorFields).
		From(constants.TableOperators + " op").
		Where(sq.Eq{"op.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для FindOperator: %w", err)
	}

	op, err := scanOperator(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения оператора %d: %w", id, err)
	}
	return &op, nil
}

func (r *OperatorRepository) GetOperators(ctx context.Context) ([]entities.Operator, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(operatorFields).
		From(constants.TableOperators + " op").
		OrderBy("op.worker_name", "op.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для операторов: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения операторов: %w", err)
	}
	defer rows.Close()

	operators := make([]entities.Operator, 0)
	for rows.Next() {
		op, err := scanOperator(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования оператора: %w", err)
		}
		operators = append(operators, op)
	}
	return operators, rows.Err()
}
