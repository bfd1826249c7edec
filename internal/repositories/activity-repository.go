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

type ActivityRepositoryInterface interface {
	// GetActivitiesByResponsible - активности, где responsible совпадает с именем оператора.
	GetActivitiesByResponsible(ctx context.Context, responsible string) ([]entities.Activity, error)
	// FindActivity в транзакции берет строку FOR UPDATE.
	FindActivity(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Activity, error)
	UpdateActivity(ctx context.Context, tx pgx.Tx, id uint64, fields map[string]interface{}) error
}

type ActivityRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewActivityRepository(storage *pgxpool.Pool, logger *zap.Logger) ActivityRepositoryInterface {
	return &ActivityRepository{storage: storage, logger: logger}
}

func (r *ActivityRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *ActivityRepository) GetActivitiesByResponsible(ctx context.Context, responsible string) ([]entities.Activity, error) {
	return selectActivities(ctx, r.storage, sq.Eq{"a.responsible": responsible})
}

func (r *ActivityRepository) FindActivity(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Activity, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(activityFields).
		From(constants.TableActivities + " a").
		Where(sq.Eq{"a.id": id})
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для FindActivity: %w", err)
	}

	a, err := scanActivity(r.getQuerier(tx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения активности %d: %w", id, err)
	}
	return &a, nil
}

func (r *ActivityRepository) UpdateActivity(ctx context.Context, tx pgx.Tx, id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	query, args, err := sq.Update(constants.TableActivities).
		PlaceholderFormat(sq.Dollar).
		SetMap(fields).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки SQL для обновления активности: %w", err)
	}

	tag, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления активности %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	r.logger.Debug("Активность обновлена", zap.Uint64("activityID", id), zap.Int("fields", len(fields)))
	return nil
}
