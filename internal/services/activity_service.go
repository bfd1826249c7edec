package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"agenda-system/internal/dto"
	"agenda-system/internal/entities"
	"agenda-system/internal/repositories"
	"agenda-system/pkg/constants"
	apperrors "agenda-system/pkg/errors"
)

type ActivityServiceInterface interface {
	UpdateActivity(ctx context.Context, id uint64, payload dto.UpdateActivityDTO) (*entities.Activity, error)
}

// ActivityService - запись из редактора. Представления сервис не трогает:
// их обновит уведомление об изменении строки.
type ActivityService struct {
	txManager    repositories.TxManagerInterface
	activityRepo repositories.ActivityRepositoryInterface
	now          func() time.Time
	logger       *zap.Logger
}

func NewActivityService(
	txManager repositories.TxManagerInterface,
	activityRepo repositories.ActivityRepositoryInterface,
	logger *zap.Logger,
) *ActivityService {
	return &ActivityService{
		txManager:    txManager,
		activityRepo: activityRepo,
		now:          time.Now,
		logger:       logger,
	}
}

// UpdateActivity применяет частичное обновление. completed выставляется при
// переходе в "Completato" и сбрасывается при любом другом статусе.
func (s *ActivityService) UpdateActivity(ctx context.Context, id uint64, payload dto.UpdateActivityDTO) (*entities.Activity, error) {
	if payload.IsEmpty() {
		return nil, apperrors.NewBadRequestError("Нет полей для обновления")
	}

	var updated *entities.Activity
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.activityRepo.FindActivity(ctx, tx, id)
		if err != nil {
			return err
		}

		fields, err := s.activityFields(current, payload)
		if err != nil {
			return err
		}
		if err := s.activityRepo.UpdateActivity(ctx, tx, id, fields); err != nil {
			return err
		}

		updated, err = s.activityRepo.FindActivity(ctx, tx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		var invalid *apperrors.InvalidInputError
		var httpErr *apperrors.HttpError
		if errors.As(err, &invalid) || errors.As(err, &httpErr) {
			return nil, err
		}
		s.logger.Error("Не удалось обновить активность", zap.Uint64("activityID", id), zap.Error(err))
		return nil, apperrors.NewFetchError("UpdateActivity", err)
	}

	s.logger.Info("Активность обновлена", zap.Uint64("activityID", id), zap.String("status", updated.Status.String()))
	return updated, nil
}

func (s *ActivityService) activityFields(current *entities.Activity, payload dto.UpdateActivityDTO) (map[string]interface{}, error) {
	fields := make(map[string]interface{})

	if payload.Name != nil {
		fields["name"] = *payload.Name
	}
	if payload.Responsible != nil {
		fields["responsible"] = *payload.Responsible
	}
	if payload.Color != nil {
		fields["color"] = *payload.Color
	}
	if payload.InCalendar != nil {
		fields["in_calendar"] = *payload.InCalendar
	}
	if payload.Notes != nil {
		fields["note"] = payload.Notes
	}

	start, end := current.StartDate, current.EndDate
	if payload.StartDate != nil {
		start = payload.StartDate
		fields["start_date"] = *payload.StartDate
	}
	if payload.EndDate != nil {
		end = payload.EndDate
		fields["end_date"] = *payload.EndDate
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, apperrors.NewInvalidInputError("Дата окончания раньше даты начала")
	}

	if payload.Status != nil {
		status := constants.ParseActivityStatus(*payload.Status)
		if !status.IsValid() {
			return nil, apperrors.NewInvalidInputError("Неизвестный статус активности: %q", *payload.Status)
		}
		fields["status"] = string(status)

		switch {
		case status.IsCompleted() && current.Completed == nil:
			fields["completed"] = s.now()
		case !status.IsCompleted():
			fields["completed"] = nil
		}
	}

	return fields, nil
}
