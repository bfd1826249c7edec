package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"agenda-system/internal/dto"
	"agenda-system/internal/entities"
	"agenda-system/internal/repositories"
	"agenda-system/internal/syncer"
	"agenda-system/pkg/constants"
	apperrors "agenda-system/pkg/errors"
)

type OrderServiceInterface interface {
	// GetOrder отдает живой снимок заказа через монитор заказа.
	GetOrder(ctx context.Context, id uint64) (dto.ViewResponseDTO[*entities.Order], error)
	UpdateOrder(ctx context.Context, id uint64, payload dto.UpdateOrderDTO) error
}

type OrderService struct {
	coordinator *syncer.Coordinator
	txManager   repositories.TxManagerInterface
	orderRepo   repositories.OrderRepositoryInterface
	logger      *zap.Logger
}

func NewOrderService(
	coordinator *syncer.Coordinator,
	txManager repositories.TxManagerInterface,
	orderRepo repositories.OrderRepositoryInterface,
	logger *zap.Logger,
) OrderServiceInterface {
	return &OrderService{
		coordinator: coordinator,
		txManager:   txManager,
		orderRepo:   orderRepo,
		logger:      logger,
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id uint64) (dto.ViewResponseDTO[*entities.Order], error) {
	var resp dto.ViewResponseDTO[*entities.Order]

	monitor, err := s.coordinator.WatchOrder(ctx, id)
	if err != nil {
		return resp, err
	}
	if err := viewState(&resp, monitor.Status()); err != nil {
		return resp, err
	}

	order, ok := monitor.Snapshot()
	if !ok {
		// Монитор на несуществующий заказ никому не нужен.
		s.coordinator.Teardown(monitor.Key())
		return resp, fmt.Errorf("заказ %d: %w", id, apperrors.ErrNotFound)
	}
	resp.Data = order
	return resp, nil
}

func (s *OrderService) UpdateOrder(ctx context.Context, id uint64, payload dto.UpdateOrderDTO) error {
	if payload.IsEmpty() {
		return apperrors.NewBadRequestError("Нет полей для обновления")
	}

	fields := make(map[string]interface{})
	if payload.OrderName != nil {
		fields["order_name"] = *payload.OrderName
	}
	if payload.IsConfirmed != nil {
		fields["is_confirmed"] = *payload.IsConfirmed
	}
	if payload.Urgency != nil {
		urgency := constants.ParseUrgency(*payload.Urgency)
		if !urgency.IsValid() {
			return apperrors.NewInvalidInputError("Неизвестная срочность: %q", *payload.Urgency)
		}
		fields["urgency"] = string(urgency)
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.orderRepo.UpdateOrderFields(ctx, tx, id, fields)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("заказ %d: %w", id, err)
		}
		s.logger.Error("Не удалось обновить заказ", zap.Uint64("orderID", id), zap.Error(err))
		return apperrors.NewFetchError("UpdateOrderFields", err)
	}

	s.logger.Info("Заказ обновлен", zap.Uint64("orderID", id), zap.Int("fields", len(fields)))
	return nil
}
