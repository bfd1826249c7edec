package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"agenda-system/internal/dto"
	"agenda-system/internal/entities"
	"agenda-system/internal/repositories"
	"agenda-system/internal/syncer"
	"agenda-system/internal/views"
	"agenda-system/pkg/constants"
	apperrors "agenda-system/pkg/errors"
)

const agendaFingerprintTTL = 24 * time.Hour

// AgendaView - повестка оператора вместе с отпечатком содержимого.
type AgendaView struct {
	Operator    entities.Operator
	Response    dto.ViewResponseDTO[[]dto.AgendaEntryDTO]
	Fingerprint uint64
	// Changed - false, если содержимое совпало с прошлым построением для этого оператора.
	Changed bool
}

type AgendaServiceInterface interface {
	GetAgenda(ctx context.Context, operatorID uint64) (*AgendaView, error)
	// ShouldPush отмечает отпечаток как отправленный; false - такой уже уходил.
	ShouldPush(ctx context.Context, operatorID uint64, fingerprint uint64) bool
	Forget(ctx context.Context, operatorID uint64)
}

type AgendaService struct {
	coordinator  *syncer.Coordinator
	operatorRepo repositories.OperatorRepositoryInterface
	cache        repositories.CacheRepositoryInterface
	instanceID   string
	logger       *zap.Logger

	mu        sync.Mutex
	resolvers map[uint64]*views.AgendaResolver
	pushed    map[uint64]uint64
}

// cache может быть nil: тогда отправленные отпечатки хранятся в памяти процесса.
// Ключи в Redis разделены по instanceID: у каждой реплики свои соединения.
func NewAgendaService(
	coordinator *syncer.Coordinator,
	operatorRepo repositories.OperatorRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	instanceID string,
	logger *zap.Logger,
) AgendaServiceInterface {
	return &AgendaService{
		coordinator:  coordinator,
		operatorRepo: operatorRepo,
		cache:        cache,
		instanceID:   instanceID,
		logger:       logger,
		resolvers:    make(map[uint64]*views.AgendaResolver),
		pushed:       make(map[uint64]uint64),
	}
}

// GetAgenda ищет оператора по id, а активности - по его имени в поле responsible.
func (s *AgendaService) GetAgenda(ctx context.Context, operatorID uint64) (*AgendaView, error) {
	operator, err := s.operatorRepo.FindOperator(ctx, operatorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("оператор %d: %w", operatorID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewFetchError("FindOperator", err)
	}

	activitiesMonitor, err := s.coordinator.WatchOperatorActivities(ctx, operator.WorkerName)
	if err != nil {
		return nil, err
	}
	ordersMonitor, err := s.coordinator.WatchOrders(ctx)
	if err != nil {
		return nil, err
	}
	customersMonitor, err := s.coordinator.WatchCustomers(ctx)
	if err != nil {
		return nil, err
	}

	view := &AgendaView{Operator: *operator}
	if err := viewState(&view.Response, activitiesMonitor.Status()); err != nil {
		return nil, err
	}
	// Без заказов и клиентов повестка все равно строится, с подписями-заглушками.
	markState(&view.Response, ordersMonitor.Status())
	markState(&view.Response, customersMonitor.Status())

	activities, _ := activitiesMonitor.Snapshot()
	customers, _ := customersMonitor.Snapshot()
	orders, ok := ordersMonitor.Snapshot()
	if !ok {
		orders = nil
	}

	resolver := s.resolverFor(operatorID)
	view.Response.Data, view.Changed = resolver.Resolve(activities, orders, customers)
	_, view.Fingerprint, _ = resolver.Last()
	return view, nil
}

func (s *AgendaService) resolverFor(operatorID uint64) *views.AgendaResolver {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resolvers[operatorID]
	if !ok {
		r = views.NewAgendaResolver()
		s.resolvers[operatorID] = r
	}
	return r
}

// Forget убирает сохраненный результат оператора после отключения его последнего соединения.
func (s *AgendaService) Forget(ctx context.Context, operatorID uint64) {
	s.mu.Lock()
	delete(s.resolvers, operatorID)
	delete(s.pushed, operatorID)
	s.mu.Unlock()

	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, fmt.Sprintf(constants.CacheKeyAgendaFingerprint, s.instanceID, operatorID)); err != nil {
		s.logger.Warn("Не удалось удалить отпечаток повестки", zap.Uint64("operatorID", operatorID), zap.Error(err))
	}
}

// ShouldPush хранит последний отправленный отпечаток с TTL. Ошибки кеша не мешают отправке.
func (s *AgendaService) ShouldPush(ctx context.Context, operatorID uint64, fingerprint uint64) bool {
	if s.cache == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if previous, ok := s.pushed[operatorID]; ok && previous == fingerprint {
			return false
		}
		s.pushed[operatorID] = fingerprint
		return true
	}
	key := fmt.Sprintf(constants.CacheKeyAgendaFingerprint, s.instanceID, operatorID)
	value := strconv.FormatUint(fingerprint, 10)

	previous, err := s.cache.Get(ctx, key)
	switch {
	case err == nil && previous == value:
		return false
	case err != nil && !errors.Is(err, redis.Nil):
		s.logger.Warn("Не удалось прочитать отпечаток повестки", zap.String("key", key), zap.Error(err))
	}

	if err := s.cache.Set(ctx, key, value, agendaFingerprintTTL); err != nil {
		s.logger.Warn("Не удалось сохранить отпечаток повестки", zap.String("key", key), zap.Error(err))
	}
	return true
}
