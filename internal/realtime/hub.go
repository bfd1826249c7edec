package realtime

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "agenda-system/pkg/errors"
)

// Handler получает уведомление. Вызывается синхронно из Dispatch,
// поэтому долгую работу обработчик должен уводить в свою горутину.
type Handler func(Change)

// Channel - канал уведомлений об изменениях с подпиской на таблицу, фильтр и типы событий.
type Channel interface {
	Subscribe(table string, filter Filter, types []EventType, handler Handler) (unsubscribe func(), err error)
}

type subscription struct {
	id      uuid.UUID
	table   string
	filter  Filter
	types   map[EventType]struct{}
	handler Handler
}

func (s *subscription) matches(c Change) bool {
	if s.table != c.Table {
		return false
	}
	if _, ok := s.types[c.Type]; !ok {
		return false
	}
	return s.filter.Match(c)
}

// Hub раздает уведомления от источников (Postgres, Redis) подписчикам внутри процесса.
type Hub struct {
	mu          sync.RWMutex
	subs        map[uuid.UUID]*subscription
	onReconnect []func()
	closed      bool
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[uuid.UUID]*subscription),
		logger: logger,
	}
}

// Subscribe регистрирует обработчик. Пустой types означает все типы событий.
// Возвращаемая функция отписки идемпотентна.
func (h *Hub) Subscribe(table string, filter Filter, types []EventType, handler Handler) (func(), error) {
	if table == "" || handler == nil {
		return nil, apperrors.NewSubscriptionError(table, fmt.Errorf("не указана таблица или обработчик"))
	}
	if len(types) == 0 {
		types = AllEventTypes
	}
	set := make(map[EventType]struct{}, len(types))
	for _, t := range types {
		if !t.IsValid() {
			return nil, apperrors.NewSubscriptionError(table, fmt.Errorf("неизвестный тип события %q", t))
		}
		set[t] = struct{}{}
	}

	sub := &subscription{
		id:      uuid.New(),
		table:   table,
		filter:  filter,
		types:   set,
		handler: handler,
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, apperrors.NewSubscriptionError(table, apperrors.ErrChannelClosed)
	}
	h.subs[sub.id] = sub
	h.mu.Unlock()

	h.logger.Debug("Оформлена подписка на изменения",
		zap.String("table", table),
		zap.String("filter", filter.String()),
		zap.String("subscriptionID", sub.id.String()),
	)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, sub.id)
			h.mu.Unlock()
		})
	}, nil
}

// Dispatch доставляет изменение всем подходящим подписчикам.
func (h *Hub) Dispatch(c Change) {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	matched := make([]*subscription, 0, 4)
	for _, s := range h.subs {
		if s.matches(c) {
			matched = append(matched, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range matched {
		h.deliver(s, c)
	}
}

func (h *Hub) deliver(s *subscription, c Change) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Паника в обработчике изменений",
				zap.String("table", c.Table),
				zap.String("subscriptionID", s.id.String()),
				zap.Any("panic", r),
			)
		}
	}()
	s.handler(c)
}

// OnReconnect регистрирует хук, который вызывается, когда источник
// переподключился и мог пропустить уведомления.
func (h *Hub) OnReconnect(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onReconnect = append(h.onReconnect, fn)
}

// Reconnected вызывается источниками после восстановления соединения.
func (h *Hub) Reconnected() {
	h.mu.RLock()
	hooks := append([]func(){}, h.onReconnect...)
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		return
	}
	h.logger.Info("Источник изменений переподключился, запрошена полная пересинхронизация", zap.Int("hooks", len(hooks)))
	for _, fn := range hooks {
		fn()
	}
}

// Subscribers - количество активных подписок.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close снимает все подписки. Новые подписки после этого не принимаются.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.subs = make(map[uuid.UUID]*subscription)
}
