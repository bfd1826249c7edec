package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"agenda-system/internal/realtime"
	apperrors "agenda-system/pkg/errors"
)

// Fetcher - полное чтение данных монитора из хранилища.
type Fetcher[T any] func(ctx context.Context) (T, error)

type binding struct {
	table  string
	filter realtime.Filter
	types  []realtime.EventType
}

type monitorConfig[T any] struct {
	key      Key
	op       string
	fetch    Fetcher[T]
	bindings []binding
	// clearOn - изменение, после которого снимок очищается без перечитывания.
	clearOn  func(realtime.Change) bool
	debounce time.Duration
	onUpdate func(key Key, version uint64, cleared bool)
}

// Monitor держит последний снимок одной сущности (или коллекции) и перечитывает
// его целиком на каждое подходящее уведомление. Частичных патчей нет.
//
// Чтения не дедуплицируются и могут пересекаться; итоговое состояние - результат
// последнего завершившегося чтения. Результаты чтений после Teardown отбрасываются.
type Monitor[T any] struct {
	cfg     monitorConfig[T]
	channel realtime.Channel
	logger  *zap.Logger
	readCtx context.Context
	ready   chan struct{}

	mu          sync.Mutex
	state       State
	snapshot    T
	hasSnapshot bool
	version     uint64
	lastErr     error
	updatedAt   time.Time
	inflight    int
	readSeq     uint64
	minSeq      uint64
	unsubs      []func()
	timer       *time.Timer
}

// Чтения не отменяются вместе с запросом, который создал монитор: контекст
// отвязан от отмены, но сохраняет значения.
func newMonitor[T any](ctx context.Context, channel realtime.Channel, cfg monitorConfig[T], logger *zap.Logger) *Monitor[T] {
	return &Monitor[T]{
		cfg:     cfg,
		channel: channel,
		logger:  logger.With(zap.String("monitor", cfg.key.String())),
		readCtx: context.WithoutCancel(ctx),
		ready:   make(chan struct{}),
		state:   StateIdle,
	}
}

// start оформляет подписки и запускает первое чтение в отдельной горутине.
// ready закрывается, когда первое чтение завершилось или подписка не удалась.
func (m *Monitor[T]) start() error {
	unsubs := make([]func(), 0, len(m.cfg.bindings))
	for _, b := range m.cfg.bindings {
		unsubscribe, err := m.channel.Subscribe(b.table, b.filter, b.types, m.handle)
		if err != nil {
			for _, u := range unsubs {
				u()
			}
			m.mu.Lock()
			m.state = StateClosed
			m.mu.Unlock()
			close(m.ready)
			m.logger.Error("Не удалось подписаться на изменения", zap.String("table", b.table), zap.Error(err))
			return apperrors.NewSubscriptionError(b.table, err)
		}
		unsubs = append(unsubs, unsubscribe)
	}

	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		for _, u := range unsubs {
			u()
		}
		close(m.ready)
		return apperrors.ErrMonitorClosed
	}
	m.unsubs = unsubs
	m.mu.Unlock()

	go func() {
		defer close(m.ready)
		m.Resync()
	}()
	return nil
}

func (m *Monitor[T]) handle(c realtime.Change) {
	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return
	}

	if m.cfg.clearOn != nil && m.cfg.clearOn(c) {
		var zero T
		m.snapshot = zero
		m.hasSnapshot = false
		m.lastErr = nil
		// Чтения, начатые до удаления, не должны вернуть запись обратно.
		m.minSeq = m.readSeq + 1
		m.version++
		m.updatedAt = time.Now()
		version := m.version
		m.mu.Unlock()

		m.logger.Info("Запись удалена, снимок очищен", zap.Uint64("version", version))
		m.notify(version, true)
		return
	}

	if m.cfg.debounce > 0 {
		if m.timer == nil {
			m.timer = time.AfterFunc(m.cfg.debounce, m.debounced)
		}
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	go m.Resync()
}

func (m *Monitor[T]) debounced() {
	m.mu.Lock()
	m.timer = nil
	m.mu.Unlock()
	m.Resync()
}

// Resync выполняет полное перечитывание и применяет результат.
func (m *Monitor[T]) Resync() {
	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return
	}
	if m.state != StateIdle {
		m.state = StateResyncing
	}
	m.inflight++
	m.readSeq++
	seq := m.readSeq
	m.mu.Unlock()

	data, err := m.cfg.fetch(m.readCtx)
	m.apply(seq, data, err)
}

func (m *Monitor[T]) apply(seq uint64, data T, err error) {
	m.mu.Lock()
	m.inflight--
	if m.state == StateClosed {
		m.mu.Unlock()
		m.logger.Debug("Результат чтения отброшен: монитор закрыт")
		return
	}
	if m.inflight == 0 {
		m.state = StateSubscribed
	}
	if seq < m.minSeq {
		m.mu.Unlock()
		m.logger.Debug("Результат чтения отброшен: снимок очищен после его начала")
		return
	}

	cleared := false
	switch {
	case err == nil:
		m.snapshot = data
		m.hasSnapshot = true
		m.lastErr = nil
	case errors.Is(err, apperrors.ErrNotFound):
		var zero T
		m.snapshot = zero
		m.hasSnapshot = false
		m.lastErr = nil
		cleared = true
	default:
		m.lastErr = apperrors.NewFetchError(m.cfg.op, err)
		m.mu.Unlock()
		m.logger.Error("Не удалось перечитать данные, оставлен прежний снимок", zap.Error(err))
		return
	}
	m.version++
	m.updatedAt = time.Now()
	version := m.version
	m.mu.Unlock()

	m.notify(version, cleared)
}

func (m *Monitor[T]) notify(version uint64, cleared bool) {
	if m.cfg.onUpdate != nil {
		m.cfg.onUpdate(m.cfg.key, version, cleared)
	}
}

// Teardown снимает обе подписки и закрывает монитор. Повторный вызов ничего не делает.
func (m *Monitor[T]) Teardown() {
	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return
	}
	m.state = StateClosed
	unsubs := m.unsubs
	m.unsubs = nil
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	var zero T
	m.snapshot = zero
	m.hasSnapshot = false
	m.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
	m.logger.Info("Монитор закрыт")
}

// Snapshot - последний примененный снимок; false, если его нет.
func (m *Monitor[T]) Snapshot() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot, m.hasSnapshot
}

func (m *Monitor[T]) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		Key:         m.cfg.key,
		State:       m.state,
		Version:     m.version,
		HasSnapshot: m.hasSnapshot,
		Err:         m.lastErr,
		UpdatedAt:   m.updatedAt,
	}
}

func (m *Monitor[T]) Key() Key {
	return m.cfg.key
}

// Wait ждет завершения первого чтения.
func (m *Monitor[T]) Wait(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
