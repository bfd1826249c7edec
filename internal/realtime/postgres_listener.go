package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Source - внешний источник уведомлений, который пишет в Hub до отмены ctx.
type Source interface {
	Name() string
	Run(ctx context.Context) error
}

// PGListener слушает LISTEN/NOTIFY канал Postgres. Триггеры в БД шлют туда
// JSON вида {"table", "type", "record", "old_record"}.
type PGListener struct {
	pool    *pgxpool.Pool
	channel string
	hub     *Hub
	limiter *rate.Limiter
	relay   func(context.Context, Change) error
	logger  *zap.Logger
}

// NewPGListener создает слушателя. reconnect - минимальный интервал между попытками подключения.
func NewPGListener(pool *pgxpool.Pool, channel string, hub *Hub, reconnect time.Duration, logger *zap.Logger) *PGListener {
	return &PGListener{
		pool:    pool,
		channel: channel,
		hub:     hub,
		limiter: newReconnectLimiter(reconnect),
		logger:  logger.Named("pg-listener"),
	}
}

// SetRelay включает пересылку каждого изменения дальше, например в Redis для реплик.
func (l *PGListener) SetRelay(relay func(context.Context, Change) error) {
	l.relay = relay
}

func (l *PGListener) Name() string { return "postgres:" + l.channel }

func (l *PGListener) Run(ctx context.Context) error {
	return runWithReconnect(ctx, l.limiter, l.hub, l.logger, l.listen)
}

func (l *PGListener) listen(ctx context.Context, onReady func()) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("не удалось получить соединение для LISTEN: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("не удалось выполнить LISTEN %s: %w", l.channel, err)
	}
	l.logger.Info("Подписка на канал уведомлений Postgres оформлена", zap.String("channel", l.channel))
	onReady()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		change, err := DecodePayload([]byte(n.Payload))
		if err != nil {
			l.logger.Warn("Пропущено уведомление", zap.String("payload", n.Payload), zap.Error(err))
			continue
		}
		l.hub.Dispatch(change)
		if l.relay != nil {
			if err := l.relay(ctx, change); err != nil {
				l.logger.Warn("Не удалось переслать изменение", zap.String("table", change.Table), zap.Error(err))
			}
		}
	}
}

func newReconnectLimiter(every time.Duration) *rate.Limiter {
	if every <= 0 {
		every = time.Second
	}
	return rate.NewLimiter(rate.Every(every), 1)
}

// runWithReconnect крутит цикл подключения источника. Переподключения ограничены
// limiter, после каждого повторного подключения Hub получает Reconnected.
func runWithReconnect(
	ctx context.Context,
	limiter *rate.Limiter,
	hub *Hub,
	logger *zap.Logger,
	connect func(ctx context.Context, onReady func()) error,
) error {
	attempt := 0
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil
		}
		attempt++
		reconnected := attempt > 1
		err := connect(ctx, func() {
			if reconnected {
				hub.Reconnected()
			}
		})
		if ctx.Err() != nil {
			logger.Info("Источник уведомлений остановлен")
			return nil
		}
		logger.Warn("Соединение с источником уведомлений потеряно, переподключаемся",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
