package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apperrors "agenda-system/pkg/errors"
)

// RedisSource читает уведомления из Redis pub/sub. Формат сообщений тот же, что у NOTIFY.
type RedisSource struct {
	client  *redis.Client
	channel string
	hub     *Hub
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewRedisSource(client *redis.Client, channel string, hub *Hub, reconnect time.Duration, logger *zap.Logger) *RedisSource {
	return &RedisSource{
		client:  client,
		channel: channel,
		hub:     hub,
		limiter: newReconnectLimiter(reconnect),
		logger:  logger.Named("redis-source"),
	}
}

func (s *RedisSource) Name() string { return "redis:" + s.channel }

func (s *RedisSource) Run(ctx context.Context) error {
	return runWithReconnect(ctx, s.limiter, s.hub, s.logger, s.consume)
}

func (s *RedisSource) consume(ctx context.Context, onReady func()) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("не удалось подписаться на канал Redis %s: %w", s.channel, err)
	}
	s.logger.Info("Подписка на канал Redis оформлена", zap.String("channel", s.channel))
	onReady()

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return apperrors.ErrChannelClosed
			}
			change, err := DecodePayload([]byte(msg.Payload))
			if err != nil {
				s.logger.Warn("Пропущено сообщение Redis", zap.String("payload", msg.Payload), zap.Error(err))
				continue
			}
			s.hub.Dispatch(change)
		}
	}
}

// Publish отправляет изменение в канал Redis для остальных экземпляров сервиса.
func (s *RedisSource) Publish(ctx context.Context, c Change) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.channel, payload).Err()
}
