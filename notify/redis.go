package notify

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisRelay shares notifications between instances through a redis channel.
// Publish goes to redis only; Run copies every message on the channel,
// including this instance's own, into the local broker.
type RedisRelay struct {
	rc      *redis.Client
	channel string
	local   *Broker
	log     *log.Logger
	backoff time.Duration
}

func NewRedisRelay(rc *redis.Client, channel string, local *Broker, logger *log.Logger) *RedisRelay {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &RedisRelay{rc: rc, channel: channel, local: local, log: logger, backoff: time.Second}
}

// Publish sends data to the redis channel.
func (r *RedisRelay) Publish(ctx context.Context, data []byte) error {
	return r.rc.Publish(ctx, r.channel, data).Err()
}

// Run subscribes to the channel until ctx is done, resubscribing when the
// subscription drops. ready, when not nil, is closed once the first
// subscription is confirmed.
func (r *RedisRelay) Run(ctx context.Context, ready chan<- struct{}) {
	for {
		sub := r.rc.Subscribe(ctx, r.channel)
		if _, err := sub.Receive(ctx); err != nil {
			_ = sub.Close()
			if ctx.Err() != nil {
				return
			}
			r.log.WithError(err).WithField("channel", r.channel).Error("redis subscribe failed, retrying")
			if !r.sleep(ctx) {
				return
			}
			continue
		}
		if ready != nil {
			close(ready)
			ready = nil
		}
		r.consume(ctx, sub.Channel())
		_ = sub.Close()
		if ctx.Err() != nil {
			return
		}
		r.log.WithField("channel", r.channel).Error("pubsub channel closed, reconnecting")
		if !r.sleep(ctx) {
			return
		}
	}
}

func (r *RedisRelay) consume(ctx context.Context, ch <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			r.local.Broadcast([]byte(msg.Payload))
		}
	}
}

func (r *RedisRelay) sleep(ctx context.Context) bool {
	t := time.NewTimer(r.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
