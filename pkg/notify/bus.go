package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"movingmatch/pkg/logger"
)

const busChannel = "movingmatch:notify"

// NewRedisClient connects and pings; the bus is useless against a dead
// broker, so failures surface at startup.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return cli, nil
}

// Bus backs Publish with Redis pub/sub so every instance's local
// registry sees every event. Publish only writes to Redis; delivery to
// local channels happens in Run's subscription loop on each instance,
// including the publishing one.
type Bus struct {
	local *Registry
	rdb   *redis.Client
	log   logger.ILogger
}

func NewBus(local *Registry, rdb *redis.Client, log logger.ILogger) *Bus {
	return &Bus{local: local, rdb: rdb, log: log}
}

func (b *Bus) Register(userID int64) chan Event {
	return b.local.Register(userID)
}

func (b *Bus) Unregister(userID int64, ch chan Event) {
	b.local.Unregister(userID, ch)
}

func (b *Bus) Publish(ctx context.Context, ev Event) {
	raw, err := json.Marshal(ev)
	if err != nil {
		b.log.Error("failed to encode notification event", logger.Error(err))
		return
	}
	if err := b.rdb.Publish(ctx, busChannel, raw).Err(); err != nil {
		// push is best-effort; the primary mutation already committed
		b.log.Warning("failed to publish notification event", logger.Error(err))
	}
}

// Run consumes the bus until ctx is cancelled. Call it in its own
// goroutine at startup.
func (b *Bus) Run(ctx context.Context) {
	sub := b.rdb.Subscribe(ctx, busChannel)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warning("dropping malformed notification event", logger.Error(err))
				continue
			}
			b.local.Publish(ctx, ev)
		}
	}
}
