package bus

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"kasirpos/internal/domain"
	"kasirpos/internal/xid"
)

// envelope tags each broadcast with its origin so a session can discard its
// own messages instead of feeding them back into itself.
type envelope struct {
	Origin string          `json:"origin"`
	State  domain.AppState `json:"state"`
}

// Redis broadcasts state over a pub/sub channel, linking sessions that run
// as separate processes on the same device. There is no acknowledgement or
// redelivery; a session that was not subscribed at publish time simply
// misses the broadcast and catches up from the durable store on next load.
type Redis struct {
	client  *redis.Client
	channel string
	origin  string
	pubsub  *redis.PubSub
	log     zerolog.Logger
}

func NewRedis(addr string, password string, db int, channel string, log zerolog.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &Redis{
		client:  client,
		channel: channel,
		origin:  xid.New("bus"),
		log:     log.With().Str("component", "bus").Logger(),
	}
}

func (b *Redis) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *Redis) Publish(ctx context.Context, state domain.AppState) {
	payload, err := json.Marshal(envelope{Origin: b.origin, State: state})
	if err != nil {
		b.log.Debug().Err(err).Msg("broadcast encode failed")
		return
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		b.log.Debug().Err(err).Msg("broadcast publish failed")
	}
}

// Subscribe starts a receive loop that hands every foreign broadcast to fn.
// The loop ends when Close is called.
func (b *Redis) Subscribe(fn func(domain.AppState)) {
	b.pubsub = b.client.Subscribe(context.Background(), b.channel)

	go func() {
		for msg := range b.pubsub.Channel() {
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				b.log.Debug().Err(err).Msg("broadcast decode failed")
				continue
			}
			if env.Origin == b.origin {
				continue
			}
			fn(env.State)
		}
	}()
}

func (b *Redis) Close() error {
	if b.pubsub != nil {
		_ = b.pubsub.Close()
	}
	return b.client.Close()
}
