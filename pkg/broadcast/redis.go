package broadcast

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisBroadcaster fans messages out across process boundaries using Redis
// pub/sub. Every instance publishes to a shared channel and relays received
// messages to its local subscribers, so dashboards running behind a load
// balancer observe the same change and toast events.
type RedisBroadcaster[T any] struct {
	client  redis.UniversalClient
	channel string
	local   *MemoryBroadcaster[T]
	pubsub  *redis.PubSub
	done    chan struct{}
}

// NewRedisBroadcaster creates a broadcaster backed by the given Redis client
// and channel name. The bufferSize applies to each local subscriber.
// The relay goroutine runs until Close is called.
func NewRedisBroadcaster[T any](client redis.UniversalClient, channel string, bufferSize int) (*RedisBroadcaster[T], error) {
	if client == nil {
		return nil, errors.New("broadcast: nil redis client")
	}
	if channel == "" {
		return nil, errors.New("broadcast: empty channel name")
	}

	b := &RedisBroadcaster[T]{
		client:  client,
		channel: channel,
		local:   NewMemoryBroadcaster[T](bufferSize),
		pubsub:  client.Subscribe(context.Background(), channel),
		done:    make(chan struct{}),
	}

	go b.relay()

	return b, nil
}

// Subscribe creates a local subscriber that receives messages published by
// any instance sharing the channel.
func (b *RedisBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	return b.local.Subscribe(ctx)
}

// Broadcast publishes the message to the Redis channel. Local delivery
// happens through the relay, so every instance (this one included) takes the
// same path.
func (b *RedisBroadcaster[T]) Broadcast(ctx context.Context, msg Message[T]) error {
	payload, err := json.Marshal(msg.Data)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, payload).Err()
}

// Close stops the relay and closes all local subscribers.
func (b *RedisBroadcaster[T]) Close() error {
	select {
	case <-b.done:
		return nil
	default:
		close(b.done)
	}
	err := b.pubsub.Close()
	if cerr := b.local.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (b *RedisBroadcaster[T]) relay() {
	ch := b.pubsub.Channel()
	for {
		select {
		case <-b.done:
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			var data T
			if err := json.Unmarshal([]byte(m.Payload), &data); err != nil {
				// Foreign payloads on the channel are skipped; the relay
				// must keep serving well-formed messages.
				continue
			}
			_ = b.local.Broadcast(context.Background(), Message[T]{Data: data})
		}
	}
}
