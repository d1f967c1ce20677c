package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// InvalidationChannel carries cache tag invalidations between replicas.
const InvalidationChannel = "cache:invalidations"

// Invalidation is the payload published on InvalidationChannel.
type Invalidation struct {
	Origin uuid.UUID `json:"origin"`
	Tags   []string  `json:"tags"`
}

type PubSub struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &PubSub{client: client}, nil
}

func (ps *PubSub) Close() error {
	if err := ps.client.Close(); err != nil {
		return fmt.Errorf("redis.PubSub.Close: %w", err)
	}
	return nil
}

func (ps *PubSub) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := ps.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis.PubSub.Publish: %w", err)
	}
	return nil
}

func (ps *PubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	sub := ps.client.Subscribe(ctx, channel)

	// Wait for subscription confirmation.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.PubSub.Subscribe: receive confirmation: %w", err)
	}

	out := make(chan []byte, 64)
	redisCh := sub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-redisCh:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cleanup := func() {
		_ = sub.Close()
	}

	return out, cleanup, nil
}

// PublishInvalidation broadcasts inv to every subscribed replica.
func (ps *PubSub) PublishInvalidation(ctx context.Context, inv Invalidation) error {
	payload, err := EncodeInvalidation(inv)
	if err != nil {
		return fmt.Errorf("redis.PubSub.PublishInvalidation: %w", err)
	}
	return ps.Publish(ctx, InvalidationChannel, payload)
}

// SubscribeInvalidations streams decoded invalidations until ctx is done.
// Malformed payloads are dropped.
func (ps *PubSub) SubscribeInvalidations(ctx context.Context) (<-chan Invalidation, func(), error) {
	raw, cleanup, err := ps.Subscribe(ctx, InvalidationChannel)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan Invalidation, 64)
	go func() {
		defer close(out)
		for payload := range raw {
			inv, decodeErr := DecodeInvalidation(payload)
			if decodeErr != nil {
				continue
			}
			select {
			case out <- inv:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup, nil
}

func EncodeInvalidation(inv Invalidation) ([]byte, error) {
	b, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("encode invalidation: %w", err)
	}
	return b, nil
}

func DecodeInvalidation(payload []byte) (Invalidation, error) {
	var inv Invalidation
	if err := json.Unmarshal(payload, &inv); err != nil {
		return Invalidation{}, fmt.Errorf("decode invalidation: %w", err)
	}
	if inv.Origin == uuid.Nil || len(inv.Tags) == 0 {
		return Invalidation{}, fmt.Errorf("decode invalidation: missing origin or tags")
	}
	return inv, nil
}
