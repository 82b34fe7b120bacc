// Package stream carries room change notices between writers and the
// per-room synchronizers over Redis pub/sub. Notices say that something
// changed, not what: subscribers reload the full result set from the
// store, so the latest snapshot is always authoritative in full.
package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type Kind string

const (
	KindRoom    Kind = "room"
	KindMessage Kind = "message"
	KindGift    Kind = "gift"
)

type Change struct {
	RoomID  string          `json:"roomId"`
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func channelFor(roomID string) string {
	return "room:changes:" + roomID
}

type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

func (p *Publisher) Publish(ctx context.Context, c Change) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}
	if err := p.rdb.Publish(ctx, channelFor(c.RoomID), raw).Err(); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

type Subscriber struct {
	rdb *redis.Client
}

func NewSubscriber(rdb *redis.Client) *Subscriber {
	return &Subscriber{rdb: rdb}
}

// Subscribe opens the room's change channel. Events published before the
// subscription began are never delivered. The returned stop function tears
// the subscription down; the channel closes after that.
func (s *Subscriber) Subscribe(ctx context.Context, roomID string) (<-chan Change, func(), error) {
	pubsub := s.rdb.Subscribe(ctx, channelFor(roomID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe room %s: %w", roomID, err)
	}

	out := make(chan Change)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var c Change
			if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
				continue
			}
			select {
			case out <- c:
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() { pubsub.Close() }
	return out, stop, nil
}
