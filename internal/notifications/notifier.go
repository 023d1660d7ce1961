// Package notifications publishes community events into Redis channels for
// downstream consumers (bots, digest jobs, future realtime delivery).
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event channel layout:
//
//	events:channel:<id>  per-channel post activity
//	events:broadcast     community-wide announcements
const broadcastChannel = "events:broadcast"

func channelEvents(channelID uint) string {
	return fmt.Sprintf("events:channel:%d", channelID)
}

// PostEvent is the payload published when a post is created or deleted.
type PostEvent struct {
	Type      string    `json:"type"` // "post_created", "post_deleted"
	PostID    uint      `json:"post_id"`
	ChannelID uint      `json:"channel_id"`
	UserID    uint      `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier publishes events into Redis channels. A nil Redis client turns
// every publish into a no-op so callers never need to guard.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a Notifier using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishPostEvent sends a post event to the owning channel's subscribers.
func (n *Notifier) PublishPostEvent(ctx context.Context, event PostEvent) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, channelEvents(event.ChannelID), payload).Err()
}

// PublishBroadcast sends a payload to every subscriber.
func (n *Notifier) PublishBroadcast(ctx context.Context, payload string) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, broadcastChannel, payload).Err()
}

// StartPatternSubscriber subscribes to all event channels and calls onMessage
// for each incoming message until ctx is cancelled.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "events:channel:*", broadcastChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in event subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
