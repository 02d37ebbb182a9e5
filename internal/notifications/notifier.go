// Package notifications fans comment events out to websocket clients through Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"chirper/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// CommentEventsChannel carries every comment event.
const CommentEventsChannel = "events:comments"

// EventType names a realtime event.
type EventType string

const (
	CommentCreated EventType = "comment_created"
	CommentDeleted EventType = "comment_deleted"
	CommentLiked   EventType = "comment_liked"
)

// Event is the JSON frame written to websocket clients.
type Event struct {
	Type      EventType `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"ts"`
}

// Notifier publishes events into Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishCommentEvent publishes a comment event. Without Redis it is a no-op.
func (n *Notifier) PublishCommentEvent(ctx context.Context, eventType EventType, payload any) error {
	if n.rdb == nil {
		return nil
	}
	data, err := json.Marshal(Event{Type: eventType, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.rdb.Publish(ctx, CommentEventsChannel, data).Err()
}

// StartEventSubscriber subscribes to the comment event channel and calls
// onMessage for each message until ctx is cancelled. It returns once the
// subscription is confirmed by Redis.
func (n *Notifier) StartEventSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, CommentEventsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", CommentEventsChannel, err)
	}
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
							middleware.Logger.Error("panic in event subscriber",
								slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
