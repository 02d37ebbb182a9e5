package server

import (
	"encoding/json"
	"log/slog"
	"time"

	"chirper/internal/featureflags"
	"chirper/internal/middleware"
	"chirper/internal/notifications"
	"chirper/internal/service"

	"github.com/gofiber/fiber/v2"
)

var intentEvents = map[service.Intent]notifications.EventType{
	service.IntentCreate: notifications.CommentCreated,
	service.IntentDelete: notifications.CommentDeleted,
	service.IntentLike:   notifications.CommentLiked,
}

// publishCommentEvent fans a successful comment write out to websocket
// clients. With Redis the event goes through pub/sub so every instance's hub
// receives it; without Redis only this instance's hub is fed.
func (s *Server) publishCommentEvent(c *fiber.Ctx, result *service.CommentResult) {
	if result == nil {
		return
	}
	var subject uint
	if uid, ok := c.Locals("userID").(uint); ok {
		subject = uid
	}
	if !s.featureFlags.Enabled(featureflags.CommentEvents, subject) {
		return
	}

	eventType, ok := intentEvents[result.Intent]
	if !ok {
		return
	}
	log := middleware.Logger.With(slog.String("event", string(eventType)))

	if s.notifier != nil {
		if err := s.notifier.PublishCommentEvent(c.UserContext(), eventType, result.Data); err != nil {
			log.WarnContext(c.UserContext(), "failed to publish comment event", slog.String("error", err.Error()))
		}
		return
	}

	data, err := json.Marshal(notifications.Event{Type: eventType, Payload: result.Data, Timestamp: time.Now().UTC()})
	if err != nil {
		log.ErrorContext(c.UserContext(), "failed to marshal comment event", slog.String("error", err.Error()))
		return
	}
	s.hub.BroadcastAll(string(data))
}
