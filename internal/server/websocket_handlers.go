package server

import (
	"log/slog"

	"chirper/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// EventStreamHandler upgrades to a websocket that receives every comment
// event. Viewers may be anonymous.
func (s *Server) EventStreamHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		var uid uint
		if v, ok := conn.Locals("userID").(uint); ok {
			uid = v
		}

		client, err := s.hub.Register(conn, uid)
		if err != nil {
			middleware.Logger.Warn("websocket registration refused",
				slog.Uint64("user_id", uint64(uid)), slog.String("error", err.Error()))
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return upgrade(c)
	}
}
