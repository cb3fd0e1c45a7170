package websocket

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the push endpoint at path. Plain HTTP requests get 426.
func RegisterRoutes(ctx context.Context, router fiber.Router, path string, hub *Hub) {
	router.Use(path, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get(path, websocket.New(func(c *websocket.Conn) {
		hub.Serve(ctx, c)
	}))
}
