package server

import (
	"github.com/gofiber/fiber/v2"
)

// HealthResult is the response body for /health.
type HealthResult struct {
	IsServerRunning bool `json:"isServerRunning"`
	Connections     int  `json:"connections"`
}

func (s *Server) registerHealthHandler() {
	s.app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(HealthResult{
			IsServerRunning: s.running.Load(),
			Connections:     s.hub.ConnectionCount(),
		})
	})
}
