package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Dionid/unmatched/ops"
)

// EndpointsResult is the response body for /query/game/endpoints.
type EndpointsResult struct {
	TxEndpoints    []string `json:"txEndpoints"`
	QueryEndpoints []string `json:"queryEndpoints"`
}

func (s *Server) registerQueryHandlers() {
	s.app.Get("/query/game/world", func(ctx *fiber.Ctx) error {
		return ctx.JSON(s.store.State())
	})

	kinds := ops.Kinds()
	res := EndpointsResult{
		TxEndpoints: make([]string, 0, len(kinds)),
		QueryEndpoints: []string{
			"/query/game/world",
			"/query/game/endpoints",
		},
	}
	for _, kind := range kinds {
		res.TxEndpoints = append(res.TxEndpoints, "/tx/game/"+string(kind))
	}
	s.app.Get("/query/game/endpoints", func(ctx *fiber.Ctx) error {
		return ctx.JSON(res)
	})
}
