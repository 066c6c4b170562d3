package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/invopop/jsonschema"

	"github.com/Dionid/unmatched/world"
)

// registerDebugHandlers serves the JSON schema of the world document, so
// presentation adapters and seed authors can validate against the live
// entity shapes instead of copying them by hand.
func (s *Server) registerDebugHandlers() {
	schema := jsonschema.Reflect(&world.World{})
	s.app.Get("/debug/world-schema", func(ctx *fiber.Ctx) error {
		return ctx.JSON(schema)
	})
}
