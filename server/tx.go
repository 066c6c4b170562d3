package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	oplog "github.com/Dionid/unmatched/log"
	"github.com/Dionid/unmatched/ops"
	"github.com/Dionid/unmatched/statsd"
)

const zerologOpLevel = zerolog.DebugLevel

// TxResult is the response body of a successful tx request.
type TxResult struct {
	OpKind string `json:"opKind"`
}

func (s *Server) registerTxHandler() {
	s.app.Post("/tx/game/:op_kind", func(ctx *fiber.Ctx) error {
		body := ctx.Body()
		if len(body) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "request body was empty")
		}
		kind := ops.Kind(ctx.Params("op_kind"))
		op, err := ops.Decode(kind, body)
		if err != nil {
			if eris.Is(eris.Cause(err), ops.ErrUnknownKind) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		start := time.Now()
		if err := s.store.Apply(op); err != nil {
			// Bad references are caller bugs; the op is rejected whole,
			// never partially applied.
			if isReferenceError(err) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		statsd.EmitOpStat(start, string(kind))
		oplog.Op(&log.Logger, zerologOpLevel, op)

		return ctx.JSON(TxResult{OpKind: string(kind)})
	})
}

func isReferenceError(err error) bool {
	cause := eris.Cause(err)
	for _, sentinel := range []error{
		ops.ErrCardNotFound,
		ops.ErrDeckNotFound,
		ops.ErrResourceNotFound,
		ops.ErrEntityNotFound,
		ops.ErrCardNotInDeck,
	} {
		if eris.Is(cause, sentinel) {
			return true
		}
	}
	return false
}
