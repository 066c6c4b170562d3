// Package log holds zerolog helpers for world and operation logging.
package log

import (
	"github.com/rs/zerolog"

	"github.com/Dionid/unmatched/ops"
	"github.com/Dionid/unmatched/world"
)

// Op logs one applied operation.
func Op(logger *zerolog.Logger, level zerolog.Level, op ops.Operation) {
	logger.WithLevel(level).
		Str("op_kind", string(op.Kind())).
		Interface("op", op).
		Msg("op applied")
}

// World logs a summary of a world snapshot.
func World(logger *zerolog.Logger, level zerolog.Level, w *world.World) {
	decks := zerolog.Arr()
	for _, deck := range w.DecksByID {
		dict := zerolog.Dict().
			Str("deck_id", string(deck.ID)).
			Str("kind", string(deck.Kind)).
			Int("cards", len(deck.Cards))
		decks = decks.Dict(dict)
	}
	logger.WithLevel(level).
		Str("world_id", string(w.ID)).
		Int("total_cards", len(w.CardsByID)).
		Int("total_decks", len(w.DecksByID)).
		Int("total_resources", len(w.ResourcesByID)).
		Int("total_players", len(w.PlayersByID)).
		Array("decks", decks).
		Msg("world snapshot")
}
