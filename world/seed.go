package world

import (
	_ "embed"

	"github.com/rotisserie/eris"

	"github.com/Dionid/unmatched/codec"
)

//go:embed first_world.json
var firstWorldJSON []byte

// LoadSeed decodes a seed world document and validates it. A seed that fails
// referential-integrity checks is rejected outright; the store never starts
// from a broken world.
func LoadSeed(bz []byte) (*World, error) {
	w, err := codec.Decode[World](bz)
	if err != nil {
		return nil, eris.Wrap(err, "failed to decode seed world")
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	normalize(&w)
	return &w, nil
}

// FirstWorld returns the embedded demo world: one player with hand, draw,
// discard and play decks, a health resource, a map and a character token.
func FirstWorld() (*World, error) {
	return LoadSeed(firstWorldJSON)
}

// normalize fills nil maps and slices so mutation code never has to
// distinguish "absent" from "empty".
func normalize(w *World) {
	if w.PlayersByID == nil {
		w.PlayersByID = map[PlayerID]Player{}
	}
	if w.CardsByID == nil {
		w.CardsByID = map[CardID]Card{}
	}
	if w.DecksByID == nil {
		w.DecksByID = map[DeckID]Deck{}
	}
	if w.ResourcesByID == nil {
		w.ResourcesByID = map[ResourceID]Resource{}
	}
	if w.MapsByID == nil {
		w.MapsByID = map[MapID]Map{}
	}
	if w.CharactersByID == nil {
		w.CharactersByID = map[CharacterID]Character{}
	}
	for id, deck := range w.DecksByID {
		if deck.Cards == nil {
			deck.Cards = []CardID{}
			w.DecksByID[id] = deck
		}
	}
}
