package world

import (
	"github.com/rotisserie/eris"
)

var (
	ErrDanglingReference = eris.New("dangling entity reference")
	ErrCardShared        = eris.New("card is listed in more than one deck")
	ErrBadDeckKind       = eris.New("unknown deck kind")
	ErrBadCurrentPlayer  = eris.New("current player does not exist")
	ErrNegativeResource  = eris.New("resource value is negative")
)

// Validate checks the referential-integrity invariants of the world: every id
// referenced by a deck or player resolves, no card is listed by two decks,
// deck kinds are known, resource values are non-negative and the current
// player exists whenever any player does.
func (w *World) Validate() error {
	if len(w.PlayersByID) > 0 {
		if _, ok := w.PlayersByID[w.CurrentPlayerID]; !ok {
			return eris.Wrapf(ErrBadCurrentPlayer, "currentPlayerId %q", w.CurrentPlayerID)
		}
	}

	cardOwner := make(map[CardID]DeckID, len(w.CardsByID))
	for deckID, deck := range w.DecksByID {
		if !deck.Kind.Valid() {
			return eris.Wrapf(ErrBadDeckKind, "deck %q has kind %q", deckID, deck.Kind)
		}
		for _, cardID := range deck.Cards {
			if _, ok := w.CardsByID[cardID]; !ok {
				return eris.Wrapf(ErrDanglingReference, "deck %q references card %q", deckID, cardID)
			}
			if owner, taken := cardOwner[cardID]; taken {
				return eris.Wrapf(ErrCardShared, "card %q is in decks %q and %q", cardID, owner, deckID)
			}
			cardOwner[cardID] = deckID
		}
	}

	for resourceID, resource := range w.ResourcesByID {
		if resource.Value < 0 {
			return eris.Wrapf(ErrNegativeResource, "resource %q has value %d", resourceID, resource.Value)
		}
	}

	for playerID, player := range w.PlayersByID {
		for _, deckID := range player.Decks {
			if _, ok := w.DecksByID[deckID]; !ok {
				return eris.Wrapf(ErrDanglingReference, "player %q references deck %q", playerID, deckID)
			}
		}
		for _, cardID := range player.Cards {
			if _, ok := w.CardsByID[cardID]; !ok {
				return eris.Wrapf(ErrDanglingReference, "player %q references card %q", playerID, cardID)
			}
		}
		for _, resourceID := range player.Resources {
			if _, ok := w.ResourcesByID[resourceID]; !ok {
				return eris.Wrapf(ErrDanglingReference, "player %q references resource %q", playerID, resourceID)
			}
		}
		for _, characterID := range player.Characters {
			if _, ok := w.CharactersByID[characterID]; !ok {
				return eris.Wrapf(ErrDanglingReference, "player %q references character %q", playerID, characterID)
			}
		}
	}

	return nil
}
