package ops

import (
	"math/rand"

	"github.com/rotisserie/eris"

	"github.com/Dionid/unmatched/world"
)

// FlipCard toggles a card's face-up flag.
type FlipCard struct {
	CardID world.CardID `json:"cardId"`
}

func (op *FlipCard) Kind() Kind { return KindFlipCard }

func (op *FlipCard) Validate(w *world.World) error {
	if _, ok := w.CardsByID[op.CardID]; !ok {
		return eris.Wrapf(ErrCardNotFound, "card %q", op.CardID)
	}
	return nil
}

func (op *FlipCard) Apply(w *world.World) error {
	if err := op.Validate(w); err != nil {
		return err
	}
	card := w.CardsByID[op.CardID]
	card.IsFaceUp = !card.IsFaceUp
	w.CardsByID[op.CardID] = card
	return nil
}

// MoveCardToDeck removes a card from the source deck's sequence and appends
// it to the end of the target deck's sequence. Moving a card onto the deck it
// is already in is a no-op. A card entering a play deck is forced face-down;
// that coupling is a house rule of the game, not a generic deck mechanic.
type MoveCardToDeck struct {
	CardID       world.CardID `json:"cardId"`
	SourceDeckID world.DeckID `json:"sourceDeckId"`
	TargetDeckID world.DeckID `json:"targetDeckId"`
}

func (op *MoveCardToDeck) Kind() Kind { return KindMoveCardToDeck }

func (op *MoveCardToDeck) Validate(w *world.World) error {
	if _, ok := w.CardsByID[op.CardID]; !ok {
		return eris.Wrapf(ErrCardNotFound, "card %q", op.CardID)
	}
	source, ok := w.DecksByID[op.SourceDeckID]
	if !ok {
		return eris.Wrapf(ErrDeckNotFound, "source deck %q", op.SourceDeckID)
	}
	if _, ok = w.DecksByID[op.TargetDeckID]; !ok {
		return eris.Wrapf(ErrDeckNotFound, "target deck %q", op.TargetDeckID)
	}
	if op.SourceDeckID == op.TargetDeckID {
		return nil
	}
	if !containsCard(source.Cards, op.CardID) {
		return eris.Wrapf(ErrCardNotInDeck, "card %q not in deck %q", op.CardID, op.SourceDeckID)
	}
	return nil
}

func (op *MoveCardToDeck) Apply(w *world.World) error {
	if err := op.Validate(w); err != nil {
		return err
	}
	if op.SourceDeckID == op.TargetDeckID {
		return nil
	}

	source := w.DecksByID[op.SourceDeckID]
	source.Cards = withoutCard(source.Cards, op.CardID)
	w.DecksByID[op.SourceDeckID] = source

	target := w.DecksByID[op.TargetDeckID]
	target.Cards = appendCard(target.Cards, op.CardID)
	w.DecksByID[op.TargetDeckID] = target

	if target.Kind == world.DeckKindPlay {
		card := w.CardsByID[op.CardID]
		card.IsFaceUp = false
		w.CardsByID[op.CardID] = card
	}
	return nil
}

// TakeTopCard moves the top card (the last element) of the source deck to the
// end of the target deck. Taking from an empty deck is a no-op. The play-deck
// face-down coupling of MoveCardToDeck applies to the moved card.
type TakeTopCard struct {
	SourceDeckID world.DeckID `json:"sourceDeckId"`
	TargetDeckID world.DeckID `json:"targetDeckId"`
}

func (op *TakeTopCard) Kind() Kind { return KindTakeTopCard }

func (op *TakeTopCard) Validate(w *world.World) error {
	if _, ok := w.DecksByID[op.SourceDeckID]; !ok {
		return eris.Wrapf(ErrDeckNotFound, "source deck %q", op.SourceDeckID)
	}
	if _, ok := w.DecksByID[op.TargetDeckID]; !ok {
		return eris.Wrapf(ErrDeckNotFound, "target deck %q", op.TargetDeckID)
	}
	return nil
}

func (op *TakeTopCard) Apply(w *world.World) error {
	if err := op.Validate(w); err != nil {
		return err
	}
	source := w.DecksByID[op.SourceDeckID]
	if len(source.Cards) == 0 || op.SourceDeckID == op.TargetDeckID {
		return nil
	}
	top := source.Cards[len(source.Cards)-1]
	move := &MoveCardToDeck{
		CardID:       top,
		SourceDeckID: op.SourceDeckID,
		TargetDeckID: op.TargetDeckID,
	}
	return move.Apply(w)
}

// ShuffleDeck permutes a deck's card sequence with a Fisher-Yates shuffle
// seeded by the operation itself, so every replica that applies the same
// operation produces the same permutation.
type ShuffleDeck struct {
	DeckID world.DeckID `json:"deckId"`
	Seed   int64        `json:"seed"`
}

// NewShuffleDeck creates a shuffle operation with a random seed.
func NewShuffleDeck(deckID world.DeckID) *ShuffleDeck {
	return &ShuffleDeck{DeckID: deckID, Seed: rand.Int63()}
}

func (op *ShuffleDeck) Kind() Kind { return KindShuffleDeck }

func (op *ShuffleDeck) Validate(w *world.World) error {
	if _, ok := w.DecksByID[op.DeckID]; !ok {
		return eris.Wrapf(ErrDeckNotFound, "deck %q", op.DeckID)
	}
	return nil
}

func (op *ShuffleDeck) Apply(w *world.World) error {
	if err := op.Validate(w); err != nil {
		return err
	}
	deck := w.DecksByID[op.DeckID]
	if len(deck.Cards) < 2 {
		return nil
	}
	cards := make([]world.CardID, len(deck.Cards))
	copy(cards, deck.Cards)
	rng := rand.New(rand.NewSource(op.Seed))
	for i := len(cards) - 1; i >= 1; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	deck.Cards = cards
	w.DecksByID[op.DeckID] = deck
	return nil
}

func containsCard(cards []world.CardID, id world.CardID) bool {
	for _, cardID := range cards {
		if cardID == id {
			return true
		}
	}
	return false
}

func withoutCard(cards []world.CardID, id world.CardID) []world.CardID {
	out := make([]world.CardID, 0, len(cards))
	for _, cardID := range cards {
		if cardID != id {
			out = append(out, cardID)
		}
	}
	return out
}

func appendCard(cards []world.CardID, id world.CardID) []world.CardID {
	out := make([]world.CardID, 0, len(cards)+1)
	out = append(out, cards...)
	return append(out, id)
}
