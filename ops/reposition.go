package ops

import (
	"github.com/rotisserie/eris"

	"github.com/Dionid/unmatched/world"
)

// EntityKind names the entity collections that can be dragged around the
// board. Cards move between decks instead of repositioning individually.
type EntityKind string

const (
	EntityResource  EntityKind = "resource"
	EntityDeck      EntityKind = "deck"
	EntityMap       EntityKind = "map"
	EntityCharacter EntityKind = "character"
)

// Reposition overwrites an entity's x/y position. Z is a stacking order
// managed elsewhere and stays untouched.
type Reposition struct {
	EntityKind EntityKind `json:"entityKind"`
	EntityID   string     `json:"entityId"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
}

func (op *Reposition) Kind() Kind { return KindReposition }

func (op *Reposition) Validate(w *world.World) error {
	switch op.EntityKind {
	case EntityResource:
		if _, ok := w.ResourcesByID[world.ResourceID(op.EntityID)]; !ok {
			return eris.Wrapf(ErrResourceNotFound, "resource %q", op.EntityID)
		}
	case EntityDeck:
		if _, ok := w.DecksByID[world.DeckID(op.EntityID)]; !ok {
			return eris.Wrapf(ErrDeckNotFound, "deck %q", op.EntityID)
		}
	case EntityMap:
		if _, ok := w.MapsByID[world.MapID(op.EntityID)]; !ok {
			return eris.Wrapf(ErrEntityNotFound, "map %q", op.EntityID)
		}
	case EntityCharacter:
		if _, ok := w.CharactersByID[world.CharacterID(op.EntityID)]; !ok {
			return eris.Wrapf(ErrEntityNotFound, "character %q", op.EntityID)
		}
	default:
		return eris.Wrapf(ErrEntityNotFound, "unknown entity kind %q", op.EntityKind)
	}
	return nil
}

func (op *Reposition) Apply(w *world.World) error {
	if err := op.Validate(w); err != nil {
		return err
	}
	switch op.EntityKind {
	case EntityResource:
		resource := w.ResourcesByID[world.ResourceID(op.EntityID)]
		resource.Position.X, resource.Position.Y = op.X, op.Y
		w.ResourcesByID[world.ResourceID(op.EntityID)] = resource
	case EntityDeck:
		deck := w.DecksByID[world.DeckID(op.EntityID)]
		deck.Position.X, deck.Position.Y = op.X, op.Y
		w.DecksByID[world.DeckID(op.EntityID)] = deck
	case EntityMap:
		m := w.MapsByID[world.MapID(op.EntityID)]
		m.Position.X, m.Position.Y = op.X, op.Y
		w.MapsByID[world.MapID(op.EntityID)] = m
	case EntityCharacter:
		character := w.CharactersByID[world.CharacterID(op.EntityID)]
		character.Position.X, character.Position.Y = op.X, op.Y
		w.CharactersByID[world.CharacterID(op.EntityID)] = character
	}
	return nil
}
