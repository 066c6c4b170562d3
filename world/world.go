// Package world holds the tabletop game world schema: a single aggregate
// document of cards, decks, resources, players, maps and characters, all
// keyed by opaque string ids. A World value is never shared mutable state;
// the store packages hand out snapshots and mutate copies.
package world

type (
	WorldID     string
	CardID      string
	DeckID      string
	ResourceID  string
	PlayerID    string
	MapID       string
	CharacterID string
)

// Position is a 3-D board position. Z is a stacking order, not a gameplay
// coordinate; reposition operations leave it untouched.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Size is a display hint carried through from the seed document (CSS units).
type Size struct {
	Width  string `json:"width"`
	Height string `json:"height"`
}

// DeckKind governs display and move-coupling rules for a deck.
type DeckKind string

const (
	DeckKindHand    DeckKind = "hand"
	DeckKindDraw    DeckKind = "draw"
	DeckKindDiscard DeckKind = "discard"
	DeckKindPlay    DeckKind = "play"
)

func (k DeckKind) Valid() bool {
	switch k {
	case DeckKindHand, DeckKindDraw, DeckKindDiscard, DeckKindPlay:
		return true
	}
	return false
}

// DisplayFaceUp reports whether cards in a deck of this kind render face-up
// regardless of their stored flag. This is a display override only; it never
// mutates the card.
func (k DeckKind) DisplayFaceUp() bool {
	return k == DeckKindHand
}

type Card struct {
	ID            CardID   `json:"id"`
	Name          string   `json:"name"`
	FrontImageURI string   `json:"frontImageUri"`
	BackImageURI  string   `json:"backImageUri"`
	IsFaceUp      bool     `json:"isFaceUp"`
	Position      Position `json:"position"`
}

// Deck is an ordered pile of cards. The end of Cards is the top of the pile.
type Deck struct {
	ID       DeckID   `json:"id"`
	Name     string   `json:"name"`
	Cards    []CardID `json:"cards"`
	Kind     DeckKind `json:"type"`
	Position Position `json:"position"`
}

type Resource struct {
	ID          ResourceID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ImageURI    string     `json:"imageUri"`
	Value       int        `json:"value"`
	Position    Position   `json:"position"`
}

type Player struct {
	ID         PlayerID      `json:"id"`
	Name       string        `json:"name"`
	Decks      []DeckID      `json:"decks"`
	Cards      []CardID      `json:"cards"`
	Resources  []ResourceID  `json:"resources"`
	Characters []CharacterID `json:"characters"`
}

// Map is a background image. No gameplay invariant attaches to it.
type Map struct {
	ID       MapID    `json:"id"`
	Name     string   `json:"name"`
	ImageURI string   `json:"imageUri"`
	Position Position `json:"position"`
	Size     Size     `json:"size"`
}

// Character is an independently draggable token.
type Character struct {
	ID       CharacterID `json:"id"`
	Name     string      `json:"name"`
	ImageURI string      `json:"imageUri"`
	Position Position    `json:"position"`
	Size     Size        `json:"size"`
}

// World is the complete snapshot of all game entities at one instant.
type World struct {
	ID              WorldID                   `json:"id"`
	CurrentPlayerID PlayerID                  `json:"currentPlayerId"`
	PlayersByID     map[PlayerID]Player       `json:"playersById"`
	CardsByID       map[CardID]Card           `json:"cardsById"`
	DecksByID       map[DeckID]Deck           `json:"decksById"`
	ResourcesByID   map[ResourceID]Resource   `json:"resourcesById"`
	MapsByID        map[MapID]Map             `json:"mapsById"`
	CharactersByID  map[CharacterID]Character `json:"charactersById"`
}

// DeckOfCard returns the deck currently holding the given card. Card
// ownership is exclusive, so at most one deck can match.
func (w *World) DeckOfCard(id CardID) (DeckID, bool) {
	for deckID, deck := range w.DecksByID {
		for _, cardID := range deck.Cards {
			if cardID == id {
				return deckID, true
			}
		}
	}
	return "", false
}
