package world

// Copy returns a draft of the world that can be mutated without touching the
// receiver. Entity maps are re-allocated with shallow value copies; slices
// inside entities stay aliased with the source, so every mutation that edits
// a slice must replace it with a fresh allocation (the ops package does).
func (w *World) Copy() *World {
	next := &World{
		ID:              w.ID,
		CurrentPlayerID: w.CurrentPlayerID,
		PlayersByID:     make(map[PlayerID]Player, len(w.PlayersByID)),
		CardsByID:       make(map[CardID]Card, len(w.CardsByID)),
		DecksByID:       make(map[DeckID]Deck, len(w.DecksByID)),
		ResourcesByID:   make(map[ResourceID]Resource, len(w.ResourcesByID)),
		MapsByID:        make(map[MapID]Map, len(w.MapsByID)),
		CharactersByID:  make(map[CharacterID]Character, len(w.CharactersByID)),
	}
	for id, player := range w.PlayersByID {
		next.PlayersByID[id] = player
	}
	for id, card := range w.CardsByID {
		next.CardsByID[id] = card
	}
	for id, deck := range w.DecksByID {
		next.DecksByID[id] = deck
	}
	for id, resource := range w.ResourcesByID {
		next.ResourcesByID[id] = resource
	}
	for id, m := range w.MapsByID {
		next.MapsByID[id] = m
	}
	for id, character := range w.CharactersByID {
		next.CharactersByID[id] = character
	}
	return next
}
