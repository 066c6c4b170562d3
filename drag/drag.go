// Package drag translates a continuous pointer-drag gesture into discrete
// reposition operations against the world store.
package drag

import (
	"sync"

	"github.com/rotisserie/eris"

	"github.com/Dionid/unmatched/ops"
	"github.com/Dionid/unmatched/store"
	"github.com/Dionid/unmatched/world"
)

var ErrNoActiveDrag = eris.New("no drag in progress")

// Controller owns at most one active drag target at a time. Beginning a new
// drag while one is active replaces it; there is no separate cancel input.
type Controller struct {
	store store.Store

	mu     sync.Mutex
	active *gesture
}

// gesture captures the pointer offset relative to the dragged entity's
// origin at gesture start, so the entity does not jump under the pointer.
type gesture struct {
	entityKind ops.EntityKind
	entityID   string
	offsetX    float64
	offsetY    float64
}

func NewController(s store.Store) *Controller {
	return &Controller{store: s}
}

// Begin starts a drag of the given entity at the given pointer position.
func (c *Controller) Begin(kind ops.EntityKind, entityID string, pointerX, pointerY float64) error {
	origin, err := positionOf(c.store.State(), kind, entityID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.active = &gesture{
		entityKind: kind,
		entityID:   entityID,
		offsetX:    pointerX - origin.X,
		offsetY:    pointerY - origin.Y,
	}
	c.mu.Unlock()
	return nil
}

// Move repositions the dragged entity to follow the pointer.
func (c *Controller) Move(pointerX, pointerY float64) error {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()
	if active == nil {
		return ErrNoActiveDrag
	}
	return c.store.Apply(&ops.Reposition{
		EntityKind: active.entityKind,
		EntityID:   active.entityID,
		X:          pointerX - active.offsetX,
		Y:          pointerY - active.offsetY,
	})
}

// End finishes the gesture. Ending with no drag in progress is a no-op.
func (c *Controller) End() {
	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

func positionOf(w *world.World, kind ops.EntityKind, entityID string) (world.Position, error) {
	probe := &ops.Reposition{EntityKind: kind, EntityID: entityID}
	if err := probe.Validate(w); err != nil {
		return world.Position{}, err
	}
	switch kind {
	case ops.EntityResource:
		return w.ResourcesByID[world.ResourceID(entityID)].Position, nil
	case ops.EntityDeck:
		return w.DecksByID[world.DeckID(entityID)].Position, nil
	case ops.EntityMap:
		return w.MapsByID[world.MapID(entityID)].Position, nil
	case ops.EntityCharacter:
		return w.CharactersByID[world.CharacterID(entityID)].Position, nil
	}
	return world.Position{}, eris.Wrapf(ops.ErrEntityNotFound, "unknown entity kind %q", kind)
}
