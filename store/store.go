// Package store holds the world store: the single source of truth for the
// game world. All writes go through Update; readers get immutable snapshots.
package store

import (
	"github.com/Dionid/unmatched/ops"
	"github.com/Dionid/unmatched/world"
)

// Recipe is a batch of synchronous edits against a draft world. It must not
// perform I/O. If it returns an error the whole batch is discarded.
type Recipe func(draft *world.World) error

// Store publishes immutable world snapshots and applies mutations atomically.
//
// State is O(1) and returns a snapshot that is never mutated afterwards;
// treat it as read-only. Update applies a recipe to a draft and publishes the
// result as the new snapshot, all-or-nothing. Apply is the operation-shaped
// form of Update; the replicated store additionally ships applied operations
// to its peers. Subscribe registers a listener invoked after every
// successful update with the new snapshot.
type Store interface {
	State() *world.World
	Update(recipe Recipe) error
	Apply(op ops.Operation) error
	Subscribe(listener func(w *world.World)) (unsubscribe func())
	Close() error
}
