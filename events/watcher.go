package events

import (
	"sync"

	"github.com/wI2L/jsondiff"

	"github.com/Dionid/unmatched/codec"
	"github.com/Dionid/unmatched/store"
	"github.com/Dionid/unmatched/world"
)

// Event type tags on the websocket stream.
const (
	TypeSnapshot = "world_snapshot"
	TypePatch    = "world_patch"
)

// WorldEvent is the wire shape of one event on the stream. Snapshot events
// carry the whole world; patch events carry an RFC 6902 patch from the
// previous world to the next one.
type WorldEvent struct {
	Type  string         `json:"type"`
	World *world.World   `json:"world,omitempty"`
	Patch jsondiff.Patch `json:"patch,omitempty"`
}

// Watcher subscribes to a store and turns every published snapshot into a
// patch event on the hub. Patches keep the stream cheap: a reposition during
// a drag is two numbers on the wire, not the whole world.
type Watcher struct {
	hub *EventHub

	mu          sync.Mutex
	previous    *world.World
	unsubscribe func()
}

// Watch wires a store to a hub and returns the running watcher. Call Stop
// before shutting the hub down.
func Watch(s store.Store, hub *EventHub) *Watcher {
	w := &Watcher{
		hub:      hub,
		previous: s.State(),
	}
	w.unsubscribe = s.Subscribe(w.publish)
	return w
}

func (w *Watcher) publish(next *world.World) {
	w.mu.Lock()
	previous := w.previous
	w.previous = next
	w.mu.Unlock()

	patch, err := jsondiff.Compare(previous, next)
	if err != nil {
		// Fall back to a full snapshot; the stream must not go silent on a
		// diff failure.
		w.emit(WorldEvent{Type: TypeSnapshot, World: next})
		return
	}
	if len(patch) == 0 {
		return
	}
	w.emit(WorldEvent{Type: TypePatch, Patch: patch})
}

func (w *Watcher) emit(event WorldEvent) {
	bz, err := codec.Encode(event)
	if err != nil {
		return
	}
	w.hub.Broadcast(bz)
	w.hub.FlushEvents()
}

func (w *Watcher) Stop() {
	w.unsubscribe()
}

// SnapshotProvider adapts a store to the hub's greeting payload.
func SnapshotProvider(s store.Store) func() ([]byte, error) {
	return func() ([]byte, error) {
		return codec.Encode(WorldEvent{Type: TypeSnapshot, World: s.State()})
	}
}
