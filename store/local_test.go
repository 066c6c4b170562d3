package store_test

import (
	"testing"

	"github.com/rotisserie/eris"

	"github.com/Dionid/unmatched/assert"
	"github.com/Dionid/unmatched/ops"
	"github.com/Dionid/unmatched/store"
	"github.com/Dionid/unmatched/world"
)

func newStore(t *testing.T) *store.Local {
	t.Helper()
	seed, err := world.FirstWorld()
	assert.NilError(t, err)
	return store.NewLocal(seed)
}

func TestSeedIsCopied(t *testing.T) {
	seed, err := world.FirstWorld()
	assert.NilError(t, err)
	s := store.NewLocal(seed)

	card := seed.CardsByID["1"]
	card.Name = "scribbled on"
	seed.CardsByID["1"] = card

	assert.Equal(t, s.State().CardsByID["1"].Name, "Jekyll & Hyde 1")
}

func TestUpdatePublishesNewSnapshot(t *testing.T) {
	s := newStore(t)
	before := s.State()

	err := s.Update(func(draft *world.World) error {
		resource := draft.ResourcesByID["1"]
		resource.Value = 7
		draft.ResourcesByID["1"] = resource
		return nil
	})
	assert.NilError(t, err)

	// The published snapshot changed; the one handed out earlier did not.
	assert.Equal(t, s.State().ResourcesByID["1"].Value, 7)
	assert.Equal(t, before.ResourcesByID["1"].Value, 10)
}

func TestUpdateIsAllOrNothing(t *testing.T) {
	s := newStore(t)
	boom := eris.New("boom")

	err := s.Update(func(draft *world.World) error {
		resource := draft.ResourcesByID["1"]
		resource.Value = 0
		draft.ResourcesByID["1"] = resource
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, s.State().ResourcesByID["1"].Value, 10)
}

func TestApplyRunsOperation(t *testing.T) {
	s := newStore(t)

	assert.NilError(t, s.Apply(ops.IncrementResource("1")))
	assert.Equal(t, s.State().ResourcesByID["1"].Value, 11)

	assert.ErrorIs(t, s.Apply(ops.IncrementResource("ghost")), ops.ErrResourceNotFound)
	assert.Equal(t, s.State().ResourcesByID["1"].Value, 11)
}

func TestSubscribe(t *testing.T) {
	s := newStore(t)

	var got []*world.World
	unsubscribe := s.Subscribe(func(w *world.World) {
		got = append(got, w)
	})

	assert.NilError(t, s.Apply(ops.IncrementResource("1")))
	assert.Len(t, got, 1)
	assert.Equal(t, got[0].ResourcesByID["1"].Value, 11)

	// A failed update notifies nobody.
	assert.ErrorIs(t, s.Apply(ops.IncrementResource("ghost")), ops.ErrResourceNotFound)
	assert.Len(t, got, 1)

	unsubscribe()
	assert.NilError(t, s.Apply(ops.IncrementResource("1")))
	assert.Len(t, got, 1)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	s := newStore(t)

	calls := 0
	first := s.Subscribe(func(*world.World) { calls++ })
	second := s.Subscribe(func(*world.World) { calls++ })

	first()
	first()

	assert.NilError(t, s.Apply(ops.IncrementResource("1")))
	assert.Equal(t, calls, 1)

	second()
}

func TestClosedStoreRejectsUpdates(t *testing.T) {
	s := newStore(t)
	assert.NilError(t, s.Close())

	err := s.Update(func(*world.World) error { return nil })
	assert.ErrorIs(t, err, store.ErrClosed)

	// State stays readable after close.
	assert.Equal(t, s.State().ResourcesByID["1"].Value, 10)
}
