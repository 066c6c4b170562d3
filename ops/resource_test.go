package ops_test

import (
	"testing"

	"github.com/Dionid/unmatched/assert"
	"github.com/Dionid/unmatched/ops"
)

func TestResourceDelta(t *testing.T) {
	w := newWorld(t)

	assert.NilError(t, ops.IncrementResource("1").Apply(w))
	assert.Equal(t, w.ResourcesByID["1"].Value, 11)

	assert.NilError(t, ops.DecrementResource("1").Apply(w))
	assert.Equal(t, w.ResourcesByID["1"].Value, 10)

	delta := &ops.ResourceDelta{ResourceID: "1", Delta: -4}
	assert.NilError(t, delta.Apply(w))
	assert.Equal(t, w.ResourcesByID["1"].Value, 6)
}

func TestResourceDeltaFloorsAtZero(t *testing.T) {
	w := newWorld(t)

	delta := &ops.ResourceDelta{ResourceID: "1", Delta: -100}
	assert.NilError(t, delta.Apply(w))
	assert.Equal(t, w.ResourcesByID["1"].Value, 0)

	assert.NilError(t, ops.DecrementResource("1").Apply(w))
	assert.Equal(t, w.ResourcesByID["1"].Value, 0)
}

func TestResourceDeltaRejectsUnknownResource(t *testing.T) {
	w := newWorld(t)
	delta := ops.IncrementResource("ghost")
	assert.ErrorIs(t, delta.Validate(w), ops.ErrResourceNotFound)
	assert.ErrorIs(t, delta.Apply(w), ops.ErrResourceNotFound)
}
