package ops

import (
	"github.com/rotisserie/eris"

	"github.com/Dionid/unmatched/world"
)

// ResourceDelta adjusts a resource counter by a relative amount. Counter
// edits travel as deltas, never as absolute values, so two replicas that
// adjust the same resource concurrently both take effect instead of one
// overwriting the other. The resulting value is floored at zero.
type ResourceDelta struct {
	ResourceID world.ResourceID `json:"resourceId"`
	Delta      int              `json:"delta"`
}

// IncrementResource adds 1 to a resource's value.
func IncrementResource(id world.ResourceID) *ResourceDelta {
	return &ResourceDelta{ResourceID: id, Delta: 1}
}

// DecrementResource subtracts 1 from a resource's value, flooring at 0.
func DecrementResource(id world.ResourceID) *ResourceDelta {
	return &ResourceDelta{ResourceID: id, Delta: -1}
}

func (op *ResourceDelta) Kind() Kind { return KindResourceDelta }

func (op *ResourceDelta) Validate(w *world.World) error {
	if _, ok := w.ResourcesByID[op.ResourceID]; !ok {
		return eris.Wrapf(ErrResourceNotFound, "resource %q", op.ResourceID)
	}
	return nil
}

func (op *ResourceDelta) Apply(w *world.World) error {
	if err := op.Validate(w); err != nil {
		return err
	}
	resource := w.ResourcesByID[op.ResourceID]
	next := resource.Value + op.Delta
	if next < 0 {
		next = 0
	}
	resource.Value = next
	w.ResourcesByID[op.ResourceID] = resource
	return nil
}
