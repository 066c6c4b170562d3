package store

import (
	"sync"

	"github.com/rotisserie/eris"

	"github.com/Dionid/unmatched/ops"
	"github.com/Dionid/unmatched/world"
)

var ErrClosed = eris.New("store is closed")

var _ Store = &Local{}

// Local is the single-process world store. Each update copies the current
// snapshot into a draft, runs the recipe against it and, only on success,
// publishes the draft as the new snapshot. Published snapshots are never
// touched again, so a State result stays valid forever.
type Local struct {
	mu        sync.Mutex
	current   *world.World
	listeners []localListener
	nextSubID int
	closed    bool
}

type localListener struct {
	id int
	fn func(w *world.World)
}

// NewLocal creates a local store seeded with the given world. The seed is
// copied, so the caller's value stays untouched.
func NewLocal(seed *world.World) *Local {
	return &Local{current: seed.Copy()}
}

func (s *Local) State() *world.World {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Local) Update(recipe Recipe) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	draft := s.current.Copy()
	if err := recipe(draft); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = draft
	listeners := make([]localListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, listener := range listeners {
		listener.fn(draft)
	}
	return nil
}

func (s *Local) Apply(op ops.Operation) error {
	return s.Update(op.Apply)
}

func (s *Local) Subscribe(listener func(w *world.World)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners = append(s.listeners, localListener{id: id, fn: listener})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Local) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listeners = nil
	return nil
}
