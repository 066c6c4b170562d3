// Package ops defines the mutation operations of the game world. Every
// discrete user action (flip, move, shuffle, resource change, drag
// reposition) is a typed, JSON-serializable operation that validates its
// references against a draft world and then edits it. Operations never edit
// a slice in place: drafts alias slices with the published snapshot, so each
// edit replaces the slice wholesale.
package ops

import (
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/Dionid/unmatched/codec"
	"github.com/Dionid/unmatched/world"
)

type Kind string

const (
	KindFlipCard       Kind = "flip_card"
	KindMoveCardToDeck Kind = "move_card_to_deck"
	KindTakeTopCard    Kind = "take_top_card"
	KindShuffleDeck    Kind = "shuffle_deck"
	KindResourceDelta  Kind = "resource_delta"
	KindReposition     Kind = "reposition"
)

var (
	ErrCardNotFound     = eris.New("card does not exist")
	ErrDeckNotFound     = eris.New("deck does not exist")
	ErrResourceNotFound = eris.New("resource does not exist")
	ErrEntityNotFound   = eris.New("entity does not exist")
	ErrCardNotInDeck    = eris.New("card is not in the source deck")
	ErrUnknownKind      = eris.New("unknown operation kind")
)

// Operation is one discrete user action against the world.
//
// Validate must reject every bad reference before Apply writes anything, so
// an update batch is all-or-nothing. Apply assumes Validate passed.
type Operation interface {
	Kind() Kind
	Validate(w *world.World) error
	Apply(w *world.World) error
}

// opFactories maps a wire kind to a zero-value operation for decoding. New
// operation kinds (entity create/destroy is the expected next one) register
// here and nowhere else.
var opFactories = map[Kind]func() Operation{
	KindFlipCard:       func() Operation { return &FlipCard{} },
	KindMoveCardToDeck: func() Operation { return &MoveCardToDeck{} },
	KindTakeTopCard:    func() Operation { return &TakeTopCard{} },
	KindShuffleDeck:    func() Operation { return &ShuffleDeck{} },
	KindResourceDelta:  func() Operation { return &ResourceDelta{} },
	KindReposition:     func() Operation { return &Reposition{} },
}

// Envelope is the wire form of an operation in the replication log.
type Envelope struct {
	OpID      string          `json:"opId"`
	ReplicaID string          `json:"replicaId"`
	Kind      Kind            `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
}

// Seal wraps an operation for the replication log, stamping it with a fresh
// op id and the sending replica's id.
func Seal(replicaID string, op Operation) (*Envelope, error) {
	payload, err := codec.Encode(op)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		OpID:      uuid.NewString(),
		ReplicaID: replicaID,
		Kind:      op.Kind(),
		Payload:   payload,
	}, nil
}

// Op decodes the enclosed operation.
func (e *Envelope) Op() (Operation, error) {
	factory, ok := opFactories[e.Kind]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownKind, "kind %q", e.Kind)
	}
	op := factory()
	if err := json.Unmarshal(e.Payload, op); err != nil {
		return nil, eris.Wrap(err, "")
	}
	return op, nil
}

// Decode decodes a raw operation payload of the given kind. The HTTP surface
// uses this for tx bodies that are not wrapped in an envelope.
func Decode(kind Kind, payload []byte) (Operation, error) {
	factory, ok := opFactories[kind]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownKind, "kind %q", kind)
	}
	op := factory()
	if err := json.Unmarshal(payload, op); err != nil {
		return nil, eris.Wrap(err, "")
	}
	return op, nil
}

// Kinds returns every registered operation kind.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(opFactories))
	for kind := range opFactories {
		kinds = append(kinds, kind)
	}
	return kinds
}
