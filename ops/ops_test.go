package ops_test

import (
	"testing"

	"github.com/Dionid/unmatched/assert"
	"github.com/Dionid/unmatched/ops"
)

func TestSealAndReopenEnvelope(t *testing.T) {
	original := &ops.MoveCardToDeck{CardID: "1", SourceDeckID: "1", TargetDeckID: "2"}

	envelope, err := ops.Seal("replica-a", original)
	assert.NilError(t, err)
	assert.Equal(t, envelope.ReplicaID, "replica-a")
	assert.Equal(t, envelope.Kind, ops.KindMoveCardToDeck)
	assert.Assert(t, envelope.OpID != "")

	reopened, err := envelope.Op()
	assert.NilError(t, err)
	assert.DeepEqual(t, reopened, original)
}

func TestSealStampsFreshOpIDs(t *testing.T) {
	op := ops.IncrementResource("1")

	first, err := ops.Seal("replica-a", op)
	assert.NilError(t, err)
	second, err := ops.Seal("replica-a", op)
	assert.NilError(t, err)

	assert.Assert(t, first.OpID != second.OpID)
}

func TestDecode(t *testing.T) {
	op, err := ops.Decode(ops.KindFlipCard, []byte(`{"cardId":"1"}`))
	assert.NilError(t, err)
	flip, ok := op.(*ops.FlipCard)
	assert.True(t, ok)
	assert.Equal(t, string(flip.CardID), "1")
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	_, err := ops.Decode("summon_dragon", []byte(`{}`))
	assert.ErrorIs(t, err, ops.ErrUnknownKind)
}

func TestKindsListsEveryOperation(t *testing.T) {
	kinds := ops.Kinds()
	assert.Len(t, kinds, 6)
	for _, kind := range []ops.Kind{
		ops.KindFlipCard,
		ops.KindMoveCardToDeck,
		ops.KindTakeTopCard,
		ops.KindShuffleDeck,
		ops.KindResourceDelta,
		ops.KindReposition,
	} {
		assert.Contains(t, kinds, kind)
	}
}
