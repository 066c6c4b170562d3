package replica_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Dionid/unmatched/assert"
	"github.com/Dionid/unmatched/ops"
	"github.com/Dionid/unmatched/replica"
	"github.com/Dionid/unmatched/world"
)

func newRedisClient(t *testing.T, mr *miniredis.Miniredis) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		assert.NilError(t, client.Close())
	})
	return client
}

func newReplica(t *testing.T, mr *miniredis.Miniredis, replicaID string) *replica.Replicated {
	t.Helper()
	seed, err := world.FirstWorld()
	assert.NilError(t, err)
	r, err := replica.New(context.Background(), replicaID, newRedisClient(t, mr), seed)
	assert.NilError(t, err)
	t.Cleanup(func() {
		assert.NilError(t, r.Close())
	})
	return r
}

// waitFor polls until the condition holds or the deadline passes. Remote ops
// fold in asynchronously, so observations on a peer replica need a grace
// period.
func waitFor(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !condition() {
		assert.Assert(t, time.Now().Before(deadline), "condition not met before deadline")
		time.Sleep(5 * time.Millisecond)
	}
}

func TestApplyReflectsInOwnState(t *testing.T) {
	mr := miniredis.RunT(t)
	r := newReplica(t, mr, "replica-a")

	assert.NilError(t, r.Apply(&ops.FlipCard{CardID: "1"}))

	// The store contract holds: the op is already folded when Apply returns.
	assert.False(t, r.State().CardsByID["1"].IsFaceUp)
}

func TestReplicasConverge(t *testing.T) {
	mr := miniredis.RunT(t)
	a := newReplica(t, mr, "replica-a")
	b := newReplica(t, mr, "replica-b")

	assert.NilError(t, a.Apply(&ops.MoveCardToDeck{CardID: "1", SourceDeckID: "1", TargetDeckID: "3"}))
	assert.NilError(t, b.Apply(&ops.FlipCard{CardID: "2"}))

	waitFor(t, func() bool {
		deckID, ok := b.State().DeckOfCard("1")
		return ok && deckID == "3" && !a.State().CardsByID["2"].IsFaceUp
	})
	assert.DeepEqual(t, a.State(), b.State())
}

func TestConcurrentDeltasBothApply(t *testing.T) {
	mr := miniredis.RunT(t)
	a := newReplica(t, mr, "replica-a")
	b := newReplica(t, mr, "replica-b")

	var wg sync.WaitGroup
	for _, r := range []*replica.Replicated{a, b} {
		r := r
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NilError(t, r.Apply(ops.IncrementResource("1")))
		}()
	}
	wg.Wait()

	// Deltas compose regardless of arrival order.
	waitFor(t, func() bool {
		return a.State().ResourcesByID["1"].Value == 12 &&
			b.State().ResourcesByID["1"].Value == 12
	})
}

func TestShuffleProducesSamePermutationEverywhere(t *testing.T) {
	mr := miniredis.RunT(t)
	a := newReplica(t, mr, "replica-a")
	b := newReplica(t, mr, "replica-b")

	shuffle := ops.NewShuffleDeck("1")
	assert.NilError(t, a.Apply(shuffle))

	waitFor(t, func() bool {
		cards := b.State().DecksByID["1"].Cards
		aCards := a.State().DecksByID["1"].Cards
		if len(cards) != len(aCards) {
			return false
		}
		for i := range cards {
			if cards[i] != aCards[i] {
				return false
			}
		}
		return true
	})
}

func TestLateJoinerFoldsTheLog(t *testing.T) {
	mr := miniredis.RunT(t)
	a := newReplica(t, mr, "replica-a")

	assert.NilError(t, a.Apply(ops.DecrementResource("1")))
	assert.NilError(t, a.Apply(&ops.TakeTopCard{SourceDeckID: "2", TargetDeckID: "1"}))

	b := newReplica(t, mr, "replica-b")
	assert.Equal(t, b.State().ResourcesByID["1"].Value, 9)
	assert.DeepEqual(t, b.State().DecksByID["1"].Cards, []world.CardID{"1", "2", "3"})
}

func TestUpdateIsNotReplicable(t *testing.T) {
	mr := miniredis.RunT(t)
	r := newReplica(t, mr, "replica-a")

	err := r.Update(func(*world.World) error { return nil })
	assert.ErrorIs(t, err, replica.ErrRecipeNotReplicable)
}

func TestApplyRejectsBadReferenceWithoutPublishing(t *testing.T) {
	mr := miniredis.RunT(t)
	r := newReplica(t, mr, "replica-a")

	err := r.Apply(ops.IncrementResource("ghost"))
	assert.ErrorIs(t, err, ops.ErrResourceNotFound)

	// Nothing reached the shared log.
	client := newRedisClient(t, mr)
	entries, redisErr := client.LRange(context.Background(), "world:2d304c56-0361-47a4-8426-e4154f69ef6b:oplog", 0, -1).Result()
	assert.NilError(t, redisErr)
	assert.Len(t, entries, 0)
}

func TestSubscribeSeesFoldedOps(t *testing.T) {
	mr := miniredis.RunT(t)
	r := newReplica(t, mr, "replica-a")

	var mu sync.Mutex
	var seen []int
	unsubscribe := r.Subscribe(func(w *world.World) {
		mu.Lock()
		seen = append(seen, w.ResourcesByID["1"].Value)
		mu.Unlock()
	})
	defer unsubscribe()

	assert.NilError(t, r.Apply(ops.IncrementResource("1")))
	assert.NilError(t, r.Apply(ops.IncrementResource("1")))

	mu.Lock()
	defer mu.Unlock()
	assert.DeepEqual(t, seen, []int{11, 12})
}

func TestClosedReplicaRejectsApply(t *testing.T) {
	mr := miniredis.RunT(t)
	seed, err := world.FirstWorld()
	assert.NilError(t, err)
	r, err := replica.New(context.Background(), "replica-a", newRedisClient(t, mr), seed)
	assert.NilError(t, err)

	assert.NilError(t, r.Close())
	assert.NilError(t, r.Close())

	assert.ErrorIs(t, r.Apply(ops.IncrementResource("1")), replica.ErrReplicaClosed)
}
