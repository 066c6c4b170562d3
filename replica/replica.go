// Package replica implements the replicated world store: every applied
// operation is appended to a Redis-backed op log and published to all other
// replicas of the same world. Redis serializes the channel, so every replica
// folds the same operations in the same order and converges on the same
// world without any merge function. Counter edits travel as relative deltas
// (see ops.ResourceDelta), so concurrent adjustments from different replicas
// all take effect.
package replica

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Dionid/unmatched/codec"
	"github.com/Dionid/unmatched/ops"
	"github.com/Dionid/unmatched/store"
	"github.com/Dionid/unmatched/world"
)

var (
	ErrRecipeNotReplicable = eris.New("replicated store only applies operations, not free-form recipes")
	ErrApplyTimeout        = eris.New("timed out waiting for operation to come back from the log")
	ErrReplicaClosed       = eris.New("replica is closed")
)

const defaultApplyTimeout = 5 * time.Second

var _ store.Store = &Replicated{}

// Replicated is a world store whose updates are an op log shared through
// Redis. Apply publishes the operation and returns once the log has
// delivered it back and it has been folded into the local snapshot, so the
// store-contract guarantee (State reflects the update after Apply returns)
// holds while the log stays the single ordering authority.
type Replicated struct {
	id      string
	inner   *store.Local
	client  *redis.Client
	pubsub  *redis.PubSub
	logger  zerolog.Logger
	timeout time.Duration

	mu      sync.Mutex
	seen    map[string]bool
	pending map[string]chan error
	closed  bool

	cancel context.CancelFunc
	done   chan struct{}

	channel string
	logKey  string
}

type Option func(r *Replicated)

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Replicated) { r.logger = logger }
}

func WithApplyTimeout(timeout time.Duration) Option {
	return func(r *Replicated) { r.timeout = timeout }
}

// New joins the replication group for the given world. The existing op log
// is folded onto the seed before the replica starts accepting operations, so
// a late joiner catches up to the shared state first. The caller keeps
// ownership of the redis client.
func New(
	ctx context.Context,
	replicaID string,
	client *redis.Client,
	seed *world.World,
	opts ...Option,
) (*Replicated, error) {
	if err := seed.Validate(); err != nil {
		return nil, err
	}

	r := &Replicated{
		id:      replicaID,
		client:  client,
		logger:  log.Logger,
		timeout: defaultApplyTimeout,
		seen:    map[string]bool{},
		pending: map[string]chan error{},
		done:    make(chan struct{}),
		channel: opChannelKey(seed.ID),
		logKey:  opLogKey(seed.ID),
	}
	for _, opt := range opts {
		opt(r)
	}

	// Subscribe before reading the log so nothing published in between is
	// lost; anything double-delivered is dropped by op id.
	r.pubsub = client.Subscribe(ctx, r.channel)
	if _, err := r.pubsub.Receive(ctx); err != nil {
		return nil, eris.Wrap(err, "failed to subscribe to op channel")
	}

	base, err := r.foldLog(ctx, seed)
	if err != nil {
		_ = r.pubsub.Close()
		return nil, err
	}
	r.inner = store.NewLocal(base)

	runCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	go r.run(runCtx)

	return r, nil
}

// foldLog replays the persisted op log onto the seed.
func (r *Replicated) foldLog(ctx context.Context, seed *world.World) (*world.World, error) {
	entries, err := r.client.LRange(ctx, r.logKey, 0, -1).Result()
	if err != nil {
		return nil, eris.Wrap(err, "failed to read op log")
	}
	base := seed.Copy()
	for _, entry := range entries {
		envelope, err := codec.Decode[ops.Envelope]([]byte(entry))
		if err != nil {
			return nil, eris.Wrap(err, "corrupt op log entry")
		}
		op, err := envelope.Op()
		if err != nil {
			return nil, err
		}
		if err := op.Apply(base); err != nil {
			// A logged op that no longer applies is a replica bug upstream;
			// skip it rather than refuse to join.
			r.logger.Warn().
				Str("op_id", envelope.OpID).
				Str("kind", string(envelope.Kind)).
				Err(err).
				Msg("skipping inapplicable op log entry")
			continue
		}
		r.seen[envelope.OpID] = true
	}
	return base, nil
}

func (r *Replicated) State() *world.World {
	return r.inner.State()
}

// Update is not supported on the replicated store: a closure cannot be
// shipped to other replicas. Use Apply with a typed operation.
func (r *Replicated) Update(store.Recipe) error {
	return ErrRecipeNotReplicable
}

// Apply validates the operation against the current snapshot, appends it to
// the shared log and waits for it to be delivered back and folded in.
func (r *Replicated) Apply(op ops.Operation) error {
	// Fail fast on bad references before anything reaches the log.
	if err := op.Validate(r.inner.State()); err != nil {
		return err
	}

	envelope, err := ops.Seal(r.id, op)
	if err != nil {
		return err
	}
	bz, err := codec.Encode(envelope)
	if err != nil {
		return err
	}

	resultChan := make(chan error, 1)
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrReplicaClosed
	}
	r.pending[envelope.OpID] = resultChan
	r.mu.Unlock()

	ctx, cancelCtx := context.WithTimeout(context.Background(), r.timeout)
	defer cancelCtx()

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, r.logKey, bz)
	pipe.Publish(ctx, r.channel, bz)
	if _, err := pipe.Exec(ctx); err != nil {
		r.dropPending(envelope.OpID)
		return eris.Wrap(err, "failed to publish op")
	}

	select {
	case err := <-resultChan:
		return err
	case <-ctx.Done():
		r.dropPending(envelope.OpID)
		return eris.Wrap(ErrApplyTimeout, envelope.OpID)
	}
}

func (r *Replicated) Subscribe(listener func(w *world.World)) func() {
	return r.inner.Subscribe(listener)
}

// Close stops the delivery loop and the subscription. The redis client is
// left open for its owner.
func (r *Replicated) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.cancel()
	err := eris.Wrap(r.pubsub.Close(), "")
	<-r.done
	if innerErr := r.inner.Close(); innerErr != nil {
		return innerErr
	}
	return err
}

// run folds delivered operations into the local snapshot, in delivery order.
func (r *Replicated) run(ctx context.Context) {
	defer close(r.done)
	deliveries := r.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-deliveries:
			if !ok {
				return
			}
			r.deliver([]byte(msg.Payload))
		}
	}
}

func (r *Replicated) deliver(bz []byte) {
	envelope, err := codec.Decode[ops.Envelope](bz)
	if err != nil {
		r.logger.Error().Err(err).Msg("dropping undecodable op")
		return
	}

	r.mu.Lock()
	if r.seen[envelope.OpID] {
		r.mu.Unlock()
		return
	}
	r.seen[envelope.OpID] = true
	waiter := r.pending[envelope.OpID]
	delete(r.pending, envelope.OpID)
	r.mu.Unlock()

	var applyErr error
	op, err := envelope.Op()
	if err != nil {
		applyErr = err
	} else {
		applyErr = r.inner.Apply(op)
	}

	if waiter != nil {
		waiter <- applyErr
	} else if applyErr != nil {
		// A remote op that fails here was validated on its own replica
		// against a state we had not caught up to; the log order wins.
		r.logger.Warn().
			Str("op_id", envelope.OpID).
			Str("replica_id", envelope.ReplicaID).
			Err(applyErr).
			Msg("remote op did not apply")
	}
}

func (r *Replicated) dropPending(opID string) {
	r.mu.Lock()
	delete(r.pending, opID)
	r.mu.Unlock()
}

func opChannelKey(worldID world.WorldID) string {
	return "world:" + string(worldID) + ":ops"
}

func opLogKey(worldID world.WorldID) string {
	return "world:" + string(worldID) + ":oplog"
}
