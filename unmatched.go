// Package unmatched wires the game world core together: a seeded world
// store (local or replicated), the websocket event stream for presentation
// adapters, the drag controller and the HTTP surface.
package unmatched

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	"github.com/Dionid/unmatched/drag"
	"github.com/Dionid/unmatched/events"
	"github.com/Dionid/unmatched/replica"
	"github.com/Dionid/unmatched/server"
	"github.com/Dionid/unmatched/statsd"
	"github.com/Dionid/unmatched/store"
	"github.com/Dionid/unmatched/world"
)

var ErrUnknownMode = eris.New("unknown deploy mode")

// Game owns the full lifecycle of one game world process.
type Game struct {
	store       store.Store
	hub         *events.EventHub
	watcher     *events.Watcher
	server      *server.Server
	drag        *drag.Controller
	redisClient *redis.Client
}

// NewGame builds a game from config. The store is seeded with the embedded
// first world unless WithSeedWorld overrides it.
func NewGame(cfg WorldConfig, opts ...GameOption) (*Game, error) {
	g := &Game{}

	settings := gameSettings{}
	for _, opt := range opts {
		opt(&settings)
	}

	seed := settings.seed
	if seed == nil {
		firstWorld, err := world.FirstWorld()
		if err != nil {
			return nil, err
		}
		seed = firstWorld
	}

	switch cfg.Mode {
	case ModeLocal:
		g.store = store.NewLocal(seed)
	case ModeReplicated:
		g.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
		})
		replicated, err := replica.New(
			context.Background(),
			uuid.NewString(),
			g.redisClient,
			seed,
		)
		if err != nil {
			return nil, err
		}
		g.store = replicated
	default:
		return nil, eris.Wrapf(ErrUnknownMode, "mode %q", cfg.Mode)
	}

	if cfg.StatsdAddress != "" {
		if err := statsd.Init(cfg.StatsdAddress, nil); err != nil {
			log.Logger.Warn().Err(err).Msg("statsd disabled")
		}
	}

	g.hub = events.NewEventHub(events.SnapshotProvider(g.store))
	g.watcher = events.Watch(g.store, g.hub)
	g.drag = drag.NewController(g.store)

	serverOpts := []server.Option{server.WithPort(cfg.Port)}
	if settings.withCORS {
		serverOpts = append(serverOpts, server.WithCORS())
	}
	g.server = server.New(g.store, g.hub, serverOpts...)

	return g, nil
}

// StartGame serves HTTP until Shutdown. Blocking.
func (g *Game) StartGame() error {
	log.Logger.Info().Msg("starting game server")
	return g.server.Serve()
}

// Shutdown tears the process down in dependency order: stop accepting
// requests, stop the event stream, then close the store.
func (g *Game) Shutdown() error {
	if err := g.server.Shutdown(); err != nil {
		return err
	}
	g.watcher.Stop()
	g.hub.Shutdown()
	if err := g.store.Close(); err != nil {
		return err
	}
	if g.redisClient != nil {
		return eris.Wrap(g.redisClient.Close(), "")
	}
	return nil
}

func (g *Game) Store() store.Store {
	return g.store
}

func (g *Game) Drag() *drag.Controller {
	return g.drag
}

func (g *Game) Server() *server.Server {
	return g.server
}

type gameSettings struct {
	seed     *world.World
	withCORS bool
}

type GameOption func(s *gameSettings)

// WithSeedWorld replaces the embedded first world.
func WithSeedWorld(w *world.World) GameOption {
	return func(s *gameSettings) {
		s.seed = w
	}
}

func WithCORS() GameOption {
	return func(s *gameSettings) {
		s.withCORS = true
	}
}
