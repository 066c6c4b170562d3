// Package server exposes the world store over HTTP: tx endpoints for
// mutation operations, a world query, a websocket event stream and health.
package server

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	"github.com/Dionid/unmatched/events"
	"github.com/Dionid/unmatched/store"
)

const defaultPort = "4040"

type Server struct {
	store store.Store
	hub   *events.EventHub
	app   *fiber.App

	port     string
	withCORS bool

	running       atomic.Bool
	shutdownMutex sync.Mutex
}

func New(s store.Store, hub *events.EventHub, opts ...Option) *Server {
	srv := &Server{
		store: s,
		hub:   hub,
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
		port: defaultPort,
	}
	for _, opt := range opts {
		opt(srv)
	}
	srv.registerHandlers()
	return srv
}

func (s *Server) registerHandlers() {
	if s.withCORS {
		s.app.Use(cors.New())
	}
	s.registerTxHandler()
	s.registerQueryHandlers()
	s.registerEventHandler()
	s.registerHealthHandler()
	s.registerDebugHandlers()
}

// Serve blocks until Shutdown is called or the listener fails.
func (s *Server) Serve() error {
	s.running.Store(true)
	err := s.app.Listen(":" + s.port)
	s.running.Store(false)
	return eris.Wrap(err, "")
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// ServeListener serves on an existing listener. Tests use this to bind an
// ephemeral port instead of the configured one.
func (s *Server) ServeListener(ln net.Listener) error {
	s.running.Store(true)
	err := s.app.Listener(ln)
	s.running.Store(false)
	return eris.Wrap(err, "")
}

func (s *Server) Shutdown() error {
	s.shutdownMutex.Lock()
	defer s.shutdownMutex.Unlock()
	if !s.running.Load() {
		return nil
	}
	if err := s.app.Shutdown(); err != nil {
		return eris.Wrap(err, "")
	}
	log.Logger.Info().Msg("successfully shut down server")
	return nil
}
