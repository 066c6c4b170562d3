// Package test_utils starts a real game server on an ephemeral port for
// tests that exercise the HTTP and websocket surface end to end.
package test_utils

import (
	"bytes"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/Dionid/unmatched/assert"
	"github.com/Dionid/unmatched/codec"
	"github.com/Dionid/unmatched/events"
	"github.com/Dionid/unmatched/server"
	"github.com/Dionid/unmatched/store"
	"github.com/Dionid/unmatched/world"
)

// TestServer wraps a running game server together with its event hub.
type TestServer struct {
	T     *testing.T
	Host  string
	Store store.Store
	Hub   *events.EventHub
}

// MakeTestServer wires a store to an event hub and serves it on an ephemeral
// port. Everything is shut down via t.Cleanup.
func MakeTestServer(t *testing.T, s store.Store, opts ...server.Option) *TestServer {
	hub := events.NewEventHub(events.SnapshotProvider(s))
	watcher := events.Watch(s, hub)
	srv := server.New(s, hub, opts...)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NilError(t, err)
	go func() {
		if serveErr := srv.ServeListener(ln); serveErr != nil {
			t.Error(serveErr)
		}
	}()

	t.Cleanup(func() {
		assert.NilError(t, srv.Shutdown())
		watcher.Stop()
		hub.Shutdown()
		assert.NilError(t, s.Close())
	})

	host := ln.Addr().String()
	start := time.Now()
	for {
		assert.Assert(t, time.Since(start) < 5*time.Second, "timeout while waiting for a healthy server")
		resp, err := http.Get("http://" + host + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			_ = resp.Body.Close()
			break
		}
	}

	return &TestServer{T: t, Host: host, Store: s, Hub: hub}
}

// NewTestWorld returns a fresh copy of the embedded first world.
func NewTestWorld(t *testing.T) *world.World {
	w, err := world.FirstWorld()
	assert.NilError(t, err)
	return w
}

func (ts *TestServer) MakeHTTPURL(path string) string {
	return "http://" + ts.Host + path
}

func (ts *TestServer) MakeWebSocketURL(path string) string {
	return "ws://" + ts.Host + path
}

func (ts *TestServer) Post(path string, payload any) *http.Response {
	bz, err := codec.Encode(payload)
	assert.NilError(ts.T, err)

	res, err := http.Post(ts.MakeHTTPURL(path), "application/json", bytes.NewReader(bz))
	assert.NilError(ts.T, err)
	return res
}

func (ts *TestServer) Get(path string) *http.Response {
	res, err := http.Get(ts.MakeHTTPURL(path))
	assert.NilError(ts.T, err)
	return res
}
