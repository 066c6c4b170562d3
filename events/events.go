// Package events fans world state changes out to websocket observers.
// Presentation adapters connect here, receive a full snapshot on arrival and
// a JSON patch after every store update, and never mutate world state
// themselves.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

const shutdownPollInterval = 200 * time.Millisecond

const writeDeadline = 5 * time.Second

// websocketAndDoneChan pairs a websocket connection with a channel used to
// signal the web handler once the hub has processed the (un)registration.
type websocketAndDoneChan struct {
	connection *websocket.Conn
	doneChan   chan bool
}

// EventHub owns all websocket connections from a single goroutine. Events
// are queued by broadcast and written out on flush, so one store update that
// produces several events still reaches every client as one batch.
type EventHub struct {
	websocketConnections map[*websocket.Conn]bool
	broadcast            chan []byte
	flush                chan bool
	register             chan websocketAndDoneChan
	unregister           chan websocketAndDoneChan
	getConnectionCount   chan chan int
	shutdown             chan bool
	eventQueue           [][]byte
	snapshot             func() ([]byte, error)
	isRunning            atomic.Bool
}

// NewEventHub starts a hub. The snapshot function produces the greeting
// payload written to every connection right after it registers.
func NewEventHub(snapshot func() ([]byte, error)) *EventHub {
	eh := &EventHub{
		websocketConnections: map[*websocket.Conn]bool{},
		broadcast:            make(chan []byte),
		flush:                make(chan bool),
		register:             make(chan websocketAndDoneChan),
		unregister:           make(chan websocketAndDoneChan),
		getConnectionCount:   make(chan chan int),
		shutdown:             make(chan bool),
		eventQueue:           make([][]byte, 0),
		snapshot:             snapshot,
	}
	eh.isRunning.Store(false)
	go eh.Run()
	return eh
}

func (eh *EventHub) ConnectionCount() int {
	countChan := make(chan int)
	eh.getConnectionCount <- countChan
	return <-countChan
}

func (eh *EventHub) Broadcast(event []byte) {
	eh.broadcast <- event
}

func (eh *EventHub) FlushEvents() {
	eh.flush <- true
}

func (eh *EventHub) RegisterConnection(ws *websocket.Conn) {
	doneChan := make(chan bool)
	eh.register <- websocketAndDoneChan{connection: ws, doneChan: doneChan}
	<-doneChan
}

func (eh *EventHub) UnregisterConnection(ws *websocket.Conn) {
	doneChan := make(chan bool)
	eh.unregister <- websocketAndDoneChan{connection: ws, doneChan: doneChan}
	<-doneChan
}

func (eh *EventHub) Shutdown() {
	eh.shutdown <- true
	for eh.isRunning.Load() {
		time.Sleep(shutdownPollInterval)
	}
}

func (eh *EventHub) Run() {
	if eh.isRunning.Load() {
		return
	}
	eh.isRunning.Store(true)
	unregisterConnection := func(conn *websocket.Conn) {
		if _, ok := eh.websocketConnections[conn]; ok {
			delete(eh.websocketConnections, conn)
			if err := eris.Wrap(conn.Close(), ""); err != nil {
				log.Logger.Error().Err(err).Msg(eris.ToString(err, true))
			}
		}
	}
Loop:
	for eh.isRunning.Load() {
		select {
		case countChan := <-eh.getConnectionCount:
			countChan <- len(eh.websocketConnections)
		case wsAndDone := <-eh.register:
			conn := wsAndDone.connection
			eh.websocketConnections[conn] = true
			if err := eh.writeGreeting(conn); err != nil {
				log.Logger.Error().Err(err).Msg("failed to greet new connection")
				unregisterConnection(conn)
			}
			wsAndDone.doneChan <- true
		case wsAndDone := <-eh.unregister:
			unregisterConnection(wsAndDone.connection)
			wsAndDone.doneChan <- true
		case event := <-eh.broadcast:
			eh.eventQueue = append(eh.eventQueue, event)
		case <-eh.flush:
			eh.flushToConnections()
		case <-eh.shutdown:
			go func() {
				for range eh.shutdown { //nolint:revive // drains the channel until closed
				}
			}()
			for conn := range eh.websocketConnections {
				unregisterConnection(conn)
			}
			break Loop
		}
	}
	eh.isRunning.Store(false)
}

// writeGreeting sends the full current snapshot so a late joiner has a base
// to apply subsequent patches onto.
func (eh *EventHub) writeGreeting(conn *websocket.Conn) error {
	if eh.snapshot == nil {
		return nil
	}
	payload, err := eh.snapshot()
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return eris.Wrap(err, "")
	}
	return eris.Wrap(conn.WriteMessage(websocket.TextMessage, payload), "")
}

func (eh *EventHub) flushToConnections() {
	var waitGroup sync.WaitGroup
	for conn := range eh.websocketConnections {
		waitGroup.Add(1)
		conn := conn
		go func() {
			defer waitGroup.Done()
			for _, event := range eh.eventQueue {
				err := eris.Wrap(conn.SetWriteDeadline(time.Now().Add(writeDeadline)), "")
				if err == nil {
					err = eris.Wrap(conn.WriteMessage(websocket.TextMessage, event), "")
				}
				if err != nil {
					go func() {
						eh.UnregisterConnection(conn)
					}()
					log.Logger.Error().Err(err).Msg(eris.ToString(err, true))
					break
				}
			}
		}()
	}
	waitGroup.Wait()
	eh.eventQueue = eh.eventQueue[:0]
}

// NewWebSocketEventHandler returns the fiber websocket handler that keeps a
// connection registered for its lifetime. Inbound messages are ignored; the
// stream is one-way.
func (eh *EventHub) NewWebSocketEventHandler() func(conn *websocket.Conn) {
	return func(conn *websocket.Conn) {
		eh.RegisterConnection(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		eh.UnregisterConnection(conn)
	}
}
