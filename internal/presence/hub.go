// Package presence ingests agent location pings and fans them out live to
// connected observers. The broadcast is a live-only signal: delivery is
// at-most-once per connected observer, with no replay or backfill after a
// reconnect.
package presence

import (
	"sync/atomic"

	"github.com/Vk9769/voting-backend/internal/logger"

	"go.uber.org/zap"
)

// Subscriber is one connected observer. Messages arrive on a bounded
// queue; a subscriber that cannot keep up is dropped by the hub rather
// than allowed to stall the publisher.
type Subscriber struct {
	id   uint64
	send chan []byte
}

// C returns the subscriber's receive channel. The hub closes it when the
// subscriber is dropped or unsubscribed.
func (s *Subscriber) C() <-chan []byte {
	return s.send
}

// Hub is the observer registry. All registry mutation and fan-out happens
// on the Run goroutine; Subscribe, Unsubscribe and Publish are safe to
// call concurrently.
type Hub struct {
	register    chan *Subscriber
	unregister  chan *Subscriber
	broadcast   chan []byte
	done        chan struct{}
	subscribers map[*Subscriber]struct{}
	sendBuffer  int
	nextID      atomic.Uint64
}

// NewHub builds a hub whose subscribers each get a queue of sendBuffer
// messages (256 when non-positive).
func NewHub(sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &Hub{
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		broadcast:   make(chan []byte, 64),
		done:        make(chan struct{}),
		subscribers: make(map[*Subscriber]struct{}),
		sendBuffer:  sendBuffer,
	}
}

// Run owns the registry until Stop is called. Start it once:
//
//	go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case s := <-h.register:
			h.subscribers[s] = struct{}{}
			logger.Debug("presence subscriber joined", zap.Uint64("id", s.id))
		case s := <-h.unregister:
			if _, ok := h.subscribers[s]; ok {
				delete(h.subscribers, s)
				close(s.send)
			}
		case msg := <-h.broadcast:
			for s := range h.subscribers {
				select {
				case s.send <- msg:
				default:
					// Queue full: this observer is too slow, drop it so
					// the publisher never blocks on it.
					delete(h.subscribers, s)
					close(s.send)
					logger.Warn("presence subscriber dropped, send queue full",
						zap.Uint64("id", s.id))
				}
			}
		case <-h.done:
			for s := range h.subscribers {
				delete(h.subscribers, s)
				close(s.send)
			}
			return
		}
	}
}

// Stop shuts the hub down and closes every subscriber channel.
func (h *Hub) Stop() {
	close(h.done)
}

// Subscribe registers a new observer.
func (h *Hub) Subscribe() *Subscriber {
	s := &Subscriber{
		id:   h.nextID.Add(1),
		send: make(chan []byte, h.sendBuffer),
	}
	select {
	case h.register <- s:
	case <-h.done:
		close(s.send)
	}
	return s
}

// Unsubscribe removes an observer. Safe to call after the hub has already
// dropped the subscriber.
func (h *Hub) Unsubscribe(s *Subscriber) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

// Publish fans a message out to every currently-connected observer.
// Best-effort: delivery failures are absorbed per-observer and never
// surface to the caller.
func (h *Hub) Publish(msg []byte) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}
