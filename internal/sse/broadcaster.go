// Package sse fans session updates out to connected event-stream clients.
package sse

import (
	"log"
	"maps"
	"os"
	"sync"
	"time"
)

var debug bool

func init() {
	debug = os.Getenv("DEBUG") != ""
}

// SetDebug turns verbose logging on or off. Call it before serving.
func SetDebug(enabled bool) {
	debug = enabled
}

// DebugEnabled reports whether verbose logging is on.
func DebugEnabled() bool {
	return debug
}

const (
	// BufferSize is the channel capacity per client.
	BufferSize = 10
	// SendTimeout bounds how long a broadcast waits on a slow client.
	SendTimeout = 2 * time.Second
)

// Hub tracks the clients connected to each session on this server.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[chan Message]string // session -> channel -> player
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[chan Message]string)}
}

// AddClient registers a new client for player on session and returns its
// channel.
func (h *Hub) AddClient(session, player string) chan Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[session]
	if clients == nil {
		clients = make(map[chan Message]string)
		h.clients[session] = clients
	}

	// Warn if the same player has multiple SSE connections
	dup := 0
	for _, pid := range clients {
		if player != "" && pid == player {
			dup++
		}
	}
	if dup > 0 {
		log.Printf("WARN: player %s opened %d additional SSE connection(s) to session %s", player, dup, session)
	}

	ch := make(chan Message, BufferSize)
	clients[ch] = player
	return ch
}

// RemoveClient unregisters a client.
func (h *Hub) RemoveClient(session string, ch chan Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.clients[session]
	delete(clients, ch)
	if len(clients) == 0 {
		delete(h.clients, session)
	}
	if debug {
		log.Printf("sse: client removed from session %s, now have %d clients", session, len(clients))
	}
}

// ClientCount returns the number of clients connected to session.
func (h *Hub) ClientCount(session string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[session])
}

// Broadcast sends the same message to every client of session.
func (h *Hub) Broadcast(session, event, data string) {
	h.BroadcastPersonalized(session, func(string) string { return data }, event)
}

// BroadcastPersonalized renders one message per client and sends it.
func (h *Hub) BroadcastPersonalized(session string, renderFunc func(player string) string, event string) {
	h.mu.RLock()
	// Collect all client channels and their players while holding the lock
	clients := maps.Clone(h.clients[session])
	h.mu.RUnlock()

	// Send messages WITHOUT holding the lock
	sent := 0
	for ch, player := range clients {
		if Send(ch, Message{Event: event, Data: renderFunc(player)}) {
			sent++
		}
	}
	if debug {
		log.Printf("sse: event=%s session=%s sent to %d/%d clients", event, session, sent, len(clients))
	}
}

// Send delivers msg to ch, giving up after SendTimeout.
func Send(ch chan<- Message, msg Message) bool {
	timer := time.NewTimer(SendTimeout)
	defer timer.Stop()
	select {
	case ch <- msg:
		return true
	case <-timer.C:
		return false
	}
}
