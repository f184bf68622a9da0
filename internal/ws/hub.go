package ws

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Target selects the connections a message is delivered to. A client
// matches when either its user id or its email equals the target's.
type Target struct {
	UserID uuid.UUID
	Email  string
}

type envelope struct {
	target  Target
	payload []byte
}

type Hub struct {
	clients    map[*Client]bool
	deliver    chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		deliver:    make(chan envelope, 1024),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run owns the client set until ctx is cancelled, then closes every
// remaining client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mutex.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("[WS] connected user_id=%s total_clients=%d", client.userID, total)
			}

		case client := <-h.unregister:
			h.remove(client)

		case env := <-h.deliver:
			h.mutex.RLock()
			targets := make([]*Client, 0, 2)
			for c := range h.clients {
				if c.matches(env.target) {
					targets = append(targets, c)
				}
			}
			h.mutex.RUnlock()

			for _, client := range targets {
				select {
				case client.send <- env.payload:
				default:
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	if client == nil {
		return
	}
	h.mutex.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mutex.Unlock()
	if ok && h.logger != nil {
		h.logger.Printf("[WS] disconnected user_id=%s total_clients=%d", client.userID, total)
	}
}

// Register hands client to Run. The channel is unbuffered so a client is
// either owned by Run or, once Run has stopped, closed here.
func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Send queues payload for every client matching target. It never blocks.
func (h *Hub) Send(target Target, payload []byte) {
	if h == nil {
		return
	}
	target.Email = strings.ToLower(strings.TrimSpace(target.Email))
	select {
	case h.deliver <- envelope{target: target, payload: payload}:
	default:
		if h.logger != nil {
			h.logger.Printf("[WS] message dropped reason=buffer_full")
		}
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
