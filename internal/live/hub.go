// Package live pushes refresh signals to browsers watching a competition's
// results page.
package live

import (
	"context"
	"sync"
)

// Client is one open results page.
type Client struct {
	CompetitionID int
	Send          chan []byte
}

func NewClient(competitionID int) *Client {
	return &Client{CompetitionID: competitionID, Send: make(chan []byte, 16)}
}

type Message struct {
	CompetitionID int
	Data          []byte
}

// Hub owns the set of clients per competition. All changes go through Run.
type Hub struct {
	clients map[int]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes hub events until ctx is done. Every client still connected
// at that point has its Send channel closed.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, clients := range h.clients {
				for client := range clients {
					close(client.Send)
				}
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.CompetitionID] == nil {
				h.clients[client.CompetitionID] = make(map[*Client]bool)
			}
			h.clients[client.CompetitionID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[msg.CompetitionID] {
				select {
				case client.Send <- msg.Data:
				default:
					// slow reader
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.CompetitionID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.CompetitionID)
	}
}

// Broadcast queues data for every client of the competition.
func (h *Hub) Broadcast(competitionID int, data []byte) {
	select {
	case h.broadcast <- &Message{CompetitionID: competitionID, Data: data}:
	case <-h.done:
	}
}

// Refresh tells open results pages to reload.
func (h *Hub) Refresh(competitionID int) {
	h.Broadcast(competitionID, []byte("refresh"))
}

// Register and Unregister return immediately once Run has stopped.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Clients counts the connected clients of a competition.
func (h *Hub) Clients(competitionID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[competitionID])
}
