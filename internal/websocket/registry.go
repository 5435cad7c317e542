package websocket

import (
	"sync"
)

// Registry tracks the set of live WebSocket clients. All methods are safe
// for concurrent use.
type Registry struct {
	clients map[string]*Client
	users   map[int64]map[string]bool // Maps userID to a set of clientIDs
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]*Client),
		users:   make(map[int64]map[string]bool),
	}
}

// Add registers a new client.
func (r *Registry) Add(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clients[client.ID] = client

	if _, ok := r.users[client.UserID]; !ok {
		r.users[client.UserID] = make(map[string]bool)
	}
	r.users[client.UserID][client.ID] = true
}

// Remove unregisters a client. Removing an id that is absent is a no-op, so
// the read loop and a failed broadcast can both try without coordination.
func (r *Registry) Remove(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[clientID]
	if !ok {
		return
	}
	delete(r.clients, clientID)

	if r.users[client.UserID] != nil {
		delete(r.users[client.UserID], clientID)
		if len(r.users[client.UserID]) == 0 {
			delete(r.users, client.UserID)
		}
	}
}

// GetByUser returns all clients for a given user ID.
func (r *Registry) GetByUser(userID int64) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var userClients []*Client
	for id := range r.users[userID] {
		if client, ok := r.clients[id]; ok {
			userClients = append(userClients, client)
		}
	}
	return userClients
}

// Snapshot returns the current set of clients. The slice is a copy; holders
// never observe later registry mutations.
func (r *Registry) Snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Client, 0, len(r.clients))
	for _, client := range r.clients {
		all = append(all, client)
	}
	return all
}

// Len returns the number of registered clients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
