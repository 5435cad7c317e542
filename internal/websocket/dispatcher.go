package websocket

import (
	"log/slog"
)

// Dispatcher fans a payload out to every registered client. Delivery to one
// client never blocks or aborts delivery to the others; a client that cannot
// accept the message is evicted from the registry.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Broadcast sends the payload to every client in the current registry
// snapshot. Clients added after the snapshot is taken are not delivered to.
func (d *Dispatcher) Broadcast(payload []byte) {
	for _, client := range d.registry.Snapshot() {
		if err := client.SendMessage(payload); err != nil {
			slog.Warn("Evicting client after failed send", "clientID", client.ID, "error", err)
			d.registry.Remove(client.ID)
			client.Close()
		}
	}
}
