package websocket

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// ErrSendBufferFull signals that a client could not keep up with the
// broadcast rate and the message was not queued.
var ErrSendBufferFull = errors.New("client send buffer full")

// ErrClientClosed signals that the client's send channel has been closed.
var ErrClientClosed = errors.New("client closed")

const writeTimeout = 10 * time.Second

// Client represents a single connected WebSocket client. A user can hold
// several clients at once (one per tab or device).
type Client struct {
	// ID is the unique identifier for this connection.
	ID string
	// UserID is the numeric id of the authenticated user behind the connection.
	UserID int64
	// conn is the underlying WebSocket connection.
	conn *websocket.Conn
	// send is a buffered channel of outbound messages for this client.
	send chan []byte
	mu   sync.RWMutex
}

// NewClient wraps an accepted WebSocket connection.
func NewClient(id string, userID int64, conn *websocket.Conn) *Client {
	return &Client{
		ID:     id,
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
}

// SendMessage queues a message on the client's send channel without blocking.
// It uses a read lock to ensure the channel is not closed concurrently.
func (c *Client) SendMessage(msg []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// A nil channel means the client has already disconnected.
	if c.send == nil {
		return ErrClientClosed
	}

	select {
	case c.send <- msg:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close safely closes the client's send channel, terminating its WritePump.
// It is safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.send != nil {
		close(c.send)
		c.send = nil // Set to nil to prevent further use
	}
}

// Read blocks until the next message arrives from the peer.
func (c *Client) Read(ctx context.Context) ([]byte, error) {
	_, data, err := c.conn.Read(ctx)
	return data, err
}

// CloseConn closes the underlying connection with a normal closure status.
func (c *Client) CloseConn(reason string) {
	c.conn.Close(websocket.StatusNormalClosure, reason)
}

// WritePump pumps messages from the client's send channel to the WebSocket
// connection. It runs until the send channel is closed or a write fails.
func (c *Client) WritePump() {
	defer func() {
		c.conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")
	}()

	for {
		message, ok := <-c.send
		if !ok {
			// Close() shut the channel.
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			slog.Error("WebSocket write error", "clientID", c.ID, "error", err)
			return
		}
	}
}
