package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendMessageAfterClose(t *testing.T) {
	c := newTestClient("c1", 1)
	c.Close()

	err := c.SendMessage([]byte("hello"))
	assert.ErrorIs(t, err, ErrClientClosed)

	// Close is idempotent.
	c.Close()
}

func TestClientSendMessageBufferFull(t *testing.T) {
	c := newTestClient("c1", 1)

	// Fill the send buffer without a consumer.
	for i := 0; i < cap(c.send); i++ {
		require.NoError(t, c.SendMessage([]byte("x")))
	}

	err := c.SendMessage([]byte("overflow"))
	assert.ErrorIs(t, err, ErrSendBufferFull)
}

func TestDispatcherBroadcastDeliversToAll(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r)

	c1 := newTestClient("c1", 1)
	c2 := newTestClient("c2", 2)
	r.Add(c1)
	r.Add(c2)

	d.Broadcast([]byte("payload"))

	assert.Equal(t, []byte("payload"), <-c1.send)
	assert.Equal(t, []byte("payload"), <-c2.send)
	assert.Equal(t, 2, r.Len())
}

func TestDispatcherEvictsSlowClient(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r)

	c1 := newTestClient("c1", 1)
	slow := newTestClient("slow", 2)
	c3 := newTestClient("c3", 3)
	r.Add(c1)
	r.Add(slow)
	r.Add(c3)

	// Saturate the slow client's buffer so the next send fails.
	for i := 0; i < cap(slow.send); i++ {
		require.NoError(t, slow.SendMessage([]byte("x")))
	}

	d.Broadcast([]byte("payload"))

	// Healthy clients still received the message.
	assert.Equal(t, []byte("payload"), <-c1.send)
	assert.Equal(t, []byte("payload"), <-c3.send)

	// The slow client was evicted and closed.
	assert.Equal(t, 2, r.Len())
	assert.Empty(t, r.GetByUser(2))
	assert.ErrorIs(t, slow.SendMessage([]byte("y")), ErrClientClosed)
}

func TestDispatcherBroadcastWithNoClients(t *testing.T) {
	d := NewDispatcher(NewRegistry())
	d.Broadcast([]byte("payload")) // must not panic
}
