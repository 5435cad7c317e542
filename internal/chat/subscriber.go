package chat

import (
	"context"

	"github.com/moatalk/moatalk/internal/pubsub"
	ws "github.com/moatalk/moatalk/internal/websocket"
)

// Subscriber bridges the pub/sub bus to the WebSocket dispatcher. It is the
// only component that fans messages out; sessions never write to other
// clients directly.
type Subscriber struct {
	subscriber pubsub.Subscriber
	dispatcher *ws.Dispatcher
}

// NewSubscriber creates the broadcast subscriber.
func NewSubscriber(subscriber pubsub.Subscriber, dispatcher *ws.Dispatcher) *Subscriber {
	return &Subscriber{subscriber: subscriber, dispatcher: dispatcher}
}

// Start subscribes to new chat messages and broadcasts each payload as-is.
// The payload was marshaled once at publish time; every client receives the
// same bytes.
func (s *Subscriber) Start(ctx context.Context) error {
	return s.subscriber.Subscribe(ctx, TopicNewMessage, func(ctx context.Context, msg pubsub.Message) error {
		s.dispatcher.Broadcast(msg.Payload)
		return nil
	})
}
