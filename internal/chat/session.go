package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/moatalk/moatalk/internal/domain"
	"github.com/moatalk/moatalk/internal/pubsub"
	ws "github.com/moatalk/moatalk/internal/websocket"
)

// Session drives the receive side of one or more WebSocket connections:
// it parses inbound events, persists them, enriches them and hands the
// resulting payload to the pub/sub bus. Fan-out to other clients happens
// in the subscriber, never here.
type Session struct {
	chats     domain.ChatRepository
	users     domain.UserRepository
	rooms     domain.RoomRepository
	images    domain.ImageRepository
	publisher pubsub.Publisher
	validate  *validator.Validate
}

// NewSession wires a session processor over the given repositories and bus.
func NewSession(
	chats domain.ChatRepository,
	users domain.UserRepository,
	rooms domain.RoomRepository,
	images domain.ImageRepository,
	publisher pubsub.Publisher,
) *Session {
	return &Session{
		chats:     chats,
		users:     users,
		rooms:     rooms,
		images:    images,
		publisher: publisher,
		validate:  validator.New(),
	}
}

// ReadPump reads events from the client until the connection drops or an
// event references state that does not exist. Malformed frames are logged
// and skipped; the session stays up.
func (s *Session) ReadPump(ctx context.Context, client *ws.Client) {
	for {
		raw, err := client.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				slog.Info("WebSocket closed by client", "clientID", client.ID)
			} else if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
				slog.Error("WebSocket read error", "clientID", client.ID, "error", err)
			}
			return
		}

		if err := s.HandleEvent(ctx, raw); err != nil {
			slog.Error("Terminating session on event error", "clientID", client.ID, "error", err)
			return
		}
	}
}

// HandleEvent processes one inbound frame. A nil return means the session
// should keep reading; a non-nil return is fatal for the session.
func (s *Session) HandleEvent(ctx context.Context, raw []byte) error {
	var event InboundEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		slog.Warn("Dropping malformed chat event", "error", err)
		return nil
	}
	if err := s.validate.Struct(&event); err != nil {
		slog.Warn("Dropping invalid chat event", "error", err)
		return nil
	}

	outbound, err := s.process(ctx, event)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(outbound)
	if err != nil {
		return fmt.Errorf("marshaling outbound event: %w", err)
	}

	msg := pubsub.Message{
		Topic:   TopicNewMessage,
		UserID:  fmt.Sprintf("%d", event.WriterID),
		Payload: payload,
		Metadata: map[string]string{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publishing chat event: %w", err)
	}
	return nil
}

// process persists the event and assembles the enriched broadcast payload.
// The writer and room must exist; an event pointing at missing state is a
// protocol violation, not a transient condition.
func (s *Session) process(ctx context.Context, event InboundEvent) (*OutboundEvent, error) {
	writer, err := s.users.FindByID(ctx, event.WriterID)
	if err != nil {
		return nil, fmt.Errorf("resolving writer %d: %w", event.WriterID, err)
	}
	if _, err := s.rooms.FindByID(ctx, event.ChatroomID); err != nil {
		return nil, fmt.Errorf("resolving chatroom %d: %w", event.ChatroomID, err)
	}

	var (
		persisted *domain.Chat
		image     *domain.Image
	)
	switch event.ChatType {
	case domain.ChatTypeText:
		persisted, err = s.chats.AppendText(ctx, event.ChatroomID, event.WriterID, event.Text)
		if err != nil {
			return nil, fmt.Errorf("appending text chat: %w", err)
		}
	case domain.ChatTypeImage:
		image, err = s.images.FindByID(ctx, event.ImageID)
		if err != nil {
			return nil, fmt.Errorf("resolving image %d: %w", event.ImageID, err)
		}
		persisted, err = s.chats.AppendImage(ctx, event.ChatroomID, event.WriterID, event.ImageID)
		if err != nil {
			return nil, fmt.Errorf("appending image chat: %w", err)
		}
	}

	outbound := NewOutboundEvent(persisted, writer, image)
	return &outbound, nil
}
