package chat

import (
	"time"

	"github.com/moatalk/moatalk/internal/domain"
)

// TopicNewMessage is the pub/sub topic carrying freshly persisted chat
// messages from sessions to the broadcast subscriber.
const TopicNewMessage = "chat.messages.new"

// InboundEvent is the wire shape a client sends over its WebSocket session.
// Exactly one of Text or ImageID is meaningful, selected by ChatType.
type InboundEvent struct {
	ChatType   string `json:"chat_type" validate:"required,oneof=text image"`
	WriterID   int64  `json:"writer_id" validate:"required"`
	ChatroomID int64  `json:"chatroom_id" validate:"required"`
	Text       string `json:"text" validate:"required_if=ChatType text"`
	ImageID    int64  `json:"image_id" validate:"required_if=ChatType image"`
}

// ImageMeta is the image payload attached to outbound image events.
type ImageMeta struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ImageName string `json:"image_name"`
	ImageType string `json:"image_type"`
}

// OutboundEvent is the enriched message fanned out to connected clients.
// History entries use the same shape so clients render live and replayed
// messages identically.
type OutboundEvent struct {
	ID         int64           `json:"id"`
	ChatroomID int64           `json:"chatroom_id"`
	WriterID   int64           `json:"writer_id"`
	ChatType   string          `json:"chat_type"`
	Time       string          `json:"time"`
	Text       string          `json:"text,omitempty"`
	Writer     *domain.Profile `json:"writer,omitempty"`
	Image      *ImageMeta      `json:"image,omitempty"`
}

// NewOutboundEvent builds the broadcast payload for a persisted chat.
// For image messages the event's chat_type carries the stored media tag
// (e.g. "image", "video") rather than the union tag, so clients can pick a
// renderer without fetching the metadata first.
func NewOutboundEvent(c *domain.Chat, writer *domain.User, image *domain.Image) OutboundEvent {
	ev := OutboundEvent{
		ID:         c.Seq,
		ChatroomID: domain.RecordSeq(c.RoomID),
		WriterID:   domain.RecordSeq(c.WriterID),
		ChatType:   c.ChatType,
		Text:       c.Text,
	}
	if c.CreatedAt != nil {
		ev.Time = c.CreatedAt.Format(time.RFC3339)
	}
	if writer != nil {
		p := writer.Profile()
		ev.Writer = &p
	}
	if image != nil {
		ev.ChatType = image.ImageType
		ev.Image = &ImageMeta{
			ID:        image.Seq,
			Name:      image.Name,
			ImageName: image.ImageName,
			ImageType: image.ImageType,
		}
	}
	return ev
}
