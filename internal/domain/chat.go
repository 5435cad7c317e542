package domain

import (
	"context"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Chat message variants. The variant tag selects which payload field is
// meaningful: Text for ChatTypeText, ImageID for ChatTypeImage.
const (
	ChatTypeText  = "text"
	ChatTypeImage = "image"
)

// Chat is a single persisted message, text or image, stored as a tagged
// union in one table. Seq is assigned transactionally and is strictly
// increasing within the store; it is both the record id and the tie-break
// for messages sharing a created_at timestamp.
type Chat struct {
	ID        *surrealmodels.RecordID       `json:"id,omitempty"`
	Seq       int64                         `json:"seq"`
	RoomID    *surrealmodels.RecordID       `json:"chatroom_id,omitempty"`
	WriterID  *surrealmodels.RecordID       `json:"writer_id,omitempty"`
	ChatType  string                        `json:"chat_type"`
	Text      string                        `json:"text,omitempty"`
	ImageID   *surrealmodels.RecordID       `json:"image_id,omitempty"`
	CreatedAt *surrealmodels.CustomDateTime `json:"created_at,omitempty"`
}

// ChatRepository defines the contract for the message store. Messages are
// immutable once appended and never deleted.
type ChatRepository interface {
	// AppendText persists a text message bound to the room and writer and
	// returns the fully-populated record including its assigned sequence.
	AppendText(ctx context.Context, roomID, writerID int64, text string) (*Chat, error)

	// AppendImage persists an image-reference message.
	AppendImage(ctx context.Context, roomID, writerID, imageID int64) (*Chat, error)

	// ListByRoom returns all messages in the room, both variants merged,
	// ordered ascending by (created_at, seq).
	ListByRoom(ctx context.Context, roomID int64) ([]Chat, error)

	// MostRecent returns the last element of ListByRoom under the same
	// ordering, or nil when the room has no messages.
	MostRecent(ctx context.Context, roomID int64) (*Chat, error)
}
