package database

import (
	"context"

	"github.com/moatalk/moatalk/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// ChatStore implements domain.ChatRepository on SurrealDB. Both message
// variants live in the single "chat" table, discriminated by chat_type.
//
// Sequence assignment and record creation happen inside one transaction so
// two concurrent writers can never observe or assign the same seq. The seq
// doubles as the record id and as the tie-break for messages created within
// the same timestamp granularity.
type ChatStore struct {
	db *surrealdb.DB
}

// NewChatStore creates a new message store.
func NewChatStore(db *surrealdb.DB) domain.ChatRepository {
	return &ChatStore{db: db}
}

const appendTextQuery = `
BEGIN TRANSACTION;
LET $n = (UPSERT seq:chat SET value += 1 RETURN AFTER)[0].value;
LET $chat = CREATE type::thing('chat', $n) CONTENT {
	seq: $n,
	chatroom_id: type::thing('chatroom', $room),
	writer_id: type::thing('user', $writer),
	chat_type: 'text',
	text: $text,
	created_at: time::now()
};
RETURN $chat;
COMMIT TRANSACTION;
`

const appendImageQuery = `
BEGIN TRANSACTION;
LET $n = (UPSERT seq:chat SET value += 1 RETURN AFTER)[0].value;
LET $chat = CREATE type::thing('chat', $n) CONTENT {
	seq: $n,
	chatroom_id: type::thing('chatroom', $room),
	writer_id: type::thing('user', $writer),
	chat_type: 'image',
	image_id: type::thing('image', $image),
	created_at: time::now()
};
RETURN $chat;
COMMIT TRANSACTION;
`

// AppendText persists a text message and returns the populated record.
func (s *ChatStore) AppendText(ctx context.Context, roomID, writerID int64, text string) (*domain.Chat, error) {
	params := map[string]any{"room": roomID, "writer": writerID, "text": text}
	chat, err := QueryOne[domain.Chat](ctx, s.db, appendTextQuery, params)
	if err != nil {
		return nil, NewDBError(err, "failed to append text chat")
	}
	if chat == nil {
		return nil, NewDBError(ErrQueryFailed, "append text chat returned no record")
	}
	return chat, nil
}

// AppendImage persists an image-reference message and returns the populated record.
func (s *ChatStore) AppendImage(ctx context.Context, roomID, writerID, imageID int64) (*domain.Chat, error) {
	params := map[string]any{"room": roomID, "writer": writerID, "image": imageID}
	chat, err := QueryOne[domain.Chat](ctx, s.db, appendImageQuery, params)
	if err != nil {
		return nil, NewDBError(err, "failed to append image chat")
	}
	if chat == nil {
		return nil, NewDBError(ErrQueryFailed, "append image chat returned no record")
	}
	return chat, nil
}

// ListByRoom returns the room's messages, both variants merged, ascending by
// (created_at, seq). The seq tie-break keeps history deterministic when
// several messages land on the same timestamp.
func (s *ChatStore) ListByRoom(ctx context.Context, roomID int64) ([]domain.Chat, error) {
	query := `SELECT * FROM chat WHERE chatroom_id = type::thing('chatroom', $room)
		ORDER BY created_at ASC, seq ASC`
	chats, err := Query[domain.Chat](ctx, s.db, query, map[string]any{"room": roomID})
	if err != nil {
		return nil, NewDBError(err, "failed to list chats").WithQuery(query)
	}
	return chats, nil
}

// MostRecent returns the newest message in the room under the same ordering
// rule as ListByRoom, or nil when the room is empty.
func (s *ChatStore) MostRecent(ctx context.Context, roomID int64) (*domain.Chat, error) {
	query := `SELECT * FROM chat WHERE chatroom_id = type::thing('chatroom', $room)
		ORDER BY created_at DESC, seq DESC LIMIT 1`
	chat, err := QueryOne[domain.Chat](ctx, s.db, query, map[string]any{"room": roomID})
	if err != nil {
		return nil, NewDBError(err, "failed to find most recent chat").WithQuery(query)
	}
	return chat, nil
}
