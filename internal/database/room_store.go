package database

import (
	"context"

	"github.com/moatalk/moatalk/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// RoomStore implements domain.RoomRepository on SurrealDB. A room row and
// its membership rows are written in a single transaction; membership rows
// carry their own insertion sequence so derived display names have a stable
// join order.
type RoomStore struct {
	db *surrealdb.DB
}

// NewRoomStore creates a new room directory.
func NewRoomStore(db *surrealdb.DB) domain.RoomRepository {
	return &RoomStore{db: db}
}

const createRoomQuery = `
BEGIN TRANSACTION;
LET $n = (UPSERT seq:chatroom SET value += 1 RETURN AFTER)[0].value;
LET $room = CREATE type::thing('chatroom', $n) CONTENT { seq: $n, name: $name };
FOR $m IN $members {
	LET $ms = (UPSERT seq:chatroom_member SET value += 1 RETURN AFTER)[0].value;
	CREATE type::thing('chatroom_member', $ms) CONTENT {
		seq: $ms,
		chatroom_id: $room[0].id,
		member_id: type::thing('user', $m)
	};
};
RETURN $room;
COMMIT TRANSACTION;
`

// Create persists a room and its memberships atomically. The members slice
// must hold at least two distinct user ids; duplicate entries are a caller
// error and are not deduplicated here.
func (s *RoomStore) Create(ctx context.Context, memberIDs []int64, name string) (*domain.Room, error) {
	distinct := make(map[int64]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		distinct[id] = struct{}{}
	}
	if len(distinct) < 2 {
		return nil, domain.ErrTooFewMembers
	}

	params := map[string]any{"name": name, "members": memberIDs}
	room, err := QueryOne[domain.Room](ctx, s.db, createRoomQuery, params)
	if err != nil {
		return nil, NewDBError(err, "failed to create chatroom")
	}
	if room == nil {
		return nil, NewDBError(ErrQueryFailed, "create chatroom returned no record")
	}

	return s.FindByID(ctx, room.Seq)
}

// FindByID returns the room with members populated, or domain.ErrNotFound.
func (s *RoomStore) FindByID(ctx context.Context, id int64) (*domain.Room, error) {
	query := `SELECT * FROM chatroom WHERE id = type::thing('chatroom', $id)`
	room, err := QueryOne[domain.Room](ctx, s.db, query, map[string]any{"id": id})
	if err != nil {
		return nil, NewDBError(err, "failed to find chatroom").WithQuery(query)
	}
	if room == nil {
		return nil, domain.ErrNotFound
	}

	if room.Members, err = s.members(ctx, room.Seq); err != nil {
		return nil, err
	}
	return room, nil
}

// FindByUser returns every room the user is a member of, members populated.
func (s *RoomStore) FindByUser(ctx context.Context, userID int64) ([]domain.Room, error) {
	query := `SELECT VALUE chatroom_id.seq FROM chatroom_member WHERE member_id = type::thing('user', $user)`
	roomIDs, err := Query[int64](ctx, s.db, query, map[string]any{"user": userID})
	if err != nil {
		return nil, NewDBError(err, "failed to list memberships").WithQuery(query)
	}

	rooms := make([]domain.Room, 0, len(roomIDs))
	for _, id := range roomIDs {
		room, err := s.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *room)
	}
	return rooms, nil
}

// FindOrCreateDirect scans existing rooms for the exactly-two-member room
// holding this pair and creates it on a miss. The linear scan is acceptable
// at this system's scale; indexing by a canonical sorted-pair key would
// replace it at production scale.
func (s *RoomStore) FindOrCreateDirect(ctx context.Context, userA, userB int64) (*domain.Room, error) {
	query := `SELECT * FROM chatroom ORDER BY seq ASC`
	rooms, err := Query[domain.Room](ctx, s.db, query, nil)
	if err != nil {
		return nil, NewDBError(err, "failed to scan chatrooms").WithQuery(query)
	}

	for i := range rooms {
		members, err := s.members(ctx, rooms[i].Seq)
		if err != nil {
			return nil, err
		}
		if len(members) != 2 {
			continue
		}
		rooms[i].Members = members
		if rooms[i].HasMember(userA) && rooms[i].HasMember(userB) {
			return &rooms[i], nil
		}
	}

	return s.Create(ctx, []int64{userA, userB}, "")
}

// members loads a room's membership rows in insertion order, with the
// linked user's id and name denormalized for display-name derivation.
func (s *RoomStore) members(ctx context.Context, roomID int64) ([]domain.Member, error) {
	query := `SELECT seq, member_id, member_id.seq AS user_seq, member_id.name AS user_name
		FROM chatroom_member WHERE chatroom_id = type::thing('chatroom', $room) ORDER BY seq ASC`
	members, err := Query[domain.Member](ctx, s.db, query, map[string]any{"room": roomID})
	if err != nil {
		return nil, NewDBError(err, "failed to load room members").WithQuery(query)
	}
	return members, nil
}
