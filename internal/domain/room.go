package domain

import (
	"context"
	"strings"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Room is a named or auto-named set of users sharing a message history.
// Membership is fixed at creation time.
type Room struct {
	ID   *surrealmodels.RecordID `json:"id,omitempty"`
	Seq  int64                   `json:"seq"`
	Name string                  `json:"name"`

	// Members is populated by the room store, ordered by membership
	// insertion sequence.
	Members []Member `json:"members,omitempty"`
}

// Member is the join fact that a user belongs to a room. Seq preserves
// insertion order; UserSeq and UserName are denormalized from the linked
// user record for display-name derivation.
type Member struct {
	MemberID *surrealmodels.RecordID `json:"member_id"`
	Seq      int64                   `json:"seq"`
	UserSeq  int64                   `json:"user_seq"`
	UserName string                  `json:"user_name"`
}

// DisplayName resolves the room's name relative to a viewing user. An
// explicit name is used verbatim; otherwise the name is derived from the
// other members' names joined in membership-insertion order. Calling this
// for a non-member is a caller contract violation; the viewer is simply
// excluded if present.
func (r *Room) DisplayName(viewerID int64) string {
	if r.Name != "" {
		return r.Name
	}

	names := make([]string, 0, len(r.Members))
	for _, m := range r.Members {
		if m.UserSeq == viewerID {
			continue
		}
		names = append(names, m.UserName)
	}
	return strings.Join(names, ", ")
}

// HasMember reports whether the given user belongs to the room.
func (r *Room) HasMember(userID int64) bool {
	for _, m := range r.Members {
		if m.UserSeq == userID {
			return true
		}
	}
	return false
}

// MemberIDs returns the numeric ids of all members in insertion order.
func (r *Room) MemberIDs() []int64 {
	ids := make([]int64, 0, len(r.Members))
	for _, m := range r.Members {
		ids = append(ids, m.UserSeq)
	}
	return ids
}

// RoomRepository defines the contract for the room directory.
type RoomRepository interface {
	// Create persists a room and one membership row per member atomically.
	// Fails with ErrTooFewMembers when fewer than two members are given.
	Create(ctx context.Context, memberIDs []int64, name string) (*Room, error)

	// FindByUser returns all rooms the user holds a membership in, with
	// members populated.
	FindByUser(ctx context.Context, userID int64) ([]Room, error)

	// FindOrCreateDirect returns the canonical two-member room for the
	// pair, creating it if it does not exist. Argument order is irrelevant.
	FindOrCreateDirect(ctx context.Context, userA, userB int64) (*Room, error)

	// FindByID fails with ErrNotFound when no room has the given id.
	FindByID(ctx context.Context, id int64) (*Room, error)
}
