package domain_test

import (
	"testing"

	"github.com/moatalk/moatalk/internal/domain"
	"github.com/moatalk/moatalk/internal/testutils"
	"github.com/stretchr/testify/assert"
)

func member(seq, userSeq int64, name string) domain.Member {
	return domain.Member{
		MemberID: testutils.NewTestRecordID("user", userSeq),
		Seq:      seq,
		UserSeq:  userSeq,
		UserName: name,
	}
}

func TestRoomDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		room     domain.Room
		viewerID int64
		want     string
	}{
		{
			name: "explicit name is used verbatim",
			room: domain.Room{
				Name: "Team",
				Members: []domain.Member{
					member(1, 1, "유저"),
					member(2, 2, "유저A"),
				},
			},
			viewerID: 1,
			want:     "Team",
		},
		{
			name: "derived name excludes the viewer",
			room: domain.Room{
				Members: []domain.Member{
					member(1, 1, "유저"),
					member(2, 2, "유저A"),
					member(3, 3, "유저B"),
				},
			},
			viewerID: 1,
			want:     "유저A, 유저B",
		},
		{
			name: "derived name follows insertion order",
			room: domain.Room{
				Members: []domain.Member{
					member(1, 3, "유저B"),
					member(2, 1, "유저"),
					member(3, 2, "유저A"),
				},
			},
			viewerID: 1,
			want:     "유저B, 유저A",
		},
		{
			name: "direct chat shows the other member only",
			room: domain.Room{
				Members: []domain.Member{
					member(1, 1, "유저"),
					member(2, 2, "유저A"),
				},
			},
			viewerID: 2,
			want:     "유저",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.room.DisplayName(tt.viewerID))
		})
	}
}

func TestRoomHasMember(t *testing.T) {
	room := domain.Room{Members: []domain.Member{
		member(1, 1, "유저"),
		member(2, 2, "유저A"),
	}}

	assert.True(t, room.HasMember(1))
	assert.True(t, room.HasMember(2))
	assert.False(t, room.HasMember(3))
}

func TestRoomMemberIDs(t *testing.T) {
	room := domain.Room{Members: []domain.Member{
		member(1, 5, "유저"),
		member(2, 2, "유저A"),
		member(3, 9, "유저B"),
	}}

	assert.Equal(t, []int64{5, 2, 9}, room.MemberIDs())
}

func TestRecordSeq(t *testing.T) {
	assert.Equal(t, int64(42), domain.RecordSeq(testutils.NewTestRecordID("user", 42)))
	assert.Equal(t, int64(0), domain.RecordSeq(nil))
}

func TestUserProfile(t *testing.T) {
	u := domain.User{Seq: 7, Name: "유저", LoginID: "user"}
	p := u.Profile()
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "유저", p.Name)
}
