package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/moatalk/moatalk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	surreal "github.com/surrealdb/surrealdb.go"
)

func registerTestUser(t *testing.T, ctx context.Context, users domain.UserRepository, db *surreal.DB) *domain.User {
	t.Helper()

	loginID := "it-" + uuid.NewString()
	user, err := users.Register(ctx, "user-"+loginID[:8], loginID, "password123")
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = surreal.Query[any](context.Background(), db,
			"DELETE user WHERE login_id = $login_id", map[string]any{"login_id": loginID})
	})
	return user
}

func TestUserStoreLifecycle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := NewUserStore(db)
	user := registerTestUser(t, ctx, users, db)

	assert.Greater(t, user.Seq, int64(0))
	assert.NotEmpty(t, user.SessionID)

	t.Run("duplicate login id is rejected", func(t *testing.T) {
		_, err := users.Register(ctx, "other", user.LoginID, "password123")
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	t.Run("login rotates the session id", func(t *testing.T) {
		loggedIn, err := users.Login(ctx, user.LoginID, "password123")
		require.NoError(t, err)
		assert.Equal(t, user.Seq, loggedIn.Seq)
		assert.NotEmpty(t, loggedIn.SessionID)
		assert.NotEqual(t, user.SessionID, loggedIn.SessionID)

		resolved, err := users.FindBySessionID(ctx, loggedIn.SessionID)
		require.NoError(t, err)
		assert.Equal(t, user.Seq, resolved.Seq)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, err := users.Login(ctx, user.LoginID, "wrong-password")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("cleared session no longer resolves", func(t *testing.T) {
		loggedIn, err := users.Login(ctx, user.LoginID, "password123")
		require.NoError(t, err)
		require.NoError(t, users.ClearSession(ctx, user.Seq))

		_, err = users.FindBySessionID(ctx, loggedIn.SessionID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("search finds by name substring", func(t *testing.T) {
		found, err := users.SearchByName(ctx, user.Name[5:13])
		require.NoError(t, err)
		require.NotEmpty(t, found)

		seen := false
		for _, u := range found {
			if u.Seq == user.Seq {
				seen = true
			}
		}
		assert.True(t, seen, "registered user should appear in search results")
	})

	t.Run("friend relation is directional", func(t *testing.T) {
		friend := registerTestUser(t, ctx, users, db)
		require.NoError(t, users.AddFriend(ctx, user.Seq, friend.Seq))

		mine, err := users.Friends(ctx, user.Seq)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, friend.Seq, mine[0].Seq)

		theirs, err := users.Friends(ctx, friend.Seq)
		require.NoError(t, err)
		assert.Empty(t, theirs)
	})
}

func TestRoomStoreLifecycle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	users := NewUserStore(db)
	rooms := NewRoomStore(db)

	a := registerTestUser(t, ctx, users, db)
	b := registerTestUser(t, ctx, users, db)
	c := registerTestUser(t, ctx, users, db)

	t.Run("a room needs at least two distinct members", func(t *testing.T) {
		_, err := rooms.Create(ctx, []int64{a.Seq}, "")
		assert.ErrorIs(t, err, domain.ErrTooFewMembers)

		_, err = rooms.Create(ctx, []int64{a.Seq, a.Seq}, "")
		assert.ErrorIs(t, err, domain.ErrTooFewMembers)
	})

	t.Run("group creation preserves member order", func(t *testing.T) {
		room, err := rooms.Create(ctx, []int64{a.Seq, b.Seq, c.Seq}, "프로젝트")
		require.NoError(t, err)
		assert.Equal(t, "프로젝트", room.Name)
		assert.Equal(t, []int64{a.Seq, b.Seq, c.Seq}, room.MemberIDs())

		found, err := rooms.FindByID(ctx, room.Seq)
		require.NoError(t, err)
		assert.Equal(t, room.MemberIDs(), found.MemberIDs())

		mine, err := rooms.FindByUser(ctx, b.Seq)
		require.NoError(t, err)
		seen := false
		for _, r := range mine {
			if r.Seq == room.Seq {
				seen = true
			}
		}
		assert.True(t, seen, "member should see the room in their listing")
	})

	t.Run("direct room is created once per pair", func(t *testing.T) {
		first, err := rooms.FindOrCreateDirect(ctx, a.Seq, b.Seq)
		require.NoError(t, err)
		assert.Len(t, first.Members, 2)

		second, err := rooms.FindOrCreateDirect(ctx, b.Seq, a.Seq)
		require.NoError(t, err)
		assert.Equal(t, first.Seq, second.Seq, "argument order must not matter")
	})

	t.Run("missing room yields not found", func(t *testing.T) {
		_, err := rooms.FindByID(ctx, 1<<60)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestChatStoreOrdering(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	users := NewUserStore(db)
	rooms := NewRoomStore(db)
	chats := NewChatStore(db)

	a := registerTestUser(t, ctx, users, db)
	b := registerTestUser(t, ctx, users, db)
	room, err := rooms.FindOrCreateDirect(ctx, a.Seq, b.Seq)
	require.NoError(t, err)

	t.Run("empty room has no most recent chat", func(t *testing.T) {
		recent, err := chats.MostRecent(ctx, room.Seq)
		require.NoError(t, err)
		assert.Nil(t, recent)
	})

	t.Run("history is ordered and stable", func(t *testing.T) {
		texts := []string{"첫번째", "두번째", "세번째"}
		for _, text := range texts {
			_, err := chats.AppendText(ctx, room.Seq, a.Seq, text)
			require.NoError(t, err)
		}
		img, err := NewImageStore(db).Create(ctx, "pic.png", uuid.NewString()+".png", "image")
		require.NoError(t, err)
		_, err = chats.AppendImage(ctx, room.Seq, b.Seq, img.Seq)
		require.NoError(t, err)

		history, err := chats.ListByRoom(ctx, room.Seq)
		require.NoError(t, err)
		require.Len(t, history, 4)

		for i := 1; i < len(history); i++ {
			assert.Less(t, history[i-1].Seq, history[i].Seq, "sequence must be strictly increasing")
		}
		assert.Equal(t, "첫번째", history[0].Text)
		assert.Equal(t, domain.ChatTypeImage, history[3].ChatType)
		assert.Equal(t, img.Seq, domain.RecordSeq(history[3].ImageID))

		recent, err := chats.MostRecent(ctx, room.Seq)
		require.NoError(t, err)
		require.NotNil(t, recent)
		assert.Equal(t, history[3].Seq, recent.Seq)
	})
}
