package cmd

import (
	"context"
	"testing"

	"github.com/moatalk/moatalk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seedUsers struct {
	byLogin map[string]*domain.User
	friends [][2]int64
	nextSeq int64
}

func newSeedUsers() *seedUsers {
	return &seedUsers{byLogin: make(map[string]*domain.User)}
}

func (s *seedUsers) Register(_ context.Context, name, loginID, password string) (*domain.User, error) {
	if _, ok := s.byLogin[loginID]; ok {
		return nil, domain.ErrUserAlreadyExists
	}
	s.nextSeq++
	u := &domain.User{Seq: s.nextSeq, Name: name, LoginID: loginID}
	s.byLogin[loginID] = u
	return u, nil
}

func (s *seedUsers) AddFriend(_ context.Context, userID, friendID int64) error {
	s.friends = append(s.friends, [2]int64{userID, friendID})
	return nil
}

func (s *seedUsers) Login(context.Context, string, string) (*domain.User, error) { return nil, nil }
func (s *seedUsers) FindBySessionID(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}
func (s *seedUsers) ClearSession(context.Context, int64) error { return nil }
func (s *seedUsers) FindByID(context.Context, int64) (*domain.User, error) {
	return nil, domain.ErrNotFound
}
func (s *seedUsers) SearchByName(context.Context, string) ([]domain.User, error) { return nil, nil }
func (s *seedUsers) Friends(context.Context, int64) ([]domain.User, error)       { return nil, nil }

type seedRooms struct {
	created [][]int64
}

func (s *seedRooms) Create(_ context.Context, memberIDs []int64, name string) (*domain.Room, error) {
	s.created = append(s.created, memberIDs)
	return &domain.Room{Seq: int64(len(s.created))}, nil
}

func (s *seedRooms) FindByUser(context.Context, int64) ([]domain.Room, error) { return nil, nil }
func (s *seedRooms) FindOrCreateDirect(context.Context, int64, int64) (*domain.Room, error) {
	return nil, nil
}
func (s *seedRooms) FindByID(context.Context, int64) (*domain.Room, error) {
	return nil, domain.ErrNotFound
}

type seedChats struct {
	texts []string
}

func (s *seedChats) AppendText(_ context.Context, roomID, writerID int64, text string) (*domain.Chat, error) {
	s.texts = append(s.texts, text)
	return &domain.Chat{Seq: int64(len(s.texts))}, nil
}

func (s *seedChats) AppendImage(context.Context, int64, int64, int64) (*domain.Chat, error) {
	return nil, nil
}
func (s *seedChats) ListByRoom(context.Context, int64) ([]domain.Chat, error) { return nil, nil }
func (s *seedChats) MostRecent(context.Context, int64) (*domain.Chat, error)  { return nil, nil }

func TestSeedFixturesFreshDatabase(t *testing.T) {
	ctx := context.Background()
	users := newSeedUsers()
	rooms := &seedRooms{}
	chats := &seedChats{}

	require.NoError(t, seedFixtures(ctx, users, rooms, chats))

	// 1 primary + 20 numbered + 5 lettered.
	assert.Len(t, users.byLogin, 26)
	// 10 even-numbered friends + 3 lettered friends.
	assert.Len(t, users.friends, 13)

	require.Len(t, rooms.created, 1)
	assert.Len(t, rooms.created[0], 6)
	assert.Equal(t, []string{"안녕", "안녕하세요"}, chats.texts)
}

func TestSeedFixturesPartiallySeededDatabase(t *testing.T) {
	ctx := context.Background()
	users := newSeedUsers()
	rooms := &seedRooms{}
	chats := &seedChats{}

	// Some accounts already exist, but not the primary one.
	_, err := users.Register(ctx, "유저3", "user3", "user3")
	require.NoError(t, err)
	_, err = users.Register(ctx, "유저D", "userD", "userD")
	require.NoError(t, err)

	// Must not panic and must not wire fixtures around the gaps.
	require.NoError(t, seedFixtures(ctx, users, rooms, chats))

	assert.Len(t, users.byLogin, 26)
	assert.Empty(t, rooms.created, "chatroom depends on freshly seeded lettered users")
	assert.Empty(t, chats.texts)
}

func TestSeedFixturesAlreadySeededDatabase(t *testing.T) {
	ctx := context.Background()
	users := newSeedUsers()
	rooms := &seedRooms{}
	chats := &seedChats{}

	require.NoError(t, seedFixtures(ctx, users, rooms, chats))
	friendsAfterFirstRun := len(users.friends)

	// A second run changes nothing.
	require.NoError(t, seedFixtures(ctx, users, rooms, chats))
	assert.Len(t, users.byLogin, 26)
	assert.Len(t, users.friends, friendsAfterFirstRun)
	assert.Len(t, rooms.created, 1)
}
