package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/moatalk/moatalk/internal/domain"
	"github.com/moatalk/moatalk/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// asUser injects the given user as the authenticated viewer, standing in
// for the session middleware.
func asUser(user *domain.User) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.UserContextKey, user)
			return next(c)
		}
	}
}

func TestFriendSearch(t *testing.T) {
	ctx := context.Background()
	users := newStubUsers()

	viewer, err := users.Register(ctx, "유저", "user", "pw")
	require.NoError(t, err)
	friend, err := users.Register(ctx, "유저2", "user2", "pw")
	require.NoError(t, err)
	stranger, err := users.Register(ctx, "유저3", "user3", "pw")
	require.NoError(t, err)
	require.NoError(t, users.AddFriend(ctx, viewer.Seq, friend.Seq))

	e := newTestEcho()
	h := NewFriendHandler(users)
	e.GET("/users", h.Search, asUser(viewer))

	req := httptest.NewRequest(http.MethodGet, "/users?query=유저", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []SearchEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2, "the viewer is excluded from search results")

	// Strangers come first so they are easy to add; friends follow.
	assert.Equal(t, stranger.Seq, entries[0].ID)
	assert.False(t, entries[0].IsFriend)
	assert.Equal(t, friend.Seq, entries[1].ID)
	assert.True(t, entries[1].IsFriend)
}

func TestFriendAdd(t *testing.T) {
	ctx := context.Background()
	users := newStubUsers()

	viewer, err := users.Register(ctx, "유저", "user", "pw")
	require.NoError(t, err)
	other, err := users.Register(ctx, "유저2", "user2", "pw")
	require.NoError(t, err)

	e := newTestEcho()
	h := NewFriendHandler(users)
	e.POST("/friends/:friend_id", h.Add, asUser(viewer))
	e.GET("/friends", h.List, asUser(viewer))

	t.Run("adds an existing user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/friends/2", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)

		listRec := httptest.NewRecorder()
		e.ServeHTTP(listRec, httptest.NewRequest(http.MethodGet, "/friends", nil))
		require.Equal(t, http.StatusOK, listRec.Code)

		var friends []UserResponse
		require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &friends))
		require.Len(t, friends, 1)
		assert.Equal(t, other.Seq, friends[0].ID)
	})

	t.Run("rejects adding yourself", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/friends/1", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects an unknown user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/friends/404", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
