package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/moatalk/moatalk/internal/domain"
	"github.com/moatalk/moatalk/internal/middleware"
)

// FriendHandler handles the friend graph and user search.
type FriendHandler struct {
	users domain.UserRepository
}

// NewFriendHandler creates a new FriendHandler.
func NewFriendHandler(users domain.UserRepository) *FriendHandler {
	return &FriendHandler{users: users}
}

// Add handles POST /friends/:friend_id. The relation is directional; the
// other user does not gain the viewer as a friend.
func (h *FriendHandler) Add(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	friendID, err := strconv.ParseInt(c.Param("friend_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid friend id")
	}
	if friendID == user.Seq {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot add yourself")
	}

	logger := middleware.FromContext(c.Request().Context())
	friend, err := h.users.FindByID(c.Request().Context(), friendID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		logger.Error("Failed to resolve friend", "friendID", friendID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not add friend")
	}

	if err := h.users.AddFriend(c.Request().Context(), user.Seq, friend.Seq); err != nil {
		logger.Error("Failed to add friend", "userID", user.Seq, "friendID", friend.Seq, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not add friend")
	}
	return c.JSON(http.StatusCreated, toUserResponse(friend))
}

// List handles GET /friends.
func (h *FriendHandler) List(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	friends, err := h.users.Friends(c.Request().Context(), user.Seq)
	if err != nil {
		middleware.FromContext(c.Request().Context()).Error("Failed to list friends", "userID", user.Seq, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list friends")
	}

	out := make([]UserResponse, 0, len(friends))
	for i := range friends {
		out = append(out, toUserResponse(&friends[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Search handles GET /users?query=. The viewer is excluded from results;
// users who are not yet friends come first so they are easy to add.
func (h *FriendHandler) Search(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	query := c.QueryParam("query")
	logger := middleware.FromContext(c.Request().Context())

	found, err := h.users.SearchByName(c.Request().Context(), query)
	if err != nil {
		logger.Error("User search failed", "query", query, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	friends, err := h.users.Friends(c.Request().Context(), user.Seq)
	if err != nil {
		logger.Error("Failed to list friends for search", "userID", user.Seq, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	friendSet := make(map[int64]bool, len(friends))
	for i := range friends {
		friendSet[friends[i].Seq] = true
	}

	var strangers, known []SearchEntry
	for i := range found {
		if found[i].Seq == user.Seq {
			continue
		}
		entry := SearchEntry{
			UserResponse: toUserResponse(&found[i]),
			IsFriend:     friendSet[found[i].Seq],
		}
		if entry.IsFriend {
			known = append(known, entry)
		} else {
			strangers = append(strangers, entry)
		}
	}
	return c.JSON(http.StatusOK, append(strangers, known...))
}
