package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moatalk/moatalk/internal/chat"
	"github.com/moatalk/moatalk/internal/domain"
	"github.com/moatalk/moatalk/internal/middleware"
)

// RoomHandler handles room listing, creation and message history.
type RoomHandler struct {
	rooms  domain.RoomRepository
	chats  domain.ChatRepository
	users  domain.UserRepository
	images domain.ImageRepository
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(
	rooms domain.RoomRepository,
	chats domain.ChatRepository,
	users domain.UserRepository,
	images domain.ImageRepository,
) *RoomHandler {
	return &RoomHandler{rooms: rooms, chats: chats, users: users, images: images}
}

// List handles GET /chatrooms. Rooms are named from the viewer's
// perspective and ordered by the recency of their latest message; rooms
// with no messages yet sort last.
func (h *RoomHandler) List(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	rooms, err := h.rooms.FindByUser(ctx, user.Seq)
	if err != nil {
		logger.Error("Failed to list rooms", "userID", user.Seq, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list chatrooms")
	}

	type entry struct {
		summary RoomSummary
		at      time.Time
		hasChat bool
	}
	entries := make([]entry, 0, len(rooms))
	for i := range rooms {
		e := entry{summary: RoomSummary{
			ID:   rooms[i].Seq,
			Name: rooms[i].DisplayName(user.Seq),
		}}

		recent, err := h.chats.MostRecent(ctx, rooms[i].Seq)
		if err != nil {
			logger.Error("Failed to load recent chat", "roomID", rooms[i].Seq, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "could not list chatrooms")
		}
		if recent != nil {
			preview, err := h.preview(ctx, recent)
			if err != nil {
				logger.Error("Failed to build chat preview", "roomID", rooms[i].Seq, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "could not list chatrooms")
			}
			e.hasChat = true
			e.summary.RecentChat = &RecentChat{Preview: preview}
			if recent.CreatedAt != nil {
				e.at = recent.CreatedAt.Time
				e.summary.RecentChat.Time = recent.CreatedAt.Format(time.RFC3339)
			}
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].hasChat != entries[j].hasChat {
			return entries[i].hasChat
		}
		return entries[i].at.After(entries[j].at)
	})

	out := make([]RoomSummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.summary)
	}
	return c.JSON(http.StatusOK, out)
}

// preview renders the one-line list preview for a message. Media messages
// show a label derived from the stored media tag instead of content.
func (h *RoomHandler) preview(ctx context.Context, recent *domain.Chat) (string, error) {
	if recent.ChatType == domain.ChatTypeText {
		return recent.Text, nil
	}
	image, err := h.images.FindByID(ctx, domain.RecordSeq(recent.ImageID))
	if err != nil {
		return "", err
	}
	switch image.ImageType {
	case "image":
		return "Photo", nil
	case "video":
		return "Video", nil
	default:
		return "File", nil
	}
}

// CreateGroup handles POST /groupchat. The creator is added to the listed
// members automatically.
func (h *RoomHandler) CreateGroup(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	var req CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	members := append([]int64{user.Seq}, req.MemberIDs...)
	room, err := h.rooms.Create(c.Request().Context(), members, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrTooFewMembers) {
			return echo.NewHTTPError(http.StatusBadRequest, "a chatroom needs at least two distinct members")
		}
		middleware.FromContext(c.Request().Context()).Error("Failed to create group chat", "userID", user.Seq, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create chatroom")
	}
	return c.JSON(http.StatusCreated, toRoomDetail(room, user.Seq))
}

// Direct handles GET /single-chats/:friend_id, returning the one-on-one
// room with that user and creating it on first contact.
func (h *RoomHandler) Direct(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	friendID, err := strconv.ParseInt(c.Param("friend_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid friend id")
	}
	if friendID == user.Seq {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot chat with yourself")
	}
	logger := middleware.FromContext(c.Request().Context())
	if _, err := h.users.FindByID(c.Request().Context(), friendID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		logger.Error("Failed to resolve chat partner", "friendID", friendID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not open chat")
	}

	room, err := h.rooms.FindOrCreateDirect(c.Request().Context(), user.Seq, friendID)
	if err != nil {
		logger.Error("Failed to open direct chat", "userID", user.Seq, "friendID", friendID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not open chat")
	}
	return c.JSON(http.StatusOK, toRoomDetail(room, user.Seq))
}

// Get handles GET /chatrooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	room, err := h.findMemberRoom(c, user.Seq)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoomDetail(room, user.Seq))
}

// History handles GET /chatrooms/:id/chats. Entries carry the same shape
// as live broadcasts so clients replay them through one code path.
func (h *RoomHandler) History(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	room, err := h.findMemberRoom(c, user.Seq)
	if err != nil {
		return err
	}

	chats, err := h.chats.ListByRoom(ctx, room.Seq)
	if err != nil {
		logger.Error("Failed to load history", "roomID", room.Seq, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load history")
	}

	writers := make(map[int64]*domain.User)
	events := make([]chat.OutboundEvent, 0, len(chats))
	for i := range chats {
		writerID := domain.RecordSeq(chats[i].WriterID)
		writer, ok := writers[writerID]
		if !ok {
			writer, err = h.users.FindByID(ctx, writerID)
			if err != nil {
				logger.Error("Failed to resolve writer", "writerID", writerID, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "could not load history")
			}
			writers[writerID] = writer
		}

		var image *domain.Image
		if chats[i].ChatType == domain.ChatTypeImage {
			image, err = h.images.FindByID(ctx, domain.RecordSeq(chats[i].ImageID))
			if err != nil {
				logger.Error("Failed to resolve image", "chatID", chats[i].Seq, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "could not load history")
			}
		}
		events = append(events, chat.NewOutboundEvent(&chats[i], writer, image))
	}

	return c.JSON(http.StatusOK, HistoryResponse{ChatroomID: room.Seq, Chats: events})
}

// findMemberRoom resolves the :id path param to a room the viewer belongs
// to. Non-members get the same 404 as a missing room.
func (h *RoomHandler) findMemberRoom(c echo.Context, viewerID int64) (*domain.Room, error) {
	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid chatroom id")
	}

	room, err := h.rooms.FindByID(c.Request().Context(), roomID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "chatroom not found")
		}
		middleware.FromContext(c.Request().Context()).Error("Failed to load room", "roomID", roomID, "error", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "could not load chatroom")
	}
	if !room.HasMember(viewerID) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "chatroom not found")
	}
	return room, nil
}
