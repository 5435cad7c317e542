package chat

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/moatalk/moatalk/internal/domain"
	"github.com/moatalk/moatalk/internal/middleware"
	ws "github.com/moatalk/moatalk/internal/websocket"
)

// Handler upgrades HTTP requests to WebSocket chat sessions.
type Handler struct {
	registry *ws.Registry
	session  *Session
}

// NewHandler creates the WebSocket entry point for chat.
func NewHandler(registry *ws.Registry, session *Session) *Handler {
	return &Handler{registry: registry, session: session}
}

// ServeWS accepts the connection, registers the client for broadcast
// delivery and runs the session's read loop until it ends. The registry
// entry is removed on any exit path so broadcasts never target a dead
// connection for long.
func (h *Handler) ServeWS(c echo.Context) error {
	user, ok := c.Get(middleware.UserContextKey).(*domain.User)
	if !ok || user == nil {
		slog.Error("ServeWS: no authenticated user in context")
		return c.String(http.StatusUnauthorized, "User not authenticated")
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		InsecureSkipVerify: true, // In production, check origin.
	})
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return err
	}

	client := ws.NewClient(uuid.NewString(), user.Seq, conn)
	h.registry.Add(client)
	slog.Info("Chat client connected", "clientID", client.ID, "userID", user.Seq)

	go client.WritePump()

	h.session.ReadPump(c.Request().Context(), client)

	h.registry.Remove(client.ID)
	client.Close()
	client.CloseConn("Session ended")
	slog.Info("Chat client disconnected", "clientID", client.ID, "userID", user.Seq)

	return nil
}
