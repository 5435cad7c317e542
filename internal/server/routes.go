package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/moatalk/moatalk/internal/middleware"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	auth := middleware.Auth(s.users)

	// Account and session lifecycle.
	s.E.POST("/register", s.authHandler.Register)
	s.E.POST("/login", s.authHandler.Login)
	s.E.POST("/logout", s.authHandler.Logout, auth)
	s.E.GET("/me", s.authHandler.Me, auth)

	// Friend graph and user search.
	s.E.POST("/friends/:friend_id", s.friendHandler.Add, auth)
	s.E.GET("/friends", s.friendHandler.List, auth)
	s.E.GET("/users", s.friendHandler.Search, auth)

	// Rooms and history.
	s.E.GET("/chatrooms", s.roomHandler.List, auth)
	s.E.POST("/groupchat", s.roomHandler.CreateGroup, auth)
	s.E.GET("/single-chats/:friend_id", s.roomHandler.Direct, auth)
	s.E.GET("/chatrooms/:id", s.roomHandler.Get, auth)
	s.E.GET("/chatrooms/:id/chats", s.roomHandler.History, auth)

	// Media upload and download.
	s.E.POST("/images", s.imageHandler.Upload, auth)
	s.E.GET("/images/:image_name", s.imageHandler.Download, auth)

	// Real-time chat sessions.
	s.E.GET("/ws/connect", s.chatHandler.ServeWS, auth)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
}
