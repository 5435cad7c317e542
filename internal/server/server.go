package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/moatalk/moatalk/internal/chat"
	"github.com/moatalk/moatalk/internal/config"
	"github.com/moatalk/moatalk/internal/database"
	"github.com/moatalk/moatalk/internal/domain"
	"github.com/moatalk/moatalk/internal/handlers"
	"github.com/moatalk/moatalk/internal/imagestore"
	"github.com/moatalk/moatalk/internal/logging"
	"github.com/moatalk/moatalk/internal/middleware"
	"github.com/moatalk/moatalk/internal/pubsub"
	"github.com/moatalk/moatalk/internal/storage"
	ws "github.com/moatalk/moatalk/internal/websocket"
	"github.com/surrealdb/surrealdb.go"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E   *echo.Echo
	DB  *surrealdb.DB
	Cfg *config.Config

	users  domain.UserRepository
	rooms  domain.RoomRepository
	chats  domain.ChatRepository
	images domain.ImageRepository

	bridge     *pubsub.WatermillBridge
	registry   *ws.Registry
	subscriber *chat.Subscriber

	authHandler   *handlers.AuthHandler
	friendHandler *handlers.FriendHandler
	roomHandler   *handlers.RoomHandler
	imageHandler  *handlers.ImageHandler
	chatHandler   *chat.Handler

	tracingCleanup func()
}

// New creates a new Server instance, wiring every component together.
func New() *Server {
	logging.New()
	cfg := config.New()

	db, err := database.NewDB(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Repositories.
	users := database.NewUserStore(db)
	rooms := database.NewRoomStore(db)
	chats := database.NewChatStore(db)
	images := database.NewImageStore(db)

	// Media storage on the local filesystem.
	mediaStore := storage.NewOsStore(cfg.UploadDir)
	mediaService := imagestore.NewService(images, mediaStore)

	// Message bus, with optional tracing for the delivery path.
	_, tracingCleanup, err := pubsub.SetupOTel(context.Background(), pubsub.LoadTracingConfigFromEnv())
	if err != nil {
		slog.Error("Failed to set up tracing", "error", err)
		os.Exit(1)
	}
	bridge := pubsub.NewWatermillBridge()

	// Real-time delivery pipeline.
	registry := ws.NewRegistry()
	dispatcher := ws.NewDispatcher(registry)
	chatSession := chat.NewSession(chats, users, rooms, images, bridge)
	chatHandler := chat.NewHandler(registry, chatSession)
	subscriber := chat.NewSubscriber(bridge, dispatcher)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())

	cookieStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(cookieStore))

	return &Server{
		E:              e,
		DB:             db,
		Cfg:            cfg,
		users:          users,
		rooms:          rooms,
		chats:          chats,
		images:         images,
		bridge:         bridge,
		registry:       registry,
		subscriber:     subscriber,
		authHandler:    handlers.NewAuthHandler(users),
		friendHandler:  handlers.NewFriendHandler(users),
		roomHandler:    handlers.NewRoomHandler(rooms, chats, users, images),
		imageHandler:   handlers.NewImageHandler(mediaService),
		chatHandler:    chatHandler,
		tracingCleanup: tracingCleanup,
	}
}

// Users is a getter for the server's user repository, useful for testing.
func (s *Server) Users() domain.UserRepository {
	return s.users
}

// Rooms is a getter for the server's room repository, useful for testing.
func (s *Server) Rooms() domain.RoomRepository {
	return s.rooms
}
