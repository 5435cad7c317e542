package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Start runs the broadcast subscriber and the HTTP server, then blocks
// until a shutdown signal arrives.
func (s *Server) Start(addr string) {
	subCtx, cancelSub := context.WithCancel(context.Background())
	if err := s.subscriber.Start(subCtx); err != nil {
		cancelSub()
		s.E.Logger.Fatalf("starting broadcast subscriber: %v", err)
	}

	go func() {
		if err := s.E.Start(addr); err != nil && err != http.ErrServerClosed {
			s.E.Logger.Fatalf("shutting down the server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server with a timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop accepting messages before tearing down connections.
	cancelSub()
	if err := s.bridge.Close(); err != nil {
		slog.Error("Failed to close message bus", "error", err)
	}

	// Drop every live WebSocket client.
	for _, client := range s.registry.Snapshot() {
		s.registry.Remove(client.ID)
		client.Close()
	}

	s.DB.Close(ctx)
	if err := s.E.Shutdown(ctx); err != nil {
		s.E.Logger.Fatal(err)
	}
	s.tracingCleanup()
}
