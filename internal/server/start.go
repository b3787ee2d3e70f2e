package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Start runs the HTTP server and blocks until an interrupt arrives, then
// shuts everything down with a timeout.
func (s *Server) Start(addr string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.StartConsumer(ctx)

	go func() {
		if err := s.E.Start(addr); err != nil && err != http.ErrServerClosed {
			s.E.Logger.Fatalf("shutting down the server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	cancel() // stop the fanout consumer
	if err := s.Bus.Close(); err != nil {
		s.E.Logger.Errorf("closing pub/sub bus: %v", err)
	}
	if s.db != nil {
		s.db.Close(shutdownCtx)
	}
	if err := s.E.Shutdown(shutdownCtx); err != nil {
		s.E.Logger.Fatal(err)
	}
}
