package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatwire/chatwire/internal/handlers"
	"github.com/chatwire/chatwire/internal/middleware"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	authHandler := handlers.NewAuthHandler(s.userStore)
	messageHandler := handlers.NewMessageHandler(s.messageService)
	groupHandler := handlers.NewGroupHandler(s.groupService)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	// The realtime endpoint is open; connections authenticate in-band via
	// the register control event.
	s.E.GET("/ws", s.Bridge.Handler())

	s.E.POST("/api/auth/login", authHandler.Login)
	s.E.POST("/api/auth/logout", authHandler.Logout)

	api := s.E.Group("/api", middleware.Auth())

	api.POST("/messages/send/:receiverId", messageHandler.Send)
	api.DELETE("/messages/:messageId", messageHandler.Delete)

	api.POST("/groups", groupHandler.Create)
	api.GET("/groups/:groupId", groupHandler.Get)
	api.PUT("/groups/:groupId/members", groupHandler.AddMembers)
	api.DELETE("/groups/:groupId/members/:userId", groupHandler.RemoveMember)
	api.PUT("/groups/:groupId/promote", groupHandler.Promote)
	api.DELETE("/groups/:groupId", groupHandler.Delete)
}
