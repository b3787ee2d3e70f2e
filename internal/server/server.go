package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/surrealdb/surrealdb.go"

	"github.com/chatwire/chatwire/internal/config"
	"github.com/chatwire/chatwire/internal/database"
	"github.com/chatwire/chatwire/internal/domain"
	"github.com/chatwire/chatwire/internal/fanout"
	"github.com/chatwire/chatwire/internal/groups"
	"github.com/chatwire/chatwire/internal/handlers"
	"github.com/chatwire/chatwire/internal/logging"
	"github.com/chatwire/chatwire/internal/messaging"
	"github.com/chatwire/chatwire/internal/presence"
	"github.com/chatwire/chatwire/internal/pubsub"
	"github.com/chatwire/chatwire/internal/realtime"
)

// Server wires the HTTP surface, the realtime bridge, and the fanout
// pipeline together. One Server owns one pub/sub bus, one presence
// registry, and one bridge.
type Server struct {
	E        *echo.Echo
	Cfg      *config.Config
	Bus      *pubsub.Bus
	Registry *presence.Registry
	Bridge   *realtime.Bridge

	db       *surrealdb.DB
	consumer *fanout.Consumer

	userStore    domain.UserRepository
	messageStore domain.MessageRepository
	groupStore   domain.GroupRepository

	groupService   *groups.Service
	messageService *messaging.Service
}

// New creates a Server from the given configuration.
func New(cfg *config.Config) *Server {
	logging.New()

	s := &Server{
		Cfg:      cfg,
		Bus:      pubsub.NewBus(),
		Registry: presence.NewRegistry(),
	}
	s.Bridge = realtime.NewBridge(s.Registry)

	switch cfg.StoreBackend {
	case config.StoreSurreal:
		db, err := database.NewDB(context.Background(), cfg)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		s.db = db
		s.userStore = database.NewSurrealUserStore(db)
		s.messageStore = database.NewSurrealMessageStore(db)
		s.groupStore = database.NewSurrealGroupStore(db)
	default:
		store := database.NewMemoryStore()
		s.userStore = store
		s.messageStore = store
		s.groupStore = store
	}

	s.groupService = groups.NewService(s.groupStore, s.messageStore, s.Bus)
	s.messageService = messaging.NewService(s.messageStore, s.groupService, s.Bus)

	dispatcher := fanout.NewDispatcher(s.Registry, s.Bridge)
	notifier := fanout.NewNotifier(s.Bridge)
	s.consumer = fanout.NewConsumer(s.Bus, dispatcher, notifier)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	cookieStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
	}
	e.Use(session.Middleware(cookieStore))

	s.E = e
	return s
}

// StartConsumer begins fanout consumption on the bus. Must be called before
// the server accepts traffic; events published earlier are not replayed.
func (s *Server) StartConsumer(ctx context.Context) {
	s.consumer.Start(ctx)
}

// UserStore exposes the user repository, useful for seeding in tests.
func (s *Server) UserStore() domain.UserRepository {
	return s.userStore
}

// GroupService exposes the group service, useful for testing.
func (s *Server) GroupService() *groups.Service {
	return s.groupService
}
