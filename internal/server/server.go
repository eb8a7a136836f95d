package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/traveljournal/apiserver/config"
	"github.com/traveljournal/apiserver/internal/db"
	"github.com/traveljournal/apiserver/internal/events"
	"github.com/traveljournal/apiserver/internal/handlers"
	"github.com/traveljournal/apiserver/internal/services"
	"github.com/traveljournal/apiserver/internal/storage"
	"github.com/traveljournal/apiserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	publisher  *events.Publisher
}

// New constructs a Server with all dependencies wired. It fails when
// the signing secret is missing or the database is unreachable.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	images, err := newImageStore(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	publisher, err := newPublisher(ctx, cfg.Events)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	storyRepo := store.NewStoryRepository(dbConn)

	userService := services.NewUserService(userRepo)
	storyService := services.NewStoryService(storyRepo, publisher)

	authMiddleware := handlers.RequireAuth(cfg.Auth)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		}),
	)
	router.Get("/healthz", handlers.Healthz)
	handlers.AuthRouter(router, userService, cfg.Auth)
	handlers.StoryRouter(router, storyService, images, authMiddleware)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		publisher:  publisher,
	}, nil
}

func newImageStore(ctx context.Context, cfg config.StorageConfig) (*storage.ImageStore, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case config.BackendMinio:
		backend, err := storage.NewMinioBackend(cfg.Minio)
		if err != nil {
			return nil, err
		}
		images := storage.NewImageStore(backend, cfg.PublicBaseURL)
		if err := images.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return images, nil
	case config.BackendGCS:
		backend, err := storage.NewGCSBackend(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		images := storage.NewImageStore(backend, cfg.PublicBaseURL)
		if err := images.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return images, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func newPublisher(ctx context.Context, cfg config.EventsConfig) (*events.Publisher, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case config.BackendRabbitMQ:
		backend, err := events.NewRabbitMQBackend(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return events.NewPublisher(backend), nil
	case config.BackendPubSub:
		backend, err := events.NewPubSubBackend(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return events.NewPublisher(backend), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests before closing the publisher and
// database pool. The context bounds how long draining may take.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.publisher != nil {
		_ = s.publisher.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
