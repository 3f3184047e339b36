package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/traduz/apiserver/config"
	"github.com/traduz/apiserver/internal/auth"
	"github.com/traduz/apiserver/internal/db"
	"github.com/traduz/apiserver/internal/events"
	"github.com/traduz/apiserver/internal/handlers"
	"github.com/traduz/apiserver/internal/services"
	"github.com/traduz/apiserver/internal/store"
	"github.com/traduz/apiserver/internal/translator"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	bus        *events.Bus
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	secret := strings.TrimSpace(cfg.Auth.JWTSecret)
	if secret == "" {
		return nil, errors.New("SECRET_KEY is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	bus, err := events.NewBusFromConfig(ctx, cfg.Events)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	userRepo := store.NewUserRepository(dbConn)
	translationRepo := store.NewTranslationRepository(dbConn)

	tokens := auth.NewTokenService(secret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	translatorClient := translator.New(cfg.Translator.BaseURL, time.Duration(cfg.Translator.TimeoutSeconds)*time.Second)

	userService := services.NewUserService(userRepo)

	var publisher services.EventPublisher
	if bus != nil {
		publisher = bus
	}
	translationService := services.NewTranslationService(translationRepo, translatorClient, publisher, logger)

	authMiddleware := handlers.RequireAuth(tokens, userService, logger)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", handlers.Health)
	router.Route("/api", func(r chi.Router) {
		handlers.AuthRouter(r, userService, tokens, logger)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			handlers.ProfileRouter(r, userService, logger)
			handlers.TranslationRouter(r, translationService, logger)
		})
	})

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
		bus:        bus,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.bus != nil {
		_ = s.bus.Close()
	}
	return s.httpServer.Close()
}
