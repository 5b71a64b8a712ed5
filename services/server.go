package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/krshsl/campusjobs/backend/repository"
	ws "github.com/krshsl/campusjobs/backend/websocket"
	"gorm.io/gorm"
)

const (
	apiVersion      = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

// Server holds all server dependencies
type Server struct {
	config        *Config
	db            *gorm.DB
	pool          *pgxpool.Pool
	repo          *repository.GORMRepository
	conversations *repository.ConversationRepository
	textGen       TextGenerator
	rooms         RoomProvider

	authService        *AuthService
	authEndpoints      *AuthEndpoints
	profileEndpoints   *ProfileEndpoints
	jobService         *JobService
	jobEndpoints       *JobEndpoints
	socialService      *SocialService
	friendEndpoints    *FriendEndpoints
	messagingService   *MessagingService
	messageEndpoints   *MessageEndpoints
	websocketHandler   *WebSocketHandler
	interviewEndpoints *InterviewEndpoints
	chatTokens         *ChatTokenService
	aiEndpoints        *AIEndpoints
	adminEndpoints     *AdminEndpoints

	wsHub          *ws.Hub
	upgrader       websocket.Upgrader
	stopBackground context.CancelFunc
}

// NewServer creates a new server instance
func NewServer(config *Config) *Server {
	return &Server{
		config: config,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return CheckOrigin(r, config.WebSocket.AllowedOrigins)
			},
		},
	}
}

// SetDatabase sets the database connection. pool may be nil when the gorm
// handle is not backed by pgx, as in tests.
func (s *Server) SetDatabase(db *gorm.DB, pool *pgxpool.Pool) {
	s.db = db
	s.pool = pool
	s.repo = repository.NewGORMRepository(db)
	s.conversations = repository.NewConversationRepository(db)
}

// SetTextGenerator sets the model used by the AI features. Without one the AI
// routes answer 503 and job matching falls back to skill overlap.
func (s *Server) SetTextGenerator(gen TextGenerator) {
	s.textGen = gen
}

// SetRoomProvider overrides the video-room provider built from config
func (s *Server) SetRoomProvider(rooms RoomProvider) {
	s.rooms = rooms
}

// InitializeServices initializes all server services
func (s *Server) InitializeServices() error {
	if s.repo == nil {
		return errors.New("database is not configured")
	}
	if s.config.JWT.Secret == "" {
		return errors.New("jwt secret is not configured")
	}

	s.wsHub = ws.NewHub()
	go s.wsHub.Run()

	if s.rooms == nil && s.config.Video.APIKey != "" {
		s.rooms = NewVideoRoomClient(s.config.Video.APIKey, s.config.Video.BaseURL)
		slog.Info("Video room provider initialized", "base_url", s.config.Video.BaseURL)
	}
	if s.textGen == nil {
		slog.Warn("No AI model configured, AI routes will be unavailable")
	}

	s.authService = NewAuthService(s.repo, s.config.JWT.Secret, s.config.IsProduction())
	s.authEndpoints = NewAuthEndpoints(s.authService)
	s.profileEndpoints = NewProfileEndpoints(NewProfileService(s.repo))

	s.jobService = NewJobService(s.repo)
	s.jobEndpoints = NewJobEndpoints(s.jobService)

	s.socialService = NewSocialService(s.repo)
	s.friendEndpoints = NewFriendEndpoints(s.socialService)

	s.messagingService = NewMessagingService(s.repo, s.conversations, s.socialService, s.wsHub)
	s.messageEndpoints = NewMessageEndpoints(s.messagingService)
	s.websocketHandler = NewWebSocketHandler(s.messagingService)

	s.interviewEndpoints = NewInterviewEndpoints(NewInterviewService(s.repo, s.rooms))
	background, cancel := context.WithCancel(context.Background())
	s.stopBackground = cancel
	go NewInterviewExpiryService(s.repo).Run(background)

	s.chatTokens = NewChatTokenService(s.config.Chat.APIKey, s.config.Chat.APISecret)

	limiter := NewUserRateLimiter(s.config.AI.RequestsPerMinute, s.config.AI.Burst)
	s.aiEndpoints = NewAIEndpoints(
		NewQuizService(s.repo, s.textGen),
		NewResumeService(s.repo, s.textGen),
		NewCareerService(s.repo, s.textGen),
		limiter,
	)
	s.adminEndpoints = NewAdminEndpoints(NewAdminService(s.repo), s.jobService)

	slog.Info("Services initialized")
	return nil
}

// SetupRoutes configures all HTTP routes
func (s *Server) SetupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxRequestBodyBytes))
	r.Use(CORS(s.config.CORS.AllowedOrigins))

	r.Get("/health", s.healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.apiV1Handler)

		r.Route("/auth", s.authEndpoints.RegisterRoutes)

		// Everything else needs a signed in user
		r.Group(func(r chi.Router) {
			r.Use(s.authService.Middleware)

			r.Get("/ws", s.websocketHandlerFunc)
			s.profileEndpoints.RegisterRoutes(r)
			s.jobEndpoints.RegisterRoutes(r)
			s.friendEndpoints.RegisterRoutes(r)
			s.messageEndpoints.RegisterRoutes(r)
			s.interviewEndpoints.RegisterRoutes(r)
			s.chatTokens.RegisterRoutes(r)
			s.aiEndpoints.RegisterRoutes(r)
			s.adminEndpoints.RegisterRoutes(r)
		})
	})

	return r
}

// Start serves until SIGINT or SIGTERM, then drains connections
func (s *Server) Start() error {
	port := s.config.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", port, "environment", s.config.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		s.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown
	s.Stop()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return err
	}

	slog.Info("Server exited")
	return nil
}

// Stop ends the websocket hub and background jobs
func (s *Server) Stop() {
	if s.stopBackground != nil {
		s.stopBackground()
	}
	if s.wsHub != nil {
		s.wsHub.Stop()
	}
}

// CheckOrigin validates the origin of WebSocket connections to prevent CSRF attacks
func CheckOrigin(r *http.Request, allowedOriginsStr string) bool {
	origin := r.Header.Get("Origin")

	allowed := parseOrigins(allowedOriginsStr)
	if len(allowed) == 0 {
		slog.Warn("WebSocket connection rejected: no allowed origins configured", "origin", origin)
		return false
	}

	if originAllowed(strings.TrimRight(origin, "/"), allowed) && origin != "" {
		slog.Debug("WebSocket connection accepted", "origin", origin)
		return true
	}

	slog.Warn("WebSocket connection rejected: origin not allowed", "origin", origin, "allowed_origins", allowedOriginsStr)
	return false
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "up"

	if err := s.pingDatabase(r.Context()); err != nil {
		slog.Warn("Database ping failed", "error", err)
		dbStatus = "down"
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": status, "database": dbStatus})
}

func (s *Server) pingDatabase(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if s.pool != nil {
		return s.pool.Ping(ctx)
	}
	if s.db == nil {
		return errors.New("database is not configured")
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Server) apiV1Handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "API v1", "version": apiVersion})
}

func (s *Server) websocketHandlerFunc(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, r, ErrUnauthenticated)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err, "user_id", user.ID)
		return
	}

	slog.Info("WebSocket connection established", "user_id", user.ID)

	client := s.wsHub.RegisterClient(conn, user.ID)
	client.MessageHandler = s.websocketHandler.HandleWebSocketMessage

	go client.WritePump()
	client.ReadPump()
}
