// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/joanri79/cine-log/docs" // swagger docs
	"github.com/joanri79/cine-log/internal/cache"
	"github.com/joanri79/cine-log/internal/config"
	"github.com/joanri79/cine-log/internal/database"
	"github.com/joanri79/cine-log/internal/middleware"
	"github.com/joanri79/cine-log/internal/models"
	"github.com/joanri79/cine-log/internal/notifications"
	"github.com/joanri79/cine-log/internal/repository"
	"github.com/joanri79/cine-log/internal/service"
	"github.com/joanri79/cine-log/internal/tmdb"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	userRepo       repository.UserRepository
	friendRepo     repository.FriendRepository
	watchRepo      repository.WatchLogRepository
	friendService  *service.FriendService
	watchService   *service.WatchLogService
	notifier       *notifications.Notifier
	hub            *notifications.Hub
}

// NewServer connects to the database and Redis and builds a server with all dependencies.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// A nil client means Redis is unreachable; caching and rate limiting degrade.
	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	metadata := tmdb.NewClient(tmdb.Config{
		APIKey:        cfg.TMDBAPIKey,
		BaseURL:       cfg.TMDBBaseURL,
		Language:      cfg.TMDBLanguage,
		RatePerSecond: cfg.TMDBRatePerSecond,
		CacheTTL:      time.Duration(cfg.TMDBCacheTTLMinutes) * time.Minute,
		Redis:         redisClient,
	})

	return NewServerWithDeps(cfg, db, redisClient, metadata)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, metadata service.MetadataProvider) (*Server, error) {
	if cfg == nil || db == nil || metadata == nil {
		return nil, fmt.Errorf("server: config, database and metadata provider are required")
	}

	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	watchRepo := repository.NewWatchLogRepository(db)
	contentRepo := repository.NewContentRepository(db)
	platformRepo := repository.NewPlatformRepository(db)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("cine_log_api"),
		userRepo:       userRepo,
		friendRepo:     friendRepo,
		watchRepo:      watchRepo,
		friendService:  service.NewFriendService(friendRepo, userRepo, watchRepo),
		watchService:   service.NewWatchLogService(watchRepo, contentRepo, platformRepo, metadata, redisClient),
		notifier:       notifications.NewNotifier(redisClient),
		hub:            notifications.NewHub(),
	}, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Propagates request and user ids into the request context for the logger.
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		ExposeHeaders:    "X-Trace-ID, X-Request-ID",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api.Get("/swagger/*", swagger.HandlerDefault)

	// The websocket group accepts a query token, so it is registered before the
	// header-only protected group claims every /api path.
	ws := api.Group("/ws", s.WebSocketAuthRequired())
	ws.Get("/", requireUpgrade, s.WebsocketHandler())

	protected := api.Group("", s.AuthRequired())

	users := protected.Group("/users")
	users.Get("/search", middleware.RateLimit(s.redis, 30, time.Minute, "user_search"), s.SearchUsers)

	// Specific /requests and /status routes before the generic /:userId
	friends := protected.Group("/friends")
	friends.Get("/", s.GetFriends)
	friends.Get("/activity", s.GetFriendsActivity)
	friends.Get("/requests", s.GetIncomingRequests)
	friends.Get("/requests/sent", s.GetSentRequests)
	friends.Post("/requests/:requestId/accept", s.AcceptFriendRequest)
	friends.Post("/requests/:requestId/reject", s.RejectFriendRequest)
	friends.Post("/requests/:userId", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "friend_request"), s.SendFriendRequest)
	friends.Get("/status/:userId", s.GetRelationStatus)
	friends.Delete("/:userId", s.RemoveFriend)

	protected.Get("/social/overview", s.GetSocialOverview)

	content := protected.Group("/content")
	content.Get("/search", middleware.RateLimit(s.redis, 30, time.Minute, "content_search"), s.SearchContent)
	content.Get("/:type/:tmdbId", s.GetContentDetails)

	logs := protected.Group("/logs")
	logs.Post("/", s.LogWatch)
	logs.Get("/", s.GetHistory)
	logs.Put("/:id", s.UpdateLogEntry)
	logs.Delete("/:id", s.DeleteLogEntry)

	protected.Get("/stats", s.GetStats)
	protected.Get("/platforms", s.GetPlatforms)

}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports the database and Redis status. Redis is optional: the
// service runs degraded without it.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis == nil {
		redisStatus = "unavailable"
	} else if err := s.redis.Ping(ctx).Err(); err != nil {
		redisStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	switch {
	case dbStatus != "healthy":
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	case redisStatus != "healthy":
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"connections": s.hub.ConnectionCount(),
		"time":        time.Now(),
	})
}

// App builds the Fiber application with middleware and routes attached.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName:   "cine-log API",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// Start wires the hub to Redis pub/sub and listens on the configured port.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := s.App()

	if s.notifier.Enabled() {
		if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
			middleware.Logger.Error("failed to start hub wiring",
				slog.String("hub", s.hub.Name()), slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down hub", slog.String("error", err.Error()))
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
