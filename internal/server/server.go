// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "chirper/docs" // swagger docs
	"chirper/internal/auth"
	"chirper/internal/cache"
	"chirper/internal/config"
	"chirper/internal/database"
	"chirper/internal/featureflags"
	"chirper/internal/middleware"
	"chirper/internal/models"
	"chirper/internal/notifications"
	"chirper/internal/repository"
	"chirper/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const serviceName = "chirper-api"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	lifecycle      *database.Lifecycle
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	tokens         *auth.TokenIssuer
	userRepo       repository.UserRepository
	tweetRepo      repository.TweetRepository
	commentRepo    repository.CommentRepository
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	featureFlags   *featureflags.Manager
	commentService *service.CommentService
	tweetService   *service.TweetService
	userService    *service.UserService
}

// NewServer opens the database and Redis described by cfg and builds a server on top of them.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	lifecycle := database.NewLifecycle(cfg, middleware.Logger)
	db, err := lifecycle.Init(ctx)
	if err != nil {
		return nil, fmt.Errorf("database initialization failed: %w", err)
	}

	redisClient := cache.InitRedis(cfg.RedisURL)

	server, err := NewServerWithDeps(cfg, db, redisClient)
	if err != nil {
		_ = lifecycle.Close()
		return nil, err
	}
	server.lifecycle = lifecycle
	return server, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; caching, rate limiting and cross-instance events
// are then disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, errors.New("server requires a database")
	}
	cache.SetClient(redisClient)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(serviceName),
		tokens:         auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute),
		userRepo:       repository.NewUserRepository(db),
		tweetRepo:      repository.NewTweetRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		hub:            notifications.NewHub(),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}
	server.shutdownCtx, server.shutdownFn = context.WithCancel(context.Background())

	server.commentService = service.NewCommentService(server.commentRepo, server.tweetRepo)
	server.tweetService = service.NewTweetService(server.tweetRepo, server.userRepo)
	server.userService = service.NewUserService(server.userRepo, server.tokens)

	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
	}

	return server, nil
}

// App returns the Fiber application, building it on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName:      "Chirper API",
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// errorHandler answers every error that escapes a handler with an envelope.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.Envelope{Status: fe.Message})
	}
	return s.respondWithError(c, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Bearer tokens only annotate the request; nothing is rejected here.
	app.Use(middleware.OptionalIdentity(s.tokens))

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: !strings.Contains(origins, "*"),
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
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
			return c.Status(fiber.StatusTooManyRequests).JSON(models.Envelope{Status: "Too many requests"})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Chirper Metrics Dashboard",
	}))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	users := app.Group("/users")
	users.Post("/", middleware.RateLimit(s.redis, 5, 10*time.Minute, "create_user"), s.CreateUser)
	users.Get("/:id", s.GetUser)

	tweets := app.Group("/tweets")
	tweets.Get("/", s.GetTweets)
	tweets.Post("/", middleware.RateLimit(s.redis, 30, time.Minute, "create_tweet"), s.CreateTweet)
	tweets.Get("/:id/comments", s.GetTweetComments)
	tweets.Get("/:id", s.GetTweet)

	comments := app.Group("/comments")
	comments.Post("/", middleware.RateLimit(s.redis, 60, time.Minute, "comments"), s.HandleComments)
	comments.Get("/:commentId", s.GetComment)

	app.Get("/ws", s.EventStreamHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return models.RespondWithData(c, fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports whether the database, and Redis when configured, answer pings.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := models.StatusSuccess
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(models.Envelope{
		Status: overallStatus,
		Data: fiber.Map{
			"checks": fiber.Map{
				"database": dbStatus,
				"redis":    redisStatus,
			},
			"time": time.Now(),
		},
	})
}

// startRealtime wires the hub to the Redis event channel. Without Redis the
// hub is fed directly by this process.
func (s *Server) startRealtime() error {
	if s.notifier == nil {
		return nil
	}
	return s.hub.StartWiring(s.shutdownCtx, s.notifier)
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()

	if err := s.startRealtime(); err != nil {
		middleware.Logger.Warn("failed to start event wiring", slog.String("error", err.Error()))
	}

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown stops event wiring, closes websocket clients, the HTTP server,
// the database pool and Redis, in that order.
func (s *Server) Shutdown(ctx context.Context) error {
	log := middleware.Logger

	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		log.Error("error shutting down websocket hub", slog.String("error", err.Error()))
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if s.lifecycle != nil {
		if err := s.lifecycle.Close(); err != nil {
			log.Error("error closing database", slog.String("error", err.Error()))
		}
	} else if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	log.Info("Server shutdown complete")
	return nil
}
