// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "scholarsync/docs" // swagger docs
	"scholarsync/internal/cache"
	"scholarsync/internal/config"
	"scholarsync/internal/database"
	"scholarsync/internal/featureflags"
	"scholarsync/internal/middleware"
	"scholarsync/internal/models"
	"scholarsync/internal/notifications"
	"scholarsync/internal/observability"
	"scholarsync/internal/repository"
	"scholarsync/internal/service"
	"scholarsync/internal/validation"

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

const (
	globalRateLimit  = 300
	defaultBodyLimit = 1 * 1024 * 1024
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

	auth         *middleware.Authenticator
	featureFlags *featureflags.Manager
	notifier     *notifications.Notifier
	hub          *notifications.Hub

	userService        *service.UserService
	feedService        *service.FeedService
	commentService     *service.CommentService
	interactionService *service.InteractionService
	eventService       *service.EventService
	pollService        *service.PollService
	offerService       *service.OfferService
	noteService        *service.NoteService
}

// NewServer connects to the database and Redis and wires every dependency.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional: caching, pub/sub and rate limits degrade without it.
	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, fmt.Errorf("server needs a config and a database")
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: observability.HTTPMetrics("scholarsync-api"),
		auth:           middleware.NewAuthenticator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		notifier:       notifications.NewNotifier(redisClient),
		hub:            notifications.NewHub(),
	}

	store := cache.NewStore(redisClient)
	validator := validation.New(splitList(cfg.UploadHosts))
	events := notifications.NewBroadcaster(s.hub, s.notifier, func() bool {
		return s.featureFlags.Global(featureflags.RealtimeEvents)
	})

	s.userService = service.NewUserService(repository.NewUserRepository(db), store)
	s.feedService = service.NewFeedService(repository.NewActivityRepository(db), store, events, validator)
	s.commentService = service.NewCommentService(repository.NewCommentRepository(db), store, events, validator)
	s.interactionService = service.NewInteractionService(repository.NewInteractionRepository(db), store, events, validator)
	s.eventService = service.NewEventService(repository.NewEventRepository(db), s.feedService, store)
	s.pollService = service.NewPollService(repository.NewPollRepository(db), store, events, validator)
	s.offerService = service.NewOfferService(repository.NewOfferRepository(db))
	s.noteService = service.NewNoteService(repository.NewNoteRepository(db), s.featureFlags, validator)

	return s, nil
}

// NewApp builds the Fiber app with error handling, middleware and routes.
func (s *Server) NewApp() *fiber.App {
	timeout := time.Duration(s.config.RequestTimeoutSeconds) * time.Second
	app := fiber.New(fiber.Config{
		AppName:      "Scholar Sync API",
		BodyLimit:    defaultBodyLimit,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler answers errors that escaped the handlers, such as unknown
// routes or body limit violations.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}
	app.Use(middleware.TracingMiddleware())

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before anything that can short-circuit so error responses
	// still carry the headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        globalRateLimit,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	api.Get("/uploads/limits", s.GetUploadLimits)

	optional := s.auth.Optional()
	required := []fiber.Handler{s.auth.Required(), middleware.ContextMiddleware(), s.syncUser()}
	write := s.writeLimit()

	feed := api.Group("/feed")
	feed.Get("/", optional, s.GetFeed)
	feed.Get("/:id", optional, s.GetActivity)
	feed.Post("/", append(required, write, s.CreateActivity)...)
	feed.Delete("/:id", append(required, s.RemoveActivity)...)

	comments := api.Group("/comments")
	comments.Get("/", optional, s.GetComments)
	comments.Post("/", append(required, write, s.CreateComment)...)

	interactions := api.Group("/interactions")
	interactions.Get("/:model/:modelId", optional, s.GetInteractions)
	interactions.Post("/:model/:modelId", append(required, s.Interact)...)

	events := api.Group("/events")
	// Specific routes before the generic /:id
	events.Get("/calendar", optional, s.GetCalendar)
	events.Post("/", append(required, write, s.CreateEvent)...)
	events.Post("/:id/interest", append(required, s.ToggleInterest)...)
	events.Get("/:id/interest", append(required, s.GetInterest)...)
	events.Get("/:id", optional, s.GetEvent)

	polls := api.Group("/polls")
	polls.Get("/:id/options", optional, s.GetPollOptions)
	polls.Post("/:id/votes", append(required, s.Vote)...)

	api.Get("/offers", optional, s.GetOffers)

	notes := api.Group("/notes")
	notes.Get("/", optional, s.GetNotes)
	notes.Post("/", append(required, write, s.CreateNote)...)
	notes.Get("/me", append(required, s.GetMyNotes)...)
	notes.Put("/:id/sections/order", append(required, s.ReorderSections)...)
	notes.Get("/:id", optional, s.GetNote)
	notes.Put("/:id", append(required, s.UpdateNote)...)
	notes.Delete("/:id", append(required, s.DeleteNote)...)

	api.Get("/feature-flags", optional, s.GetFeatureFlags)

	api.Get("/ws", s.auth.WebSocket(), s.WebSocketHandler())
}

// writeLimit throttles content creation per user through Redis.
func (s *Server) writeLimit() fiber.Handler {
	window := time.Duration(s.config.WriteRateWindowSeconds) * time.Second
	if window <= 0 {
		window = time.Minute
	}
	limit := s.config.WriteRateLimit
	if limit <= 0 {
		limit = 30
	}
	var rdb redis.Cmdable
	if s.redis != nil {
		rdb = s.redis
	}
	return middleware.RateLimit(rdb, limit, window, "write")
}

// syncUser mirrors the token's profile into the users table.
func (s *Server) syncUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := middleware.SessionFrom(c)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError("Authorization required"))
		}
		if err := s.userService.EnsureUser(c.UserContext(), *session); err != nil {
			return respond(c, err)
		}
		return c.Next()
	}
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC(),
	})
}

// ReadinessCheck reports database and Redis health. Redis is optional, so
// only a database failure makes the instance unready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	} else if redisStatus != "healthy" {
		overall = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().UTC(),
	})
}

// Start wires realtime delivery and listens until the app is shut down.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.NewApp()

	if s.notifier.Enabled() {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				middleware.Logger.Error("failed to start realtime wiring", slog.String("error", err.Error()))
			}
		}()
	}

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
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
		middleware.Logger.Error("error shutting down realtime hub", slog.String("error", err.Error()))
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

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
