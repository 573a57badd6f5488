// Package server contains the HTTP handlers and wiring for the API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"socialnet/internal/cache"
	"socialnet/internal/config"
	"socialnet/internal/database"
	"socialnet/internal/middleware"
	"socialnet/internal/models"
	"socialnet/internal/observability"
	"socialnet/internal/repository"
	"socialnet/internal/service"
	"socialnet/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	files          storage.FileStore
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo        repository.UserRepository
	followRepo      repository.FollowRepository
	publicationRepo repository.PublicationRepository

	credentials        *service.CredentialService
	graph              *service.FollowGraph
	feed               *service.FeedBuilder
	uploads            *service.UploadGatekeeper
	userService        *service.UserService
	followService      *service.FollowService
	publicationService *service.PublicationService
}

// NewServer connects the database, Redis and file storage, then wires the server.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient = cache.Connect(cfg.RedisURL)
	}

	files, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("file storage init failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, files)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, files storage.FileStore) (*Server, error) {
	if files == nil {
		return nil, fmt.Errorf("file storage is required")
	}

	s := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		files:           files,
		promMiddleware:  middleware.InitMetrics(observability.ServiceName),
		userRepo:        repository.NewUserRepository(db),
		followRepo:      repository.NewFollowRepository(db),
		publicationRepo: repository.NewPublicationRepository(db),
	}

	var revoker service.Revoker
	if redisClient != nil {
		revoker = cache.NewTokenBlacklist(redisClient)
	} else {
		observability.Logger.Warn("token revocation disabled: Redis unavailable")
	}

	s.credentials = service.NewCredentialService(cfg, revoker)
	s.graph = service.NewFollowGraph(s.followRepo, s.publicationRepo)
	s.feed = service.NewFeedBuilder(s.graph, s.publicationRepo)
	s.uploads = service.NewUploadGatekeeper(files, s.userRepo, s.publicationRepo)
	s.userService = service.NewUserService(s.userRepo, s.credentials, s.graph, cfg.UsersPageSize)
	s.followService = service.NewFollowService(s.followRepo, s.userRepo, s.graph, cfg.FollowsPageSize)
	s.publicationService = service.NewPublicationService(s.publicationRepo, files)

	return s, nil
}

// NewApp builds the Fiber app with middleware and routes attached.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Social Network API",
		BodyLimit: s.config.MaxUploadBytes(),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			observability.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
		MaxAge:       86400,
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
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	// Public routes are registered before the auth group so they match first.
	api.Get("/home", s.Home)
	api.Post("/register", middleware.RateLimit(s.redis, 5, 10*time.Minute, "register"), s.Register)
	api.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)

	protected := api.Group("", s.AuthRequired())

	protected.Post("/logout", s.Logout)

	// Users
	protected.Get("/user/:id", s.GetUser)
	protected.Get("/users/:page?", s.GetUsers)
	protected.Get("/counters/:id?", s.GetCounters)
	protected.Put("/update-user/:id", s.UpdateUser)
	protected.Post("/upload-image-user/:id", s.UploadUserImage)
	protected.Get("/get-image-user/:imageFile", s.GetUserImage)

	// Follows
	protected.Post("/follow", s.Follow)
	protected.Delete("/follow/:id", s.Unfollow)
	protected.Get("/following/:id?/:page?", s.GetFollowing)
	protected.Get("/followed/:id?/:page?", s.GetFollowers)
	protected.Get("/getFollows/:followed?", s.GetMyFollows)

	// Publications
	protected.Post("/publication", s.CreatePublication)
	protected.Get("/publications/:page?", s.GetFeed)
	protected.Get("/publication/:id", s.GetPublication)
	protected.Delete("/publication/:id", s.DeletePublication)
	protected.Post("/upload-image-post/:id", s.UploadPublicationImage)
	protected.Get("/get-image-post/:imageFile", s.GetPublicationImage)
}

// Home is an unauthenticated liveness message for API clients.
// @Summary API greeting
// @Tags health
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /home [get]
func (s *Server) Home(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Social network API"})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis is optional, so
// its absence does not make the service unready.
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
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. It accepts
// "Bearer <token>" or a bare token in the Authorization header.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := middleware.ExtractToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			observability.AuthFailures.WithLabelValues("missing").Inc()
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := s.credentials.ParseToken(c.UserContext(), token)
		if err != nil {
			observability.AuthFailures.WithLabelValues("invalid").Inc()
			return s.mapServiceError(c, err)
		}

		userID, err := claims.UserID()
		if err != nil {
			observability.AuthFailures.WithLabelValues("invalid").Inc()
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		c.Locals("userID", userID)
		c.Locals("claims", claims)
		c.SetUserContext(observability.WithUserID(c.UserContext(), userID))

		return c.Next()
	}
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	s.app = s.NewApp()
	observability.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			observability.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			observability.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			observability.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	observability.Logger.Info("server shutdown complete")
	return nil
}
