package router

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/anonto42/pixora/backend/internal/cache"
	"github.com/anonto42/pixora/backend/internal/handlers"
	"github.com/anonto42/pixora/backend/internal/media"
	"github.com/anonto42/pixora/backend/internal/middleware"
	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/repositories"
	"github.com/anonto42/pixora/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencies are the connections and settings the routes are built from
type Dependencies struct {
	DB             *gorm.DB
	Media          media.Store
	Redis          *redis.Client // nil disables the unread counter cache
	Firebase       services.IDTokenVerifier
	JWTSecret      string
	JWTTTL         time.Duration
	MaxUploadBytes int64
	Clock          services.Clock
	Logger         *slog.Logger
}

// SetupRoutes migrates the schema, builds the services and registers every route
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	if err := deps.DB.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrating models: %w", err)
	}
	deps.Logger.Info("auto-migrations completed")

	e.HTTPErrorHandler = handlers.NewErrorHandler(deps.Logger)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Services ---
	store := repositories.NewStore(deps.DB)
	unread := cache.NewUnreadCounter(deps.Redis)
	rules := services.NewNotificationRules(deps.Clock, deps.Logger)
	tokens := services.NewTokenManager(deps.JWTSecret, deps.JWTTTL, deps.Clock)

	authService := services.NewAuthService(store, tokens, deps.Firebase, deps.Clock)
	userService := services.NewUserService(store, deps.Clock)
	postService := services.NewPostService(store, unread, deps.Clock)
	likeService := services.NewLikeService(store, rules, unread, deps.Clock)
	commentService := services.NewCommentService(store, rules, unread, deps.Clock)
	followService := services.NewFollowService(store, deps.Clock, deps.Logger)
	storyService := services.NewStoryService(store, deps.Clock, deps.Logger)
	reportService := services.NewReportService(store, rules, unread, deps.Clock)
	notificationService := services.NewNotificationService(store, unread, deps.Clock)

	mediaHandler := handlers.NewMediaHandler(deps.Media, deps.MaxUploadBytes)
	mediaHandler.RegisterMediaRoutes(e)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterAuthRoutes(authGroup)

	// --- Protected routes ---
	var firebaseResolver middleware.FirebaseUserResolver
	if deps.Firebase != nil {
		firebaseResolver = authService
	}
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(tokens, firebaseResolver))

	handlers.NewUserHandler(userService, mediaHandler).RegisterProfileRoutes(api)
	handlers.NewPostHandler(postService, mediaHandler).RegisterPostRoutes(api)
	handlers.NewFeedHandler(postService, storyService).RegisterFeedRoutes(api)
	handlers.NewFollowHandler(followService).RegisterFollowRoutes(api)
	handlers.NewCommentHandler(commentService).RegisterCommentRoutes(api)
	handlers.NewLikeHandler(likeService).RegisterLikeRoutes(api)
	handlers.NewStoryHandler(storyService, mediaHandler).RegisterStoryRoutes(api)
	handlers.NewReportHandler(reportService).RegisterReportRoutes(api)
	handlers.NewNotificationHandler(notificationService).RegisterNotificationRoutes(api)

	deps.Logger.Info("all routes configured", "routes", len(e.Routes()))
	return nil
}
