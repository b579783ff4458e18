package config

import (
	"fmt"
	"log/slog"

	appmiddleware "github.com/anonto42/pixora/backend/internal/middleware"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SetupMiddleware installs the global middleware chain
func SetupMiddleware(e *echo.Echo, cfg *Config, logger *slog.Logger) {
	e.Use(middleware.RequestID())
	e.Use(appmiddleware.Metrics())
	e.Use(appmiddleware.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	// a story upload carries up to ten images
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.MaxUploadMB*10+1)))
}
