package handlers

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/anonto42/pixora/backend/internal/media"
	"github.com/anonto42/pixora/backend/internal/middleware"
	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated user's ID, or 0 outside the auth group
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return 0
	}
	return claims.UserID
}

func parseIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

func pageParams(c echo.Context, defaultLimit int) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = defaultLimit
	}
	return page, limit
}

func pageMeta(page, limit int, total int64) echo.Map {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return echo.Map{
		"currentPage":     page,
		"totalPages":      totalPages,
		"totalItems":      total,
		"itemsPerPage":    limit,
		"hasNextPage":     page < totalPages,
		"hasPreviousPage": page > 1,
	}
}

func success(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

// bindAndValidate binds the body into req and runs the echo validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

func statusForCode(code string) int {
	switch code {
	case models.CodeNotFound:
		return http.StatusNotFound
	case models.CodeForbidden:
		return http.StatusForbidden
	case models.CodeValidation:
		return http.StatusBadRequest
	case models.CodeUnauthorized:
		return http.StatusUnauthorized
	case models.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorHandler renders every error as models.ErrorResponse. AppErrors keep their
// code, echo errors keep their status, anything else is logged and reported as 500.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		resp := models.ErrorResponse{Success: false, Error: "Internal server error", Code: models.CodeInternalError}

		var appErr *models.AppError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = statusForCode(appErr.Code)
			resp.Code = appErr.Code
			if status != http.StatusInternalServerError {
				resp.Error = appErr.Message
			}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			resp.Error = http.StatusText(status)
			if msg, ok := httpErr.Message.(string); ok {
				resp.Error = msg
			}
			resp.Code = codeForStatus(status)
		case errors.Is(err, media.ErrNotFound):
			status = http.StatusNotFound
			resp.Error, resp.Code = "Image not found", models.CodeNotFound
		case errors.Is(err, media.ErrNotImage):
			status = http.StatusBadRequest
			resp.Error, resp.Code = "Only image uploads are accepted", models.CodeValidation
		}

		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "unhandled error", "error", err, "path", c.Path())
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, resp)
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "writing error response", "error", err)
		}
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return models.CodeNotFound
	case http.StatusForbidden:
		return models.CodeForbidden
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return models.CodeValidation
	case http.StatusUnauthorized:
		return models.CodeUnauthorized
	case http.StatusConflict:
		return models.CodeConflict
	}
	if status >= http.StatusInternalServerError {
		return models.CodeInternalError
	}
	return ""
}
