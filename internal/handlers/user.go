package handlers

import (
	"net/http"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userService *services.UserService
	media       *MediaHandler
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService, media *MediaHandler) *UserHandler {
	return &UserHandler{userService: userService, media: media}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.DELETE("/profile", h.DeleteUser)
	g.GET("/users", h.SearchUsers)
	g.GET("/users/:username", h.GetUser)
}

// GetUser returns a profile page: counts, posts and whether the caller follows the user
func (h *UserHandler) GetUser(c echo.Context) error {
	view, err := h.userService.Profile(c.Request().Context(), getUserIDFromContext(c), c.Param("username"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, view)
}

// GetProfile retrieves the authenticated user's account
func (h *UserHandler) GetProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userService.GetUser(c.Request().Context(), currentUserID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, user)
}

// UpdateProfile edits bio and avatar; a multipart "avatar" file replaces avatar_url
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if files := uploadedFiles(c, "avatar"); len(files) > 0 {
		url, err := h.media.save(c, files[0])
		if err != nil {
			return err
		}
		req.AvatarURL = &url
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), currentUserID, req)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.userService.DeleteAccount(c.Request().Context(), currentUserID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Query parameter q is required")
	}

	users, err := h.userService.Search(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"users": users})
}
