package handlers

import (
	"net/http"

	"github.com/anonto42/pixora/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow-related HTTP requests
type FollowHandler struct {
	followService *services.FollowService
}

func NewFollowHandler(followService *services.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// RegisterFollowRoutes registers follow routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:username/follow", h.ToggleFollow)
	g.GET("/users/:username/followers", h.GetFollowers)
	g.GET("/users/:username/following", h.GetFollowing)
}

// ToggleFollow follows the user, or unfollows when the caller already does
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	result, err := h.followService.Toggle(c.Request().Context(), currentUserID, c.Param("username"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, result)
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	users, err := h.followService.Followers(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"followers": users, "count": len(users)})
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	users, err := h.followService.Following(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"following": users, "count": len(users)})
}
