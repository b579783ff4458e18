package handlers

import (
	"net/http"

	"github.com/anonto42/pixora/backend/internal/services"
	"github.com/labstack/echo/v4"
)

type LikeHandler struct {
	likeService *services.LikeService
}

func NewLikeHandler(likeService *services.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
}

// ToggleLike likes the post, or unlikes it when the caller already does
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	result, err := h.likeService.Toggle(c.Request().Context(), currentUserID, postID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, result)
}
