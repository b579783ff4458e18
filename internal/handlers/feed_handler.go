package handlers

import (
	"net/http"

	"github.com/anonto42/pixora/backend/internal/services"
	"github.com/labstack/echo/v4"
)

type FeedHandler struct {
	postService  *services.PostService
	storyService *services.StoryService
}

func NewFeedHandler(postService *services.PostService, storyService *services.StoryService) *FeedHandler {
	return &FeedHandler{postService: postService, storyService: storyService}
}

func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns the newest posts together with the active story tray
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	page, limit := pageParams(c, 20)
	ctx := c.Request().Context()

	owners, err := h.storyService.ActiveOwners(ctx)
	if err != nil {
		return err
	}

	feed, err := h.postService.Feed(ctx, currentUserID, page, limit, owners)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, feed)
}
