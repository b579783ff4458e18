package handlers

import (
	"net/http"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// StoryHandler handles story-related HTTP requests
type StoryHandler struct {
	storyService *services.StoryService
	media        *MediaHandler
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(storyService *services.StoryService, media *MediaHandler) *StoryHandler {
	return &StoryHandler{storyService: storyService, media: media}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.GET("/stories", h.GetStoryTray)
	g.POST("/stories", h.CreateStories)
	g.GET("/stories/users/:user_id", h.GetUserStories)
	g.GET("/stories/:id/viewers", h.GetViewers)
	g.DELETE("/stories/:id", h.DeleteStory)
}

// GetStoryTray lists users that currently have visible stories
func (h *StoryHandler) GetStoryTray(c echo.Context) error {
	owners, err := h.storyService.ActiveOwners(c.Request().Context())
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"users": owners})
}

// CreateStories makes one story per multipart "image" file, or per entry of a JSON image_urls list
func (h *StoryHandler) CreateStories(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var urls []string
	var saved []string
	if files := uploadedFiles(c, "image"); len(files) > 0 {
		if len(files) > 10 {
			return models.NewValidationError("Too many images (max 10)")
		}
		for _, fh := range files {
			url, err := h.media.save(c, fh)
			if err != nil {
				h.media.discard(c, saved)
				return err
			}
			saved = append(saved, url)
		}
		urls = saved
	} else {
		var req models.CreateStoryRequest
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
		urls = req.ImageURLs
	}

	stories, err := h.storyService.Upload(c.Request().Context(), currentUserID, urls)
	if err != nil {
		h.media.discard(c, saved)
		return err
	}
	return success(c, http.StatusCreated, echo.Map{"stories": stories})
}

// GetUserStories returns the user's visible stories oldest first and records the caller as a viewer
func (h *StoryHandler) GetUserStories(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ownerID, err := parseIDParam(c, "user_id")
	if err != nil {
		return err
	}

	stories, err := h.storyService.ViewUserStories(c.Request().Context(), currentUserID, ownerID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"stories": stories})
}

func (h *StoryHandler) GetViewers(c echo.Context) error {
	storyID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	viewers, err := h.storyService.Viewers(c.Request().Context(), getUserIDFromContext(c), storyID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"viewers": viewers, "count": len(viewers)})
}

func (h *StoryHandler) DeleteStory(c echo.Context) error {
	storyID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.storyService.Delete(c.Request().Context(), getUserIDFromContext(c), storyID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
