package handlers

import (
	"net/http"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postService *services.PostService
	media       *MediaHandler
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService, media *MediaHandler) *PostHandler {
	return &PostHandler{postService: postService, media: media}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts/user/:user_id", h.GetUserPosts)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost accepts either a multipart "image" file or a JSON image_url
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if files := uploadedFiles(c, "image"); len(files) > 0 {
		url, err := h.media.save(c, files[0])
		if err != nil {
			return err
		}
		req.ImageURL = url
	}

	post, err := h.postService.CreatePost(c.Request().Context(), services.CreatePostInput{
		UserID:   currentUserID,
		ImageURL: req.ImageURL,
		Caption:  req.Caption,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, post)
}

// GetPost returns the post detail; staff callers also receive its reports
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	view, err := h.postService.GetPost(c.Request().Context(), getUserIDFromContext(c), postID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, view)
}

func (h *PostHandler) GetUserPosts(c echo.Context) error {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		return err
	}
	page, limit := pageParams(c, 12)

	posts, err := h.postService.ListByUser(c.Request().Context(), getUserIDFromContext(c), userID, page, limit)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"posts": posts, "page": page, "limit": limit})
}

func (h *PostHandler) UpdatePost(c echo.Context) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postService.UpdatePost(c.Request().Context(), services.UpdatePostInput{
		UserID:  getUserIDFromContext(c),
		PostID:  postID,
		Caption: req.Caption,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c echo.Context) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.postService.DeletePost(c.Request().Context(), getUserIDFromContext(c), postID); err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"id": postID, "deleted": true})
}
