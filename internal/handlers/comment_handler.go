package handlers

import (
	"net/http"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterCommentRoutes registers comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetComments)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment adds a comment, or a reply when parent_id is set
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.commentService.CreateComment(c.Request().Context(), services.CreateCommentInput{
		UserID:   currentUserID,
		PostID:   postID,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, resp)
}

// GetComments returns top-level comments with their replies, oldest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	threads, err := h.commentService.ListComments(c.Request().Context(), postID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"comments": threads})
}

func (h *CommentHandler) DeleteComment(c echo.Context) error {
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	err = h.commentService.DeleteComment(c.Request().Context(), services.DeleteCommentInput{
		UserID:    getUserIDFromContext(c),
		CommentID: commentID,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
