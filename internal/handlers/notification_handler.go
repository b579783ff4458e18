package handlers

import (
	"net/http"

	"github.com/anonto42/pixora/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/grouped", h.GetGroupedNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// GetNotifications returns paginated notifications newest first. Viewing the list marks
// them all read, along with the caller's answered reports.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	page, limit := pageParams(c, 20)

	result, err := h.notificationService.List(c.Request().Context(), currentUserID, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": result.Notifications,
		},
		"meta": pageMeta(result.Page, result.Limit, result.Total),
	})
}

// GetGroupedNotifications returns notifications grouped by time period
func (h *NotificationHandler) GetGroupedNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	ctx := c.Request().Context()

	groups, err := h.notificationService.Grouped(ctx, currentUserID)
	if err != nil {
		return err
	}

	unreadCount, err := h.notificationService.UnreadCount(ctx, currentUserID)
	if err != nil {
		return err
	}

	return success(c, http.StatusOK, echo.Map{
		"notifications": groups,
		"unreadCount":   unreadCount,
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.notificationService.UnreadCount(c.Request().Context(), currentUserID)
	if err != nil {
		return err
	}

	return success(c, http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks a notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notifID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.notificationService.MarkAsRead(c.Request().Context(), currentUserID, notifID); err != nil {
		return err
	}

	return success(c, http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	updated, err := h.notificationService.MarkAllAsRead(c.Request().Context(), currentUserID)
	if err != nil {
		return err
	}

	return success(c, http.StatusOK, echo.Map{"success": true, "updated": updated})
}
