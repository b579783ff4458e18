package handlers

import (
	"net/http"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/services"
	"github.com/labstack/echo/v4"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterReportRoutes registers the reporting route and the staff moderation routes
func (h *ReportHandler) RegisterReportRoutes(g *echo.Group) {
	g.POST("/posts/:id/report", h.ReportPost)
	g.GET("/posts/:id/reports", h.GetPostReports)
	g.GET("/admin/reports", h.GetOpenReports)
	g.POST("/admin/reports/:id/reply", h.ReplyReport)
}

func (h *ReportHandler) ReportPost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.CreateReportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.reportService.CreateReport(c.Request().Context(), services.CreateReportInput{
		UserID: currentUserID,
		PostID: postID,
		Reason: req.Reason,
	}); err != nil {
		return err
	}
	return success(c, http.StatusCreated, echo.Map{"status": services.ReportStatusReported})
}

func (h *ReportHandler) GetPostReports(c echo.Context) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	reports, err := h.reportService.ListForPost(c.Request().Context(), getUserIDFromContext(c), postID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"reports": reports})
}

func (h *ReportHandler) GetOpenReports(c echo.Context) error {
	page, limit := pageParams(c, 20)

	reports, err := h.reportService.ListOpen(c.Request().Context(), getUserIDFromContext(c), page, limit)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"reports": reports, "page": page, "limit": limit})
}

// ReplyReport answers a report once and notifies the reporter
func (h *ReportHandler) ReplyReport(c echo.Context) error {
	reportID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.ReplyReportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	report, err := h.reportService.ReplyReport(c.Request().Context(), services.ReplyReportInput{
		AdminID:  getUserIDFromContext(c),
		ReportID: reportID,
		Reply:    req.Reply,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, report)
}
