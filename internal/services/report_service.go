package services

import (
	"context"
	"strings"

	"github.com/anonto42/pixora/backend/internal/cache"
	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/repositories"
)

// ReportStatusReported is the status returned once a report is filed
const ReportStatusReported = "reported"

type ReportService struct {
	store  *repositories.Store
	rules  *NotificationRules
	unread *cache.UnreadCounter
	now    Clock
}

type CreateReportInput struct {
	UserID uint
	PostID uint
	Reason string
}

type ReplyReportInput struct {
	AdminID  uint
	ReportID uint
	Reply    string
}

func NewReportService(store *repositories.Store, rules *NotificationRules, unread *cache.UnreadCounter, now Clock) *ReportService {
	if now == nil {
		now = SystemClock
	}
	return &ReportService{store: store, rules: rules, unread: unread, now: now}
}

// CreateReport files a report against a post. Nothing is visible to the reporter until an admin replies.
func (s *ReportService) CreateReport(ctx context.Context, in CreateReportInput) (*models.Report, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, models.NewValidationError("Reason is required")
	}
	if _, err := s.store.Users.GetUserByID(ctx, in.UserID); err != nil {
		return nil, lookupErr(err, "User", in.UserID)
	}
	if _, err := s.store.Posts.GetPostByID(ctx, in.PostID); err != nil {
		return nil, lookupErr(err, "Post", in.PostID)
	}

	report := &models.Report{
		PostID:       in.PostID,
		ReportedByID: in.UserID,
		Reason:       reason,
		CreatedAt:    s.now(),
	}
	if err := s.store.Reports.CreateReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// ReplyReport stores the admin answer once and notifies the reporter in the same transaction
func (s *ReportService) ReplyReport(ctx context.Context, in ReplyReportInput) (*models.Report, error) {
	reply := strings.TrimSpace(in.Reply)
	if reply == "" {
		return nil, models.NewValidationError("Reply is required")
	}
	if err := s.requireStaff(ctx, in.AdminID); err != nil {
		return nil, err
	}

	fx := &sideEffects{}
	var report *models.Report
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		report, err = tx.Reports.GetReportByID(ctx, in.ReportID)
		if err != nil {
			return lookupErr(err, "Report", in.ReportID)
		}
		ok, err := tx.Reports.SetReply(ctx, report.ID, reply, s.now())
		if err != nil {
			return err
		}
		if !ok {
			return models.NewConflictError("Report already has a reply")
		}
		if report, err = tx.Reports.GetReportByID(ctx, report.ID); err != nil {
			return err
		}
		return s.rules.OnReportReplied(ctx, tx, report, fx)
	})
	if err != nil {
		return nil, err
	}

	fx.flush(ctx, s.unread)
	return report, nil
}

// ListForPost returns every report on a post; staff only
func (s *ReportService) ListForPost(ctx context.Context, viewerID, postID uint) ([]models.Report, error) {
	if err := s.requireStaff(ctx, viewerID); err != nil {
		return nil, err
	}
	return s.store.Reports.GetReportsByPostID(ctx, postID)
}

// ListOpen returns unanswered reports, oldest first; staff only
func (s *ReportService) ListOpen(ctx context.Context, viewerID uint, page, limit int) ([]models.Report, error) {
	if err := s.requireStaff(ctx, viewerID); err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit)
	return s.store.Reports.GetOpenReports(ctx, (page-1)*limit, limit)
}

func (s *ReportService) requireStaff(ctx context.Context, userID uint) error {
	user, err := s.store.Users.GetUserByID(ctx, userID)
	if err != nil {
		return lookupErr(err, "User", userID)
	}
	if !user.IsStaff {
		return models.NewForbiddenError("Admin access required")
	}
	return nil
}
