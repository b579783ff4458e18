package repositories

import (
	"context"
	"time"

	"github.com/anonto42/pixora/backend/internal/models"
	"gorm.io/gorm"
)

// ReportRepository defines the interface for report data operations
type ReportRepository interface {
	CreateReport(ctx context.Context, report *models.Report) error
	GetReportByID(ctx context.Context, id uint) (*models.Report, error)
	GetReportsByPostID(ctx context.Context, postID uint) ([]models.Report, error)
	GetOpenReports(ctx context.Context, offset, limit int) ([]models.Report, error)
	SetReply(ctx context.Context, id uint, reply string, at time.Time) (bool, error)
	MarkRepliedAsRead(ctx context.Context, reporterID uint) (int64, error)
}

// PostgresReportRepository implements ReportRepository for PostgreSQL
type PostgresReportRepository struct {
	db *gorm.DB
}

// NewPostgresReportRepository creates a new PostgresReportRepository
func NewPostgresReportRepository(db *gorm.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

func (r *PostgresReportRepository) CreateReport(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Omit("Post", "ReportedBy").Create(report).Error
}

func (r *PostgresReportRepository) GetReportByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *PostgresReportRepository) GetReportsByPostID(ctx context.Context, postID uint) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).Preload("ReportedBy.Profile").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&reports).Error
	return reports, err
}

// GetOpenReports lists reports still waiting for an admin reply, oldest first
func (r *PostgresReportRepository) GetOpenReports(ctx context.Context, offset, limit int) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).Preload("ReportedBy.Profile").
		Where("reply IS NULL").
		Order("created_at ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&reports).Error
	return reports, err
}

// SetReply stores the admin answer. It returns false when the report already has one.
func (r *PostgresReportRepository) SetReply(ctx context.Context, id uint, reply string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ? AND reply IS NULL", id).
		Updates(map[string]interface{}{"reply": reply, "replied_at": at, "is_read": false})
	return res.RowsAffected > 0, res.Error
}

// MarkRepliedAsRead flips is_read on every answered report filed by reporterID
func (r *PostgresReportRepository) MarkRepliedAsRead(ctx context.Context, reporterID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("reported_by_id = ? AND reply IS NOT NULL AND is_read = ?", reporterID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
