package service

import (
	"errors"
	"time"

	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/app/repository"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound       = errors.New("通報が見つかりません")
	ErrReportAlreadyHandled = errors.New("この通報は対応済みです")
)

// ReviewReportInput レビュー通報の受付入力 (公開フォームから)
type ReviewReportInput struct {
	StoreID       uint   `json:"store_id" binding:"required"`
	ReviewAuthor  string `json:"review_author"`
	ReviewBody    string `json:"review_body" binding:"required"`
	ReviewRating  int    `json:"review_rating"`
	ReporterEmail string `json:"reporter_email"`
	Reason        string `json:"reason" binding:"required"`
}

type ReviewReportService interface {
	CreateReport(input ReviewReportInput) (*model.ReviewReport, error)
	ListReports(filter repository.ReviewReportFilter) ([]model.ReviewReport, int64, error)
	GetReport(id uint) (*model.ReviewReport, error)
	AcceptReport(id, adminID uint) (*model.ReviewReport, error)
	DismissReport(id, adminID uint) (*model.ReviewReport, error)
	CountPending() (int64, error)
}

type reviewReportService struct {
	reportRepo    repository.ReviewReportRepository
	storeRepo     repository.StoreRepository
	notifications NotificationService
}

func NewReviewReportService(
	reportRepo repository.ReviewReportRepository,
	storeRepo repository.StoreRepository,
	notifications NotificationService,
) ReviewReportService {
	return &reviewReportService{
		reportRepo:    reportRepo,
		storeRepo:     storeRepo,
		notifications: notifications,
	}
}

func (s *reviewReportService) CreateReport(input ReviewReportInput) (*model.ReviewReport, error) {
	logger.Info("Creating review report", map[string]interface{}{
		"store_id": input.StoreID,
	})

	if _, err := s.storeRepo.FindByID(input.StoreID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	report := &model.ReviewReport{
		StoreID:       input.StoreID,
		ReviewAuthor:  input.ReviewAuthor,
		ReviewBody:    input.ReviewBody,
		ReviewRating:  input.ReviewRating,
		ReporterEmail: input.ReporterEmail,
		Reason:        input.Reason,
		Status:        model.ReportStatusPending,
	}

	if err := s.reportRepo.Create(report); err != nil {
		return nil, err
	}

	if err := s.notifications.NotifyNewReviewReport(report); err != nil {
		logger.Warn("Failed to notify admins of new report", map[string]interface{}{
			"report_id": report.ID,
			"error":     err.Error(),
		})
	}

	logger.Info("Review report created", map[string]interface{}{
		"report_id": report.ID,
	})
	return report, nil
}

func (s *reviewReportService) ListReports(filter repository.ReviewReportFilter) ([]model.ReviewReport, int64, error) {
	return s.reportRepo.FindAll(filter)
}

func (s *reviewReportService) GetReport(id uint) (*model.ReviewReport, error) {
	report, err := s.reportRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

// AcceptReport 通報を認めて対応済みにする
func (s *reviewReportService) AcceptReport(id, adminID uint) (*model.ReviewReport, error) {
	return s.handle(id, adminID, model.ReportStatusAccepted)
}

// DismissReport 通報を棄却する
func (s *reviewReportService) DismissReport(id, adminID uint) (*model.ReviewReport, error) {
	return s.handle(id, adminID, model.ReportStatusDismissed)
}

func (s *reviewReportService) handle(id, adminID uint, status string) (*model.ReviewReport, error) {
	report, err := s.GetReport(id)
	if err != nil {
		return nil, err
	}

	if report.Status != model.ReportStatusPending {
		logger.Warn("Report already handled", map[string]interface{}{
			"report_id": id,
			"status":    report.Status,
		})
		return nil, ErrReportAlreadyHandled
	}

	now := time.Now()
	report.Status = status
	report.HandledBy = &adminID
	report.HandledAt = &now

	if err := s.reportRepo.Update(report); err != nil {
		return nil, err
	}

	logger.Info("Review report handled", map[string]interface{}{
		"report_id": id,
		"status":    status,
		"admin_id":  adminID,
	})
	return report, nil
}

func (s *reviewReportService) CountPending() (int64, error) {
	return s.reportRepo.CountPending()
}
