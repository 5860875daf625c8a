package repository

import (
	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewReportFilter struct {
	Status  string
	StoreID *uint
	Limit   int
	Offset  int
}

type ReviewReportRepository interface {
	Create(report *model.ReviewReport) error
	FindByID(id uint) (*model.ReviewReport, error)
	FindAll(filter ReviewReportFilter) ([]model.ReviewReport, int64, error)
	Update(report *model.ReviewReport) error
	CountPending() (int64, error)
}

type reviewReportRepository struct {
	db *gorm.DB
}

func NewReviewReportRepository(db *gorm.DB) ReviewReportRepository {
	return &reviewReportRepository{db: db}
}

func (r *reviewReportRepository) Create(report *model.ReviewReport) error {
	logger.Debug("Creating review report in database", map[string]interface{}{
		"store_id": report.StoreID,
	})

	if err := r.db.Create(report).Error; err != nil {
		logger.Error("Failed to create review report in database", err, map[string]interface{}{
			"store_id": report.StoreID,
		})
		return err
	}

	logger.Debug("Review report created in database", map[string]interface{}{
		"report_id": report.ID,
	})
	return nil
}

func (r *reviewReportRepository) FindByID(id uint) (*model.ReviewReport, error) {
	var report model.ReviewReport
	if err := r.db.Preload("Store").First(&report, id).Error; err != nil {
		logger.Error("Failed to find review report", err, map[string]interface{}{
			"report_id": id,
		})
		return nil, err
	}
	return &report, nil
}

func (r *reviewReportRepository) FindAll(filter ReviewReportFilter) ([]model.ReviewReport, int64, error) {
	query := r.db.Model(&model.ReviewReport{}).Preload("Store")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var reports []model.ReviewReport
	if err := query.Order("created_at DESC").Find(&reports).Error; err != nil {
		logger.Error("Failed to find review reports", err, nil)
		return nil, 0, err
	}

	return reports, total, nil
}

func (r *reviewReportRepository) Update(report *model.ReviewReport) error {
	logger.Debug("Updating review report in database", map[string]interface{}{
		"report_id": report.ID,
		"status":    report.Status,
	})

	if err := r.db.Save(report).Error; err != nil {
		logger.Error("Failed to update review report in database", err, map[string]interface{}{
			"report_id": report.ID,
		})
		return err
	}

	return nil
}

func (r *reviewReportRepository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&model.ReviewReport{}).
		Where("status = ?", model.ReportStatusPending).
		Count(&count).Error
	return count, err
}
