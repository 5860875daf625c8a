package repository

import (
	"time"

	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
	"gorm.io/gorm"
)

type EditRequestFilter struct {
	Status             string // 申請ステータス
	VerificationStatus string // 書類確認ステータス
	Search             string // 店舗名・申請者名の部分一致
	StoreID            *uint
	Limit              int
	Offset             int
}

type EditRequestRepository interface {
	Create(request *model.StoreEditRequest) error
	FindByID(id uint) (*model.StoreEditRequest, error)
	FindAll(filter EditRequestFilter) ([]model.StoreEditRequest, int64, error)
	Update(request *model.StoreEditRequest) error
	Delete(id uint) error
	DeleteRejectedBefore(cutoff time.Time) (int64, error)
}

type editRequestRepository struct {
	db *gorm.DB
}

func NewEditRequestRepository(db *gorm.DB) EditRequestRepository {
	return &editRequestRepository{db: db}
}

func (r *editRequestRepository) Create(request *model.StoreEditRequest) error {
	logger.Debug("Creating store edit request in database", map[string]interface{}{
		"store_name":      request.StoreName,
		"applicant_email": request.ApplicantEmail,
	})

	if err := r.db.Create(request).Error; err != nil {
		logger.Error("Failed to create store edit request in database", err, map[string]interface{}{
			"store_name": request.StoreName,
		})
		return err
	}

	logger.Debug("Store edit request created in database", map[string]interface{}{
		"request_id": request.ID,
	})
	return nil
}

func (r *editRequestRepository) FindByID(id uint) (*model.StoreEditRequest, error) {
	logger.Debug("Finding store edit request by ID", map[string]interface{}{
		"request_id": id,
	})

	var request model.StoreEditRequest
	if err := r.db.Preload("Store").First(&request, id).Error; err != nil {
		logger.Error("Failed to find store edit request", err, map[string]interface{}{
			"request_id": id,
		})
		return nil, err
	}

	return &request, nil
}

func (r *editRequestRepository) FindAll(filter EditRequestFilter) ([]model.StoreEditRequest, int64, error) {
	logger.Debug("Finding store edit requests", map[string]interface{}{
		"status":              filter.Status,
		"verification_status": filter.VerificationStatus,
		"search":              filter.Search,
	})

	query := r.db.Model(&model.StoreEditRequest{}).Preload("Store")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.VerificationStatus != "" {
		query = query.Where("verification_status = ?", filter.VerificationStatus)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("store_name LIKE ? OR applicant_name LIKE ?", like, like)
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

	var requests []model.StoreEditRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		logger.Error("Failed to find store edit requests", err, nil)
		return nil, 0, err
	}

	logger.Debug("Store edit requests found", map[string]interface{}{
		"count": len(requests),
		"total": total,
	})
	return requests, total, nil
}

func (r *editRequestRepository) Update(request *model.StoreEditRequest) error {
	logger.Debug("Updating store edit request in database", map[string]interface{}{
		"request_id": request.ID,
		"status":     request.Status,
	})

	if err := r.db.Save(request).Error; err != nil {
		logger.Error("Failed to update store edit request in database", err, map[string]interface{}{
			"request_id": request.ID,
		})
		return err
	}

	return nil
}

func (r *editRequestRepository) Delete(id uint) error {
	logger.Debug("Deleting store edit request from database", map[string]interface{}{
		"request_id": id,
	})

	if err := r.db.Delete(&model.StoreEditRequest{}, id).Error; err != nil {
		logger.Error("Failed to delete store edit request from database", err, map[string]interface{}{
			"request_id": id,
		})
		return err
	}

	return nil
}

// DeleteRejectedBefore 却下から一定期間が過ぎた申請を個人情報ごと削除する
func (r *editRequestRepository) DeleteRejectedBefore(cutoff time.Time) (int64, error) {
	result := r.db.Unscoped().
		Where("status = ? AND updated_at < ?", model.RequestStatusRejected, cutoff).
		Delete(&model.StoreEditRequest{})
	if result.Error != nil {
		logger.Error("Failed to purge rejected edit requests", result.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, result.Error
	}

	logger.Debug("Rejected edit requests purged", map[string]interface{}{
		"count":  result.RowsAffected,
		"cutoff": cutoff,
	})
	return result.RowsAffected, nil
}
