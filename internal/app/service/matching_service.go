package service

import (
	"errors"

	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/app/repository"
	"github.com/stakahashi/machinavi-backend/internal/matching"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrStoreConflict = errors.New("店舗情報が他の操作で更新されています。再読み込みしてやり直してください")
)

type MatchingService interface {
	GetCandidates(requestID uint) ([]matching.Candidate, error)
	ConfirmMatch(requestID, storeID uint, applyChanges bool) (*model.Store, error)
}

type matchingService struct {
	db          *gorm.DB
	requestRepo repository.EditRequestRepository
	storeRepo   repository.StoreRepository
	masterRepo  repository.MasterRepository
}

func NewMatchingService(
	db *gorm.DB,
	requestRepo repository.EditRequestRepository,
	storeRepo repository.StoreRepository,
	masterRepo repository.MasterRepository,
) MatchingService {
	return &matchingService{
		db:          db,
		requestRepo: requestRepo,
		storeRepo:   storeRepo,
		masterRepo:  masterRepo,
	}
}

// GetCandidates 申請内容と既存店舗の照合候補をスコア降順で返す
// 候補が1件もなくてもエラーにはしない (新規店舗の申請はそれが正常)
func (s *matchingService) GetCandidates(requestID uint) ([]matching.Candidate, error) {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	stores, err := s.storeRepo.FindAllActive()
	if err != nil {
		return nil, err
	}

	candidates := matching.Match(request, stores, matching.DefaultMinScore, matching.DefaultLimit)

	logger.Info("Match candidates computed", map[string]interface{}{
		"request_id":      requestID,
		"store_pool":      len(stores),
		"candidate_count": len(candidates),
	})
	return candidates, nil
}

// ConfirmMatch 申請と店舗の紐付けを確定する
// 1トランザクションで申請のstore_id設定と店舗への反映を行い、
// 店舗側はlock_versionによる楽観ロックで同時更新を検出する
func (s *matchingService) ConfirmMatch(requestID, storeID uint, applyChanges bool) (*model.Store, error) {
	logger.Info("Confirming match", map[string]interface{}{
		"request_id":    requestID,
		"store_id":      storeID,
		"apply_changes": applyChanges,
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var request model.StoreEditRequest
	if err := tx.First(&request, requestID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	// 却下済み・承認済みの申請は紐付け直せない
	if request.Status == model.RequestStatusRejected || request.Status == model.RequestStatusApproved {
		tx.Rollback()
		return nil, ErrInvalidTransition
	}

	var store model.Store
	if err := tx.First(&store, storeID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	if applyChanges {
		updates := s.buildStoreUpdates(tx, &request, &store)

		// 楽観ロック: 読み取り時のlock_versionと一致する場合のみ更新
		result := tx.Model(&model.Store{}).
			Where("id = ? AND lock_version = ?", store.ID, store.LockVersion).
			Updates(updates)
		if result.Error != nil {
			tx.Rollback()
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			logger.Warn("Optimistic lock conflict on confirm match", map[string]interface{}{
				"request_id":   requestID,
				"store_id":     storeID,
				"lock_version": store.LockVersion,
			})
			return nil, ErrStoreConflict
		}
	}

	if err := tx.Model(&model.StoreEditRequest{}).
		Where("id = ?", request.ID).
		Update("store_id", storeID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	logger.Info("Match confirmed", map[string]interface{}{
		"request_id": requestID,
		"store_id":   storeID,
	})
	return s.storeRepo.FindByID(storeID)
}

// buildStoreUpdates 申請の非空フィールドのみを店舗に反映する更新セットを作る
// 申請側が空のフィールドは店舗の既存値を保持する
func (s *matchingService) buildStoreUpdates(tx *gorm.DB, request *model.StoreEditRequest, store *model.Store) map[string]interface{} {
	updates := map[string]interface{}{
		"lock_version": store.LockVersion + 1,
	}

	if request.StoreName != "" {
		updates["name"] = request.StoreName
	}
	if request.StoreKana != "" {
		updates["kana"] = request.StoreKana
	}
	if request.Address != "" {
		updates["address"] = request.Address
	}
	if request.PhoneNumber != "" {
		updates["phone_number"] = request.PhoneNumber
	}
	if request.GenreName != "" {
		// ジャンル名がマスタに一致する場合のみ反映 (自由入力のため)
		var genre model.Genre
		if err := tx.Where("name = ?", request.GenreName).First(&genre).Error; err == nil {
			updates["genre_id"] = genre.ID
		}
	}

	return updates
}
