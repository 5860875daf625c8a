package service

import (
	"errors"
	"fmt"

	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/app/repository"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrStoreNotFound     = errors.New("店舗が見つかりません")
	ErrGenreNotFound     = errors.New("ジャンルが見つかりません")
	ErrStationNotFound   = errors.New("駅が見つかりません")
	ErrPlanNotFound      = errors.New("プランが見つかりません")
	ErrPlanCannotRecruit = errors.New("現在のプランでは求人掲載ができません")
)

// StoreInput 店舗の作成・更新入力
type StoreInput struct {
	Name           string                   `json:"name" binding:"required"`
	Kana           string                   `json:"kana"`
	Address        string                   `json:"address"`
	PhoneNumber    string                   `json:"phone_number"`
	Description    string                   `json:"description"`
	ImageURL       string                   `json:"image_url"`
	OwnerEmail     string                   `json:"owner_email"`
	GenreID        *uint                    `json:"genre_id"`
	StationID      *uint                    `json:"station_id"`
	PlanID         *uint                    `json:"plan_id"`
	OpenTime       string                   `json:"open_time"`
	CloseTime      string                   `json:"close_time"`
	RegularHoliday string                   `json:"regular_holiday"`
	Recruitment    *model.RecruitmentStatus `json:"recruitment"`
	IsActive       *bool                    `json:"is_active"`
}

type StoreService interface {
	ListStores(filter repository.StoreFilter) ([]model.Store, int64, error)
	GetStore(id uint) (*model.Store, error)
	CreateStore(input StoreInput) (*model.Store, error)
	UpdateStore(id uint, input StoreInput) (*model.Store, error)
	DeactivateStore(id uint) (*model.Store, error)
	ActivateStore(id uint) (*model.Store, error)
	DeleteStore(id uint) error
	ExportStoresXLSX(filter repository.StoreFilter) (*excelize.File, error)
}

type storeService struct {
	storeRepo  repository.StoreRepository
	masterRepo repository.MasterRepository
}

func NewStoreService(storeRepo repository.StoreRepository, masterRepo repository.MasterRepository) StoreService {
	return &storeService{
		storeRepo:  storeRepo,
		masterRepo: masterRepo,
	}
}

func (s *storeService) ListStores(filter repository.StoreFilter) ([]model.Store, int64, error) {
	return s.storeRepo.FindAll(filter)
}

func (s *storeService) GetStore(id uint) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

func (s *storeService) CreateStore(input StoreInput) (*model.Store, error) {
	logger.Info("Creating store", map[string]interface{}{
		"name": input.Name,
	})

	if err := s.validateMasterRefs(input); err != nil {
		return nil, err
	}

	store := &model.Store{
		Name:           input.Name,
		Kana:           input.Kana,
		Address:        input.Address,
		PhoneNumber:    input.PhoneNumber,
		Description:    input.Description,
		ImageURL:       input.ImageURL,
		OwnerEmail:     input.OwnerEmail,
		GenreID:        input.GenreID,
		StationID:      input.StationID,
		PlanID:         input.PlanID,
		OpenTime:       input.OpenTime,
		CloseTime:      input.CloseTime,
		RegularHoliday: input.RegularHoliday,
		Recruitment:    model.RecruitmentClosed,
		IsActive:       true,
	}
	if input.Recruitment != nil {
		if err := s.validateRecruitment(*input.Recruitment, input.PlanID); err != nil {
			return nil, err
		}
		store.Recruitment = *input.Recruitment
	}
	if input.IsActive != nil {
		store.IsActive = *input.IsActive
	}

	if err := s.storeRepo.Create(store); err != nil {
		return nil, err
	}

	return s.storeRepo.FindByID(store.ID)
}

func (s *storeService) UpdateStore(id uint, input StoreInput) (*model.Store, error) {
	logger.Info("Updating store", map[string]interface{}{
		"store_id": id,
	})

	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	if err := s.validateMasterRefs(input); err != nil {
		return nil, err
	}

	store.Name = input.Name
	store.Kana = input.Kana
	store.Address = input.Address
	store.PhoneNumber = input.PhoneNumber
	store.Description = input.Description
	if input.ImageURL != "" {
		store.ImageURL = input.ImageURL
	}
	store.OwnerEmail = input.OwnerEmail
	store.GenreID = input.GenreID
	store.StationID = input.StationID
	store.PlanID = input.PlanID
	store.OpenTime = input.OpenTime
	store.CloseTime = input.CloseTime
	store.RegularHoliday = input.RegularHoliday
	if input.Recruitment != nil {
		if err := s.validateRecruitment(*input.Recruitment, input.PlanID); err != nil {
			return nil, err
		}
		store.Recruitment = *input.Recruitment
	}
	if input.IsActive != nil {
		store.IsActive = *input.IsActive
	}

	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}

	return s.storeRepo.FindByID(store.ID)
}

func (s *storeService) DeactivateStore(id uint) (*model.Store, error) {
	return s.setActive(id, false)
}

func (s *storeService) ActivateStore(id uint) (*model.Store, error) {
	return s.setActive(id, true)
}

func (s *storeService) setActive(id uint, active bool) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	store.IsActive = active
	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}

	logger.Info("Store active flag changed", map[string]interface{}{
		"store_id":  id,
		"is_active": active,
	})
	return store, nil
}

func (s *storeService) DeleteStore(id uint) error {
	if _, err := s.storeRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoreNotFound
		}
		return err
	}
	return s.storeRepo.Delete(id)
}

// ExportStoresXLSX 店舗一覧をXLSXに書き出す (管理画面のダウンロード用)
func (s *storeService) ExportStoresXLSX(filter repository.StoreFilter) (*excelize.File, error) {
	// ページネーションは無視して全件出力
	filter.Limit = 0
	filter.Offset = 0

	stores, _, err := s.storeRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"ID", "店舗名", "カナ", "住所", "電話番号", "ジャンル", "最寄り駅", "プラン", "求人", "掲載中"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for rowIdx, store := range stores {
		genreName := ""
		if store.Genre != nil {
			genreName = store.Genre.Name
		}
		stationName := ""
		if store.Station != nil {
			stationName = store.Station.Name
		}
		planName := ""
		if store.Plan != nil {
			planName = store.Plan.Name
		}

		values := []interface{}{
			store.ID,
			store.Name,
			store.Kana,
			store.Address,
			store.PhoneNumber,
			genreName,
			stationName,
			planName,
			string(store.Recruitment),
			store.IsActive,
		}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	logger.Info("Stores exported to XLSX", map[string]interface{}{
		"count": len(stores),
	})
	return f, nil
}

func (s *storeService) validateMasterRefs(input StoreInput) error {
	if input.GenreID != nil {
		if _, err := s.masterRepo.FindGenreByID(*input.GenreID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGenreNotFound
			}
			return err
		}
	}
	if input.StationID != nil {
		if _, err := s.masterRepo.FindStationByID(*input.StationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStationNotFound
			}
			return err
		}
	}
	if input.PlanID != nil {
		if _, err := s.masterRepo.FindPlanByID(*input.PlanID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlanNotFound
			}
			return err
		}
	}
	return nil
}

// validateRecruitment 求人募集の開始はプランの可否に従う
func (s *storeService) validateRecruitment(status model.RecruitmentStatus, planID *uint) error {
	if status != model.RecruitmentOpen {
		return nil
	}
	if planID == nil {
		return ErrPlanCannotRecruit
	}

	plan, err := s.masterRepo.FindPlanByID(*planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	if !plan.CanRecruit {
		return fmt.Errorf("%w: %s", ErrPlanCannotRecruit, plan.Name)
	}
	return nil
}
