package service

import (
	"errors"

	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/app/repository"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrRailwayLineNotFound = errors.New("路線が見つかりません")
	ErrMasterInUse         = errors.New("このマスタデータは店舗から参照されているため削除できません")
)

// GenreInput ジャンルの作成・更新入力
type GenreInput struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// RailwayLineInput 路線の作成・更新入力
type RailwayLineInput struct {
	Name      string `json:"name" binding:"required"`
	Company   string `json:"company"`
	SortOrder int    `json:"sort_order"`
}

// StationInput 駅の作成・更新入力
type StationInput struct {
	Name          string `json:"name" binding:"required"`
	RailwayLineID uint   `json:"railway_line_id" binding:"required"`
	SortOrder     int    `json:"sort_order"`
}

// PlanInput プランの作成・更新入力
type PlanInput struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	MonthlyFee  int    `json:"monthly_fee"`
	CanRecruit  bool   `json:"can_recruit"`
	PhotoLimit  int    `json:"photo_limit"`
	Description string `json:"description"`
}

type MasterService interface {
	// Genre operations
	ListGenres() ([]model.Genre, error)
	CreateGenre(input GenreInput) (*model.Genre, error)
	UpdateGenre(id uint, input GenreInput) (*model.Genre, error)
	DeleteGenre(id uint) error

	// RailwayLine operations
	ListRailwayLines(withStations bool) ([]model.RailwayLine, error)
	CreateRailwayLine(input RailwayLineInput) (*model.RailwayLine, error)
	UpdateRailwayLine(id uint, input RailwayLineInput) (*model.RailwayLine, error)
	DeleteRailwayLine(id uint) error

	// Station operations
	ListStations(railwayLineID *uint) ([]model.Station, error)
	CreateStation(input StationInput) (*model.Station, error)
	UpdateStation(id uint, input StationInput) (*model.Station, error)
	DeleteStation(id uint) error

	// Plan operations
	ListPlans() ([]model.Plan, error)
	CreatePlan(input PlanInput) (*model.Plan, error)
	UpdatePlan(id uint, input PlanInput) (*model.Plan, error)
	DeletePlan(id uint) error
}

type masterService struct {
	masterRepo repository.MasterRepository
}

func NewMasterService(masterRepo repository.MasterRepository) MasterService {
	return &masterService{masterRepo: masterRepo}
}

func (s *masterService) ListGenres() ([]model.Genre, error) {
	return s.masterRepo.FindGenres()
}

func (s *masterService) CreateGenre(input GenreInput) (*model.Genre, error) {
	genre := &model.Genre{
		Name:      input.Name,
		SortOrder: input.SortOrder,
	}
	if err := s.masterRepo.CreateGenre(genre); err != nil {
		return nil, err
	}

	logger.Info("Genre created", map[string]interface{}{
		"genre_id": genre.ID,
		"name":     genre.Name,
	})
	return genre, nil
}

func (s *masterService) UpdateGenre(id uint, input GenreInput) (*model.Genre, error) {
	genre, err := s.masterRepo.FindGenreByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}

	genre.Name = input.Name
	genre.SortOrder = input.SortOrder
	if err := s.masterRepo.UpdateGenre(genre); err != nil {
		return nil, err
	}
	return genre, nil
}

func (s *masterService) DeleteGenre(id uint) error {
	if _, err := s.masterRepo.FindGenreByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}

	// 参照中の店舗があれば削除不可
	count, err := s.masterRepo.CountStoresByGenre(id)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Warn("Genre deletion blocked: in use", map[string]interface{}{
			"genre_id":    id,
			"store_count": count,
		})
		return ErrMasterInUse
	}

	return s.masterRepo.DeleteGenre(id)
}

func (s *masterService) ListRailwayLines(withStations bool) ([]model.RailwayLine, error) {
	return s.masterRepo.FindRailwayLines(withStations)
}

func (s *masterService) CreateRailwayLine(input RailwayLineInput) (*model.RailwayLine, error) {
	line := &model.RailwayLine{
		Name:      input.Name,
		Company:   input.Company,
		SortOrder: input.SortOrder,
	}
	if err := s.masterRepo.CreateRailwayLine(line); err != nil {
		return nil, err
	}

	logger.Info("Railway line created", map[string]interface{}{
		"line_id": line.ID,
		"name":    line.Name,
	})
	return line, nil
}

func (s *masterService) UpdateRailwayLine(id uint, input RailwayLineInput) (*model.RailwayLine, error) {
	line, err := s.masterRepo.FindRailwayLineByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRailwayLineNotFound
		}
		return nil, err
	}

	line.Name = input.Name
	line.Company = input.Company
	line.SortOrder = input.SortOrder
	if err := s.masterRepo.UpdateRailwayLine(line); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *masterService) DeleteRailwayLine(id uint) error {
	line, err := s.masterRepo.FindRailwayLineByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRailwayLineNotFound
		}
		return err
	}

	// 所属駅を参照している店舗があれば削除不可
	for _, station := range line.Stations {
		count, err := s.masterRepo.CountStoresByStation(station.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Warn("Railway line deletion blocked: station in use", map[string]interface{}{
				"line_id":     id,
				"station_id":  station.ID,
				"store_count": count,
			})
			return ErrMasterInUse
		}
	}

	return s.masterRepo.DeleteRailwayLine(id)
}

func (s *masterService) ListStations(railwayLineID *uint) ([]model.Station, error) {
	return s.masterRepo.FindStations(railwayLineID)
}

func (s *masterService) CreateStation(input StationInput) (*model.Station, error) {
	if _, err := s.masterRepo.FindRailwayLineByID(input.RailwayLineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRailwayLineNotFound
		}
		return nil, err
	}

	station := &model.Station{
		Name:          input.Name,
		RailwayLineID: input.RailwayLineID,
		SortOrder:     input.SortOrder,
	}
	if err := s.masterRepo.CreateStation(station); err != nil {
		return nil, err
	}

	logger.Info("Station created", map[string]interface{}{
		"station_id": station.ID,
		"name":       station.Name,
	})
	return s.masterRepo.FindStationByID(station.ID)
}

func (s *masterService) UpdateStation(id uint, input StationInput) (*model.Station, error) {
	station, err := s.masterRepo.FindStationByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	if _, err := s.masterRepo.FindRailwayLineByID(input.RailwayLineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRailwayLineNotFound
		}
		return nil, err
	}

	station.Name = input.Name
	station.RailwayLineID = input.RailwayLineID
	station.SortOrder = input.SortOrder
	if err := s.masterRepo.UpdateStation(station); err != nil {
		return nil, err
	}
	return s.masterRepo.FindStationByID(station.ID)
}

func (s *masterService) DeleteStation(id uint) error {
	if _, err := s.masterRepo.FindStationByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStationNotFound
		}
		return err
	}

	count, err := s.masterRepo.CountStoresByStation(id)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Warn("Station deletion blocked: in use", map[string]interface{}{
			"station_id":  id,
			"store_count": count,
		})
		return ErrMasterInUse
	}

	return s.masterRepo.DeleteStation(id)
}

func (s *masterService) ListPlans() ([]model.Plan, error) {
	return s.masterRepo.FindPlans()
}

func (s *masterService) CreatePlan(input PlanInput) (*model.Plan, error) {
	plan := &model.Plan{
		Code:        input.Code,
		Name:        input.Name,
		MonthlyFee:  input.MonthlyFee,
		CanRecruit:  input.CanRecruit,
		PhotoLimit:  input.PhotoLimit,
		Description: input.Description,
	}
	if err := s.masterRepo.CreatePlan(plan); err != nil {
		return nil, err
	}

	logger.Info("Plan created", map[string]interface{}{
		"plan_id": plan.ID,
		"code":    plan.Code,
	})
	return plan, nil
}

func (s *masterService) UpdatePlan(id uint, input PlanInput) (*model.Plan, error) {
	plan, err := s.masterRepo.FindPlanByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	plan.Code = input.Code
	plan.Name = input.Name
	plan.MonthlyFee = input.MonthlyFee
	plan.CanRecruit = input.CanRecruit
	plan.PhotoLimit = input.PhotoLimit
	plan.Description = input.Description
	if err := s.masterRepo.UpdatePlan(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *masterService) DeletePlan(id uint) error {
	if _, err := s.masterRepo.FindPlanByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		return err
	}

	count, err := s.masterRepo.CountStoresByPlan(id)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Warn("Plan deletion blocked: in use", map[string]interface{}{
			"plan_id":     id,
			"store_count": count,
		})
		return ErrMasterInUse
	}

	return s.masterRepo.DeletePlan(id)
}
