package repository

import (
	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
	"gorm.io/gorm"
)

// MasterRepository ジャンル・路線・駅・プランのマスタデータ操作
type MasterRepository interface {
	// Genre operations
	CreateGenre(genre *model.Genre) error
	FindGenres() ([]model.Genre, error)
	FindGenreByID(id uint) (*model.Genre, error)
	FindGenreByName(name string) (*model.Genre, error)
	UpdateGenre(genre *model.Genre) error
	DeleteGenre(id uint) error

	// RailwayLine operations
	CreateRailwayLine(line *model.RailwayLine) error
	FindRailwayLines(withStations bool) ([]model.RailwayLine, error)
	FindRailwayLineByID(id uint) (*model.RailwayLine, error)
	UpdateRailwayLine(line *model.RailwayLine) error
	DeleteRailwayLine(id uint) error

	// Station operations
	CreateStation(station *model.Station) error
	FindStations(railwayLineID *uint) ([]model.Station, error)
	FindStationByID(id uint) (*model.Station, error)
	UpdateStation(station *model.Station) error
	DeleteStation(id uint) error

	// Plan operations
	CreatePlan(plan *model.Plan) error
	FindPlans() ([]model.Plan, error)
	FindPlanByID(id uint) (*model.Plan, error)
	FindPlanByCode(code string) (*model.Plan, error)
	UpdatePlan(plan *model.Plan) error
	DeletePlan(id uint) error

	// Utility operations
	CountStoresByGenre(genreID uint) (int64, error)
	CountStoresByStation(stationID uint) (int64, error)
	CountStoresByPlan(planID uint) (int64, error)
}

type masterRepository struct {
	db *gorm.DB
}

func NewMasterRepository(db *gorm.DB) MasterRepository {
	return &masterRepository{db: db}
}

// CreateGenre ジャンル作成
func (r *masterRepository) CreateGenre(genre *model.Genre) error {
	if err := r.db.Create(genre).Error; err != nil {
		logger.Error("Failed to create genre", err, map[string]interface{}{
			"name": genre.Name,
		})
		return err
	}
	return nil
}

// FindGenres ジャンル一覧取得
func (r *masterRepository) FindGenres() ([]model.Genre, error) {
	var genres []model.Genre
	if err := r.db.Order("sort_order ASC, id ASC").Find(&genres).Error; err != nil {
		logger.Error("Failed to find genres", err)
		return nil, err
	}
	return genres, nil
}

// FindGenreByID ジャンルID検索
func (r *masterRepository) FindGenreByID(id uint) (*model.Genre, error) {
	var genre model.Genre
	if err := r.db.First(&genre, id).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// FindGenreByName ジャンル名で検索 (申請のジャンル自由入力の解決に使用)
func (r *masterRepository) FindGenreByName(name string) (*model.Genre, error) {
	var genre model.Genre
	if err := r.db.Where("name = ?", name).First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// UpdateGenre ジャンル更新
func (r *masterRepository) UpdateGenre(genre *model.Genre) error {
	if err := r.db.Save(genre).Error; err != nil {
		logger.Error("Failed to update genre", err, map[string]interface{}{
			"genre_id": genre.ID,
		})
		return err
	}
	return nil
}

// DeleteGenre ジャンル削除
func (r *masterRepository) DeleteGenre(id uint) error {
	if err := r.db.Delete(&model.Genre{}, id).Error; err != nil {
		logger.Error("Failed to delete genre", err, map[string]interface{}{
			"genre_id": id,
		})
		return err
	}
	return nil
}

// CreateRailwayLine 路線作成
func (r *masterRepository) CreateRailwayLine(line *model.RailwayLine) error {
	if err := r.db.Create(line).Error; err != nil {
		logger.Error("Failed to create railway line", err, map[string]interface{}{
			"name": line.Name,
		})
		return err
	}
	return nil
}

// FindRailwayLines 路線一覧取得
func (r *masterRepository) FindRailwayLines(withStations bool) ([]model.RailwayLine, error) {
	query := r.db.Model(&model.RailwayLine{})
	if withStations {
		query = query.Preload("Stations", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		})
	}

	var lines []model.RailwayLine
	if err := query.Order("sort_order ASC, id ASC").Find(&lines).Error; err != nil {
		logger.Error("Failed to find railway lines", err)
		return nil, err
	}
	return lines, nil
}

// FindRailwayLineByID 路線ID検索
func (r *masterRepository) FindRailwayLineByID(id uint) (*model.RailwayLine, error) {
	var line model.RailwayLine
	if err := r.db.Preload("Stations").First(&line, id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// UpdateRailwayLine 路線更新
func (r *masterRepository) UpdateRailwayLine(line *model.RailwayLine) error {
	if err := r.db.Save(line).Error; err != nil {
		logger.Error("Failed to update railway line", err, map[string]interface{}{
			"line_id": line.ID,
		})
		return err
	}
	return nil
}

// DeleteRailwayLine 路線削除 (所属駅も削除)
func (r *masterRepository) DeleteRailwayLine(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("railway_line_id = ?", id).Delete(&model.Station{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.RailwayLine{}, id).Error
	})
}

// CreateStation 駅作成
func (r *masterRepository) CreateStation(station *model.Station) error {
	if err := r.db.Create(station).Error; err != nil {
		logger.Error("Failed to create station", err, map[string]interface{}{
			"name":    station.Name,
			"line_id": station.RailwayLineID,
		})
		return err
	}
	return nil
}

// FindStations 駅一覧取得 (路線IDで絞り込み可)
func (r *masterRepository) FindStations(railwayLineID *uint) ([]model.Station, error) {
	query := r.db.Model(&model.Station{}).Preload("RailwayLine")
	if railwayLineID != nil {
		query = query.Where("railway_line_id = ?", *railwayLineID)
	}

	var stations []model.Station
	if err := query.Order("railway_line_id ASC, sort_order ASC, id ASC").Find(&stations).Error; err != nil {
		logger.Error("Failed to find stations", err)
		return nil, err
	}
	return stations, nil
}

// FindStationByID 駅ID検索
func (r *masterRepository) FindStationByID(id uint) (*model.Station, error) {
	var station model.Station
	if err := r.db.Preload("RailwayLine").First(&station, id).Error; err != nil {
		return nil, err
	}
	return &station, nil
}

// UpdateStation 駅更新
func (r *masterRepository) UpdateStation(station *model.Station) error {
	if err := r.db.Save(station).Error; err != nil {
		logger.Error("Failed to update station", err, map[string]interface{}{
			"station_id": station.ID,
		})
		return err
	}
	return nil
}

// DeleteStation 駅削除
func (r *masterRepository) DeleteStation(id uint) error {
	if err := r.db.Delete(&model.Station{}, id).Error; err != nil {
		logger.Error("Failed to delete station", err, map[string]interface{}{
			"station_id": id,
		})
		return err
	}
	return nil
}

// CreatePlan プラン作成
func (r *masterRepository) CreatePlan(plan *model.Plan) error {
	if err := r.db.Create(plan).Error; err != nil {
		logger.Error("Failed to create plan", err, map[string]interface{}{
			"code": plan.Code,
		})
		return err
	}
	return nil
}

// FindPlans プラン一覧取得
func (r *masterRepository) FindPlans() ([]model.Plan, error) {
	var plans []model.Plan
	if err := r.db.Order("monthly_fee ASC, id ASC").Find(&plans).Error; err != nil {
		logger.Error("Failed to find plans", err)
		return nil, err
	}
	return plans, nil
}

// FindPlanByID プランID検索
func (r *masterRepository) FindPlanByID(id uint) (*model.Plan, error) {
	var plan model.Plan
	if err := r.db.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// FindPlanByCode プランコード検索
func (r *masterRepository) FindPlanByCode(code string) (*model.Plan, error) {
	var plan model.Plan
	if err := r.db.Where("code = ?", code).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// UpdatePlan プラン更新
func (r *masterRepository) UpdatePlan(plan *model.Plan) error {
	if err := r.db.Save(plan).Error; err != nil {
		logger.Error("Failed to update plan", err, map[string]interface{}{
			"plan_id": plan.ID,
		})
		return err
	}
	return nil
}

// DeletePlan プラン削除
func (r *masterRepository) DeletePlan(id uint) error {
	if err := r.db.Delete(&model.Plan{}, id).Error; err != nil {
		logger.Error("Failed to delete plan", err, map[string]interface{}{
			"plan_id": id,
		})
		return err
	}
	return nil
}

// CountStoresByGenre ジャンルを参照している店舗数 (削除前の利用チェック)
func (r *masterRepository) CountStoresByGenre(genreID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Store{}).Where("genre_id = ?", genreID).Count(&count).Error
	return count, err
}

// CountStoresByStation 駅を参照している店舗数
func (r *masterRepository) CountStoresByStation(stationID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Store{}).Where("station_id = ?", stationID).Count(&count).Error
	return count, err
}

// CountStoresByPlan プランを参照している店舗数
func (r *masterRepository) CountStoresByPlan(planID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Store{}).Where("plan_id = ?", planID).Count(&count).Error
	return count, err
}
