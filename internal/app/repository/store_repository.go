package repository

import (
	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreFilter struct {
	Search      string // 店舗名・カナの部分一致
	GenreID     *uint
	StationID   *uint
	PlanID      *uint
	Recruitment *model.RecruitmentStatus
	ActiveOnly  bool
	Limit       int
	Offset      int
}

type StoreRepository interface {
	Create(store *model.Store) error
	BulkCreate(stores []model.Store) error
	Update(store *model.Store) error
	Delete(id uint) error
	FindAll(filter StoreFilter) ([]model.Store, int64, error)
	FindAllActive() ([]model.Store, error)
	FindByID(id uint) (*model.Store, error)
	FindByPhoneNumber(phone string) (*model.Store, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name":     store.Name,
		"genre_id": store.GenreID,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name": store.Name,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})
	return nil
}

func (r *storeRepository) BulkCreate(stores []model.Store) error {
	if len(stores) == 0 {
		return nil
	}

	logger.Debug("Bulk creating stores in database", map[string]interface{}{
		"count": len(stores),
	})

	if err := r.db.CreateInBatches(stores, 100).Error; err != nil {
		logger.Error("Failed to bulk create stores in database", err, map[string]interface{}{
			"count": len(stores),
		})
		return err
	}

	return nil
}

func (r *storeRepository) Update(store *model.Store) error {
	logger.Debug("Updating store in database", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})

	if err := r.db.Save(store).Error; err != nil {
		logger.Error("Failed to update store in database", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return err
	}

	return nil
}

func (r *storeRepository) Delete(id uint) error {
	logger.Debug("Deleting store from database", map[string]interface{}{
		"store_id": id,
	})

	if err := r.db.Delete(&model.Store{}, id).Error; err != nil {
		logger.Error("Failed to delete store from database", err, map[string]interface{}{
			"store_id": id,
		})
		return err
	}

	return nil
}

func (r *storeRepository) FindAll(filter StoreFilter) ([]model.Store, int64, error) {
	logger.Debug("Finding stores", map[string]interface{}{
		"search":     filter.Search,
		"genre_id":   filter.GenreID,
		"station_id": filter.StationID,
	})

	query := r.db.Model(&model.Store{}).
		Preload("Genre").
		Preload("Station.RailwayLine").
		Preload("Plan")

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR kana LIKE ?", like, like)
	}
	if filter.GenreID != nil {
		query = query.Where("genre_id = ?", *filter.GenreID)
	}
	if filter.StationID != nil {
		query = query.Where("station_id = ?", *filter.StationID)
	}
	if filter.PlanID != nil {
		query = query.Where("plan_id = ?", *filter.PlanID)
	}
	if filter.Recruitment != nil {
		query = query.Where("recruitment = ?", *filter.Recruitment)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
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

	var stores []model.Store
	if err := query.Order("name ASC").Find(&stores).Error; err != nil {
		logger.Error("Failed to find stores", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Stores found", map[string]interface{}{
		"count": len(stores),
		"total": total,
	})
	return stores, total, nil
}

// FindAllActive 照合候補プール用に掲載中の全店舗を返す
func (r *storeRepository) FindAllActive() ([]model.Store, error) {
	var stores []model.Store
	err := r.db.
		Preload("Genre").
		Where("is_active = ?", true).
		Find(&stores).Error
	if err != nil {
		logger.Error("Failed to find active stores", err)
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) FindByID(id uint) (*model.Store, error) {
	logger.Debug("Finding store by ID", map[string]interface{}{
		"store_id": id,
	})

	var store model.Store
	err := r.db.
		Preload("Genre").
		Preload("Station.RailwayLine").
		Preload("Plan").
		First(&store, id).Error
	if err != nil {
		logger.Error("Failed to find store", err, map[string]interface{}{
			"store_id": id,
		})
		return nil, err
	}

	return &store, nil
}

func (r *storeRepository) FindByPhoneNumber(phone string) (*model.Store, error) {
	var store model.Store
	if err := r.db.Where("phone_number = ?", phone).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}
