package repository

import (
	"time"

	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
	"gorm.io/gorm"
)

type EditTokenRepository interface {
	Create(token *model.EditToken) error
	FindByToken(token string) (*model.EditToken, error)
	FindByID(id uint) (*model.EditToken, error)
	FindByStoreID(storeID uint) ([]model.EditToken, error)
	Update(token *model.EditToken) error
	Revoke(id uint) error
	FindExpiredActive(now time.Time) ([]model.EditToken, error)
	RevokeExpired(now time.Time) (int64, error)
	TouchLastUsed(id uint, usedAt time.Time) error
}

type editTokenRepository struct {
	db *gorm.DB
}

func NewEditTokenRepository(db *gorm.DB) EditTokenRepository {
	return &editTokenRepository{db: db}
}

func (r *editTokenRepository) Create(token *model.EditToken) error {
	logger.Debug("Creating edit token in database", map[string]interface{}{
		"store_id":   token.StoreID,
		"expires_at": token.ExpiresAt,
	})

	if err := r.db.Create(token).Error; err != nil {
		logger.Error("Failed to create edit token in database", err, map[string]interface{}{
			"store_id": token.StoreID,
		})
		return err
	}

	logger.Debug("Edit token created in database", map[string]interface{}{
		"token_id": token.ID,
		"store_id": token.StoreID,
	})
	return nil
}

func (r *editTokenRepository) FindByToken(token string) (*model.EditToken, error) {
	// トークン文字列はログに出さない
	var editToken model.EditToken
	if err := r.db.Preload("Store").Where("token = ?", token).First(&editToken).Error; err != nil {
		logger.Error("Failed to find edit token in database", err, nil)
		return nil, err
	}
	return &editToken, nil
}

func (r *editTokenRepository) FindByID(id uint) (*model.EditToken, error) {
	var editToken model.EditToken
	if err := r.db.Preload("Store").First(&editToken, id).Error; err != nil {
		return nil, err
	}
	return &editToken, nil
}

func (r *editTokenRepository) FindByStoreID(storeID uint) ([]model.EditToken, error) {
	var tokens []model.EditToken
	if err := r.db.Where("store_id = ?", storeID).
		Order("created_at DESC").Find(&tokens).Error; err != nil {
		logger.Error("Failed to find edit tokens by store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return tokens, nil
}

func (r *editTokenRepository) Update(token *model.EditToken) error {
	if err := r.db.Save(token).Error; err != nil {
		logger.Error("Failed to update edit token in database", err, map[string]interface{}{
			"token_id": token.ID,
		})
		return err
	}
	return nil
}

func (r *editTokenRepository) Revoke(id uint) error {
	logger.Debug("Revoking edit token", map[string]interface{}{
		"token_id": id,
	})

	if err := r.db.Model(&model.EditToken{}).Where("id = ?", id).
		Update("revoked", true).Error; err != nil {
		logger.Error("Failed to revoke edit token", err, map[string]interface{}{
			"token_id": id,
		})
		return err
	}
	return nil
}

// FindExpiredActive 期限切れだが未失効のトークンを返す (失効前の通知用)
func (r *editTokenRepository) FindExpiredActive(now time.Time) ([]model.EditToken, error) {
	var tokens []model.EditToken
	if err := r.db.Preload("Store").
		Where("revoked = ? AND expires_at < ?", false, now).
		Find(&tokens).Error; err != nil {
		logger.Error("Failed to find expired edit tokens", err, nil)
		return nil, err
	}
	return tokens, nil
}

// RevokeExpired 期限切れトークンを一括失効する (夜間スイープ)
func (r *editTokenRepository) RevokeExpired(now time.Time) (int64, error) {
	result := r.db.Model(&model.EditToken{}).
		Where("revoked = ? AND expires_at < ?", false, now).
		Update("revoked", true)
	if result.Error != nil {
		logger.Error("Failed to revoke expired edit tokens", result.Error, nil)
		return 0, result.Error
	}

	logger.Debug("Expired edit tokens revoked", map[string]interface{}{
		"count": result.RowsAffected,
	})
	return result.RowsAffected, nil
}

func (r *editTokenRepository) TouchLastUsed(id uint, usedAt time.Time) error {
	return r.db.Model(&model.EditToken{}).Where("id = ?", id).
		Update("last_used_at", usedAt).Error
}
