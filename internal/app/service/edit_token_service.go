package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/app/repository"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
	"github.com/stakahashi/machinavi-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEditTokenNotFound = errors.New("編集トークンが見つかりません")
)

const tempPasswordLength = 12

// IssuedToken 発行結果
// 生トークンと一時パスワードは発行時のみ返し、DBには保存しない
type IssuedToken struct {
	Token        *model.EditToken
	RawToken     string
	TempPassword string // パスワードゲートなしの場合は空
}

type EditTokenService interface {
	IssueToken(storeID uint, ownerEmail string, passwordGated bool, expiry time.Duration, issuedBy *uint) (*IssuedToken, error)
	IssueTokenWithInvite(storeID uint, ownerEmail string, passwordGated bool, expiry time.Duration, issuedBy *uint, portalBaseURL string) (*IssuedToken, error)
	ListTokens(storeID uint) ([]model.EditToken, error)
	RevokeToken(id uint) error
	SweepExpired(now time.Time) (int64, error)
}

type editTokenService struct {
	tokenRepo     repository.EditTokenRepository
	storeRepo     repository.StoreRepository
	notifications NotificationService // nil可 (通知不要な文脈)
}

func NewEditTokenService(
	tokenRepo repository.EditTokenRepository,
	storeRepo repository.StoreRepository,
	notifications NotificationService,
) EditTokenService {
	return &editTokenService{
		tokenRepo:     tokenRepo,
		storeRepo:     storeRepo,
		notifications: notifications,
	}
}

// IssueToken 店舗の編集トークンを発行する
func (s *editTokenService) IssueToken(
	storeID uint,
	ownerEmail string,
	passwordGated bool,
	expiry time.Duration,
	issuedBy *uint,
) (*IssuedToken, error) {
	logger.Info("Issuing edit token", map[string]interface{}{
		"store_id":       storeID,
		"password_gated": passwordGated,
	})

	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	rawToken := uuid.NewString()

	token := &model.EditToken{
		Token:      rawToken,
		StoreID:    storeID,
		ExpiresAt:  time.Now().Add(expiry),
		OwnerEmail: ownerEmail,
		IssuedBy:   issuedBy,
	}

	tempPassword := ""
	if passwordGated {
		var err error
		tempPassword, err = util.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			logger.Error("Failed to generate temp password", err, nil)
			return nil, err
		}

		hash, err := util.HashPassword(tempPassword)
		if err != nil {
			logger.Error("Failed to hash temp password", err, nil)
			return nil, err
		}
		token.PasswordHash = hash
	}

	if err := s.tokenRepo.Create(token); err != nil {
		return nil, err
	}

	logger.Info("Edit token issued", map[string]interface{}{
		"token_id": token.ID,
		"store_id": storeID,
	})

	return &IssuedToken{
		Token:        token,
		RawToken:     rawToken,
		TempPassword: tempPassword,
	}, nil
}

// IssueTokenWithInvite トークンを発行し、オーナーに編集リンクの案内メールを送る
// 管理画面からの手動発行用。メール送信失敗は発行自体を失敗させない
func (s *editTokenService) IssueTokenWithInvite(
	storeID uint,
	ownerEmail string,
	passwordGated bool,
	expiry time.Duration,
	issuedBy *uint,
	portalBaseURL string,
) (*IssuedToken, error) {
	store, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	issued, err := s.IssueToken(storeID, ownerEmail, passwordGated, expiry, issuedBy)
	if err != nil {
		return nil, err
	}

	portalURL := fmt.Sprintf("%s/portal/%s", portalBaseURL, issued.RawToken)
	if err := util.SendPortalInviteEmail(ownerEmail, store.Name, portalURL); err != nil {
		logger.Error("Failed to send portal invite email", err, map[string]interface{}{
			"token_id": issued.Token.ID,
			"store_id": storeID,
		})
	}

	return issued, nil
}

func (s *editTokenService) ListTokens(storeID uint) ([]model.EditToken, error) {
	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return s.tokenRepo.FindByStoreID(storeID)
}

func (s *editTokenService) RevokeToken(id uint) error {
	if _, err := s.tokenRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEditTokenNotFound
		}
		return err
	}
	return s.tokenRepo.Revoke(id)
}

// SweepExpired 期限切れトークンの一括失効 (夜間バッチから呼ばれる)
func (s *editTokenService) SweepExpired(now time.Time) (int64, error) {
	if s.notifications != nil {
		expired, err := s.tokenRepo.FindExpiredActive(now)
		if err != nil {
			return 0, err
		}
		for i := range expired {
			storeName := ""
			if expired[i].Store != nil {
				storeName = expired[i].Store.Name
			}
			if err := s.notifications.NotifyTokenExpired(&expired[i], storeName); err != nil {
				logger.Warn("Failed to notify token expiry", map[string]interface{}{
					"token_id": expired[i].ID,
					"error":    err.Error(),
				})
			}
		}
	}

	count, err := s.tokenRepo.RevokeExpired(now)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		logger.Info("Expired edit tokens swept", map[string]interface{}{
			"count": count,
		})
	}
	return count, nil
}
