package service

import (
	"context"
	"errors"
	"time"

	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/app/repository"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
	"github.com/stakahashi/machinavi-backend/pkg/redis"
	"github.com/stakahashi/machinavi-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEditTokenExpired   = errors.New("編集リンクの有効期限が切れています")
	ErrEditTokenRevoked   = errors.New("この編集リンクは無効化されています")
	ErrPortalAuthRequired = errors.New("メールアドレスとパスワードによる認証が必要です")
	ErrPortalAuthFailed   = errors.New("メールアドレスまたはパスワードが正しくありません")
)

const portalSessionTokenLength = 32

// PortalStoreInput オーナーが編集できる店舗フィールド
// 店舗名や住所の変更は編集申請を通すため、ここには含めない
type PortalStoreInput struct {
	PhoneNumber    string                   `json:"phone_number"`
	Description    string                   `json:"description"`
	ImageURL       string                   `json:"image_url"`
	OpenTime       string                   `json:"open_time"`
	CloseTime      string                   `json:"close_time"`
	RegularHoliday string                   `json:"regular_holiday"`
	Recruitment    *model.RecruitmentStatus `json:"recruitment"`
}

type OwnerPortalService interface {
	ResolveToken(rawToken string) (*model.EditToken, error)
	Login(ctx context.Context, rawToken, email, password string) (string, error)
	Logout(ctx context.Context, sessionID string) error
	GetStore(ctx context.Context, rawToken, sessionID string) (*model.Store, error)
	UpdateStore(ctx context.Context, rawToken, sessionID string, input PortalStoreInput) (*model.Store, error)
}

type ownerPortalService struct {
	tokenRepo  repository.EditTokenRepository
	storeRepo  repository.StoreRepository
	masterRepo repository.MasterRepository

	sessionExpiry time.Duration
}

func NewOwnerPortalService(
	tokenRepo repository.EditTokenRepository,
	storeRepo repository.StoreRepository,
	masterRepo repository.MasterRepository,
	sessionExpiry time.Duration,
) OwnerPortalService {
	return &ownerPortalService{
		tokenRepo:     tokenRepo,
		storeRepo:     storeRepo,
		masterRepo:    masterRepo,
		sessionExpiry: sessionExpiry,
	}
}

// ResolveToken 編集トークンの照会
// 期限切れ・失効は区別してエラーを返す
func (s *ownerPortalService) ResolveToken(rawToken string) (*model.EditToken, error) {
	token, err := s.tokenRepo.FindByToken(rawToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEditTokenNotFound
		}
		return nil, err
	}

	if token.Revoked {
		return nil, ErrEditTokenRevoked
	}
	if time.Now().After(token.ExpiresAt) {
		return nil, ErrEditTokenExpired
	}

	return token, nil
}

// Login パスワードゲート付きトークンの二次認証
// 成功時に短命のポータルセッションをRedisに作成する
func (s *ownerPortalService) Login(ctx context.Context, rawToken, email, password string) (string, error) {
	token, err := s.ResolveToken(rawToken)
	if err != nil {
		return "", err
	}

	if !token.PasswordGated() {
		// ゲートなしトークンはセッション不要
		return "", nil
	}

	if email != token.OwnerEmail || !util.VerifyPassword(token.PasswordHash, password) {
		logger.Warn("Portal login failed", map[string]interface{}{
			"token_id": token.ID,
			"store_id": token.StoreID,
		})
		return "", ErrPortalAuthFailed
	}

	sessionID, err := util.GenerateSecureToken(portalSessionTokenLength)
	if err != nil {
		return "", err
	}

	if err := redis.SetPortalSession(ctx, sessionID, token.ID, s.sessionExpiry); err != nil {
		return "", err
	}

	logger.Info("Portal login succeeded", map[string]interface{}{
		"token_id": token.ID,
		"store_id": token.StoreID,
	})
	return sessionID, nil
}

func (s *ownerPortalService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return redis.DeletePortalSession(ctx, sessionID)
}

func (s *ownerPortalService) GetStore(ctx context.Context, rawToken, sessionID string) (*model.Store, error) {
	token, err := s.authorize(ctx, rawToken, sessionID)
	if err != nil {
		return nil, err
	}

	return s.storeRepo.FindByID(token.StoreID)
}

// UpdateStore トークン経由の店舗情報更新
func (s *ownerPortalService) UpdateStore(ctx context.Context, rawToken, sessionID string, input PortalStoreInput) (*model.Store, error) {
	token, err := s.authorize(ctx, rawToken, sessionID)
	if err != nil {
		return nil, err
	}

	store, err := s.storeRepo.FindByID(token.StoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	if input.PhoneNumber != "" {
		store.PhoneNumber = input.PhoneNumber
	}
	if input.Description != "" {
		store.Description = input.Description
	}
	if input.ImageURL != "" {
		store.ImageURL = input.ImageURL
	}
	if input.OpenTime != "" {
		store.OpenTime = input.OpenTime
	}
	if input.CloseTime != "" {
		store.CloseTime = input.CloseTime
	}
	if input.RegularHoliday != "" {
		store.RegularHoliday = input.RegularHoliday
	}
	if input.Recruitment != nil {
		// 求人募集の開始はプランの可否に従う
		if *input.Recruitment == model.RecruitmentOpen {
			if store.PlanID == nil {
				return nil, ErrPlanCannotRecruit
			}
			plan, err := s.masterRepo.FindPlanByID(*store.PlanID)
			if err != nil {
				return nil, err
			}
			if !plan.CanRecruit {
				return nil, ErrPlanCannotRecruit
			}
		}
		store.Recruitment = *input.Recruitment
	}

	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}

	if err := s.tokenRepo.TouchLastUsed(token.ID, time.Now()); err != nil {
		logger.Warn("Failed to record token usage", map[string]interface{}{
			"token_id": token.ID,
			"error":    err.Error(),
		})
	}

	logger.Info("Store updated via owner portal", map[string]interface{}{
		"store_id": store.ID,
		"token_id": token.ID,
	})
	return s.storeRepo.FindByID(store.ID)
}

// authorize トークン照会とパスワードゲートのセッション確認
func (s *ownerPortalService) authorize(ctx context.Context, rawToken, sessionID string) (*model.EditToken, error) {
	token, err := s.ResolveToken(rawToken)
	if err != nil {
		return nil, err
	}

	if !token.PasswordGated() {
		return token, nil
	}

	if sessionID == "" {
		return nil, ErrPortalAuthRequired
	}

	tokenID, err := redis.GetPortalSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if tokenID != token.ID {
		return nil, ErrPortalAuthRequired
	}

	return token, nil
}
