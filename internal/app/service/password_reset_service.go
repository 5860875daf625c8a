package service

import (
	"errors"
	"time"

	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/app/repository"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
	"github.com/stakahashi/machinavi-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidResetToken = errors.New("再設定トークンが無効です")
	ErrResetTokenExpired = errors.New("再設定トークンの有効期限が切れています")
	ErrResetTokenUsed    = errors.New("再設定トークンは既に使用されています")
)

const (
	// ResetTokenExpiry is the duration for which a reset token is valid
	ResetTokenExpiry = 1 * time.Hour
	// ResetTokenLength is the byte length of the reset token
	ResetTokenLength = 32
)

type PasswordResetService interface {
	RequestReset(email string) error
	ResetPassword(token, newPassword string) error
	Cleanup() (int64, error)
}

type passwordResetService struct {
	resetRepo repository.PasswordResetRepository
	userRepo  repository.UserRepository
}

func NewPasswordResetService(
	resetRepo repository.PasswordResetRepository,
	userRepo repository.UserRepository,
) PasswordResetService {
	return &passwordResetService{
		resetRepo: resetRepo,
		userRepo:  userRepo,
	}
}

func (s *passwordResetService) RequestReset(email string) error {
	logger.Info("Processing password reset request", map[string]interface{}{
		"email": email,
	})

	// ユーザー列挙を防ぐため、存在しないメールでも成功として返す
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset requested for non-existent email", map[string]interface{}{
				"email": email,
			})
			return nil
		}
		logger.Error("Failed to look up user for password reset", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	token, err := util.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		logger.Error("Failed to generate reset token", err, nil)
		return err
	}

	reset := &model.PasswordReset{
		Email:     user.Email,
		Token:     token,
		ExpiresAt: time.Now().Add(ResetTokenExpiry),
	}
	if err := s.resetRepo.Create(reset); err != nil {
		logger.Error("Failed to store password reset", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	if err := util.SendPasswordResetEmail(user.Email, token); err != nil {
		logger.Error("Failed to send password reset email", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	logger.Info("Password reset email sent", map[string]interface{}{
		"email": email,
	})
	return nil
}

func (s *passwordResetService) ResetPassword(token, newPassword string) error {
	logger.Info("Processing password reset", nil)

	reset, err := s.resetRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	if reset.Used {
		logger.Warn("Password reset token already used", map[string]interface{}{
			"email": reset.Email,
		})
		return ErrResetTokenUsed
	}

	if time.Now().After(reset.ExpiresAt) {
		logger.Warn("Password reset token expired", map[string]interface{}{
			"email": reset.Email,
		})
		return ErrResetTokenExpired
	}

	user, err := s.userRepo.FindByEmail(reset.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, nil)
		return err
	}

	user.PasswordHash = hashedPassword
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	if err := s.resetRepo.MarkAsUsed(reset.ID); err != nil {
		logger.Error("Failed to mark reset token as used", err, map[string]interface{}{
			"reset_id": reset.ID,
		})
		return err
	}

	logger.Info("Password reset completed", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

// Cleanup 期限切れ・使用済みリセットトークンの削除 (夜間バッチから呼ばれる)
func (s *passwordResetService) Cleanup() (int64, error) {
	expired, err := s.resetRepo.DeleteExpired()
	if err != nil {
		return 0, err
	}

	used, err := s.resetRepo.DeleteUsed()
	if err != nil {
		return expired, err
	}

	return expired + used, nil
}
