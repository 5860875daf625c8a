package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stakahashi/machinavi-backend/internal/app/service"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
)

// MaintenanceScheduler 夜間の定期メンテナンス
// 期限切れトークンの失効、却下済み申請の物理削除、リセットトークンの掃除を行う
type MaintenanceScheduler struct {
	cron           *cron.Cron
	tokenService   service.EditTokenService
	requestService service.EditRequestService
	resetService   service.PasswordResetService
	purgeAfter     time.Duration
}

func NewMaintenanceScheduler(
	tokenService service.EditTokenService,
	requestService service.EditRequestService,
	resetService service.PasswordResetService,
	purgeAfterDays int,
) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		cron:           cron.New(),
		tokenService:   tokenService,
		requestService: requestService,
		resetService:   resetService,
		purgeAfter:     time.Duration(purgeAfterDays) * 24 * time.Hour,
	}
}

// Start スケジューラ開始
func (s *MaintenanceScheduler) Start() error {
	// 毎日深夜3時 (JST想定、サーバーのローカル時刻基準)
	_, err := s.cron.AddFunc("0 3 * * *", s.runMaintenance)
	if err != nil {
		logger.Error("Failed to register maintenance cron job", err)
		return err
	}

	s.cron.Start()
	logger.Info("Maintenance scheduler started (daily at 3:00 AM)", nil)
	return nil
}

// Stop スケジューラ停止
func (s *MaintenanceScheduler) Stop() {
	logger.Info("Stopping maintenance scheduler...", nil)
	s.cron.Stop()
	logger.Info("Maintenance scheduler stopped", nil)
}

func (s *MaintenanceScheduler) runMaintenance() {
	now := time.Now()
	logger.Info("Starting nightly maintenance", nil)

	swept, err := s.tokenService.SweepExpired(now)
	if err != nil {
		logger.Error("Failed to sweep expired edit tokens", err)
	}

	purged, err := s.requestService.PurgeRejectedBefore(now.Add(-s.purgeAfter))
	if err != nil {
		logger.Error("Failed to purge rejected edit requests", err)
	}

	cleaned, err := s.resetService.Cleanup()
	if err != nil {
		logger.Error("Failed to clean up password reset tokens", err)
	}

	logger.Info("Nightly maintenance finished", map[string]interface{}{
		"tokens_swept":    swept,
		"requests_purged": purged,
		"resets_cleaned":  cleaned,
	})
}
