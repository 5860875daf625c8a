package service

import (
	"fmt"

	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/app/repository"
	"github.com/stakahashi/machinavi-backend/internal/websocket"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
)

// NotificationService 管理者通知サービス
type NotificationService interface {
	GetNotifications(userID uint, notifType *model.NotificationType, isRead *bool, page, pageSize int) ([]model.Notification, int64, int64, error)
	GetUnreadCount(userID uint) (int64, error)
	MarkAsRead(notificationID, userID uint) (*model.Notification, error)
	MarkAllAsRead(userID uint) error
	DeleteNotification(notificationID, userID uint) error

	// Notification creation helpers
	NotifyNewEditRequest(request *model.StoreEditRequest) error
	NotifyDocumentUpdated(request *model.StoreEditRequest) error
	NotifyNewReviewReport(report *model.ReviewReport) error
	NotifyTokenExpired(token *model.EditToken, storeName string) error
}

type notificationService struct {
	repo repository.NotificationRepository
	hub  *websocket.Hub
}

// NewNotificationService 通知サービス生成
func NewNotificationService(repo repository.NotificationRepository, hub *websocket.Hub) NotificationService {
	return &notificationService{
		repo: repo,
		hub:  hub,
	}
}

// GetNotifications 通知一覧取得
func (s *notificationService) GetNotifications(
	userID uint,
	notifType *model.NotificationType,
	isRead *bool,
	page, pageSize int,
) ([]model.Notification, int64, int64, error) {
	// ページ既定値
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	offset := (page - 1) * pageSize

	notifications, total, err := s.repo.GetNotifications(userID, notifType, isRead, pageSize, offset)
	if err != nil {
		return nil, 0, 0, err
	}

	unreadCount, err := s.repo.GetUnreadCount(userID)
	if err != nil {
		return nil, 0, 0, err
	}

	return notifications, total, unreadCount, nil
}

// GetUnreadCount 未読数取得
func (s *notificationService) GetUnreadCount(userID uint) (int64, error) {
	return s.repo.GetUnreadCount(userID)
}

// MarkAsRead 既読化 (本人の通知のみ)
func (s *notificationService) MarkAsRead(notificationID, userID uint) (*model.Notification, error) {
	notification, err := s.repo.GetNotificationByID(notificationID)
	if err != nil {
		return nil, err
	}

	if notification.UserID != userID {
		return nil, fmt.Errorf("notification %d does not belong to user %d", notificationID, userID)
	}

	if err := s.repo.MarkAsRead(notificationID); err != nil {
		return nil, err
	}

	notification.IsRead = true
	return notification, nil
}

// MarkAllAsRead 全件既読化
func (s *notificationService) MarkAllAsRead(userID uint) error {
	return s.repo.MarkAllAsRead(userID)
}

// DeleteNotification 通知削除 (本人の通知のみ)
func (s *notificationService) DeleteNotification(notificationID, userID uint) error {
	notification, err := s.repo.GetNotificationByID(notificationID)
	if err != nil {
		return err
	}

	if notification.UserID != userID {
		return fmt.Errorf("notification %d does not belong to user %d", notificationID, userID)
	}

	return s.repo.DeleteNotification(notificationID)
}

// NotifyNewEditRequest 新規申請を全管理者に通知
func (s *notificationService) NotifyNewEditRequest(request *model.StoreEditRequest) error {
	return s.broadcastToAdmins(
		model.NotificationTypeNewRequest,
		"新しい店舗編集申請が届きました",
		fmt.Sprintf("%s (申請者: %s)", request.StoreName, request.ApplicantName),
		fmt.Sprintf("/edit-requests/%d", request.ID),
		&request.ID, request.StoreID, nil,
	)
}

// NotifyDocumentUpdated 書類再提出を全管理者に通知
func (s *notificationService) NotifyDocumentUpdated(request *model.StoreEditRequest) error {
	return s.broadcastToAdmins(
		model.NotificationTypeDocumentUpdated,
		"確認書類が再提出されました",
		fmt.Sprintf("%s (申請者: %s)", request.StoreName, request.ApplicantName),
		fmt.Sprintf("/edit-requests/%d", request.ID),
		&request.ID, request.StoreID, nil,
	)
}

// NotifyNewReviewReport 新規レビュー通報を全管理者に通知
func (s *notificationService) NotifyNewReviewReport(report *model.ReviewReport) error {
	return s.broadcastToAdmins(
		model.NotificationTypeNewReviewReport,
		"レビューが通報されました",
		report.Reason,
		fmt.Sprintf("/review-reports/%d", report.ID),
		nil, &report.StoreID, &report.ID,
	)
}

// NotifyTokenExpired 編集トークン期限切れを全管理者に通知
func (s *notificationService) NotifyTokenExpired(token *model.EditToken, storeName string) error {
	return s.broadcastToAdmins(
		model.NotificationTypeTokenExpired,
		"編集トークンの有効期限が切れました",
		storeName,
		fmt.Sprintf("/stores/%d/edit-tokens", token.StoreID),
		nil, &token.StoreID, nil,
	)
}

// broadcastToAdmins 有効な全管理ユーザーに通知を作成し、WebSocketで配信する
func (s *notificationService) broadcastToAdmins(
	notifType model.NotificationType,
	title, content, link string,
	requestID, storeID, reportID *uint,
) error {
	adminIDs, err := s.repo.GetActiveAdminIDs()
	if err != nil {
		logger.Error("Failed to get admin IDs for notification", err, nil)
		return err
	}

	for _, adminID := range adminIDs {
		notification := &model.Notification{
			UserID:           adminID,
			Type:             notifType,
			Title:            title,
			Content:          content,
			Link:             link,
			IsRead:           false,
			RelatedRequestID: requestID,
			RelatedStoreID:   storeID,
			RelatedReportID:  reportID,
		}

		if err := s.repo.CreateNotification(notification); err != nil {
			// 1人への通知作成失敗で止めない
			logger.Error("Failed to create notification", err, map[string]interface{}{
				"user_id": adminID,
				"type":    notifType,
			})
			continue
		}

		// WebSocketでリアルタイム配信
		if s.hub != nil {
			unreadCount, _ := s.repo.GetUnreadCount(adminID)
			wsMessage := map[string]interface{}{
				"type":         "new_notification",
				"unread_count": unreadCount,
				"notification": notification,
			}
			if err := s.hub.SendNotificationToUser(adminID, wsMessage); err != nil {
				logger.Warn("Failed to push notification over WebSocket", map[string]interface{}{
					"user_id": adminID,
					"error":   err.Error(),
				})
			}
		}
	}

	logger.Debug("Notification broadcast to admins", map[string]interface{}{
		"type":        notifType,
		"admin_count": len(adminIDs),
	})
	return nil
}
