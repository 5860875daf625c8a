package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/app/service"
	apperrors "github.com/stakahashi/machinavi-backend/internal/errors"
	"github.com/stakahashi/machinavi-backend/internal/middleware"
)

// NotificationController 管理者向け通知
type NotificationController struct {
	service service.NotificationService
}

func NewNotificationController(service service.NotificationService) *NotificationController {
	return &NotificationController{
		service: service,
	}
}

// GetNotifications returns the admin's notifications
// GET /api/v1/notifications
func (ctrl *NotificationController) GetNotifications(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	var notifType *model.NotificationType
	if typeStr := c.Query("type"); typeStr != "" {
		t := model.NotificationType(typeStr)
		notifType = &t
	}

	var isRead *bool
	if isReadStr := c.Query("is_read"); isReadStr != "" {
		v := isReadStr == "true"
		isRead = &v
	}

	notifications, total, unreadCount, err := ctrl.service.GetNotifications(userID, notifType, isRead, page, pageSize)
	if err != nil {
		apperrors.InternalError(c, "通知一覧の取得中にエラーが発生しました")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":         notifications,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
		"unread_count": unreadCount,
	})
}

// GetUnreadCount returns the number of unread notifications
// GET /api/v1/notifications/unread-count
func (ctrl *NotificationController) GetUnreadCount(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	count, err := ctrl.service.GetUnreadCount(userID)
	if err != nil {
		apperrors.InternalError(c, "未読件数の取得中にエラーが発生しました")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unread_count": count,
	})
}

// MarkAsRead marks a notification as read
// PATCH /api/v1/notifications/:id/read
func (ctrl *NotificationController) MarkAsRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	notification, err := ctrl.service.MarkAsRead(id, userID)
	if err != nil {
		if strings.Contains(err.Error(), "does not belong") {
			apperrors.Forbidden(c, "この通知を操作する権限がありません")
			return
		}
		apperrors.NotFound(c, apperrors.NotificationNotFound, "通知が見つかりません")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notification": notification,
	})
}

// MarkAllAsRead marks every notification of the admin as read
// PATCH /api/v1/notifications/read-all
func (ctrl *NotificationController) MarkAllAsRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	if err := ctrl.service.MarkAllAsRead(userID); err != nil {
		apperrors.InternalError(c, "通知の既読処理中にエラーが発生しました")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "すべての通知を既読にしました",
	})
}

// DeleteNotification deletes a notification
// DELETE /api/v1/notifications/:id
func (ctrl *NotificationController) DeleteNotification(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.service.DeleteNotification(id, userID); err != nil {
		if strings.Contains(err.Error(), "does not belong") {
			apperrors.Forbidden(c, "この通知を操作する権限がありません")
			return
		}
		apperrors.NotFound(c, apperrors.NotificationNotFound, "通知が見つかりません")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "通知を削除しました",
	})
}
