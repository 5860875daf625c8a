package model

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeNewRequest      NotificationType = "new_edit_request"  // 新規申請
	NotificationTypeDocumentUpdated NotificationType = "document_updated"  // 書類再提出
	NotificationTypeNewReviewReport NotificationType = "new_review_report" // 新規レビュー通報
	NotificationTypeTokenExpired    NotificationType = "token_expired"     // 編集トークン期限切れ
)

// Notification 管理者向け通知
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// 通知を受け取る管理ユーザー
	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// 通知タイプ
	Type NotificationType `gorm:"type:varchar(50);not null;index" json:"type"`

	// 通知内容
	Title   string `gorm:"type:text;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	Link    string `gorm:"type:text;not null" json:"link"`

	// 状態
	IsRead bool `gorm:"default:false;index" json:"is_read"`

	// 関連データ (nullable)
	RelatedRequestID *uint `gorm:"index" json:"related_request_id,omitempty"`
	RelatedStoreID   *uint `gorm:"index" json:"related_store_id,omitempty"`
	RelatedReportID  *uint `gorm:"index" json:"related_report_id,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
