package model

import (
	"time"

	"gorm.io/gorm"
)

// 通報ステータス
const (
	ReportStatusPending   = "pending"   // 対応待ち
	ReportStatusAccepted  = "accepted"  // 通報を認め、レビューを非表示化
	ReportStatusDismissed = "dismissed" // 通報を棄却
)

// ReviewReport レビュー通報
// 通報時点のレビュー内容をスナップショットとして保持する
type ReviewReport struct {
	ID        uint           `gorm:"primarykey" json:"id"` // 通報ID
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StoreID uint   `gorm:"not null;index" json:"store_id"` // 対象店舗
	Store   *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"`

	// レビュー内容スナップショット
	ReviewAuthor string `gorm:"type:varchar(100)" json:"review_author"` // レビュー投稿者名
	ReviewBody   string `gorm:"type:text;not null" json:"review_body"`  // レビュー本文
	ReviewRating int    `gorm:"default:0" json:"review_rating"`         // 評価 (1-5)

	// 通報内容
	ReporterEmail string `gorm:"type:varchar(255)" json:"reporter_email"` // 通報者メール
	Reason        string `gorm:"type:text;not null" json:"reason"`        // 通報理由

	Status    string     `gorm:"type:varchar(20);default:'pending';index" json:"status"` // 対応ステータス
	HandledBy *uint      `json:"handled_by,omitempty"`                                   // 対応した管理者ID
	HandledAt *time.Time `json:"handled_at,omitempty"`                                   // 対応日時
}

func (ReviewReport) TableName() string {
	return "review_reports"
}
