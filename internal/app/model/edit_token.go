package model

import (
	"time"

	"gorm.io/gorm"
)

// EditToken 店舗オーナー向けの編集トークン
// トークンURLを知っているオーナーが期限内に1店舗のみ編集できる。
// パスワードゲート付きの場合はメール+パスワードの二次認証を要求する
type EditToken struct {
	ID        uint           `gorm:"primarykey" json:"id"` // トークンID
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Token   string `gorm:"size:64;not null;uniqueIndex" json:"-"` // ベアラートークン (UUID, 露出禁止)
	StoreID uint   `gorm:"not null;index" json:"store_id"`        // 編集対象店舗
	Store   *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"`

	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`            // 有効期限
	Revoked   bool      `gorm:"default:false;index" json:"revoked"`    // 失効フラグ (管理者操作または期限切れスイープ)

	// 二次認証 (任意)
	OwnerEmail   string `gorm:"type:varchar(255)" json:"owner_email,omitempty"` // オーナーメール
	PasswordHash string `gorm:"type:varchar(255)" json:"-"`                     // パスワードハッシュ (空なら認証不要)

	LastUsedAt *time.Time `json:"last_used_at,omitempty"` // 最終利用日時

	IssuedBy *uint `json:"issued_by,omitempty"` // 発行した管理者ID
}

func (EditToken) TableName() string {
	return "edit_tokens"
}

// PasswordGated 二次認証が必要なトークンか
func (t *EditToken) PasswordGated() bool {
	return t.PasswordHash != ""
}

// Usable 現時点で利用可能か
func (t *EditToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
