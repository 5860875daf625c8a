package model

import (
	"time"
)

type PasswordReset struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                    // パスワード再設定ID
	Email     string    `gorm:"size:255;not null;index" json:"email"`    // メールアドレス
	Token     string    `gorm:"size:255;not null;unique;index" json:"-"` // 再設定トークン (露出禁止)
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`              // 有効期限
	Used      bool      `gorm:"default:false" json:"used"`               // 使用済みフラグ
	CreatedAt time.Time `json:"created_at"`                              // 作成日時
}

func (PasswordReset) TableName() string {
	return "password_resets"
}
