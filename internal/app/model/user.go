package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // 管理ユーザー権限タイプ

const (
	RoleStaff UserRole = "staff" // 運営スタッフ権限
	RoleAdmin UserRole = "admin" // 管理者権限
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                         // ユーザーID
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`            // メールアドレス
	PasswordHash string         `gorm:"not null" json:"-"`                            // パスワードハッシュ
	Name         string         `gorm:"not null" json:"name"`                         // 氏名
	Role         UserRole       `gorm:"type:varchar(20);default:'staff'" json:"role"` // 権限
	IsActive     bool           `gorm:"default:true" json:"is_active"`                // 有効フラグ
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`                      // 最終ログイン日時
	CreatedAt    time.Time      `json:"created_at"`                                   // 作成日時
	UpdatedAt    time.Time      `json:"updated_at"`                                   // 更新日時
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                               // 削除日時(ソフトデリート)
}

func (User) TableName() string {
	return "users"
}
