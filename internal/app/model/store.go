package model

import (
	"time"

	"gorm.io/gorm"
)

type RecruitmentStatus string // 求人募集ステータス

const (
	RecruitmentOpen   RecruitmentStatus = "open"   // 募集中
	RecruitmentClosed RecruitmentStatus = "closed" // 募集停止
)

type Store struct {
	ID          uint   `gorm:"primarykey" json:"id"`                 // 店舗ID
	Name        string `gorm:"not null;index" json:"name"`           // 店舗名
	Kana        string `gorm:"type:varchar(255)" json:"kana"`        // 店舗名カナ
	Address     string `gorm:"type:text" json:"address"`             // 住所
	PhoneNumber string `gorm:"type:varchar(30)" json:"phone_number"` // 電話番号
	Description string `gorm:"type:text" json:"description"`         // 店舗紹介
	ImageURL    string `json:"image_url"`                            // 店舗画像URL
	OwnerEmail  string `gorm:"type:varchar(255)" json:"owner_email"` // オーナー連絡先メール

	// マスタ参照
	GenreID       *uint    `gorm:"index" json:"genre_id"`   // ジャンルID
	Genre         *Genre   `gorm:"foreignKey:GenreID" json:"genre,omitempty"`
	StationID     *uint    `gorm:"index" json:"station_id"` // 最寄り駅ID
	Station       *Station `gorm:"foreignKey:StationID" json:"station,omitempty"`
	PlanID        *uint    `gorm:"index" json:"plan_id"`    // 契約プランID
	Plan          *Plan    `gorm:"foreignKey:PlanID" json:"plan,omitempty"`

	// 営業情報
	OpenTime       string            `gorm:"type:varchar(10)" json:"open_time"`                          // 開店時間 (例: "11:00")
	CloseTime      string            `gorm:"type:varchar(10)" json:"close_time"`                         // 閉店時間 (例: "22:00")
	RegularHoliday string            `gorm:"type:varchar(100)" json:"regular_holiday"`                   // 定休日
	Recruitment    RecruitmentStatus `gorm:"type:varchar(20);default:'closed'" json:"recruitment"`       // 求人募集ステータス

	IsActive bool `gorm:"default:true;index" json:"is_active"` // 掲載中フラグ (ソフト無効化)

	// 照合確定時の楽観ロック用バージョン
	LockVersion int `gorm:"default:0;not null" json:"-"`

	CreatedAt time.Time      `json:"created_at"`     // 作成日時
	UpdatedAt time.Time      `json:"updated_at"`     // 更新日時
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // 削除日時(ソフトデリート)
}

func (Store) TableName() string {
	return "stores"
}
