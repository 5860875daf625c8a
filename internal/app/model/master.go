package model

import (
	"time"

	"gorm.io/gorm"
)

// Genre 店舗ジャンルマスタ
type Genre struct {
	ID        uint           `gorm:"primarykey" json:"id"`              // ジャンルID
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`  // ジャンル名 (例: 居酒屋)
	SortOrder int            `gorm:"default:0" json:"sort_order"`       // 表示順
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Genre) TableName() string {
	return "genres"
}

// RailwayLine 路線マスタ
type RailwayLine struct {
	ID        uint           `gorm:"primarykey" json:"id"`             // 路線ID
	Name      string         `gorm:"uniqueIndex;not null" json:"name"` // 路線名 (例: 山手線)
	Company   string         `gorm:"type:varchar(100)" json:"company"` // 運営会社
	SortOrder int            `gorm:"default:0" json:"sort_order"`      // 表示順
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Stations []Station `gorm:"foreignKey:RailwayLineID" json:"stations,omitempty"` // 所属駅
}

func (RailwayLine) TableName() string {
	return "railway_lines"
}

// Station 駅マスタ (路線に所属)
type Station struct {
	ID            uint         `gorm:"primarykey" json:"id"`                                     // 駅ID
	Name          string       `gorm:"not null;index" json:"name"`                               // 駅名 (例: 渋谷)
	RailwayLineID uint         `gorm:"not null;index" json:"railway_line_id"`                    // 路線ID
	RailwayLine   *RailwayLine `gorm:"foreignKey:RailwayLineID" json:"railway_line,omitempty"`
	SortOrder     int          `gorm:"default:0" json:"sort_order"` // 路線内の表示順
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Station) TableName() string {
	return "stations"
}

// Plan 掲載プランマスタ
type Plan struct {
	ID          uint           `gorm:"primarykey" json:"id"`             // プランID
	Code        string         `gorm:"uniqueIndex;not null" json:"code"` // プランコード (例: free, standard, premium)
	Name        string         `gorm:"not null" json:"name"`             // プラン名
	MonthlyFee  int            `gorm:"default:0" json:"monthly_fee"`     // 月額料金 (円)
	CanRecruit  bool           `gorm:"default:false" json:"can_recruit"` // 求人掲載可否
	PhotoLimit  int            `gorm:"default:1" json:"photo_limit"`     // 掲載写真上限
	Description string         `gorm:"type:text" json:"description"`     // プラン説明
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Plan) TableName() string {
	return "plans"
}
