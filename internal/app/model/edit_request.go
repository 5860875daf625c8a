package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// 申請ステータス: pending → reviewing → approved | rejected
// approved は「承認取り消し」で reviewing に戻せる
const (
	RequestStatusPending   = "pending"   // 申請受付
	RequestStatusReviewing = "reviewing" // 審査中
	RequestStatusApproved  = "approved"  // 承認済み
	RequestStatusRejected  = "rejected"  // 却下
)

// 書類確認ステータス: pending → reviewing → verified | rejected
// 申請の承認は verified が前提条件
const (
	VerificationStatusPending   = "pending"   // 確認待ち
	VerificationStatusReviewing = "reviewing" // 確認中
	VerificationStatusVerified  = "verified"  // 確認完了
	VerificationStatusRejected  = "rejected"  // 不備あり
)

// StoreEditRequest 店舗編集権限の申請
// 申請者が提出した店舗情報と本人確認書類を保持し、管理者の審査を経て
// 既存店舗に紐付く (StoreID) か、新規店舗として承認される
type StoreEditRequest struct {
	ID        uint           `gorm:"primarykey" json:"id"` // 申請ID
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// 申請対象の店舗情報 (申請者入力)
	StoreName   string `gorm:"not null" json:"store_name"`           // 店舗名
	StoreKana   string `gorm:"type:varchar(255)" json:"store_kana"`  // 店舗名カナ
	Address     string `gorm:"type:text" json:"address"`             // 住所
	PhoneNumber string `gorm:"type:varchar(30)" json:"phone_number"` // 電話番号
	GenreName   string `gorm:"type:varchar(100)" json:"genre_name"`  // ジャンル名 (自由入力)

	// 申請者情報
	ApplicantName  string `gorm:"not null" json:"applicant_name"`                 // 申請者氏名
	ApplicantEmail string `gorm:"type:varchar(255);not null" json:"applicant_email"` // 申請者メール
	ApplicantPhone string `gorm:"type:varchar(30)" json:"applicant_phone"`        // 申請者電話番号

	// 本人確認書類 (S3にアップロードされたURL)
	DocumentURLs pq.StringArray `gorm:"type:text[]" json:"document_urls"`

	// ステータス
	Status             string `gorm:"type:varchar(20);default:'pending';index" json:"status"`              // 申請ステータス
	VerificationStatus string `gorm:"type:varchar(20);default:'pending';index" json:"verification_status"` // 書類確認ステータス
	RejectionReason    string `gorm:"type:text" json:"rejection_reason,omitempty"`                         // 却下理由

	// 紐付け先店舗 (照合確定後に設定される)
	StoreID *uint  `gorm:"index" json:"store_id,omitempty"`
	Store   *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"`

	// 審査記録
	AdminNote  string     `gorm:"type:text" json:"admin_note,omitempty"` // 管理者メモ
	ReviewedBy *uint      `json:"reviewed_by,omitempty"`                 // 審査した管理者ID
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`                 // 審査日時
}

func (StoreEditRequest) TableName() string {
	return "store_edit_requests"
}

// CanApprove 承認操作が可能か (書類確認完了が前提)
func (r *StoreEditRequest) CanApprove() bool {
	return r.Status == RequestStatusReviewing && r.VerificationStatus == VerificationStatusVerified
}
