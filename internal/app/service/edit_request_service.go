package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/app/repository"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
	"github.com/stakahashi/machinavi-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrRequestNotFound    = errors.New("申請が見つかりません")
	ErrInvalidTransition  = errors.New("このステータスへは変更できません")
	ErrRequestNotVerified = errors.New("書類確認が完了していないため承認できません")
	ErrDocumentsRequired  = errors.New("確認書類を1件以上添付してください")
)

// EditRequestInput 申請の受付入力 (公開フォームから)
type EditRequestInput struct {
	StoreName      string   `json:"store_name" binding:"required"`
	StoreKana      string   `json:"store_kana"`
	Address        string   `json:"address"`
	PhoneNumber    string   `json:"phone_number"`
	GenreName      string   `json:"genre_name"`
	ApplicantName  string   `json:"applicant_name" binding:"required"`
	ApplicantEmail string   `json:"applicant_email" binding:"required,email"`
	ApplicantPhone string   `json:"applicant_phone"`
	DocumentURLs   []string `json:"document_urls" binding:"required"`
}

type EditRequestService interface {
	CreateRequest(input EditRequestInput) (*model.StoreEditRequest, error)
	ListRequests(filter repository.EditRequestFilter) ([]model.StoreEditRequest, int64, error)
	GetRequest(id uint) (*model.StoreEditRequest, error)

	StartReview(id, adminID uint) (*model.StoreEditRequest, error)
	SetVerificationStatus(id, adminID uint, status, note string) (*model.StoreEditRequest, error)
	UpdateDocuments(id uint, documentURLs []string) (*model.StoreEditRequest, error)
	Approve(id, adminID uint, passwordGated bool) (*model.StoreEditRequest, *IssuedToken, error)
	Reject(id, adminID uint, reason string) (*model.StoreEditRequest, error)
	CancelApproval(id, adminID uint) (*model.StoreEditRequest, error)
	UpdateAdminNote(id, adminID uint, note string) (*model.StoreEditRequest, error)

	PurgeRejectedBefore(cutoff time.Time) (int64, error)
}

type editRequestService struct {
	requestRepo   repository.EditRequestRepository
	storeRepo     repository.StoreRepository
	masterRepo    repository.MasterRepository
	tokenService  EditTokenService
	notifications NotificationService

	portalBaseURL string
	tokenExpiry   time.Duration
}

func NewEditRequestService(
	requestRepo repository.EditRequestRepository,
	storeRepo repository.StoreRepository,
	masterRepo repository.MasterRepository,
	tokenService EditTokenService,
	notifications NotificationService,
	portalBaseURL string,
	tokenExpiry time.Duration,
) EditRequestService {
	return &editRequestService{
		requestRepo:   requestRepo,
		storeRepo:     storeRepo,
		masterRepo:    masterRepo,
		tokenService:  tokenService,
		notifications: notifications,
		portalBaseURL: portalBaseURL,
		tokenExpiry:   tokenExpiry,
	}
}

func (s *editRequestService) CreateRequest(input EditRequestInput) (*model.StoreEditRequest, error) {
	logger.Info("Creating store edit request", map[string]interface{}{
		"store_name":      input.StoreName,
		"applicant_email": input.ApplicantEmail,
	})

	if len(input.DocumentURLs) == 0 {
		return nil, ErrDocumentsRequired
	}

	request := &model.StoreEditRequest{
		StoreName:          input.StoreName,
		StoreKana:          input.StoreKana,
		Address:            input.Address,
		PhoneNumber:        input.PhoneNumber,
		GenreName:          input.GenreName,
		ApplicantName:      input.ApplicantName,
		ApplicantEmail:     input.ApplicantEmail,
		ApplicantPhone:     input.ApplicantPhone,
		DocumentURLs:       pq.StringArray(input.DocumentURLs),
		Status:             model.RequestStatusPending,
		VerificationStatus: model.VerificationStatusPending,
	}

	if err := s.requestRepo.Create(request); err != nil {
		return nil, err
	}

	// 管理者への通知は失敗しても申請自体は成立させる
	if err := s.notifications.NotifyNewEditRequest(request); err != nil {
		logger.Warn("Failed to notify admins of new request", map[string]interface{}{
			"request_id": request.ID,
			"error":      err.Error(),
		})
	}

	logger.Info("Store edit request created", map[string]interface{}{
		"request_id": request.ID,
	})
	return request, nil
}

func (s *editRequestService) ListRequests(filter repository.EditRequestFilter) ([]model.StoreEditRequest, int64, error) {
	return s.requestRepo.FindAll(filter)
}

func (s *editRequestService) GetRequest(id uint) (*model.StoreEditRequest, error) {
	request, err := s.requestRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

// StartReview 申請の審査を開始する (pending → reviewing)
func (s *editRequestService) StartReview(id, adminID uint) (*model.StoreEditRequest, error) {
	request, err := s.GetRequest(id)
	if err != nil {
		return nil, err
	}

	if request.Status != model.RequestStatusPending {
		logger.Warn("Invalid status transition", map[string]interface{}{
			"request_id": id,
			"from":       request.Status,
			"to":         model.RequestStatusReviewing,
		})
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	request.Status = model.RequestStatusReviewing
	if request.VerificationStatus == model.VerificationStatusPending {
		request.VerificationStatus = model.VerificationStatusReviewing
	}
	request.ReviewedBy = &adminID
	request.ReviewedAt = &now

	if err := s.requestRepo.Update(request); err != nil {
		return nil, err
	}

	logger.Info("Edit request review started", map[string]interface{}{
		"request_id": id,
		"admin_id":   adminID,
	})
	return request, nil
}

// SetVerificationStatus 書類確認ステータスの変更
// 許可する遷移: pending→reviewing, reviewing→verified|rejected, rejected→reviewing (再提出後)
func (s *editRequestService) SetVerificationStatus(id, adminID uint, status, note string) (*model.StoreEditRequest, error) {
	request, err := s.GetRequest(id)
	if err != nil {
		return nil, err
	}

	allowed := map[string][]string{
		model.VerificationStatusPending:   {model.VerificationStatusReviewing},
		model.VerificationStatusReviewing: {model.VerificationStatusVerified, model.VerificationStatusRejected},
		model.VerificationStatusRejected:  {model.VerificationStatusReviewing},
	}

	ok := false
	for _, next := range allowed[request.VerificationStatus] {
		if next == status {
			ok = true
			break
		}
	}
	if !ok {
		logger.Warn("Invalid verification transition", map[string]interface{}{
			"request_id": id,
			"from":       request.VerificationStatus,
			"to":         status,
		})
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	request.VerificationStatus = status
	if note != "" {
		request.AdminNote = note
	}
	request.ReviewedBy = &adminID
	request.ReviewedAt = &now

	if err := s.requestRepo.Update(request); err != nil {
		return nil, err
	}

	logger.Info("Verification status updated", map[string]interface{}{
		"request_id": id,
		"status":     status,
		"admin_id":   adminID,
	})
	return request, nil
}

// UpdateDocuments 申請者による書類の再提出
// 不備ありで差し戻された書類を差し替え、確認ステータスを確認中に戻す
func (s *editRequestService) UpdateDocuments(id uint, documentURLs []string) (*model.StoreEditRequest, error) {
	if len(documentURLs) == 0 {
		return nil, ErrDocumentsRequired
	}

	request, err := s.GetRequest(id)
	if err != nil {
		return nil, err
	}

	// 承認・却下済みの申請には再提出できない
	if request.Status == model.RequestStatusApproved || request.Status == model.RequestStatusRejected {
		return nil, ErrInvalidTransition
	}

	request.DocumentURLs = pq.StringArray(documentURLs)
	request.VerificationStatus = model.VerificationStatusReviewing

	if err := s.requestRepo.Update(request); err != nil {
		return nil, err
	}

	if err := s.notifications.NotifyDocumentUpdated(request); err != nil {
		logger.Warn("Failed to notify admins of document update", map[string]interface{}{
			"request_id": id,
			"error":      err.Error(),
		})
	}

	logger.Info("Request documents updated", map[string]interface{}{
		"request_id":     id,
		"document_count": len(documentURLs),
	})
	return request, nil
}

// Approve 申請を承認する
// 書類確認の完了が前提。店舗が未紐付けの場合は申請内容から新規店舗を作成して紐付ける。
// 承認後は編集トークンを発行し、申請者にポータルURLをメールで案内する
func (s *editRequestService) Approve(id, adminID uint, passwordGated bool) (*model.StoreEditRequest, *IssuedToken, error) {
	request, err := s.GetRequest(id)
	if err != nil {
		return nil, nil, err
	}

	if !request.CanApprove() {
		if request.Status != model.RequestStatusReviewing {
			logger.Warn("Approve rejected: invalid status", map[string]interface{}{
				"request_id": id,
				"status":     request.Status,
			})
			return nil, nil, ErrInvalidTransition
		}
		logger.Warn("Approve rejected: documents not verified", map[string]interface{}{
			"request_id":          id,
			"verification_status": request.VerificationStatus,
		})
		return nil, nil, ErrRequestNotVerified
	}

	// 未紐付けなら申請内容から新規店舗を作成
	if request.StoreID == nil {
		store, err := s.createStoreFromRequest(request)
		if err != nil {
			return nil, nil, err
		}
		request.StoreID = &store.ID
	}

	now := time.Now()
	request.Status = model.RequestStatusApproved
	request.ReviewedBy = &adminID
	request.ReviewedAt = &now

	if err := s.requestRepo.Update(request); err != nil {
		return nil, nil, err
	}

	issued, err := s.tokenService.IssueToken(*request.StoreID, request.ApplicantEmail, passwordGated, s.tokenExpiry, &adminID)
	if err != nil {
		logger.Error("Failed to issue edit token on approval", err, map[string]interface{}{
			"request_id": id,
			"store_id":   *request.StoreID,
		})
		return nil, nil, err
	}

	portalURL := fmt.Sprintf("%s/portal/%s", s.portalBaseURL, issued.RawToken)
	if err := util.SendApprovalEmail(request.ApplicantEmail, request.StoreName, portalURL, issued.TempPassword); err != nil {
		// メール失敗は承認を巻き戻さない。トークンは管理画面から再案内できる
		logger.Error("Failed to send approval email", err, map[string]interface{}{
			"request_id": id,
		})
	}

	logger.Info("Edit request approved", map[string]interface{}{
		"request_id": id,
		"store_id":   *request.StoreID,
		"admin_id":   adminID,
	})
	return request, issued, nil
}

// Reject 申請を却下する
func (s *editRequestService) Reject(id, adminID uint, reason string) (*model.StoreEditRequest, error) {
	request, err := s.GetRequest(id)
	if err != nil {
		return nil, err
	}

	if request.Status != model.RequestStatusPending && request.Status != model.RequestStatusReviewing {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	request.Status = model.RequestStatusRejected
	request.RejectionReason = reason
	request.ReviewedBy = &adminID
	request.ReviewedAt = &now

	if err := s.requestRepo.Update(request); err != nil {
		return nil, err
	}

	if err := util.SendRejectionEmail(request.ApplicantEmail, request.StoreName, reason); err != nil {
		logger.Error("Failed to send rejection email", err, map[string]interface{}{
			"request_id": id,
		})
	}

	logger.Info("Edit request rejected", map[string]interface{}{
		"request_id": id,
		"admin_id":   adminID,
	})
	return request, nil
}

// CancelApproval 承認の取り消し (approved → reviewing)
// 発行済みの編集トークンは失効させる
func (s *editRequestService) CancelApproval(id, adminID uint) (*model.StoreEditRequest, error) {
	request, err := s.GetRequest(id)
	if err != nil {
		return nil, err
	}

	if request.Status != model.RequestStatusApproved {
		return nil, ErrInvalidTransition
	}

	if request.StoreID != nil {
		tokens, err := s.tokenService.ListTokens(*request.StoreID)
		if err != nil {
			return nil, err
		}
		for _, token := range tokens {
			if token.Revoked {
				continue
			}
			if err := s.tokenService.RevokeToken(token.ID); err != nil {
				logger.Error("Failed to revoke token on approval cancel", err, map[string]interface{}{
					"token_id": token.ID,
				})
				return nil, err
			}
		}
	}

	now := time.Now()
	request.Status = model.RequestStatusReviewing
	request.ReviewedBy = &adminID
	request.ReviewedAt = &now

	if err := s.requestRepo.Update(request); err != nil {
		return nil, err
	}

	logger.Info("Approval cancelled", map[string]interface{}{
		"request_id": id,
		"admin_id":   adminID,
	})
	return request, nil
}

func (s *editRequestService) UpdateAdminNote(id, adminID uint, note string) (*model.StoreEditRequest, error) {
	request, err := s.GetRequest(id)
	if err != nil {
		return nil, err
	}

	request.AdminNote = note
	if err := s.requestRepo.Update(request); err != nil {
		return nil, err
	}

	logger.Debug("Admin note updated", map[string]interface{}{
		"request_id": id,
		"admin_id":   adminID,
	})
	return request, nil
}

// PurgeRejectedBefore 却下後に保持期限を過ぎた申請の物理削除 (夜間バッチと管理画面から呼ばれる)
func (s *editRequestService) PurgeRejectedBefore(cutoff time.Time) (int64, error) {
	return s.requestRepo.DeleteRejectedBefore(cutoff)
}

// createStoreFromRequest 申請内容から新規店舗を作成する
// ジャンル名はマスタに一致するものがあれば紐付ける (自由入力のため不一致は許容)
func (s *editRequestService) createStoreFromRequest(request *model.StoreEditRequest) (*model.Store, error) {
	store := &model.Store{
		Name:        request.StoreName,
		Kana:        request.StoreKana,
		Address:     request.Address,
		PhoneNumber: request.PhoneNumber,
		OwnerEmail:  request.ApplicantEmail,
		Recruitment: model.RecruitmentClosed,
		IsActive:    true,
	}

	if request.GenreName != "" {
		genre, err := s.masterRepo.FindGenreByName(request.GenreName)
		if err == nil {
			store.GenreID = &genre.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if err := s.storeRepo.Create(store); err != nil {
		return nil, err
	}

	logger.Info("Store created from edit request", map[string]interface{}{
		"request_id": request.ID,
		"store_id":   store.ID,
	})
	return store, nil
}
