package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stakahashi/machinavi-backend/internal/app/repository"
	"github.com/stakahashi/machinavi-backend/internal/app/service"
	apperrors "github.com/stakahashi/machinavi-backend/internal/errors"
	"github.com/stakahashi/machinavi-backend/internal/middleware"
)

// EditRequestController 店舗編集申請の受付と審査ワークフロー
type EditRequestController struct {
	requestService  service.EditRequestService
	matchingService service.MatchingService
	purgeAfterDays  int
}

func NewEditRequestController(
	requestService service.EditRequestService,
	matchingService service.MatchingService,
	purgeAfterDays int,
) *EditRequestController {
	return &EditRequestController{
		requestService:  requestService,
		matchingService: matchingService,
		purgeAfterDays:  purgeAfterDays,
	}
}

type SetVerificationRequest struct {
	Status string `json:"status" binding:"required,oneof=pending reviewing verified rejected"`
	Note   string `json:"note"`
}

type UpdateDocumentsRequest struct {
	DocumentURLs []string `json:"document_urls" binding:"required,min=1"`
}

type ApproveRequest struct {
	PasswordGated bool `json:"password_gated"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type UpdateAdminNoteRequest struct {
	Note string `json:"note"`
}

type ConfirmMatchRequest struct {
	StoreID      uint `json:"store_id" binding:"required"`
	ApplyChanges bool `json:"apply_changes"`
}

func (ctrl *EditRequestController) respondRequestServiceError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		apperrors.NotFound(c, apperrors.RequestNotFound, "申請が見つかりません")
	case errors.Is(err, service.ErrInvalidTransition):
		apperrors.Conflict(c, apperrors.RequestInvalidTransition, "現在のステータスではこの操作はできません")
	case errors.Is(err, service.ErrRequestNotVerified):
		apperrors.Conflict(c, apperrors.RequestNotVerified, "書類確認が完了していないため承認できません")
	case errors.Is(err, service.ErrDocumentsRequired):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "確認書類を1件以上添付してください")
	case errors.Is(err, service.ErrStoreNotFound):
		apperrors.NotFound(c, apperrors.StoreNotFound, "店舗が見つかりません")
	case errors.Is(err, service.ErrStoreConflict):
		apperrors.Conflict(c, apperrors.StoreConflict, "店舗情報が他の操作で更新されています。再読み込みしてやり直してください")
	default:
		log.Error("Edit request operation failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// CreateRequest accepts a store edit request from the public form
// POST /api/v1/public/edit-requests
func (ctrl *EditRequestController) CreateRequest(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.EditRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid edit request submission", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	request, err := ctrl.requestService.CreateRequest(input)
	if err != nil {
		ctrl.respondRequestServiceError(c, err, "create edit request")
		return
	}

	log.Info("Edit request accepted", map[string]interface{}{
		"request_id": request.ID,
		"store_name": request.StoreName,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "申請を受け付けました。審査完了までお待ちください",
		"request": gin.H{
			"id":     request.ID,
			"status": request.Status,
		},
	})
}

// UpdateDocuments replaces the submitted documents (resubmission)
// PUT /api/v1/public/edit-requests/:id/documents
func (ctrl *EditRequestController) UpdateDocuments(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "確認書類を1件以上添付してください")
		return
	}

	request, err := ctrl.requestService.UpdateDocuments(id, req.DocumentURLs)
	if err != nil {
		ctrl.respondRequestServiceError(c, err, "update documents")
		return
	}

	log.Info("Request documents resubmitted", map[string]interface{}{
		"request_id":     id,
		"document_count": len(req.DocumentURLs),
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "書類を再提出しました",
		"request": gin.H{
			"id":                  request.ID,
			"status":              request.Status,
			"verification_status": request.VerificationStatus,
		},
	})
}

// ListRequests returns edit requests with filters
// GET /api/v1/edit-requests
func (ctrl *EditRequestController) ListRequests(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.EditRequestFilter{
		Status:             c.Query("status"),
		VerificationStatus: c.Query("verification_status"),
		Search:             c.Query("search"),
	}
	filter.Limit, filter.Offset = parsePagination(c)

	if v := c.Query("store_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			storeID := uint(id)
			filter.StoreID = &storeID
		}
	}

	requests, total, err := ctrl.requestService.ListRequests(filter)
	if err != nil {
		log.Error("Failed to fetch edit requests", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list edit requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    total,
	})
}

// GetRequest returns an edit request by ID
// GET /api/v1/edit-requests/:id
func (ctrl *EditRequestController) GetRequest(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	request, err := ctrl.requestService.GetRequest(id)
	if err != nil {
		ctrl.respondRequestServiceError(c, err, "get edit request")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request": request,
	})
}

// StartReview moves a pending request into review
// POST /api/v1/edit-requests/:id/start-review
func (ctrl *EditRequestController) StartReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	request, err := ctrl.requestService.StartReview(id, adminID)
	if err != nil {
		ctrl.respondRequestServiceError(c, err, "start review")
		return
	}

	log.Info("Review started", map[string]interface{}{
		"request_id": id,
		"admin_id":   adminID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "審査を開始しました",
		"request": request,
	})
}

// SetVerification updates the document verification status
// PUT /api/v1/edit-requests/:id/verification
func (ctrl *EditRequestController) SetVerification(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	var req SetVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid verification request", map[string]interface{}{
			"request_id": id,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	request, err := ctrl.requestService.SetVerificationStatus(id, adminID, req.Status, req.Note)
	if err != nil {
		ctrl.respondRequestServiceError(c, err, "set verification status")
		return
	}

	log.Info("Verification status changed", map[string]interface{}{
		"request_id": id,
		"status":     req.Status,
		"admin_id":   adminID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "書類確認ステータスを更新しました",
		"request": request,
	})
}

// Approve approves a verified request and issues an edit token
// POST /api/v1/edit-requests/:id/approve
func (ctrl *EditRequestController) Approve(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	request, issued, err := ctrl.requestService.Approve(id, adminID, req.PasswordGated)
	if err != nil {
		ctrl.respondRequestServiceError(c, err, "approve edit request")
		return
	}

	log.Info("Edit request approved", map[string]interface{}{
		"request_id": id,
		"store_id":   request.StoreID,
		"admin_id":   adminID,
	})

	// 生トークンは発行直後のこのレスポンスでのみ返す
	c.JSON(http.StatusOK, gin.H{
		"message": "申請を承認しました",
		"request": request,
		"edit_token": gin.H{
			"id":             issued.Token.ID,
			"token":          issued.RawToken,
			"expires_at":     issued.Token.ExpiresAt,
			"password_gated": issued.Token.PasswordGated(),
		},
	})
}

// Reject rejects a request with a reason
// POST /api/v1/edit-requests/:id/reject
func (ctrl *EditRequestController) Reject(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "却下理由を入力してください")
		return
	}

	request, err := ctrl.requestService.Reject(id, adminID, req.Reason)
	if err != nil {
		ctrl.respondRequestServiceError(c, err, "reject edit request")
		return
	}

	log.Info("Edit request rejected", map[string]interface{}{
		"request_id": id,
		"admin_id":   adminID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "申請を却下しました",
		"request": request,
	})
}

// CancelApproval reverts an approved request back to review
// POST /api/v1/edit-requests/:id/cancel-approval
func (ctrl *EditRequestController) CancelApproval(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	request, err := ctrl.requestService.CancelApproval(id, adminID)
	if err != nil {
		ctrl.respondRequestServiceError(c, err, "cancel approval")
		return
	}

	log.Info("Approval cancelled", map[string]interface{}{
		"request_id": id,
		"admin_id":   adminID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "承認を取り消しました",
		"request": request,
	})
}

// UpdateAdminNote saves an internal memo on the request
// PUT /api/v1/edit-requests/:id/note
func (ctrl *EditRequestController) UpdateAdminNote(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	var req UpdateAdminNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	request, err := ctrl.requestService.UpdateAdminNote(id, adminID, req.Note)
	if err != nil {
		ctrl.respondRequestServiceError(c, err, "update admin note")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "メモを保存しました",
		"request": request,
	})
}

// PurgeRejected physically deletes rejected requests past the retention period
// DELETE /api/v1/edit-requests/rejected
func (ctrl *EditRequestController) PurgeRejected(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	days := ctrl.purgeAfterDays
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "保持日数の指定が正しくありません")
			return
		}
		days = parsed
	}

	count, err := ctrl.requestService.PurgeRejectedBefore(time.Now().AddDate(0, 0, -days))
	if err != nil {
		log.Error("Failed to purge rejected requests", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "purge rejected requests")
		return
	}

	log.Info("Rejected requests purged", map[string]interface{}{
		"count": count,
		"days":  days,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "却下済み申請を削除しました",
		"count":   count,
	})
}

// GetCandidates returns matching candidate stores for a request
// GET /api/v1/edit-requests/:id/candidates
func (ctrl *EditRequestController) GetCandidates(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	candidates, err := ctrl.matchingService.GetCandidates(id)
	if err != nil {
		ctrl.respondRequestServiceError(c, err, "get match candidates")
		return
	}

	log.Info("Match candidates computed", map[string]interface{}{
		"request_id": id,
		"count":      len(candidates),
	})

	// 候補0件は正常系 (新規店舗の申請)
	c.JSON(http.StatusOK, gin.H{
		"candidates": candidates,
		"count":      len(candidates),
	})
}

// ConfirmMatch links a request to a store, optionally applying its changes
// POST /api/v1/edit-requests/:id/confirm-match
func (ctrl *EditRequestController) ConfirmMatch(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req ConfirmMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid confirm match request", map[string]interface{}{
			"request_id": id,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	store, err := ctrl.matchingService.ConfirmMatch(id, req.StoreID, req.ApplyChanges)
	if err != nil {
		ctrl.respondRequestServiceError(c, err, "confirm match")
		return
	}

	log.Info("Match confirmed", map[string]interface{}{
		"request_id":    id,
		"store_id":      req.StoreID,
		"apply_changes": req.ApplyChanges,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "店舗への紐付けを確定しました",
		"store":   store,
	})
}
