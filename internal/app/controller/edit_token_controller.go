package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stakahashi/machinavi-backend/internal/app/service"
	apperrors "github.com/stakahashi/machinavi-backend/internal/errors"
	"github.com/stakahashi/machinavi-backend/internal/middleware"
)

// EditTokenController オーナー編集トークンの発行と失効
type EditTokenController struct {
	tokenService  service.EditTokenService
	tokenExpiry   time.Duration
	portalBaseURL string
}

func NewEditTokenController(tokenService service.EditTokenService, tokenExpiry time.Duration, portalBaseURL string) *EditTokenController {
	return &EditTokenController{
		tokenService:  tokenService,
		tokenExpiry:   tokenExpiry,
		portalBaseURL: portalBaseURL,
	}
}

type IssueTokenRequest struct {
	StoreID       uint   `json:"store_id" binding:"required"`
	OwnerEmail    string `json:"owner_email" binding:"required,email"`
	PasswordGated bool   `json:"password_gated"`
}

// IssueToken issues a new edit token for a store
// POST /api/v1/edit-tokens
func (ctrl *EditTokenController) IssueToken(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	var req IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid token issue request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	issued, err := ctrl.tokenService.IssueTokenWithInvite(req.StoreID, req.OwnerEmail, req.PasswordGated, ctrl.tokenExpiry, &adminID, ctrl.portalBaseURL)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, apperrors.StoreNotFound, "店舗が見つかりません")
			return
		}
		log.Error("Failed to issue edit token", err, map[string]interface{}{
			"store_id": req.StoreID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "issue edit token")
		return
	}

	log.Info("Edit token issued", map[string]interface{}{
		"token_id": issued.Token.ID,
		"store_id": req.StoreID,
		"admin_id": adminID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "編集トークンを発行しました",
		"edit_token": gin.H{
			"id":             issued.Token.ID,
			"token":          issued.RawToken,
			"temp_password":  issued.TempPassword,
			"expires_at":     issued.Token.ExpiresAt,
			"password_gated": issued.Token.PasswordGated(),
		},
	})
}

// ListTokens returns the tokens issued for a store
// GET /api/v1/stores/:id/edit-tokens
func (ctrl *EditTokenController) ListTokens(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	storeID, ok := parseIDParam(c)
	if !ok {
		return
	}

	tokens, err := ctrl.tokenService.ListTokens(storeID)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, apperrors.StoreNotFound, "店舗が見つかりません")
			return
		}
		log.Error("Failed to fetch edit tokens", err, map[string]interface{}{
			"store_id": storeID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list edit tokens")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
		"total":  len(tokens),
	})
}

// RevokeToken revokes an edit token
// DELETE /api/v1/edit-tokens/:id
func (ctrl *EditTokenController) RevokeToken(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.tokenService.RevokeToken(id); err != nil {
		if errors.Is(err, service.ErrEditTokenNotFound) {
			apperrors.NotFound(c, apperrors.EditTokenNotFound, "編集トークンが見つかりません")
			return
		}
		log.Error("Failed to revoke edit token", err, map[string]interface{}{
			"token_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "revoke edit token")
		return
	}

	log.Info("Edit token revoked", map[string]interface{}{
		"token_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "編集トークンを失効しました",
	})
}
