package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stakahashi/machinavi-backend/internal/app/service"
	apperrors "github.com/stakahashi/machinavi-backend/internal/errors"
	"github.com/stakahashi/machinavi-backend/internal/middleware"
)

// PortalController オーナー編集ポータル
// JWT認証ではなく編集トークン (パス) とセッションID (ヘッダー) で認可する
type PortalController struct {
	portalService service.OwnerPortalService
}

func NewPortalController(portalService service.OwnerPortalService) *PortalController {
	return &PortalController{
		portalService: portalService,
	}
}

const portalSessionHeader = "X-Portal-Session"

type PortalLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ctrl *PortalController) respondPortalError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrEditTokenNotFound):
		apperrors.NotFound(c, apperrors.EditTokenNotFound, "編集リンクが見つかりません")
	case errors.Is(err, service.ErrEditTokenExpired):
		apperrors.RespondWithError(c, http.StatusGone, apperrors.EditTokenExpired, "編集リンクの有効期限が切れています")
	case errors.Is(err, service.ErrEditTokenRevoked):
		apperrors.RespondWithError(c, http.StatusGone, apperrors.EditTokenRevoked, "この編集リンクは無効化されています")
	case errors.Is(err, service.ErrPortalAuthRequired):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.EditTokenGated, "メールアドレスとパスワードによる認証が必要です")
	case errors.Is(err, service.ErrPortalAuthFailed):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "メールアドレスまたはパスワードが正しくありません")
	case errors.Is(err, service.ErrStoreNotFound):
		apperrors.NotFound(c, apperrors.StoreNotFound, "店舗が見つかりません")
	case errors.Is(err, service.ErrPlanCannotRecruit):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "現在のプランでは求人を掲載できません")
	default:
		log.Error("Portal operation failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// ResolveToken validates an edit link and reports whether login is required
// GET /api/v1/portal/:token
func (ctrl *PortalController) ResolveToken(c *gin.Context) {
	token, err := ctrl.portalService.ResolveToken(c.Param("token"))
	if err != nil {
		ctrl.respondPortalError(c, err, "resolve edit token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store_id":       token.StoreID,
		"password_gated": token.PasswordGated(),
		"expires_at":     token.ExpiresAt,
	})
}

// Login authenticates a password-gated edit link and opens a session
// POST /api/v1/portal/:token/login
func (ctrl *PortalController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PortalLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "メールアドレスとパスワードを入力してください")
		return
	}

	sessionID, err := ctrl.portalService.Login(c.Request.Context(), c.Param("token"), req.Email, req.Password)
	if err != nil {
		ctrl.respondPortalError(c, err, "portal login")
		return
	}

	log.Info("Portal login succeeded", map[string]interface{}{
		"gated": sessionID != "",
	})

	c.JSON(http.StatusOK, gin.H{
		"message":    "ログインしました",
		"session_id": sessionID,
	})
}

// Logout closes the portal session
// POST /api/v1/portal/:token/logout
func (ctrl *PortalController) Logout(c *gin.Context) {
	sessionID := c.GetHeader(portalSessionHeader)
	if sessionID != "" {
		if err := ctrl.portalService.Logout(c.Request.Context(), sessionID); err != nil {
			log := middleware.GetLoggerFromContext(c)
			log.Warn("Portal logout failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "ログアウトしました",
	})
}

// GetStore returns the store bound to the edit link
// GET /api/v1/portal/:token/store
func (ctrl *PortalController) GetStore(c *gin.Context) {
	store, err := ctrl.portalService.GetStore(c.Request.Context(), c.Param("token"), c.GetHeader(portalSessionHeader))
	if err != nil {
		ctrl.respondPortalError(c, err, "portal get store")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store": store,
	})
}

// UpdateStore updates the owner-editable fields of the store
// PUT /api/v1/portal/:token/store
func (ctrl *PortalController) UpdateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.PortalStoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid portal store update", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	store, err := ctrl.portalService.UpdateStore(c.Request.Context(), c.Param("token"), c.GetHeader(portalSessionHeader), input)
	if err != nil {
		ctrl.respondPortalError(c, err, "portal update store")
		return
	}

	log.Info("Store updated via portal", map[string]interface{}{
		"store_id": store.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "店舗情報を更新しました",
		"store":   store,
	})
}
