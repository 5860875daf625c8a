package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/stakahashi/machinavi-backend/internal/errors"
	"github.com/stakahashi/machinavi-backend/internal/middleware"
	"github.com/stakahashi/machinavi-backend/internal/storage"
)

// UploadController 確認書類と店舗画像のアップロードURL発行
type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

var imageContentTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

// 確認書類はPDFも受け付ける
var documentContentTypes = append([]string{"application/pdf"}, imageContentTypes...)

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder" binding:"omitempty,oneof=documents stores"`
}

// GeneratePresignedURL generates a presigned URL for uploading files to S3
// POST /api/v1/uploads/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	folder := req.Folder
	if folder == "" {
		folder = "documents"
	}

	ctrl.issuePresignedURL(c, req, folder)
}

// GenerateDocumentPresignedURL 公開申請フォームからの確認書類アップロードURL発行
// POST /api/v1/public/uploads/presigned-url
// 認証なしで呼べるため、保存先は確認書類フォルダに固定する
func (ctrl *UploadController) GenerateDocumentPresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	ctrl.issuePresignedURL(c, req, "documents")
}

func (ctrl *UploadController) issuePresignedURL(c *gin.Context, req GeneratePresignedURLRequest, folder string) {
	log := middleware.GetLoggerFromContext(c)

	allowedTypes := imageContentTypes
	if folder == "documents" {
		allowedTypes = documentContentTypes
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedTypes); err != nil {
		log.Warn("Rejected content type", map[string]interface{}{
			"content_type": req.ContentType,
			"folder":       folder,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "このファイル形式はアップロードできません")
		return
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"folder":       folder,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "アップロードURLの発行に失敗しました")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"folder": folder,
	})

	c.JSON(http.StatusOK, response)
}
