package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stakahashi/machinavi-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUploadTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	// 署名はローカルで計算されるためダミー認証情報で発行できる
	s3 := storage.NewS3Storage("ap-northeast-1", "machinavi-test", "test-key", "test-secret", "")
	ctrl := NewUploadController(s3)

	engine := gin.New()
	engine.POST("/api/v1/public/uploads/presigned-url", ctrl.GenerateDocumentPresignedURL)
	engine.POST("/api/v1/uploads/presigned-url", ctrl.GeneratePresignedURL)
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

// 申請フォームからは認証なしで確認書類のアップロードURLを取得できる
func TestGenerateDocumentPresignedURL(t *testing.T) {
	engine := setupUploadTestRouter()

	rec := postJSON(t, engine, "/api/v1/public/uploads/presigned-url", gin.H{
		"filename":     "eigyou-kyoka.pdf",
		"content_type": "application/pdf",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res storage.PresignedURLResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.UploadURL)
	assert.True(t, strings.HasPrefix(res.Key, "documents/"))
}

// 公開側は保存先フォルダを指定しても確認書類フォルダに固定される
func TestGenerateDocumentPresignedURL_FolderForced(t *testing.T) {
	engine := setupUploadTestRouter()

	rec := postJSON(t, engine, "/api/v1/public/uploads/presigned-url", gin.H{
		"filename":     "omise.png",
		"content_type": "image/png",
		"folder":       "stores",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res storage.PresignedURLResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, strings.HasPrefix(res.Key, "documents/"))
}

func TestGenerateDocumentPresignedURL_InvalidContentType(t *testing.T) {
	engine := setupUploadTestRouter()

	rec := postJSON(t, engine, "/api/v1/public/uploads/presigned-url", gin.H{
		"filename":     "virus.exe",
		"content_type": "application/octet-stream",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UPLOAD_INVALID_FILE_TYPE")
}

// 管理側は店舗画像フォルダを選べるがPDFは書類フォルダ限定
func TestGeneratePresignedURL_StoresFolderRejectsPDF(t *testing.T) {
	engine := setupUploadTestRouter()

	rec := postJSON(t, engine, "/api/v1/uploads/presigned-url", gin.H{
		"filename":     "menu.pdf",
		"content_type": "application/pdf",
		"folder":       "stores",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UPLOAD_INVALID_FILE_TYPE")
}
