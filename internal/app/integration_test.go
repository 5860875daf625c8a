package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stakahashi/machinavi-backend/internal/app/controller"
	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/app/repository"
	"github.com/stakahashi/machinavi-backend/internal/app/service"
	"github.com/stakahashi/machinavi-backend/internal/db"
	"github.com/stakahashi/machinavi-backend/internal/middleware"
	"github.com/stakahashi/machinavi-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const integrationJWTSecret = "test-secret"

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	masterRepo := repository.NewMasterRepository(testDB)
	requestRepo := repository.NewEditRequestRepository(testDB)
	tokenRepo := repository.NewEditTokenRepository(testDB)
	notificationRepo := repository.NewNotificationRepository(testDB)
	resetRepo := repository.NewPasswordResetRepository(testDB)

	authService := service.NewAuthService(
		userRepo,
		integrationJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	passwordResetService := service.NewPasswordResetService(resetRepo, userRepo)
	notificationService := service.NewNotificationService(notificationRepo, nil)
	tokenService := service.NewEditTokenService(tokenRepo, storeRepo, notificationService)
	requestService := service.NewEditRequestService(
		requestRepo, storeRepo, masterRepo,
		tokenService, notificationService,
		"https://portal.machinavi.example.com", 720*time.Hour,
	)
	matchingService := service.NewMatchingService(testDB, requestRepo, storeRepo, masterRepo)
	portalService := service.NewOwnerPortalService(tokenRepo, storeRepo, masterRepo, time.Hour)

	authController := controller.NewAuthController(authService, passwordResetService)
	requestController := controller.NewEditRequestController(requestService, matchingService, 90)
	portalController := controller.NewPortalController(portalService)

	authMiddleware := middleware.NewAuthMiddleware(integrationJWTSecret)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.Authenticate(), authController.GetMe)
	}

	public := router.Group("/api/v1/public")
	{
		public.POST("/edit-requests", requestController.CreateRequest)
	}

	portal := router.Group("/api/v1/portal/:token")
	{
		portal.GET("", portalController.ResolveToken)
		portal.GET("/store", portalController.GetStore)
		portal.PUT("/store", portalController.UpdateStore)
	}

	requests := router.Group("/api/v1/edit-requests", authMiddleware.Authenticate())
	{
		requests.GET("", requestController.ListRequests)
		requests.POST("/:id/start-review", requestController.StartReview)
		requests.PUT("/:id/verification", requestController.SetVerification)
		requests.POST("/:id/approve", requestController.Approve)
		requests.GET("/:id/candidates", requestController.GetCandidates)
		requests.POST("/:id/confirm-match", requestController.ConfirmMatch)
	}

	return &TestServer{Router: router, DB: testDB}
}

func (ts *TestServer) createAdmin(t *testing.T, email, password string) *model.User {
	hash, err := util.HashPassword(password)
	require.NoError(t, err)

	admin := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "担当者",
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	require.NoError(t, ts.DB.Create(admin).Error)
	return admin
}

func (ts *TestServer) request(method, path string, body interface{}, accessToken string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func (ts *TestServer) login(t *testing.T, email, password string) string {
	w := ts.request(http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Tokens.AccessToken)
	return resp.Tokens.AccessToken
}

// 申請受付から承認、ポータルでの編集までの一連の流れ
func TestCompleteApprovalJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	ts.createAdmin(t, "admin@machinavi.jp", "admin-pass-123")

	// 既存店舗を用意しておく (照合候補になる)
	store := &model.Store{
		Name:        "炭火焼き鳥 とり勝",
		Address:     "東京都渋谷区道玄坂2-10-7",
		PhoneNumber: "03-1234-5678",
		IsActive:    true,
	}
	require.NoError(t, ts.DB.Create(store).Error)

	// 1. 公開フォームから申請 (認証不要)
	w := ts.request(http.MethodPost, "/api/v1/public/edit-requests", gin.H{
		"store_name":      "炭火焼き鳥 とり勝",
		"store_kana":      "スミビヤキトリ トリカツ",
		"address":         "東京都渋谷区道玄坂2-10-7",
		"phone_number":    "03-1234-5678",
		"applicant_name":  "田中一郎",
		"applicant_email": "tanaka@example.com",
		"document_urls":   []string{"https://storage.example.com/docs/license.pdf"},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Request struct {
			ID uint `json:"id"`
		} `json:"request"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	requestID := created.Request.ID
	require.NotZero(t, requestID)

	// 2. 管理者ログイン
	token := ts.login(t, "admin@machinavi.jp", "admin-pass-123")

	// 3. 審査開始
	w = ts.request(http.MethodPost, fmt.Sprintf("/api/v1/edit-requests/%d/start-review", requestID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	// 4. 照合候補の取得 (名前と電話が一致するので満点)
	w = ts.request(http.MethodGet, fmt.Sprintf("/api/v1/edit-requests/%d/candidates", requestID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var candidates struct {
		Count      int `json:"count"`
		Candidates []struct {
			Store struct {
				ID uint `json:"id"`
			} `json:"store"`
			Score int `json:"score"`
		} `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &candidates))
	require.Equal(t, 1, candidates.Count)
	assert.Equal(t, store.ID, candidates.Candidates[0].Store.ID)
	assert.Equal(t, 100, candidates.Candidates[0].Score)

	// 5. 店舗への紐付け確定
	w = ts.request(http.MethodPost, fmt.Sprintf("/api/v1/edit-requests/%d/confirm-match", requestID), gin.H{
		"store_id":      store.ID,
		"apply_changes": false,
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	// 6. 書類確認を完了させて承認
	w = ts.request(http.MethodPut, fmt.Sprintf("/api/v1/edit-requests/%d/verification", requestID), gin.H{
		"status": "verified",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.request(http.MethodPost, fmt.Sprintf("/api/v1/edit-requests/%d/approve", requestID), gin.H{
		"password_gated": false,
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var approved struct {
		EditToken struct {
			Token         string `json:"token"`
			PasswordGated bool   `json:"password_gated"`
		} `json:"edit_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &approved))
	require.NotEmpty(t, approved.EditToken.Token)
	assert.False(t, approved.EditToken.PasswordGated)

	// 7. 発行された編集リンクでポータルにアクセス
	portalPath := "/api/v1/portal/" + approved.EditToken.Token
	w = ts.request(http.MethodGet, portalPath, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.request(http.MethodGet, portalPath+"/store", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	// 8. ポータルから店舗情報を更新
	w = ts.request(http.MethodPut, portalPath+"/store", gin.H{
		"phone_number": "03-9999-0000",
		"description":  "備長炭で焼く本格焼き鳥の店です。",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var updated model.Store
	require.NoError(t, ts.DB.First(&updated, store.ID).Error)
	assert.Equal(t, "03-9999-0000", updated.PhoneNumber)
	assert.Equal(t, "炭火焼き鳥 とり勝", updated.Name)
}

func TestAuthenticationFlow(t *testing.T) {
	ts := setupIntegrationTest(t)
	ts.createAdmin(t, "staff@machinavi.jp", "staff-pass-123")

	// 正しい認証情報でログイン
	token := ts.login(t, "staff@machinavi.jp", "staff-pass-123")

	w := ts.request(http.MethodGet, "/api/v1/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "staff@machinavi.jp", me.User.Email)

	// 間違ったパスワード
	w = ts.request(http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "staff@machinavi.jp",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 存在しないユーザー
	w = ts.request(http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "nobody@machinavi.jp",
		"password": "whatever-123",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnauthorizedAccess(t *testing.T) {
	ts := setupIntegrationTest(t)

	// トークンなしで管理APIにアクセス
	w := ts.request(http.MethodGet, "/api/v1/edit-requests", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 不正なトークン
	w = ts.request(http.MethodGet, "/api/v1/edit-requests", nil, "invalid.jwt.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 存在しない編集リンク
	w = ts.request(http.MethodGet, "/api/v1/portal/unknown-token", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
