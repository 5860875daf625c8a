package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/app/repository"
	"github.com/stakahashi/machinavi-backend/internal/db"
	"github.com/stakahashi/machinavi-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOwnerPortalServiceTest(t *testing.T) (*gorm.DB, OwnerPortalService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	svc := NewOwnerPortalService(
		repository.NewEditTokenRepository(testDB),
		repository.NewStoreRepository(testDB),
		repository.NewMasterRepository(testDB),
		time.Hour,
	)
	return testDB, svc
}

func createPortalTestStore(t *testing.T, testDB *gorm.DB) *model.Store {
	store := &model.Store{
		Name:        "炭火焼き鳥 とり勝",
		PhoneNumber: "03-1234-5678",
		Recruitment: model.RecruitmentClosed,
		IsActive:    true,
	}
	require.NoError(t, testDB.Create(store).Error)
	return store
}

func createPortalTestToken(t *testing.T, testDB *gorm.DB, storeID uint, passwordHash string) (string, *model.EditToken) {
	raw := uuid.NewString()
	token := &model.EditToken{
		Token:        raw,
		StoreID:      storeID,
		ExpiresAt:    time.Now().Add(24 * time.Hour),
		OwnerEmail:   "owner@example.com",
		PasswordHash: passwordHash,
	}
	require.NoError(t, testDB.Create(token).Error)
	return raw, token
}

func TestOwnerPortalService_ResolveToken(t *testing.T) {
	testDB, svc := setupOwnerPortalServiceTest(t)
	store := createPortalTestStore(t, testDB)

	raw, token := createPortalTestToken(t, testDB, store.ID, "")

	resolved, err := svc.ResolveToken(raw)
	require.NoError(t, err)
	assert.Equal(t, token.ID, resolved.ID)
	assert.Equal(t, store.ID, resolved.StoreID)

	_, err = svc.ResolveToken(uuid.NewString())
	assert.ErrorIs(t, err, ErrEditTokenNotFound)
}

func TestOwnerPortalService_ResolveToken_ExpiredAndRevoked(t *testing.T) {
	testDB, svc := setupOwnerPortalServiceTest(t)
	store := createPortalTestStore(t, testDB)

	expiredRaw, expired := createPortalTestToken(t, testDB, store.ID, "")
	require.NoError(t, testDB.Model(expired).Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err := svc.ResolveToken(expiredRaw)
	assert.ErrorIs(t, err, ErrEditTokenExpired)

	revokedRaw, revoked := createPortalTestToken(t, testDB, store.ID, "")
	require.NoError(t, testDB.Model(revoked).Update("revoked", true).Error)

	_, err = svc.ResolveToken(revokedRaw)
	assert.ErrorIs(t, err, ErrEditTokenRevoked)
}

func TestOwnerPortalService_Login(t *testing.T) {
	testDB, svc := setupOwnerPortalServiceTest(t)
	store := createPortalTestStore(t, testDB)
	ctx := context.Background()

	// ゲートなしトークンはセッション不要
	ungatedRaw, _ := createPortalTestToken(t, testDB, store.ID, "")
	sessionID, err := svc.Login(ctx, ungatedRaw, "", "")
	require.NoError(t, err)
	assert.Empty(t, sessionID)

	// ゲート付きトークンで認証情報が誤っている場合
	hash, err := util.HashPassword("correct-password")
	require.NoError(t, err)
	gatedRaw, _ := createPortalTestToken(t, testDB, store.ID, hash)

	_, err = svc.Login(ctx, gatedRaw, "owner@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrPortalAuthFailed)

	_, err = svc.Login(ctx, gatedRaw, "other@example.com", "correct-password")
	assert.ErrorIs(t, err, ErrPortalAuthFailed)
}

func TestOwnerPortalService_Login_PasswordGated(t *testing.T) {
	testDB, svc := setupOwnerPortalServiceTest(t)
	store := createPortalTestStore(t, testDB)
	ctx := context.Background()

	hash, err := util.HashPassword("correct-password")
	require.NoError(t, err)
	raw, _ := createPortalTestToken(t, testDB, store.ID, hash)

	// 正しい認証情報でセッションが払い出される
	sessionID, err := svc.Login(ctx, raw, "owner@example.com", "correct-password")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	// 払い出されたセッションでゲート付き店舗を参照・更新できる
	found, err := svc.GetStore(ctx, raw, sessionID)
	require.NoError(t, err)
	assert.Equal(t, store.ID, found.ID)

	updated, err := svc.UpdateStore(ctx, raw, sessionID, PortalStoreInput{
		PhoneNumber: "03-9999-0000",
	})
	require.NoError(t, err)
	assert.Equal(t, "03-9999-0000", updated.PhoneNumber)

	// ログアウト後は再認証が必要
	require.NoError(t, svc.Logout(ctx, sessionID))
	_, err = svc.GetStore(ctx, raw, sessionID)
	assert.ErrorIs(t, err, ErrPortalAuthRequired)
}

func TestOwnerPortalService_GetStore(t *testing.T) {
	testDB, svc := setupOwnerPortalServiceTest(t)
	store := createPortalTestStore(t, testDB)
	ctx := context.Background()

	raw, _ := createPortalTestToken(t, testDB, store.ID, "")

	found, err := svc.GetStore(ctx, raw, "")
	require.NoError(t, err)
	assert.Equal(t, store.ID, found.ID)
	assert.Equal(t, "炭火焼き鳥 とり勝", found.Name)
}

func TestOwnerPortalService_GetStore_SessionRequired(t *testing.T) {
	testDB, svc := setupOwnerPortalServiceTest(t)
	store := createPortalTestStore(t, testDB)
	ctx := context.Background()

	hash, err := util.HashPassword("correct-password")
	require.NoError(t, err)
	raw, _ := createPortalTestToken(t, testDB, store.ID, hash)

	// ゲート付きトークンはセッションなしで参照できない
	_, err = svc.GetStore(ctx, raw, "")
	assert.ErrorIs(t, err, ErrPortalAuthRequired)
}

func TestOwnerPortalService_UpdateStore(t *testing.T) {
	testDB, svc := setupOwnerPortalServiceTest(t)
	store := createPortalTestStore(t, testDB)
	ctx := context.Background()

	raw, token := createPortalTestToken(t, testDB, store.ID, "")

	updated, err := svc.UpdateStore(ctx, raw, "", PortalStoreInput{
		PhoneNumber: "03-9999-0000",
		Description: "秘伝のタレで焼き上げる焼き鳥店です",
		OpenTime:    "17:00",
		CloseTime:   "23:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "03-9999-0000", updated.PhoneNumber)
	assert.Equal(t, "秘伝のタレで焼き上げる焼き鳥店です", updated.Description)
	assert.Equal(t, "17:00", updated.OpenTime)

	// 空フィールドは既存値を保持する
	assert.Equal(t, "炭火焼き鳥 とり勝", updated.Name)

	// 利用日時が記録される
	var reloaded model.EditToken
	require.NoError(t, testDB.First(&reloaded, token.ID).Error)
	require.NotNil(t, reloaded.LastUsedAt)
}

func TestOwnerPortalService_UpdateStore_Recruitment(t *testing.T) {
	testDB, svc := setupOwnerPortalServiceTest(t)
	ctx := context.Background()

	freePlan := &model.Plan{Code: "free", Name: "フリー", CanRecruit: false}
	paidPlan := &model.Plan{Code: "standard", Name: "スタンダード", MonthlyFee: 5000, CanRecruit: true}
	require.NoError(t, testDB.Create(freePlan).Error)
	require.NoError(t, testDB.Create(paidPlan).Error)

	store := createPortalTestStore(t, testDB)
	require.NoError(t, testDB.Model(store).Update("plan_id", freePlan.ID).Error)
	raw, _ := createPortalTestToken(t, testDB, store.ID, "")

	open := model.RecruitmentOpen

	// 求人不可プランでは募集を開始できない
	_, err := svc.UpdateStore(ctx, raw, "", PortalStoreInput{Recruitment: &open})
	assert.ErrorIs(t, err, ErrPlanCannotRecruit)

	require.NoError(t, testDB.Model(store).Update("plan_id", paidPlan.ID).Error)

	updated, err := svc.UpdateStore(ctx, raw, "", PortalStoreInput{Recruitment: &open})
	require.NoError(t, err)
	assert.Equal(t, model.RecruitmentOpen, updated.Recruitment)
}
