package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupEditTokenTest(t *testing.T) (*gorm.DB, EditTokenRepository, *model.Store) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	store := &model.Store{Name: "炭火焼き鳥 とり勝", IsActive: true}
	require.NoError(t, testDB.Create(store).Error)

	repo := NewEditTokenRepository(testDB)
	return testDB, repo, store
}

func TestEditTokenRepository_CreateAndFind(t *testing.T) {
	testDB, repo, store := setupEditTokenTest(t)
	defer db.CleanupTestDB(testDB)

	token := &model.EditToken{
		Token:     uuid.NewString(),
		StoreID:   store.ID,
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, repo.Create(token))
	assert.NotZero(t, token.ID)

	found, err := repo.FindByToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, store.ID, found.StoreID)
	require.NotNil(t, found.Store)
	assert.Equal(t, store.Name, found.Store.Name)

	_, err = repo.FindByToken("unknown-token")
	assert.Error(t, err)
}

func TestEditTokenRepository_Revoke(t *testing.T) {
	testDB, repo, store := setupEditTokenTest(t)
	defer db.CleanupTestDB(testDB)

	token := &model.EditToken{
		Token:     uuid.NewString(),
		StoreID:   store.ID,
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, repo.Create(token))

	require.NoError(t, repo.Revoke(token.ID))

	found, err := repo.FindByToken(token.Token)
	require.NoError(t, err)
	assert.True(t, found.Revoked)
	assert.False(t, found.Usable(time.Now()))
}

func TestEditTokenRepository_RevokeExpired(t *testing.T) {
	testDB, repo, store := setupEditTokenTest(t)
	defer db.CleanupTestDB(testDB)

	expired := &model.EditToken{
		Token:     uuid.NewString(),
		StoreID:   store.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.Create(expired))

	valid := &model.EditToken{
		Token:     uuid.NewString(),
		StoreID:   store.ID,
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, repo.Create(valid))

	count, err := repo.RevokeExpired(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	tokens, err := repo.FindByStoreID(store.ID)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	for _, tok := range tokens {
		if tok.ID == expired.ID {
			assert.True(t, tok.Revoked)
		} else {
			assert.False(t, tok.Revoked)
		}
	}
}

func TestEditTokenRepository_TouchLastUsed(t *testing.T) {
	testDB, repo, store := setupEditTokenTest(t)
	defer db.CleanupTestDB(testDB)

	token := &model.EditToken{
		Token:     uuid.NewString(),
		StoreID:   store.ID,
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, repo.Create(token))
	require.Nil(t, token.LastUsedAt)

	usedAt := time.Now()
	require.NoError(t, repo.TouchLastUsed(token.ID, usedAt))

	found, err := repo.FindByID(token.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastUsedAt)
	assert.WithinDuration(t, usedAt, *found.LastUsedAt, time.Second)
}
