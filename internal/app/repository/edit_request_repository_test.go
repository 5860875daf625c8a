package repository

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupEditRequestTest(t *testing.T) (*gorm.DB, EditRequestRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewEditRequestRepository(testDB)
	return testDB, repo
}

func newTestRequest(storeName string) *model.StoreEditRequest {
	return &model.StoreEditRequest{
		StoreName:      storeName,
		Address:        "東京都渋谷区道玄坂2-10-7",
		PhoneNumber:    "03-1234-5678",
		ApplicantName:  "田中一郎",
		ApplicantEmail: "tanaka@example.com",
		DocumentURLs:   pq.StringArray{"https://example.com/doc1.pdf"},
		Status:         model.RequestStatusPending,
	}
}

func TestEditRequestRepository_Create(t *testing.T) {
	testDB, repo := setupEditRequestTest(t)
	defer db.CleanupTestDB(testDB)

	request := newTestRequest("炭火焼き鳥 とり勝")
	err := repo.Create(request)
	require.NoError(t, err)
	assert.NotZero(t, request.ID)

	found, err := repo.FindByID(request.ID)
	require.NoError(t, err)
	assert.Equal(t, "炭火焼き鳥 とり勝", found.StoreName)
	assert.Equal(t, model.RequestStatusPending, found.Status)
	assert.Len(t, found.DocumentURLs, 1)
}

func TestEditRequestRepository_FindAll(t *testing.T) {
	testDB, repo := setupEditRequestTest(t)
	defer db.CleanupTestDB(testDB)

	pending := newTestRequest("炭火焼き鳥 とり勝")
	require.NoError(t, repo.Create(pending))

	reviewing := newTestRequest("らーめん一番")
	reviewing.Status = model.RequestStatusReviewing
	reviewing.VerificationStatus = model.VerificationStatusVerified
	require.NoError(t, repo.Create(reviewing))

	tests := []struct {
		name      string
		filter    EditRequestFilter
		wantCount int
	}{
		{
			name:      "No filter",
			filter:    EditRequestFilter{},
			wantCount: 2,
		},
		{
			name:      "Status filter",
			filter:    EditRequestFilter{Status: model.RequestStatusReviewing},
			wantCount: 1,
		},
		{
			name:      "Verification filter",
			filter:    EditRequestFilter{VerificationStatus: model.VerificationStatusVerified},
			wantCount: 1,
		},
		{
			name:      "Search by store name",
			filter:    EditRequestFilter{Search: "らーめん"},
			wantCount: 1,
		},
		{
			name:      "Search by applicant name",
			filter:    EditRequestFilter{Search: "田中"},
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, total, err := repo.FindAll(tt.filter)
			require.NoError(t, err)
			assert.Len(t, found, tt.wantCount)
			assert.Equal(t, int64(tt.wantCount), total)
		})
	}
}

func TestEditRequestRepository_Update(t *testing.T) {
	testDB, repo := setupEditRequestTest(t)
	defer db.CleanupTestDB(testDB)

	request := newTestRequest("炭火焼き鳥 とり勝")
	require.NoError(t, repo.Create(request))

	request.Status = model.RequestStatusReviewing
	request.VerificationStatus = model.VerificationStatusReviewing
	require.NoError(t, repo.Update(request))

	found, err := repo.FindByID(request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusReviewing, found.Status)
	assert.Equal(t, model.VerificationStatusReviewing, found.VerificationStatus)
}

func TestEditRequestRepository_DeleteRejectedBefore(t *testing.T) {
	testDB, repo := setupEditRequestTest(t)
	defer db.CleanupTestDB(testDB)

	// 90日前に却下された申請
	old := newTestRequest("古い申請の店")
	old.Status = model.RequestStatusRejected
	require.NoError(t, repo.Create(old))
	require.NoError(t, testDB.Model(old).
		UpdateColumn("updated_at", time.Now().AddDate(0, 0, -91)).Error)

	// 却下直後の申請はまだ残す
	recent := newTestRequest("最近の申請の店")
	recent.Status = model.RequestStatusRejected
	require.NoError(t, repo.Create(recent))

	// 審査中の申請は対象外
	active := newTestRequest("審査中の店")
	active.Status = model.RequestStatusReviewing
	require.NoError(t, repo.Create(active))

	cutoff := time.Now().AddDate(0, 0, -90)
	deleted, err := repo.DeleteRejectedBefore(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, total, err := repo.FindAll(EditRequestFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, r := range remaining {
		assert.NotEqual(t, "古い申請の店", r.StoreName)
	}
}
