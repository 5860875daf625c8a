package repository

import (
	"testing"

	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupStoreTest(t *testing.T) (*gorm.DB, StoreRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewStoreRepository(testDB)
	return testDB, repo
}

func seedStoreTestMaster(t *testing.T, testDB *gorm.DB) (*model.Genre, *model.Station) {
	genre := &model.Genre{Name: "居酒屋"}
	require.NoError(t, testDB.Create(genre).Error)

	line := &model.RailwayLine{Name: "JR山手線"}
	require.NoError(t, testDB.Create(line).Error)

	station := &model.Station{Name: "渋谷", RailwayLineID: line.ID}
	require.NoError(t, testDB.Create(station).Error)

	return genre, station
}

func TestStoreRepository_Create(t *testing.T) {
	testDB, repo := setupStoreTest(t)
	defer db.CleanupTestDB(testDB)

	genre, station := seedStoreTestMaster(t, testDB)

	store := &model.Store{
		Name:        "炭火焼き鳥 とり勝",
		Kana:        "スミビヤキトリ トリカツ",
		Address:     "東京都渋谷区道玄坂2-10-7",
		PhoneNumber: "03-1234-5678",
		GenreID:     &genre.ID,
		StationID:   &station.ID,
		IsActive:    true,
	}

	err := repo.Create(store)
	require.NoError(t, err)
	assert.NotZero(t, store.ID)

	found, err := repo.FindByID(store.ID)
	require.NoError(t, err)
	assert.Equal(t, store.Name, found.Name)
	require.NotNil(t, found.Genre)
	assert.Equal(t, "居酒屋", found.Genre.Name)
	require.NotNil(t, found.Station)
	assert.Equal(t, "渋谷", found.Station.Name)
}

func TestStoreRepository_FindAll(t *testing.T) {
	testDB, repo := setupStoreTest(t)
	defer db.CleanupTestDB(testDB)

	genre, station := seedStoreTestMaster(t, testDB)

	stores := []model.Store{
		{Name: "炭火焼き鳥 とり勝", GenreID: &genre.ID, StationID: &station.ID, IsActive: true},
		{Name: "らーめん一番", IsActive: true},
		{Name: "喫茶ポエム", IsActive: false},
	}
	require.NoError(t, repo.BulkCreate(stores))

	tests := []struct {
		name      string
		filter    StoreFilter
		wantCount int
		wantTotal int64
	}{
		{
			name:      "No filter",
			filter:    StoreFilter{},
			wantCount: 3,
			wantTotal: 3,
		},
		{
			name:      "Active only",
			filter:    StoreFilter{ActiveOnly: true},
			wantCount: 2,
			wantTotal: 2,
		},
		{
			name:      "Genre filter",
			filter:    StoreFilter{GenreID: &genre.ID},
			wantCount: 1,
			wantTotal: 1,
		},
		{
			name:      "Name search",
			filter:    StoreFilter{Search: "らーめん"},
			wantCount: 1,
			wantTotal: 1,
		},
		{
			name:      "Pagination",
			filter:    StoreFilter{Limit: 2},
			wantCount: 2,
			wantTotal: 3,
		},
		{
			name:      "No match",
			filter:    StoreFilter{Search: "存在しない店"},
			wantCount: 0,
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, total, err := repo.FindAll(tt.filter)
			require.NoError(t, err)
			assert.Len(t, found, tt.wantCount)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestStoreRepository_FindAllActive(t *testing.T) {
	testDB, repo := setupStoreTest(t)
	defer db.CleanupTestDB(testDB)

	stores := []model.Store{
		{Name: "炭火焼き鳥 とり勝", IsActive: true},
		{Name: "喫茶ポエム", IsActive: false},
	}
	require.NoError(t, repo.BulkCreate(stores))

	active, err := repo.FindAllActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "炭火焼き鳥 とり勝", active[0].Name)
}

func TestStoreRepository_FindByPhoneNumber(t *testing.T) {
	testDB, repo := setupStoreTest(t)
	defer db.CleanupTestDB(testDB)

	store := &model.Store{
		Name:        "らーめん一番",
		PhoneNumber: "03-9876-5432",
		IsActive:    true,
	}
	require.NoError(t, repo.Create(store))

	found, err := repo.FindByPhoneNumber("03-9876-5432")
	require.NoError(t, err)
	assert.Equal(t, store.ID, found.ID)

	_, err = repo.FindByPhoneNumber("03-0000-0000")
	assert.Error(t, err)
}

func TestStoreRepository_Delete(t *testing.T) {
	testDB, repo := setupStoreTest(t)
	defer db.CleanupTestDB(testDB)

	store := &model.Store{Name: "喫茶ポエム", IsActive: true}
	require.NoError(t, repo.Create(store))

	require.NoError(t, repo.Delete(store.ID))

	found, err := repo.FindByID(store.ID)
	assert.Error(t, err)
	assert.Nil(t, found)
}
