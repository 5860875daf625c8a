package repository

import (
	"testing"

	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*gorm.DB, UserRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewUserRepository(testDB)
	return testDB, repo
}

func TestUserRepository_Create(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name    string
		user    *model.User
		wantErr bool
	}{
		{
			name: "Valid admin user",
			user: &model.User{
				Email:        "staff@example.com",
				PasswordHash: "hashedpassword",
				Name:         "運営太郎",
				Role:         model.RoleStaff,
			},
			wantErr: false,
		},
		{
			name: "Duplicate email",
			user: &model.User{
				Email:        "staff@example.com",
				PasswordHash: "hashedpassword",
				Name:         "運営次郎",
				Role:         model.RoleAdmin,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.user)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, tt.user.ID)
			}
		})
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "admin@example.com",
		PasswordHash: "hashedpassword",
		Name:         "管理花子",
		Role:         model.RoleAdmin,
	}
	require.NoError(t, repo.Create(user))

	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "Existing user",
			email:   "admin@example.com",
			wantErr: false,
		},
		{
			name:    "Non-existing user",
			email:   "nobody@example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindByEmail(tt.email)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, found)
			} else {
				require.NoError(t, err)
				require.NotNil(t, found)
				assert.Equal(t, user.Email, found.Email)
				assert.Equal(t, model.RoleAdmin, found.Role)
			}
		})
	}
}

func TestUserRepository_Update(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "staff@example.com",
		PasswordHash: "hashedpassword",
		Name:         "運営太郎",
		Role:         model.RoleStaff,
	}
	require.NoError(t, repo.Create(user))

	user.IsActive = false
	require.NoError(t, repo.Update(user))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}

func TestUserRepository_Delete(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "staff@example.com",
		PasswordHash: "hashedpassword",
		Name:         "運営太郎",
		Role:         model.RoleStaff,
	}
	require.NoError(t, repo.Create(user))

	require.NoError(t, repo.Delete(user.ID))

	found, err := repo.FindByID(user.ID)
	assert.Error(t, err)
	assert.Nil(t, found)
}
