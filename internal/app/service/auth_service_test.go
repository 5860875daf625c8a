package service

import (
	"testing"
	"time"

	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/app/repository"
	"github.com/stakahashi/machinavi-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthServiceTest(t *testing.T) AuthService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	return NewAuthService(
		userRepo,
		"test-jwt-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
}

func TestAuthService_CreateUser(t *testing.T) {
	authService := setupAuthServiceTest(t)

	tests := []struct {
		name     string
		email    string
		password string
		userName string
		role     model.UserRole
		wantErr  error
	}{
		{
			name:     "Valid staff user",
			email:    "staff@example.com",
			password: "password123",
			userName: "運営太郎",
			role:     model.RoleStaff,
			wantErr:  nil,
		},
		{
			name:     "Duplicate email",
			email:    "staff@example.com",
			password: "password456",
			userName: "運営次郎",
			role:     model.RoleAdmin,
			wantErr:  ErrEmailAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := authService.CreateUser(tt.email, tt.password, tt.userName, tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, tt.role, user.Role)
				assert.True(t, user.IsActive)
				assert.NotEqual(t, tt.password, user.PasswordHash)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService := setupAuthServiceTest(t)

	created, err := authService.CreateUser("staff@example.com", "password123", "運営太郎", model.RoleStaff)
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "Valid credentials",
			email:    "staff@example.com",
			password: "password123",
			wantErr:  nil,
		},
		{
			name:     "Wrong password",
			email:    "staff@example.com",
			password: "wrongpassword",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "Unknown email",
			email:    "nobody@example.com",
			password: "password123",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Login(tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				require.NotNil(t, tokens)
				assert.Equal(t, created.ID, user.ID)
				assert.NotEmpty(t, tokens.AccessToken)
				assert.NotEmpty(t, tokens.RefreshToken)
				assert.NotNil(t, user.LastLoginAt)
			}
		})
	}
}

func TestAuthService_LoginDeactivated(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	userRepo := repository.NewUserRepository(testDB)
	authService := NewAuthService(userRepo, "test-jwt-secret", 15*time.Minute, 7*24*time.Hour)

	user, err := authService.CreateUser("gone@example.com", "password123", "退職者", model.RoleStaff)
	require.NoError(t, err)

	user.IsActive = false
	require.NoError(t, userRepo.Update(user))

	_, _, err = authService.Login("gone@example.com", "password123")
	assert.ErrorIs(t, err, ErrUserDeactivated)
}

func TestAuthService_RefreshToken(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, err := authService.CreateUser("staff@example.com", "password123", "運営太郎", model.RoleStaff)
	require.NoError(t, err)

	_, tokens, err := authService.Login("staff@example.com", "password123")
	require.NoError(t, err)

	refreshed, err := authService.RefreshToken(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)

	_, err = authService.RefreshToken("not-a-valid-token")
	assert.Error(t, err)
}

func TestAuthService_ChangePassword(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, err := authService.CreateUser("staff@example.com", "password123", "運営太郎", model.RoleStaff)
	require.NoError(t, err)

	// 現在のパスワードが違うと変更できない
	err = authService.ChangePassword(user.ID, "wrongpassword", "newpassword456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, authService.ChangePassword(user.ID, "password123", "newpassword456"))

	_, _, err = authService.Login("staff@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authService.Login("staff@example.com", "newpassword456")
	assert.NoError(t, err)
}
