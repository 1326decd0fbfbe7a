package repository

import (
	"context"
	"testing"

	"github.com/cravings-app/cravings-backend/internal/app/model"
	"github.com/cravings-app/cravings-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*gorm.DB, UserRepository) {
	testDB := db.SetupTestDB(t)
	return testDB, NewUserRepository(testDB)
}

func TestUserRepository_Create(t *testing.T) {
	_, repo := setupUserTest(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		user    *model.User
		wantErr bool
	}{
		{
			name:    "valid user",
			user:    &model.User{Email: "cook@example.com", PasswordHash: "hash", DisplayName: "Cook"},
			wantErr: false,
		},
		{
			name:    "duplicate email",
			user:    &model.User{Email: "cook@example.com", PasswordHash: "hash", DisplayName: "Other"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, tt.user.ID)
		})
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	_, repo := setupUserTest(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.User{Email: "cook@example.com", PasswordHash: "hash"}))

	found, err := repo.FindByEmail(ctx, "cook@example.com")
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", found.Email)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	_, repo := setupUserTest(t)
	ctx := context.Background()
	user := &model.User{Email: "cook@example.com", PasswordHash: "old"}
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new"))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", found.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePassword(ctx, 9999, "new"), gorm.ErrRecordNotFound)
}

func TestUserRepository_BatchAndExisting(t *testing.T) {
	_, repo := setupUserTest(t)
	ctx := context.Background()

	users := []*model.User{
		{Email: "a@example.com", PasswordHash: "h"},
		{Email: "b@example.com", PasswordHash: "h"},
		{Email: "c@example.com", PasswordHash: "h"},
	}
	require.NoError(t, repo.CreateBatch(ctx, users, 2))
	require.NoError(t, repo.CreateBatch(ctx, nil, 2))

	existing, err := repo.ExistingEmails(ctx, []string{"a@example.com", "c@example.com", "z@example.com"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"a@example.com": true, "c@example.com": true}, existing)
}
