package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cravings-app/cravings-backend/internal/app/model"
	"github.com/cravings-app/cravings-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupResetCodeTest(t *testing.T) (*gorm.DB, ResetCodeRepository) {
	testDB := db.SetupTestDB(t)
	return testDB, NewResetCodeRepository(testDB)
}

func newCode(email, code string, now time.Time) *model.ResetCode {
	return &model.ResetCode{Email: email, Code: code, ExpiresAt: now.Add(10 * time.Minute)}
}

func TestResetCodeRepository_PutSupersedes(t *testing.T) {
	testDB, repo := setupResetCodeTest(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Put(ctx, newCode("cook@example.com", "111111", now)))
	require.NoError(t, repo.Put(ctx, newCode("cook@example.com", "222222", now)))
	require.NoError(t, repo.Put(ctx, newCode("other@example.com", "333333", now)))

	var count int64
	require.NoError(t, testDB.Model(&model.ResetCode{}).Where("email = ?", "cook@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	latest, err := repo.FindByEmail(ctx, "cook@example.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", latest.Code)
	assert.False(t, latest.Used)

	_, err = repo.FindValid(ctx, "cook@example.com", "111111", now)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestResetCodeRepository_FindValid(t *testing.T) {
	_, repo := setupResetCodeTest(t)
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, repo.Put(ctx, newCode("cook@example.com", "123456", now)))

	tests := []struct {
		name  string
		email string
		code  string
		at    time.Time
		found bool
	}{
		{"match", "cook@example.com", "123456", now, true},
		{"at expiry instant", "cook@example.com", "123456", now.Add(10 * time.Minute), true},
		{"after expiry", "cook@example.com", "123456", now.Add(11 * time.Minute), false},
		{"wrong code", "cook@example.com", "654321", now, false},
		{"wrong email", "other@example.com", "123456", now, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := repo.FindValid(ctx, tt.email, tt.code, tt.at)
			if tt.found {
				require.NoError(t, err)
				assert.Equal(t, tt.code, rc.Code)
				return
			}
			assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		})
	}
}

func TestResetCodeRepository_MarkUsedOnce(t *testing.T) {
	_, repo := setupResetCodeTest(t)
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, repo.Put(ctx, newCode("cook@example.com", "123456", now)))

	ok, err := repo.MarkUsed(ctx, "cook@example.com", "000000", now)
	require.NoError(t, err)
	assert.False(t, ok, "wrong code must not consume")

	ok, err = repo.MarkUsed(ctx, "cook@example.com", "123456", now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkUsed(ctx, "cook@example.com", "123456", now)
	require.NoError(t, err)
	assert.False(t, ok, "second consume must fail")

	rc, err := repo.FindByEmail(ctx, "cook@example.com")
	require.NoError(t, err)
	assert.True(t, rc.Used)
}

func TestResetCodeRepository_MarkUsedExpired(t *testing.T) {
	_, repo := setupResetCodeTest(t)
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, repo.Put(ctx, newCode("cook@example.com", "123456", now)))

	ok, err := repo.MarkUsed(ctx, "cook@example.com", "123456", now.Add(11*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResetCodeRepository_MarkUsedConcurrent(t *testing.T) {
	_, repo := setupResetCodeTest(t)
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, repo.Put(ctx, newCode("cook@example.com", "123456", now)))

	var (
		wg        sync.WaitGroup
		successes int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.MarkUsed(ctx, "cook@example.com", "123456", now)
			if err == nil && ok {
				atomic.AddInt32(&successes, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes)
}

func TestResetCodeRepository_DeleteExpired(t *testing.T) {
	_, repo := setupResetCodeTest(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Put(ctx, newCode("old@example.com", "111111", now.Add(-time.Hour))))
	require.NoError(t, repo.Put(ctx, newCode("fresh@example.com", "222222", now)))

	removed, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.FindByEmail(ctx, "old@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.FindByEmail(ctx, "fresh@example.com")
	assert.NoError(t, err)
}
