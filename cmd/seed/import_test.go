package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cravings-app/cravings-backend/internal/app/model"
	"github.com/cravings-app/cravings-backend/internal/app/repository"
	"github.com/cravings-app/cravings-backend/internal/db"
	"github.com/cravings-app/cravings-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeSheet(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	path := filepath.Join(t.TempDir(), "accounts.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadAccountsFromXLSX(t *testing.T) {
	path := writeSheet(t, [][]interface{}{
		{"display_name", "Email", "password"},
		{"Cook", "Cook@Example.com", "Abc123!@"},
		{"Weak", "weak@example.com", "password"},
		{"Long", "long@example.com", "Aa1!" + strings.Repeat("x", 80)},
		{"Bad", "not-an-email", "Abc123!@"},
		{"", "", ""},
		{"Dup", "cook@example.com", "Abc123!@"},
		{"", "baker@example.com", "Xyz789#$"},
	})

	rows, err := readAccountsFromXLSX(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, accountRow{Email: "cook@example.com", DisplayName: "Cook", Password: "Abc123!@"}, rows[0])
	assert.Equal(t, "baker@example.com", rows[1].Email)
}

func TestParseAccountRows_MissingColumn(t *testing.T) {
	_, err := parseAccountRows([][]string{{"email", "name"}})
	assert.Error(t, err)
}

func TestNewUsers_SkipsExisting(t *testing.T) {
	testDB := db.SetupTestDB(t)
	userRepo := repository.NewUserRepository(testDB)
	ctx := context.Background()
	require.NoError(t, userRepo.Create(ctx, &model.User{Email: "cook@example.com", PasswordHash: "x"}))

	users, err := newUsers(ctx, userRepo, []accountRow{
		{Email: "cook@example.com", Password: "Abc123!@"},
		{Email: "baker@example.com", Password: "Xyz789#$"},
	})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "baker@example.com", users[0].Email)
	assert.Equal(t, "baker", users[0].DisplayName)
	assert.True(t, util.VerifyPassword(users[0].PasswordHash, "Xyz789#$"))

	require.NoError(t, userRepo.CreateBatch(ctx, users, batchSize))
	_, err = userRepo.FindByEmail(ctx, "baker@example.com")
	assert.NoError(t, err)
}
