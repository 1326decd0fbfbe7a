package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cravings-app/cravings-backend/internal/app/model"
	"github.com/cravings-app/cravings-backend/internal/app/repository"
	"github.com/cravings-app/cravings-backend/pkg/util"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/xuri/excelize/v2"
)

type accountRow struct {
	Email       string
	DisplayName string
	Password    string
}

// readAccountsFromXLSX reads the first sheet. The header row names the columns
// email, display_name and password in any order.
func readAccountsFromXLSX(filePath string) ([]accountRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("no data found in XLSX file")
	}
	return parseAccountRows(rows)
}

func parseAccountRows(rows [][]string) ([]accountRow, error) {
	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"email", "password"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing %q column", required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var (
		accounts []accountRow
		seen     = map[string]bool{}
		skipped  int
	)
	for i, row := range rows[1:] {
		acc := accountRow{
			Email:       util.NormalizeEmail(cell(row, "email")),
			DisplayName: cell(row, "display_name"),
			Password:    cell(row, "password"),
		}

		if err := validation.Validate(acc.Email, validation.Required, is.Email); err != nil {
			fmt.Printf("  row %d: skipped, invalid email %q\n", i+2, acc.Email)
			skipped++
			continue
		}
		if err := util.ValidatePasswordStrength(acc.Password); err != nil {
			fmt.Printf("  row %d: skipped, %v\n", i+2, err)
			skipped++
			continue
		}
		if seen[acc.Email] {
			skipped++
			continue
		}
		seen[acc.Email] = true
		accounts = append(accounts, acc)
	}

	fmt.Printf("Rows: %d, valid: %d, skipped: %d\n", len(rows)-1, len(accounts), skipped)
	return accounts, nil
}

// newUsers hashes passwords for rows whose email is not registered yet.
func newUsers(ctx context.Context, userRepo repository.UserRepository, rows []accountRow) ([]*model.User, error) {
	emails := make([]string, 0, len(rows))
	for _, r := range rows {
		emails = append(emails, r.Email)
	}
	existing, err := userRepo.ExistingEmails(ctx, emails)
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(rows))
	for _, r := range rows {
		if existing[r.Email] {
			fmt.Printf("  %s already exists, skipped\n", r.Email)
			continue
		}
		hash, err := util.HashPassword(r.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", r.Email, err)
		}
		name := r.DisplayName
		if name == "" {
			name = strings.SplitN(r.Email, "@", 2)[0]
		}
		users = append(users, &model.User{Email: r.Email, PasswordHash: hash, DisplayName: name})
	}
	return users, nil
}
