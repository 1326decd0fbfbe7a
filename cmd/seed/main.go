package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/cravings-app/cravings-backend/config"
	"github.com/cravings-app/cravings-backend/internal/app/repository"
	"github.com/cravings-app/cravings-backend/internal/db"
)

const batchSize = 500

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}
	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db.GetDB())
	ctx := context.Background()

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readAccountsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	users, err := newUsers(ctx, userRepo, rows)
	if err != nil {
		log.Fatal("Failed to prepare accounts:", err)
	}
	if len(users) == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	fmt.Printf("Accounts to import: %d\n", len(users))
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	if err := userRepo.CreateBatch(ctx, users, batchSize); err != nil {
		log.Fatal("Failed to bulk create accounts:", err)
	}
	fmt.Printf("Import completed successfully! Total accounts imported: %d\n", len(users))
}
