package main

import (
	"log"
	"os"

	"leadgen-suite-be/internal/model"
	"leadgen-suite-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Starting GORM migration...")

	// Extensions first; AutoMigrate won't create them.
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Yellow("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	models := []interface{}{
		&model.SearchHistory{},
		&model.Lead{},
		&model.Export{},
		&model.EmailHistory{},
		&model.Notification{},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			color.Red("Error: AutoMigrate failed for %T: %v", m, err)
			os.Exit(1)
		}
		color.Green("Migrated %T", m)
	}

	color.Green("Migration complete: %d tables", len(models))
}
