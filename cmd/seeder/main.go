// cmd/seeder/main.go
package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/unclebandit/storefront-backend/internal/config"
	"github.com/unclebandit/storefront-backend/internal/logger"
)

var seedFiles = []string{
	"seed/schema.sql",
	"seed/customers.sql",
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	appLogger, err := logger.New(cfg.Logger, cfg.Server.AppEnv)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer appLogger.Sync()

	// DDL runs over the direct connection, not a pooler.
	db, err := sqlx.Connect("postgres", cfg.Database.DirectURL)
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	defer db.Close()

	for _, file := range seedFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			appLogger.Fatal("failed to read seed file", zap.String("file", file), zap.Error(err))
		}

		if _, err := db.Exec(string(content)); err != nil {
			appLogger.Fatal("failed to execute seed file", zap.String("file", file), zap.Error(err))
		}
		appLogger.Info("seeded", zap.String("file", file))
	}

	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM customers"); err != nil {
		appLogger.Fatal("failed to count customers", zap.Error(err))
	}
	appLogger.Info("database seeding completed", zap.Int("customers", count))
}
