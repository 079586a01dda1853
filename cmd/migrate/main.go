package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/vidstream/backend/internal/config"
	"github.com/vidstream/backend/internal/repository/postgres"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(ctx, cfg.Database.URL); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	log.Println("Migrations applied")
}
