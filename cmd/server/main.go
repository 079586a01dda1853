package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/vidstream/backend/internal/config"
	delivery "github.com/vidstream/backend/internal/delivery/http"
	"github.com/vidstream/backend/internal/middleware"
	"github.com/vidstream/backend/internal/repository/postgres"
	"github.com/vidstream/backend/internal/usecase"
	"github.com/vidstream/backend/pkg/mediastore"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()
	log.Printf("Server configured on port %s", cfg.Server.Port)

	// Connect to PostgreSQL with retry
	var pool *pgxpool.Pool
	for attempt := 1; attempt <= 5; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		var err error
		pool, err = pgxpool.New(ctx, cfg.Database.URL)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				cancel()
				log.Println("Connected to PostgreSQL")
				break
			} else {
				pool.Close()
				log.Printf("Attempt %d: failed to ping database: %v", attempt, pingErr)
			}
		} else {
			log.Printf("Attempt %d: failed to connect to database: %v", attempt, err)
		}
		cancel()
		if attempt == 5 {
			log.Fatalf("Could not connect to database after 5 attempts")
		}
		time.Sleep(time.Duration(attempt) * 2 * time.Second)
	}
	defer pool.Close()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := postgres.RunMigrations(migrateCtx, cfg.Database.URL); err != nil {
		migrateCancel()
		log.Fatalf("Migrations failed: %v", err)
	}
	migrateCancel()

	// Repositories
	userRepo := postgres.NewUserRepository(pool)
	subRepo := postgres.NewSubscriptionRepository(pool)
	historyRepo := postgres.NewWatchHistoryRepository(pool)
	eventRepo := postgres.NewLoginEventRepository(pool)

	// Media store
	media, err := mediastore.New(context.Background(), mediastore.Config{
		Endpoint:  cfg.Media.Endpoint,
		Region:    cfg.Media.Region,
		Bucket:    cfg.Media.Bucket,
		AccessKey: cfg.Media.AccessKey,
		SecretKey: cfg.Media.SecretKey,
		PublicURL: cfg.Media.PublicURL,
	})
	if err != nil {
		log.Fatalf("Media store init failed: %v", err)
	}

	// Usecases
	authUsecase := usecase.NewAuthUsecase(userRepo, eventRepo, &cfg.Token)
	userUsecase := usecase.NewUserUsecase(userRepo, subRepo, historyRepo)

	// HTTP wiring
	handler := delivery.NewHandler(authUsecase, userUsecase, media)
	authMiddleware := middleware.NewAuthMiddleware(authUsecase)
	router := delivery.NewRouter(handler, authMiddleware, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
