package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"algorace/internal/api"
	"algorace/internal/app/service"
	"algorace/internal/catalog"
	"algorace/internal/common/security"
	"algorace/internal/domain/repository"
	"algorace/internal/platform/config"
	"algorace/internal/platform/database"
	"algorace/internal/platform/identity"
	"algorace/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	ctx := context.Background()
	if err := database.RunMigrations(ctx, database.DB, config.AppConfig.MigrationsDir); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}
	fmt.Println("Migrations applied.")

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize identity provider client
	verifier, err := identity.NewFirebaseVerifier(ctx)
	if err != nil {
		log.Fatalf("Identity provider init failed: %v", err)
	}
	fmt.Println("Identity provider initialized.")

	// 6. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	problemRepo := repository.NewPgProblemRepository(database.DB)
	solvedRepo := repository.NewPgSolvedRepository(database.DB)
	statsRepo := repository.NewPgStatsRepository(database.DB)

	// 7. Initialize Services
	authService := service.NewAuthService(userRepo, verifier, config.AppConfig.AdminEmail)
	userService := service.NewUserService(userRepo)
	problemService := service.NewProblemService(problemRepo, userRepo)
	solvedService := service.NewSolvedService(solvedRepo, problemRepo)
	endDayLock := queue.NewLock(queue.RDB, config.AppConfig.EndDayLockKey,
		time.Duration(config.AppConfig.EndDayLockTTLSeconds)*time.Second)
	statsService := service.NewStatsService(statsRepo, solvedRepo, problemRepo, userRepo, endDayLock)

	// 8. Seed the problem catalog
	loader := catalog.NewLoader()
	if err := loader.LoadFromFile(config.AppConfig.CatalogFile); err != nil {
		log.Printf("WARN: catalog seed skipped: %v", err)
	} else if _, err := problemService.SyncCatalog(ctx, loader); err != nil {
		log.Fatalf("Catalog sync failed: %v", err)
	}

	// 9. Initialize Router & HTTP Server
	router := api.NewRouter(authService, userService, problemService, solvedService, statsService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 10. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
