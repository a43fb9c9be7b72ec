package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"cyberquest-api/auth"
	"cyberquest-api/catalog"
	"cyberquest-api/db"
	"cyberquest-api/handlers"
	"cyberquest-api/jobs"
	"cyberquest-api/progression"
	"cyberquest-api/utils"
)

func main() {
	// Set up logging with timestamps
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	utils.LogStartup("CyberQuest API starting...")

	if err := godotenv.Load(); err != nil {
		utils.LogStartup("No .env file found, using environment variables")
	}

	port := utils.GetEnvOrDefault("PORT", "8044")
	dbPath := utils.GetEnvOrDefault("DB_PATH", "./cyberquest.db")
	redisURL := os.Getenv("REDIS_URL")
	utils.LogStartup("Using port %s, database %s", port, dbPath)

	utils.LogStartup("Initializing database connection...")
	database, err := db.InitDB(dbPath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize database: %v", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		log.Fatalf("[FATAL] Failed to load catalog: %v", err)
	}
	utils.LogStartup("Catalog loaded: %d quizzes, %d badges, %d habits",
		cat.QuizCount(), len(cat.Badges()), len(cat.Habits()))

	sessionStore := auth.NewSessionStore()

	emailConfig := auth.LoadEmailConfig()
	emailService := auth.NewEmailService(emailConfig)

	jobManager := jobs.NewJobManager(redisURL)
	jobManager.RegisterHandlers(emailService)
	go func() {
		if err := jobManager.Start(); err != nil {
			utils.LogError("Job manager failed to start: %v", err)
		}
	}()

	engine := progression.NewEngine(database, cat)

	utils.LogStartup("Setting up API routes...")
	router := handlers.NewRouter(database, engine, cat, sessionStore, emailService, jobManager)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		utils.LogShutdown("Received shutdown signal...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			utils.LogError("Error shutting down server: %v", err)
		}

		jobManager.Stop()

		if err := database.Close(); err != nil {
			utils.LogError("Error closing database: %v", err)
		} else {
			utils.LogShutdown("Database connection closed successfully")
		}
	}()

	utils.LogStartup("Server ready to accept connections at http://localhost:%s", port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[FATAL] Server failed to start: %v", err)
	}
	utils.LogShutdown("Server stopped")
}
