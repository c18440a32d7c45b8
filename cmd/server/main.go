package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coachkit/trainer-app/internal/api"
	"coachkit/trainer-app/internal/catalog"
	"coachkit/trainer-app/internal/config"
	"coachkit/trainer-app/internal/repository/mongo"
	"coachkit/trainer-app/internal/service"
	"coachkit/trainer-app/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Trainer App Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	templateRepo := mongo.NewMongoTemplateRepository(appDB)
	assignmentRepo := mongo.NewMongoAssignmentRepository(appDB)
	instanceRepo := mongo.NewMongoInstanceRepository(appDB)

	// --- Ensure Indexes and Seed Defaults ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureTemplateIndexes(ctx, appDB.Collection("program_templates"))
		mongo.EnsureAssignmentIndexes(ctx, appDB.Collection("program_assignments"))
		mongo.EnsureInstanceIndexes(ctx, appDB.Collection("program_instances"))
		if err := catalog.Seed(ctx, exerciseRepo); err != nil {
			log.Printf("ERROR: Failed to seed default exercises: %v", err)
		}
		log.Println("Index creation and exercise seeding completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	trainerService := service.NewTrainerService(userRepo)
	exerciseService := service.NewExerciseService(exerciseRepo, fileStorage)
	programService := service.NewProgramService(templateRepo)
	scheduleService := service.NewScheduleService(assignmentRepo, instanceRepo, templateRepo, userRepo)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, trainerService, exerciseService, programService, scheduleService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
