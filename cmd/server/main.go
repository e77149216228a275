package main

import (
	"time"

	"consignment-reconciliation-backend/internal/config"
	"consignment-reconciliation-backend/internal/logger"
	"consignment-reconciliation-backend/internal/models"
	"consignment-reconciliation-backend/internal/routes"
	"consignment-reconciliation-backend/internal/scheduler"
	"consignment-reconciliation-backend/internal/services/progress"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env before reading config from the environment
	envErr := godotenv.Load()

	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)

	if envErr != nil {
		log.Info().Msg("No .env file found, relying on system env")
	}

	log.Info().Msg("Starting consignment reconciliation backend")

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	if err := db.AutoMigrate(
		&models.Analysis{},
		&models.DailyEntry{},
		&models.PaymentRules{},
	); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	progressStore := progress.NewStore(cfg.ProgressTTL, cfg.ProgressBuffer)

	sched := scheduler.New(log)
	if err := sched.AddJob("@every 1m", progress.EvictionJob{Store: progressStore}); err != nil {
		log.Fatal().Err(err).Msg("Failed to register eviction job")
	}
	sched.Start()
	defer sched.Stop()

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, log, progressStore)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Server exited")
	}
}
