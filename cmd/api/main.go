package main

import (
	"fmt"
	"os"

	"spendwise/internal/config"
	"spendwise/internal/database"
	"spendwise/internal/logger"
	"spendwise/internal/server"
	"spendwise/internal/services"
)

// @title           Spendwise API
// @version         1.0
// @description     Spendwise tracks personal expenses against categories and budgets and serves spending analytics and reports.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey PipelineKey
// @in header
// @name X-API-Key

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig(appConfig.DataDir)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()
	seeded, err := services.NewCategoryService(db).SeedDefaults()
	if err != nil {
		return fmt.Errorf("failed to seed default categories: %w", err)
	}
	if seeded > 0 {
		log.Infof("Created %d default categories", seeded)
	}

	path := ""
	if dbConfig.Driver == database.DriverSQLite {
		path = dbConfig.SQLitePath()
	}
	router := server.NewRouter(appConfig, db, services.NewStatsService(db, string(dbConfig.Driver), path))

	if appConfig.PipelineAPIKey == "" {
		log.Warn("PIPELINE_API_KEY is not set; pipeline ingestion is disabled")
	}
	log.Infof("Starting Spendwise server on port %s (%s)", appConfig.Port, dbConfig.Driver)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
