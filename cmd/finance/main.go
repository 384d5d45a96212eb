package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"spendwise/internal/cli"
	"spendwise/internal/config"
	"spendwise/internal/database"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/logger"
	"spendwise/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+errorMessage(err))
		logger.Sync()
		os.Exit(1)
	}
}

// errorMessage shows the user-facing part of an AppError and the full chain
// of anything else.
func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func run(args []string) error {
	global := flag.NewFlagSet("finance", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	dataDir := global.String("data-dir", "", "directory holding finance.db")
	showVersion := global.Bool("version", false, "print the version and exit")
	if err := global.Parse(args); err != nil {
		return fmt.Errorf("%w (run 'finance help' for usage)", err)
	}
	if *showVersion {
		fmt.Printf("finance %s\n", cli.Version)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	dbConfig, err := database.NewConfig(cfg.DataDir)
	if err != nil {
		return err
	}
	manager, err := database.NewManager(dbConfig)
	if err != nil {
		return err
	}
	defer manager.Close()

	if err := manager.RunMigrations(); err != nil {
		return err
	}
	db := manager.DB()
	if _, err := services.NewCategoryService(db).SeedDefaults(); err != nil {
		return err
	}

	path := ""
	if dbConfig.Driver == database.DriverSQLite {
		path = dbConfig.SQLitePath()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := cli.New(cli.Deps{
		Config: cfg,
		DB:     db,
		Stats:  services.NewStatsService(db, string(dbConfig.Driver), path),
		Out:    os.Stdout,
	})
	return app.Run(ctx, global.Args())
}
