package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/golang-cz/devslog"
	"github.com/siahsang/conduit/internal/auth"
	"github.com/siahsang/conduit/internal/core"
	"github.com/siahsang/conduit/internal/database"
	"github.com/siahsang/conduit/internal/utils/databaseutils"
)

type application struct {
	config  config
	logger  *slog.Logger
	core    *core.Core
	auth    *auth.Auth
	session databaseutils.Session
}

func main() {
	logger := configLogger()
	logger.Info("Starting application...")

	cfg := loadConfig()

	db, err := database.Open(cfg.DSN)
	if err != nil {
		logger.Error("Error opening database connection", "error", err)
		os.Exit(1)
	}

	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("Database connection established successfully")

	if err := database.Migrate(db, cfg.MigrationsDir, logger); err != nil {
		logger.Error("Error running database migrations", "error", err)
		os.Exit(1)
	}

	sqlTemplate := databaseutils.NewSQLTemplate(db, 3*time.Second)

	app := application{
		config:  cfg,
		logger:  logger,
		core:    core.NewCore(db, logger, sqlTemplate),
		auth:    auth.New(cfg.JWTSecret, cfg.TokenTTL),
		session: databaseutils.NewSession(db),
	}

	if err := app.serve(); err != nil {
		logger.Error("Error starting server", "error", err)
		os.Exit(1)
	}
}

func configLogger() *slog.Logger {
	handler := devslog.NewHandler(
		os.Stdout, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     slog.LevelDebug,
			},
			NewLineAfterLog: false,
		})

	logger := slog.New(handler)
	return logger
}
