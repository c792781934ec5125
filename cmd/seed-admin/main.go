// Command seed-admin creates the salon admin account from ADMIN_USERNAME,
// ADMIN_PASSWORD and ADMIN_EMAIL, or resets it when it already exists.
package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/frizerski/booking-api/internal/config"
	"github.com/frizerski/booking-api/internal/domain/user"
	"github.com/frizerski/booking-api/internal/pkg/database"
	"github.com/frizerski/booking-api/internal/pkg/logger"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		log.Fatal().Msg("ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	svc := user.NewService(user.NewRepository(db))
	u, created, err := svc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail)
	if err != nil {
		log.Error().Err(err).Msg("Failed to seed admin")
		return
	}

	if created {
		log.Info().Int64("user_id", u.ID).Str("username", u.Username).Msg("Admin user created")
	} else {
		log.Info().Int64("user_id", u.ID).Str("username", u.Username).Msg("Admin user already existed, password and role reset")
	}
	if cfg.AdminPassword == "admin123" {
		log.Warn().Msg("Default admin password in use, change it after first login")
	}
}
