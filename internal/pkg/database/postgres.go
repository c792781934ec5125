package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// RequiredTables are the tables the API cannot run without.
var RequiredTables = []string{"users", "stylists", "services", "appointments"}

// NewPostgres creates a new PostgreSQL connection pool
func NewPostgres(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	log.Info().Msg("Connected to PostgreSQL")
	return db, nil
}

// MissingTables returns the names from required that do not exist in the
// current schema.
func MissingTables(ctx context.Context, db *sqlx.DB, required []string) ([]string, error) {
	var existing []string
	err := db.SelectContext(ctx, &existing, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema()
	`)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(existing))
	for _, name := range existing {
		present[name] = true
	}

	var missing []string
	for _, name := range required {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// CheckTables logs a warning when required tables are missing.
func CheckTables(ctx context.Context, db *sqlx.DB) {
	missing, err := MissingTables(ctx, db, RequiredTables)
	if err != nil {
		log.Warn().Err(err).Msg("Could not inspect database tables")
		return
	}
	if len(missing) > 0 {
		log.Warn().
			Strs("missing_tables", missing).
			Msg("Database schema incomplete, apply migrations/0001_init.sql")
		return
	}
	log.Info().Msg("All required tables present")
}

// Close closes the database connection
func ClosePostgres(db *sqlx.DB) {
	if db != nil {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing PostgreSQL connection")
		} else {
			log.Info().Msg("PostgreSQL connection closed")
		}
	}
}
