package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitPostgres initializes and returns a PostgreSQL connection pool
func InitPostgres() (*pgxpool.Pool, error) {
	// Get database URL from environment variable or use default
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// Default local development configuration
		host := getEnvOrDefault("POSTGRES_HOST", "localhost")
		port := getEnvOrDefault("POSTGRES_PORT", "5432")
		user := getEnvOrDefault("POSTGRES_USER", "sparkbrush")
		password := getEnvOrDefault("POSTGRES_PASSWORD", "")
		dbname := getEnvOrDefault("POSTGRES_DB", "sparkbrush")
		sslmode := getEnvOrDefault("POSTGRES_SSLMODE", "disable")

		databaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			user, password, host, port, dbname, sslmode)
	}

	// Configure connection pool
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Set connection pool settings
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30
	config.HealthCheckPeriod = time.Minute * 5

	// Create connection pool
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Create tables if they don't exist
	if err := createTables(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pool, nil
}

// createTables creates all required tables if they don't exist
func createTables(ctx context.Context, pool *pgxpool.Pool) error {
	// User preferences - onboarding record driving prompt generation;
	// this service only reads it
	userPreferencesTable := `
		CREATE TABLE IF NOT EXISTS user_preferences (
			uid VARCHAR(255) PRIMARY KEY,
			art_mediums TEXT[] NOT NULL,
			subjects TEXT[] NOT NULL,
			color_palettes TEXT[] NOT NULL DEFAULT '{}',
			exclusions TEXT[] NOT NULL DEFAULT '{}',
			difficulty VARCHAR(20) NOT NULL DEFAULT 'intermediate',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`

	// Prompts - generated daily and manual prompts; prompt_text is
	// immutable once created
	promptsTable := `
		CREATE TABLE IF NOT EXISTS prompts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_uid VARCHAR(255) NOT NULL,
			date_key VARCHAR(10) NOT NULL,
			kind VARCHAR(10) NOT NULL CHECK (kind IN ('daily', 'manual')),
			medium VARCHAR(50) NOT NULL,
			subject VARCHAR(50) NOT NULL,
			color_rule VARCHAR(50),
			twist TEXT,
			prompt_text TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`

	// Responses - persisted artwork submissions; id comes from the
	// submitter so offline replays stay idempotent
	responsesTable := `
		CREATE TABLE IF NOT EXISTS responses (
			id UUID PRIMARY KEY,
			user_uid VARCHAR(255) NOT NULL,
			prompt_id UUID NOT NULL REFERENCES prompts(id) ON DELETE CASCADE,
			notes TEXT,
			tags TEXT[] NOT NULL DEFAULT '{}',
			local_date VARCHAR(10) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`

	// Response images - uploaded image URLs per response
	responseImagesTable := `
		CREATE TABLE IF NOT EXISTS response_images (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			response_id UUID NOT NULL REFERENCES responses(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			upload_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			UNIQUE(response_id, upload_order)
		);
	`

	// Create indexes for better performance. The partial unique index
	// on prompts is what makes the daily upsert race-safe: at most one
	// daily row per (user, date), any number of manual rows.
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_prompts_daily_unique ON prompts(user_uid, date_key) WHERE kind = 'daily';`,
		`CREATE INDEX IF NOT EXISTS idx_prompts_user_created ON prompts(user_uid, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_prompts_user_subject ON prompts(user_uid, subject);`,
		`CREATE INDEX IF NOT EXISTS idx_responses_user_uid ON responses(user_uid);`,
		`CREATE INDEX IF NOT EXISTS idx_responses_user_local_date ON responses(user_uid, local_date);`,
		`CREATE INDEX IF NOT EXISTS idx_responses_prompt_id ON responses(prompt_id);`,
		`CREATE INDEX IF NOT EXISTS idx_response_images_response_id ON response_images(response_id);`,
	}

	// Execute table creation statements
	tables := []string{userPreferencesTable, promptsTable, responsesTable, responseImagesTable}

	for _, table := range tables {
		if _, err := pool.Exec(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	// Execute index creation statements
	for _, index := range indexes {
		if _, err := pool.Exec(ctx, index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default value if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
