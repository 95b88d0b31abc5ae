package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"moviemate/internal/config"
)

// NewPostgres creates a new PostgreSQL connection and runs migrations.
func NewPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			telegram_id BIGINT UNIQUE NOT NULL,
			username VARCHAR(255) DEFAULT '',
			first_name VARCHAR(255) DEFAULT '',
			last_name VARCHAR(255) DEFAULT '',
			language VARCHAR(10) DEFAULT 'en',
			notifications_enabled BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_active_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS user_preferences (
			id SERIAL PRIMARY KEY,
			user_id INTEGER UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			favorite_genres TEXT[] NOT NULL DEFAULT '{}',
			min_rating DOUBLE PRECISION NOT NULL DEFAULT 6.0
				CHECK (min_rating >= 0 AND min_rating <= 10),
			preferred_year_from INTEGER,
			preferred_year_to INTEGER,
			notifications_enabled BOOLEAN DEFAULT TRUE,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS favorites (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			tmdb_id INTEGER NOT NULL,
			media_type VARCHAR(20) NOT NULL DEFAULT 'movie',
			title VARCHAR(500) NOT NULL,
			original_title VARCHAR(500) DEFAULT '',
			poster_url VARCHAR(500) DEFAULT '',
			backdrop_url VARCHAR(500) DEFAULT '',
			overview TEXT DEFAULT '',
			release_date VARCHAR(20) DEFAULT '',
			vote_average DOUBLE PRECISION DEFAULT 0,
			genres TEXT[] NOT NULL DEFAULT '{}',
			added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT uq_user_favorite UNIQUE (user_id, tmdb_id)
		)`,
		`CREATE TABLE IF NOT EXISTS watch_history (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			tmdb_id INTEGER NOT NULL,
			media_type VARCHAR(20) NOT NULL DEFAULT 'movie',
			title VARCHAR(500) NOT NULL,
			poster_url VARCHAR(500) DEFAULT '',
			release_date VARCHAR(20) DEFAULT '',
			genres TEXT[] NOT NULL DEFAULT '{}',
			watched_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT uq_user_watched UNIQUE (user_id, tmdb_id)
		)`,
		`CREATE TABLE IF NOT EXISTS search_history (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			query VARCHAR(500) NOT NULL,
			search_type VARCHAR(50) NOT NULL DEFAULT 'text',
			filters JSONB NOT NULL DEFAULT '{}',
			results_count INTEGER NOT NULL DEFAULT 0,
			searched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		// Indexes for common query patterns
		`CREATE INDEX IF NOT EXISTS idx_users_telegram_id ON users(telegram_id)`,
		`CREATE INDEX IF NOT EXISTS idx_favorites_user ON favorites(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_favorites_tmdb ON favorites(tmdb_id)`,
		`CREATE INDEX IF NOT EXISTS idx_watch_user ON watch_history(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_watch_tmdb ON watch_history(tmdb_id)`,
		`CREATE INDEX IF NOT EXISTS idx_search_user ON search_history(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_search_date ON search_history(searched_at)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed")
	return nil
}
