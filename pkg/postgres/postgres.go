package postgres

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/tisport/tisport/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id SERIAL PRIMARY KEY,
			slug VARCHAR(255) UNIQUE NOT NULL,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			venue VARCHAR(255) NOT NULL,
			venue_address TEXT,
			venue_map_url TEXT,
			starts_at TIMESTAMP NOT NULL,
			ends_at TIMESTAMP NOT NULL,
			capacity INTEGER NOT NULL,
			price_idr BIGINT NOT NULL,
			status VARCHAR(20) DEFAULT 'OPEN',
			category VARCHAR(100),
			is_membership BOOLEAN DEFAULT FALSE,
			membership_json JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			username VARCHAR(32),
			nickname VARCHAR(100),
			telegram_id VARCHAR(100),
			onboarded BOOLEAN DEFAULT FALSE,
			profile_json JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			code VARCHAR(64) UNIQUE NOT NULL,
			event_id INTEGER REFERENCES events(id),
			user_id INTEGER REFERENCES users(id),
			quantity INTEGER NOT NULL,
			participants_json JSONB NOT NULL,
			ticket_idr BIGINT NOT NULL,
			donation_idr BIGINT NOT NULL DEFAULT 0,
			discount_idr BIGINT NOT NULL DEFAULT 0,
			voucher_code VARCHAR(64),
			voucher_title VARCHAR(255),
			fee_idr BIGINT NOT NULL DEFAULT 0,
			total_idr BIGINT NOT NULL,
			points BIGINT NOT NULL DEFAULT 0,
			status VARCHAR(20) DEFAULT 'pending_payment',
			payment_method_id VARCHAR(64),
			proof_url TEXT,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS point_entries (
			id SERIAL PRIMARY KEY,
			user_id INTEGER REFERENCES users(id),
			order_id INTEGER REFERENCES orders(id),
			points BIGINT NOT NULL,
			reason VARCHAR(32) NOT NULL,
			note TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_orders_event_id ON orders(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_expires_at ON orders(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_event_status ON orders(event_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_point_entries_user_id ON point_entries(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_slug ON events(slug)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
