package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			totp_secret VARCHAR(255),
			totp_enabled BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			refresh_token VARCHAR(500) UNIQUE NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS totp_backup_codes (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			code_hash VARCHAR(255) NOT NULL,
			used_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS recipients (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			relationship VARCHAR(100),
			age INTEGER,
			gender VARCHAR(50),
			occupation VARCHAR(255),
			bio TEXT,
			hobbies TEXT,
			likes TEXT,
			dislikes TEXT,
			favorite_categories TEXT,
			budget NUMERIC(12,2),
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS events (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			event_date DATE NOT NULL,
			location VARCHAR(255),
			description TEXT,
			budget NUMERIC(12,2),
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS event_recipients (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			event_id UUID REFERENCES events(id) ON DELETE CASCADE,
			recipient_id UUID REFERENCES recipients(id) ON DELETE CASCADE,
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			budget_allocated NUMERIC(12,2),
			gift_status VARCHAR(50) DEFAULT 'planning',
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(event_id, recipient_id)
		)`,

		`CREATE TABLE IF NOT EXISTS collaborators (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			event_id UUID REFERENCES events(id) ON DELETE CASCADE,
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			role VARCHAR(50) NOT NULL DEFAULT 'co_planner',
			status VARCHAR(50) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(event_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS invitations (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			event_id UUID REFERENCES events(id) ON DELETE CASCADE,
			email VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'co_planner',
			invited_by UUID REFERENCES users(id),
			token VARCHAR(255) UNIQUE NOT NULL,
			status VARCHAR(50) DEFAULT 'pending',
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS ai_gift_suggestions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			event_id UUID REFERENCES events(id) ON DELETE CASCADE,
			recipient_id UUID REFERENCES recipients(id) ON DELETE CASCADE,
			event_recipient_id UUID REFERENCES event_recipients(id) ON DELETE CASCADE,
			title VARCHAR(500) NOT NULL,
			description TEXT,
			estimated_price VARCHAR(100),
			category VARCHAR(100),
			special_notes TEXT,
			image_url TEXT,
			round_type VARCHAR(50) NOT NULL DEFAULT 'initial',
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS wishlists (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			suggestion_id UUID REFERENCES ai_gift_suggestions(id) ON DELETE CASCADE,
			recipient_id UUID REFERENCES recipients(id) ON DELETE SET NULL,
			created_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(user_id, suggestion_id)
		)`,

		`CREATE TABLE IF NOT EXISTS gift_given_backlog (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			recipient_id UUID REFERENCES recipients(id) ON DELETE CASCADE,
			gift_name VARCHAR(500) NOT NULL,
			price NUMERIC(12,2),
			category VARCHAR(100),
			given_date DATE,
			link TEXT,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS carts (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS cart_items (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			cart_id UUID REFERENCES carts(id) ON DELETE CASCADE,
			suggestion_id UUID REFERENCES ai_gift_suggestions(id) ON DELETE CASCADE,
			recipient_id UUID,
			quantity INTEGER DEFAULT 1,
			created_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(cart_id, suggestion_id)
		)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			status VARCHAR(50) NOT NULL DEFAULT 'pending',
			payment_method VARCHAR(50) NOT NULL DEFAULT 'cash_on_delivery',
			shipping_address TEXT,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			order_id UUID REFERENCES orders(id) ON DELETE CASCADE,
			suggestion_id UUID,
			recipient_id UUID,
			title VARCHAR(500) NOT NULL,
			description TEXT,
			estimated_price VARCHAR(100),
			category VARCHAR(100),
			image_url TEXT,
			quantity INTEGER DEFAULT 1,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_recipients_user_id ON recipients(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_user_id ON events(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_event_recipients_event_id ON event_recipients(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_collaborators_event_id ON collaborators(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_collaborators_user_id ON collaborators(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_invitations_token ON invitations(token)`,
		`CREATE INDEX IF NOT EXISTS idx_invitations_email ON invitations(email)`,
		`CREATE INDEX IF NOT EXISTS idx_suggestions_event_recipient_id ON ai_gift_suggestions(event_recipient_id)`,
		`CREATE INDEX IF NOT EXISTS idx_suggestions_user_id ON ai_gift_suggestions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_wishlists_user_id ON wishlists(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_wishlists_suggestion_id ON wishlists(suggestion_id)`,
		`CREATE INDEX IF NOT EXISTS idx_backlog_recipient_id ON gift_given_backlog(recipient_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_backup_codes_user_id ON totp_backup_codes(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
