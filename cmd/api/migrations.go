// Database schema migrations, executed at startup

package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// runMigrations creates tables and indexes if they do not exist
func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		// Accounts
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			phone VARCHAR(20),
			role VARCHAR(20) NOT NULL DEFAULT 'member',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Marriage profiles; the profile id is the owning user's id
		`CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			display_name VARCHAR(50) NOT NULL,
			birth_date DATE,
			gender VARCHAR(10) NOT NULL,
			seeking_gender VARCHAR(10) NOT NULL,
			religion VARCHAR(50) NOT NULL DEFAULT '',
			practice_level SMALLINT,
			marriage_intent SMALLINT,
			marital_history VARCHAR(20) NOT NULL DEFAULT '',
			about_me TEXT NOT NULL DEFAULT '',
			languages TEXT[] NOT NULL DEFAULT '{}',
			photos TEXT[] NOT NULL DEFAULT '{}',
			city VARCHAR(100) NOT NULL DEFAULT '',
			country VARCHAR(100) NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			smoking VARCHAR(20) NOT NULL DEFAULT '',
			drinking VARCHAR(20) NOT NULL DEFAULT '',
			education VARCHAR(100) NOT NULL DEFAULT '',
			occupation VARCHAR(100) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'pending_review',
			verification_tier SMALLINT NOT NULL DEFAULT 0,
			is_premium BOOLEAN NOT NULL DEFAULT FALSE,
			last_active TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Like/pass/favorite history, one row per (actor, target)
		`CREATE TABLE IF NOT EXISTS discovery_actions (
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			target_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			action VARCHAR(20) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, target_id)
		)`,

		// Conversations are keyed by the ordered user pair so the same two
		// members can never own two conversations
		`CREATE TABLE IF NOT EXISTS conversations (
			id UUID PRIMARY KEY,
			user_a_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user_b_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_a_id, user_b_id),
			CHECK (user_a_id < user_b_id)
		)`,

		`CREATE TABLE IF NOT EXISTS matches (
			id UUID PRIMARY KEY,
			user_a_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user_b_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			conversation_id UUID REFERENCES conversations(id),
			compatibility_score DOUBLE PRECISION,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			unmatched_by UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_a_id, user_b_id),
			CHECK (user_a_id < user_b_id)
		)`,

		`CREATE TABLE IF NOT EXISTS blocks (
			blocker_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			blocked_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (blocker_id, blocked_id)
		)`,

		`CREATE TABLE IF NOT EXISTS profile_views (
			viewer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			profile_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			viewed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (viewer_id, profile_id)
		)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			event_type VARCHAR(50) NOT NULL,
			payload JSONB NOT NULL DEFAULT '{}',
			read_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS reports (
			id UUID PRIMARY KEY,
			reporter_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			reported_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			reason VARCHAR(50) NOT NULL,
			details TEXT,
			status VARCHAR(20) NOT NULL DEFAULT 'open',
			resolved_by UUID,
			resolved_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Single-row matching configuration, JSONB for weights/thresholds
		`CREATE TABLE IF NOT EXISTS matching_config (
			id SMALLINT PRIMARY KEY DEFAULT 1,
			weights JSONB NOT NULL,
			thresholds JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (id = 1)
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_profiles_discovery
			ON profiles (status, seeking_gender, gender, last_active DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_discovery_actions_target
			ON discovery_actions (target_id, user_id) WHERE action = 'like'`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user_a ON matches (user_a_id)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user_b ON matches (user_b_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user
			ON notifications (user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_status ON reports (status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_reported ON reports (reported_id) WHERE status = 'open'`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
