package database

import (
	"context"

	"campus-events-api/core/logger"
)

// schema is applied on startup. Statements are idempotent so restarts are
// safe without an external migration tool.
//
// The unique index on (event_id, user_id) and the ON DELETE CASCADE foreign
// keys are load-bearing: they back the duplicate-registration and
// cascade-delete guarantees even if application checks are bypassed.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('student', 'organizer')),
		profile_picture_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_login_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY,
		slug TEXT NOT NULL,
		title TEXT NOT NULL,
		location TEXT NOT NULL,
		start_at TIMESTAMPTZ NOT NULL,
		end_at TIMESTAMPTZ NOT NULL,
		capacity INT NOT NULL,
		category TEXT,
		description TEXT,
		image_url TEXT,
		tags_json TEXT NOT NULL DEFAULT '[]',
		organizer_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (end_at > start_at),
		CHECK (capacity >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_organizer ON events (organizer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_organizer_location ON events (organizer_id, lower(location))`,
	`CREATE TABLE IF NOT EXISTS event_registrations (
		id UUID PRIMARY KEY,
		event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		code TEXT NOT NULL,
		registered_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (event_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_registrations_user ON event_registrations (user_id)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		type TEXT NOT NULL,
		data TEXT,
		is_read BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, created_at DESC)`,
}

// Migrate applies the schema statements in order.
func Migrate(ctx context.Context, db IDatabase) error {
	for _, stmt := range schema {
		if err := db.ExecContext(ctx, stmt); err != nil {
			logger.Error("Migrate:Exec:Error", "error", err)
			return err
		}
	}
	logger.Info("Database schema up to date")
	return nil
}
