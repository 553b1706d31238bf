package database

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates every table the portal uses. Idempotent, run at
// startup so a fresh database is immediately usable.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS incorporation_requests (
		id UUID PRIMARY KEY,
		tracking_code TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL,
		name TEXT NOT NULL,
		surname TEXT NOT NULL,
		gender TEXT NOT NULL,
		civil_status TEXT NOT NULL,
		age INT NOT NULL,
		nationality TEXT NOT NULL,
		birthplace TEXT NOT NULL,
		id_type TEXT NOT NULL,
		id_number TEXT NOT NULL,
		email TEXT NOT NULL,
		discord TEXT NOT NULL,
		roblox TEXT NOT NULL,
		education_level TEXT NOT NULL,
		education_title TEXT,
		has_criminal_record BOOLEAN NOT NULL DEFAULT FALSE,
		record_competence TEXT,
		record_description TEXT,
		active_causes TEXT,
		motive TEXT NOT NULL,
		exam_1 TEXT NOT NULL,
		exam_2 TEXT NOT NULL,
		exam_3 TEXT NOT NULL,
		exam_4 TEXT NOT NULL,
		exam_5 TEXT NOT NULL,
		photo TEXT NOT NULL,
		medical_declaration BOOLEAN NOT NULL,
		oath_declaration BOOLEAN NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_incorporation_requests_status
		ON incorporation_requests (status)`,

	`CREATE TABLE IF NOT EXISTS crime_reports (
		id UUID PRIMARY KEY,
		report_code TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL,
		crime_type TEXT NOT NULL,
		description TEXT NOT NULL,
		location TEXT NOT NULL,
		date_of_crime TEXT,
		reporter TEXT,
		reporter_contact TEXT,
		evidence_note TEXT,
		assigned_officer TEXT,
		priority TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_crime_reports_status
		ON crime_reports (status)`,

	`CREATE TABLE IF NOT EXISTS bulletins (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		category TEXT NOT NULL,
		author TEXT,
		published BOOLEAN NOT NULL DEFAULT FALSE,
		published_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bulletins_published
		ON bulletins (published, published_at DESC)`,

	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL,
		password TEXT NOT NULL,
		full_name TEXT,
		email TEXT,
		badge_number TEXT,
		rank TEXT NOT NULL,
		department TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_username
		ON accounts (LOWER(username))`,

	`CREATE TABLE IF NOT EXISTS audit_events (
		id UUID PRIMARY KEY,
		occurred_at TIMESTAMPTZ NOT NULL,
		action TEXT NOT NULL,
		subject TEXT,
		actor_id TEXT,
		detail TEXT,
		request_id TEXT,
		client_ip TEXT,
		user_agent TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_events_occurred_at
		ON audit_events (occurred_at DESC)`,
}
