// Package audit captures the staff-visible actions the portal must be able
// to account for later. Events are emitted from domain logic and fan out to
// a store through the publisher; emitting is always best-effort and never
// fails the request that produced the event.
package audit

import (
	"context"
	"time"
)

// Action names a recordable portal event.
type Action string

const (
	// Intake events
	ActionApplicationSubmitted Action = "application_submitted"
	ActionCrimeReportSubmitted Action = "crime_report_submitted"

	// Staff workflow events
	ActionApplicationStatusChanged Action = "application_status_changed"
	ActionCrimeReportStatusChanged Action = "crime_report_status_changed"
	ActionBulletinCreated          Action = "bulletin_created"
	ActionBulletinPublished        Action = "bulletin_published"

	// Auth events
	ActionLoginSucceeded Action = "login_succeeded"
	ActionLoginFailed    Action = "login_failed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	Action    Action
	// Subject identifies the record acted on (id or tracking code).
	Subject string
	// ActorID is the staff account performing the action; empty for public
	// submissions.
	ActorID string
	// Detail carries the action-specific value (new status, bulletin title,
	// attempted username).
	Detail    string
	RequestID string
	ClientIP  string
	UserAgent string
}

// Store persists audit events. Implementations must be safe for concurrent
// use.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
