package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"pfaportal/internal/crimereport/models"
	"pfaportal/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// Postgres persists reports in the crime_reports table.
type Postgres struct {
	db    *sql.DB
	clock Clock
}

type PostgresOption func(*Postgres)

// WithPostgresClock sets the clock function for testability.
func WithPostgresClock(clock Clock) PostgresOption {
	return func(s *Postgres) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewPostgres(db *sql.DB, opts ...PostgresOption) *Postgres {
	s := &Postgres{db: db, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const reportColumns = `
	id, report_code, status, crime_type, description, location,
	date_of_crime, reporter, reporter_contact, evidence_note, assigned_officer, priority,
	created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, report *models.CrimeReport) (*models.CrimeReport, error) {
	now := s.clock()
	stored := *report
	stored.ID = uuid.NewString()
	if stored.Status == "" {
		stored.Status = models.StatusRegistrada
	}
	if stored.Priority == "" {
		stored.Priority = models.PriorityNormal
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now

	query := `
		INSERT INTO crime_reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(ctx, query,
		stored.ID, stored.ReportCode, string(stored.Status),
		stored.CrimeType, stored.Description, stored.Location,
		nullable(stored.DateOfCrime), nullable(stored.Reporter), nullable(stored.ReporterContact),
		nullable(stored.EvidenceNote), nullable(stored.AssignedOfficer), string(stored.Priority),
		stored.CreatedAt, stored.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, sentinel.ErrCodeTaken
		}
		return nil, fmt.Errorf("insert crime report: %w", err)
	}
	return &stored, nil
}

func (s *Postgres) GetByID(ctx context.Context, id string) (*models.CrimeReport, error) {
	query := `SELECT ` + reportColumns + ` FROM crime_reports WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

func (s *Postgres) GetByCode(ctx context.Context, code string) (*models.CrimeReport, error) {
	query := `SELECT ` + reportColumns + ` FROM crime_reports WHERE report_code = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, code))
}

func (s *Postgres) ListAll(ctx context.Context) ([]*models.CrimeReport, error) {
	query := `SELECT ` + reportColumns + ` FROM crime_reports ORDER BY created_at ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list crime reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.CrimeReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func (s *Postgres) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.CrimeReport, error) {
	query := `
		UPDATE crime_reports
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + reportColumns
	return s.scanOne(s.db.QueryRowContext(ctx, query, id, string(status), s.clock()))
}

func (s *Postgres) UpdateFields(ctx context.Context, id string, patch FieldPatch) (*models.CrimeReport, error) {
	var priority *string
	if patch.Priority != nil {
		p := string(*patch.Priority)
		priority = &p
	}
	query := `
		UPDATE crime_reports
		SET assigned_officer = COALESCE($2, assigned_officer),
		    priority = COALESCE($3, priority),
		    evidence_note = COALESCE($4, evidence_note),
		    updated_at = $5
		WHERE id = $1
		RETURNING ` + reportColumns
	return s.scanOne(s.db.QueryRowContext(ctx, query, id, patch.AssignedOfficer, priority, patch.EvidenceNote, s.clock()))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Postgres) scanOne(row rowScanner) (*models.CrimeReport, error) {
	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

func scanReport(row rowScanner) (*models.CrimeReport, error) {
	var r models.CrimeReport
	var status, priority string
	var dateOfCrime, reporter, reporterContact, evidenceNote, assignedOfficer sql.NullString
	err := row.Scan(
		&r.ID, &r.ReportCode, &status, &r.CrimeType, &r.Description, &r.Location,
		&dateOfCrime, &reporter, &reporterContact, &evidenceNote, &assignedOfficer, &priority,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan crime report: %w", err)
	}
	r.Status = models.Status(status)
	r.Priority = models.Priority(priority)
	r.DateOfCrime = dateOfCrime.String
	r.Reporter = reporter.String
	r.ReporterContact = reporterContact.String
	r.EvidenceNote = evidenceNote.String
	r.AssignedOfficer = assignedOfficer.String
	return &r, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
