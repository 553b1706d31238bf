package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"pfaportal/internal/application/models"
	"pfaportal/pkg/platform/sentinel"
)

// uniqueViolation is the postgres error code raised when the tracking code
// unique index rejects an insert.
const uniqueViolation = "23505"

// Postgres persists applications in the incorporation_requests table.
type Postgres struct {
	db    *sql.DB
	clock Clock
}

// PostgresOption configures a Postgres store.
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

const applicationColumns = `
	id, tracking_code, status,
	name, surname, gender, civil_status, age, nationality, birthplace, id_type, id_number,
	email, discord, roblox,
	education_level, education_title, has_criminal_record, record_competence, record_description, active_causes,
	motive, exam_1, exam_2, exam_3, exam_4, exam_5,
	photo, medical_declaration, oath_declaration,
	created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, app *models.Application) (*models.Application, error) {
	now := s.clock()
	stored := *app
	stored.ID = uuid.NewString()
	if stored.Status == "" {
		stored.Status = models.StatusEnRevision
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now

	query := `
		INSERT INTO incorporation_requests (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32)
	`
	_, err := s.db.ExecContext(ctx, query,
		stored.ID, stored.TrackingCode, string(stored.Status),
		stored.Name, stored.Surname, stored.Gender, stored.CivilStatus, stored.Age,
		stored.Nationality, stored.Birthplace, stored.IDType, stored.IDNumber,
		stored.Email, stored.Discord, stored.Roblox,
		stored.EducationLevel, stored.EducationTitle, stored.HasCriminalRecord,
		nullable(stored.RecordCompetence), nullable(stored.RecordDescription), nullable(stored.ActiveCauses),
		stored.Motive, stored.Exam1, stored.Exam2, stored.Exam3, stored.Exam4, stored.Exam5,
		stored.Photo, stored.MedicalDeclaration, stored.OathDeclaration,
		stored.CreatedAt, stored.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, sentinel.ErrCodeTaken
		}
		return nil, fmt.Errorf("insert incorporation request: %w", err)
	}
	return &stored, nil
}

func (s *Postgres) GetByID(ctx context.Context, id string) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM incorporation_requests WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

func (s *Postgres) GetByCode(ctx context.Context, code string) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM incorporation_requests WHERE tracking_code = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, code))
}

func (s *Postgres) ListAll(ctx context.Context) ([]*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM incorporation_requests ORDER BY created_at ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list incorporation requests: %w", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (s *Postgres) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Application, error) {
	query := `
		UPDATE incorporation_requests
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + applicationColumns
	return s.scanOne(s.db.QueryRowContext(ctx, query, id, string(status), s.clock()))
}

func (s *Postgres) UpdateFields(ctx context.Context, id string, patch FieldPatch) (*models.Application, error) {
	query := `
		UPDATE incorporation_requests
		SET email = COALESCE($2, email),
		    discord = COALESCE($3, discord),
		    roblox = COALESCE($4, roblox),
		    photo = COALESCE($5, photo),
		    updated_at = $6
		WHERE id = $1
		RETURNING ` + applicationColumns
	return s.scanOne(s.db.QueryRowContext(ctx, query, id, patch.Email, patch.Discord, patch.Roblox, patch.Photo, s.clock()))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Postgres) scanOne(row rowScanner) (*models.Application, error) {
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var app models.Application
	var status string
	var recordCompetence, recordDescription, activeCauses sql.NullString
	err := row.Scan(
		&app.ID, &app.TrackingCode, &status,
		&app.Name, &app.Surname, &app.Gender, &app.CivilStatus, &app.Age,
		&app.Nationality, &app.Birthplace, &app.IDType, &app.IDNumber,
		&app.Email, &app.Discord, &app.Roblox,
		&app.EducationLevel, &app.EducationTitle, &app.HasCriminalRecord,
		&recordCompetence, &recordDescription, &activeCauses,
		&app.Motive, &app.Exam1, &app.Exam2, &app.Exam3, &app.Exam4, &app.Exam5,
		&app.Photo, &app.MedicalDeclaration, &app.OathDeclaration,
		&app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan incorporation request: %w", err)
	}
	app.Status = models.Status(status)
	app.RecordCompetence = recordCompetence.String
	app.RecordDescription = recordDescription.String
	app.ActiveCauses = activeCauses.String
	return &app, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
