package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"pfaportal/internal/account/models"
	"pfaportal/pkg/platform/sentinel"
)

// pq error code for unique constraint violations.
const uniqueViolation = "23505"

// Postgres persists staff accounts in the accounts table.
type Postgres struct {
	db    *sql.DB
	clock Clock
}

type PostgresOption func(*Postgres)

func WithPostgresClock(clock Clock) PostgresOption {
	return func(s *Postgres) {
		s.clock = clock
	}
}

func NewPostgres(db *sql.DB, opts ...PostgresOption) *Postgres {
	s := &Postgres{db: db, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const accountColumns = `id, username, password, full_name, email, badge_number, rank, department, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	now := s.clock()
	stored := *account
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO accounts (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, accountColumns)
	_, err := s.db.ExecContext(ctx, query,
		stored.ID, stored.Username, stored.Password,
		nullable(stored.FullName), nullable(stored.Email), nullable(stored.BadgeNumber),
		string(stored.Rank), nullable(string(stored.Department)),
		stored.CreatedAt, stored.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, sentinel.ErrConflict
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return &stored, nil
}

func (s *Postgres) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, accountColumns)
	return scanAccount(s.db.QueryRowContext(ctx, query, id))
}

func (s *Postgres) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE LOWER(username) = LOWER($1)`, accountColumns)
	return scanAccount(s.db.QueryRowContext(ctx, query, username))
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		account     models.Account
		fullName    sql.NullString
		email       sql.NullString
		badgeNumber sql.NullString
		department  sql.NullString
	)
	err := row.Scan(
		&account.ID, &account.Username, &account.Password,
		&fullName, &email, &badgeNumber, &account.Rank, &department,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	account.FullName = fullName.String
	account.Email = email.String
	account.BadgeNumber = badgeNumber.String
	account.Department = models.Department(department.String)
	return &account, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
