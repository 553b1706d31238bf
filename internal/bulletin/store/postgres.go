package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pfaportal/internal/bulletin/models"
	"pfaportal/pkg/platform/sentinel"
)

// Postgres persists bulletins in the bulletins table.
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

const bulletinColumns = `id, title, content, category, author, published, published_at, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, b *models.Bulletin) (*models.Bulletin, error) {
	now := s.clock()
	stored := *b
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Published {
		at := now
		stored.PublishedAt = &at
	} else {
		stored.PublishedAt = nil
	}

	query := fmt.Sprintf(`INSERT INTO bulletins (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, bulletinColumns)
	_, err := s.db.ExecContext(ctx, query,
		stored.ID, stored.Title, stored.Content, string(stored.Category),
		nullable(stored.Author), stored.Published, stored.PublishedAt,
		stored.CreatedAt, stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert bulletin: %w", err)
	}
	return &stored, nil
}

func (s *Postgres) GetByID(ctx context.Context, id string) (*models.Bulletin, error) {
	query := fmt.Sprintf(`SELECT %s FROM bulletins WHERE id = $1`, bulletinColumns)
	return scanBulletin(s.db.QueryRowContext(ctx, query, id))
}

func (s *Postgres) ListAll(ctx context.Context) ([]*models.Bulletin, error) {
	query := fmt.Sprintf(`SELECT %s FROM bulletins ORDER BY created_at ASC`, bulletinColumns)
	return s.list(ctx, query)
}

func (s *Postgres) ListPublished(ctx context.Context) ([]*models.Bulletin, error) {
	query := fmt.Sprintf(`SELECT %s FROM bulletins WHERE published ORDER BY published_at DESC`, bulletinColumns)
	return s.list(ctx, query)
}

func (s *Postgres) list(ctx context.Context, query string) ([]*models.Bulletin, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bulletins: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Bulletin, 0)
	for rows.Next() {
		b, err := scanBulletin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Postgres) Publish(ctx context.Context, id string) (*models.Bulletin, error) {
	now := s.clock()
	query := fmt.Sprintf(`UPDATE bulletins
		SET published = TRUE, published_at = $2, updated_at = $2
		WHERE id = $1 AND NOT published
		RETURNING %s`, bulletinColumns)
	b, err := scanBulletin(s.db.QueryRowContext(ctx, query, id, now))
	if errors.Is(err, sentinel.ErrNotFound) {
		// Distinguish a missing row from one that is already published.
		if _, getErr := s.GetByID(ctx, id); getErr == nil {
			return nil, sentinel.ErrConflict
		}
		return nil, sentinel.ErrNotFound
	}
	return b, err
}

func (s *Postgres) UpdateFields(ctx context.Context, id string, patch FieldPatch) (*models.Bulletin, error) {
	query := fmt.Sprintf(`UPDATE bulletins
		SET title = COALESCE($2, title),
		    content = COALESCE($3, content),
		    category = COALESCE($4, category),
		    updated_at = $5
		WHERE id = $1
		RETURNING %s`, bulletinColumns)
	var category *string
	if patch.Category != nil {
		c := string(*patch.Category)
		category = &c
	}
	return scanBulletin(s.db.QueryRowContext(ctx, query, id, patch.Title, patch.Content, category, s.clock()))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBulletin(row rowScanner) (*models.Bulletin, error) {
	var (
		b           models.Bulletin
		author      sql.NullString
		publishedAt sql.NullTime
	)
	err := row.Scan(
		&b.ID, &b.Title, &b.Content, &b.Category,
		&author, &b.Published, &publishedAt,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan bulletin: %w", err)
	}
	b.Author = author.String
	if publishedAt.Valid {
		at := publishedAt.Time
		b.PublishedAt = &at
	}
	return &b, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
