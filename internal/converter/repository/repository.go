package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ============================================================
// Export History Repository
// ============================================================

var ErrNotFound = errors.New("not found")

// timeLayout sorts lexicographically in UTC.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Export is one recorded export call.
type Export struct {
	ID         string    `json:"id"`
	Mode       string    `json:"mode"`
	ExportType string    `json:"exportType"`
	Project    string    `json:"project,omitempty"`
	Spaces     int       `json:"spaces"`
	Surfaces   int       `json:"surfaces"`
	Suppressed int       `json:"suppressed"`
	Files      int       `json:"files"`
	CacheHit   bool      `json:"cacheHit"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Repository struct {
	db       *sql.DB
	postgres bool
}

// New wraps an open database. driver selects the placeholder style.
func New(db *sql.DB, driver string) *Repository {
	return &Repository{db: db, postgres: driver == DriverPostgres}
}

// Init applies the schema.
func (r *Repository) Init(ctx context.Context) error {
	if err := r.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Record stores an export and fills in its ID and creation time when unset.
func (r *Repository) Record(ctx context.Context, e *Export) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, r.rebind(`
        INSERT INTO exports (id, mode, export_type, project, spaces, surfaces, suppressed, files, cache_hit, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `),
		e.ID, e.Mode, e.ExportType, e.Project,
		e.Spaces, e.Surfaces, e.Suppressed, e.Files,
		boolInt(e.CacheHit), e.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert export: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Export, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`
        SELECT id, mode, export_type, project, spaces, surfaces, suppressed, files, cache_hit, created_at
        FROM exports
        WHERE id = ?
    `), id)

	e, err := scanExport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// Recent returns the newest exports first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Export, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, r.rebind(`
        SELECT id, mode, export_type, project, spaces, surfaces, suppressed, files, cache_hit, created_at
        FROM exports
        ORDER BY created_at DESC
        LIMIT ?
    `), limit)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()

	out := []Export{}
	for rows.Next() {
		e, err := scanExport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExport(s scanner) (*Export, error) {
	var (
		e        Export
		cacheHit int
		created  string
	)
	if err := s.Scan(&e.ID, &e.Mode, &e.ExportType, &e.Project, &e.Spaces, &e.Surfaces, &e.Suppressed, &e.Files, &cacheHit, &created); err != nil {
		return nil, err
	}
	e.CacheHit = cacheHit != 0
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	e.CreatedAt = t
	return &e, nil
}

// ============================================================
// Migrations
// ============================================================

const schema = `
CREATE TABLE IF NOT EXISTS exports (
    id          TEXT PRIMARY KEY,
    mode        TEXT NOT NULL,
    export_type TEXT NOT NULL,
    project     TEXT NOT NULL DEFAULT '',
    spaces      INTEGER NOT NULL DEFAULT 0,
    surfaces    INTEGER NOT NULL DEFAULT 0,
    suppressed  INTEGER NOT NULL DEFAULT 0,
    files       INTEGER NOT NULL DEFAULT 0,
    cache_hit   INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL
)`

const schemaIndex = `CREATE INDEX IF NOT EXISTS idx_exports_created_at ON exports (created_at)`

func (r *Repository) runMigrations(ctx context.Context) error {
	for _, stmt := range []string{schema, schemaIndex} {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (r *Repository) rebind(query string) string {
	if !r.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
