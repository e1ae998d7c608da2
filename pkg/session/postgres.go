package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// defaultTable is the sessions table name unless overridden with WithTable.
const defaultTable = "sessions"

// Schema is the DDL for the default sessions table. Run it once at
// startup (see Migrate) or fold it into your migration tooling.
const Schema = `
CREATE TABLE IF NOT EXISTS %s (
	token      TEXT PRIMARY KEY,
	id         UUID NOT NULL,
	data       JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS %s_expires_at_idx ON %s (expires_at);
`

// Postgres is a session store backed by PostgreSQL via pgx. Use it when
// sessions must survive restarts and Redis is not part of the deployment.
type Postgres struct {
	pool  *pgxpool.Pool
	table string
}

// PostgresOption configures the Postgres store.
type PostgresOption func(*Postgres)

// WithTable sets the sessions table name. Default is "sessions".
func WithTable(table string) PostgresOption {
	return func(p *Postgres) {
		if table != "" {
			p.table = table
		}
	}
}

// NewPostgres creates a PostgreSQL-backed session store.
// The pool should be configured and pinged by the caller.
func NewPostgres(pool *pgxpool.Pool, opts ...PostgresOption) *Postgres {
	p := &Postgres{
		pool:  pool,
		table: defaultTable,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Migrate creates the sessions table if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	ddl := fmt.Sprintf(Schema, p.table, p.table, p.table)
	if _, err := p.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("session: migrate: %w", err)
	}
	return nil
}

// Create persists a new session.
func (p *Postgres) Create(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s.Values)
	if err != nil {
		return fmt.Errorf("session: encode values: %w", err)
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (token, id, data, created_at, expires_at) VALUES ($1, $2, $3, $4, $5)`,
		p.table,
	)
	if _, err := p.pool.Exec(ctx, query, s.Token, s.ID, data, s.CreatedAt, s.ExpiresAt); err != nil {
		return fmt.Errorf("session: insert: %w", err)
	}
	return nil
}

// Get retrieves a session by its token. Expired rows are removed lazily.
func (p *Postgres) Get(ctx context.Context, token string) (*Session, error) {
	query := fmt.Sprintf(
		`SELECT id, data, created_at, expires_at FROM %s WHERE token = $1`,
		p.table,
	)

	rec := record{Token: token}
	var data []byte
	err := p.pool.QueryRow(ctx, query, token).Scan(&rec.ID, &data, &rec.CreatedAt, &rec.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: select: %w", err)
	}

	sess := rec.restore()
	if sess.IsExpired() {
		_ = p.Delete(ctx, token)
		return nil, ErrExpired
	}

	if err := json.Unmarshal(data, &sess.Values); err != nil {
		return nil, fmt.Errorf("session: decode values: %w", err)
	}

	return sess, nil
}

// Update saves changes to an existing session.
func (p *Postgres) Update(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s.Values)
	if err != nil {
		return fmt.Errorf("session: encode values: %w", err)
	}

	query := fmt.Sprintf(
		`UPDATE %s SET data = $2, expires_at = $3 WHERE token = $1`,
		p.table,
	)
	tag, err := p.pool.Exec(ctx, query, s.Token, data, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("session: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a session by its token.
func (p *Postgres) Delete(ctx context.Context, token string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE token = $1`, p.table)
	if _, err := p.pool.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

// DeleteExpired removes all expired sessions and returns how many rows
// were deleted. Call it on a schedule appropriate for your traffic.
func (p *Postgres) DeleteExpired(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE expires_at < now()`, p.table)
	tag, err := p.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("session: delete expired: %w", err)
	}
	return tag.RowsAffected(), nil
}
