package registry

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Postgres is the durable Registry backend, selected when database support
// is enabled in configuration.
type Postgres struct {
	db     *sqlx.DB
	logCap int
}

// NewPostgres wraps an open connection pool. Migrations must have run.
func NewPostgres(db *sqlx.DB, logCap int) *Postgres {
	if logCap <= 0 {
		logCap = 1000
	}
	return &Postgres{db: db, logCap: logCap}
}

// AddUser inserts the user on first contact; conflicts are ignored.
func (p *Postgres) AddUser(ctx context.Context, userID int64) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO bot_users (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("add user: %w", err)
	}
	return nil
}

// Users returns all registered user IDs in first-seen order.
func (p *Postgres) Users(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := p.db.SelectContext(ctx, &ids,
		`SELECT user_id FROM bot_users ORDER BY first_seen_at, user_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ids, nil
}

// UserCount returns the number of registered users.
func (p *Postgres) UserCount(ctx context.Context) (int, error) {
	var n int
	if err := p.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM bot_users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// LogRequest appends a request entry and trims the log to its bound.
func (p *Postgres) LogRequest(ctx context.Context, userID int64, text string) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO request_log (user_id, text) VALUES ($1, $2)`,
		userID, text,
	)
	if err != nil {
		return fmt.Errorf("log request: %w", err)
	}
	_, err = p.db.ExecContext(ctx,
		`DELETE FROM request_log
		 WHERE id NOT IN (SELECT id FROM request_log ORDER BY id DESC LIMIT $1)`,
		p.logCap,
	)
	if err != nil {
		return fmt.Errorf("trim request log: %w", err)
	}
	return nil
}

// RecentRequests returns up to limit newest entries, newest first.
func (p *Postgres) RecentRequests(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = p.logCap
	}
	var entries []Entry
	err := p.db.SelectContext(ctx, &entries,
		`SELECT created_at, user_id, text FROM request_log ORDER BY id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent requests: %w", err)
	}
	return entries, nil
}

// RequestCount returns the number of entries currently in the log window.
func (p *Postgres) RequestCount(ctx context.Context) (int, error) {
	var n int
	if err := p.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM request_log`); err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}
	return n, nil
}
