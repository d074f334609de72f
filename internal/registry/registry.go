package registry

import (
	"context"
	"time"
)

// Entry is one logged request, kept for the daily digest.
type Entry struct {
	At     time.Time `db:"created_at"`
	UserID int64     `db:"user_id"`
	Text   string    `db:"text"`
}

// Registry tracks everyone the bot has ever seen plus a bounded log of
// recent requests. Users are append-only; the log evicts oldest first.
type Registry interface {
	AddUser(ctx context.Context, userID int64) error
	Users(ctx context.Context) ([]int64, error)
	UserCount(ctx context.Context) (int, error)

	LogRequest(ctx context.Context, userID int64, text string) error
	RecentRequests(ctx context.Context, limit int) ([]Entry, error)
	RequestCount(ctx context.Context) (int, error)
}
