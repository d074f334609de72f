package session

import (
	"context"
	"time"
)

// Limiter enforces a minimum interval between a user's AI-class requests.
// Button-driven lookups bypass it entirely.
type Limiter struct {
	store    Store
	cooldown time.Duration
}

// NewLimiter builds a Limiter over the given store.
func NewLimiter(store Store, cooldown time.Duration) *Limiter {
	if cooldown <= 0 {
		cooldown = 20 * time.Second
	}
	return &Limiter{store: store, cooldown: cooldown}
}

// Cooldown returns the configured pacing interval.
func (l *Limiter) Cooldown() time.Duration {
	return l.cooldown
}

// Allow reports whether the user may issue an AI request at now, and on
// allow stamps lastRequestAt so the next call within the cooldown is
// rejected. Check and stamp happen inside one store mutation, so parallel
// calls for the same user cannot both pass. A store failure denies the
// request.
func (l *Limiter) Allow(ctx context.Context, userID int64, now time.Time) bool {
	allowed := false
	_, err := l.store.Update(ctx, userID, func(s *UserSession) {
		if !s.LastRequestAt.IsZero() && now.Sub(s.LastRequestAt) < l.cooldown {
			return
		}
		s.LastRequestAt = now
		allowed = true
	})
	return err == nil && allowed
}

// Retry reports how long the user must wait before the next allowed request.
func (l *Limiter) Retry(ctx context.Context, userID int64, now time.Time) time.Duration {
	sess, err := l.store.Get(ctx, userID)
	if err != nil {
		return l.cooldown
	}
	if sess.LastRequestAt.IsZero() {
		return 0
	}
	wait := l.cooldown - now.Sub(sess.LastRequestAt)
	if wait < 0 {
		return 0
	}
	return wait
}
