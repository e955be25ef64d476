// Package ratelimit implements per-actor sliding-window rate limiting.
// The counter store is injected: the in-process store covers a single
// instance, the Redis store shares counters across instances.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"prequity/internal/errors"
	"prequity/internal/models"
)

// Action classes. Each class has its own independent window; exceeding
// one never affects another.
type Action string

const (
	ActionUpload      Action = "upload"
	ActionStatusCheck Action = "status_check"
	ActionAdminAction Action = "admin_action"
	ActionDocView     Action = "document_view"
)

// Window is the trailing interval every limit is counted over.
const Window = time.Hour

var limits = map[Action]int{
	ActionUpload:      5,
	ActionStatusCheck: 30,
	ActionAdminAction: 100,
	ActionDocView:     50,
}

// Store counts events for a key within a trailing window.
type Store interface {
	// Count records one event for key and returns how many events fall
	// inside the window ending now, including the one just recorded.
	Count(ctx context.Context, key string, window time.Duration) (int, error)
}

// Limiter applies the per-action limits over a Store.
type Limiter struct {
	store Store
}

func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store}
}

// Allow records an attempt and returns ErrRateLimitExceeded when the
// actor is over the action's limit. Admins are exempt from the upload
// limit; the admin-action limit applies only to admins.
func (l *Limiter) Allow(ctx context.Context, actorID uint, role string, action Action) error {
	limit, ok := limits[action]
	if !ok {
		return fmt.Errorf("unknown rate limit action %q", action)
	}

	isAdmin := role == models.RoleAdmin
	if action == ActionUpload && isAdmin {
		return nil
	}
	if action == ActionAdminAction && !isAdmin {
		return nil
	}

	count, err := l.store.Count(ctx, key(actorID, action), Window)
	if err != nil {
		// A broken counter store must not take the API down; the limit
		// degrades to best-effort and the failure is surfaced in logs
		// by the store itself.
		return nil
	}
	if count > limit {
		return errors.ErrRateLimitExceeded
	}
	return nil
}

func key(actorID uint, action Action) string {
	return fmt.Sprintf("ratelimit:%s:%d", action, actorID)
}
