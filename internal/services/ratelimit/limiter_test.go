package ratelimit

import (
	"context"
	"testing"
	"time"

	apperrors "prequity/internal/errors"
	"prequity/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() (*MemoryStore, *time.Time) {
	now := time.Now()
	s := &MemoryStore{
		events:  make(map[string][]time.Time),
		stopped: make(chan struct{}),
	}
	s.now = func() time.Time { return now }
	return s, &now
}

func TestUploadLimit(t *testing.T) {
	store, _ := newTestStore()
	limiter := NewLimiter(store)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.Allow(ctx, 1, models.RoleUser, ActionUpload), "upload %d should pass", i+1)
	}

	err := limiter.Allow(ctx, 1, models.RoleUser, ActionUpload)
	assert.ErrorIs(t, err, apperrors.ErrRateLimitExceeded)

	// Another user's window is untouched.
	assert.NoError(t, limiter.Allow(ctx, 2, models.RoleUser, ActionUpload))
}

func TestWindowsAreIndependent(t *testing.T) {
	store, _ := newTestStore()
	limiter := NewLimiter(store)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.Allow(ctx, 1, models.RoleUser, ActionUpload))
	}
	require.ErrorIs(t, limiter.Allow(ctx, 1, models.RoleUser, ActionUpload), apperrors.ErrRateLimitExceeded)

	// Exhausting uploads does not touch status checks or views.
	assert.NoError(t, limiter.Allow(ctx, 1, models.RoleUser, ActionStatusCheck))
	assert.NoError(t, limiter.Allow(ctx, 1, models.RoleUser, ActionDocView))
}

func TestSlidingWindowExpiry(t *testing.T) {
	store, now := newTestStore()
	limiter := NewLimiter(store)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.Allow(ctx, 1, models.RoleUser, ActionUpload))
	}
	require.Error(t, limiter.Allow(ctx, 1, models.RoleUser, ActionUpload))

	// Once the earlier attempts age past the window, uploads resume.
	*now = now.Add(Window + time.Minute)
	assert.NoError(t, limiter.Allow(ctx, 1, models.RoleUser, ActionUpload))
}

func TestAdminExemptions(t *testing.T) {
	store, _ := newTestStore()
	limiter := NewLimiter(store)
	ctx := context.Background()

	t.Run("admins exempt from upload limit", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			assert.NoError(t, limiter.Allow(ctx, 9, models.RoleAdmin, ActionUpload))
		}
	})

	t.Run("admin action limit only applies to admins", func(t *testing.T) {
		for i := 0; i < 150; i++ {
			assert.NoError(t, limiter.Allow(ctx, 1, models.RoleUser, ActionAdminAction))
		}

		var rejected bool
		for i := 0; i < 101; i++ {
			if err := limiter.Allow(ctx, 9, models.RoleAdmin, ActionAdminAction); err != nil {
				rejected = true
				break
			}
		}
		assert.True(t, rejected, "admin should hit the admin-action limit")
	})
}

func TestStatusCheckLimit(t *testing.T) {
	store, _ := newTestStore()
	limiter := NewLimiter(store)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		require.NoError(t, limiter.Allow(ctx, 1, models.RoleUser, ActionStatusCheck))
	}
	assert.ErrorIs(t, limiter.Allow(ctx, 1, models.RoleUser, ActionStatusCheck), apperrors.ErrRateLimitExceeded)
}

func TestUnknownAction(t *testing.T) {
	store, _ := newTestStore()
	limiter := NewLimiter(store)
	assert.Error(t, limiter.Allow(context.Background(), 1, models.RoleUser, Action("bogus")))
}

func TestMemoryStoreSweep(t *testing.T) {
	store, now := newTestStore()
	_, err := store.Count(context.Background(), "k", Window)
	require.NoError(t, err)

	*now = now.Add(2 * Window)
	store.sweepOnce()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.events)
}
