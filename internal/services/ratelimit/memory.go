package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local sliding-window counter. It is not
// shared across instances, so horizontal scaling weakens the limit to
// per-instance; deployments with multiple replicas should inject the
// Redis store instead.
type MemoryStore struct {
	mu      sync.Mutex
	events  map[string][]time.Time
	now     func() time.Time
	stopped chan struct{}
}

// NewMemoryStore returns a store with a background sweeper that drops
// keys whose events have all aged out of the window.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		events:  make(map[string][]time.Time),
		now:     time.Now,
		stopped: make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *MemoryStore) Count(_ context.Context, key string, window time.Duration) (int, error) {
	now := s.now()
	cutoff := now.Add(-window)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[key][:0]
	for _, t := range s.events[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	kept = append(kept, now)
	s.events[key] = kept
	return len(kept), nil
}

// Close stops the sweeper.
func (s *MemoryStore) Close() {
	close(s.stopped)
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopped:
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

func (s *MemoryStore) sweepOnce() {
	cutoff := s.now().Add(-Window)
	s.mu.Lock()
	for key, times := range s.events {
		if len(times) == 0 || !times[len(times)-1].After(cutoff) {
			delete(s.events, key)
		}
	}
	s.mu.Unlock()
}
