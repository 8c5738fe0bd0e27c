package auth

import (
	"context"
	"sync"
	"time"
)

// SessionStore maps a subject id to the single token string currently
// honored for that subject. Put overwrites any previous entry and restarts
// its TTL; Get never returns a logically-expired value; Delete is a no-op
// for absent keys. Implementations must be safe for concurrent use.
type SessionStore interface {
	Put(ctx context.Context, subjectID, token string, ttl time.Duration) error
	Get(ctx context.Context, subjectID string) (string, bool, error)
	Delete(ctx context.Context, subjectID string) error
}

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// MemorySessionStore is an in-process SessionStore with per-entry expiry.
// Expired entries are treated as absent on read and reaped by a background
// sweep.
type MemorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	done    chan struct{}
	once    sync.Once
}

// NewMemorySessionStore creates the store and starts its sweep goroutine.
// Callers own the lifecycle and must call Stop on shutdown.
func NewMemorySessionStore(sweepInterval time.Duration) *MemorySessionStore {
	if sweepInterval <= 0 {
		sweepInterval = 60 * time.Second
	}
	s := &MemorySessionStore{
		entries: make(map[string]memoryEntry),
		done:    make(chan struct{}),
	}
	go s.sweep(sweepInterval)
	return s
}

// Put records token as the subject's only live session.
func (s *MemorySessionStore) Put(_ context.Context, subjectID, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[subjectID] = memoryEntry{token: token, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Get returns the live token for the subject, if any.
func (s *MemorySessionStore) Get(_ context.Context, subjectID string) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[subjectID]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return "", false, nil
	}
	return entry.token, true, nil
}

// Delete removes the subject's session entry.
func (s *MemorySessionStore) Delete(_ context.Context, subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, subjectID)
	return nil
}

// Stop terminates the sweep goroutine. Safe to call more than once.
func (s *MemorySessionStore) Stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *MemorySessionStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for key, entry := range s.entries {
				if now.After(entry.expiresAt) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}
