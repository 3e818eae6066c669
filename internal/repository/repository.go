package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"studiobid/internal/biddingerrors"
	model "studiobid/internal/models"
)

// SessionDB defines the session storage interface. It stands in for the
// browser's local storage: the auth token, the cached profile summary and the
// feed a visitor is paging through.
type SessionDB interface {
	Load(ctx context.Context, id string) (model.Session, error)
	Save(ctx context.Context, session model.Session) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	session   model.Session
	expiresAt time.Time
}

// MemoryRepo is a concurrency-safe in-memory implementation of SessionDB.
// Entries expire ttl after their last save and are evicted by a janitor
// goroutine until Close is called.
type MemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry // key: session id
	ttl      time.Duration
	now      func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewMemoryRepo creates a new in-memory session store. sweepEvery <= 0
// disables the janitor; expired entries are then only hidden on Load.
func NewMemoryRepo(ttl, sweepEvery time.Duration) *MemoryRepo {
	r := &MemoryRepo{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	if sweepEvery > 0 {
		go r.janitor(sweepEvery)
	} else {
		close(r.done)
	}
	return r
}

// Load returns a copy of the session stored under id
func (r *MemoryRepo) Load(_ context.Context, id string) (model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.sessions[id]
	if !ok || r.expired(entry) {
		return model.Session{}, fmt.Errorf("load session %s: %w", id, biddingerrors.ErrSessionNotFound)
	}
	return cloneSession(entry.session), nil
}

// Save stores a copy of session and restarts its ttl
func (r *MemoryRepo) Save(_ context.Context, session model.Session) error {
	if session.ID == "" {
		return fmt.Errorf("save session: empty id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry := memoryEntry{session: cloneSession(session)}
	if r.ttl > 0 {
		entry.expiresAt = r.now().Add(r.ttl)
	}
	r.sessions[session.ID] = entry
	return nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (r *MemoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included
func (r *MemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close stops the janitor and waits for it to exit
func (r *MemoryRepo) Close() error {
	r.closeOnce.Do(func() {
		close(r.stop)
	})
	<-r.done
	return nil
}

func (r *MemoryRepo) janitor(every time.Duration) {
	defer close(r.done)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

// sweep evicts every expired session
func (r *MemoryRepo) sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, entry := range r.sessions {
		if r.expired(entry) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (r *MemoryRepo) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !r.now().Before(entry.expiresAt)
}

// cloneSession copies the pointer and slice fields so callers never share
// state with the store
func cloneSession(s model.Session) model.Session {
	out := s
	if s.Auth != nil {
		auth := *s.Auth
		if s.Auth.ExpiresAt != nil {
			exp := *s.Auth.ExpiresAt
			auth.ExpiresAt = &exp
		}
		out.Auth = &auth
	}
	if s.Feed.LoadedIDs != nil {
		out.Feed.LoadedIDs = append([]string(nil), s.Feed.LoadedIDs...)
	}
	return out
}
