package testutil

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dom/newsly/internal/domain"
	"github.com/google/uuid"
)

// ReadyFlag is a settable repository.Readiness.
type ReadyFlag struct {
	ready atomic.Bool
}

func NewReadyFlag(ready bool) *ReadyFlag {
	f := &ReadyFlag{}
	f.ready.Store(ready)
	return f
}

func (f *ReadyFlag) Set(ready bool) { f.ready.Store(ready) }
func (f *ReadyFlag) Ready() bool    { return f.ready.Load() }

// MemoryUserRepository keeps users in a map keyed by email.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User

	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*domain.User)}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	key := user.Email
	if _, ok := r.users[key]; ok {
		return domain.ErrEmailExists
	}
	u := *user
	r.users[key] = &u
	return nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}

	if _, ok := r.users[email]; ok {
		return 1, nil
	}
	return 0, nil
}

// MemorySessionRepository treats sessions as expired according to Now.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.UserSession

	Now func() time.Time
	Err error
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[uuid.UUID]*domain.UserSession),
		Now:      time.Now,
	}
}

func (r *MemorySessionRepository) Create(ctx context.Context, session *domain.UserSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	s := *session
	r.sessions[session.ID] = &s
	return nil
}

func (r *MemorySessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.UserSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	s, ok := r.sessions[id]
	if !ok || s.Expired(r.Now()) {
		return nil, domain.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *MemorySessionRepository) Touch(ctx context.Context, id uuid.UUID, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	s, ok := r.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.ExpiresAt = expiresAt
	return nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	delete(r.sessions, id)
	return nil
}

func (r *MemorySessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}

	var n int64
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored sessions, expired ones included.
func (r *MemorySessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
