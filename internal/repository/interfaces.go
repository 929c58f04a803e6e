package repository

import (
	"context"
	"time"

	"github.com/dom/newsly/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	// Create inserts the user unless a row with the same email exists, in
	// which case it returns domain.ErrEmailExists.
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	CountByEmail(ctx context.Context, email string) (int64, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	// Get returns domain.ErrSessionNotFound for unknown or expired sessions.
	Get(ctx context.Context, id uuid.UUID) (*domain.UserSession, error)
	Touch(ctx context.Context, id uuid.UUID, expiresAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Readiness reports whether the backing store is connected.
type Readiness interface {
	Ready() bool
}

type Repositories struct {
	User    UserRepository
	Session SessionRepository
}
