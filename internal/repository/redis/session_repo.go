package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dom/newsly/internal/domain"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const keyPrefix = "newsly:sess:"

// Connect opens a client and verifies it with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	log.Printf("Connected to Redis at %s (DB: %d)", addr, db)
	return client, nil
}

// SessionRepository keeps sessions as JSON values whose key TTL tracks the
// session expiry, so expired sessions disappear without a sweep.
type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.UserSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, key(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: create session: %w", domain.ErrStorage, err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.UserSession, error) {
	data, err := r.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: get session: %w", domain.ErrStorage, err)
	}

	var session domain.UserSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: decode session: %w", domain.ErrStorage, err)
	}
	if session.Expired(time.Now()) {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r *SessionRepository) Touch(ctx context.Context, id uuid.UUID, expiresAt time.Time) error {
	session, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	session.ExpiresAt = expiresAt

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	// XX: never resurrect a session deleted by a concurrent logout.
	ok, err := r.client.SetXX(ctx, key(id), data, time.Until(expiresAt)).Result()
	if err != nil {
		return fmt.Errorf("%w: touch session: %w", domain.ErrStorage, err)
	}
	if !ok {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("%w: delete session: %w", domain.ErrStorage, err)
	}
	return nil
}

// DeleteExpired is a no-op: redis evicts keys when their TTL runs out.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
