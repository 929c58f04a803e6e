package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/dom/newsly/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type sessionRepository struct {
	h *Handle
}

func NewSessionRepository(h *Handle) *sessionRepository {
	return &sessionRepository{h: h}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.UserSession) error {
	db, err := r.h.DB()
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Create(session).Error; err != nil {
		return storageErr("create session", err)
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.UserSession, error) {
	db, err := r.h.DB()
	if err != nil {
		return nil, err
	}

	var session domain.UserSession
	err = db.WithContext(ctx).First(&session, "id = ? AND expires_at > ?", id, time.Now()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, storageErr("get session", err)
	}
	return &session, nil
}

func (r *sessionRepository) Touch(ctx context.Context, id uuid.UUID, expiresAt time.Time) error {
	db, err := r.h.DB()
	if err != nil {
		return err
	}

	result := db.WithContext(ctx).
		Model(&domain.UserSession{}).
		Where("id = ? AND expires_at > ?", id, time.Now()).
		Update("expires_at", expiresAt)
	if result.Error != nil {
		return storageErr("touch session", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db, err := r.h.DB()
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Delete(&domain.UserSession{}, "id = ?", id).Error; err != nil {
		return storageErr("delete session", err)
	}
	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	db, err := r.h.DB()
	if err != nil {
		return 0, err
	}

	result := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.UserSession{})
	if result.Error != nil {
		return 0, storageErr("delete expired sessions", result.Error)
	}
	return result.RowsAffected, nil
}
