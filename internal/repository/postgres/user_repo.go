package postgres

import (
	"context"
	"errors"

	"github.com/dom/newsly/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	h *Handle
}

func NewUserRepository(h *Handle) *userRepository {
	return &userRepository{h: h}
}

// Create relies on the unique email index: a conflicting insert is skipped
// and reported as domain.ErrEmailExists, so two concurrent signups for the
// same address cannot both succeed.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	db, err := r.h.DB()
	if err != nil {
		return err
	}

	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(user)
	if result.Error != nil {
		return storageErr("create user", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrEmailExists
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db, err := r.h.DB()
	if err != nil {
		return nil, err
	}

	var user domain.User
	err = db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storageErr("get user", err)
	}
	return &user, nil
}

func (r *userRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	db, err := r.h.DB()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return 0, storageErr("count users", err)
	}
	return count, nil
}
