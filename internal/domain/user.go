package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public is the identity that may be shown to the client.
func (u *User) Public() PublicUser {
	return PublicUser{Name: u.Name, Email: u.Email}
}

type PublicUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserSession struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserName  string    `json:"userName" gorm:"not null"`
	UserEmail string    `json:"userEmail" gorm:"not null;index"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the session is no longer usable at now.
func (s *UserSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s *UserSession) User() PublicUser {
	return PublicUser{Name: s.UserName, Email: s.UserEmail}
}
