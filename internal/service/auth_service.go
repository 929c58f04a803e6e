package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dom/newsly/internal/config"
	"github.com/dom/newsly/internal/domain"
	"github.com/dom/newsly/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingSignupFields = fmt.Errorf("%w: all fields are required", domain.ErrValidation)
	ErrMissingSigninFields = fmt.Errorf("%w: both email and password are required", domain.ErrValidation)
	ErrInvalidCredentials  = domain.ErrAuth
	ErrInvalidSessionToken = errors.New("invalid session token")
)

type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	cfg         *config.Config
	now         func() time.Time

	// dummyHash is compared against when the email is unknown so that both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, cfg *config.Config) *AuthService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("newsly-dummy-password"), bcryptCost(cfg))
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
		now:         time.Now,
		dummyHash:   dummy,
	}
}

// WithClock replaces the time source; used by tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type SigninInput struct {
	Email    string
	Password string
}

type SigninResult struct {
	User    domain.PublicUser
	Session *domain.UserSession
	Token   string
}

type AuthStatus struct {
	Authenticated bool               `json:"authenticated"`
	User          *domain.PublicUser `json:"user,omitempty"`
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) error {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return ErrMissingSignupFields
	}

	// Check if email exists; the insert below is conflict-safe on its own.
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost(s.cfg))
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    s.now(),
	}

	return s.userRepo.Create(ctx, user)
}

func (s *AuthService) Signin(ctx context.Context, input SigninInput) (*SigninResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrMissingSigninFields
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			bcrypt.CompareHashAndPassword(s.dummyHash, []byte(input.Password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	session := &domain.UserSession{
		ID:        uuid.New(),
		UserName:  user.Name,
		UserEmail: user.Email,
		ExpiresAt: now.Add(s.cfg.SessionMaxAge),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	token, err := s.IssueToken(session.ID)
	if err != nil {
		return nil, err
	}

	return &SigninResult{
		User:    user.Public(),
		Session: session,
		Token:   token,
	}, nil
}

// Status never fails: any problem with the token or the store reads as
// "not authenticated".
func (s *AuthService) Status(ctx context.Context, token string) AuthStatus {
	session, err := s.lookup(ctx, token)
	if err != nil {
		return AuthStatus{Authenticated: false}
	}
	user := session.User()
	return AuthStatus{Authenticated: true, User: &user}
}

// Touch rolls the session expiry forward to now + max age.
func (s *AuthService) Touch(ctx context.Context, token string) (*domain.UserSession, error) {
	session, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(s.cfg.SessionMaxAge)
	if err := s.sessionRepo.Touch(ctx, session.ID, expiresAt); err != nil {
		return nil, err
	}
	session.ExpiresAt = expiresAt
	return session, nil
}

// Logout destroys the session behind token. A missing or invalid token is
// treated as already logged out.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	id, err := s.ParseToken(token)
	if err != nil {
		return nil
	}
	return s.sessionRepo.Delete(ctx, id)
}

// SweepExpired removes sessions whose expiry has passed.
func (s *AuthService) SweepExpired(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx, s.now())
}

// RunSweeper calls SweepExpired every interval until ctx is done.
func (s *AuthService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.SweepExpired(ctx)
			if err != nil {
				if !errors.Is(err, domain.ErrStoreNotReady) {
					log.Printf("ERROR [auth.RunSweeper] sweep failed: %v", err)
				}
				continue
			}
			if n > 0 {
				log.Printf("Swept %d expired sessions", n)
			}
		}
	}
}

func (s *AuthService) lookup(ctx context.Context, token string) (*domain.UserSession, error) {
	id, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// IssueToken signs a session id for the session cookie.
func (s *AuthService) IssueToken(sessionID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID.String(),
		"iat": s.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SessionSecret))
}

// ParseToken verifies a session cookie value and returns the session id.
func (s *AuthService) ParseToken(tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, ErrInvalidSessionToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.SessionSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidSessionToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidSessionToken
	}
	sid, ok := claims["sid"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidSessionToken
	}
	id, err := uuid.Parse(sid)
	if err != nil {
		return uuid.Nil, ErrInvalidSessionToken
	}
	return id, nil
}

func bcryptCost(cfg *config.Config) int {
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cfg.BcryptCost
}
