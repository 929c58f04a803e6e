package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dom/newsly/internal/domain"
	"github.com/dom/newsly/internal/service"
	"github.com/dom/newsly/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type authFixture struct {
	users    *testutil.MemoryUserRepository
	sessions *testutil.MemorySessionRepository
	clock    *fakeClock
	auth     *service.AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    testutil.NewMemoryUserRepository(),
		sessions: testutil.NewMemorySessionRepository(),
		clock:    newFakeClock(),
	}
	f.sessions.Now = f.clock.Now
	f.auth = service.NewAuthService(f.users, f.sessions, testutil.TestConfig()).WithClock(f.clock.Now)
	return f
}

func (f *authFixture) signin(t *testing.T, email, password string) *service.SigninResult {
	t.Helper()
	result, err := f.auth.Signin(context.Background(), service.SigninInput{Email: email, Password: password})
	require.NoError(t, err)
	return result
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   service.SignupInput
		setup   func(f *authFixture)
		wantErr error
	}{
		{
			name:  "successful signup",
			input: service.SignupInput{Name: "Asha", Email: "asha@example.com", Password: "secret"},
		},
		{
			name:  "surrounding whitespace is trimmed",
			input: service.SignupInput{Name: "  Asha ", Email: " asha@example.com ", Password: "secret"},
		},
		{
			name:    "missing name",
			input:   service.SignupInput{Email: "asha@example.com", Password: "secret"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "blank name",
			input:   service.SignupInput{Name: "   ", Email: "asha@example.com", Password: "secret"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing email",
			input:   service.SignupInput{Name: "Asha", Password: "secret"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing password",
			input:   service.SignupInput{Name: "Asha", Email: "asha@example.com"},
			wantErr: domain.ErrValidation,
		},
		{
			name:  "duplicate email",
			input: service.SignupInput{Name: "Other", Email: "asha@example.com", Password: "different"},
			setup: func(f *authFixture) {
				require.NoError(t, f.auth.Signup(ctx, service.SignupInput{Name: "Asha", Email: "asha@example.com", Password: "secret"}))
			},
			wantErr: domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			if tt.setup != nil {
				tt.setup(f)
			}

			err := f.auth.Signup(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if errors.Is(tt.wantErr, domain.ErrConflict) {
					count, _ := f.users.CountByEmail(ctx, "asha@example.com")
					assert.Equal(t, int64(1), count)
				}
				return
			}

			require.NoError(t, err)
			user, err := f.users.GetByEmail(ctx, "asha@example.com")
			require.NoError(t, err)
			assert.Equal(t, "Asha", user.Name)
			assert.NotEqual(t, tt.input.Password, user.PasswordHash)
		})
	}
}

func TestAuthService_Signup_ConcurrentDuplicates(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	const attempts = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.auth.Signup(ctx, service.SignupInput{Name: "Asha", Email: "race@example.com", Password: "secret"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	count, err := f.users.CountByEmail(ctx, "race@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAuthService_Signin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	require.NoError(t, f.auth.Signup(ctx, service.SignupInput{Name: "Asha", Email: "asha@example.com", Password: "secret"}))

	t.Run("valid credentials", func(t *testing.T) {
		result := f.signin(t, "asha@example.com", "secret")

		assert.Equal(t, domain.PublicUser{Name: "Asha", Email: "asha@example.com"}, result.User)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, f.clock.Now().Add(30*time.Minute), result.Session.ExpiresAt)

		id, err := f.auth.ParseToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, result.Session.ID, id)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := f.auth.Signin(ctx, service.SigninInput{Email: "asha@example.com"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = f.auth.Signin(ctx, service.SigninInput{Password: "secret"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, wrongPassword := f.auth.Signin(ctx, service.SigninInput{Email: "asha@example.com", Password: "nope"})
		_, unknownEmail := f.auth.Signin(ctx, service.SigninInput{Email: "ghost@example.com", Password: "secret"})

		require.Error(t, wrongPassword)
		require.Error(t, unknownEmail)
		assert.ErrorIs(t, wrongPassword, domain.ErrAuth)
		assert.ErrorIs(t, unknownEmail, domain.ErrAuth)
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	})

	t.Run("session store failure is not an auth error", func(t *testing.T) {
		f.sessions.Err = domain.ErrStorage
		defer func() { f.sessions.Err = nil }()

		_, err := f.auth.Signin(ctx, service.SigninInput{Email: "asha@example.com", Password: "secret"})
		assert.ErrorIs(t, err, domain.ErrStorage)
		assert.NotErrorIs(t, err, domain.ErrAuth)
	})
}

func TestAuthService_RollingExpiry(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	require.NoError(t, f.auth.Signup(ctx, service.SignupInput{Name: "Asha", Email: "asha@example.com", Password: "secret"}))
	token := f.signin(t, "asha@example.com", "secret").Token

	// Activity every 29 minutes keeps the session alive well past 30 minutes.
	for i := 0; i < 3; i++ {
		f.clock.Advance(29 * time.Minute)
		session, err := f.auth.Touch(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, f.clock.Now().Add(30*time.Minute), session.ExpiresAt)
	}

	status := f.auth.Status(ctx, token)
	assert.True(t, status.Authenticated)
	require.NotNil(t, status.User)
	assert.Equal(t, "asha@example.com", status.User.Email)

	// 30 minutes of inactivity ends it.
	f.clock.Advance(30 * time.Minute)
	assert.False(t, f.auth.Status(ctx, token).Authenticated)

	_, err := f.auth.Touch(ctx, token)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAuthService_Status(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "garbage token", token: "not-a-token"},
		{name: "unknown session", token: mustToken(t, f.auth, uuid.New())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := f.auth.Status(ctx, tt.token)
			assert.False(t, status.Authenticated)
			assert.Nil(t, status.User)
		})
	}

	t.Run("store failure reads as unauthenticated", func(t *testing.T) {
		require.NoError(t, f.auth.Signup(ctx, service.SignupInput{Name: "Asha", Email: "asha@example.com", Password: "secret"}))
		token := f.signin(t, "asha@example.com", "secret").Token

		f.sessions.Err = domain.ErrStorage
		defer func() { f.sessions.Err = nil }()

		assert.False(t, f.auth.Status(ctx, token).Authenticated)
	})
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	require.NoError(t, f.auth.Signup(ctx, service.SignupInput{Name: "Asha", Email: "asha@example.com", Password: "secret"}))
	token := f.signin(t, "asha@example.com", "secret").Token

	require.NoError(t, f.auth.Logout(ctx, token))
	assert.False(t, f.auth.Status(ctx, token).Authenticated)
	assert.Equal(t, 0, f.sessions.Len())

	// Repeated or anonymous logout is still acknowledged.
	assert.NoError(t, f.auth.Logout(ctx, token))
	assert.NoError(t, f.auth.Logout(ctx, ""))

	f.sessions.Err = domain.ErrStorage
	other := mustToken(t, f.auth, uuid.New())
	assert.ErrorIs(t, f.auth.Logout(ctx, other), domain.ErrStorage)
}

func TestAuthService_ParseToken(t *testing.T) {
	f := newAuthFixture()
	id := uuid.New()
	token := mustToken(t, f.auth, id)

	parsed, err := f.auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	otherCfg := testutil.TestConfig()
	otherCfg.SessionSecret = "a-different-secret"
	other := service.NewAuthService(f.users, f.sessions, otherCfg)

	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, service.ErrInvalidSessionToken)

	_, err = f.auth.ParseToken(token + "x")
	assert.ErrorIs(t, err, service.ErrInvalidSessionToken)
}

func TestAuthService_SweepExpired(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	require.NoError(t, f.auth.Signup(ctx, service.SignupInput{Name: "Asha", Email: "asha@example.com", Password: "secret"}))

	f.signin(t, "asha@example.com", "secret")
	f.clock.Advance(20 * time.Minute)
	f.signin(t, "asha@example.com", "secret")
	f.clock.Advance(15 * time.Minute)

	n, err := f.auth.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, f.sessions.Len())
}

func mustToken(t *testing.T, auth *service.AuthService, id uuid.UUID) string {
	t.Helper()
	token, err := auth.IssueToken(id)
	require.NoError(t, err)
	return token
}
