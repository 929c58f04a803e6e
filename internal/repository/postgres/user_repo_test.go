package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dom/newsly/internal/domain"
	"github.com/dom/newsly/internal/repository/postgres"
	"github.com/dom/newsly/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(postgres.NewReadyHandle(testDB.DB))
	ctx := context.Background()

	first, _ := testutil.NewUserBuilder().WithEmail("asha@example.com").User(t)
	second, _ := testutil.NewUserBuilder().WithEmail("asha@example.com").User(t)

	tests := []struct {
		name    string
		user    *domain.User
		wantErr error
	}{
		{name: "successful creation", user: first},
		{name: "duplicate email", user: second, wantErr: domain.ErrEmailExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrConflict)
				return
			}
			require.NoError(t, err)
		})
	}

	count, err := repo.CountByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_ConcurrentCreate(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(postgres.NewReadyHandle(testDB.DB))
	ctx := context.Background()

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	for i := 0; i < attempts; i++ {
		user, _ := testutil.NewUserBuilder().WithEmail("race@example.com").User(t)
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Create(ctx, user)
			if err != nil && !errors.Is(err, domain.ErrEmailExists) {
				t.Errorf("unexpected error: %v", err)
			}
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)

	count, err := repo.CountByEmail(ctx, "race@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(postgres.NewReadyHandle(testDB.DB))
	ctx := context.Background()

	created, _ := testutil.NewUserBuilder().WithName("Asha").Build(t, repo)

	t.Run("existing user", func(t *testing.T) {
		user, err := repo.GetByEmail(ctx, created.Email)
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
		assert.Equal(t, "Asha", user.Name)
		assert.Equal(t, created.PasswordHash, user.PasswordHash)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
