package user

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-account/pkg/otp"
)

// repositoryFactories lists the stores that share the same behaviour.
func repositoryFactories(t *testing.T) map[string]func() Repository {
	return map[string]func() Repository{
		"InMem": func() Repository { return NewInMemRepository() },
		"File": func() Repository {
			repo, err := NewFileRepository(t.TempDir())
			require.NoError(t, err)
			return repo
		},
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	for name, newRepo := range repositoryFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo()

			created, err := repo.Create(ctx, CreateParams{Email: "ann@example.com", Name: "Ann", PasswordHash: "hash"})
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, created.ID)
			assert.False(t, created.IsVerified)
			assert.Nil(t, created.VerifyChallenge)
			assert.Nil(t, created.ResetChallenge)
			assert.Equal(t, int64(1), created.Version)

			byID, err := repo.GetByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, created, byID)

			byEmail, err := repo.GetByEmail(ctx, "ann@example.com")
			require.NoError(t, err)
			assert.Equal(t, created.ID, byEmail.ID)

			// lookups are case-sensitive
			_, err = repo.GetByEmail(ctx, "Ann@example.com")
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = repo.GetByID(ctx, uuid.New())
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRepository_CreateDuplicateEmail(t *testing.T) {
	for name, newRepo := range repositoryFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo()

			_, err := repo.Create(ctx, CreateParams{Email: "ann@example.com", Name: "Ann", PasswordHash: "hash"})
			require.NoError(t, err)

			_, err = repo.Create(ctx, CreateParams{Email: "ann@example.com", Name: "Other", PasswordHash: "hash2"})
			assert.ErrorIs(t, err, ErrEmailTaken)
		})
	}
}

func TestRepository_Update(t *testing.T) {
	for name, newRepo := range repositoryFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo()
			created, err := repo.Create(ctx, CreateParams{Email: "ann@example.com", Name: "Ann", PasswordHash: "hash"})
			require.NoError(t, err)

			challenge := &otp.Challenge{Code: "123456", ExpiresAt: time.Now().Add(10 * time.Minute).UTC()}
			updated, err := repo.Update(ctx, created.ID, func(u User) (User, error) {
				u.VerifyChallenge = challenge
				u.Email = "hijack@example.com"
				u.ID = uuid.New()
				return u, nil
			})
			require.NoError(t, err)
			assert.Equal(t, created.ID, updated.ID)
			assert.Equal(t, "ann@example.com", updated.Email)
			assert.Equal(t, int64(2), updated.Version)
			assert.Equal(t, challenge, updated.VerifyChallenge)

			stored, err := repo.GetByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, updated, stored)
		})
	}
}

func TestRepository_UpdateAbortsOnError(t *testing.T) {
	for name, newRepo := range repositoryFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo()
			created, err := repo.Create(ctx, CreateParams{Email: "ann@example.com", Name: "Ann", PasswordHash: "hash"})
			require.NoError(t, err)

			abort := errors.New("abort")
			_, err = repo.Update(ctx, created.ID, func(u User) (User, error) {
				u.PasswordHash = "changed"
				return u, abort
			})
			assert.ErrorIs(t, err, abort)

			stored, err := repo.GetByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, created, stored)
		})
	}
}

func TestRepository_UpdateUnknownUser(t *testing.T) {
	for name, newRepo := range repositoryFactories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := newRepo().Update(context.Background(), uuid.New(), func(u User) (User, error) { return u, nil })
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRepository_VerificationIsMonotonic(t *testing.T) {
	for name, newRepo := range repositoryFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo()
			created, err := repo.Create(ctx, CreateParams{Email: "ann@example.com", Name: "Ann", PasswordHash: "hash"})
			require.NoError(t, err)

			_, err = repo.Update(ctx, created.ID, func(u User) (User, error) {
				u.IsVerified = true
				return u, nil
			})
			require.NoError(t, err)

			updated, err := repo.Update(ctx, created.ID, func(u User) (User, error) {
				u.IsVerified = false
				return u, nil
			})
			require.NoError(t, err)
			assert.True(t, updated.IsVerified)
		})
	}
}

func TestRepository_ConcurrentUpdatesSerialize(t *testing.T) {
	for name, newRepo := range repositoryFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo()
			created, err := repo.Create(ctx, CreateParams{Email: "ann@example.com", Name: "0", PasswordHash: "hash"})
			require.NoError(t, err)

			const writers = 25
			var wg sync.WaitGroup
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := repo.Update(ctx, created.ID, func(u User) (User, error) {
						var n int
						fmt.Sscanf(u.Name, "%d", &n)
						u.Name = fmt.Sprintf("%d", n+1)
						return u, nil
					})
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			stored, err := repo.GetByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("%d", writers), stored.Name)
			assert.Equal(t, int64(writers+1), stored.Version)
		})
	}
}

func TestNewRepository(t *testing.T) {
	repo, err := NewRepository("memory", RepositoryConfig{})
	require.NoError(t, err)
	assert.IsType(t, &InMemRepository{}, repo)

	repo, err = NewRepository("file", RepositoryConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileRepository{}, repo)

	_, err = NewRepository("file", RepositoryConfig{})
	assert.Error(t, err)

	_, err = NewRepository("postgres", RepositoryConfig{})
	assert.Error(t, err)

	_, err = NewRepository("mongo", RepositoryConfig{})
	assert.Error(t, err)
}
