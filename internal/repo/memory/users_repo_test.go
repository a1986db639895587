package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/geocoder89/postboard/internal/domain/user"
	"github.com/geocoder89/postboard/internal/repo/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUsersRepo()

	_, err := repo.GetByEmail(ctx, "test@example.com")
	assert.ErrorIs(t, err, user.ErrNotFound)

	created, err := repo.Create(ctx, user.NewUser{Name: "Test User", Email: "test@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	// emails are compared as stored
	_, err = repo.GetByEmail(ctx, "TEST@example.com")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUsersRepo_ConcurrentDuplicateCreates(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUsersRepo()

	const workers = 16

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		taken   int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := repo.Create(ctx, user.NewUser{Name: "Test User", Email: "race@example.com", PasswordHash: "hash"})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, user.ErrEmailTaken):
				taken++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, taken)
	assert.Equal(t, 1, repo.Len())
}

func TestUsersRepo_RespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := memory.NewUsersRepo()

	_, err := repo.Create(ctx, user.NewUser{Email: "test@example.com"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = repo.GetByEmail(ctx, "test@example.com")
	assert.ErrorIs(t, err, context.Canceled)
}
