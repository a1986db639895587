package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/geocoder89/postboard/internal/domain/user"
	"github.com/geocoder89/postboard/internal/security"
)

type SeedStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, in user.NewUser) (user.User, error)
}

type Seed struct {
	Name     string
	Email    string
	Password string
}

// EnsureSeedUser creates the configured bootstrap account when it is missing.
// An empty email or password disables seeding.
func EnsureSeedUser(ctx context.Context, store SeedStore, seed Seed, log *slog.Logger) error {
	if seed.Email == "" || seed.Password == "" {
		return nil
	}

	_, err := store.GetByEmail(ctx, seed.Email)

	if err == nil {
		return nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	hash, err := security.HashPassword(seed.Password)

	if err != nil {
		return err
	}

	_, err = store.Create(ctx, user.NewUser{
		Name:         seed.Name,
		Email:        seed.Email,
		PasswordHash: hash,
	})

	if errors.Is(err, user.ErrEmailTaken) {
		return nil
	}

	if err != nil {
		return err
	}

	log.Info("seed user created", "email", seed.Email)
	return nil
}
