package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/postboard/internal/domain/user"
	"github.com/geocoder89/postboard/internal/observability"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UsersRepo struct {
	db   Querier
	prom *observability.Prom
}

func NewUsersRepo(db Querier, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{db: db, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		return r.db.QueryRow(
			ctx,
			`SELECT id::text, name, email, password_hash, created_at
			FROM users
			WHERE email = $1`,
			email,
		).Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.PasswordHash,
			&u.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

// Create inserts a user. The UNIQUE (email) constraint is the final guard
// against two registrations racing past the existence check.
func (r *UsersRepo) Create(ctx context.Context, in user.NewUser) (user.User, error) {
	u := user.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
	}

	err := r.observe("users.create", func() error {
		return r.db.QueryRow(
			ctx,
			`INSERT INTO users (name, email, password_hash)
			VALUES ($1, $2, $3)
			RETURNING id::text, created_at`,
			in.Name, in.Email, in.PasswordHash,
		).Scan(&u.ID, &u.CreatedAt)
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, err
	}

	return u, nil
}
