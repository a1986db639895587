package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/geocoder89/postboard/internal/domain/user"
	"github.com/geocoder89/postboard/internal/flash"
	"github.com/geocoder89/postboard/internal/security"
	"github.com/geocoder89/postboard/internal/validation"
	"github.com/samber/oops"
)

// Redirect is the path the browser is sent to after a form post.
type Redirect string

const (
	RedirectRegister Redirect = "/register"
	RedirectLogin    Redirect = "/login"
	RedirectHome     Redirect = "/"
)

const (
	MsgUserExists        = "User already exists. Please login."
	MsgRegistered        = "You are now registered! Login below."
	MsgIncorrectPassword = "Incorrect password. Please try again."
)

// outcome labels reported to the OutcomeRecorder
const (
	OutcomeRejected  = "rejected"
	OutcomeDuplicate = "duplicate"
	OutcomeCreated   = "created"
	OutcomeDeclined  = "declined"
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

type Validator interface {
	Validate(v any) validation.Result
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, in user.NewUser) (user.User, error)
}

type PasswordHasher interface {
	Hash(plain string, cost int) (string, error)
	Compare(plain, hash string) (bool, error)
}

// SessionWriter is the only session capability the core needs.
type SessionWriter interface {
	SetUser(id, name string)
}

type OutcomeRecorder interface {
	Observe(op, outcome string)
}

type Registration = user.RegisterRequest

type Credentials = user.LoginRequest

type Service struct {
	users     UserStore
	hasher    PasswordHasher
	validator Validator
	log       *slog.Logger
	recorder  OutcomeRecorder
}

type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithRecorder(r OutcomeRecorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

func NewService(users UserStore, hasher PasswordHasher, validator Validator, opts ...Option) *Service {
	s := &Service{
		users:     users,
		hasher:    hasher,
		validator: validator,
		log:       slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Register validates the form, refuses duplicate emails, stores the bcrypt
// hash of the password and tells the user to log in.
func (s *Service) Register(ctx context.Context, in Registration, notify flash.Notifier) (Redirect, error) {
	const op = "register"

	res := s.validator.Validate(in)

	if !res.IsEmpty() {
		notify.Push(flash.Error, strings.Join(res.Messages(), " "))
		s.done(ctx, op, OutcomeRejected, "fields", len(res.Array()))
		return RedirectRegister, nil
	}

	_, err := s.users.GetByEmail(ctx, in.Email)

	if err == nil {
		notify.Push(flash.Error, MsgUserExists)
		s.done(ctx, op, OutcomeDuplicate, "email", in.Email)
		return RedirectLogin, nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return "", s.fail(ctx, op, "get user by email", err)
	}

	hash, err := s.hasher.Hash(in.Password, security.RegistrationCost)

	if err != nil {
		return "", s.fail(ctx, op, "hash password", err)
	}

	created, err := s.users.Create(ctx, user.NewUser{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})

	if err != nil {
		// a concurrent registration won the race; the unique constraint caught it
		if errors.Is(err, user.ErrEmailTaken) {
			notify.Push(flash.Error, MsgUserExists)
			s.done(ctx, op, OutcomeDuplicate, "email", in.Email, "race", true)
			return RedirectLogin, nil
		}

		return "", s.fail(ctx, op, "create user", err)
	}

	notify.Push(flash.Success, MsgRegistered)
	s.done(ctx, op, OutcomeCreated, "user_id", created.ID)
	return RedirectLogin, nil
}

// Login checks the password against the stored hash and, only on a match,
// writes the user's identity into the session. An unknown email and a wrong
// password produce the same response.
func (s *Service) Login(ctx context.Context, in Credentials, sess SessionWriter, notify flash.Notifier) (Redirect, error) {
	const op = "login"

	found, err := s.users.GetByEmail(ctx, in.Email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			notify.Push(flash.Error, MsgIncorrectPassword)
			s.done(ctx, op, OutcomeDeclined)
			return RedirectLogin, nil
		}

		return "", s.fail(ctx, op, "get user by email", err)
	}

	ok, err := s.hasher.Compare(in.Password, found.PasswordHash)

	if err != nil {
		return "", s.fail(ctx, op, "compare password", err)
	}

	if !ok {
		notify.Push(flash.Error, MsgIncorrectPassword)
		s.done(ctx, op, OutcomeDeclined)
		return RedirectLogin, nil
	}

	sess.SetUser(found.ID, found.Name)
	s.done(ctx, op, OutcomeSucceeded, "user_id", found.ID)
	return RedirectHome, nil
}

func (s *Service) done(ctx context.Context, op, outcome string, attrs ...any) {
	if s.recorder != nil {
		s.recorder.Observe(op, outcome)
	}

	s.log.InfoContext(ctx, "auth."+op, append([]any{"outcome", outcome}, attrs...)...)
}

func (s *Service) fail(ctx context.Context, op, operation string, err error) error {
	if s.recorder != nil {
		s.recorder.Observe(op, OutcomeFailed)
	}

	s.log.ErrorContext(ctx, "auth."+op, "outcome", OutcomeFailed, "operation", operation, "err", err)

	return oops.
		Code("AUTH_"+strings.ToUpper(op)+"_FAILED").
		With("operation", operation).
		Wrap(errors.Join(ErrDependency, err))
}
