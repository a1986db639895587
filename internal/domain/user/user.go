package user

import (
	"errors"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser is the create payload handed to a user store. The store assigns ID and CreatedAt.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
}

var ErrNotFound = errors.New("user not found")

// returned by stores when the email uniqueness constraint rejects a create
var ErrEmailTaken = errors.New("email already registered")

// form payloads posted by the register and login pages

type RegisterRequest struct {
	Name     string `form:"name" json:"name" label:"Name" validate:"required"`
	Email    string `form:"email" json:"email" label:"Email" validate:"required,email"`
	Password string `form:"password" json:"password" label:"Password" validate:"required,min=6,bcryptmax"`
}

type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}
