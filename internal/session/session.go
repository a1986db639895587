// Package session holds the per-browser server-side state the auth handlers
// write into, plus the stores that persist it and the cookie that names it.
package session

import (
	"errors"
	"time"

	"github.com/geocoder89/postboard/internal/flash"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user,omitempty"`
	Name      string    `json:"name,omitempty"`
	Flash     flash.Bag `json:"flash"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	isNew    bool
	modified bool
	replaces string
}

func New() *Session {
	now := time.Now().UTC()

	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		isNew:     true,
	}
}

// SetUser marks the session as authenticated. It is the only identity writer.
// The session moves to a fresh id so a pre-login id planted in the browser
// never becomes an authenticated one.
func (s *Session) SetUser(id, name string) {
	if !s.isNew && s.replaces == "" {
		s.replaces = s.ID
	}
	s.ID = uuid.NewString()
	s.UserID = id
	s.Name = name
	s.touch()
}

func (s *Session) Authenticated() bool {
	return s.UserID != ""
}

func (s *Session) Push(kind flash.Kind, text string) {
	s.Flash.Push(kind, text)
	s.touch()
}

// TakeFlash returns pending flash messages and clears them.
func (s *Session) TakeFlash() flash.Messages {
	if s.Flash.Len() > 0 {
		s.touch()
	}
	return s.Flash.Take()
}

func (s *Session) IsNew() bool {
	return s.isNew
}

func (s *Session) Modified() bool {
	return s.modified
}

// Replaces returns the stored id this session was rotated away from, if any.
func (s *Session) Replaces() string {
	return s.replaces
}

// MarkSaved is called by stores once the session is persisted.
func (s *Session) MarkSaved() {
	s.isNew = false
	s.modified = false
	s.replaces = ""
}

func (s *Session) touch() {
	s.modified = true
	s.UpdatedAt = time.Now().UTC()
}
