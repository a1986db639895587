package session_test

import (
	"testing"

	"github.com/geocoder89/postboard/internal/flash"
	"github.com/geocoder89/postboard/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestSession_LifecycleFlags(t *testing.T) {
	s := session.New()

	assert.NotEmpty(t, s.ID)
	assert.True(t, s.IsNew())
	assert.False(t, s.Modified())
	assert.False(t, s.Authenticated())

	s.SetUser("userId123", "Test User")

	assert.True(t, s.Modified())
	assert.True(t, s.Authenticated())
	assert.Equal(t, "userId123", s.UserID)
	assert.Equal(t, "Test User", s.Name)

	s.MarkSaved()
	assert.False(t, s.IsNew())
	assert.False(t, s.Modified())
}

func TestSession_SetUserRotatesID(t *testing.T) {
	s := session.New()
	s.Push(flash.Success, "You are now registered! Login below.")
	s.MarkSaved()

	anonID := s.ID

	s.SetUser("userId123", "Test User")

	assert.NotEqual(t, anonID, s.ID)
	assert.Equal(t, anonID, s.Replaces())
	assert.Equal(t, 1, s.Flash.Len(), "pending flash survives the rotation")

	// a second login before saving still points at the stored id
	s.SetUser("userId456", "Other User")
	assert.Equal(t, anonID, s.Replaces())

	s.MarkSaved()
	assert.Empty(t, s.Replaces())
}

func TestSession_SetUserOnUnsavedSessionHasNothingToReplace(t *testing.T) {
	s := session.New()
	s.SetUser("userId123", "Test User")

	assert.Empty(t, s.Replaces())
	assert.True(t, s.IsNew())
}

func TestSession_TakeFlashOnlyTouchesWhenPending(t *testing.T) {
	s := session.New()

	assert.Empty(t, s.TakeFlash())
	assert.False(t, s.Modified())

	s.Push(flash.Error, "Incorrect password. Please try again.")
	s.MarkSaved()

	got := s.TakeFlash()
	assert.Equal(t, []string{"Incorrect password. Please try again."}, got.Get(flash.Error))
	assert.True(t, s.Modified())
	assert.Empty(t, s.TakeFlash())
}
