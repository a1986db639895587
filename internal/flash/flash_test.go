package flash_test

import (
	"testing"

	"github.com/geocoder89/postboard/internal/flash"
	"github.com/stretchr/testify/assert"
)

func TestBag_PushAndTake(t *testing.T) {
	var b flash.Bag

	b.Push(flash.Error, "first")
	b.Push(flash.Error, "second")
	b.Push(flash.Success, "done")
	b.Push(flash.Success, "")

	assert.Equal(t, 3, b.Len())

	got := b.Take()
	assert.Equal(t, []string{"first", "second"}, got.Get(flash.Error))
	assert.Equal(t, []string{"done"}, got.Get(flash.Success))

	// one-shot: a second take is empty
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Take())
}

func TestMessages_GetNeverNil(t *testing.T) {
	var m flash.Messages

	assert.NotNil(t, m.Get(flash.Error))
	assert.Empty(t, m.Get(flash.Error))
}
