package actorctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserIDRoundTrip(t *testing.T) {
	_, ok := UserIDFrom(context.Background())
	assert.False(t, ok)

	_, ok = UserIDFrom(WithUserID(context.Background(), ""))
	assert.False(t, ok)

	id, ok := UserIDFrom(WithUserID(context.Background(), "u-1"))
	assert.True(t, ok)
	assert.Equal(t, "u-1", id)
}
