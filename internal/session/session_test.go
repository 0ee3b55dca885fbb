package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewToken(t *testing.T) {
	a := newToken()
	b := newToken()

	assert.Len(t, a, 32)
	assert.NotContains(t, a, "-")
	assert.NotEqual(t, a, b)
}

func TestSessionIdentity(t *testing.T) {
	guest := &Session{Token: "abc123"}
	id := guest.Identity()
	assert.False(t, id.IsUser())
	assert.Equal(t, "abc123", id.GuestToken)

	user := &Session{Token: "def456", UserID: 7, Role: "user"}
	id = user.Identity()
	assert.True(t, id.IsUser())
	assert.False(t, id.IsAdmin())
	assert.Empty(t, id.GuestToken)

	admin := &Session{Token: "ghi789", UserID: 1, Role: "admin"}
	assert.True(t, admin.Identity().IsAdmin())
}
