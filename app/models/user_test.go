package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserDefaults(t *testing.T) {
	user, err := CreateUser("student@example.com", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, ROLE_USER, user.Role)
	assert.Equal(t, STATUS_ACTIVE, user.Status)
	assert.True(t, user.IsActive())
	assert.False(t, user.IsModerator())
	assert.Nil(t, user.LastLoginAt)
}

func TestCreateUserRejectsInvalidEmail(t *testing.T) {
	_, err := CreateUser("not-an-email", "s3cret-pass")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	user, err := CreateUser("student@example.com", "s3cret-pass")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", user.Password)
	assert.True(t, user.CheckPassword("s3cret-pass"))
	assert.False(t, user.CheckPassword("wrong"))

	require.NoError(t, user.SetPassword("new-pass"))
	assert.True(t, user.CheckPassword("new-pass"))
	assert.False(t, user.CheckPassword("s3cret-pass"))
}

func TestIsModerator(t *testing.T) {
	user := &User{Role: ROLE_MODERATOR}
	assert.True(t, user.IsModerator())
}

func TestInactivityWindow(t *testing.T) {
	assert.Equal(t, 30*24*time.Hour, InactivityWindow)
}
